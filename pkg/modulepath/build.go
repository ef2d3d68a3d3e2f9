// SPDX-License-Identifier: MPL-2.0

package modulepath

import (
	"fmt"

	"github.com/addonpaths/addonpaths/pkg/types"
)

const (
	// OwnedByApp means the addon namespace equals the application name, so
	// the module lives in the application's own app tree.
	OwnedByApp Ownership = iota
	// OwnedByAddon means the module is re-exported through an addon package.
	OwnedByAddon
)

type (
	// Ownership tells whether the application itself or an addon owns a module.
	Ownership int

	// Request holds the inputs of one enumeration.
	Request struct {
		ProjectRoot    types.FilesystemPath
		AppName        string
		AddonNamespace string
		ModuleName     ModuleName
		// ExtraAddonSources are searched after the default sources, in order.
		ExtraAddonSources []AddonSource
	}

	// Candidate is one location where the requested module might reside,
	// along with the segments that produced it. AddonSource and Subdirectory
	// are empty for app-owned candidates.
	Candidate struct {
		Path         string           `json:"path" toml:"path"`
		ModulePath   ModuleName       `json:"module_path" toml:"module_path"`
		Extension    Extension        `json:"extension" toml:"extension"`
		Ownership    Ownership        `json:"ownership" toml:"ownership"`
		AddonSource  AddonSource      `json:"addon_source,omitempty" toml:"addon_source,omitempty"`
		Subdirectory SubdirectoryKind `json:"subdirectory,omitempty" toml:"subdirectory,omitempty"`
	}

	// strategyKey selects an emitter by module kind and ownership.
	strategyKey struct {
		kind      ModuleKind
		ownership Ownership
	}

	// plan is a Request with its classification and source list resolved.
	plan struct {
		root      types.FilesystemPath
		namespace string
		module    ModuleName
		reexport  ModuleName
		sources   []AddonSource
	}

	emitter func(p plan) []Candidate
)

// strategies maps every (kind, ownership) pair to its emitter. Test-support
// modules ignore ownership: even app-owned helpers are looked up in the
// addon-test-support trees, never under <root>/app.
var strategies = map[strategyKey]emitter{
	{KindTestSupport, OwnedByApp}:         emitTestSupport,
	{KindTestSupport, OwnedByAddon}:       emitTestSupport,
	{KindComponentTemplate, OwnedByApp}:   emitAppTemplate,
	{KindComponentTemplate, OwnedByAddon}: emitAddonTemplate,
	{KindTemplate, OwnedByApp}:            emitAppTemplate,
	{KindTemplate, OwnedByAddon}:          emitAddonTemplate,
	{KindPlain, OwnedByApp}:               emitAppScript,
	{KindPlain, OwnedByAddon}:             emitAddonScript,
}

// String returns "app" or "addon".
func (o Ownership) String() string {
	switch o {
	case OwnedByApp:
		return "app"
	case OwnedByAddon:
		return "addon"
	default:
		return fmt.Sprintf("Ownership(%d)", int(o))
	}
}

// MarshalText encodes the ownership by name for JSON and TOML output.
func (o Ownership) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// OwnershipOf returns OwnedByApp when addonNamespace equals appName.
func OwnershipOf(appName, addonNamespace string) Ownership {
	if addonNamespace == appName {
		return OwnedByApp
	}
	return OwnedByAddon
}

// AddonSources returns the default sources followed by the request's extras.
func (r Request) AddonSources() []AddonSource {
	sources := make([]AddonSource, 0, len(defaultAddonSources)+len(r.ExtraAddonSources))
	sources = append(sources, defaultAddonSources...)
	return append(sources, r.ExtraAddonSources...)
}

// Kind classifies the request's module name.
func (r Request) Kind() ModuleKind { return Classify(r.ModuleName) }

// Ownership reports who owns the requested module.
func (r Request) Ownership() Ownership { return OwnershipOf(r.AppName, r.AddonNamespace) }

// SearchOwnership reports which trees Build searches. It equals Ownership
// except for test-support modules, which are always looked up in addon trees.
func (r Request) SearchOwnership() Ownership {
	if r.Kind() == KindTestSupport {
		return OwnedByAddon
	}
	return r.Ownership()
}

// Build enumerates the candidate locations of the requested module, in probe
// order. The outer loop runs over addon sources and the inner loop over
// subdirectory kinds. Duplicates are kept and nothing is checked on disk.
func Build(req Request) []Candidate {
	p := plan{
		root:      req.ProjectRoot,
		namespace: req.AddonNamespace,
		module:    req.ModuleName,
		reexport:  ReexportModulePath(req.ModuleName),
		sources:   req.AddonSources(),
	}
	return strategies[strategyKey{req.Kind(), req.Ownership()}](p)
}

// BuildPaths is the string form of Build: it returns only the candidate paths.
func BuildPaths(projectRoot, appName, addonNamespace, moduleName string, extraAddonSources ...string) []string {
	extras := make([]AddonSource, len(extraAddonSources))
	for i, s := range extraAddonSources {
		extras[i] = AddonSource(s)
	}

	candidates := Build(Request{
		ProjectRoot:       types.FilesystemPath(projectRoot),
		AppName:           appName,
		AddonNamespace:    addonNamespace,
		ModuleName:        ModuleName(moduleName),
		ExtraAddonSources: extras,
	})

	paths := make([]string, len(candidates))
	for i, c := range candidates {
		paths[i] = c.Path
	}
	return paths
}

func emitTestSupport(p plan) []Candidate {
	return p.acrossAddons(testSupportSubdirectories, func(source AddonSource, subdir SubdirectoryKind) []Candidate {
		return []Candidate{p.addonCandidate(source, subdir, p.module, ExtScript)}
	})
}

func emitAppTemplate(p plan) []Candidate {
	return []Candidate{
		p.appCandidate(p.module, ExtTemplate),
		p.appCandidate(p.reexport, ExtScript),
	}
}

func emitAddonTemplate(p plan) []Candidate {
	return p.acrossAddons(scriptSubdirectories, func(source AddonSource, subdir SubdirectoryKind) []Candidate {
		return []Candidate{
			p.addonCandidate(source, subdir, p.module, ExtTemplate),
			p.addonCandidate(source, subdir, p.reexport, ExtScript),
		}
	})
}

func emitAppScript(p plan) []Candidate {
	return []Candidate{p.appCandidate(p.module, ExtScript)}
}

func emitAddonScript(p plan) []Candidate {
	return p.acrossAddons(scriptSubdirectories, func(source AddonSource, subdir SubdirectoryKind) []Candidate {
		return []Candidate{p.addonCandidate(source, subdir, p.module, ExtScript)}
	})
}

// acrossAddons calls emit for every source x subdirectory pair and
// concatenates the results in loop order.
func (p plan) acrossAddons(subdirs []SubdirectoryKind, emit func(AddonSource, SubdirectoryKind) []Candidate) []Candidate {
	out := make([]Candidate, 0, len(p.sources)*len(subdirs)*2)
	for _, source := range p.sources {
		for _, subdir := range subdirs {
			out = append(out, emit(source, subdir)...)
		}
	}
	return out
}

func (p plan) appCandidate(module ModuleName, ext Extension) Candidate {
	return Candidate{
		Path: AppPath(AppPathSegments{
			ProjectRoot: p.root,
			ModulePath:  module,
			Extension:   ext,
		}),
		ModulePath: module,
		Extension:  ext,
		Ownership:  OwnedByApp,
	}
}

func (p plan) addonCandidate(source AddonSource, subdir SubdirectoryKind, module ModuleName, ext Extension) Candidate {
	return Candidate{
		Path: AddonPath(AddonPathSegments{
			AppPathSegments: AppPathSegments{
				ProjectRoot: p.root,
				ModulePath:  module,
				Extension:   ext,
			},
			AddonSource:    source,
			AddonNamespace: p.namespace,
			Subdirectory:   subdir,
		}),
		ModulePath:   module,
		Extension:    ext,
		Ownership:    OwnedByAddon,
		AddonSource:  source,
		Subdirectory: subdir,
	}
}
