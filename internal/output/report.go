// SPDX-License-Identifier: MPL-2.0

package output

import (
	"github.com/addonpaths/addonpaths/pkg/modulepath"
)

// Report is one enumeration: the request, how its module was classified and
// the candidates in probe order.
type Report struct {
	Module         modulepath.ModuleName    `json:"module" toml:"module"`
	ProjectRoot    string                   `json:"project_root" toml:"project_root"`
	AppName        string                   `json:"app_name" toml:"app_name"`
	AddonNamespace string                   `json:"addon_namespace" toml:"addon_namespace"`
	AddonSources   []modulepath.AddonSource `json:"addon_sources" toml:"addon_sources"`
	Kind           modulepath.ModuleKind    `json:"kind" toml:"kind"`
	// Ownership is derived from the namespace alone. SearchOwnership is the
	// ownership the candidates were enumerated under; the two differ for
	// app-owned test-support modules, which are still looked up in addons.
	Ownership       modulepath.Ownership `json:"ownership" toml:"ownership"`
	SearchOwnership modulepath.Ownership `json:"search_ownership" toml:"search_ownership"`
	Candidates     []modulepath.Candidate   `json:"candidates" toml:"candidates"`

	// Styled adds a colored header to text output.
	Styled bool `json:"-" toml:"-"`
}

// NewReport enumerates the request's candidates and records their context.
func NewReport(req modulepath.Request) Report {
	return Report{
		Module:         req.ModuleName,
		ProjectRoot:    req.ProjectRoot.String(),
		AppName:        req.AppName,
		AddonNamespace: req.AddonNamespace,
		AddonSources:   req.AddonSources(),
		Kind:           req.Kind(),
		Ownership:       req.Ownership(),
		SearchOwnership: req.SearchOwnership(),
		Candidates:     modulepath.Build(req),
	}
}

// Paths returns the candidate paths in probe order.
func (r Report) Paths() []string {
	paths := make([]string, len(r.Candidates))
	for i, c := range r.Candidates {
		paths[i] = c.Path
	}
	return paths
}
