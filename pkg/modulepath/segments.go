// SPDX-License-Identifier: MPL-2.0

package modulepath

import (
	"errors"
	"fmt"
	"strings"

	"github.com/addonpaths/addonpaths/pkg/fspath"
	"github.com/addonpaths/addonpaths/pkg/types"
)

const (
	// SourceLib is the project-local addon root (in-repo addons and engines).
	SourceLib AddonSource = "lib"
	// SourceNodeModules is the installed-dependency addon root.
	SourceNodeModules AddonSource = "node_modules"

	// SubdirApp is the addon tree re-exported into the host application.
	SubdirApp SubdirectoryKind = "app"
	// SubdirAddon is the addon's own namespaced source tree.
	SubdirAddon SubdirectoryKind = "addon"
	// SubdirAddonTestSupport is the addon tree holding test helpers.
	SubdirAddonTestSupport SubdirectoryKind = "addon-test-support"

	// ExtScript is the extension of script modules.
	ExtScript Extension = ".js"
	// ExtTemplate is the extension of template modules.
	ExtTemplate Extension = ".hbs"

	// appDir is the host application's source tree under the project root.
	appDir = "app"
)

var (
	// ErrInvalidAddonSource is the sentinel error wrapped by InvalidAddonSourceError.
	ErrInvalidAddonSource = errors.New("invalid addon source")

	defaultAddonSources = []AddonSource{SourceLib, SourceNodeModules}

	// scriptSubdirectories are searched for every module except test support.
	scriptSubdirectories = []SubdirectoryKind{SubdirApp, SubdirAddon}
	// testSupportSubdirectories are searched for test-support modules only.
	testSupportSubdirectories = []SubdirectoryKind{SubdirAddonTestSupport}
)

type (
	// AddonSource names a directory under the project root that may contain
	// addon packages, such as "lib", "node_modules" or "node_modules/@scope".
	AddonSource string

	// InvalidAddonSourceError is returned when an AddonSource is empty or
	// whitespace-only.
	InvalidAddonSourceError struct {
		Value AddonSource
	}

	// SubdirectoryKind is the convention directory inside an addon package.
	SubdirectoryKind string

	// Extension is a literal file suffix including its leading dot.
	Extension string

	// AppPathSegments are the inputs of AppPath.
	AppPathSegments struct {
		ProjectRoot types.FilesystemPath
		ModulePath  ModuleName
		Extension   Extension
	}

	// AddonPathSegments are the inputs of AddonPath.
	AddonPathSegments struct {
		AppPathSegments
		AddonSource    AddonSource
		AddonNamespace string
		Subdirectory   SubdirectoryKind
	}
)

// String returns the string representation of the AddonSource.
func (s AddonSource) String() string { return string(s) }

// IsValid returns whether the AddonSource is non-empty and not whitespace-only.
func (s AddonSource) IsValid() (bool, []error) {
	if strings.TrimSpace(string(s)) == "" {
		return false, []error{&InvalidAddonSourceError{Value: s}}
	}
	return true, nil
}

// Error implements the error interface for InvalidAddonSourceError.
func (e *InvalidAddonSourceError) Error() string {
	return fmt.Sprintf("invalid addon source %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidAddonSource for errors.Is() compatibility.
func (e *InvalidAddonSourceError) Unwrap() error { return ErrInvalidAddonSource }

// String returns the string representation of the SubdirectoryKind.
func (k SubdirectoryKind) String() string { return string(k) }

// String returns the string representation of the Extension.
func (e Extension) String() string { return string(e) }

// DefaultAddonSources returns a copy of the addon roots that are always
// searched, in search order.
func DefaultAddonSources() []AddonSource {
	out := make([]AddonSource, len(defaultAddonSources))
	copy(out, defaultAddonSources)
	return out
}

// AppPath returns <root>/app/<module><ext>.
func AppPath(s AppPathSegments) string {
	joined := fspath.JoinStr(s.ProjectRoot, appDir, string(s.ModulePath))
	return string(joined) + string(s.Extension)
}

// AddonPath returns <root>/<source>/<namespace>/<subdirectory>/<module><ext>.
func AddonPath(s AddonPathSegments) string {
	joined := fspath.JoinStr(
		s.ProjectRoot,
		string(s.AddonSource),
		s.AddonNamespace,
		string(s.Subdirectory),
		string(s.ModulePath),
	)
	return string(joined) + string(s.Extension)
}
