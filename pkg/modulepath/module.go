// SPDX-License-Identifier: MPL-2.0

package modulepath

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// KindPlain is a script module that is neither a template nor test support.
	KindPlain ModuleKind = iota
	// KindTemplate is a template module outside templates/components/.
	KindTemplate
	// KindComponentTemplate is a template module under templates/components/.
	KindComponentTemplate
	// KindTestSupport is a module under test-support/.
	KindTestSupport

	templatesDir   = "templates"
	componentsDir  = "components"
	testSupportDir = "test-support"
)

// ErrInvalidModuleName is the sentinel error wrapped by InvalidModuleNameError.
var ErrInvalidModuleName = errors.New("invalid module name")

type (
	// ModuleName is a slash-separated module path without extension, for
	// example "templates/components/foo" or "routes/foo". A single leading
	// separator is tolerated by every classification predicate.
	ModuleName string

	// InvalidModuleNameError is returned when a ModuleName is empty or
	// whitespace-only.
	InvalidModuleNameError struct {
		Value ModuleName
	}

	// ModuleKind is the convention a module name falls under.
	ModuleKind int
)

// String returns the string representation of the ModuleName.
func (m ModuleName) String() string { return string(m) }

// IsValid returns whether the ModuleName is usable as CLI input.
// Build itself accepts any value, including invalid ones.
func (m ModuleName) IsValid() (bool, []error) {
	if strings.TrimSpace(string(m)) == "" {
		return false, []error{&InvalidModuleNameError{Value: m}}
	}
	return true, nil
}

// Error implements the error interface for InvalidModuleNameError.
func (e *InvalidModuleNameError) Error() string {
	return fmt.Sprintf("invalid module name %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidModuleName for errors.Is() compatibility.
func (e *InvalidModuleNameError) Unwrap() error { return ErrInvalidModuleName }

// String returns the lower-case name of the kind.
func (k ModuleKind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindTemplate:
		return "template"
	case KindComponentTemplate:
		return "component-template"
	case KindTestSupport:
		return "test-support"
	default:
		return fmt.Sprintf("ModuleKind(%d)", int(k))
	}
}

// MarshalText encodes the kind by name for JSON and TOML output.
func (k ModuleKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// IsTemplate reports whether modules of this kind have a template candidate.
func (k ModuleKind) IsTemplate() bool {
	return k == KindTemplate || k == KindComponentTemplate
}

// IsTemplateModule reports whether name starts with "templates/", ignoring
// at most one leading separator.
func IsTemplateModule(name string) bool {
	return hasDirPrefix(name, templatesDir)
}

// IsComponentTemplateModule reports whether name starts with
// "templates/components/", ignoring at most one leading separator. Every
// component template module is also a template module.
func IsComponentTemplateModule(name string) bool {
	return hasDirPrefix(name, templatesDir, componentsDir)
}

// IsTestSupportModule reports whether name starts with "test-support/",
// ignoring at most one leading separator.
func IsTestSupportModule(name string) bool {
	return hasDirPrefix(name, testSupportDir)
}

// Classify folds the three predicates into a single kind. Test support wins
// over templates, and component templates over other templates.
func Classify(name ModuleName) ModuleKind {
	s := string(name)
	switch {
	case IsTestSupportModule(s):
		return KindTestSupport
	case IsComponentTemplateModule(s):
		return KindComponentTemplate
	case IsTemplateModule(s):
		return KindTemplate
	default:
		return KindPlain
	}
}

// ReexportModulePath returns the module path of the script paired with a
// template. Component templates drop their leading "templates/" (and the
// optional leading separator); every other name is returned unchanged.
func ReexportModulePath(name ModuleName) ModuleName {
	if !IsComponentTemplateModule(string(name)) {
		return name
	}
	rest := trimLeadingSeparator(string(name))
	return ModuleName(rest[len(templatesDir)+1:])
}

// hasDirPrefix reports whether name, after dropping one leading separator,
// begins with dirs joined and terminated by separators.
func hasDirPrefix(name string, dirs ...string) bool {
	rest := trimLeadingSeparator(name)
	for _, dir := range dirs {
		if !strings.HasPrefix(rest, dir) {
			return false
		}
		rest = rest[len(dir):]
		if rest == "" || !isSeparator(rest[0]) {
			return false
		}
		rest = rest[1:]
	}
	return true
}

func trimLeadingSeparator(name string) string {
	if name != "" && isSeparator(name[0]) {
		return name[1:]
	}
	return name
}

// isSeparator accepts '/' everywhere and the host separator on Windows.
func isSeparator(c byte) bool {
	return c == '/' || c == filepath.Separator
}
