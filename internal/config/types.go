// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"

	"github.com/addonpaths/addonpaths/pkg/modulepath"
	"github.com/addonpaths/addonpaths/pkg/types"
)

const (
	// OutputFormatText prints one candidate path per line.
	// Defined locally to avoid coupling config to internal/output;
	// the CLI casts to output.Format at the boundary.
	OutputFormatText OutputFormat = "text"
	// OutputFormatJSON prints the candidate report as JSON.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatTOML prints the candidate report as TOML.
	OutputFormatTOML OutputFormat = "toml"
	// OutputFormatShell prints one shell-quoted candidate path per line.
	OutputFormatShell OutputFormat = "shell"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultDebounceMS is the default quiet period of candidates --watch.
	DefaultDebounceMS = 300
)

var (
	// ErrInvalidOutputFormat is returned when an OutputFormat value is not recognized.
	ErrInvalidOutputFormat = errors.New("invalid output format")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidDebounce is returned when watch.debounce_ms is negative.
	ErrInvalidDebounce = errors.New("invalid debounce")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// OutputFormat selects how candidate lists are printed.
	OutputFormat string

	// InvalidOutputFormatError is returned when an OutputFormat value is not recognized.
	// It wraps ErrInvalidOutputFormat for errors.Is() compatibility.
	InvalidOutputFormatError struct {
		Value OutputFormat
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidDebounceError is returned when a debounce period is negative.
	InvalidDebounceError struct {
		Value int
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// AppName is the host application name; empty means the base name of the project root.
		AppName string `json:"app_name" mapstructure:"app_name"`
		// ProjectRoot is the directory candidates are rooted at; empty means the working directory.
		ProjectRoot types.FilesystemPath `json:"project_root" mapstructure:"project_root"`
		// ExtraAddonSources are searched after lib and node_modules, in order.
		ExtraAddonSources []modulepath.AddonSource `json:"extra_addon_sources" mapstructure:"extra_addon_sources"`
		// Output configures candidate printing
		Output OutputConfig `json:"output" mapstructure:"output"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
		// Watch configures candidates --watch
		Watch WatchConfig `json:"watch" mapstructure:"watch"`
	}

	// OutputConfig configures candidate printing.
	OutputConfig struct {
		Format OutputFormat `json:"format" mapstructure:"format"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables debug logging
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// WatchConfig configures the config file watcher.
	WatchConfig struct {
		// DebounceMS is the quiet period in milliseconds before candidates are re-printed.
		DebounceMS int `json:"debounce_ms" mapstructure:"debounce_ms"`
	}
)

// IsValid returns whether the Config has valid fields.
// ProjectRoot is only checked when set; the zero value means the working directory.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if c.ProjectRoot != "" {
		if valid, fieldErrs := c.ProjectRoot.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	for _, src := range c.ExtraAddonSources {
		if valid, fieldErrs := src.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if valid, fieldErrs := c.Output.Format.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if c.Watch.DebounceMS < 0 {
		errs = append(errs, &InvalidDebounceError{Value: c.Watch.DebounceMS})
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Error implements the error interface for InvalidOutputFormatError.
func (e *InvalidOutputFormatError) Error() string {
	return fmt.Sprintf("invalid output format %q (valid: text, json, toml, shell)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidOutputFormatError) Unwrap() error { return ErrInvalidOutputFormat }

// String returns the string representation of the OutputFormat.
func (f OutputFormat) String() string { return string(f) }

// IsValid returns whether the OutputFormat is one of the defined formats,
// and a list of validation errors if it is not.
func (f OutputFormat) IsValid() (bool, []error) {
	switch f {
	case OutputFormatText, OutputFormatJSON, OutputFormatTOML, OutputFormatShell:
		return true, nil
	default:
		return false, []error{&InvalidOutputFormatError{Value: f}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidDebounceError.
func (e *InvalidDebounceError) Error() string {
	return fmt.Sprintf("invalid debounce %dms: must not be negative", e.Value)
}

// Unwrap returns ErrInvalidDebounce for errors.Is() compatibility.
func (e *InvalidDebounceError) Unwrap() error { return ErrInvalidDebounce }

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		AppName:           "",
		ProjectRoot:       "",
		ExtraAddonSources: []modulepath.AddonSource{},
		Output: OutputConfig{
			Format: OutputFormatText,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
		Watch: WatchConfig{
			DebounceMS: DefaultDebounceMS,
		},
	}
}
