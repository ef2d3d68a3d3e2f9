// SPDX-License-Identifier: MPL-2.0

package output

import (
	"errors"
	"fmt"
)

const (
	// FormatText prints one candidate path per line.
	FormatText Format = "text"
	// FormatJSON prints the whole report as indented JSON.
	FormatJSON Format = "json"
	// FormatTOML prints the whole report as TOML.
	FormatTOML Format = "toml"
	// FormatShell prints one shell-quoted candidate path per line.
	FormatShell Format = "shell"
)

// ErrInvalidFormat is the sentinel error wrapped by InvalidFormatError.
var ErrInvalidFormat = errors.New("invalid output format")

type (
	// Format selects how a Report is written.
	Format string

	// InvalidFormatError is returned when a Format value is not recognized.
	// It wraps ErrInvalidFormat for errors.Is() compatibility.
	InvalidFormatError struct {
		Value Format
	}
)

// Formats returns every supported format in display order.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatTOML, FormatShell}
}

// String returns the string representation of the Format.
func (f Format) String() string { return string(f) }

// IsValid returns whether the Format is one of the defined formats,
// and a list of validation errors if it is not.
func (f Format) IsValid() (bool, []error) {
	switch f {
	case FormatText, FormatJSON, FormatTOML, FormatShell:
		return true, nil
	default:
		return false, []error{&InvalidFormatError{Value: f}}
	}
}

// Error implements the error interface for InvalidFormatError.
func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid output format %q (valid: text, json, toml, shell)", e.Value)
}

// Unwrap returns ErrInvalidFormat for errors.Is() compatibility.
func (e *InvalidFormatError) Unwrap() error { return ErrInvalidFormat }
