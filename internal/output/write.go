// SPDX-License-Identifier: MPL-2.0

package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"
	"mvdan.cc/sh/v3/syntax"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

// Write renders report to w in the given format.
func Write(w io.Writer, format Format, report Report) error {
	switch format {
	case FormatText:
		return writeText(w, report)
	case FormatJSON:
		return writeJSON(w, report)
	case FormatTOML:
		return writeTOML(w, report)
	case FormatShell:
		return writeShell(w, report)
	default:
		return &InvalidFormatError{Value: format}
	}
}

func writeText(w io.Writer, report Report) error {
	if report.Styled {
		header := headerStyle.Render(report.Module.String()) + " " +
			mutedStyle.Render(fmt.Sprintf("(%s, %s-owned, %d candidates)",
				report.Kind, report.Ownership, len(report.Candidates)))
		if _, err := fmt.Fprintln(w, header); err != nil {
			return err
		}
	}
	for _, c := range report.Candidates {
		if _, err := fmt.Fprintln(w, c.Path); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, report Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func writeTOML(w io.Writer, report Report) error {
	if err := toml.NewEncoder(w).Encode(report); err != nil {
		return fmt.Errorf("failed to encode TOML: %w", err)
	}
	return nil
}

// writeShell prints POSIX-quoted paths so the output can be fed to eval or xargs.
func writeShell(w io.Writer, report Report) error {
	for _, c := range report.Candidates {
		quoted, err := syntax.Quote(c.Path, syntax.LangPOSIX)
		if err != nil {
			return fmt.Errorf("failed to quote %q: %w", c.Path, err)
		}
		if _, err := fmt.Fprintln(w, quoted); err != nil {
			return err
		}
	}
	return nil
}
