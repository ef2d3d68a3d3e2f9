// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for addonpaths.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "addonpaths",
		Short: "List where an addon-aware build looks for a module",
		Long: TitleStyle.Render("addonpaths") + SubtitleStyle.Render(" - List where an addon-aware build looks for a module") + `

addonpaths prints, in probe order, every file a build tool would try when
resolving a logical module name inside an application and its addons
(lib/, node_modules/ and any extra addon roots). Nothing is read from disk:
the list is derived from naming conventions alone.

` + SubtitleStyle.Render("Examples:") + `
  addonpaths candidates components/foo-bar
  addonpaths candidates templates/components/foo --namespace my-addon
  addonpaths candidates test-support/helper --format json
  addonpaths classify templates/application test-support/foo
  addonpaths config show`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			app.applyLogLevel()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable debug logging and full error chains")
	rootCmd.PersistentFlags().StringVar(&app.configPath, "config", "", "config file (default is ./addonpaths.cue, then $HOME/.config/addonpaths/config.cue)")

	rootCmd.AddCommand(newCandidatesCommand(app))
	rootCmd.AddCommand(newClassifyCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the production App and runs the command tree.
// This is called by main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// fang overrides rootCmd.Version, so pass it through fang.WithVersion.
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}
