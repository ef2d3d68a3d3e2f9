// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/addonpaths/addonpaths/internal/config"
	"github.com/addonpaths/addonpaths/internal/issue"
	"github.com/addonpaths/addonpaths/pkg/types"

	"github.com/charmbracelet/log"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root for
	// the CLI layer: every Cobra handler receives an App reference.
	App struct {
		Config ConfigProvider
		stdout io.Writer
		stderr io.Writer
		logger *log.Logger

		// Global flag values, bound by NewRootCommand.
		verbose    bool
		configPath string
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	// This abstraction enables testing with custom config sources.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
		Locate(opts config.LoadOptions) (string, error)
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}

	return &App{
		Config: deps.Config,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
		logger: log.NewWithOptions(deps.Stderr, log.Options{Prefix: config.AppName}),
	}, nil
}

// loadOptions builds the config lookup for a run. baseDir is where the
// project-local addonpaths.cue is searched; "" means the working directory.
func (a *App) loadOptions(baseDir string) config.LoadOptions {
	return config.LoadOptions{
		ConfigFilePath: types.FilesystemPath(a.configPath),
		BaseDir:        types.FilesystemPath(baseDir),
	}
}

// loadConfig loads configuration and applies ui.verbose when --verbose was not given.
// On failure the matching issue is rendered to stderr.
func (a *App) loadConfig(ctx context.Context, baseDir string) (*config.Config, error) {
	cfg, err := a.Config.Load(ctx, a.loadOptions(baseDir))
	if err != nil {
		a.renderIssue(issue.ConfigLoadFailedId, config.ColorSchemeAuto)
		return nil, err
	}

	if cfg.UI.Verbose {
		a.verbose = true
	}
	a.applyLogLevel()
	return cfg, nil
}

func (a *App) applyLogLevel() {
	if a.verbose {
		a.logger.SetLevel(log.DebugLevel)
		return
	}
	a.logger.SetLevel(log.InfoLevel)
}

// renderIssue prints the catalogue entry for id to stderr.
func (a *App) renderIssue(id issue.Id, scheme config.ColorScheme) {
	entry := issue.Get(id)
	if entry == nil {
		return
	}
	rendered, err := entry.Render(string(scheme))
	if err != nil {
		a.logger.Debug("render issue", "id", id, "err", err)
		return
	}
	fmt.Fprint(a.stderr, rendered)
}

// formatErrorForDisplay formats an error for user display.
// ActionableErrors use their Format method, which shows the full chain in verbose mode.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
