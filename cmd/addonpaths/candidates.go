// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/addonpaths/addonpaths/internal/config"
	"github.com/addonpaths/addonpaths/internal/issue"
	"github.com/addonpaths/addonpaths/internal/output"
	"github.com/addonpaths/addonpaths/internal/watch"
	"github.com/addonpaths/addonpaths/pkg/fspath"
	"github.com/addonpaths/addonpaths/pkg/modulepath"
	"github.com/addonpaths/addonpaths/pkg/types"

	"github.com/spf13/cobra"
)

// candidatesFlags holds the `addonpaths candidates` flag values. Empty strings
// mean "fall back to configuration".
type candidatesFlags struct {
	root         string
	app          string
	namespace    string
	extraSources []string
	format       string
	header       bool
	watch        bool
}

func newCandidatesCommand(app *App) *cobra.Command {
	flags := &candidatesFlags{}

	cmd := &cobra.Command{
		Use:   "candidates <module>",
		Short: "Print every location a module may resolve to, in probe order",
		Long: `Print every location a module may resolve to, in probe order.

The module name is slash-separated and has no extension. Templates
(templates/...) yield .hbs and .js candidates, test-support modules
(test-support/...) are looked up in addon-test-support trees, and
everything else yields .js candidates.

When --namespace equals the application name (the default) the module
is app-owned and only <root>/app is searched. Otherwise every addon
source (lib, node_modules, then --extra-source values) is searched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCandidates(cmd.Context(), app, flags, args[0])
		},
	}

	cmd.Flags().StringVar(&flags.root, "root", "", "project root (default: config project_root, then the working directory)")
	cmd.Flags().StringVar(&flags.app, "app", "", "application name (default: config app_name, then the base name of the root)")
	cmd.Flags().StringVar(&flags.namespace, "namespace", "", "addon namespace that owns the module (default: the application name)")
	cmd.Flags().StringArrayVar(&flags.extraSources, "extra-source", nil, "additional addon source searched after lib and node_modules (repeatable)")
	cmd.Flags().StringVarP(&flags.format, "format", "o", "", "output format: text, json, toml, shell (default: config output.format)")
	cmd.Flags().BoolVar(&flags.header, "header", false, "print a styled header before text output")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "re-print candidates whenever the configuration file changes")

	return cmd
}

func runCandidates(ctx context.Context, app *App, flags *candidatesFlags, moduleName string) error {
	name := modulepath.ModuleName(moduleName)
	if valid, errs := name.IsValid(); !valid {
		app.renderIssue(issue.ModuleNameMissingId, config.ColorSchemeAuto)
		return usageError(errors.Join(errs...))
	}

	cfg, err := app.loadConfig(ctx, flags.root)
	if err != nil {
		return err
	}

	if err := printCandidates(app, cfg, flags, name); err != nil {
		return err
	}

	if !flags.watch {
		return nil
	}
	return watchCandidates(ctx, app, cfg, flags, name)
}

// printCandidates resolves the request against cfg and writes one report.
func printCandidates(app *App, cfg *config.Config, flags *candidatesFlags, name modulepath.ModuleName) error {
	req, err := resolveRequest(cfg, flags, name)
	if err != nil {
		if errors.Is(err, modulepath.ErrInvalidAddonSource) {
			app.renderIssue(issue.InvalidAddonSourceId, cfg.UI.ColorScheme)
			return usageError(err)
		}
		return err
	}

	format, err := resolveFormat(cfg, flags.format)
	if err != nil {
		app.renderIssue(issue.InvalidOutputFormatId, cfg.UI.ColorScheme)
		return usageError(err)
	}

	report := output.NewReport(req)
	report.Styled = flags.header

	app.logger.Debug("resolved request",
		"module", req.ModuleName,
		"kind", report.Kind,
		"ownership", report.Ownership,
		"root", req.ProjectRoot,
		"app", req.AppName,
		"namespace", req.AddonNamespace,
		"sources", report.AddonSources,
	)

	return output.Write(app.stdout, format, report)
}

// resolveRequest layers flags over configuration over derived defaults.
func resolveRequest(cfg *config.Config, flags *candidatesFlags, name modulepath.ModuleName) (modulepath.Request, error) {
	root, err := resolveProjectRoot(cfg, flags.root)
	if err != nil {
		return modulepath.Request{}, err
	}

	appName := flags.app
	if appName == "" {
		appName = cfg.AppName
	}
	if appName == "" {
		appName = fspath.Base(root)
	}

	namespace := flags.namespace
	if namespace == "" {
		namespace = appName
	}

	extras := make([]modulepath.AddonSource, 0, len(cfg.ExtraAddonSources)+len(flags.extraSources))
	extras = append(extras, cfg.ExtraAddonSources...)
	for _, raw := range flags.extraSources {
		src := modulepath.AddonSource(raw)
		if valid, errs := src.IsValid(); !valid {
			return modulepath.Request{}, errors.Join(errs...)
		}
		extras = append(extras, src)
	}

	return modulepath.Request{
		ProjectRoot:       root,
		AppName:           appName,
		AddonNamespace:    namespace,
		ModuleName:        name,
		ExtraAddonSources: extras,
	}, nil
}

func resolveProjectRoot(cfg *config.Config, flagRoot string) (types.FilesystemPath, error) {
	root := types.FilesystemPath(flagRoot)
	if root == "" {
		root = cfg.ProjectRoot
	}
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", issue.WrapWithContext(err, "determine working directory", "")
		}
		root = types.FilesystemPath(wd)
	}

	abs, err := fspath.Abs(root)
	if err != nil {
		return "", issue.WrapWithContext(err, "resolve project root", root.String())
	}
	return abs, nil
}

// resolveFormat prefers the --format flag over output.format.
func resolveFormat(cfg *config.Config, flagFormat string) (output.Format, error) {
	format := output.Format(flagFormat)
	if format == "" {
		format = output.Format(cfg.Output.Format)
	}
	if valid, errs := format.IsValid(); !valid {
		return "", errors.Join(errs...)
	}
	return format, nil
}

// watchTargets lists the files whose changes re-print candidates: the file the
// config was loaded from, if any, and the project-local addonpaths.cue the
// loader would pick up on reload.
func watchTargets(app *App, flags *candidatesFlags) ([]string, error) {
	var targets []string

	located, err := app.Config.Locate(app.loadOptions(flags.root))
	if err != nil {
		return nil, err
	}
	if located != "" {
		abs, absErr := filepath.Abs(located)
		if absErr != nil {
			return nil, absErr
		}
		targets = append(targets, abs)
	}

	// An explicit --config is used exclusively; a project file cannot take over.
	if app.configPath != "" {
		return targets, nil
	}

	baseDir, err := projectConfigDir(flags.root)
	if err != nil {
		return nil, err
	}
	local := filepath.Join(baseDir, config.ProjectConfigFileName)
	for _, t := range targets {
		if t == local {
			return targets, nil
		}
	}
	return append(targets, local), nil
}

// projectConfigDir is the directory searched for addonpaths.cue, matching the
// BaseDir of loadOptions: --root when given, else the working directory.
// Config project_root does not move it.
func projectConfigDir(flagRoot string) (string, error) {
	if flagRoot != "" {
		return filepath.Abs(flagRoot)
	}
	return os.Getwd()
}

func watchCandidates(ctx context.Context, app *App, cfg *config.Config, flags *candidatesFlags, name modulepath.ModuleName) error {
	targets, err := watchTargets(app, flags)
	if err != nil {
		return watchError(app, cfg, err)
	}

	w, err := watch.New(watch.Config{
		Targets:  targets,
		Debounce: time.Duration(cfg.Watch.DebounceMS) * time.Millisecond,
		Logger:   app.logger.WithPrefix("watch"),
		OnChange: func(ctx context.Context, changed []string) error {
			reloaded, loadErr := app.Config.Load(ctx, app.loadOptions(flags.root))
			if loadErr != nil {
				// Keep watching: the next save may fix the file.
				fmt.Fprintln(app.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(loadErr, app.verbose))
				return nil
			}
			fmt.Fprintln(app.stderr, SubtitleStyle.Render("changed: "+strings.Join(changed, ", ")))
			return printCandidates(app, reloaded, flags, name)
		},
	})
	if err != nil {
		return watchError(app, cfg, err)
	}

	app.logger.Info("watching for configuration changes", "targets", targets)
	if err := w.Run(ctx); err != nil {
		return watchError(app, cfg, err)
	}
	return nil
}

func watchError(app *App, cfg *config.Config, err error) error {
	app.renderIssue(issue.WatchFailedId, cfg.UI.ColorScheme)
	return issue.NewErrorContext().
		WithOperation("watch configuration").
		WithSuggestion("Run without --watch to print candidates once").
		Wrap(err).
		BuildError()
}
