// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/addonpaths/addonpaths/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `addonpaths config` command tree.
// Subcommands that read configuration use the App's ConfigProvider.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage addonpaths configuration",
		Long: `Manage addonpaths configuration.

A project-local ./addonpaths.cue takes precedence over the user configuration:
  - Linux: ~/.config/addonpaths/config.cue
  - macOS: ~/Library/Application Support/addonpaths/config.cue
  - Windows: %APPDATA%\addonpaths\config.cue

Any key can be overridden with an ADDONPATHS_* environment variable,
for example ADDONPATHS_OUTPUT_FORMAT=json.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app)
		},
	})

	var project bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app, project)
		},
	}
	initCmd.Flags().BoolVar(&project, "project", false, "create ./addonpaths.cue instead of the user configuration file")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context(), "")
			if err != nil {
				return err
			}

			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App) error {
	cfg, err := app.loadConfig(ctx, "")
	if err != nil {
		return err
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	w := app.stdout

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	path, err := app.Config.Locate(app.loadOptions(""))
	if err != nil || path == "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), path)
	}
	fmt.Fprintln(w)

	orDefault := func(v, fallback string) string {
		if v == "" {
			return SubtitleStyle.Render(fallback)
		}
		return valueStyle.Render(v)
	}

	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("app_name"), orDefault(cfg.AppName, "(base name of project root)"))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("project_root"), orDefault(cfg.ProjectRoot.String(), "(working directory)"))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("extra_addon_sources"))
	if len(cfg.ExtraAddonSources) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none configured)"))
	} else {
		for _, src := range cfg.ExtraAddonSources {
			fmt.Fprintf(w, "  - %s\n", valueStyle.Render(src.String()))
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("output"))
	fmt.Fprintf(w, "  format: %s\n", valueStyle.Render(cfg.Output.Format.String()))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("watch"))
	fmt.Fprintf(w, "  debounce_ms: %s\n", valueStyle.Render(fmt.Sprintf("%d", cfg.Watch.DebounceMS)))

	return nil
}

func initConfig(app *App, project bool) error {
	var (
		path string
		err  error
	)
	if project {
		wd, wdErr := os.Getwd()
		if wdErr != nil {
			return wdErr
		}
		path, err = config.CreateProjectConfig(wd)
	} else {
		path, err = config.CreateDefaultConfig()
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("Configuration file:"), path)
	return nil
}

func showConfigPath(app *App) error {
	path, err := app.Config.Locate(app.loadOptions(""))
	if err != nil {
		return err
	}
	if path != "" {
		fmt.Fprintln(app.stdout, path)
		return nil
	}

	// Nothing exists yet: print where `config init` would write.
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	fmt.Fprintln(app.stdout, filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))
	return nil
}
