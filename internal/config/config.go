// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/addonpaths/addonpaths/internal/issue"
	"github.com/addonpaths/addonpaths/pkg/cueutil"
	"github.com/addonpaths/addonpaths/pkg/fspath"
	"github.com/addonpaths/addonpaths/pkg/platform"
	"github.com/addonpaths/addonpaths/pkg/types"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "addonpaths"
	// ConfigFileName is the name of the user config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// ProjectConfigFileName is the project-local config file looked up in the base directory.
	ProjectConfigFileName = AppName + "." + ConfigFileExt
	// EnvPrefix prefixes every environment override (ADDONPATHS_OUTPUT_FORMAT, ...).
	EnvPrefix = "ADDONPATHS"

	configSchemaPath = "#Config"

	// maxConfigFileSize bounds config.cue and addonpaths.cue.
	maxConfigFileSize int64 = 1 << 20
)

var (
	//go:embed config_schema.cue
	configSchema []byte

	// configDirOverride allows tests to override the config directory.
	// os.UserHomeDir() doesn't reliably respect HOME on all platforms (e.g., macOS in CI).
	configDirOverride string

	errConfigFileNotFound = errors.New("config file not found")
)

// ConfigDir returns the addonpaths configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case platform.Windows:
		configDir = os.Getenv(platform.EnvAppData)
		if configDir == "" {
			configDir = filepath.Join(os.Getenv(platform.EnvUserProfile), "AppData", "Roaming")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv(platform.EnvXDGConfigHome)
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// SetConfigDirOverride sets a custom config directory path. Intended for tests.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// Reset clears test overrides. Call from test cleanup to restore defaults.
func Reset() {
	configDirOverride = ""
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state. It returns the loaded config and the file it came from
// ("" when only defaults and environment apply).
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := newViper()

	resolvedPath, err := locateConfigFile(opts)
	if err != nil {
		return nil, "", loadError(string(opts.ConfigFilePath), err,
			"Verify the file path is correct",
			"Check that the file exists and is readable",
			"Use 'addonpaths config show' to see the default configuration")
	}

	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", loadError(resolvedPath, err,
				"Check that the file contains valid CUE syntax",
				"Verify the configuration values match the expected schema",
				"Run 'addonpaths config dump' to print a valid configuration")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	// Environment overrides bypass the CUE schema, so validate the merged result.
	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Check " + EnvPrefix + "_* environment variables for typos").
			WithSuggestion("Valid output formats: text, json, toml, shell").
			Wrap(errors.Join(errs...)).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

func newViper() *viper.Viper {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("app_name", defaults.AppName)
	v.SetDefault("project_root", string(defaults.ProjectRoot))
	v.SetDefault("extra_addon_sources", []string{})
	v.SetDefault("output.format", string(defaults.Output.Format))
	v.SetDefault("ui.color_scheme", string(defaults.UI.ColorScheme))
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMS)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// locateConfigFile resolves which file to load. An explicit ConfigFilePath is
// used exclusively and must exist; otherwise the project-local addonpaths.cue
// wins over <ConfigDir>/config.cue. "" means no file applies.
func locateConfigFile(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		path := string(opts.ConfigFilePath)
		if !fileExists(path) {
			return "", fmt.Errorf("%w: %s", errConfigFileNotFound, path)
		}
		return path, nil
	}

	localPath := filepath.Join(string(opts.BaseDir), ProjectConfigFileName)
	if fileExists(localPath) {
		return localPath, nil
	}

	cfgDir, err := configDirWithOverride(string(opts.ConfigDirPath))
	if err != nil {
		return "", err
	}
	cuePath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
	if fileExists(cuePath) {
		return cuePath, nil
	}

	return "", nil
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

// loadCUEIntoViper validates a CUE file against #Config and merges it into Viper.
// Fields are optional, so the file is decoded non-concretely into a map.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	configMap, err := cueutil.ParseAndDecode[map[string]any](
		configSchema, data, configSchemaPath,
		cueutil.WithConcrete(false),
		cueutil.WithFilename(path),
		cueutil.WithMaxFileSize(maxConfigFileSize),
	)
	if err != nil {
		return err
	}

	if err := anchorProjectRoot(*configMap, path); err != nil {
		return err
	}

	if err := v.MergeConfigMap(*configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// anchorProjectRoot resolves a relative project_root against the directory of
// the file that sets it. Env overrides are applied later and stay relative to
// the working directory.
func anchorProjectRoot(configMap map[string]any, path string) error {
	root, ok := configMap["project_root"].(string)
	if !ok || types.FilesystemPath(root).IsAbs() {
		return nil
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve config file path: %w", err)
	}
	dir := fspath.Dir(types.FilesystemPath(absPath))
	configMap["project_root"] = fspath.JoinStr(dir, root).String()
	return nil
}

func loadError(resource string, cause error, suggestions ...string) error {
	ctx := issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(resource)
	for _, s := range suggestions {
		ctx = ctx.WithSuggestion(s)
	}
	return ctx.Wrap(cause).BuildError()
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes a default config file to <ConfigDir>/config.cue if
// none exists yet, and returns its path.
func CreateDefaultConfig() (string, error) {
	cfgDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return writeDefaultConfig(filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt))
}

// CreateProjectConfig writes a default addonpaths.cue into dir if none exists yet.
func CreateProjectConfig(dir string) (string, error) {
	return writeDefaultConfig(filepath.Join(dir, ProjectConfigFileName))
}

func writeDefaultConfig(cfgPath string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(cfgPath); err == nil {
		return cfgPath, nil // File exists
	}

	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return cfgPath, nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// addonpaths configuration file\n")
	sb.WriteString("// Run 'addonpaths config --help' for documentation.\n\n")

	if cfg.AppName != "" {
		fmt.Fprintf(&sb, "app_name: %q\n", cfg.AppName)
	}
	if cfg.ProjectRoot != "" {
		fmt.Fprintf(&sb, "project_root: %q\n", cfg.ProjectRoot)
	}

	sb.WriteString("extra_addon_sources: [")
	for i, src := range cfg.ExtraAddonSources {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q", src)
	}
	sb.WriteString("]\n")

	sb.WriteString("\noutput: {\n")
	fmt.Fprintf(&sb, "\tformat: %q\n", cfg.Output.Format)
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	sb.WriteString("\nwatch: {\n")
	fmt.Fprintf(&sb, "\tdebounce_ms: %d\n", cfg.Watch.DebounceMS)
	sb.WriteString("}\n")

	return sb.String()
}
