// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/addonpaths/addonpaths/internal/issue"
	"github.com/addonpaths/addonpaths/internal/testutil"
	"github.com/addonpaths/addonpaths/pkg/modulepath"
	"github.com/addonpaths/addonpaths/pkg/types"
)

// isolatedOptions points every lookup at fresh temp directories.
func isolatedOptions(t *testing.T) LoadOptions {
	t.Helper()
	return LoadOptions{
		ConfigDirPath: types.FilesystemPath(t.TempDir()),
		BaseDir:       types.FilesystemPath(t.TempDir()),
	}
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.AppName != "" {
		t.Errorf("expected default app name to be empty, got %q", cfg.AppName)
	}
	if cfg.ProjectRoot != "" {
		t.Errorf("expected default project root to be empty, got %q", cfg.ProjectRoot)
	}
	if len(cfg.ExtraAddonSources) != 0 {
		t.Errorf("expected no extra addon sources, got %v", cfg.ExtraAddonSources)
	}
	if cfg.Output.Format != OutputFormatText {
		t.Errorf("expected default output format to be text, got %s", cfg.Output.Format)
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("expected default color scheme to be auto, got %s", cfg.UI.ColorScheme)
	}
	if cfg.UI.Verbose {
		t.Error("expected default verbose to be false")
	}
	if cfg.Watch.DebounceMS != DefaultDebounceMS {
		t.Errorf("expected default debounce to be %d, got %d", DefaultDebounceMS, cfg.Watch.DebounceMS)
	}
}

func TestConfigDir(t *testing.T) {
	Reset()

	if runtime.GOOS == "linux" {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/test-xdg-config")

		dir, err := ConfigDir()
		if err != nil {
			t.Fatalf("ConfigDir() returned error: %v", err)
		}
		want := filepath.Join("/tmp/test-xdg-config", AppName)
		if dir != want {
			t.Errorf("ConfigDir() = %s, want %s", dir, want)
		}
	}

	override := t.TempDir()
	SetConfigDirOverride(override)
	t.Cleanup(Reset)

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}
	if dir != override {
		t.Errorf("ConfigDir() = %s, want override %s", dir, override)
	}
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	t.Parallel()

	opts := isolatedOptions(t)
	cfg, path, err := loadWithOptions(context.Background(), opts)
	if err != nil {
		t.Fatalf("loadWithOptions() returned error: %v", err)
	}
	if path != "" {
		t.Errorf("resolved path = %q, want empty", path)
	}
	if cfg.Output.Format != OutputFormatText || cfg.Watch.DebounceMS != DefaultDebounceMS {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_UserConfigFile(t *testing.T) {
	t.Parallel()

	opts := isolatedOptions(t)
	cuePath := filepath.Join(string(opts.ConfigDirPath), "config.cue")
	testutil.MustWriteFile(t, cuePath, `
app_name: "dummy"
extra_addon_sources: ["vendor/addons", "node_modules/@scope"]
output: format: "json"
ui: verbose: true
`)

	cfg, path, err := loadWithOptions(context.Background(), opts)
	if err != nil {
		t.Fatalf("loadWithOptions() returned error: %v", err)
	}
	if path != cuePath {
		t.Errorf("resolved path = %q, want %q", path, cuePath)
	}
	if cfg.AppName != "dummy" {
		t.Errorf("AppName = %q, want dummy", cfg.AppName)
	}
	wantExtras := []modulepath.AddonSource{"vendor/addons", "node_modules/@scope"}
	if len(cfg.ExtraAddonSources) != len(wantExtras) {
		t.Fatalf("ExtraAddonSources = %v, want %v", cfg.ExtraAddonSources, wantExtras)
	}
	for i := range wantExtras {
		if cfg.ExtraAddonSources[i] != wantExtras[i] {
			t.Errorf("ExtraAddonSources[%d] = %q, want %q", i, cfg.ExtraAddonSources[i], wantExtras[i])
		}
	}
	if cfg.Output.Format != OutputFormatJSON {
		t.Errorf("Output.Format = %s, want json", cfg.Output.Format)
	}
	if !cfg.UI.Verbose {
		t.Error("UI.Verbose should be true")
	}
	// Unset keys keep their defaults.
	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("UI.ColorScheme = %s, want auto", cfg.UI.ColorScheme)
	}
	if cfg.Watch.DebounceMS != DefaultDebounceMS {
		t.Errorf("Watch.DebounceMS = %d, want %d", cfg.Watch.DebounceMS, DefaultDebounceMS)
	}
}

func TestLoad_ProjectConfigWinsOverUserConfig(t *testing.T) {
	t.Parallel()

	opts := isolatedOptions(t)
	testutil.MustWriteFile(t, filepath.Join(string(opts.ConfigDirPath), "config.cue"), `app_name: "from-user"`)
	localPath := filepath.Join(string(opts.BaseDir), ProjectConfigFileName)
	testutil.MustWriteFile(t, localPath, `app_name: "from-project"`)

	cfg, path, err := loadWithOptions(context.Background(), opts)
	if err != nil {
		t.Fatalf("loadWithOptions() returned error: %v", err)
	}
	if path != localPath {
		t.Errorf("resolved path = %q, want %q", path, localPath)
	}
	if cfg.AppName != "from-project" {
		t.Errorf("AppName = %q, want from-project", cfg.AppName)
	}
}

func TestLoad_RelativeProjectRootAnchoredToConfigFile(t *testing.T) {
	t.Parallel()

	opts := isolatedOptions(t)
	userDir := string(opts.ConfigDirPath)
	testutil.MustWriteFile(t, filepath.Join(userDir, "config.cue"), `project_root: "../web"`)

	cfg, _, err := loadWithOptions(context.Background(), opts)
	if err != nil {
		t.Fatalf("loadWithOptions() returned error: %v", err)
	}
	want := types.FilesystemPath(filepath.Join(filepath.Dir(userDir), "web"))
	if cfg.ProjectRoot != want {
		t.Errorf("ProjectRoot = %q, want %q", cfg.ProjectRoot, want)
	}
}

func TestLoad_AbsoluteProjectRootKept(t *testing.T) {
	t.Parallel()

	opts := isolatedOptions(t)
	root := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(string(opts.BaseDir), ProjectConfigFileName), `project_root: "`+filepath.ToSlash(root)+`"`)

	cfg, _, err := loadWithOptions(context.Background(), opts)
	if err != nil {
		t.Fatalf("loadWithOptions() returned error: %v", err)
	}
	if filepath.Clean(string(cfg.ProjectRoot)) != root {
		t.Errorf("ProjectRoot = %q, want %q", cfg.ProjectRoot, root)
	}
}

func TestLoad_OversizedConfigFile(t *testing.T) {
	t.Parallel()

	opts := isolatedOptions(t)
	padding := strings.Repeat("/", int(maxConfigFileSize))
	testutil.MustWriteFile(t, filepath.Join(string(opts.BaseDir), ProjectConfigFileName), "//"+padding+"\napp_name: \"big\"\n")

	_, _, err := loadWithOptions(context.Background(), opts)
	if err == nil {
		t.Fatal("expected error for oversized config file")
	}
	if !strings.Contains(err.Error(), "exceeds maximum") {
		t.Errorf("error = %v, want size limit error", err)
	}
}

func TestLoad_ExplicitConfigFileIsExclusive(t *testing.T) {
	t.Parallel()

	opts := isolatedOptions(t)
	testutil.MustWriteFile(t, filepath.Join(string(opts.BaseDir), ProjectConfigFileName), `app_name: "from-project"`)
	explicit := filepath.Join(t.TempDir(), "custom.cue")
	testutil.MustWriteFile(t, explicit, `output: format: "shell"`)
	opts.ConfigFilePath = types.FilesystemPath(explicit)

	cfg, path, err := loadWithOptions(context.Background(), opts)
	if err != nil {
		t.Fatalf("loadWithOptions() returned error: %v", err)
	}
	if path != explicit {
		t.Errorf("resolved path = %q, want %q", path, explicit)
	}
	if cfg.AppName != "" {
		t.Errorf("AppName = %q, project config should be ignored", cfg.AppName)
	}
	if cfg.Output.Format != OutputFormatShell {
		t.Errorf("Output.Format = %s, want shell", cfg.Output.Format)
	}
}

func TestLoad_ExplicitConfigFileMissing(t *testing.T) {
	t.Parallel()

	opts := isolatedOptions(t)
	opts.ConfigFilePath = types.FilesystemPath(filepath.Join(t.TempDir(), "missing.cue"))

	_, _, err := loadWithOptions(context.Background(), opts)
	if err == nil {
		t.Fatal("expected error for missing config file")
	}

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("error should be *issue.ActionableError, got %T", err)
	}
	if ae.Operation != "load configuration" || !ae.HasSuggestions() {
		t.Errorf("unexpected actionable error: %+v", ae)
	}
	if !errors.Is(err, errConfigFileNotFound) {
		t.Errorf("error should wrap errConfigFileNotFound, got %v", err)
	}
}

func TestLoad_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"unknown format", `output: format: "yaml"`, "output.format"},
		{"unknown field", `search_paths: ["x"]`, "search_paths"},
		{"negative debounce", `watch: debounce_ms: -5`, "watch.debounce_ms"},
		{"empty extra source", `extra_addon_sources: [""]`, "extra_addon_sources"},
		{"syntax error", `app_name: "unterminated`, ProjectConfigFileName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := isolatedOptions(t)
			testutil.MustWriteFile(t, filepath.Join(string(opts.BaseDir), ProjectConfigFileName), tt.content)

			_, _, err := loadWithOptions(context.Background(), opts)
			if err == nil {
				t.Fatal("expected schema error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should mention %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("ADDONPATHS_OUTPUT_FORMAT", "toml")
	t.Setenv("ADDONPATHS_APP_NAME", "env-app")

	opts := isolatedOptions(t)
	testutil.MustWriteFile(t, filepath.Join(string(opts.BaseDir), ProjectConfigFileName), `app_name: "file-app"`)

	cfg, _, err := loadWithOptions(context.Background(), opts)
	if err != nil {
		t.Fatalf("loadWithOptions() returned error: %v", err)
	}
	if cfg.Output.Format != OutputFormatTOML {
		t.Errorf("Output.Format = %s, want toml", cfg.Output.Format)
	}
	if cfg.AppName != "env-app" {
		t.Errorf("AppName = %q, env should win over file", cfg.AppName)
	}
}

func TestLoad_InvalidEnvironmentOverride(t *testing.T) {
	t.Setenv("ADDONPATHS_OUTPUT_FORMAT", "xml")

	_, _, err := loadWithOptions(context.Background(), isolatedOptions(t))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("error should wrap ErrInvalidConfig, got %v", err)
	}
}

func TestLoad_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := loadWithOptions(ctx, isolatedOptions(t))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.AppName = "dummy"
	cfg.ExtraAddonSources = []modulepath.AddonSource{"vendor"}
	cfg.Output.Format = OutputFormatJSON
	cfg.Watch.DebounceMS = 50

	opts := isolatedOptions(t)
	testutil.MustWriteFile(t, filepath.Join(string(opts.BaseDir), ProjectConfigFileName), GenerateCUE(cfg))

	loaded, _, err := loadWithOptions(context.Background(), opts)
	if err != nil {
		t.Fatalf("generated CUE failed to load: %v", err)
	}
	if loaded.AppName != "dummy" || loaded.Output.Format != OutputFormatJSON || loaded.Watch.DebounceMS != 50 {
		t.Errorf("loaded = %+v", loaded)
	}
	if len(loaded.ExtraAddonSources) != 1 || loaded.ExtraAddonSources[0] != "vendor" {
		t.Errorf("ExtraAddonSources = %v, want [vendor]", loaded.ExtraAddonSources)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	path, err := CreateDefaultConfig()
	if err != nil {
		t.Fatalf("CreateDefaultConfig() returned error: %v", err)
	}
	if path != filepath.Join(dir, "config.cue") {
		t.Errorf("path = %q", path)
	}

	// An existing file is left untouched.
	testutil.MustWriteFile(t, path, `app_name: "kept"`)
	if _, err := CreateDefaultConfig(); err != nil {
		t.Fatalf("second CreateDefaultConfig() returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `app_name: "kept"` {
		t.Errorf("existing config was overwritten: %q", data)
	}
}

func TestCreateProjectConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path, err := CreateProjectConfig(dir)
	if err != nil {
		t.Fatalf("CreateProjectConfig() returned error: %v", err)
	}
	if path != filepath.Join(dir, ProjectConfigFileName) {
		t.Errorf("path = %q", path)
	}

	cfg, _, err := loadWithOptions(context.Background(), LoadOptions{
		BaseDir:       types.FilesystemPath(dir),
		ConfigDirPath: types.FilesystemPath(t.TempDir()),
	})
	if err != nil {
		t.Fatalf("generated project config failed to load: %v", err)
	}
	if cfg.Output.Format != OutputFormatText {
		t.Errorf("Output.Format = %s, want text", cfg.Output.Format)
	}
}
