// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/addonpaths/addonpaths/internal/config"
)

// stubConfig is a ConfigProvider that serves a fixed configuration.
type stubConfig struct {
	cfg     *config.Config
	err     error
	located string
	opts    []config.LoadOptions
}

func (s *stubConfig) Load(_ context.Context, opts config.LoadOptions) (*config.Config, error) {
	s.opts = append(s.opts, opts)
	if s.err != nil {
		return nil, s.err
	}
	cfg := *s.cfg
	return &cfg, nil
}

func (s *stubConfig) Locate(config.LoadOptions) (string, error) {
	return s.located, nil
}

func newStubConfig() *stubConfig {
	return &stubConfig{cfg: config.DefaultConfig()}
}

// runCLI executes the command tree with captured output.
func runCLI(t *testing.T, provider ConfigProvider, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer
	app, err := NewApp(Dependencies{Config: provider, Stdout: &out, Stderr: &errOut})
	if err != nil {
		t.Fatalf("NewApp() failed: %v", err)
	}

	root := NewRootCommand(app)
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version takes priority", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v1.2.3"
		Commit = "abc1234"
		BuildDate = "2025-06-15T10:00:00Z"

		got := getVersionString()
		want := "v1.2.3 (commit: abc1234, built: 2025-06-15T10:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("fallback to dev", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "dev"

		got := getVersionString()
		want := "dev (built from source)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})
}

func TestNewApp_Defaults(t *testing.T) {
	t.Parallel()

	app, err := NewApp(Dependencies{})
	if err != nil {
		t.Fatalf("NewApp() failed: %v", err)
	}
	if app.Config == nil || app.stdout == nil || app.stderr == nil || app.logger == nil {
		t.Errorf("NewApp() left nil fields: %+v", app)
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	t.Parallel()

	app, err := NewApp(Dependencies{Config: newStubConfig(), Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("NewApp() failed: %v", err)
	}
	root := NewRootCommand(app)

	for _, name := range []string{"candidates", "classify", "config"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	for _, flag := range []string{"verbose", "config"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("persistent flag --%s not registered", flag)
		}
	}
}

func TestRootCommand_ConfigFlagReachesProvider(t *testing.T) {
	t.Parallel()

	provider := newStubConfig()
	if _, _, err := runCLI(t, provider, "--config", "/tmp/custom.cue", "candidates", "foo", "--root", t.TempDir()); err != nil {
		t.Fatalf("candidates failed: %v", err)
	}
	if len(provider.opts) != 1 || provider.opts[0].ConfigFilePath != "/tmp/custom.cue" {
		t.Errorf("LoadOptions = %+v, want ConfigFilePath /tmp/custom.cue", provider.opts)
	}
}
