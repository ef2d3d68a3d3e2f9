// SPDX-License-Identifier: MPL-2.0

package modulepath_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/addonpaths/addonpaths/pkg/modulepath"
)

func TestAppPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		segs modulepath.AppPathSegments
		want string
	}{
		{
			name: "script module",
			segs: modulepath.AppPathSegments{ProjectRoot: "/project", ModulePath: "routes/foo", Extension: modulepath.ExtScript},
			want: filepath.Join("/project", "app", "routes", "foo") + ".js",
		},
		{
			name: "trailing separator on root",
			segs: modulepath.AppPathSegments{ProjectRoot: "/project/", ModulePath: "routes/foo", Extension: modulepath.ExtScript},
			want: filepath.Join("/project", "app", "routes", "foo") + ".js",
		},
		{
			name: "leading separator on module",
			segs: modulepath.AppPathSegments{ProjectRoot: "/project", ModulePath: "/templates/foo", Extension: modulepath.ExtTemplate},
			want: filepath.Join("/project", "app", "templates", "foo") + ".hbs",
		},
		{
			name: "empty module passes through",
			segs: modulepath.AppPathSegments{ProjectRoot: "/project", Extension: modulepath.ExtScript},
			want: filepath.Join("/project", "app") + ".js",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := modulepath.AppPath(tt.segs); got != tt.want {
				t.Errorf("AppPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAddonPath(t *testing.T) {
	t.Parallel()

	got := modulepath.AddonPath(modulepath.AddonPathSegments{
		AppPathSegments: modulepath.AppPathSegments{
			ProjectRoot: "/project",
			ModulePath:  "components/foo",
			Extension:   modulepath.ExtScript,
		},
		AddonSource:    "node_modules/@scope",
		AddonNamespace: "my-addon",
		Subdirectory:   modulepath.SubdirAddon,
	})
	want := filepath.Join("/project", "node_modules", "@scope", "my-addon", "addon", "components", "foo") + ".js"
	if got != want {
		t.Errorf("AddonPath() = %q, want %q", got, want)
	}
}

func TestDefaultAddonSources(t *testing.T) {
	t.Parallel()

	got := modulepath.DefaultAddonSources()
	if len(got) != 2 || got[0] != modulepath.SourceLib || got[1] != modulepath.SourceNodeModules {
		t.Fatalf("DefaultAddonSources() = %v, want [lib node_modules]", got)
	}

	// The returned slice is a copy.
	got[0] = "mutated"
	if again := modulepath.DefaultAddonSources(); again[0] != modulepath.SourceLib {
		t.Errorf("DefaultAddonSources() leaked internal state: %v", again)
	}
}

func TestAddonSource_IsValid(t *testing.T) {
	t.Parallel()

	if ok, _ := modulepath.AddonSource("engines").IsValid(); !ok {
		t.Error("AddonSource(engines).IsValid() = false, want true")
	}

	ok, errs := modulepath.AddonSource(" ").IsValid()
	if ok {
		t.Fatal("AddonSource(\" \").IsValid() = true, want false")
	}
	if len(errs) != 1 || !errors.Is(errs[0], modulepath.ErrInvalidAddonSource) {
		t.Errorf("errs = %v, want ErrInvalidAddonSource", errs)
	}
}
