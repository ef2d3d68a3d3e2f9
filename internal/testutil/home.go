// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"runtime"
	"testing"

	"github.com/addonpaths/addonpaths/pkg/platform"
)

// SetHomeDir points every per-user directory lookup at dir for the rest of
// the test: USERPROFILE and APPDATA on Windows, HOME and XDG_CONFIG_HOME
// elsewhere. Values are restored by t.Setenv, so callers must not be parallel.
func SetHomeDir(t *testing.T, dir string) {
	t.Helper()

	switch runtime.GOOS {
	case platform.Windows:
		t.Setenv(platform.EnvUserProfile, dir)
		t.Setenv(platform.EnvAppData, dir)
	default:
		t.Setenv(platform.EnvHome, dir)
		t.Setenv(platform.EnvXDGConfigHome, "")
	}
}
