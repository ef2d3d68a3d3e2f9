// SPDX-License-Identifier: MPL-2.0

package platform

// runtime.GOOS values that select a per-user configuration layout.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// Environment variables consulted when locating per-user directories.
const (
	// EnvAppData is the roaming application data directory on Windows.
	EnvAppData = "APPDATA"
	// EnvUserProfile is the user's home directory on Windows.
	EnvUserProfile = "USERPROFILE"
	// EnvHome is the user's home directory on Unix-like systems.
	EnvHome = "HOME"
	// EnvXDGConfigHome overrides ~/.config on Linux and other Unix systems.
	EnvXDGConfigHome = "XDG_CONFIG_HOME"
)
