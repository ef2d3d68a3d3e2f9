// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// A project-local addonpaths.cue is preferred over the user configuration file at
// ~/.config/addonpaths/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/addonpaths/config.cue on macOS,
// %APPDATA%\addonpaths\config.cue on Windows). Values may be overridden through
// ADDONPATHS_* environment variables (for example ADDONPATHS_OUTPUT_FORMAT).
//
// Configuration files are validated against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations.
package config
