// SPDX-License-Identifier: MPL-2.0

// Package platform centralizes runtime.GOOS names used for per-OS defaults
// such as the configuration directory.
package platform
