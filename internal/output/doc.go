// SPDX-License-Identifier: MPL-2.0

// Package output renders candidate reports as plain text, JSON, TOML or
// shell-quoted lines.
package output
