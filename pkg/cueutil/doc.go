// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE parsing utilities.
//
// ParseAndDecode runs the three steps every CUE-backed file in this
// repository goes through:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify it with a schema definition
//  3. Validate and decode to a Go value
//
// Errors carry the file name and the JSON-style path of the offending field,
// for example "addonpaths.cue: extra_addon_sources[1]: invalid value".
package cueutil
