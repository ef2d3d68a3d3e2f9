// SPDX-License-Identifier: MPL-2.0

// Package modulepath enumerates the candidate file-system locations of a
// logical module inside an application-and-addon project layout.
//
// A module is either owned by the host application (its addon namespace equals
// the application name) and lives under <root>/app, or it is re-exported
// through an addon package found under one of the addon source roots
// (lib, node_modules, plus caller-supplied extras), in the addon's "app",
// "addon" or "addon-test-support" tree.
//
// The package never touches the file system. Build and BuildPaths are pure
// functions of their inputs; callers probe the returned candidates in order
// and use the first that exists. All exported functions are safe for
// concurrent use.
package modulepath
