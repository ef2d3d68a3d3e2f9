// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/addonpaths/addonpaths/cmd/addonpaths"

func main() {
	cmd.Execute()
}
