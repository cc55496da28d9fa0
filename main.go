// SPDX-License-Identifier: MPL-2.0

// Command grimoire turns declarative YAML script files into guided,
// interactive menu sessions.
package main

import cmd "grimoire-cli/cmd/grimoire"

func main() {
	cmd.Execute()
}
