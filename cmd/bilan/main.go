/*
main.go - bilan entry point

PURPOSE:
  Wires build-time version information into the command tree and runs it.
  All behavior lives in cmd/bilan/commands; this file only exists so
  -ldflags can stamp releases.

SEE ALSO:
  - commands/root.go: The command tree
*/
package main

import (
	"fmt"
	"os"

	"github.com/terrawatt/balance-engine/cmd/bilan/commands"
)

// Version information - set during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)

	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
