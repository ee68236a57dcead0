// Package main provides the entry point for the tky2jgd CLI tool.
// It delegates execution to the cmd package to maintain clean separation
// between main entry logic and command implementation details.
package main

import (
	"github.com/mugwort-rc/TKY2JGD/cmd"
)

func main() {
	cmd.Execute()
}
