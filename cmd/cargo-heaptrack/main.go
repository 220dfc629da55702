// Package main provides the CLI entry point for cargo-heaptrack, a cargo
// subcommand that profiles a cargo target with heaptrack.
package main

import (
	"fmt"
	"os"

	"go.jacobcolvin.com/cargo-heaptrack/cli"
	"go.jacobcolvin.com/cargo-heaptrack/process"
)

func main() {
	err := cli.NewApp(process.NewExec()).NewCommand().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
