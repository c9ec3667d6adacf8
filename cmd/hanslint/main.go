// Package main provides the hanslint command-line tool.
package main

import (
	"os"

	"github.com/hansl-tools/hanslint/internal/cli"
)

func main() {
	os.Exit(cli.ExitCode(cli.Execute()))
}
