// Package main is the entry point for the AutoREST CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/autorest/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
