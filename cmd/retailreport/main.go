// Package main is the entry point for retailreport.
package main

import (
	"fmt"
	"os"

	"github.com/joepete1953/retailreport/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
