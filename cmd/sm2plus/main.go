// Package main is the entry point for the sm2plus command-line scheduler.
package main

import (
	"os"

	"github.com/phrazzld/scry-scheduler/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
