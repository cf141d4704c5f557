// Package main is the entry point for the bopo CLI.
package main

import (
	"os"

	"github.com/f3rmion/bopo/cmd/bopo/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
