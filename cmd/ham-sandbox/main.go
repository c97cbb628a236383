// Package main is the entry point for the sandbox marketplace server.
package main

import (
	"os"

	"github.com/nadermx/heroesandmore-client/cmd/ham-sandbox/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
