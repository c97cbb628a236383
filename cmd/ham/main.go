// Package main is the entry point for the ham CLI client.
package main

import (
	"github.com/nadermx/heroesandmore-client/cmd/ham/cmd"
)

func main() {
	cmd.Execute()
}
