// Package main generates CLI reference documentation from the ham and
// ham-sandbox command trees.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	sandboxcmd "github.com/nadermx/heroesandmore-client/cmd/ham-sandbox/cmd"
	hamcmd "github.com/nadermx/heroesandmore-client/cmd/ham/cmd"
)

func main() {
	output := flag.String("output", "docs/cli", "output directory for generated markdown")
	flag.Parse()

	trees := []struct {
		dir  string
		root *cobra.Command
	}{
		{dir: "ham", root: hamcmd.Root()},
		{dir: "ham-sandbox", root: sandboxcmd.Root()},
	}

	for _, t := range trees {
		dir := filepath.Join(*output, t.dir)
		if err := os.MkdirAll(dir, 0o750); err != nil {
			log.Fatalf("creating output directory: %v", err)
		}

		t.root.DisableAutoGenTag = true
		if err := doc.GenMarkdownTree(t.root, dir); err != nil {
			log.Fatalf("generating %s docs: %v", t.dir, err)
		}
	}

	fmt.Printf("CLI docs generated in %s/\n", *output)
}
