package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nadermx/heroesandmore-client/internal/buildinfo"
)

func versionCommand() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the sandbox version",
		Run: func(_ *cobra.Command, _ []string) {
			if short {
				fmt.Println(buildinfo.Version)
				return
			}
			fmt.Println(buildinfo.Read("ham-sandbox"))
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "print only the version number")
	return cmd
}
