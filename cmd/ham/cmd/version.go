package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nadermx/heroesandmore-client/internal/buildinfo"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the client version and build details",
		RunE: func(_ *cobra.Command, _ []string) error {
			info := buildinfo.Read("ham")
			if jsonOutput() {
				return outputJSON(info)
			}
			fmt.Println(info)
			return nil
		},
	}
}
