package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	apiclient "github.com/nadermx/heroesandmore-client/internal/api/client"
)

func collectionsCmd() *cobra.Command {
	collectionsRoot := &cobra.Command{
		Use:   "collections",
		Short: "List, value, export and import collections",
	}

	collectionsRoot.AddCommand(
		collectionsListCmd(),
		collectionsValueCmd(),
		collectionsExportCmd(),
		collectionsImportCmd(),
	)

	return collectionsRoot
}

func collectionsListCmd() *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your collections",
		RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
			res, err := a.client.MyCollections(ctx, page)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(res)
			}
			if len(res.Results) == 0 {
				fmt.Println("No collections.")
				return nil
			}
			return printCollectionsTable(res.Results)
		}),
	}
	cmd.Flags().IntVar(&page, "page", 0, "page number (1-based)")

	return cmd
}

func collectionsValueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "value <collection-id>",
		Short: "Show what a collection is worth against what it cost",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			id, err := parseID("collection id", args[0])
			if err != nil {
				return err
			}
			v, err := a.client.CollectionValue(ctx, id)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(v)
			}
			tw := newTabWriter(os.Stdout)
			tw.writef("Items:\t%d\n", v.ItemCount)
			tw.writef("Value:\t%s\n", money(v.TotalValue))
			tw.writef("Cost:\t%s\n", money(v.TotalCost))
			tw.writef("Gain/loss:\t%s (%s%%)\n", money(v.TotalGainLoss), v.GainLossPercent)
			tw.writef("Updated:\t%s\n", timestamp(v.LastUpdated))
			return tw.finish()
		}),
	}
}

func collectionsExportCmd() *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:     "export <collection-id>",
		Short:   "Download a collection as JSON or CSV",
		Example: `  ham collections export 201 --format csv --out keys.csv`,
		Args:    cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			id, err := parseID("collection id", args[0])
			if err != nil {
				return err
			}
			data, err := a.client.ExportCollection(ctx, id, format)
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				_, err = os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0o600); err != nil {
				return fmt.Errorf("writing export: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Wrote %d bytes to %s.\n", len(data), out)
			return nil
		}),
	}
	cmd.Flags().StringVar(&format, "format", apiclient.ExportJSON, "json or csv")
	cmd.Flags().StringVar(&out, "out", "", "output file (default stdout)")

	return cmd
}

func collectionsImportCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:     "import <file>",
		Short:   "Create a collection from a JSON or CSV export",
		Example: `  ham collections import keys.csv --name "Key issues"`,
		Args:    cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading import file: %w", err)
			}
			res, err := a.client.ImportCollection(ctx, args[0], data, name)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(res)
			}
			fmt.Printf("Imported %d of %d items into %q (collection %d).\n",
				res.ItemsImported, res.ItemsTotal, res.CollectionName, res.CollectionID)
			return nil
		}),
	}
	cmd.Flags().StringVar(&name, "name", "", "collection name (defaults to the file's)")

	return cmd
}
