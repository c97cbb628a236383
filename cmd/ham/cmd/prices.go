package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	domain "github.com/nadermx/heroesandmore-client/pkg/types"
)

func pricesCmd() *cobra.Command {
	pricesRoot := &cobra.Command{
		Use:   "prices",
		Short: "Look up price guide values",
	}

	pricesRoot.AddCommand(
		pricesShowCmd(),
		pricesHistoryCmd(),
		pricesTrendingCmd(),
	)

	return pricesRoot
}

func pricesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <item-id>",
		Short: "Show an item's market summary and per-grade prices",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			id, err := parseID("item id", args[0])
			if err != nil {
				return err
			}
			item, err := a.client.PriceGuideItem(ctx, id)
			if err != nil {
				return err
			}
			grades, err := a.client.GradePrices(ctx, id)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(map[string]any{"item": item, "grades": grades})
			}
			return printPriceGuideItem(item, grades)
		}),
	}
}

func pricesHistoryCmd() *cobra.Command {
	var period string

	cmd := &cobra.Command{
		Use:   "history <item-id>",
		Short: "Show an item's average price over time",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			id, err := parseID("item id", args[0])
			if err != nil {
				return err
			}
			points, err := a.client.PriceHistory(ctx, id, period)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(points)
			}
			tw := newTabWriter(os.Stdout)
			tw.writef("DATE\tAVERAGE\tSALES\n")
			for _, p := range points {
				tw.writef("%s\t%s\t%d\n", p.Date, money(p.AveragePrice), p.SalesCount)
			}
			return tw.finish()
		}),
	}
	cmd.Flags().StringVar(&period, "period", domain.Period1Year, "30d, 90d, 1y or all")

	return cmd
}

func pricesTrendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trending",
		Short: "List items whose prices moved recently",
		RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
			items, err := a.client.Trending(ctx)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(items)
			}
			if len(items) == 0 {
				fmt.Println("Nothing trending.")
				return nil
			}
			return printTrendingTable(items)
		}),
	}
}

func searchCmd() *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:     "search <query>",
		Short:   "Search listings, price guide items, collections and users",
		Example: `  ham search "amazing spider-man 300"`,
		Args:    cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			res, err := a.client.Search(ctx, args[0], page)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(res)
			}
			return printSearchResult(res)
		}),
	}
	cmd.Flags().IntVar(&page, "page", 0, "page number (1-based)")

	return cmd
}
