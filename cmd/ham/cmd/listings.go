package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	domain "github.com/nadermx/heroesandmore-client/pkg/types"
)

func listingsCmd() *cobra.Command {
	listingsRoot := &cobra.Command{
		Use:   "listings",
		Short: "Browse and save listings",
		Long: "Browse marketplace listings, inspect one in detail, and manage\n" +
			"the listings you have saved.",
	}

	listingsRoot.AddCommand(
		listingsListCmd(),
		listingsGetCmd(),
		listingsSavedCmd(),
		listingsSaveCmd(),
		listingsUnsaveCmd(),
	)

	return listingsRoot
}

func listingsListCmd() *cobra.Command {
	var (
		f   domain.ListingFilter
		typ string
		all bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List listings with optional filters",
		Example: `  # Newest listings
  ham listings list

  # Auctions under $100, cheapest first
  ham listings list --type auction --max-price 100 --ordering price

  # Every matching page
  ham listings list --search spider-man --all`,
		RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
			f.ListingType = domain.ListingType(typ)

			var (
				listings []domain.Listing
				total    int
			)
			if all {
				res, err := a.client.AllListings(ctx, f)
				if err != nil {
					return err
				}
				listings, total = res, len(res)
			} else {
				page, err := a.client.ListListings(ctx, f)
				if err != nil {
					return err
				}
				listings, total = page.Results, page.Count
			}

			if jsonOutput() {
				return outputJSON(listings)
			}
			if len(listings) == 0 {
				fmt.Println("No listings found.")
				return nil
			}
			fmt.Printf("Showing %d of %d listings\n\n", len(listings), total)
			return printListingsTable(listings)
		}),
	}
	cmd.Flags().IntVar(&f.Page, "page", 0, "page number (1-based)")
	cmd.Flags().StringVar(&f.Category, "category", "", "category slug")
	cmd.Flags().StringVar(&f.Search, "search", "", "free-text search")
	cmd.Flags().StringVar(&typ, "type", "", "listing type (fixed, auction)")
	cmd.Flags().StringVar(&f.Condition, "condition", "", "condition filter")
	cmd.Flags().StringVar(&f.MinPrice, "min-price", "", "minimum price")
	cmd.Flags().StringVar(&f.MaxPrice, "max-price", "", "maximum price")
	cmd.Flags().
		StringVar(&f.Ordering, "ordering", "", "sort order (price, -price, -created, end_date)")
	cmd.Flags().BoolVar(&all, "all", false, "follow every page")

	return cmd
}

func listingsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <id>",
		Short:   "Show listing details",
		Example: `  ham listings get 104`,
		Args:    cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			id, err := parseID("listing id", args[0])
			if err != nil {
				return err
			}
			l, err := a.client.GetListing(ctx, id)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(l)
			}
			return printListingDetail(l)
		}),
	}
}

func listingsSavedCmd() *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "saved",
		Short: "List saved listings",
		RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
			res, err := a.client.SavedListings(ctx, page)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(res)
			}
			if len(res.Results) == 0 {
				fmt.Println("No saved listings.")
				return nil
			}
			return printListingsTable(res.Results)
		}),
	}
	cmd.Flags().IntVar(&page, "page", 0, "page number (1-based)")

	return cmd
}

func listingsSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save <id>",
		Short: "Save a listing",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			id, err := parseID("listing id", args[0])
			if err != nil {
				return err
			}
			if err := a.client.SaveListing(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Saved listing %d.\n", id)
			return nil
		}),
	}
}

func listingsUnsaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unsave <id>",
		Short: "Remove a listing from saved",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			id, err := parseID("listing id", args[0])
			if err != nil {
				return err
			}
			if err := a.client.UnsaveListing(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Removed listing %d from saved.\n", id)
			return nil
		}),
	}
}
