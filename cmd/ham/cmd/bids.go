package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nadermx/heroesandmore-client/internal/negotiation"
	domain "github.com/nadermx/heroesandmore-client/pkg/types"
)

func bidCmd() *cobra.Command {
	bidRoot := &cobra.Command{
		Use:   "bid",
		Short: "Bid on auctions",
	}

	bidRoot.AddCommand(
		bidPlaceCmd(),
		bidSuggestCmd(),
	)

	return bidRoot
}

func bidPlaceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "place <listing-id> <amount>",
		Short: "Place a bid and show the listing afterwards",
		Long: "Place a bid on an auction. The listing is always fetched again\n" +
			"afterwards, so a rejected bid still shows the current price and\n" +
			"the next amount worth bidding.",
		Example: `  ham bid place 104 55.00`,
		Args:    cobra.ExactArgs(2),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			id, err := parseID("listing id", args[0])
			if err != nil {
				return err
			}

			bidder := negotiation.NewBidder(a.client, negotiation.WithBidderLogger(a.log))
			res, bidErr := bidder.PlaceBid(ctx, id, args[1])

			if jsonOutput() {
				if err := outputJSON(res); err != nil {
					return err
				}
			} else {
				if bidErr != nil {
					fmt.Fprintf(os.Stderr, "Bid not accepted: %s\n\n", describe(bidErr))
				}
				if err := printBidResult(res); err != nil {
					return err
				}
			}
			if res.RefreshErr != nil {
				a.log.Warn("listing could not be refreshed", "error", res.RefreshErr)
			}
			return bidErr
		}),
	}
}

func bidSuggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "suggest <listing-id>",
		Short:   "Show the suggested and quick bid amounts",
		Example: `  ham bid suggest 105`,
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
			if !l.IsAuction() {
				return fmt.Errorf("listing %d is not an auction", id)
			}

			next := negotiation.SuggestedBid(&l.Listing)
			quick := negotiation.QuickBids(&l.Listing)
			if jsonOutput() {
				amounts := make([]string, len(quick))
				for i, q := range quick {
					amounts[i] = domain.FormatMoney(q)
				}
				return outputJSON(map[string]any{
					"listing_id":    id,
					"current_bid":   l.CurrentBid,
					"suggested_bid": domain.FormatMoney(next),
					"quick_bids":    amounts,
				})
			}

			tw := newTabWriter(os.Stdout)
			tw.writef("Current bid:\t%s\n", moneyPtr(l.CurrentBid))
			tw.writef("Suggested:\t$%s\n", domain.FormatMoney(next))
			for i, q := range quick {
				tw.writef("Quick %d:\t$%s\n", i+1, domain.FormatMoney(q))
			}
			return tw.finish()
		}),
	}
}

func autobidCmd() *cobra.Command {
	autobidRoot := &cobra.Command{
		Use:   "autobid",
		Short: "Manage proxy bids",
		Long: "Auto-bids let the marketplace bid on your behalf up to a ceiling.\n" +
			"Nothing is simulated locally; the server places every bid.",
	}

	autobidRoot.AddCommand(
		autobidSetCmd(),
		autobidListCmd(),
		autobidCancelCmd(),
	)

	return autobidRoot
}

func autobidSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "set <listing-id> <max-amount>",
		Short:   "Set or raise a proxy-bid ceiling",
		Example: `  ham autobid set 104 120.00`,
		Args:    cobra.ExactArgs(2),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			id, err := parseID("listing id", args[0])
			if err != nil {
				return err
			}
			bidder := negotiation.NewBidder(a.client, negotiation.WithBidderLogger(a.log))
			ab, err := bidder.SetAutoBid(ctx, id, args[1])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(ab)
			}
			return printAutoBidsTable([]domain.AutoBid{*ab})
		}),
	}
}

func autobidListCmd() *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your auto-bids",
		RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
			res, err := a.client.AutoBids(ctx, page)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(res)
			}
			if len(res.Results) == 0 {
				fmt.Println("No auto-bids.")
				return nil
			}
			return printAutoBidsTable(res.Results)
		}),
	}
	cmd.Flags().IntVar(&page, "page", 0, "page number (1-based)")

	return cmd
}

func autobidCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <auto-bid-id>",
		Short: "Cancel an auto-bid",
		Long:  "Cancel an auto-bid. Cancelling one that is already inactive succeeds.",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			id, err := parseID("auto-bid id", args[0])
			if err != nil {
				return err
			}
			bidder := negotiation.NewBidder(a.client, negotiation.WithBidderLogger(a.log))
			if err := bidder.CancelAutoBid(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Auto-bid %d is inactive.\n", id)
			return nil
		}),
	}
}
