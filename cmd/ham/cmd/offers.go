package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	apiclient "github.com/nadermx/heroesandmore-client/internal/api/client"
	"github.com/nadermx/heroesandmore-client/internal/negotiation"
	domain "github.com/nadermx/heroesandmore-client/pkg/types"
)

func offersCmd() *cobra.Command {
	offersRoot := &cobra.Command{
		Use:   "offers",
		Short: "Make and negotiate offers",
		Long: "Make offers on fixed-price listings and move them through\n" +
			"accept, decline and counter. Each action is checked against the\n" +
			"offer's current status and your side of it before it is sent.",
	}

	offersRoot.AddCommand(
		offersListCmd(),
		offersMakeCmd(),
		offerActionCmd(negotiation.ActionAccept, "Accept a pending offer (seller)"),
		offerActionCmd(negotiation.ActionDecline, "Decline a pending offer (seller)"),
		offersCounterCmd(),
		offerActionCmd(negotiation.ActionAcceptCounter, "Accept a counter-offer (buyer)"),
		offerActionCmd(negotiation.ActionDeclineCounter, "Decline a counter-offer (buyer)"),
	)

	return offersRoot
}

// roleOf returns the viewer's side of o.
func roleOf(o *domain.Offer) negotiation.Role {
	if o.IsFromBuyer {
		return negotiation.Buyer
	}
	return negotiation.Seller
}

// findOffer looks id up among the viewer's offers; the marketplace has no
// single-offer endpoint.
func findOffer(ctx context.Context, c *apiclient.Client, id int64) (*domain.Offer, error) {
	offers, err := c.AllOffers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range offers {
		if offers[i].ID == id {
			return &offers[i], nil
		}
	}
	return nil, fmt.Errorf("offer %d not found among your offers", id)
}

func offersListCmd() *cobra.Command {
	var (
		page int
		all  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List offers you made or received",
		RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
			var offers []domain.Offer
			if all {
				res, err := a.client.AllOffers(ctx)
				if err != nil {
					return err
				}
				offers = res
			} else {
				res, err := a.client.Offers(ctx, page)
				if err != nil {
					return err
				}
				offers = res.Results
			}

			if jsonOutput() {
				return outputJSON(offers)
			}
			if len(offers) == 0 {
				fmt.Println("No offers.")
				return nil
			}
			return printOffersTable(offers)
		}),
	}
	cmd.Flags().IntVar(&page, "page", 0, "page number (1-based)")
	cmd.Flags().BoolVar(&all, "all", false, "follow every page")

	return cmd
}

func offersMakeCmd() *cobra.Command {
	var req domain.OfferRequest

	cmd := &cobra.Command{
		Use:     "make <listing-id>",
		Short:   "Offer a price on a fixed-price listing",
		Example: `  ham offers make 101 --amount 1200.00 --message "Would you take 1200?"`,
		Args:    cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			id, err := parseID("listing id", args[0])
			if err != nil {
				return err
			}
			o, err := a.client.MakeOffer(ctx, id, req)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(o)
			}
			return printOffer(o)
		}),
	}
	cmd.Flags().StringVar(&req.Amount, "amount", "", "offer amount")
	cmd.Flags().StringVar(&req.Message, "message", "", "message to the seller")
	cobra.CheckErr(cmd.MarkFlagRequired("amount"))

	return cmd
}

func offersCounterCmd() *cobra.Command {
	var req domain.OfferRequest

	cmd := &cobra.Command{
		Use:     "counter <offer-id>",
		Short:   "Counter a pending offer (seller)",
		Example: `  ham offers counter 7 --amount 1350.00`,
		Args:    cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			id, err := parseID("offer id", args[0])
			if err != nil {
				return err
			}
			o, err := findOffer(ctx, a.client, id)
			if err != nil {
				return err
			}
			n := negotiation.NewNegotiator(a.client, negotiation.WithNegotiatorLogger(a.log))
			updated, err := n.Do(ctx, o, roleOf(o), negotiation.ActionCounter, req)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(updated)
			}
			return printOffer(updated)
		}),
	}
	cmd.Flags().StringVar(&req.Amount, "amount", "", "counter amount")
	cmd.Flags().StringVar(&req.Message, "message", "", "message to the buyer")
	cobra.CheckErr(cmd.MarkFlagRequired("amount"))

	return cmd
}

// offerActionCmd builds the commands for the transitions that carry no
// body.
func offerActionCmd(action negotiation.Action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(action) + " <offer-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			id, err := parseID("offer id", args[0])
			if err != nil {
				return err
			}
			o, err := findOffer(ctx, a.client, id)
			if err != nil {
				return err
			}
			n := negotiation.NewNegotiator(a.client, negotiation.WithNegotiatorLogger(a.log))
			updated, err := n.Do(ctx, o, roleOf(o), action, domain.OfferRequest{})
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(updated)
			}
			return printOffer(updated)
		}),
	}
}
