package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	apiclient "github.com/nadermx/heroesandmore-client/internal/api/client"
	domain "github.com/nadermx/heroesandmore-client/pkg/types"
)

func ordersCmd() *cobra.Command {
	ordersRoot := &cobra.Command{
		Use:   "orders",
		Short: "Track and fulfil orders",
	}

	ordersRoot.AddCommand(
		ordersListCmd(),
		ordersGetCmd(),
		ordersShipCmd(),
		ordersReceivedCmd(),
		ordersReviewCmd(),
	)

	return ordersRoot
}

func ordersListCmd() *cobra.Command {
	var (
		role string
		page int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders you bought or sold",
		Example: `  ham orders list
  ham orders list --type sold`,
		RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
			res, err := a.client.Orders(ctx, apiclient.OrderRole(role), page)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(res)
			}
			if len(res.Results) == 0 {
				fmt.Println("No orders.")
				return nil
			}
			return printOrdersTable(res.Results)
		}),
	}
	cmd.Flags().StringVar(&role, "type", string(apiclient.OrdersBought), "bought or sold")
	cmd.Flags().IntVar(&page, "page", 0, "page number (1-based)")

	return cmd
}

func ordersGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <order-id>",
		Short: "Show order details",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			id, err := parseID("order id", args[0])
			if err != nil {
				return err
			}
			o, err := a.client.GetOrder(ctx, id)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(o)
			}
			return printOrderDetail(o)
		}),
	}
}

func ordersShipCmd() *cobra.Command {
	var req domain.ShipRequest

	cmd := &cobra.Command{
		Use:     "ship <order-id>",
		Short:   "Mark a paid order shipped (seller)",
		Example: `  ham orders ship 12 --carrier USPS --tracking 9400111899223`,
		Args:    cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			id, err := parseID("order id", args[0])
			if err != nil {
				return err
			}
			o, err := a.client.MarkShipped(ctx, id, req)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(o)
			}
			return printOrderDetail(o)
		}),
	}
	cmd.Flags().StringVar(&req.TrackingNumber, "tracking", "", "tracking number")
	cmd.Flags().StringVar(&req.TrackingCarrier, "carrier", "", "shipping carrier")
	cobra.CheckErr(cmd.MarkFlagRequired("tracking"))
	cobra.CheckErr(cmd.MarkFlagRequired("carrier"))

	return cmd
}

func ordersReceivedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "received <order-id>",
		Short: "Confirm a shipped order arrived (buyer)",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			id, err := parseID("order id", args[0])
			if err != nil {
				return err
			}
			o, err := a.client.MarkReceived(ctx, id)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(o)
			}
			return printOrderDetail(o)
		}),
	}
}

func ordersReviewCmd() *cobra.Command {
	var req domain.ReviewRequest

	cmd := &cobra.Command{
		Use:     "review <order-id>",
		Short:   "Review a delivered order (buyer, once)",
		Example: `  ham orders review 12 --rating 5 --comment "Well packed"`,
		Args:    cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			id, err := parseID("order id", args[0])
			if err != nil {
				return err
			}
			r, err := a.client.LeaveReview(ctx, id, req)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(r)
			}
			return printReview(r)
		}),
	}
	cmd.Flags().IntVar(&req.Rating, "rating", 0, "rating from 1 to 5")
	cmd.Flags().StringVar(&req.Comment, "comment", "", "review text")
	cobra.CheckErr(cmd.MarkFlagRequired("rating"))

	return cmd
}
