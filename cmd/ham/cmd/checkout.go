package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nadermx/heroesandmore-client/internal/checkout"
	domain "github.com/nadermx/heroesandmore-client/pkg/types"
)

func checkoutCmd() *cobra.Command {
	checkoutRoot := &cobra.Command{
		Use:   "checkout",
		Short: "Buy a listing",
		Long: "Reserve a listing, create the payment intent and confirm payment.\n" +
			"A run that stops part way can be resumed from its order, so the\n" +
			"listing is never reserved twice.",
	}

	checkoutRoot.AddCommand(
		checkoutRunCmd(),
		checkoutResumeCmd(),
	)

	return checkoutRoot
}

// announceIntent stands in for the card processor. It shows the intent the
// processor would confirm; the marketplace decides whether it was paid.
func announceIntent(_ context.Context, pi *domain.PaymentIntent) error {
	fmt.Fprintf(os.Stderr, "Payment intent %s for %d %s handed to the processor.\n",
		pi.PaymentIntentID, pi.Amount, pi.Currency)
	return nil
}

func newOrchestrator(a *app) *checkout.Orchestrator {
	opts := []checkout.Option{checkout.WithLogger(a.log)}
	if a.tel.Enabled() {
		opts = append(opts, checkout.WithTracerProvider(a.tel.TracerProvider))
	}
	return checkout.New(a.client, checkout.ConfirmerFunc(announceIntent), opts...)
}

func runAttempt(ctx context.Context, a *app, att *checkout.Attempt) error {
	pc, err := newOrchestrator(a).Run(ctx, att)
	if err != nil {
		if att.Order != nil {
			fmt.Fprintf(os.Stderr,
				"Checkout stopped at %s. Resume with: ham checkout resume %d\n",
				att.Stage(), att.Order.OrderID)
		}
		return failure("checkout", err)
	}
	if jsonOutput() {
		return outputJSON(map[string]any{"order": att.Order, "payment": pc})
	}
	return printCheckout(att.Order, pc)
}

func checkoutRunCmd() *cobra.Command {
	var (
		addressID     int64
		paymentMethod string
	)

	cmd := &cobra.Command{
		Use:     "run <listing-id>",
		Short:   "Check out a listing from start to finish",
		Example: `  ham checkout run 103 --payment-method pm_card_visa`,
		Args:    cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			id, err := parseID("listing id", args[0])
			if err != nil {
				return err
			}
			att := checkout.NewAttempt(id)
			att.PaymentMethodID = paymentMethod
			if addressID > 0 {
				att.ShippingAddressID = &addressID
			}
			return runAttempt(ctx, a, att)
		}),
	}
	cmd.Flags().Int64Var(&addressID, "shipping-address-id", 0, "saved shipping address")
	cmd.Flags().StringVar(&paymentMethod, "payment-method", "", "saved payment method")

	return cmd
}

func checkoutResumeCmd() *cobra.Command {
	var paymentMethod string

	cmd := &cobra.Command{
		Use:   "resume <order-id>",
		Short: "Finish paying for an order reserved earlier",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			id, err := parseID("order id", args[0])
			if err != nil {
				return err
			}
			att := checkout.ResumeOrder(id)
			att.PaymentMethodID = paymentMethod
			return runAttempt(ctx, a, att)
		}),
	}
	cmd.Flags().StringVar(&paymentMethod, "payment-method", "", "saved payment method")

	return cmd
}
