package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/nadermx/heroesandmore-client/internal/gateway"
	domain "github.com/nadermx/heroesandmore-client/pkg/types"
)

// OrderRole selects bought or sold orders.
type OrderRole string

const (
	OrdersBought OrderRole = "bought"
	OrdersSold   OrderRole = "sold"
)

// Orders returns one page of the signed-in user's orders in role.
func (c *Client) Orders(ctx context.Context, role OrderRole, page int) (*domain.Page[domain.Order], error) {
	switch role {
	case "":
		role = OrdersBought
	case OrdersBought, OrdersSold:
	default:
		return nil, invalid(fmt.Sprintf("unknown order role %q", role))
	}
	q := pageQuery(page)
	q.Set("type", string(role))
	return getPage[domain.Order](ctx, c, "/marketplace/orders/", q)
}

func (c *Client) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	if err := requireID("order id", id); err != nil {
		return nil, err
	}
	var o domain.Order
	if err := c.gw.Get(ctx, fmt.Sprintf("/marketplace/orders/%d/", id), nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// MarkShipped is the seller recording tracking details.
func (c *Client) MarkShipped(ctx context.Context, id int64, req domain.ShipRequest) (*domain.Order, error) {
	if err := requireID("order id", id); err != nil {
		return nil, err
	}
	if err := c.check(req); err != nil {
		return nil, err
	}
	var o domain.Order
	if err := c.gw.Post(ctx, fmt.Sprintf("/marketplace/orders/%d/ship/", id), req, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// MarkReceived is the buyer confirming delivery.
func (c *Client) MarkReceived(ctx context.Context, id int64) (*domain.Order, error) {
	if err := requireID("order id", id); err != nil {
		return nil, err
	}
	var o domain.Order
	if err := c.gw.Post(ctx, fmt.Sprintf("/marketplace/orders/%d/received/", id), nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// LeaveReview records the buyer's one-time review of a completed order.
func (c *Client) LeaveReview(ctx context.Context, id int64, req domain.ReviewRequest) (*domain.Review, error) {
	if err := requireID("order id", id); err != nil {
		return nil, err
	}
	if err := c.check(req); err != nil {
		return nil, err
	}
	var r domain.Review
	if err := c.gw.Post(ctx, fmt.Sprintf("/marketplace/orders/%d/review/", id), req, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Checkout reserves a listing for the signed-in buyer and creates a
// pending order. A non-empty idempotencyKey is sent so a duplicated
// request returns the same order.
func (c *Client) Checkout(
	ctx context.Context,
	listingID int64,
	req domain.CheckoutRequest,
	idempotencyKey string,
) (*domain.CheckoutResult, error) {
	if err := requireID("listing id", listingID); err != nil {
		return nil, err
	}
	var h http.Header
	if idempotencyKey != "" {
		h = http.Header{"Idempotency-Key": {idempotencyKey}}
	}

	var res domain.CheckoutResult
	err := c.gw.Execute(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/marketplace/checkout/%d/", listingID),
		Body:   req,
		Header: h,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// CreatePaymentIntent asks for a processor intent against a pending order.
func (c *Client) CreatePaymentIntent(ctx context.Context, req domain.PaymentIntentRequest) (*domain.PaymentIntent, error) {
	if err := c.check(req); err != nil {
		return nil, err
	}
	var pi domain.PaymentIntent
	if err := c.gw.Post(ctx, "/marketplace/payment/intent/", req, &pi); err != nil {
		return nil, err
	}
	return &pi, nil
}

// ConfirmPayment reports a processor-confirmed intent to the marketplace.
func (c *Client) ConfirmPayment(ctx context.Context, paymentIntentID string) (*domain.PaymentConfirmation, error) {
	req := domain.PaymentConfirmRequest{PaymentIntentID: paymentIntentID}
	if err := c.check(req); err != nil {
		return nil, err
	}
	var pc domain.PaymentConfirmation
	if err := c.gw.Post(ctx, "/marketplace/payment/confirm/", req, &pc); err != nil {
		return nil, err
	}
	return &pc, nil
}
