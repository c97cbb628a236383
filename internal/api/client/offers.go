package client

import (
	"context"
	"fmt"

	domain "github.com/nadermx/heroesandmore-client/pkg/types"
)

// MakeOffer sends a buyer's offer on a fixed-price listing.
func (c *Client) MakeOffer(ctx context.Context, listingID int64, req domain.OfferRequest) (*domain.Offer, error) {
	if err := requireID("listing id", listingID); err != nil {
		return nil, err
	}
	if err := c.check(req); err != nil {
		return nil, err
	}
	var o domain.Offer
	if err := c.gw.Post(ctx, fmt.Sprintf("/marketplace/listings/%d/offer/", listingID), req, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// Offers returns one page of offers the signed-in user sent or received.
func (c *Client) Offers(ctx context.Context, page int) (*domain.Page[domain.Offer], error) {
	return getPage[domain.Offer](ctx, c, "/marketplace/offers/", pageQuery(page))
}

// AllOffers follows every page of offers.
func (c *Client) AllOffers(ctx context.Context) ([]domain.Offer, error) {
	return CollectAll(ctx, c.Offers, c.maxPages)
}

// AcceptOffer is the seller accepting a pending offer.
func (c *Client) AcceptOffer(ctx context.Context, id int64) error {
	return c.offerAction(ctx, id, "accept")
}

// DeclineOffer is the seller declining a pending offer.
func (c *Client) DeclineOffer(ctx context.Context, id int64) error {
	return c.offerAction(ctx, id, "decline")
}

// CounterOffer is the seller answering a pending offer with a new amount.
func (c *Client) CounterOffer(ctx context.Context, id int64, req domain.OfferRequest) (*domain.Offer, error) {
	if err := requireID("offer id", id); err != nil {
		return nil, err
	}
	if err := c.check(req); err != nil {
		return nil, err
	}
	var o domain.Offer
	if err := c.gw.Post(ctx, fmt.Sprintf("/marketplace/offers/%d/counter/", id), req, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// AcceptCounterOffer is the buyer accepting the seller's counter.
func (c *Client) AcceptCounterOffer(ctx context.Context, id int64) error {
	return c.offerAction(ctx, id, "accept-counter")
}

// DeclineCounterOffer is the buyer declining the seller's counter.
func (c *Client) DeclineCounterOffer(ctx context.Context, id int64) error {
	return c.offerAction(ctx, id, "decline-counter")
}

func (c *Client) offerAction(ctx context.Context, id int64, action string) error {
	if err := requireID("offer id", id); err != nil {
		return err
	}
	return c.gw.Post(ctx, fmt.Sprintf("/marketplace/offers/%d/%s/", id, action), nil, nil)
}
