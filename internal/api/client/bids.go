package client

import (
	"context"
	"fmt"

	domain "github.com/nadermx/heroesandmore-client/pkg/types"
)

// PlaceBid bids amount on an auction listing. The server decides whether
// the bid is high enough.
func (c *Client) PlaceBid(ctx context.Context, listingID int64, amount string) (*domain.Bid, error) {
	if err := requireID("listing id", listingID); err != nil {
		return nil, err
	}
	req := domain.BidRequest{Amount: amount}
	if err := c.check(req); err != nil {
		return nil, err
	}
	var b domain.Bid
	if err := c.gw.Post(ctx, fmt.Sprintf("/marketplace/listings/%d/bid/", listingID), req, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// SetAutoBid creates or replaces the proxy-bid ceiling on a listing.
func (c *Client) SetAutoBid(ctx context.Context, listingID int64, maxAmount string) (*domain.AutoBid, error) {
	if err := requireID("listing id", listingID); err != nil {
		return nil, err
	}
	req := domain.AutoBidRequest{MaxAmount: maxAmount}
	if err := c.check(req); err != nil {
		return nil, err
	}
	var ab domain.AutoBid
	if err := c.gw.Post(ctx, fmt.Sprintf("/marketplace/listings/%d/autobid/", listingID), req, &ab); err != nil {
		return nil, err
	}
	return &ab, nil
}

// AutoBids returns one page of the signed-in user's proxy bids.
func (c *Client) AutoBids(ctx context.Context, page int) (*domain.Page[domain.AutoBid], error) {
	return getPage[domain.AutoBid](ctx, c, "/marketplace/auctions/autobid/", pageQuery(page))
}

// CancelAutoBid deactivates a proxy bid. The server's 404 or 409 for an
// already-inactive bid is returned as-is.
func (c *Client) CancelAutoBid(ctx context.Context, id int64) error {
	if err := requireID("auto-bid id", id); err != nil {
		return err
	}
	return c.gw.Delete(ctx, fmt.Sprintf("/marketplace/auctions/autobid/%d/", id), nil)
}
