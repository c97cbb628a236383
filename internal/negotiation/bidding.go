// Package negotiation drives bidding, proxy bidding and the offer
// counter-offer flow over server-confirmed state.
package negotiation

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/nadermx/heroesandmore-client/internal/gateway"
	"github.com/nadermx/heroesandmore-client/internal/metrics"
	"github.com/nadermx/heroesandmore-client/pkg/logger"
	domain "github.com/nadermx/heroesandmore-client/pkg/types"
)

// increments is the standard bid ladder: below each ceiling the next bid
// steps by the paired amount.
var increments = []struct {
	below decimal.Decimal
	step  decimal.Decimal
}{
	{decimal.NewFromInt(25), decimal.RequireFromString("1.00")},
	{decimal.NewFromInt(100), decimal.RequireFromString("2.50")},
	{decimal.NewFromInt(250), decimal.RequireFromString("5.00")},
	{decimal.NewFromInt(1000), decimal.RequireFromString("10.00")},
}

var topIncrement = decimal.RequireFromString("25.00")

// quickMultiples are the quick-bid offsets in increments above the
// current bid.
var quickMultiples = []int64{1, 2, 5}

// Increment returns the standard increment above current.
func Increment(current decimal.Decimal) decimal.Decimal {
	for _, inc := range increments {
		if current.LessThan(inc.below) {
			return inc.step
		}
	}
	return topIncrement
}

// SuggestedBid returns the amount to pre-fill for the next bid: the current
// bid plus one increment, or the asking price when nobody has bid yet. The
// server remains the judge of whether it is enough.
func SuggestedBid(l *domain.Listing) decimal.Decimal {
	current, ok := l.CurrentBidDecimal()
	if !ok || !current.IsPositive() {
		return l.PriceDecimal()
	}
	return current.Add(Increment(current))
}

// QuickBids returns one-tap bid amounts at one, two and five increments
// above the current bid. With no bids the first is the asking price.
func QuickBids(l *domain.Listing) []decimal.Decimal {
	current, ok := l.CurrentBidDecimal()
	if !ok || !current.IsPositive() {
		price := l.PriceDecimal()
		inc := Increment(price)
		return []decimal.Decimal{price, price.Add(inc), price.Add(inc.Mul(decimal.NewFromInt(4)))}
	}

	inc := Increment(current)
	out := make([]decimal.Decimal, 0, len(quickMultiples))
	for _, m := range quickMultiples {
		out = append(out, current.Add(inc.Mul(decimal.NewFromInt(m))))
	}
	return out
}

// BidAPI is the subset of the marketplace client used for bidding.
type BidAPI interface {
	GetListing(ctx context.Context, id int64) (*domain.ListingDetail, error)
	PlaceBid(ctx context.Context, listingID int64, amount string) (*domain.Bid, error)
	SetAutoBid(ctx context.Context, listingID int64, maxAmount string) (*domain.AutoBid, error)
	CancelAutoBid(ctx context.Context, id int64) error
}

// Bidder places bids and manages proxy bids.
type Bidder struct {
	api BidAPI
	log *slog.Logger
}

// BidderOption configures the Bidder.
type BidderOption func(*Bidder)

// WithBidderLogger sets the logger.
func WithBidderLogger(l *slog.Logger) BidderOption {
	return func(b *Bidder) {
		b.log = l
	}
}

// NewBidder creates a Bidder.
func NewBidder(api BidAPI, opts ...BidderOption) *Bidder {
	b := &Bidder{api: api, log: logger.Discard()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BidResult is the outcome of a bid attempt together with the listing as
// it stood afterwards.
type BidResult struct {
	Bid     *domain.Bid           // nil when the bid failed
	Listing *domain.ListingDetail // nil when the refetch failed
	NextBid decimal.Decimal       // suggestion from the refreshed listing

	// RefreshErr is the refetch failure, if any. It never replaces the
	// bid's own error.
	RefreshErr error
}

// PlaceBid submits amount and then always refetches the listing, since
// another bidder may have moved the price whether or not this bid landed.
// The returned error is the bid's error; the result is never nil.
func (b *Bidder) PlaceBid(ctx context.Context, listingID int64, amount string) (*BidResult, error) {
	bid, bidErr := b.api.PlaceBid(ctx, listingID, amount)
	if bidErr != nil {
		metrics.BidsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		b.log.Info("bid not accepted", "listing_id", listingID, "amount", amount, "error", bidErr)
	} else {
		metrics.BidsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
		b.log.Info("bid placed", "listing_id", listingID, "amount", bid.Amount, "winning", bid.IsWinning)
	}

	res := &BidResult{Bid: bid}
	listing, err := b.api.GetListing(ctx, listingID)
	if err != nil {
		res.RefreshErr = err
		b.log.Warn("refetching listing after bid", "listing_id", listingID, "error", err)
		return res, bidErr
	}
	res.Listing = listing
	res.NextBid = SuggestedBid(&listing.Listing)
	return res, bidErr
}

// SetAutoBid creates a proxy-bid ceiling. The server bids on the user's
// behalf; nothing is simulated locally.
func (b *Bidder) SetAutoBid(ctx context.Context, listingID int64, maxAmount string) (*domain.AutoBid, error) {
	ab, err := b.api.SetAutoBid(ctx, listingID, maxAmount)
	if err != nil {
		return nil, err
	}
	b.log.Info("auto-bid set", "listing_id", listingID, "auto_bid_id", ab.ID, "max_amount", ab.MaxAmount)
	return ab, nil
}

// CancelAutoBid deactivates a proxy bid. A 404 or 409 means it is already
// gone or inactive and is reported as success.
func (b *Bidder) CancelAutoBid(ctx context.Context, id int64) error {
	err := b.api.CancelAutoBid(ctx, id)
	switch {
	case err == nil:
		metrics.AutoBidCancelsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
		return nil
	case alreadyInactive(err):
		metrics.AutoBidCancelsTotal.WithLabelValues(metrics.OutcomeSkipped).Inc()
		b.log.Debug("auto-bid already inactive", "auto_bid_id", id, "status", gateway.StatusCode(err))
		return nil
	default:
		metrics.AutoBidCancelsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return err
	}
}

func alreadyInactive(err error) bool {
	if errors.Is(err, gateway.ErrNotFound) {
		return true
	}
	return errors.Is(err, gateway.ErrClientRejected) && gateway.StatusCode(err) == http.StatusConflict
}
