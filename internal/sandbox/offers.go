package sandbox

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/nadermx/heroesandmore-client/internal/negotiation"
	domain "github.com/nadermx/heroesandmore-client/pkg/types"
)

type offer struct {
	id             int64
	listingID      int64
	buyerID        int64
	amount         decimal.Decimal
	message        string
	status         domain.OfferStatus
	counterAmount  *decimal.Decimal
	counterMessage string
	expiresAt      *time.Time
	created        time.Time
}

// agreedPrice is the price an accepted offer settled on.
func (o *offer) agreedPrice() decimal.Decimal {
	if o.counterAmount != nil {
		return *o.counterAmount
	}
	return o.amount
}

// MakeOffer opens a pending offer on a fixed-price listing.
func (m *Market) MakeOffer(buyerID, listingID int64, req domain.OfferRequest) (domain.Offer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.listings[listingID]
	if !ok {
		return domain.Offer{}, huma.Error404NotFound("Not found.")
	}
	switch {
	case l.IsAuction():
		return domain.Offer{}, huma.Error400BadRequest("Offers are not accepted on auctions.")
	case !l.AcceptsOffers:
		return domain.Offer{}, huma.Error400BadRequest("This listing does not accept offers.")
	case l.Status != statusActive:
		return domain.Offer{}, huma.Error400BadRequest("This listing is no longer available.")
	case l.sellerID == buyerID:
		return domain.Offer{}, huma.Error400BadRequest("You cannot make an offer on your own listing.")
	}

	amt, err := parseAmount(req.Amount)
	if err != nil {
		return domain.Offer{}, err
	}
	if !amt.LessThan(l.PriceDecimal()) {
		return domain.Offer{}, huma.Error400BadRequest("Offer must be below the asking price.")
	}
	for _, o := range m.offers {
		if o.listingID == listingID && o.buyerID == buyerID && !o.status.IsTerminal() {
			return domain.Offer{}, huma.Error400BadRequest("You already have an open offer on this listing.")
		}
	}

	o := &offer{
		id:        m.nextID(),
		listingID: listingID,
		buyerID:   buyerID,
		amount:    amt,
		message:   req.Message,
		status:    domain.OfferPending,
		created:   m.now(),
	}
	m.offers[o.id] = o
	return m.offerViewLocked(o, buyerID), nil
}

// Offers returns one page of offers the viewer made or received, newest
// first.
func (m *Market) Offers(viewer int64, page int) (domain.Page[domain.Offer], error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var mine []*offer
	for _, o := range m.offers {
		if _, ok := m.roleLocked(o, viewer); ok {
			mine = append(mine, o)
		}
	}
	sort.Slice(mine, func(i, j int) bool { return mine[i].id > mine[j].id })

	out := make([]domain.Offer, 0, len(mine))
	for _, o := range mine {
		out = append(out, m.offerViewLocked(o, viewer))
	}
	return paginate(out, page, "/api/v1/marketplace/offers/")
}

// RespondToOffer applies action to an offer on behalf of viewer. counter
// carries the new amount for a counter-offer and is ignored otherwise.
func (m *Market) RespondToOffer(
	viewer, id int64,
	action negotiation.Action,
	counter *domain.OfferRequest,
) (domain.Offer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.offers[id]
	if !ok {
		return domain.Offer{}, huma.Error404NotFound("Not found.")
	}
	role, ok := m.roleLocked(o, viewer)
	if !ok {
		return domain.Offer{}, huma.Error404NotFound("Not found.")
	}

	view := m.offerViewLocked(o, viewer)
	now := m.now()
	to, err := negotiation.Target(&view, role, action, now)
	if err != nil {
		return domain.Offer{}, offerError(err)
	}

	switch action {
	case negotiation.ActionCounter:
		if counter == nil {
			return domain.Offer{}, huma.Error400BadRequest("Counter amount is required.")
		}
		amt, err := parseAmount(counter.Amount)
		if err != nil {
			return domain.Offer{}, err
		}
		if !amt.GreaterThan(o.amount) {
			return domain.Offer{}, huma.Error400BadRequest("Counter must be above the offer of $" + domain.FormatMoney(o.amount))
		}
		expires := now.Add(m.counterTTL)
		o.counterAmount = &amt
		o.counterMessage = counter.Message
		o.expiresAt = &expires
	case negotiation.ActionAccept, negotiation.ActionAcceptCounter:
		if l := m.listings[o.listingID]; l == nil || l.Status != statusActive {
			return domain.Offer{}, huma.Error400BadRequest("This listing is no longer available.")
		}
	}

	o.status = to
	return m.offerViewLocked(o, viewer), nil
}

// acceptedPriceLocked returns the lowest price buyerID agreed for a listing
// through an accepted offer.
func (m *Market) acceptedPriceLocked(buyerID, listingID int64) (decimal.Decimal, bool) {
	var best decimal.Decimal
	found := false
	for _, o := range m.offers {
		if o.listingID != listingID || o.buyerID != buyerID || o.status != domain.OfferAccepted {
			continue
		}
		if p := o.agreedPrice(); !found || p.LessThan(best) {
			best, found = p, true
		}
	}
	return best, found
}

func (m *Market) roleLocked(o *offer, viewer int64) (negotiation.Role, bool) {
	if viewer == 0 {
		return 0, false
	}
	if o.buyerID == viewer {
		return negotiation.Buyer, true
	}
	if l, ok := m.listings[o.listingID]; ok && l.sellerID == viewer {
		return negotiation.Seller, true
	}
	return 0, false
}

func (m *Market) offerViewLocked(o *offer, viewer int64) domain.Offer {
	v := domain.Offer{
		ID:          o.id,
		Amount:      domain.FormatMoney(o.amount),
		Message:     o.message,
		Status:      o.status,
		IsFromBuyer: o.buyerID == viewer,
		Created:     domain.NewTimestamp(o.created),
	}
	if l, ok := m.listings[o.listingID]; ok {
		v.Listing = domain.OfferListing{ID: l.ID, Title: l.Title, Price: l.Price, ImageURL: l.PrimaryImageURL()}
	}
	if o.counterAmount != nil {
		s := domain.FormatMoney(*o.counterAmount)
		v.CounterAmount = &s
		if o.counterMessage != "" {
			msg := o.counterMessage
			v.CounterMessage = &msg
		}
	}
	if o.expiresAt != nil {
		v.ExpiresAt = domain.NewTimestamp(*o.expiresAt)
		if o.status == domain.OfferCountered {
			v.TimeRemaining = remaining(o.expiresAt.Sub(m.now()))
		}
	}
	return v
}

func remaining(d time.Duration) string {
	if d <= 0 {
		return "expired"
	}
	h := int(d.Hours())
	return fmt.Sprintf("%dh %dm", h, int(d.Minutes())-h*60)
}

func offerError(err error) error {
	switch {
	case errors.Is(err, negotiation.ErrWrongParty):
		return huma.Error403Forbidden("You are not allowed to perform this action on this offer.")
	case errors.Is(err, negotiation.ErrOfferExpired):
		return huma.Error400BadRequest("This counter-offer has expired.")
	case errors.Is(err, negotiation.ErrOfferTerminal):
		return huma.Error400BadRequest("This offer has already been resolved.")
	default:
		return huma.Error400BadRequest("This action is not available for the offer's status.")
	}
}
