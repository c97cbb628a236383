package sandbox

import (
	"sort"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/nadermx/heroesandmore-client/internal/negotiation"
	domain "github.com/nadermx/heroesandmore-client/pkg/types"
)

type autoBid struct {
	id        int64
	listingID int64
	userID    int64
	max       decimal.Decimal
	active    bool
	created   time.Time
}

// PlaceBid records a bid on a running auction and then lets competing
// auto-bids respond.
func (m *Market) PlaceBid(userID, listingID int64, amount string) (domain.Bid, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, err := m.biddableLocked(userID, listingID)
	if err != nil {
		return domain.Bid{}, err
	}
	amt, err := parseAmount(amount)
	if err != nil {
		return domain.Bid{}, err
	}
	if err := checkBid(l, amt); err != nil {
		return domain.Bid{}, err
	}

	b := m.addBidLocked(l, userID, amt)
	m.runAutoBidsLocked(l)
	return m.bidViewLocked(b, l.highBid()), nil
}

// SetAutoBid creates or raises the caller's proxy-bid ceiling on an auction.
func (m *Market) SetAutoBid(userID, listingID int64, maxAmount string) (domain.AutoBid, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, err := m.biddableLocked(userID, listingID)
	if err != nil {
		return domain.AutoBid{}, err
	}
	ceiling, err := parseAmount(maxAmount)
	if err != nil {
		return domain.AutoBid{}, err
	}
	if high := l.highBid(); high != nil && !ceiling.GreaterThan(high.amount) {
		return domain.AutoBid{}, huma.Error400BadRequest(
			"Maximum must exceed current bid of $" + domain.FormatMoney(high.amount))
	}

	var ab *autoBid
	for _, existing := range m.autoBids {
		if existing.listingID == listingID && existing.userID == userID && existing.active {
			ab = existing
			break
		}
	}
	if ab == nil {
		ab = &autoBid{id: m.nextID(), listingID: listingID, userID: userID, created: m.now()}
		m.autoBids[ab.id] = ab
	}
	ab.max = ceiling
	ab.active = true

	m.runAutoBidsLocked(l)
	return m.autoBidViewLocked(ab), nil
}

// AutoBids returns one page of the caller's auto-bids, newest first.
func (m *Market) AutoBids(userID int64, page int) (domain.Page[domain.AutoBid], error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var mine []*autoBid
	for _, ab := range m.autoBids {
		if ab.userID == userID {
			mine = append(mine, ab)
		}
	}
	sort.Slice(mine, func(i, j int) bool { return mine[i].id > mine[j].id })

	out := make([]domain.AutoBid, 0, len(mine))
	for _, ab := range mine {
		out = append(out, m.autoBidViewLocked(ab))
	}
	return paginate(out, page, "/api/v1/marketplace/auctions/autobid/")
}

// CancelAutoBid deactivates an auto-bid. Cancelling one that is already
// inactive is a conflict.
func (m *Market) CancelAutoBid(userID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ab, ok := m.autoBids[id]
	if !ok || ab.userID != userID {
		return huma.Error404NotFound("Not found.")
	}
	if !ab.active {
		return huma.Error409Conflict("Auto-bid is already inactive.")
	}
	ab.active = false
	return nil
}

func (m *Market) biddableLocked(userID, listingID int64) (*listing, error) {
	l, ok := m.listings[listingID]
	if !ok {
		return nil, huma.Error404NotFound("Not found.")
	}
	switch {
	case !l.IsAuction():
		return nil, huma.Error400BadRequest("Bids are only accepted on auction listings.")
	case l.Status != statusActive || (l.EndDate != nil && !m.now().Before(l.EndDate.Time)):
		return nil, huma.Error400BadRequest("This auction has ended.")
	case l.sellerID == userID:
		return nil, huma.Error400BadRequest("You cannot bid on your own listing.")
	}
	return l, nil
}

// checkBid enforces the server's bid rule: the first bid must meet the
// starting price, later bids must exceed the current bid.
func checkBid(l *listing, amt decimal.Decimal) error {
	high := l.highBid()
	if high == nil {
		start := l.PriceDecimal()
		if amt.LessThan(start) {
			return huma.Error400BadRequest("Bid must be at least $" + domain.FormatMoney(start))
		}
		return nil
	}
	if !amt.GreaterThan(high.amount) {
		return huma.Error400BadRequest("Bid must exceed current bid of $" + domain.FormatMoney(high.amount))
	}
	return nil
}

func (m *Market) addBidLocked(l *listing, userID int64, amt decimal.Decimal) *bid {
	b := &bid{id: m.nextID(), userID: userID, amount: amt, created: m.now()}
	l.bids = append(l.bids, b)
	return b
}

// runAutoBidsLocked raises the strongest competing auto-bid to the next
// increment, repeatedly, until no ceiling can beat the high bid.
func (m *Market) runAutoBidsLocked(l *listing) {
	for range maxAutoBidRounds {
		high := l.highBid()
		next := l.PriceDecimal()
		var leader int64
		if high != nil {
			next = high.amount.Add(negotiation.Increment(high.amount))
			leader = high.userID
		}

		var best *autoBid
		for _, ab := range m.autoBids {
			if ab.listingID != l.ID || !ab.active || ab.userID == leader || ab.max.LessThan(next) {
				continue
			}
			if best == nil || ab.max.GreaterThan(best.max) || (ab.max.Equal(best.max) && ab.id < best.id) {
				best = ab
			}
		}
		if best == nil {
			return
		}
		m.addBidLocked(l, best.userID, next)
	}
}

func (m *Market) bidViewLocked(b, high *bid) domain.Bid {
	v := domain.Bid{
		ID:        b.id,
		Amount:    domain.FormatMoney(b.amount),
		Created:   domain.NewTimestamp(b.created),
		IsWinning: high != nil && high.id == b.id,
	}
	if a, ok := m.accounts[b.userID]; ok {
		v.Bidder = a.profile.Username
	}
	return v
}

func (m *Market) autoBidViewLocked(ab *autoBid) domain.AutoBid {
	v := domain.AutoBid{
		ID:        ab.id,
		MaxAmount: domain.FormatMoney(ab.max),
		IsActive:  ab.active,
		Created:   domain.NewTimestamp(ab.created),
	}
	if l, ok := m.listings[ab.listingID]; ok {
		v.Listing = domain.AutoBidListing{ID: l.ID, Title: l.Title, ImageURL: l.PrimaryImageURL()}
		if high := l.highBid(); high != nil {
			s := domain.FormatMoney(high.amount)
			v.Listing.CurrentBid = &s
		}
	}
	return v
}
