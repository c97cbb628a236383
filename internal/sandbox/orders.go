package sandbox

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domain "github.com/nadermx/heroesandmore-client/pkg/types"
)

type order struct {
	id        int64
	listingID int64
	buyerID   int64
	sellerID  int64
	subtotal  decimal.Decimal
	shipping  decimal.Decimal
	status    domain.OrderStatus

	intentID     string
	clientSecret string

	trackingNumber  string
	trackingCarrier string

	created     time.Time
	paidAt      time.Time
	shippedAt   time.Time
	deliveredAt time.Time

	review *domain.Review
}

func (o *order) total() decimal.Decimal {
	return o.subtotal.Add(o.shipping)
}

func (o *order) checkoutResult() domain.CheckoutResult {
	return domain.CheckoutResult{
		OrderID:  o.id,
		Total:    domain.FormatMoney(o.total()),
		Subtotal: domain.FormatMoney(o.subtotal),
		Shipping: domain.FormatMoney(o.shipping),
		Fee:      domain.FormatMoney(decimal.Zero),
		Status:   string(o.status),
	}
}

// Checkout reserves a listing for buyerID and opens a pending order. A
// repeated idempotency key from the same buyer returns the original order.
func (m *Market) Checkout(buyerID, listingID int64, idempotencyKey string) (domain.CheckoutResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idemKey := fmt.Sprintf("%d:%s", buyerID, idempotencyKey)
	if idempotencyKey != "" {
		if id, ok := m.idempotency[idemKey]; ok {
			return m.orders[id].checkoutResult(), nil
		}
	}

	l, ok := m.listings[listingID]
	if !ok {
		return domain.CheckoutResult{}, huma.Error404NotFound("Not found.")
	}
	switch {
	case l.sellerID == buyerID:
		return domain.CheckoutResult{}, huma.Error400BadRequest("You cannot buy your own listing.")
	case l.Status == statusSold:
		return domain.CheckoutResult{}, huma.Error409Conflict("Listing has already been sold.")
	case l.reservedBy != 0 && l.reservedBy != buyerID:
		return domain.CheckoutResult{}, huma.Error409Conflict("Listing is reserved by another buyer.")
	case l.pendingOrder != 0:
		return domain.CheckoutResult{}, huma.Error409Conflict("You already have a pending order for this listing.")
	case l.IsAuction() && l.Status == statusActive:
		return domain.CheckoutResult{}, huma.Error400BadRequest("This auction has not ended.")
	case l.IsAuction() && l.reservedBy != buyerID:
		return domain.CheckoutResult{}, huma.Error400BadRequest("Only the winning bidder can check out.")
	}

	subtotal := l.PriceDecimal()
	if l.IsAuction() {
		subtotal = l.highBid().amount
	} else if agreed, ok := m.acceptedPriceLocked(buyerID, listingID); ok {
		subtotal = agreed
	}
	shipping := decimal.Zero
	if l.ShippingPrice != nil {
		shipping, _ = domain.ParseMoney(*l.ShippingPrice)
	}

	o := &order{
		id:        m.nextID(),
		listingID: listingID,
		buyerID:   buyerID,
		sellerID:  l.sellerID,
		subtotal:  subtotal,
		shipping:  shipping,
		status:    domain.OrderPending,
		created:   m.now(),
	}
	m.orders[o.id] = o
	l.reservedBy = buyerID
	l.pendingOrder = o.id
	if l.Status == statusActive {
		l.Status = statusReserved
	}
	if idempotencyKey != "" {
		m.idempotency[idemKey] = o.id
	}
	return o.checkoutResult(), nil
}

// CreatePaymentIntent returns the processor intent for a pending order,
// creating it on first use.
func (m *Market) CreatePaymentIntent(buyerID int64, req domain.PaymentIntentRequest) (domain.PaymentIntent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[req.OrderID]
	if !ok || o.buyerID != buyerID {
		return domain.PaymentIntent{}, huma.Error404NotFound("Order not found.")
	}
	if o.status != domain.OrderPending {
		return domain.PaymentIntent{}, huma.Error400BadRequest("Order is not awaiting payment.")
	}

	if o.intentID == "" {
		id := strings.ReplaceAll(uuid.NewString(), "-", "")
		o.intentID = "pi_" + id[:24]
		o.clientSecret = o.intentID + "_secret_" + id[24:]
		m.intents[o.intentID] = o.id
	}
	return domain.PaymentIntent{
		ClientSecret:    o.clientSecret,
		PaymentIntentID: o.intentID,
		Amount:          o.total().Shift(2).IntPart(),
		Currency:        "usd",
	}, nil
}

// ConfirmPayment marks the intent's order paid and the listing sold.
// Confirming an already paid order reports success again.
func (m *Market) ConfirmPayment(buyerID int64, intentID string) (domain.PaymentConfirmation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.intents[intentID]
	if !ok || m.orders[id].buyerID != buyerID {
		return domain.PaymentConfirmation{}, huma.Error404NotFound("Payment not found.")
	}
	o := m.orders[id]

	switch o.status {
	case domain.OrderPending:
		o.status = domain.OrderPaid
		o.paidAt = m.now()
		if l, ok := m.listings[o.listingID]; ok {
			l.Status = statusSold
			l.pendingOrder = 0
			l.QuantityAvailable = 0
		}
	case domain.OrderCancelled:
		return domain.PaymentConfirmation{
			Success: false,
			OrderID: &o.id,
			Status:  string(o.status),
			Message: "Order was cancelled.",
		}, nil
	}
	return domain.PaymentConfirmation{
		Success: true,
		OrderID: &o.id,
		Status:  string(o.status),
		Message: "Payment confirmed.",
	}, nil
}

// Orders returns one page of the viewer's purchases ("bought") or sales
// ("sold"), newest first.
func (m *Market) Orders(viewer int64, kind string, page int) (domain.Page[domain.Order], error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var mine []*order
	for _, o := range m.orders {
		if (kind == "sold" && o.sellerID == viewer) || (kind != "sold" && o.buyerID == viewer) {
			mine = append(mine, o)
		}
	}
	sort.Slice(mine, func(i, j int) bool { return mine[i].id > mine[j].id })

	out := make([]domain.Order, 0, len(mine))
	for _, o := range mine {
		out = append(out, m.orderViewLocked(o))
	}
	return paginate(out, page, "/api/v1/marketplace/orders/")
}

// Order returns an order the viewer is party to.
func (m *Market) Order(viewer, id int64) (domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, err := m.partyOrderLocked(viewer, id)
	if err != nil {
		return domain.Order{}, err
	}
	return m.orderViewLocked(o), nil
}

// MarkShipped is the seller adding tracking to a paid order.
func (m *Market) MarkShipped(viewer, id int64, req domain.ShipRequest) (domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, err := m.partyOrderLocked(viewer, id)
	if err != nil {
		return domain.Order{}, err
	}
	switch {
	case o.sellerID != viewer:
		return domain.Order{}, huma.Error403Forbidden("Only the seller can mark an order shipped.")
	case o.status != domain.OrderPaid:
		return domain.Order{}, huma.Error400BadRequest("Order is not ready to ship.")
	case req.TrackingNumber == "" || req.TrackingCarrier == "":
		return domain.Order{}, huma.Error400BadRequest("Tracking number and carrier are required.")
	}

	o.status = domain.OrderShipped
	o.trackingNumber = req.TrackingNumber
	o.trackingCarrier = req.TrackingCarrier
	o.shippedAt = m.now()
	return m.orderViewLocked(o), nil
}

// MarkReceived is the buyer confirming delivery of a shipped order.
func (m *Market) MarkReceived(viewer, id int64) (domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, err := m.partyOrderLocked(viewer, id)
	if err != nil {
		return domain.Order{}, err
	}
	switch {
	case o.buyerID != viewer:
		return domain.Order{}, huma.Error403Forbidden("Only the buyer can confirm receipt.")
	case o.status != domain.OrderShipped:
		return domain.Order{}, huma.Error400BadRequest("Order has not shipped.")
	}

	o.status = domain.OrderDelivered
	o.deliveredAt = m.now()
	return m.orderViewLocked(o), nil
}

// LeaveReview records the buyer's single review and completes the order.
func (m *Market) LeaveReview(viewer, id int64, req domain.ReviewRequest) (domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, err := m.partyOrderLocked(viewer, id)
	if err != nil {
		return domain.Review{}, err
	}
	switch {
	case o.buyerID != viewer:
		return domain.Review{}, huma.Error403Forbidden("Only the buyer can review an order.")
	case o.review != nil:
		return domain.Review{}, huma.Error400BadRequest("You have already reviewed this order.")
	case o.status != domain.OrderDelivered && o.status != domain.OrderCompleted:
		return domain.Review{}, huma.Error400BadRequest("Order is not complete.")
	case req.Rating < 1 || req.Rating > 5:
		return domain.Review{}, huma.Error400BadRequest("Rating must be between 1 and 5.")
	}

	o.review = &domain.Review{
		ID:       m.nextID(),
		Rating:   req.Rating,
		Comment:  req.Comment,
		Reviewer: m.accounts[viewer].profile.Username,
		Created:  domain.NewTimestamp(m.now()),
	}
	o.status = domain.OrderCompleted
	m.rateSellerLocked(o.sellerID, req.Rating)
	return *o.review, nil
}

func (m *Market) rateSellerLocked(sellerID int64, rating int) {
	a, ok := m.accounts[sellerID]
	if !ok {
		return
	}
	total := float64(rating)
	if a.profile.Rating != nil {
		total += *a.profile.Rating * float64(a.profile.RatingCount)
	}
	a.profile.RatingCount++
	avg := total / float64(a.profile.RatingCount)
	a.profile.Rating = &avg
	a.profile.TotalSalesCount++
}

func (m *Market) partyOrderLocked(viewer, id int64) (*order, error) {
	o, ok := m.orders[id]
	if !ok || (o.buyerID != viewer && o.sellerID != viewer) {
		return nil, huma.Error404NotFound("Order not found.")
	}
	return o, nil
}

var statusDisplay = map[domain.OrderStatus]string{
	domain.OrderPending:   "Pending Payment",
	domain.OrderPaid:      "Paid",
	domain.OrderShipped:   "Shipped",
	domain.OrderDelivered: "Delivered",
	domain.OrderCompleted: "Completed",
	domain.OrderCancelled: "Cancelled",
}

func (m *Market) orderViewLocked(o *order) domain.Order {
	v := domain.Order{
		ID:            o.id,
		OrderNumber:   fmt.Sprintf("HM-%06d", o.id),
		Total:         domain.FormatMoney(o.total()),
		Status:        o.status,
		StatusDisplay: statusDisplay[o.status],
		Created:       domain.NewTimestamp(o.created),
	}
	if l, ok := m.listings[o.listingID]; ok {
		v.Listing = domain.OrderListing{ID: l.ID, Title: l.Title, Price: l.Price, ImageURL: l.PrimaryImageURL()}
	}
	if a, ok := m.accounts[o.buyerID]; ok {
		v.Buyer = domain.OrderUser{Username: a.profile.Username, AvatarURL: a.profile.AvatarURL}
	}
	if a, ok := m.accounts[o.sellerID]; ok {
		v.Seller = domain.OrderUser{Username: a.profile.Username, AvatarURL: a.profile.AvatarURL}
	}
	if o.trackingNumber != "" {
		number, carrier := o.trackingNumber, o.trackingCarrier
		v.TrackingNumber = &number
		v.TrackingCarrier = &carrier
	}
	v.PaidAt = optionalTime(o.paidAt)
	v.ShippedAt = optionalTime(o.shippedAt)
	v.DeliveredAt = optionalTime(o.deliveredAt)
	return v
}

func optionalTime(t time.Time) *domain.Timestamp {
	if t.IsZero() {
		return nil
	}
	return domain.NewTimestamp(t)
}
