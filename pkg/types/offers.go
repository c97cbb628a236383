package domain

import "time"

// OfferStatus is the server-confirmed state of an offer.
type OfferStatus string

// Offer status constants.
const (
	OfferPending   OfferStatus = "pending"
	OfferAccepted  OfferStatus = "accepted"
	OfferDeclined  OfferStatus = "declined"
	OfferCountered OfferStatus = "countered"
)

// IsTerminal reports whether no further transition is possible.
func (s OfferStatus) IsTerminal() bool {
	return s == OfferAccepted || s == OfferDeclined
}

// OfferListing is the listing summary embedded in an offer.
type OfferListing struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Price    string `json:"price"`
	ImageURL string `json:"image_url,omitempty"`
}

// Offer is a buyer's price proposal on a fixed-price listing. IsFromBuyer is
// relative to the authenticated viewer: true when the viewer made the offer.
type Offer struct {
	ID             int64        `json:"id"`
	Listing        OfferListing `json:"listing"`
	Amount         string       `json:"amount"`
	Message        string       `json:"message,omitempty"`
	Status         OfferStatus  `json:"status"`
	IsFromBuyer    bool         `json:"is_from_buyer"`
	CounterAmount  *string      `json:"counter_amount,omitempty"`
	CounterMessage *string      `json:"counter_message,omitempty"`
	ExpiresAt      *Timestamp   `json:"expires_at,omitempty"`
	TimeRemaining  string       `json:"time_remaining,omitempty"`
	Created        *Timestamp   `json:"created,omitempty"`
}

// IsExpired reports whether the offer carries an expiry that has passed.
func (o *Offer) IsExpired(now time.Time) bool {
	return o.ExpiresAt != nil && !o.ExpiresAt.IsZero() && !now.Before(o.ExpiresAt.Time)
}

// DisplayStatus is the status a viewer should see at now. A countered offer
// whose expiry has passed reads as declined before the server confirms it.
func (o *Offer) DisplayStatus(now time.Time) OfferStatus {
	if o.Status == OfferCountered && o.IsExpired(now) {
		return OfferDeclined
	}
	return o.Status
}

// OfferRequest is the body for making or countering an offer.
type OfferRequest struct {
	Amount  string `json:"amount"            validate:"required,money"`
	Message string `json:"message,omitempty" validate:"max=500"`
}
