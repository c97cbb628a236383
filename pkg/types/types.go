// Package domain defines the wire model shared by the marketplace client,
// its resource clients and the sandbox server.
package domain

import (
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// ListingType represents the sale format of a listing.
type ListingType string

// Listing type constants.
const (
	ListingFixed   ListingType = "fixed"
	ListingAuction ListingType = "auction"
)

// Hot listing thresholds.
const (
	hotWindow     = 72 * time.Hour
	hotMinBids    = 5
	hotMinWatches = 10
	hotMinViews   = 200
)

// Listing is a marketplace item snapshot as returned by list endpoints.
type Listing struct {
	ID               int64       `json:"id"`
	Title            string      `json:"title"`
	Description      string      `json:"description,omitempty"`
	Price            string      `json:"price"`
	CurrentBid       *string     `json:"current_bid,omitempty"`
	BuyNowPrice      *string     `json:"buy_now_price,omitempty"`
	Condition        string      `json:"condition,omitempty"`
	ConditionDisplay string      `json:"condition_display,omitempty"`
	ListingType      ListingType `json:"listing_type"`
	Status           string      `json:"status"`

	Image1 string `json:"image_1,omitempty"`
	Image2 string `json:"image_2,omitempty"`
	Image3 string `json:"image_3,omitempty"`
	Image4 string `json:"image_4,omitempty"`

	Seller   Seller    `json:"seller"`
	Category *Category `json:"category,omitempty"`
	Item     *Item     `json:"item,omitempty"`

	// Engagement
	BidCount          int     `json:"bid_count"`
	WatchCount        int     `json:"watch_count"`
	ViewCount         int     `json:"view_count"`
	QuantityAvailable int     `json:"quantity_available"`
	IsWatched         bool    `json:"is_watched"`
	AcceptsOffers     bool    `json:"accepts_offers"`
	ShippingPrice     *string `json:"shipping_price,omitempty"`

	EndDate *Timestamp `json:"end_date,omitempty"`
	Created *Timestamp `json:"created,omitempty"`
}

// IsAuction reports whether the listing sells by auction.
func (l *Listing) IsAuction() bool {
	return l.ListingType == ListingAuction
}

// IsHot reports whether the listing was listed within the last 72 hours and
// has drawn enough bids, watchers or views.
func (l *Listing) IsHot(now time.Time) bool {
	if l.Created == nil || l.Created.IsZero() {
		return false
	}
	if now.Sub(l.Created.Time) > hotWindow {
		return false
	}
	return l.BidCount >= hotMinBids ||
		l.WatchCount >= hotMinWatches ||
		l.ViewCount >= hotMinViews
}

// PrimaryImageURL returns the first image, or "" when the listing has none.
func (l *Listing) PrimaryImageURL() string {
	return l.Image1
}

// ImageURLs returns all non-empty image slots in order.
func (l *Listing) ImageURLs() []string {
	var urls []string
	for _, u := range []string{l.Image1, l.Image2, l.Image3, l.Image4} {
		if u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// PriceDecimal returns the asking price, zero when unparseable.
func (l *Listing) PriceDecimal() decimal.Decimal {
	d, _ := ParseMoney(l.Price)
	return d
}

// CurrentBidDecimal returns the current high bid and whether one exists.
func (l *Listing) CurrentBidDecimal() (decimal.Decimal, bool) {
	if l.CurrentBid == nil {
		return decimal.Zero, false
	}
	return ParseMoney(*l.CurrentBid)
}

// Seller is the public seller summary embedded in a listing.
type Seller struct {
	Username    string   `json:"username"`
	AvatarURL   string   `json:"avatar_url,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	RatingCount int      `json:"rating_count"`
	IsVerified  bool     `json:"is_verified"`
}

// Category is the category summary embedded in a listing.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Item is the price-guide item a listing is attached to.
type Item struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Year *int   `json:"year,omitempty"`
}

// ListingImage is one uploaded listing image.
type ListingImage struct {
	ID        int64  `json:"id"`
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail,omitempty"`
	IsPrimary bool   `json:"is_primary"`
}

// ListingDetail is the full listing view returned by the detail endpoint.
type ListingDetail struct {
	Listing

	Images          []ListingImage `json:"images"`
	IsMine          bool           `json:"is_mine"`
	Bids            []Bid          `json:"bids,omitempty"`
	RelatedListings []Listing      `json:"related_listings,omitempty"`
}

// ListingInput is the body for creating or updating a listing.
type ListingInput struct {
	Title         string      `json:"title,omitempty"           validate:"omitempty,max=200"`
	Description   string      `json:"description,omitempty"`
	Price         string      `json:"price,omitempty"           validate:"omitempty,money"`
	BuyNowPrice   string      `json:"buy_now_price,omitempty"   validate:"omitempty,money"`
	ShippingPrice string      `json:"shipping_price,omitempty"  validate:"omitempty,money"`
	Condition     string      `json:"condition,omitempty"`
	ListingType   ListingType `json:"listing_type,omitempty"    validate:"omitempty,oneof=fixed auction"`
	CategoryID    int64       `json:"category_id,omitempty"`
	Quantity      int         `json:"quantity,omitempty"        validate:"omitempty,min=1"`
	AcceptsOffers *bool       `json:"accepts_offers,omitempty"`
	EndDate       *Timestamp  `json:"end_date,omitempty"`
}

// BidRequest is the body for placing a bid.
type BidRequest struct {
	Amount string `json:"amount" validate:"required,money"`
}

// AutoBidRequest sets a proxy-bid ceiling on an auction.
type AutoBidRequest struct {
	MaxAmount string `json:"max_amount" validate:"required,money"`
}

// Bid is a single bid on an auction listing.
type Bid struct {
	ID        int64      `json:"id"`
	Amount    string     `json:"amount"`
	Bidder    string     `json:"bidder"`
	Created   *Timestamp `json:"created,omitempty"`
	IsWinning bool       `json:"is_winning"`
}

// AutoBidListing is the listing summary embedded in an auto-bid.
type AutoBidListing struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	CurrentBid *string `json:"current_bid,omitempty"`
	ImageURL   string  `json:"image_url,omitempty"`
}

// AutoBid is a standing proxy-bid instruction up to MaxAmount.
type AutoBid struct {
	ID        int64          `json:"id"`
	Listing   AutoBidListing `json:"listing"`
	MaxAmount string         `json:"max_amount"`
	IsActive  bool           `json:"is_active"`
	Created   *Timestamp     `json:"created,omitempty"`
}

// AuctionEvent is a scheduled platform auction.
type AuctionEvent struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	StartDate   *Timestamp `json:"start_date,omitempty"`
	EndDate     *Timestamp `json:"end_date,omitempty"`
	LotCount    int        `json:"lot_count"`
	IsPlatform  bool       `json:"is_platform_event"`
	CoverImage  string     `json:"cover_image,omitempty"`
	AcceptsLots bool       `json:"accepting_submissions"`
}

// ListingFilter narrows a listing browse request.
type ListingFilter struct {
	Page        int
	Category    string
	Search      string
	ListingType ListingType `validate:"omitempty,oneof=fixed auction"`
	Condition   string
	MinPrice    string `validate:"omitempty,money"`
	MaxPrice    string `validate:"omitempty,money"`
	Ordering    string
}

// Values encodes the filter as query parameters, omitting empty fields.
func (f *ListingFilter) Values() url.Values {
	v := url.Values{}
	if f.Page > 0 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	set := func(key, val string) {
		if val != "" {
			v.Set(key, val)
		}
	}
	set("category", f.Category)
	set("search", f.Search)
	set("listing_type", string(f.ListingType))
	set("condition", f.Condition)
	set("min_price", f.MinPrice)
	set("max_price", f.MaxPrice)
	set("ordering", f.Ordering)
	return v
}
