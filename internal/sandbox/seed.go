package sandbox

import (
	"time"

	domain "github.com/nadermx/heroesandmore-client/pkg/types"
)

// Seed accounts. Every seeded account uses SeedPassword.
const (
	SeedPassword = "password"

	SellerID    int64 = 1
	BuyerID     int64 = 2
	CollectorID int64 = 3
)

// Seed listings.
const (
	SpiderManListingID int64 = 101 // fixed price, accepts offers
	JordanListingID    int64 = 102 // fixed price, accepts offers
	BatmanListingID    int64 = 103 // fixed price, no offers
	XMenAuctionID      int64 = 104 // auction ending in three days
	CharizardAuctionID int64 = 105 // auction ending in six hours

	SeedCollectionID int64 = 201
)

// firstGeneratedID leaves room below it for seeded records.
const firstGeneratedID = 1000

var (
	comics      = &domain.Category{ID: 1, Name: "Comics", Slug: "comics"}
	sportsCards = &domain.Category{ID: 2, Name: "Sports Cards", Slug: "sports-cards"}
	tcg         = &domain.Category{ID: 3, Name: "Trading Card Games", Slug: "tcg"}
)

func (m *Market) seed(now time.Time) {
	joined := now.AddDate(-1, 0, 0)
	seller := m.addAccountLocked(SellerID, "seller", "seller@example.com", SeedPassword, joined)
	seller.profile.IsSellerVerified = true
	seller.profile.StripeAccountComplete = true
	seller.profile.SellerTier = "starter"
	m.addAccountLocked(BuyerID, "buyer", "buyer@example.com", SeedPassword, joined)
	m.addAccountLocked(CollectorID, "collector", "collector@example.com", SeedPassword, joined)

	fixed := func(id int64, title, price, shipping, condition string, cat *domain.Category, offers bool) {
		ship := shipping
		m.addListing(id, domain.Listing{
			Title:             title,
			Price:             price,
			ShippingPrice:     &ship,
			Condition:         condition,
			ListingType:       domain.ListingFixed,
			Category:          cat,
			AcceptsOffers:     offers,
			QuantityAvailable: 1,
			Created:           domain.NewTimestamp(now.Add(-time.Duration(id) * time.Minute)),
		})
	}
	auction := func(id int64, title, start, condition string, cat *domain.Category, ends time.Duration) {
		ship := "10.00"
		m.addListing(id, domain.Listing{
			Title:             title,
			Price:             start,
			ShippingPrice:     &ship,
			Condition:         condition,
			ListingType:       domain.ListingAuction,
			Category:          cat,
			QuantityAvailable: 1,
			EndDate:           domain.NewTimestamp(now.Add(ends)),
			Created:           domain.NewTimestamp(now.Add(-time.Duration(id) * time.Minute)),
		})
	}

	fixed(SpiderManListingID, "Amazing Spider-Man #300 CGC 9.8", "1500.00", "15.00", "graded", comics, true)
	fixed(JordanListingID, "1986 Fleer Michael Jordan #57 PSA 8", "2400.00", "12.00", "graded", sportsCards, true)
	fixed(BatmanListingID, "Batman #423 McFarlane Cover", "120.00", "5.00", "near_mint", comics, false)
	auction(XMenAuctionID, "X-Men #1 (1963) CGC 4.0", "50.00", "graded", comics, 72*time.Hour)
	auction(CharizardAuctionID, "Pokemon Base Set Charizard PSA 9", "20.00", "graded", tcg, 6*time.Hour)

	m.collections[SeedCollectionID] = &collection{
		id:          SeedCollectionID,
		ownerID:     BuyerID,
		name:        "Silver Age Keys",
		description: "Key issues from 1956 to 1970",
		public:      true,
		created:     joined,
		items: []CollectionItem{
			{Name: "Fantastic Four #1", Year: "1961", Condition: "VG", Value: "9500.00"},
			{Name: "Amazing Fantasy #15", Year: "1962", Condition: "GD", Value: "18000.00"},
			{Name: "Tales of Suspense #39", Year: "1963", Condition: "FN", Value: "6200.00"},
		},
	}

	m.events = []domain.AuctionEvent{{
		ID:          1,
		Name:        "Spring Platform Auction",
		Slug:        "spring-platform-auction",
		Description: "Curated keys, graded cards and original art.",
		Status:      "preview",
		StartDate:   domain.NewTimestamp(now.AddDate(0, 0, 7)),
		EndDate:     domain.NewTimestamp(now.AddDate(0, 0, 14)),
		IsPlatform:  true,
		AcceptsLots: true,
	}}

	m.lastID = firstGeneratedID
}

func (m *Market) addListing(id int64, l domain.Listing) {
	l.ID = id
	l.Status = statusActive
	l.ConditionDisplay = l.Condition
	img := domain.ListingImage{
		ID:        id,
		URL:       "https://cdn.heroesandmore.test/listings/" + l.Title + ".jpg",
		IsPrimary: true,
	}
	l.Image1 = img.URL
	m.listings[id] = &listing{Listing: l, sellerID: SellerID, images: []domain.ListingImage{img}}
}
