package domain

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "rfc3339",
			input: `"2025-03-01T12:30:00Z"`,
			want:  time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC),
		},
		{
			name:  "fractional seconds with offset",
			input: `"2025-03-01T12:30:00.123456+00:00"`,
			want:  time.Date(2025, 3, 1, 12, 30, 0, 123456000, time.UTC),
		},
		{
			name:  "compact offset",
			input: `"2025-03-01T12:30:00+0000"`,
			want:  time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC),
		},
		{
			name:  "date only",
			input: `"2025-03-01"`,
			want:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "empty string is zero",
			input: `""`,
		},
		{
			name:  "null is zero",
			input: `null`,
		},
		{
			name:    "garbage",
			input:   `"last tuesday"`,
			wantErr: true,
		},
		{
			name:    "not a string",
			input:   `12345`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var ts Timestamp
			err := json.Unmarshal([]byte(tt.input), &ts)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(ts.Time), "got %s", ts.Time)
		})
	}
}

func TestTimestamp_OptionalFieldNull(t *testing.T) {
	t.Parallel()

	var o Offer
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"status":"pending","expires_at":null}`), &o))
	assert.Nil(t, o.ExpiresAt)
	assert.Equal(t, OfferPending, o.Status)
}

func TestProfile_MissingFlagsDefaultFalse(t *testing.T) {
	t.Parallel()

	var p Profile
	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"username":"buyer","email":"b@example.com"}`), &p))
	assert.False(t, p.IsTrustedSeller)
	assert.False(t, p.IsFoundingMember)
	assert.Zero(t, p.RatingCount)
	assert.Nil(t, p.Rating)
}

func TestListing_IsHot(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	recent := NewTimestamp(now.Add(-24 * time.Hour))
	old := NewTimestamp(now.Add(-73 * time.Hour))

	tests := []struct {
		name    string
		listing Listing
		want    bool
	}{
		{name: "recent with bids", listing: Listing{Created: recent, BidCount: 5}, want: true},
		{name: "recent with watchers", listing: Listing{Created: recent, WatchCount: 10}, want: true},
		{name: "recent with views", listing: Listing{Created: recent, ViewCount: 200}, want: true},
		{name: "recent but quiet", listing: Listing{Created: recent, BidCount: 4, WatchCount: 9, ViewCount: 199}},
		{name: "old and busy", listing: Listing{Created: old, BidCount: 50}},
		{name: "no created date", listing: Listing{BidCount: 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.listing.IsHot(now))
		})
	}
}

func TestListing_CurrentBidDecimal(t *testing.T) {
	t.Parallel()

	l := Listing{Price: "100.00"}
	_, ok := l.CurrentBidDecimal()
	assert.False(t, ok)

	bid := "150.50"
	l.CurrentBid = &bid
	d, ok := l.CurrentBidDecimal()
	require.True(t, ok)
	assert.True(t, d.Equal(decimal.RequireFromString("150.5")))
	assert.Equal(t, "100.00", FormatMoney(l.PriceDecimal()))
}

func TestListing_ImageURLs(t *testing.T) {
	t.Parallel()

	l := Listing{Image1: "a.jpg", Image3: "c.jpg"}
	assert.Equal(t, []string{"a.jpg", "c.jpg"}, l.ImageURLs())
	assert.Equal(t, "a.jpg", l.PrimaryImageURL())
}

func TestOffer_DisplayStatus(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		offer Offer
		want  OfferStatus
	}{
		{
			name:  "countered before expiry",
			offer: Offer{Status: OfferCountered, ExpiresAt: NewTimestamp(now.Add(time.Hour))},
			want:  OfferCountered,
		},
		{
			name:  "countered after expiry reads declined",
			offer: Offer{Status: OfferCountered, ExpiresAt: NewTimestamp(now.Add(-time.Minute))},
			want:  OfferDeclined,
		},
		{
			name:  "pending ignores expiry",
			offer: Offer{Status: OfferPending, ExpiresAt: NewTimestamp(now.Add(-time.Minute))},
			want:  OfferPending,
		},
		{
			name:  "countered without expiry",
			offer: Offer{Status: OfferCountered},
			want:  OfferCountered,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.offer.DisplayStatus(now))
		})
	}
}

func TestOfferStatus_IsTerminal(t *testing.T) {
	t.Parallel()

	assert.True(t, OfferAccepted.IsTerminal())
	assert.True(t, OfferDeclined.IsTerminal())
	assert.False(t, OfferPending.IsTerminal())
	assert.False(t, OfferCountered.IsTerminal())
}

func TestPage_HasNext(t *testing.T) {
	t.Parallel()

	var p Page[Listing]
	require.NoError(t, json.Unmarshal([]byte(`{"count":2,"next":null,"previous":null,"results":[{"id":1},{"id":2}]}`), &p))
	assert.False(t, p.HasNext())
	assert.Len(t, p.Results, 2)

	require.NoError(t, json.Unmarshal([]byte(`{"count":40,"next":"https://x/?page=2","results":[]}`), &p))
	assert.True(t, p.HasNext())
}

func TestListingFilter_Values(t *testing.T) {
	t.Parallel()

	f := ListingFilter{Page: 2, Search: "spider-man", ListingType: ListingAuction, MinPrice: "10.00"}
	v := f.Values()
	assert.Equal(t, "2", v.Get("page"))
	assert.Equal(t, "spider-man", v.Get("search"))
	assert.Equal(t, "auction", v.Get("listing_type"))
	assert.Equal(t, "10.00", v.Get("min_price"))
	assert.False(t, v.Has("category"))
	assert.False(t, v.Has("max_price"))
}

func TestCategoryNode_Walk(t *testing.T) {
	t.Parallel()

	var root CategoryNode
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": 1, "name": "Comics", "slug": "comics",
		"children": [
			{"id": 2, "name": "Marvel", "slug": "marvel", "parent_id": 1,
			 "children": [{"id": 4, "name": "X-Men", "slug": "x-men", "parent_id": 2}]},
			{"id": 3, "name": "DC", "slug": "dc", "parent_id": 1}
		]
	}`), &root))

	var visited []string
	root.Walk(func(n CategoryNode, depth int) {
		visited = append(visited, fmt.Sprintf("%d:%s", depth, n.Slug))
	})
	assert.Equal(t, []string{"0:comics", "1:marvel", "2:x-men", "1:dc"}, visited)
}

func TestDisplayName(t *testing.T) {
	t.Parallel()

	summary := &PriceGuideItemSummary{ID: 8, Name: "Spawn #1"}

	assert.Equal(t, "My copy", CollectionItem{CustomName: "My copy", PriceGuideItem: summary}.DisplayName())
	assert.Equal(t, "Spawn #1", CollectionItem{PriceGuideItem: summary}.DisplayName())
	assert.Equal(t, "Unknown Item", CollectionItem{}.DisplayName())
	assert.Equal(t, "Spawn #1", WishlistItem{PriceGuideItem: summary}.DisplayName())
}

func TestScanResult_BestMatch(t *testing.T) {
	t.Parallel()

	_, ok := ScanResult{}.BestMatch()
	assert.False(t, ok)

	best, ok := ScanResult{Matches: []ScanMatch{
		{PriceGuideItemID: 1, Confidence: 0.4},
		{PriceGuideItemID: 2, Confidence: 0.875},
		{PriceGuideItemID: 3, Confidence: 0.6},
	}}.BestMatch()
	require.True(t, ok)
	assert.Equal(t, int64(2), best.PriceGuideItemID)
	assert.Equal(t, 87, best.ConfidencePercent())
}
