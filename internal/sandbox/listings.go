package sandbox

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/nadermx/heroesandmore-client/pkg/types"
)

// ListingsHandler serves browsing, listing detail and saved listings.
type ListingsHandler struct {
	market *Market
}

// NewListingsHandler creates a new ListingsHandler.
func NewListingsHandler(m *Market) *ListingsHandler {
	return &ListingsHandler{market: m}
}

// ListListingsInput filters a listing browse.
type ListListingsInput struct {
	PageInput

	Category    string `query:"category"     doc:"Category slug"`
	Search      string `query:"search"       doc:"Title search"`
	ListingType string `query:"listing_type" doc:"Sale format"            enum:"fixed,auction"`
	Condition   string `query:"condition"    doc:"Item condition"`
	MinPrice    string `query:"min_price"    doc:"Minimum asking price"`
	MaxPrice    string `query:"max_price"    doc:"Maximum asking price"`
	Ordering    string `query:"ordering"     doc:"Sort key, - for descending"`
}

func (h *ListingsHandler) List(ctx context.Context, in *ListListingsInput) (*body[domain.Page[domain.Listing]], error) {
	return respond(h.market.ListListings(viewer(ctx), ListingQuery{
		Category:    in.Category,
		Search:      in.Search,
		ListingType: in.ListingType,
		Condition:   in.Condition,
		MinPrice:    in.MinPrice,
		MaxPrice:    in.MaxPrice,
		Ordering:    in.Ordering,
	}, in.Page))
}

func (h *ListingsHandler) Get(ctx context.Context, in *IDInput) (*body[domain.ListingDetail], error) {
	return respond(h.market.Listing(viewer(ctx), in.ID))
}

func (h *ListingsHandler) Saved(ctx context.Context, in *PageInput) (*body[domain.Page[domain.Listing]], error) {
	return respond(h.market.SavedListings(viewer(ctx), in.Page))
}

func (h *ListingsHandler) Save(ctx context.Context, in *IDInput) (*struct{}, error) {
	return nil, h.market.SaveListing(viewer(ctx), in.ID)
}

func (h *ListingsHandler) Unsave(ctx context.Context, in *IDInput) (*struct{}, error) {
	return nil, h.market.UnsaveListing(viewer(ctx), in.ID)
}

func (h *ListingsHandler) Auctions(ctx context.Context, in *PageInput) (*body[domain.Page[domain.Listing]], error) {
	return respond(h.market.Auctions(viewer(ctx), in.Page))
}

func (h *ListingsHandler) EndingSoon(ctx context.Context, in *PageInput) (*body[domain.Page[domain.Listing]], error) {
	return respond(h.market.EndingSoon(viewer(ctx), in.Page))
}

func (h *ListingsHandler) Events(_ context.Context, in *PageInput) (*body[domain.Page[domain.AuctionEvent]], error) {
	return respond(h.market.AuctionEvents(in.Page))
}

// RegisterListingRoutes registers listing endpoints.
func RegisterListingRoutes(api huma.API, h *ListingsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-listings",
		Method:      http.MethodGet,
		Path:        "/api/v1/marketplace/listings/",
		Summary:     "Browse listings",
		Description: "Returns active listings, newest first unless ordering is set.",
		Tags:        []string{"listings"},
		Errors:      []int{http.StatusNotFound},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "get-listing",
		Method:      http.MethodGet,
		Path:        "/api/v1/marketplace/listings/{id}/",
		Summary:     "Listing detail",
		Tags:        []string{"listings"},
		Errors:      []int{http.StatusNotFound},
	}, h.Get)

	huma.Register(api, huma.Operation{
		OperationID: "saved-listings",
		Method:      http.MethodGet,
		Path:        "/api/v1/marketplace/saved/",
		Summary:     "Saved listings",
		Tags:        []string{"listings"},
		Security:    authenticated,
	}, h.Saved)

	huma.Register(api, huma.Operation{
		OperationID: "save-listing",
		Method:      http.MethodPost,
		Path:        "/api/v1/marketplace/listings/{id}/save/",
		Summary:     "Save a listing",
		Tags:        []string{"listings"},
		Security:    authenticated,
		Errors:      []int{http.StatusNotFound},
	}, h.Save)

	huma.Register(api, huma.Operation{
		OperationID: "unsave-listing",
		Method:      http.MethodDelete,
		Path:        "/api/v1/marketplace/listings/{id}/save/",
		Summary:     "Remove a saved listing",
		Tags:        []string{"listings"},
		Security:    authenticated,
		Errors:      []int{http.StatusNotFound},
	}, h.Unsave)

	huma.Register(api, huma.Operation{
		OperationID: "list-auctions",
		Method:      http.MethodGet,
		Path:        "/api/v1/marketplace/auctions/",
		Summary:     "Running auctions",
		Tags:        []string{"auctions"},
	}, h.Auctions)

	huma.Register(api, huma.Operation{
		OperationID: "ending-soon",
		Method:      http.MethodGet,
		Path:        "/api/v1/marketplace/auctions/ending-soon/",
		Summary:     "Auctions ending within a day",
		Tags:        []string{"auctions"},
	}, h.EndingSoon)

	huma.Register(api, huma.Operation{
		OperationID: "auction-events",
		Method:      http.MethodGet,
		Path:        "/api/v1/marketplace/auctions/events/",
		Summary:     "Platform auction events",
		Tags:        []string{"auctions"},
	}, h.Events)
}
