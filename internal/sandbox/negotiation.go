package sandbox

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/nadermx/heroesandmore-client/internal/negotiation"
	domain "github.com/nadermx/heroesandmore-client/pkg/types"
)

// BidsHandler serves bids and auto-bids.
type BidsHandler struct {
	market *Market
}

// NewBidsHandler creates a new BidsHandler.
func NewBidsHandler(m *Market) *BidsHandler {
	return &BidsHandler{market: m}
}

// PlaceBidInput is a bid on an auction listing.
type PlaceBidInput struct {
	IDInput
	Body domain.BidRequest
}

// SetAutoBidInput is an auto-bid ceiling on an auction listing.
type SetAutoBidInput struct {
	IDInput
	Body domain.AutoBidRequest
}

func (h *BidsHandler) PlaceBid(ctx context.Context, in *PlaceBidInput) (*body[domain.Bid], error) {
	return respond(h.market.PlaceBid(viewer(ctx), in.ID, in.Body.Amount))
}

func (h *BidsHandler) SetAutoBid(ctx context.Context, in *SetAutoBidInput) (*body[domain.AutoBid], error) {
	return respond(h.market.SetAutoBid(viewer(ctx), in.ID, in.Body.MaxAmount))
}

func (h *BidsHandler) AutoBids(ctx context.Context, in *PageInput) (*body[domain.Page[domain.AutoBid]], error) {
	return respond(h.market.AutoBids(viewer(ctx), in.Page))
}

func (h *BidsHandler) CancelAutoBid(ctx context.Context, in *IDInput) (*struct{}, error) {
	return nil, h.market.CancelAutoBid(viewer(ctx), in.ID)
}

// RegisterBidRoutes registers bidding endpoints.
func RegisterBidRoutes(api huma.API, h *BidsHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "place-bid",
		Method:        http.MethodPost,
		Path:          "/api/v1/marketplace/listings/{id}/bid/",
		Summary:       "Place a bid",
		Description:   "The first bid must meet the starting price; later bids must exceed the current bid.",
		Tags:          []string{"auctions"},
		Security:      authenticated,
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound},
	}, h.PlaceBid)

	huma.Register(api, huma.Operation{
		OperationID:   "set-autobid",
		Method:        http.MethodPost,
		Path:          "/api/v1/marketplace/listings/{id}/autobid/",
		Summary:       "Set an auto-bid ceiling",
		Tags:          []string{"auctions"},
		Security:      authenticated,
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound},
	}, h.SetAutoBid)

	huma.Register(api, huma.Operation{
		OperationID: "list-autobids",
		Method:      http.MethodGet,
		Path:        "/api/v1/marketplace/auctions/autobid/",
		Summary:     "My auto-bids",
		Tags:        []string{"auctions"},
		Security:    authenticated,
	}, h.AutoBids)

	huma.Register(api, huma.Operation{
		OperationID: "cancel-autobid",
		Method:      http.MethodDelete,
		Path:        "/api/v1/marketplace/auctions/autobid/{id}/",
		Summary:     "Cancel an auto-bid",
		Tags:        []string{"auctions"},
		Security:    authenticated,
		Errors:      []int{http.StatusNotFound, http.StatusConflict},
	}, h.CancelAutoBid)
}

// OffersHandler serves offers and counter-offers.
type OffersHandler struct {
	market *Market
}

// NewOffersHandler creates a new OffersHandler.
func NewOffersHandler(m *Market) *OffersHandler {
	return &OffersHandler{market: m}
}

// OfferInput is an offer amount on a listing or offer.
type OfferInput struct {
	IDInput
	Body domain.OfferRequest
}

func (h *OffersHandler) Make(ctx context.Context, in *OfferInput) (*body[domain.Offer], error) {
	return respond(h.market.MakeOffer(viewer(ctx), in.ID, in.Body))
}

func (h *OffersHandler) List(ctx context.Context, in *PageInput) (*body[domain.Page[domain.Offer]], error) {
	return respond(h.market.Offers(viewer(ctx), in.Page))
}

func (h *OffersHandler) Counter(ctx context.Context, in *OfferInput) (*body[domain.Offer], error) {
	return respond(h.market.RespondToOffer(viewer(ctx), in.ID, negotiation.ActionCounter, &in.Body))
}

// respondWith returns a handler applying a body-less offer action.
func (h *OffersHandler) respondWith(
	action negotiation.Action,
) func(context.Context, *IDInput) (*body[domain.Offer], error) {
	return func(ctx context.Context, in *IDInput) (*body[domain.Offer], error) {
		return respond(h.market.RespondToOffer(viewer(ctx), in.ID, action, nil))
	}
}

// RegisterOfferRoutes registers offer endpoints.
func RegisterOfferRoutes(api huma.API, h *OffersHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "make-offer",
		Method:        http.MethodPost,
		Path:          "/api/v1/marketplace/listings/{id}/offer/",
		Summary:       "Make an offer",
		Tags:          []string{"offers"},
		Security:      authenticated,
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound},
	}, h.Make)

	huma.Register(api, huma.Operation{
		OperationID: "list-offers",
		Method:      http.MethodGet,
		Path:        "/api/v1/marketplace/offers/",
		Summary:     "Offers made and received",
		Tags:        []string{"offers"},
		Security:    authenticated,
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "counter-offer",
		Method:      http.MethodPost,
		Path:        "/api/v1/marketplace/offers/{id}/counter/",
		Summary:     "Counter a pending offer",
		Tags:        []string{"offers"},
		Security:    authenticated,
		Errors:      []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound},
	}, h.Counter)

	for _, action := range []negotiation.Action{
		negotiation.ActionAccept,
		negotiation.ActionDecline,
		negotiation.ActionAcceptCounter,
		negotiation.ActionDeclineCounter,
	} {
		huma.Register(api, huma.Operation{
			OperationID: string(action) + "-offer",
			Method:      http.MethodPost,
			Path:        "/api/v1/marketplace/offers/{id}/" + string(action) + "/",
			Summary:     "Offer action: " + string(action),
			Tags:        []string{"offers"},
			Security:    authenticated,
			Errors:      []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound},
		}, h.respondWith(action))
	}
}
