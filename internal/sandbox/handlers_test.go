package sandbox_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadermx/heroesandmore-client/internal/sandbox"
	domain "github.com/nadermx/heroesandmore-client/pkg/types"
)

func newTestAPI(t *testing.T) (humatest.TestAPI, *sandbox.Market) {
	t.Helper()

	_, api := humatest.New(t, sandbox.NewAPIConfig("test"))
	m := sandbox.NewMarket()
	sandbox.RegisterRoutes(api, m)
	return api, m
}

func bearer(t *testing.T, m *sandbox.Market, username string) string {
	t.Helper()

	tokens, err := m.Login(username, sandbox.SeedPassword)
	require.NoError(t, err)
	return "Authorization: Bearer " + tokens.Access
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &v), resp.Body.String())
	return v
}

func TestLogin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		password   string
		wantStatus int
	}{
		{name: "valid credentials", password: sandbox.SeedPassword, wantStatus: http.StatusOK},
		{name: "wrong password", password: "nope", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			api, _ := newTestAPI(t)
			resp := api.Post("/api/v1/auth/token/", domain.LoginRequest{Username: "buyer", Password: tt.password})
			require.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())

			if tt.wantStatus == http.StatusOK {
				tokens := decode[domain.AuthTokens](t, resp)
				assert.NotEmpty(t, tokens.Access)
				assert.NotEmpty(t, tokens.Refresh)
				return
			}
			problem := decode[huma.ErrorModel](t, resp)
			assert.Equal(t, "No active account found with the given credentials", problem.Detail)
		})
	}
}

func TestRefresh(t *testing.T) {
	t.Parallel()

	api, m := newTestAPI(t)
	tokens, err := m.Login("buyer", sandbox.SeedPassword)
	require.NoError(t, err)

	resp := api.Post("/api/v1/auth/token/refresh/", map[string]string{"refresh": tokens.Refresh})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	renewed := decode[domain.AuthTokens](t, resp)
	assert.NotEqual(t, tokens.Access, renewed.Access)

	resp = api.Post("/api/v1/auth/token/refresh/", map[string]string{"refresh": tokens.Refresh})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestRegister(t *testing.T) {
	t.Parallel()

	api, _ := newTestAPI(t)
	resp := api.Post("/api/v1/accounts/register/", domain.RegisterRequest{
		Username:        "newbie",
		Email:           "newbie@example.com",
		Password:        "longenough",
		PasswordConfirm: "longenough",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	tokens := decode[domain.AuthTokens](t, resp)

	resp = api.Get("/api/v1/accounts/me/", "Authorization: Bearer "+tokens.Access)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "newbie", decode[domain.Profile](t, resp).Username)
}

func TestAuthentication(t *testing.T) {
	t.Parallel()

	api, m := newTestAPI(t)

	tests := []struct {
		name       string
		path       string
		headers    []any
		wantStatus int
	}{
		{name: "private endpoint without token", path: "/api/v1/accounts/me/", wantStatus: http.StatusUnauthorized},
		{
			name: "private endpoint with token", path: "/api/v1/accounts/me/",
			headers: []any{bearer(t, m, "buyer")}, wantStatus: http.StatusOK,
		},
		{
			name: "private endpoint with unknown token", path: "/api/v1/accounts/me/",
			headers: []any{"Authorization: Bearer nope"}, wantStatus: http.StatusUnauthorized,
		},
		{name: "public endpoint without token", path: "/api/v1/marketplace/listings/", wantStatus: http.StatusOK},
		{
			name: "public endpoint with unknown token", path: "/api/v1/marketplace/listings/",
			headers: []any{"Authorization: Bearer nope"}, wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := api.Get(tt.path, tt.headers...)
			assert.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())
		})
	}
}

func TestUpdateProfile(t *testing.T) {
	t.Parallel()

	api, m := newTestAPI(t)
	auth := bearer(t, m, "buyer")

	resp := api.Patch("/api/v1/accounts/me/", auth, map[string]any{"bio": "Silver age collector"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, "Silver age collector", decode[domain.Profile](t, resp).Bio)

	resp = api.Patch("/api/v1/accounts/me/notifications/", auth, map[string]any{"push_outbid": false})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	settings := decode[domain.NotificationSettings](t, resp)
	assert.False(t, settings.PushOutbid)
	assert.True(t, settings.PushNewBid)
}

func TestListListings(t *testing.T) {
	t.Parallel()

	api, _ := newTestAPI(t)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantCount  int
	}{
		{name: "all", query: "", wantStatus: http.StatusOK, wantCount: 5},
		{name: "category", query: "?category=comics", wantStatus: http.StatusOK, wantCount: 3},
		{name: "auctions", query: "?listing_type=auction", wantStatus: http.StatusOK, wantCount: 2},
		{name: "unknown listing type", query: "?listing_type=barter", wantStatus: http.StatusUnprocessableEntity},
		{name: "page zero", query: "?page=0", wantStatus: http.StatusUnprocessableEntity},
		{name: "page past the end", query: "?page=2", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := api.Get("/api/v1/marketplace/listings/" + tt.query)
			require.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())
			if tt.wantStatus == http.StatusOK {
				page := decode[domain.Page[domain.Listing]](t, resp)
				assert.Equal(t, tt.wantCount, page.Count)
				assert.Len(t, page.Results, tt.wantCount)
			}
		})
	}
}

func TestGetListing(t *testing.T) {
	t.Parallel()

	api, m := newTestAPI(t)

	resp := api.Get(fmt.Sprintf("/api/v1/marketplace/listings/%d/", sandbox.SpiderManListingID), bearer(t, m, "seller"))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	d := decode[domain.ListingDetail](t, resp)
	assert.Equal(t, "1500.00", d.Price)
	assert.True(t, d.IsMine)
	assert.True(t, d.AcceptsOffers)

	resp = api.Get("/api/v1/marketplace/listings/9999/")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestSaveListing(t *testing.T) {
	t.Parallel()

	api, m := newTestAPI(t)
	auth := bearer(t, m, "buyer")
	path := fmt.Sprintf("/api/v1/marketplace/listings/%d/save/", sandbox.BatmanListingID)

	resp := api.Post(path, auth)
	require.Equal(t, http.StatusNoContent, resp.Code, resp.Body.String())

	resp = api.Get("/api/v1/marketplace/saved/", auth)
	require.Equal(t, http.StatusOK, resp.Code)
	saved := decode[domain.Page[domain.Listing]](t, resp)
	require.Len(t, saved.Results, 1)
	assert.True(t, saved.Results[0].IsWatched)

	resp = api.Delete(path, auth)
	require.Equal(t, http.StatusNoContent, resp.Code)
	assert.Zero(t, decode[domain.Page[domain.Listing]](t, api.Get("/api/v1/marketplace/saved/", auth)).Count)
}

func TestAuctionEndpoints(t *testing.T) {
	t.Parallel()

	api, _ := newTestAPI(t)

	resp := api.Get("/api/v1/marketplace/auctions/")
	require.Equal(t, http.StatusOK, resp.Code)
	auctions := decode[domain.Page[domain.Listing]](t, resp)
	require.Len(t, auctions.Results, 2)
	assert.Equal(t, sandbox.CharizardAuctionID, auctions.Results[0].ID, "soonest ending first")

	resp = api.Get("/api/v1/marketplace/auctions/ending-soon/")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 1, decode[domain.Page[domain.Listing]](t, resp).Count)

	resp = api.Get("/api/v1/marketplace/auctions/events/")
	require.Equal(t, http.StatusOK, resp.Code)
	events := decode[domain.Page[domain.AuctionEvent]](t, resp)
	require.Len(t, events.Results, 1)
	assert.True(t, events.Results[0].IsPlatform)
}

func TestPlaceBid(t *testing.T) {
	t.Parallel()

	api, m := newTestAPI(t)
	path := fmt.Sprintf("/api/v1/marketplace/listings/%d/bid/", sandbox.XMenAuctionID)

	resp := api.Post(path, bearer(t, m, "buyer"), domain.BidRequest{Amount: "150.00"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	b := decode[domain.Bid](t, resp)
	assert.Equal(t, "150.00", b.Amount)
	assert.True(t, b.IsWinning)

	resp = api.Post(path, bearer(t, m, "collector"), domain.BidRequest{Amount: "150.00"})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Bid must exceed current bid of $150.00", decode[huma.ErrorModel](t, resp).Detail)

	resp = api.Post(path, domain.BidRequest{Amount: "200.00"})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestAutoBid(t *testing.T) {
	t.Parallel()

	api, m := newTestAPI(t)
	auth := bearer(t, m, "buyer")

	resp := api.Post(
		fmt.Sprintf("/api/v1/marketplace/listings/%d/autobid/", sandbox.XMenAuctionID),
		auth,
		domain.AutoBidRequest{MaxAmount: "100.00"},
	)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	ab := decode[domain.AutoBid](t, resp)
	assert.True(t, ab.IsActive)

	resp = api.Get("/api/v1/marketplace/auctions/autobid/", auth)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 1, decode[domain.Page[domain.AutoBid]](t, resp).Count)

	cancel := fmt.Sprintf("/api/v1/marketplace/auctions/autobid/%d/", ab.ID)
	resp = api.Delete(cancel, auth)
	assert.Equal(t, http.StatusNoContent, resp.Code, resp.Body.String())
	resp = api.Delete(cancel, auth)
	assert.Equal(t, http.StatusConflict, resp.Code)
	resp = api.Delete(cancel, bearer(t, m, "collector"))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestOfferFlow(t *testing.T) {
	t.Parallel()

	api, m := newTestAPI(t)
	buyer, seller := bearer(t, m, "buyer"), bearer(t, m, "seller")

	resp := api.Post(
		fmt.Sprintf("/api/v1/marketplace/listings/%d/offer/", sandbox.SpiderManListingID),
		buyer,
		domain.OfferRequest{Amount: "1200.00", Message: "cash today"},
	)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	o := decode[domain.Offer](t, resp)
	assert.Equal(t, domain.OfferPending, o.Status)

	offerPath := func(action string) string {
		return fmt.Sprintf("/api/v1/marketplace/offers/%d/%s/", o.ID, action)
	}

	resp = api.Post(offerPath("counter"), buyer, domain.OfferRequest{Amount: "1300.00"})
	assert.Equal(t, http.StatusForbidden, resp.Code, "buyers cannot counter")

	resp = api.Post(offerPath("counter"), seller, domain.OfferRequest{Amount: "1300.00"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	countered := decode[domain.Offer](t, resp)
	assert.Equal(t, domain.OfferCountered, countered.Status)
	require.NotNil(t, countered.CounterAmount)
	assert.Equal(t, "1300.00", *countered.CounterAmount)

	resp = api.Post(offerPath("accept-counter"), buyer)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, domain.OfferAccepted, decode[domain.Offer](t, resp).Status)

	resp = api.Post(offerPath("decline-counter"), buyer)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = api.Get("/api/v1/marketplace/offers/", seller)
	require.Equal(t, http.StatusOK, resp.Code)
	offers := decode[domain.Page[domain.Offer]](t, resp)
	require.Len(t, offers.Results, 1)
	assert.False(t, offers.Results[0].IsFromBuyer)
}

func TestCheckoutAndOrders(t *testing.T) {
	t.Parallel()

	api, m := newTestAPI(t)
	buyer, seller := bearer(t, m, "buyer"), bearer(t, m, "seller")
	checkout := fmt.Sprintf("/api/v1/marketplace/checkout/%d/", sandbox.BatmanListingID)

	resp := api.Post(checkout, buyer, "Idempotency-Key: abc", map[string]any{})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	first := decode[domain.CheckoutResult](t, resp)
	assert.Equal(t, "125.00", first.Total)

	resp = api.Post(checkout, buyer, "Idempotency-Key: abc", map[string]any{})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	assert.Equal(t, first.OrderID, decode[domain.CheckoutResult](t, resp).OrderID)

	resp = api.Post(checkout, bearer(t, m, "collector"), map[string]any{})
	assert.Equal(t, http.StatusConflict, resp.Code)

	resp = api.Post("/api/v1/marketplace/payment/intent/", buyer, domain.PaymentIntentRequest{OrderID: first.OrderID})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	pi := decode[domain.PaymentIntent](t, resp)
	assert.Equal(t, int64(12500), pi.Amount)

	resp = api.Post("/api/v1/marketplace/payment/confirm/", buyer,
		domain.PaymentConfirmRequest{PaymentIntentID: pi.PaymentIntentID})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.True(t, decode[domain.PaymentConfirmation](t, resp).Success)

	orderPath := fmt.Sprintf("/api/v1/marketplace/orders/%d/", first.OrderID)
	resp = api.Post(orderPath+"ship/", seller, domain.ShipRequest{TrackingNumber: "1Z999", TrackingCarrier: "UPS"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, domain.OrderShipped, decode[domain.Order](t, resp).Status)

	resp = api.Post(orderPath+"received/", buyer)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = api.Post(orderPath+"review/", buyer, domain.ReviewRequest{Rating: 5, Comment: "as described"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = api.Get("/api/v1/marketplace/orders/?type=sold", seller)
	require.Equal(t, http.StatusOK, resp.Code)
	sold := decode[domain.Page[domain.Order]](t, resp)
	require.Len(t, sold.Results, 1)
	assert.Equal(t, domain.OrderCompleted, sold.Results[0].Status)

	resp = api.Get("/api/v1/marketplace/orders/?type=lost", seller)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestCollections(t *testing.T) {
	t.Parallel()

	api, m := newTestAPI(t)

	resp := api.Get("/api/v1/collections/mine/", bearer(t, m, "buyer"))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 1, decode[domain.Page[domain.Collection]](t, resp).Count)

	resp = api.Get(fmt.Sprintf("/api/v1/collections/%d/export/?export_format=csv", sandbox.SeedCollectionID))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, "text/csv", resp.Header().Get("Content-Type"))
	assert.Contains(t, resp.Body.String(), "Fantastic Four #1,1961,VG,9500.00")

	resp = api.Get(fmt.Sprintf("/api/v1/collections/%d/export/", sandbox.SeedCollectionID))
	require.Equal(t, http.StatusOK, resp.Code)
	items := decode[[]sandbox.CollectionItem](t, resp)
	assert.Len(t, items, 3)
}
