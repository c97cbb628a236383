package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadermx/heroesandmore-client/internal/credentials"
	"github.com/nadermx/heroesandmore-client/internal/gateway"
	domain "github.com/nadermx/heroesandmore-client/pkg/types"
)

func newTestClient(t *testing.T, h http.Handler, opts ...Option) (*Client, *credentials.MemoryStore) {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	store := credentials.NewMemoryStore()
	gw, err := gateway.New(srv.URL+"/api/v1", store)
	require.NoError(t, err)
	return New(gw, opts...), store
}

func signIn(t *testing.T, store credentials.Store) {
	t.Helper()
	require.NoError(t, credentials.SaveSession(context.Background(), store, credentials.Session{
		Access:  "access-1",
		Renewal: "renewal-1",
	}))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_LoginThenCurrentUser(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/token/", func(w http.ResponseWriter, r *http.Request) {
		var req domain.LoginRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "buyer", req.Username)
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, domain.AuthTokens{Access: "access-1", Refresh: "renewal-1"})
	})
	mux.HandleFunc("GET /api/v1/accounts/me/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{"id": 1, "username": "buyer", "email": "buyer@example.com"})
	})

	c, store := newTestClient(t, mux)
	ctx := context.Background()

	require.NoError(t, c.Login(ctx, domain.LoginRequest{Username: "buyer", Password: "password"}))

	sess, err := credentials.LoadSession(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, credentials.Session{Access: "access-1", Renewal: "renewal-1"}, sess)

	me, err := c.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "buyer", me.Username)
	assert.False(t, me.IsSellerVerified)
}

func TestClient_LoginRejectedDoesNotRenew(t *testing.T) {
	t.Parallel()

	var renewals atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/token/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "No active account found with the given credentials"})
	})
	mux.HandleFunc("POST /api/v1/auth/token/refresh/", func(w http.ResponseWriter, _ *http.Request) {
		renewals.Add(1)
	})

	c, store := newTestClient(t, mux)
	err := c.Login(context.Background(), domain.LoginRequest{Username: "buyer", Password: "wrong"})

	require.ErrorIs(t, err, gateway.ErrUnauthorized)
	assert.Equal(t, "No active account found with the given credentials", gateway.Message(err))
	assert.Zero(t, renewals.Load())

	sess, err := credentials.LoadSession(context.Background(), store)
	require.NoError(t, err)
	assert.True(t, sess.Empty())
}

func TestClient_Logout(t *testing.T) {
	t.Parallel()

	c, store := newTestClient(t, http.NotFoundHandler())
	signIn(t, store)

	require.NoError(t, c.Logout(context.Background()))
	sess, err := credentials.LoadSession(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, credentials.Session{}, sess)
}

func TestClient_PlaceBidRejected(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/marketplace/listings/7/bid/", func(w http.ResponseWriter, r *http.Request) {
		var req domain.BidRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "150.00", req.Amount)
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Bid must exceed current bid of 150.00"})
	})

	c, store := newTestClient(t, mux)
	signIn(t, store)

	_, err := c.PlaceBid(context.Background(), 7, "150.00")
	require.ErrorIs(t, err, gateway.ErrClientRejected)
	assert.Equal(t, 400, gateway.StatusCode(err))
	assert.Equal(t, "Bid must exceed current bid of 150.00", gateway.Message(err))
}

func TestClient_InvalidInputMakesNoCall(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
	}))
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{name: "bid not a number", call: func() error { _, err := c.PlaceBid(ctx, 7, "lots"); return err }},
		{name: "bid negative", call: func() error { _, err := c.PlaceBid(ctx, 7, "-5.00"); return err }},
		{name: "bid sub-cent", call: func() error { _, err := c.PlaceBid(ctx, 7, "1.005"); return err }},
		{name: "bid empty", call: func() error { _, err := c.PlaceBid(ctx, 7, ""); return err }},
		{name: "bid listing zero", call: func() error { _, err := c.PlaceBid(ctx, 0, "10.00"); return err }},
		{name: "autobid zero ceiling", call: func() error { _, err := c.SetAutoBid(ctx, 7, "0"); return err }},
		{name: "offer without amount", call: func() error {
			_, err := c.MakeOffer(ctx, 7, domain.OfferRequest{Message: "hi"})
			return err
		}},
		{name: "counter bad amount", call: func() error {
			_, err := c.CounterOffer(ctx, 3, domain.OfferRequest{Amount: "eighty"})
			return err
		}},
		{name: "review rating out of range", call: func() error {
			_, err := c.LeaveReview(ctx, 1, domain.ReviewRequest{Rating: 6})
			return err
		}},
		{name: "ship without carrier", call: func() error {
			_, err := c.MarkShipped(ctx, 1, domain.ShipRequest{TrackingNumber: "1Z"})
			return err
		}},
		{name: "register password mismatch", call: func() error {
			return c.Register(ctx, domain.RegisterRequest{
				Username: "newbie", Email: "n@example.com", Password: "password1", PasswordConfirm: "password2",
			})
		}},
		{name: "payment intent without order", call: func() error {
			_, err := c.CreatePaymentIntent(ctx, domain.PaymentIntentRequest{})
			return err
		}},
		{name: "confirm without intent", call: func() error { _, err := c.ConfirmPayment(ctx, ""); return err }},
		{name: "unknown order role", call: func() error { _, err := c.Orders(ctx, "rented", 1); return err }},
		{name: "unknown export format", call: func() error { _, err := c.ExportCollection(ctx, 1, "xml"); return err }},
		{name: "listing without title", call: func() error {
			_, err := c.CreateListing(ctx, domain.ListingInput{Price: "10.00", CategoryID: 1})
			return err
		}},
		{name: "filter bad price", call: func() error {
			_, err := c.ListListings(ctx, domain.ListingFilter{MinPrice: "cheap"})
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.ErrorIs(t, err, gateway.ErrInvalidRequest)
			assert.NotEmpty(t, gateway.Message(err))
		})
	}
	assert.Zero(t, calls.Load())
}

func TestValidMoney(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{in: "150.00", want: true},
		{in: "150", want: true},
		{in: "150.5", want: true},
		{in: "150.000", want: true},
		{in: "0.010", want: true},
		{in: "1.005", want: false},
		{in: "0.001", want: false},
		{in: "0.000", want: false},
		{in: "-5.00", want: false},
		{in: "lots", want: false},
		{in: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, validMoney(tt.in))
		})
	}
}

func TestClient_PlaceBidTrailingZerosReachServer(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/marketplace/listings/7/bid/", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req domain.BidRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "150.000", req.Amount)
		writeJSON(w, http.StatusCreated, map[string]any{"id": 9, "amount": "150.00"})
	})

	c, store := newTestClient(t, mux)
	signIn(t, store)

	_, err := c.PlaceBid(context.Background(), 7, "150.000")
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_ValidationMessageUsesJSONNames(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.NotFoundHandler())
	_, err := c.SetAutoBid(context.Background(), 7, "abc")
	require.ErrorIs(t, err, gateway.ErrInvalidRequest)
	assert.Equal(t, `max_amount: failed "money" validation`, gateway.Message(err))
}

func TestClient_ListListingsQuery(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/marketplace/listings/", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "1", q.Get("page"))
		assert.Equal(t, "auction", q.Get("listing_type"))
		assert.Equal(t, "spawn", q.Get("search"))
		assert.Equal(t, "10.00", q.Get("min_price"))
		assert.Equal(t, "-created", q.Get("ordering"))
		assert.False(t, q.Has("condition"))
		_, _ = w.Write([]byte(`{"count":1,"next":null,"previous":null,"results":[{"id":9,"title":"Spawn #1","price":"120.00","listing_type":"auction","current_bid":"95.00","status":"active","seller":{"username":"seller"}}]}`))
	})

	c, _ := newTestClient(t, mux)
	page, err := c.ListListings(context.Background(), domain.ListingFilter{
		Search:      "spawn",
		ListingType: domain.ListingAuction,
		MinPrice:    "10.00",
		Ordering:    "-created",
	})
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.False(t, page.HasNext())

	l := page.Results[0]
	assert.True(t, l.IsAuction())
	bid, ok := l.CurrentBidDecimal()
	require.True(t, ok)
	assert.Equal(t, "95.00", domain.FormatMoney(bid))
}

// pagedOffers serves total offers split into pages of size per page.
func pagedOffers(t *testing.T, total, size int) http.Handler {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/marketplace/offers/", func(w http.ResponseWriter, r *http.Request) {
		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if !assert.NoError(t, err) {
			return
		}
		start := (page - 1) * size
		end := min(start+size, total)

		p := domain.Page[domain.Offer]{Count: total}
		for i := start; i < end; i++ {
			p.Results = append(p.Results, domain.Offer{ID: int64(i + 1), Status: domain.OfferPending, Amount: "10.00"})
		}
		if end < total {
			next := fmt.Sprintf("http://%s/api/v1/marketplace/offers/?page=%d", r.Host, page+1)
			p.Next = &next
		}
		writeJSON(w, http.StatusOK, p)
	})
	return mux
}

func TestCollectAll(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		total    int
		size     int
		maxPages int
		wantLen  int
		wantErr  error
	}{
		{name: "single page", total: 3, size: 20, maxPages: 10, wantLen: 3},
		{name: "exact pages", total: 40, size: 20, maxPages: 10, wantLen: 40},
		{name: "partial last page", total: 45, size: 20, maxPages: 10, wantLen: 45},
		{name: "empty", total: 0, size: 20, maxPages: 10, wantLen: 0},
		{name: "page cap", total: 100, size: 20, maxPages: 2, wantLen: 40, wantErr: ErrPageLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, _ := newTestClient(t, pagedOffers(t, tt.total, tt.size), WithMaxPages(tt.maxPages))
			offers, err := c.AllOffers(context.Background())

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Len(t, offers, tt.total, "concatenated pages must equal count")
			}
			assert.Len(t, offers, tt.wantLen)
		})
	}
}

func TestCollectAll_PropagatesGatewayError(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	_, err := c.AllOffers(context.Background())
	require.ErrorIs(t, err, gateway.ErrServerFailure)
	assert.True(t, gateway.IsRetryable(err))
}

func TestClient_OfferActionPaths(t *testing.T) {
	t.Parallel()

	var (
		mu  sync.Mutex
		got []string
	)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/marketplace/offers/{id}/{action}/", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		got = append(got, r.PathValue("id")+" "+r.PathValue("action"))
		mu.Unlock()
		if r.PathValue("action") == "counter" {
			var req domain.OfferRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			writeJSON(w, http.StatusOK, domain.Offer{ID: 3, Status: domain.OfferCountered, Amount: "100.00", CounterAmount: &req.Amount})
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	c, store := newTestClient(t, mux)
	signIn(t, store)
	ctx := context.Background()

	require.NoError(t, c.AcceptOffer(ctx, 1))
	require.NoError(t, c.DeclineOffer(ctx, 2))
	countered, err := c.CounterOffer(ctx, 3, domain.OfferRequest{Amount: "80.00"})
	require.NoError(t, err)
	require.NoError(t, c.AcceptCounterOffer(ctx, 3))
	require.NoError(t, c.DeclineCounterOffer(ctx, 4))

	assert.Equal(t, domain.OfferCountered, countered.Status)
	assert.Equal(t, "80.00", *countered.CounterAmount)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"1 accept", "2 decline", "3 counter", "3 accept-counter", "4 decline-counter"}, got)
}

func TestClient_CancelAutoBidReportsServerStatus(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/v1/marketplace/auctions/autobid/5/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
	})

	c, store := newTestClient(t, mux)
	signIn(t, store)

	err := c.CancelAutoBid(context.Background(), 5)
	require.ErrorIs(t, err, gateway.ErrNotFound)
}

func TestClient_CheckoutSendsIdempotencyKey(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/marketplace/checkout/9/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "attempt-1", r.Header.Get("Idempotency-Key"))
		writeJSON(w, http.StatusCreated, domain.CheckoutResult{OrderID: 501, Total: "125.00", Status: "pending"})
	})
	mux.HandleFunc("POST /api/v1/marketplace/payment/intent/", func(w http.ResponseWriter, r *http.Request) {
		var req domain.PaymentIntentRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(501), req.OrderID)
		writeJSON(w, http.StatusOK, domain.PaymentIntent{ClientSecret: "pi_1_secret", PaymentIntentID: "pi_1", Amount: 12500, Currency: "usd"})
	})
	mux.HandleFunc("POST /api/v1/marketplace/payment/confirm/", func(w http.ResponseWriter, r *http.Request) {
		var req domain.PaymentConfirmRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "pi_1", req.PaymentIntentID)
		orderID := int64(501)
		writeJSON(w, http.StatusOK, domain.PaymentConfirmation{Success: true, OrderID: &orderID, Status: "paid"})
	})

	c, store := newTestClient(t, mux)
	signIn(t, store)
	ctx := context.Background()

	res, err := c.Checkout(ctx, 9, domain.CheckoutRequest{}, "attempt-1")
	require.NoError(t, err)
	assert.Equal(t, int64(501), res.OrderID)

	pi, err := c.CreatePaymentIntent(ctx, domain.PaymentIntentRequest{OrderID: res.OrderID})
	require.NoError(t, err)
	assert.Equal(t, "pi_1_secret", pi.ClientSecret)

	conf, err := c.ConfirmPayment(ctx, pi.PaymentIntentID)
	require.NoError(t, err)
	assert.True(t, conf.Success)
	assert.Equal(t, int64(501), *conf.OrderID)
}

func TestClient_Collections(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/collections/3/export/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "csv", r.URL.Query().Get("export_format"))
		_, _ = w.Write([]byte("name,grade\nSpawn #1,9.8\n"))
	})
	mux.HandleFunc("POST /api/v1/collections/import/", func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)

		assert.Equal(t, "export.json", header.Filename)
		assert.Equal(t, "application/json", header.Header.Get("Content-Type"))
		assert.Equal(t, "Keys", r.FormValue("name"))
		assert.JSONEq(t, `[{"name":"Spawn #1"}]`, string(data))
		writeJSON(w, http.StatusCreated, domain.ImportResult{CollectionID: 4, CollectionName: "Keys", ItemsImported: 1, ItemsTotal: 1})
	})

	c, store := newTestClient(t, mux)
	signIn(t, store)
	ctx := context.Background()

	data, err := c.ExportCollection(ctx, 3, ExportCSV)
	require.NoError(t, err)
	assert.Equal(t, "name,grade\nSpawn #1,9.8\n", string(data))

	res, err := c.ImportCollection(ctx, "/tmp/export.json", []byte(`[{"name":"Spawn #1"}]`), "Keys")
	require.NoError(t, err)
	assert.Equal(t, int64(4), res.CollectionID)
}

func TestClient_UploadListingImage(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/marketplace/listings/12/images/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("is_primary"))
		_, header, err := r.FormFile("image")
		if !assert.NoError(t, err) {
			return
		}
		assert.Equal(t, "listing_image.jpg", header.Filename)
		writeJSON(w, http.StatusCreated, domain.ListingImage{ID: 1, URL: "https://cdn.example.com/1.jpg", IsPrimary: true})
	})

	c, store := newTestClient(t, mux)
	signIn(t, store)

	img, err := c.UploadListingImage(context.Background(), 12, []byte{0xff, 0xd8, 0xff}, true)
	require.NoError(t, err)
	assert.True(t, img.IsPrimary)
}

func TestClient_OrdersDefaultsToBought(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/marketplace/orders/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bought", r.URL.Query().Get("type"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		_, _ = w.Write([]byte(`{"count":0,"next":null,"results":[]}`))
	})

	c, store := newTestClient(t, mux)
	signIn(t, store)

	page, err := c.Orders(context.Background(), "", 2)
	require.NoError(t, err)
	assert.Empty(t, page.Results)
}

func TestClient_EndpointRoutes(t *testing.T) {
	t.Parallel()

	pw := "new-password-1"
	bio := "Silver age keys"
	on := true

	tests := []struct {
		name string
		call func(context.Context, *Client) error
		want string
	}{
		{
			name: "google login",
			call: func(ctx context.Context, c *Client) error { return c.LoginWithGoogle(ctx, "gid") },
			want: "POST /api/v1/auth/google/",
		},
		{
			name: "apple login",
			call: func(ctx context.Context, c *Client) error {
				return c.LoginWithApple(ctx, domain.SocialLoginRequest{IDToken: "aid", FirstName: "Ada"})
			},
			want: "POST /api/v1/auth/apple/",
		},
		{
			name: "update profile",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.UpdateProfile(ctx, domain.ProfileUpdate{Bio: &bio})
				return err
			},
			want: "PATCH /api/v1/accounts/me/",
		},
		{
			name: "change password",
			call: func(ctx context.Context, c *Client) error {
				return c.ChangePassword(ctx, domain.PasswordChange{
					OldPassword: "password", NewPassword: pw, NewPasswordConf: pw,
				})
			},
			want: "POST /api/v1/accounts/me/password/",
		},
		{
			name: "request password reset",
			call: func(ctx context.Context, c *Client) error { return c.RequestPasswordReset(ctx, "buyer@example.com") },
			want: "POST /api/v1/auth/password/reset/",
		},
		{
			name: "confirm password reset",
			call: func(ctx context.Context, c *Client) error {
				return c.ConfirmPasswordReset(ctx, domain.PasswordResetConfirm{
					UID: "MQ", Token: "tok", NewPassword: pw, NewPasswordConf: pw,
				})
			},
			want: "POST /api/v1/auth/password/reset/confirm/",
		},
		{
			name: "notification settings",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.NotificationSettings(ctx)
				return err
			},
			want: "GET /api/v1/accounts/me/notifications/",
		},
		{
			name: "update notification settings",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.UpdateNotificationSettings(ctx, domain.NotificationSettingsUpdate{PushOutbid: &on})
				return err
			},
			want: "PATCH /api/v1/accounts/me/notifications/",
		},
		{
			name: "upload avatar",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.UploadAvatar(ctx, []byte{0xff, 0xd8})
				return err
			},
			want: "POST /api/v1/accounts/me/avatar/",
		},
		{
			name: "update listing",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.UpdateListing(ctx, 12, domain.ListingInput{Price: "95.00"})
				return err
			},
			want: "PATCH /api/v1/marketplace/listings/12/",
		},
		{
			name: "delete listing",
			call: func(ctx context.Context, c *Client) error { return c.DeleteListing(ctx, 12) },
			want: "DELETE /api/v1/marketplace/listings/12/",
		},
		{
			name: "publish listing",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.PublishListing(ctx, 12)
				return err
			},
			want: "POST /api/v1/marketplace/listings/12/publish/",
		},
		{
			name: "delete listing image",
			call: func(ctx context.Context, c *Client) error { return c.DeleteListingImage(ctx, 12, 3) },
			want: "DELETE /api/v1/marketplace/listings/12/images/3/",
		},
		{
			name: "auction events",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.AuctionEvents(ctx, 1)
				return err
			},
			want: "GET /api/v1/marketplace/auctions/events/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var (
				mu  sync.Mutex
				got string
			)
			c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				mu.Lock()
				got = r.Method + " " + r.URL.Path
				mu.Unlock()
				writeJSON(w, http.StatusOK, map[string]any{
					"access": "access-2", "refresh": "renewal-2", "count": 0, "results": []any{},
				})
			}))
			signIn(t, store)

			require.NoError(t, tt.call(context.Background(), c))
			mu.Lock()
			defer mu.Unlock()
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_AllListingsFollowsPages(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/marketplace/listings/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "auction", r.URL.Query().Get("listing_type"))
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		next := any(nil)
		if page < 2 {
			next = "next"
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"count":   2,
			"next":    next,
			"results": []map[string]any{{"id": page, "title": fmt.Sprintf("Lot %d", page)}},
		})
	})

	c, _ := newTestClient(t, mux)

	all, err := c.AllListings(context.Background(), domain.ListingFilter{ListingType: domain.ListingAuction})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Lot 2", all[1].Title)
}
