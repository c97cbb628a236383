package sandbox_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadermx/heroesandmore-client/internal/api/client"
	"github.com/nadermx/heroesandmore-client/internal/checkout"
	"github.com/nadermx/heroesandmore-client/internal/config"
	"github.com/nadermx/heroesandmore-client/internal/credentials"
	"github.com/nadermx/heroesandmore-client/internal/gateway"
	"github.com/nadermx/heroesandmore-client/internal/negotiation"
	"github.com/nadermx/heroesandmore-client/internal/sandbox"
	"github.com/nadermx/heroesandmore-client/pkg/logger"
	domain "github.com/nadermx/heroesandmore-client/pkg/types"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// recorder counts requests by path and can fail the next request to a path
// by dropping the connection.
type recorder struct {
	next  http.Handler
	mu    sync.Mutex
	calls map[string]int
	drop  map[string]int
	total atomic.Int64
}

func (r *recorder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.total.Add(1)

	r.mu.Lock()
	r.calls[req.URL.Path]++
	drop := r.drop[req.URL.Path] > 0
	if drop {
		r.drop[req.URL.Path]--
	}
	r.mu.Unlock()

	if drop {
		conn, _, err := w.(http.Hijacker).Hijack()
		if err == nil {
			_ = conn.Close()
		}
		return
	}
	r.next.ServeHTTP(w, req)
}

func (r *recorder) Calls(path string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[path]
}

func (r *recorder) DropNext(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drop[path]++
}

type harness struct {
	url string
	rec *recorder
	srv *sandbox.Server
}

func newHarness(t *testing.T, opts ...sandbox.Option) *harness {
	t.Helper()

	srv, err := sandbox.NewServer(config.Default().Sandbox, "test", logger.Discard(), opts...)
	require.NoError(t, err)

	rec := &recorder{next: srv.Handler(), calls: map[string]int{}, drop: map[string]int{}}
	ts := httptest.NewServer(rec)
	t.Cleanup(ts.Close)

	return &harness{url: ts.URL + "/api/v1", rec: rec, srv: srv}
}

func (h *harness) client(t *testing.T) (*client.Client, *credentials.MemoryStore) {
	t.Helper()

	store := credentials.NewMemoryStore()
	gw, err := gateway.New(h.url, store)
	require.NoError(t, err)
	return client.New(gw), store
}

func (h *harness) signIn(t *testing.T, username string) (*client.Client, *credentials.MemoryStore) {
	t.Helper()

	c, store := h.client(t)
	require.NoError(t, c.Login(context.Background(), domain.LoginRequest{
		Username: username,
		Password: sandbox.SeedPassword,
	}))
	return c, store
}

func TestE2E_LoginThenCurrentUser(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	c, store := h.client(t)
	ctx := context.Background()

	_, err := c.CurrentUser(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, gateway.ErrUnauthorized, "no session, no renewal")

	require.NoError(t, c.Login(ctx, domain.LoginRequest{Username: "buyer", Password: sandbox.SeedPassword}))

	sess, err := credentials.LoadSession(ctx, store)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Access)
	assert.NotEmpty(t, sess.Renewal)

	me, err := c.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, sandbox.BuyerID, me.ID)
	assert.Equal(t, "buyer", me.Username)

	require.NoError(t, c.Logout(ctx))
	sess, err = credentials.LoadSession(ctx, store)
	require.NoError(t, err)
	assert.True(t, sess.Empty())
}

func TestE2E_WrongPasswordIsUnauthorized(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	c, _ := h.client(t)

	err := c.Login(context.Background(), domain.LoginRequest{Username: "buyer", Password: "nope"})
	require.Error(t, err)
	assert.Equal(t, gateway.KindUnauthorized, gateway.KindOf(err))
	assert.Equal(t, 0, h.rec.Calls("/api/v1/auth/token/refresh/"), "a failed login never renews")
}

func TestE2E_RenewsExpiredAccess(t *testing.T) {
	t.Parallel()

	clk := &clock{now: time.Now()}
	h := newHarness(t, sandbox.WithClock(clk.Now), sandbox.WithAccessTTL(time.Minute))
	c, store := h.signIn(t, "buyer")
	ctx := context.Background()

	before, err := credentials.LoadSession(ctx, store)
	require.NoError(t, err)

	clk.Advance(2 * time.Minute)

	d, err := c.GetListing(ctx, sandbox.SpiderManListingID)
	require.NoError(t, err, "the caller never sees the 401")
	assert.Equal(t, sandbox.SpiderManListingID, d.ID)
	assert.Equal(t, 1, h.rec.Calls("/api/v1/auth/token/refresh/"))

	after, err := credentials.LoadSession(ctx, store)
	require.NoError(t, err)
	assert.NotEqual(t, before.Access, after.Access)
	assert.NotEqual(t, before.Renewal, after.Renewal, "renewal credential rotated")
}

func TestE2E_ConcurrentExpiryRenewsOnce(t *testing.T) {
	t.Parallel()

	clk := &clock{now: time.Now()}
	h := newHarness(t, sandbox.WithClock(clk.Now), sandbox.WithAccessTTL(time.Minute))
	c, _ := h.signIn(t, "buyer")
	clk.Advance(2 * time.Minute)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = c.CurrentUser(context.Background())
		}()
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, h.rec.Calls("/api/v1/auth/token/refresh/"))
}

func TestE2E_FailedRenewalEndsSession(t *testing.T) {
	t.Parallel()

	clk := &clock{now: time.Now()}
	h := newHarness(t, sandbox.WithClock(clk.Now), sandbox.WithAccessTTL(time.Minute))
	c, store := h.signIn(t, "buyer")
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, credentials.RenewalKey, "revoked"))
	clk.Advance(2 * time.Minute)

	_, err := c.CurrentUser(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, gateway.ErrUnauthorized)
	assert.Equal(t, 1, h.rec.Calls("/api/v1/auth/token/refresh/"))
	assert.Equal(t, 1, h.rec.Calls("/api/v1/accounts/me/"), "no retry after a failed renewal")

	sess, err := credentials.LoadSession(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, credentials.Session{}, sess)
}

func TestE2E_BidRejectedWithServerMessage(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	buyer, _ := h.signIn(t, "buyer")
	collector, _ := h.signIn(t, "collector")
	ctx := context.Background()

	_, err := buyer.PlaceBid(ctx, sandbox.XMenAuctionID, "150.00")
	require.NoError(t, err)

	bidder := negotiation.NewBidder(collector)
	res, err := bidder.PlaceBid(ctx, sandbox.XMenAuctionID, "150.00")
	require.Error(t, err)
	assert.Equal(t, gateway.KindClientRejected, gateway.KindOf(err))
	assert.Equal(t, http.StatusBadRequest, gateway.StatusCode(err))
	assert.Equal(t, "Bid must exceed current bid of $150.00", gateway.Message(err))

	require.NotNil(t, res.Listing, "listing is refetched after a failed bid")
	assert.Equal(t, "155.00", res.NextBid.StringFixed(2))

	res, err = bidder.PlaceBid(ctx, sandbox.XMenAuctionID, res.NextBid.StringFixed(2))
	require.NoError(t, err)
	assert.True(t, res.Bid.IsWinning)
}

func TestE2E_InvalidAmountNeverReachesServer(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	buyer, _ := h.signIn(t, "buyer")
	sent := h.rec.total.Load()

	_, err := buyer.PlaceBid(context.Background(), sandbox.XMenAuctionID, "12.345")
	require.Error(t, err)
	assert.Equal(t, gateway.KindInvalidRequest, gateway.KindOf(err))
	assert.Equal(t, sent, h.rec.total.Load())
}

func TestE2E_AutoBidCancelIsIdempotent(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	buyer, _ := h.signIn(t, "buyer")
	ctx := context.Background()
	bidder := negotiation.NewBidder(buyer)

	ab, err := bidder.SetAutoBid(ctx, sandbox.XMenAuctionID, "100.00")
	require.NoError(t, err)

	require.NoError(t, bidder.CancelAutoBid(ctx, ab.ID))
	require.NoError(t, bidder.CancelAutoBid(ctx, ab.ID), "409 on a second cancel is a no-op")
	require.NoError(t, bidder.CancelAutoBid(ctx, 99999), "404 is a no-op")

	page, err := buyer.AutoBids(ctx, 1)
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.False(t, page.Results[0].IsActive)
}

func findOffer(t *testing.T, c *client.Client, id int64) *domain.Offer {
	t.Helper()

	offers, err := c.AllOffers(context.Background())
	require.NoError(t, err)
	for i := range offers {
		if offers[i].ID == id {
			return &offers[i]
		}
	}
	t.Fatalf("offer %d not listed", id)
	return nil
}

func TestE2E_CounterOfferFlow(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	buyer, _ := h.signIn(t, "buyer")
	seller, _ := h.signIn(t, "seller")
	ctx := context.Background()

	made, err := buyer.MakeOffer(ctx, sandbox.SpiderManListingID, domain.OfferRequest{Amount: "1200.00"})
	require.NoError(t, err)

	sellerSide := negotiation.NewNegotiator(seller)
	countered, err := sellerSide.Counter(ctx, findOffer(t, seller, made.ID), domain.OfferRequest{Amount: "1300.00"})
	require.NoError(t, err)
	assert.Equal(t, domain.OfferCountered, countered.Status)

	buyerSide := negotiation.NewNegotiator(buyer)
	offer := findOffer(t, buyer, made.ID)
	assert.Equal(t, []negotiation.Action{negotiation.ActionAcceptCounter, negotiation.ActionDeclineCounter},
		negotiation.Allowed(offer, negotiation.Buyer, time.Now()))

	accepted, err := buyerSide.AcceptCounter(ctx, offer)
	require.NoError(t, err)
	assert.Equal(t, domain.OfferAccepted, accepted.Status)

	sent := h.rec.total.Load()
	_, err = buyerSide.DeclineCounter(ctx, accepted)
	require.ErrorIs(t, err, negotiation.ErrOfferTerminal)
	assert.Equal(t, sent, h.rec.total.Load(), "terminal offers are refused without a call")

	assert.Equal(t, domain.OfferAccepted, findOffer(t, buyer, made.ID).Status)

	res, err := buyer.Checkout(ctx, sandbox.SpiderManListingID, domain.CheckoutRequest{}, "")
	require.NoError(t, err)
	assert.Equal(t, "1300.00", res.Subtotal, "the accepted counter sets the price")
}

func TestE2E_WrongPartyRefusedLocally(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	buyer, _ := h.signIn(t, "buyer")
	ctx := context.Background()

	made, err := buyer.MakeOffer(ctx, sandbox.JordanListingID, domain.OfferRequest{Amount: "2000.00"})
	require.NoError(t, err)

	sent := h.rec.total.Load()
	_, err = negotiation.NewNegotiator(buyer).Do(ctx, made, negotiation.Buyer, negotiation.ActionAccept, domain.OfferRequest{})
	require.ErrorIs(t, err, negotiation.ErrWrongParty)
	assert.Equal(t, sent, h.rec.total.Load())

	// The server enforces the same rule when asked directly.
	err = buyer.AcceptOffer(ctx, made.ID)
	assert.Equal(t, http.StatusForbidden, gateway.StatusCode(err))
}

func TestE2E_CheckoutResumesAfterIntentFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	buyer, _ := h.signIn(t, "buyer")
	ctx := context.Background()

	var confirmed atomic.Int64
	processor := checkout.ConfirmerFunc(func(_ context.Context, pi *domain.PaymentIntent) error {
		if !strings.HasPrefix(pi.ClientSecret, pi.PaymentIntentID) {
			return errors.New("client secret does not match intent")
		}
		confirmed.Add(1)
		return nil
	})
	orch := checkout.New(buyer, processor)

	h.rec.DropNext("/api/v1/marketplace/payment/intent/")

	a := checkout.NewAttempt(sandbox.BatmanListingID)
	_, err := orch.Run(ctx, a)
	require.Error(t, err)
	assert.Equal(t, gateway.KindNetworkFailure, gateway.KindOf(err))
	require.NotNil(t, a.Order)
	assert.Equal(t, checkout.StageIntent, a.Stage())

	pc, err := orch.Run(ctx, a)
	require.NoError(t, err)
	assert.True(t, pc.Success)
	assert.Equal(t, checkout.StageDone, a.Stage())
	assert.Equal(t, int64(12500), a.Intent.Amount)
	assert.Equal(t, int64(1), confirmed.Load())

	assert.Equal(t, 1, h.rec.Calls("/api/v1/marketplace/checkout/103/"), "checkout is never repeated")
	assert.Equal(t, 2, h.rec.Calls("/api/v1/marketplace/payment/intent/"))

	order, err := buyer.GetOrder(ctx, a.Order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPaid, order.Status)
}

func TestE2E_ResumeOrderFromAnotherProcess(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	buyer, _ := h.signIn(t, "buyer")
	ctx := context.Background()

	res, err := buyer.Checkout(ctx, sandbox.BatmanListingID, domain.CheckoutRequest{}, "once")
	require.NoError(t, err)

	noop := checkout.ConfirmerFunc(func(context.Context, *domain.PaymentIntent) error { return nil })
	a := checkout.ResumeOrder(res.OrderID)
	pc, err := checkout.New(buyer, noop).Run(ctx, a)
	require.NoError(t, err)
	require.NotNil(t, pc.OrderID)
	assert.Equal(t, res.OrderID, *pc.OrderID)
	assert.Equal(t, 1, h.rec.Calls("/api/v1/marketplace/checkout/103/"))
}

func TestE2E_PaginationCollectsEveryItem(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	seller, _ := h.signIn(t, "seller")
	buyer, _ := h.signIn(t, "buyer")
	ctx := context.Background()

	// 25 offers spill onto a second page for the seller.
	var made int
	for range 25 {
		o, err := buyer.MakeOffer(ctx, sandbox.SpiderManListingID, domain.OfferRequest{Amount: "1000.00"})
		require.NoError(t, err)
		require.NoError(t, seller.DeclineOffer(ctx, o.ID))
		made++
	}

	first, err := seller.Offers(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, first.Next)
	assert.Equal(t, made, first.Count)

	all, err := seller.AllOffers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, made)

	seen := make(map[int64]bool, len(all))
	for _, o := range all {
		assert.False(t, seen[o.ID], "offer %d listed twice", o.ID)
		seen[o.ID] = true
	}
}

func TestE2E_CollectionRoundTrip(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	collector, _ := h.signIn(t, "collector")
	ctx := context.Background()

	data, err := collector.ExportCollection(ctx, sandbox.SeedCollectionID, "csv")
	require.NoError(t, err)

	res, err := collector.ImportCollection(ctx, "silver-age.csv", data, "Copied keys")
	require.NoError(t, err)
	assert.Equal(t, "Copied keys", res.CollectionName)
	assert.Equal(t, 3, res.ItemsImported)

	mine, err := collector.MyCollections(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine.Results, 1)
	assert.Equal(t, res.CollectionID, mine.Results[0].ID)
}
