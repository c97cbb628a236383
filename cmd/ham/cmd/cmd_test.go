package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadermx/heroesandmore-client/internal/buildinfo"
	"github.com/nadermx/heroesandmore-client/internal/config"
	"github.com/nadermx/heroesandmore-client/internal/gateway"
	"github.com/nadermx/heroesandmore-client/internal/negotiation"
	"github.com/nadermx/heroesandmore-client/internal/sandbox"
	"github.com/nadermx/heroesandmore-client/pkg/logger"
	domain "github.com/nadermx/heroesandmore-client/pkg/types"
)

// captureStdout runs fn with os.Stdout redirected and returns what it
// wrote.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err)

	orig := os.Stdout
	os.Stdout = w
	done := make(chan []byte)
	go func() {
		b, _ := io.ReadAll(r)
		done <- b
	}()

	runErr := fn()
	os.Stdout = orig
	require.NoError(t, w.Close())
	out := <-done
	require.NoError(t, r.Close())
	return string(out), runErr
}

// TestCLI_Session drives the root command against a sandbox. It shares the
// package-level command tree, so it must not run in parallel.
func TestCLI_Session(t *testing.T) {
	srv, err := sandbox.NewServer(config.Default().Sandbox, "test", logger.Discard())
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "ham.yaml")
	cfgYAML := fmt.Sprintf(
		"api:\n  base_url: %s/api/v1\ncredentials:\n  backend: file\n  path: %s\nlogging:\n  level: error\n",
		ts.URL, filepath.Join(dir, "credentials.yaml"),
	)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgYAML), 0o600))

	run := func(output string, args ...string) (string, error) {
		return captureStdout(t, func() error {
			rootCmd.SetArgs(append([]string{"--config", cfgPath, "--output", output}, args...))
			return rootCmd.ExecuteContext(context.Background())
		})
	}

	_, err = run("table", "whoami")
	require.Error(t, err, "no session yet")

	_, err = run("table", "login", "--username", "buyer", "--password", "wrong")
	require.ErrorIs(t, err, gateway.ErrUnauthorized)
	assert.Contains(t, err.Error(), "login failed: ")

	out, err := run("table", "login", "--username", "buyer", "--password", sandbox.SeedPassword)
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as buyer")

	out, err = run("json", "whoami")
	require.NoError(t, err)
	var me domain.Profile
	require.NoError(t, json.Unmarshal([]byte(out), &me))
	assert.Equal(t, "buyer", me.Username)

	out, err = run("table", "listings", "list", "--type", "auction")
	require.NoError(t, err)
	assert.Contains(t, out, "Showing 2 of 2 listings")

	_, err = run("table", "bid", "place", "104", "1.00")
	require.Error(t, err, "below the starting price")

	out, err = run("json", "offers", "make", "101", "--amount", "1200.00")
	require.NoError(t, err)
	var offer domain.Offer
	require.NoError(t, json.Unmarshal([]byte(out), &offer))
	assert.Equal(t, domain.OfferPending, offer.Status)

	_, err = run("table", "offers", "accept", strconv.FormatInt(offer.ID, 10))
	require.ErrorIs(t, err, negotiation.ErrWrongParty, "buyers cannot accept their own offer")

	out, err = run("json", "checkout", "run", "103")
	require.NoError(t, err)
	var res struct {
		Order   domain.CheckoutResult      `json:"order"`
		Payment domain.PaymentConfirmation `json:"payment"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.Payment.Success)
	assert.Positive(t, res.Order.OrderID)

	out, err = run("table", "orders", "get", strconv.FormatInt(res.Order.OrderID, 10))
	require.NoError(t, err)
	assert.Contains(t, out, "paid")

	_, err = run("table", "checkout", "run", "103")
	require.ErrorIs(t, err, gateway.ErrClientRejected, "listing already sold")
	assert.Contains(t, err.Error(), "checkout: Listing has already been sold.")

	out, err = run("table", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed out")

	_, err = run("table", "whoami")
	require.ErrorIs(t, err, gateway.ErrUnauthorized)

	out, err = run("json", "version")
	require.NoError(t, err)
	var info buildinfo.Info
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "ham", info.Program)
	assert.Equal(t, buildinfo.Version, info.Version)

	out, err = run("table", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "ham "+buildinfo.Version+" (")
}

func TestParseID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "104", want: 104},
		{in: "0", wantErr: true},
		{in: "-3", wantErr: true},
		{in: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := parseID("listing id", tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoleOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, negotiation.Buyer, roleOf(&domain.Offer{IsFromBuyer: true}))
	assert.Equal(t, negotiation.Seller, roleOf(&domain.Offer{}))
}

func TestFormatting(t *testing.T) {
	t.Parallel()

	amount := "12.50"
	assert.Equal(t, "$12.50", moneyPtr(&amount))
	assert.Equal(t, "-", moneyPtr(nil))
	assert.Equal(t, "-", money(""))
	assert.Equal(t, "Amazing Spider-Man...", truncate("Amazing Spider-Man #300 CGC 9.8", 21))
	assert.Equal(t, "short", truncate("short", 21))
	assert.Equal(t, "-", timestamp(nil))
	assert.Equal(t, "-", actionList(nil))
	assert.Equal(t, "accept,decline",
		actionList([]negotiation.Action{negotiation.ActionAccept, negotiation.ActionDecline}))

	remaining := domain.Offer{TimeRemaining: "1h 0m"}
	assert.Equal(t, "1h 0m", expiry(&remaining))
	expires := domain.Offer{ExpiresAt: domain.NewTimestamp(time.Date(2026, 3, 1, 12, 0, 0, 0, time.Local))}
	assert.Equal(t, "2026-03-01 12:00", expiry(&expires))
}

func TestPrintOffersTable(t *testing.T) {
	counter := "1350.00"
	offers := []domain.Offer{
		{ID: 1, Listing: domain.OfferListing{Title: "Jordan Rookie"}, Amount: "1200.00", Status: domain.OfferPending},
		{ID: 2, Amount: "1100.00", Status: domain.OfferCountered, CounterAmount: &counter, IsFromBuyer: true},
	}

	out, err := captureStdout(t, func() error { return printOffersTable(offers) })
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace([]byte(out)), []byte("\n"))
	require.Len(t, lines, 3)
	assert.Contains(t, string(lines[1]), "accept,decline,counter")
	assert.Contains(t, string(lines[2]), "accept-counter,decline-counter")
	assert.Contains(t, string(lines[2]), "$1350.00")
}

func TestPrintSearchResult(t *testing.T) {
	res := &domain.SearchResult{
		Listings:        []domain.Listing{{ID: 101, Title: "Amazing Spider-Man #300"}},
		PriceGuideItems: []domain.PriceGuideItem{{ID: 8, Name: "Amazing Spider-Man #300"}},
		Users:           []domain.PublicProfile{{Username: "seller"}},
	}

	out, err := captureStdout(t, func() error { return printSearchResult(res) })
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace([]byte(out)), []byte("\n"))
	require.Len(t, lines, 4)
	assert.Contains(t, string(lines[1]), "listing")
	assert.Contains(t, string(lines[2]), "item")
	assert.Contains(t, string(lines[3]), "seller")

	out, err = captureStdout(t, func() error { return printSearchResult(&domain.SearchResult{}) })
	require.NoError(t, err)
	assert.Equal(t, "No results.\n", out)
}

func TestPrintTrendingTable(t *testing.T) {
	price, pct := "450.00", "12.5"
	items := []domain.TrendingItem{
		{ID: 8, Name: "Spawn #1", CurrentPrice: &price, PriceChangePercent: &pct, Trend: domain.TrendUp},
		{ID: 9, Name: "X-Men #1", Trend: domain.TrendStable},
	}

	out, err := captureStdout(t, func() error { return printTrendingTable(items) })
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace([]byte(out)), []byte("\n"))
	require.Len(t, lines, 3)
	assert.Contains(t, string(lines[1]), "$450.00")
	assert.Contains(t, string(lines[1]), "12.5%")
	assert.Contains(t, string(lines[2]), "stable")
}
