// Package metrics defines Prometheus metrics for the marketplace client
// and the sandbox server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ham"

// Outcome label values shared by client-side counters.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeSkipped = "skipped"
)

// Gateway metrics.
var (
	GatewayRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gateway_requests_total",
		Help:      "Marketplace API requests by method and outcome kind.",
	}, []string{"method", "outcome"})

	GatewayRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "gateway_request_duration_seconds",
		Help:      "Duration of marketplace API round trips in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})

	GatewayRenewalsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gateway_renewals_total",
		Help:      "Credential renewal attempts by result (renewed, reused, rejected, error).",
	}, []string{"result"})
)

// Negotiation metrics.
var (
	BidsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bids_total",
		Help:      "Bid attempts by outcome.",
	}, []string{"outcome"})

	AutoBidCancelsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "autobid_cancels_total",
		Help:      "Auto-bid cancellations by outcome; skipped means already inactive.",
	}, []string{"outcome"})

	OfferActionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "offer_actions_total",
		Help:      "Offer state transitions by action and outcome.",
	}, []string{"action", "outcome"})
)

// Checkout metrics.
var (
	CheckoutStepsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkout_steps_total",
		Help:      "Checkout saga steps by step and outcome.",
	}, []string{"step", "outcome"})

	CheckoutResumesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkout_resumes_total",
		Help:      "Checkout attempts resumed past an already completed step.",
	})
)

// Sandbox HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "sandbox_http_request_duration_seconds",
		Help:      "Duration of sandbox HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sandbox_http_requests_total",
		Help:      "Total number of sandbox HTTP requests.",
	}, []string{"method", "path", "status"})

	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sandbox_healthz_up",
		Help:      "Whether the last liveness probe succeeded (1) or failed (0).",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sandbox_readyz_up",
		Help:      "Whether the last readiness probe succeeded (1) or failed (0).",
	})
)

// Sandbox sweeper metrics.
var (
	SweepOffersExpiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sandbox_offers_expired_total",
		Help:      "Countered offers declined by the sweeper after expiry.",
	})

	SweepAuctionsClosedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sandbox_auctions_closed_total",
		Help:      "Auctions closed by the sweeper after their end date.",
	})
)
