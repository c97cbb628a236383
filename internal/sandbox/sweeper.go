package sandbox

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/nadermx/heroesandmore-client/internal/metrics"
	domain "github.com/nadermx/heroesandmore-client/pkg/types"
)

// Sweep declines countered offers whose window has passed and closes
// auctions whose end date has passed. A closed auction with bids is
// reserved for the winning bidder.
func (m *Market) Sweep() (expired, closed int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for _, o := range m.offers {
		if o.status == domain.OfferCountered && o.expiresAt != nil && !now.Before(*o.expiresAt) {
			o.status = domain.OfferDeclined
			expired++
		}
	}
	for _, l := range m.listings {
		if !l.IsAuction() || l.Status != statusActive || l.EndDate == nil || now.Before(l.EndDate.Time) {
			continue
		}
		l.Status = statusEnded
		if high := l.highBid(); high != nil {
			l.reservedBy = high.userID
		}
		closed++
	}
	return expired, closed
}

// Sweeper runs Market.Sweep on a cron schedule.
type Sweeper struct {
	cron   *cron.Cron
	market *Market
	log    *slog.Logger
}

// NewSweeper creates a Sweeper that runs every interval.
func NewSweeper(m *Market, interval time.Duration, log *slog.Logger) (*Sweeper, error) {
	c := cron.New()

	s := &Sweeper{
		cron:   c,
		market: m,
		log:    log,
	}

	if _, err := c.AddFunc("@every "+interval.String(), s.run); err != nil {
		return nil, err
	}
	return s, nil
}

// Start begins running sweeps.
func (s *Sweeper) Start() {
	s.log.Info("sweeper started")
	s.cron.Start()
}

// Stop stops the schedule and returns a context done once a running sweep
// finishes.
func (s *Sweeper) Stop() context.Context {
	s.log.Info("sweeper stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries.
func (s *Sweeper) Entries() []cron.Entry {
	return s.cron.Entries()
}

func (s *Sweeper) run() {
	expired, closed := s.market.Sweep()
	metrics.SweepOffersExpiredTotal.Add(float64(expired))
	metrics.SweepAuctionsClosedTotal.Add(float64(closed))
	if expired > 0 || closed > 0 {
		s.log.Info("sweep finished", "offers_expired", expired, "auctions_closed", closed)
	}
}
