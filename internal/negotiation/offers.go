package negotiation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nadermx/heroesandmore-client/internal/metrics"
	"github.com/nadermx/heroesandmore-client/pkg/logger"
	domain "github.com/nadermx/heroesandmore-client/pkg/types"
)

// Guard errors. Each is returned before any network call.
var (
	ErrOfferTerminal    = errors.New("offer is already accepted or declined")
	ErrOfferExpired     = errors.New("counter-offer has expired")
	ErrActionNotAllowed = errors.New("action not allowed in offer's current status")
	ErrWrongParty       = errors.New("action belongs to the other party")
)

// Role is the acting party's side of an offer.
type Role int

const (
	Buyer Role = iota + 1
	Seller
)

func (r Role) String() string {
	switch r {
	case Buyer:
		return "buyer"
	case Seller:
		return "seller"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Action is an offer transition.
type Action string

const (
	ActionAccept         Action = "accept"
	ActionDecline        Action = "decline"
	ActionCounter        Action = "counter"
	ActionAcceptCounter  Action = "accept-counter"
	ActionDeclineCounter Action = "decline-counter"
)

type transition struct {
	from domain.OfferStatus
	by   Role
	to   domain.OfferStatus
}

// transitions is the complete table. Nothing leaves a terminal status.
var transitions = map[Action]transition{
	ActionAccept:         {from: domain.OfferPending, by: Seller, to: domain.OfferAccepted},
	ActionDecline:        {from: domain.OfferPending, by: Seller, to: domain.OfferDeclined},
	ActionCounter:        {from: domain.OfferPending, by: Seller, to: domain.OfferCountered},
	ActionAcceptCounter:  {from: domain.OfferCountered, by: Buyer, to: domain.OfferAccepted},
	ActionDeclineCounter: {from: domain.OfferCountered, by: Buyer, to: domain.OfferDeclined},
}

// actionOrder fixes the order Allowed reports actions in.
var actionOrder = []Action{
	ActionAccept, ActionDecline, ActionCounter, ActionAcceptCounter, ActionDeclineCounter,
}

// Check reports whether role may take action on o at now.
func Check(o *domain.Offer, role Role, action Action, now time.Time) error {
	tr, ok := transitions[action]
	if !ok {
		return fmt.Errorf("unknown offer action %q: %w", action, ErrActionNotAllowed)
	}
	if o.Status.IsTerminal() {
		return ErrOfferTerminal
	}
	if o.Status == domain.OfferCountered && o.IsExpired(now) {
		return ErrOfferExpired
	}
	if o.Status != tr.from {
		return fmt.Errorf("%s on %s offer: %w", action, o.Status, ErrActionNotAllowed)
	}
	if role != tr.by {
		return fmt.Errorf("%s is a %s action: %w", action, tr.by, ErrWrongParty)
	}
	return nil
}

// Target returns the status action moves o to, after the same checks as
// Check.
func Target(o *domain.Offer, role Role, action Action, now time.Time) (domain.OfferStatus, error) {
	if err := Check(o, role, action, now); err != nil {
		return o.Status, err
	}
	return transitions[action].to, nil
}

// Allowed lists the actions role may take on o at now.
func Allowed(o *domain.Offer, role Role, now time.Time) []Action {
	var out []Action
	for _, a := range actionOrder {
		if Check(o, role, a, now) == nil {
			out = append(out, a)
		}
	}
	return out
}

// OfferAPI is the subset of the marketplace client used for offers.
type OfferAPI interface {
	AcceptOffer(ctx context.Context, id int64) error
	DeclineOffer(ctx context.Context, id int64) error
	CounterOffer(ctx context.Context, id int64, req domain.OfferRequest) (*domain.Offer, error)
	AcceptCounterOffer(ctx context.Context, id int64) error
	DeclineCounterOffer(ctx context.Context, id int64) error
}

// Negotiator applies offer transitions through the marketplace, guarding
// each against the transition table first.
type Negotiator struct {
	api OfferAPI
	now func() time.Time
	log *slog.Logger
}

// NegotiatorOption configures the Negotiator.
type NegotiatorOption func(*Negotiator)

// WithNegotiatorLogger sets the logger.
func WithNegotiatorLogger(l *slog.Logger) NegotiatorOption {
	return func(n *Negotiator) {
		n.log = l
	}
}

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) NegotiatorOption {
	return func(n *Negotiator) {
		n.now = now
	}
}

// NewNegotiator creates a Negotiator.
func NewNegotiator(api OfferAPI, opts ...NegotiatorOption) *Negotiator {
	n := &Negotiator{api: api, now: time.Now, log: logger.Discard()}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Accept is the seller accepting a pending offer.
func (n *Negotiator) Accept(ctx context.Context, o *domain.Offer) (*domain.Offer, error) {
	return n.apply(ctx, o, Seller, ActionAccept, func() (*domain.Offer, error) {
		return nil, n.api.AcceptOffer(ctx, o.ID)
	})
}

// Decline is the seller declining a pending offer.
func (n *Negotiator) Decline(ctx context.Context, o *domain.Offer) (*domain.Offer, error) {
	return n.apply(ctx, o, Seller, ActionDecline, func() (*domain.Offer, error) {
		return nil, n.api.DeclineOffer(ctx, o.ID)
	})
}

// Counter is the seller answering a pending offer with a new amount.
func (n *Negotiator) Counter(ctx context.Context, o *domain.Offer, req domain.OfferRequest) (*domain.Offer, error) {
	return n.apply(ctx, o, Seller, ActionCounter, func() (*domain.Offer, error) {
		return n.api.CounterOffer(ctx, o.ID, req)
	})
}

// AcceptCounter is the buyer accepting the seller's counter.
func (n *Negotiator) AcceptCounter(ctx context.Context, o *domain.Offer) (*domain.Offer, error) {
	return n.apply(ctx, o, Buyer, ActionAcceptCounter, func() (*domain.Offer, error) {
		return nil, n.api.AcceptCounterOffer(ctx, o.ID)
	})
}

// DeclineCounter is the buyer declining the seller's counter.
func (n *Negotiator) DeclineCounter(ctx context.Context, o *domain.Offer) (*domain.Offer, error) {
	return n.apply(ctx, o, Buyer, ActionDeclineCounter, func() (*domain.Offer, error) {
		return nil, n.api.DeclineCounterOffer(ctx, o.ID)
	})
}

// Do dispatches action for role. The counter amount is only used by
// ActionCounter.
func (n *Negotiator) Do(
	ctx context.Context,
	o *domain.Offer,
	role Role,
	action Action,
	counter domain.OfferRequest,
) (*domain.Offer, error) {
	if err := Check(o, role, action, n.now()); err != nil {
		metrics.OfferActionsTotal.WithLabelValues(string(action), metrics.OutcomeSkipped).Inc()
		return cloneOffer(o), err
	}
	switch action {
	case ActionAccept:
		return n.Accept(ctx, o)
	case ActionDecline:
		return n.Decline(ctx, o)
	case ActionCounter:
		return n.Counter(ctx, o, counter)
	case ActionAcceptCounter:
		return n.AcceptCounter(ctx, o)
	default:
		return n.DeclineCounter(ctx, o)
	}
}

// apply guards, calls and folds the server's answer into a new offer
// value. On any failure the offer comes back with its last-known status;
// the caller should refetch, since a failed call may still have applied.
func (n *Negotiator) apply(
	ctx context.Context,
	o *domain.Offer,
	role Role,
	action Action,
	call func() (*domain.Offer, error),
) (*domain.Offer, error) {
	if err := Check(o, role, action, n.now()); err != nil {
		metrics.OfferActionsTotal.WithLabelValues(string(action), metrics.OutcomeSkipped).Inc()
		n.log.Debug("offer action refused locally", "offer_id", o.ID, "action", action, "status", o.Status, "error", err)
		return cloneOffer(o), err
	}

	updated, err := call()
	if err != nil {
		metrics.OfferActionsTotal.WithLabelValues(string(action), metrics.OutcomeError).Inc()
		n.log.Info("offer action failed", "offer_id", o.ID, "action", action, "error", err)
		return cloneOffer(o), err
	}
	metrics.OfferActionsTotal.WithLabelValues(string(action), metrics.OutcomeOK).Inc()

	if updated == nil {
		updated = cloneOffer(o)
		updated.Status = transitions[action].to
	}
	n.log.Info("offer updated", "offer_id", o.ID, "action", action, "status", updated.Status)
	return updated, nil
}

func cloneOffer(o *domain.Offer) *domain.Offer {
	c := *o
	return &c
}
