// Package checkout sequences listing reservation, payment-intent creation
// and payment confirmation. The steps form a saga with no rollback: once a
// listing is reserved the attempt only ever moves forward or is retried
// from the step that failed.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/nadermx/heroesandmore-client/internal/metrics"
	"github.com/nadermx/heroesandmore-client/pkg/logger"
	domain "github.com/nadermx/heroesandmore-client/pkg/types"
)

const tracerName = "github.com/nadermx/heroesandmore-client/internal/checkout"

var (
	ErrAlreadyCheckedOut = errors.New("attempt already holds an order")
	ErrNoOrder           = errors.New("attempt has no order")
	ErrNoPaymentIntent   = errors.New("attempt has no payment intent")
	ErrPaymentDeclined   = errors.New("payment not confirmed")
)

// API is the subset of the marketplace client used by checkout.
type API interface {
	Checkout(
		ctx context.Context,
		listingID int64,
		req domain.CheckoutRequest,
		idempotencyKey string,
	) (*domain.CheckoutResult, error)
	CreatePaymentIntent(ctx context.Context, req domain.PaymentIntentRequest) (*domain.PaymentIntent, error)
	ConfirmPayment(ctx context.Context, paymentIntentID string) (*domain.PaymentConfirmation, error)
}

// PaymentConfirmer is the payment processor capability. It confirms an
// intent client-side using its client secret.
type PaymentConfirmer interface {
	ConfirmIntent(ctx context.Context, intent *domain.PaymentIntent) error
}

// ConfirmerFunc adapts a function to PaymentConfirmer.
type ConfirmerFunc func(ctx context.Context, intent *domain.PaymentIntent) error

// ConfirmIntent calls f.
func (f ConfirmerFunc) ConfirmIntent(ctx context.Context, intent *domain.PaymentIntent) error {
	return f(ctx, intent)
}

// Stage is the next step an attempt needs.
type Stage int

const (
	StageReserve Stage = iota
	StageIntent
	StageProcessor
	StageConfirm
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageReserve:
		return "reserve"
	case StageIntent:
		return "intent"
	case StageProcessor:
		return "processor"
	case StageConfirm:
		return "confirm"
	case StageDone:
		return "done"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Attempt is the caller-owned record of one checkout. The orchestrator
// fills it in step by step and never discards a completed step, so passing
// the same Attempt back after a failure resumes where it stopped.
type Attempt struct {
	ListingID         int64
	ShippingAddressID *int64
	PaymentMethodID   string

	// IdempotencyKey is sent with the reservation so a duplicated request
	// maps to the same order server-side.
	IdempotencyKey string

	Order              *domain.CheckoutResult
	Intent             *domain.PaymentIntent
	ProcessorConfirmed bool
	Confirmation       *domain.PaymentConfirmation
}

// NewAttempt starts an attempt to buy listingID.
func NewAttempt(listingID int64) *Attempt {
	return &Attempt{ListingID: listingID, IdempotencyKey: uuid.NewString()}
}

// ResumeOrder builds an attempt for an order reserved earlier, for example
// in a previous process. Checkout will not be called for it.
func ResumeOrder(orderID int64) *Attempt {
	return &Attempt{Order: &domain.CheckoutResult{OrderID: orderID, Status: string(domain.OrderPending)}}
}

// Stage returns the next step a needs.
func (a *Attempt) Stage() Stage {
	switch {
	case a.Order == nil:
		return StageReserve
	case a.Intent == nil:
		return StageIntent
	case !a.ProcessorConfirmed:
		return StageProcessor
	case a.Confirmation == nil:
		return StageConfirm
	default:
		return StageDone
	}
}

// Orchestrator runs checkout attempts. It keeps no state between calls.
type Orchestrator struct {
	api       API
	processor PaymentConfirmer
	log       *slog.Logger
	tracer    trace.Tracer
}

// Option configures the Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.log = l
	}
}

// WithTracerProvider sets the provider for saga spans. The global provider
// is used by default.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *Orchestrator) {
		o.tracer = tp.Tracer(tracerName)
	}
}

// New creates an Orchestrator.
func New(api API, processor PaymentConfirmer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		api:       api,
		processor: processor,
		log:       logger.Discard(),
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Checkout reserves the attempt's listing and records the pending order.
// It refuses an attempt that already holds an order, since reserving again
// would double-reserve.
func (o *Orchestrator) Checkout(ctx context.Context, a *Attempt) error {
	if a.Order != nil {
		return ErrAlreadyCheckedOut
	}
	if a.IdempotencyKey == "" {
		a.IdempotencyKey = uuid.NewString()
	}

	return o.step(ctx, "reserve", a, func(ctx context.Context) error {
		res, err := o.api.Checkout(ctx, a.ListingID, domain.CheckoutRequest{
			ShippingAddressID: a.ShippingAddressID,
		}, a.IdempotencyKey)
		if err != nil {
			return err
		}
		a.Order = res
		return nil
	})
}

// CreatePaymentIntent creates the processor intent for the attempt's
// order. Safe to call again after a failure; checkout is never repeated.
func (o *Orchestrator) CreatePaymentIntent(ctx context.Context, a *Attempt) error {
	if a.Order == nil {
		return ErrNoOrder
	}

	return o.step(ctx, "intent", a, func(ctx context.Context) error {
		pi, err := o.api.CreatePaymentIntent(ctx, domain.PaymentIntentRequest{
			OrderID:         a.Order.OrderID,
			PaymentMethodID: a.PaymentMethodID,
		})
		if err != nil {
			return err
		}
		a.Intent = pi
		a.ProcessorConfirmed = false
		return nil
	})
}

// ConfirmPayment has the processor confirm the intent, if it has not yet,
// and then reports it to the marketplace. A confirmation the marketplace
// does not mark successful returns ErrPaymentDeclined and may be retried.
func (o *Orchestrator) ConfirmPayment(ctx context.Context, a *Attempt) (*domain.PaymentConfirmation, error) {
	if a.Intent == nil {
		return nil, ErrNoPaymentIntent
	}

	if !a.ProcessorConfirmed {
		err := o.step(ctx, "processor", a, func(ctx context.Context) error {
			return o.processor.ConfirmIntent(ctx, a.Intent)
		})
		if err != nil {
			return nil, err
		}
		a.ProcessorConfirmed = true
	}

	err := o.step(ctx, "confirm", a, func(ctx context.Context) error {
		pc, err := o.api.ConfirmPayment(ctx, a.Intent.PaymentIntentID)
		if err != nil {
			return err
		}
		if !pc.Success {
			msg := pc.Message
			if msg == "" {
				msg = pc.Status
			}
			return fmt.Errorf("%w: %s", ErrPaymentDeclined, msg)
		}
		a.Confirmation = pc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a.Confirmation, nil
}

// Run drives a from its current stage to completion, strictly in order.
// After a failure, calling Run again with the same attempt resumes at the
// failed step.
func (o *Orchestrator) Run(ctx context.Context, a *Attempt) (*domain.PaymentConfirmation, error) {
	ctx, span := o.tracer.Start(ctx, "checkout.run", trace.WithAttributes(
		attribute.Int64("listing_id", a.ListingID),
		attribute.String("start_stage", a.Stage().String()),
	))
	defer span.End()

	if a.Stage() != StageReserve {
		metrics.CheckoutResumesTotal.Inc()
		o.log.Info("resuming checkout", logAttrs(a, "stage", a.Stage().String())...)
	}

	for {
		var err error
		switch a.Stage() {
		case StageReserve:
			err = o.Checkout(ctx, a)
		case StageIntent:
			err = o.CreatePaymentIntent(ctx, a)
		case StageProcessor, StageConfirm:
			_, err = o.ConfirmPayment(ctx, a)
		case StageDone:
			return a.Confirmation, nil
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "checkout stopped at "+a.Stage().String())
			return nil, err
		}
	}
}

// step runs one remote step inside a span with metrics and logging.
func (o *Orchestrator) step(ctx context.Context, name string, a *Attempt, fn func(context.Context) error) error {
	ctx, span := o.tracer.Start(ctx, "checkout."+name)
	defer span.End()

	err := fn(ctx)
	if err != nil {
		metrics.CheckoutStepsTotal.WithLabelValues(name, metrics.OutcomeError).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.log.Warn("checkout step failed", logAttrs(a, "step", name, "error", err)...)
		return err
	}

	metrics.CheckoutStepsTotal.WithLabelValues(name, metrics.OutcomeOK).Inc()
	span.SetAttributes(attribute.String("order_id", orderID(a)))
	o.log.Info("checkout step done", logAttrs(a, "step", name)...)
	return nil
}

func logAttrs(a *Attempt, extra ...any) []any {
	attrs := []any{"listing_id", a.ListingID, "order_id", orderID(a)}
	if a.Intent != nil {
		attrs = append(attrs, "payment_intent_id", a.Intent.PaymentIntentID)
	}
	return append(attrs, extra...)
}

func orderID(a *Attempt) string {
	if a.Order == nil {
		return ""
	}
	return fmt.Sprint(a.Order.OrderID)
}
