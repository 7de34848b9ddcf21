package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.CheckoutLoader = (*CheckoutService)(nil)
var _ port.CheckoutSubmitter = (*CheckoutService)(nil)

// CheckoutService drives the checkout states
// Loading -> {EmptyCart|Ready} -> Submitting -> {Succeeded|Failed}.
// Failed permits resubmission, Succeeded is terminal. The payment
// strategy is fixed at construction and never re-evaluated per
// submission.
type CheckoutService struct {
	slot          port.CartSlot
	strategy      port.PaymentStrategy
	events        port.CheckoutEventsProducer
	redirectURL   string
	redirectAfter time.Duration
}

func NewCheckoutService(
	slot port.CartSlot,
	strategy port.PaymentStrategy,
	events port.CheckoutEventsProducer,
	redirectURL string,
	redirectAfter time.Duration,
) CheckoutService {
	return CheckoutService{
		slot:          slot,
		strategy:      strategy,
		events:        events,
		redirectURL:   redirectURL,
		redirectAfter: redirectAfter,
	}
}

// LoadCheckout rehydrates the cart from the slot. Absence or a parse
// failure yields the EmptyCart state, never an error.
func (s CheckoutService) LoadCheckout(
	ctx context.Context, sessionID string,
) domain.CheckoutState {
	const op = "CheckoutService.LoadCheckout"

	cart, err := loadCart(ctx, s.slot, sessionID)
	if err != nil {
		slog.With("op", op).Warn("failed to read slot", "err", err)
		return domain.CheckoutState{Status: domain.CheckoutEmptyCart}
	}
	if cart.Empty() {
		return domain.CheckoutState{Status: domain.CheckoutEmptyCart}
	}
	return domain.CheckoutState{Status: domain.CheckoutReady, Cart: cart}
}

// SubmitCheckout runs one Submitting transition. On success the slot is
// cleared before the result is returned, so the persisted cart is gone
// by the time the redirect is scheduled. On failure the cart and slot
// are left unchanged.
func (s CheckoutService) SubmitCheckout(
	ctx context.Context, sessionID string, info domain.CustomerInfo,
) (domain.CheckoutResult, error) {
	const op = "CheckoutService.SubmitCheckout"
	log := slog.With("op", op)

	if err := info.Validate(); err != nil {
		return domain.CheckoutResult{}, fmt.Errorf("%s: %w", op, err)
	}

	cart, err := loadCart(ctx, s.slot, sessionID)
	if err != nil {
		return domain.CheckoutResult{}, fmt.Errorf("%s: %w", op, err)
	}
	if cart.Empty() {
		return domain.CheckoutResult{}, fmt.Errorf("%s: %w", op, domain.ErrEmptyCart)
	}

	amount := cart.AmountCents()
	outcome := s.strategy.Submit(ctx, amount, info)

	switch outcome.Status {
	case domain.OutcomeSucceeded:
		if err := s.slot.Clear(ctx, sessionID); err != nil {
			return domain.CheckoutResult{}, fmt.Errorf("%s: %w", op, err)
		}
		s.emit(ctx, sessionID, domain.EventCheckoutSucceeded, amount)
		log.Info("payment succeeded",
			"amountCents", amount, "reference", outcome.Reference)
		return domain.CheckoutResult{
			Outcome:       outcome,
			RedirectURL:   s.redirectURL,
			RedirectAfter: s.redirectAfter,
		}, nil

	case domain.OutcomeFailed:
		s.emit(ctx, sessionID, domain.EventCheckoutFailed, amount)
		log.Warn("payment failed", "reason", outcome.Reason)
		return domain.CheckoutResult{Outcome: outcome}, nil

	default:
		log.Warn("payment pending", "amountCents", amount)
		return domain.CheckoutResult{Outcome: outcome}, nil
	}
}

func (s CheckoutService) emit(
	ctx context.Context,
	sessionID string,
	typ domain.CheckoutEventType,
	amountCents int64,
) {
	const op = "CheckoutService.emit"

	evt := domain.CheckoutEvent{
		SessionID:   sessionID,
		Type:        typ,
		AmountCents: amountCents,
		At:          time.Now(),
	}
	if err := s.events.ProduceEvent(ctx, evt); err != nil {
		slog.With("op", op).Warn("failed to produce event", "err", err)
	}
}
