package service

import (
	"context"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.PaymentStrategy = (*ProcessorStrategy)(nil)
var _ port.PaymentStrategy = (*SimulatedStrategy)(nil)

// ProcessorStrategy submits payments through the real processor: it
// asks the collaborator for a client secret tied to the amount, then
// confirms the charge and inspects the resulting status.
type ProcessorStrategy struct {
	intents   port.IntentCreator
	confirmer port.PaymentConfirmer
	currency  string
}

func NewProcessorStrategy(
	intents port.IntentCreator,
	confirmer port.PaymentConfirmer,
	currency string,
) ProcessorStrategy {
	return ProcessorStrategy{
		intents:   intents,
		confirmer: confirmer,
		currency:  currency,
	}
}

func (s ProcessorStrategy) Submit(
	ctx context.Context, amountCents int64, info domain.CustomerInfo,
) domain.PaymentOutcome {
	secret, err := s.intents.CreateIntent(ctx, amountCents, s.currency)
	if err != nil {
		// Collaborator error: no confirmation is attempted.
		return domain.FailureOutcome(err.Error())
	}

	conf, err := s.confirmer.ConfirmPayment(ctx, secret, info)
	if err != nil {
		return domain.FailureOutcome(err.Error())
	}

	if conf.Status == domain.ConfirmationSucceeded {
		return domain.SuccessOutcome(conf.Reference)
	}

	// Neither explicit success nor explicit error, e.g. additional
	// authentication required. Not distinguished further.
	return domain.PendingOutcome()
}

// SimulatedStrategy waits a fixed delay and unconditionally reports
// success. It lets the flow run without processor credentials.
type SimulatedStrategy struct {
	delay time.Duration
}

func NewSimulatedStrategy(delay time.Duration) SimulatedStrategy {
	return SimulatedStrategy{delay}
}

func (s SimulatedStrategy) Submit(
	ctx context.Context, amountCents int64, info domain.CustomerInfo,
) domain.PaymentOutcome {
	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return domain.FailureOutcome(ctx.Err().Error())
	case <-timer.C:
	}
	return domain.SuccessOutcome("")
}
