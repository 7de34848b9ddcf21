package domain

import "errors"

var (
	// ErrConfigUnavailable: processor configuration missing or not
	// retrievable. Recovered by selecting the simulated strategy,
	// never surfaced to the user.
	ErrConfigUnavailable = errors.New("processor config unavailable")

	// ErrMalformedCart: the slot payload cannot be parsed. Recovered
	// as an empty cart.
	ErrMalformedCart = errors.New("malformed cart payload")

	// ErrIntentCreation: the create-payment-intent collaborator
	// reported an error. Retryable.
	ErrIntentCreation = errors.New("intent creation failed")

	// ErrPaymentDeclined: the processor reported an error. The reason
	// is surfaced verbatim. Retryable.
	ErrPaymentDeclined = errors.New("payment declined")

	// ErrPaymentCapability: a required payment capability is absent,
	// e.g. the client secret is unusable. Retryable.
	ErrPaymentCapability = errors.New("payment capability missing")

	ErrCustomerInfoIncomplete = errors.New("customer info incomplete")
	ErrProductNotFound        = errors.New("product not found")
	ErrEmptyCart              = errors.New("cart is empty")
)
