package domain

import (
	"fmt"
	"time"
)

// CustomerInfo is transient form state collected at checkout. It is
// never persisted.
type CustomerInfo struct {
	FirstName string
	LastName  string
	Email     string
	Address   string
	City      string
	ZipCode   string
	Country   string
}

// Validate reports the first missing field. All fields are required
// for submission.
func (i CustomerInfo) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"firstName", i.FirstName},
		{"lastName", i.LastName},
		{"email", i.Email},
		{"address", i.Address},
		{"city", i.City},
		{"zipCode", i.ZipCode},
		{"country", i.Country},
	}
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("%w: %s", ErrCustomerInfoIncomplete, f.name)
		}
	}
	return nil
}

func (i CustomerInfo) FullName() string {
	return i.FirstName + " " + i.LastName
}

type CheckoutStatus string

const (
	CheckoutEmptyCart  CheckoutStatus = "EMPTY_CART"
	CheckoutReady      CheckoutStatus = "READY"
	CheckoutSubmitting CheckoutStatus = "SUBMITTING"
	CheckoutSucceeded  CheckoutStatus = "SUCCEEDED"
	CheckoutFailed     CheckoutStatus = "FAILED"
)

// IsTerminal reports whether no further submission is possible.
// Failed is not terminal: the user may retry.
func (s CheckoutStatus) IsTerminal() bool {
	return s == CheckoutSucceeded
}

func (s CheckoutStatus) String() string {
	return string(s)
}

// CheckoutState is what the checkout entry point observes after
// rehydrating the cart from the slot.
type CheckoutState struct {
	Status CheckoutStatus
	Cart   Cart
}

type OutcomeStatus string

const (
	OutcomeSucceeded OutcomeStatus = "SUCCEEDED"
	OutcomeFailed    OutcomeStatus = "FAILED"
	OutcomePending   OutcomeStatus = "PENDING"
)

// PaymentOutcome is the tagged result of a payment submission.
type PaymentOutcome struct {
	Status    OutcomeStatus
	Reference string // processor reference, set on success when known
	Reason    string // failure reason, surfaced verbatim
}

func SuccessOutcome(reference string) PaymentOutcome {
	return PaymentOutcome{Status: OutcomeSucceeded, Reference: reference}
}

func FailureOutcome(reason string) PaymentOutcome {
	return PaymentOutcome{Status: OutcomeFailed, Reason: reason}
}

func PendingOutcome() PaymentOutcome {
	return PaymentOutcome{Status: OutcomePending}
}

// Confirmation is the processor's report for a confirmed payment.
// Statuses other than ConfirmationSucceeded are not distinguished.
type Confirmation struct {
	Status    string
	Reference string
}

const ConfirmationSucceeded = "succeeded"

// CheckoutResult carries the outcome plus the redirect the client
// should schedule after a success.
type CheckoutResult struct {
	Outcome       PaymentOutcome
	RedirectURL   string
	RedirectAfter time.Duration
}

type CheckoutEventType string

const (
	EventCartAdd           CheckoutEventType = "cart_add"
	EventCartRemove        CheckoutEventType = "cart_remove"
	EventCheckoutSucceeded CheckoutEventType = "checkout_succeeded"
	EventCheckoutFailed    CheckoutEventType = "checkout_failed"
)

// A CheckoutEvent is emitted for session activity analytics.
type CheckoutEvent struct {
	SessionID   string
	Type        CheckoutEventType
	ProductID   int
	AmountCents int64
	At          time.Time
}
