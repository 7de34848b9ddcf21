package port

import (
	"context"

	"github.com/niksmo/storefront/internal/core/domain"
)

// CartSlot is the persistent per-session slot holding the serialized
// cart under the fixed "cart" key. It is the sole cross-page source of
// truth: every page load rehydrates from it, and it is cleared only on
// confirmed payment success. Updates is a best-effort change signal;
// the returned channel closes when ctx is done.
type CartSlot interface {
	Load(ctx context.Context, sessionID string) (payload []byte, ok bool, err error)
	Store(ctx context.Context, sessionID string, payload []byte) error
	Clear(ctx context.Context, sessionID string) error
	Updates(ctx context.Context, sessionID string) <-chan struct{}
}

// PaymentStrategy is the common submit contract of the processor-backed
// and simulated payment paths. Transport and processor failures resolve
// into the outcome, never an error.
type PaymentStrategy interface {
	Submit(ctx context.Context, amountCents int64, info domain.CustomerInfo) domain.PaymentOutcome
}

// IntentCreator is the server collaborator minting a client secret for
// an amount in minor currency units.
type IntentCreator interface {
	CreateIntent(ctx context.Context, amountCents int64, currency string) (clientSecret string, err error)
}

// PaymentConfirmer is the opaque processor capability: confirm a card
// payment given a client secret and billing details.
type PaymentConfirmer interface {
	ConfirmPayment(ctx context.Context, clientSecret string, info domain.CustomerInfo) (domain.Confirmation, error)
}

type CheckoutEventsProducer interface {
	ProduceEvent(context.Context, domain.CheckoutEvent) error
}

// SessionActivityReader serves the folded per-session event count.
type SessionActivityReader interface {
	SessionEvents(sessionID string) (int64, error)
}

type CatalogProvider interface {
	Products() []domain.Product
}

type CartReader interface {
	Cart(ctx context.Context, sessionID string) (domain.Cart, error)
}

type CartAdder interface {
	AddItem(ctx context.Context, sessionID string, productID int) (domain.Cart, error)
}

type CartRemover interface {
	RemoveItem(ctx context.Context, sessionID string, productID int) (domain.Cart, error)
}

// CartHandOff persists the cart verbatim and yields the checkout route.
// This is the only path by which checkout learns the cart contents.
type CartHandOff interface {
	HandOff(ctx context.Context, sessionID string) (route string, err error)
}

type CartWatcher interface {
	CartUpdates(ctx context.Context, sessionID string) <-chan struct{}
}

type CheckoutLoader interface {
	LoadCheckout(ctx context.Context, sessionID string) domain.CheckoutState
}

type CheckoutSubmitter interface {
	SubmitCheckout(ctx context.Context, sessionID string, info domain.CustomerInfo) (domain.CheckoutResult, error)
}
