package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.CatalogProvider = (*CartService)(nil)
var _ port.CartReader = (*CartService)(nil)
var _ port.CartAdder = (*CartService)(nil)
var _ port.CartRemover = (*CartService)(nil)
var _ port.CartHandOff = (*CartService)(nil)
var _ port.CartWatcher = (*CartService)(nil)

const checkoutRoute = "/checkout"

// CartService owns the cart operations. Every mutation writes the slot
// before returning, so a sibling read issued after a mutation never
// observes a stale count.
type CartService struct {
	catalog map[int]domain.Product
	ordered []domain.Product
	slot    port.CartSlot
	events  port.CheckoutEventsProducer
}

func NewCartService(
	catalog []domain.Product,
	slot port.CartSlot,
	events port.CheckoutEventsProducer,
) CartService {
	byID := make(map[int]domain.Product, len(catalog))
	for _, p := range catalog {
		byID[p.ID] = p
	}
	return CartService{
		catalog: byID,
		ordered: catalog,
		slot:    slot,
		events:  events,
	}
}

func (s CartService) Products() []domain.Product {
	return s.ordered
}

func (s CartService) Cart(
	ctx context.Context, sessionID string,
) (domain.Cart, error) {
	const op = "CartService.Cart"

	if err := ctx.Err(); err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}
	cart, err := loadCart(ctx, s.slot, sessionID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}
	return cart, nil
}

func (s CartService) AddItem(
	ctx context.Context, sessionID string, productID int,
) (domain.Cart, error) {
	const op = "CartService.AddItem"

	if err := ctx.Err(); err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	p, ok := s.catalog[productID]
	if !ok {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, domain.ErrProductNotFound)
	}

	cart, err := loadCart(ctx, s.slot, sessionID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	cart.Add(p)

	if err := storeCart(ctx, s.slot, sessionID, cart); err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	s.emit(ctx, domain.CheckoutEvent{
		SessionID: sessionID,
		Type:      domain.EventCartAdd,
		ProductID: productID,
		At:        time.Now(),
	})

	return cart, nil
}

func (s CartService) RemoveItem(
	ctx context.Context, sessionID string, productID int,
) (domain.Cart, error) {
	const op = "CartService.RemoveItem"

	if err := ctx.Err(); err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	cart, err := loadCart(ctx, s.slot, sessionID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	cart.Remove(productID)

	if err := storeCart(ctx, s.slot, sessionID, cart); err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	s.emit(ctx, domain.CheckoutEvent{
		SessionID: sessionID,
		Type:      domain.EventCartRemove,
		ProductID: productID,
		At:        time.Now(),
	})

	return cart, nil
}

// HandOff re-serializes the current cart to the slot verbatim and
// returns the checkout route.
func (s CartService) HandOff(
	ctx context.Context, sessionID string,
) (string, error) {
	const op = "CartService.HandOff"

	cart, err := loadCart(ctx, s.slot, sessionID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := storeCart(ctx, s.slot, sessionID, cart); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return checkoutRoute, nil
}

func (s CartService) CartUpdates(
	ctx context.Context, sessionID string,
) <-chan struct{} {
	return s.slot.Updates(ctx, sessionID)
}

// Event emission is best-effort telemetry, a broker failure never
// fails the cart operation.
func (s CartService) emit(ctx context.Context, evt domain.CheckoutEvent) {
	const op = "CartService.emit"

	if err := s.events.ProduceEvent(ctx, evt); err != nil {
		slog.With("op", op).Warn("failed to produce event", "err", err)
	}
}

// loadCart rehydrates the cart from the slot. An absent slot is an
// empty cart. An unparsable payload is recovered as an empty cart,
// never raised past this boundary.
func loadCart(
	ctx context.Context, slot port.CartSlot, sessionID string,
) (domain.Cart, error) {
	const op = "loadCart"

	payload, ok, err := slot.Load(ctx, sessionID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return domain.Cart{}, nil
	}

	var cart domain.Cart
	if err := json.Unmarshal(payload, &cart); err != nil {
		slog.With("op", op).Warn(
			"recovering as empty cart",
			"err", fmt.Errorf("%w: %w", domain.ErrMalformedCart, err),
		)
		return domain.Cart{}, nil
	}
	return cart, nil
}

func storeCart(
	ctx context.Context, slot port.CartSlot, sessionID string, cart domain.Cart,
) error {
	const op = "storeCart"

	payload, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := slot.Store(ctx, sessionID, payload); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
