package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ port.CartSlot = (*slotStub)(nil)

// slotStub keeps slot payloads in a map and records the Store and Clear
// call counts. Error fields, when set, are returned on the matching
// operation.
type slotStub struct {
	mu       sync.Mutex
	data     map[string][]byte
	loadErr  error
	storeErr error
	clearErr error
	stores   int
	clears   int
}

func newSlotStub() *slotStub {
	return &slotStub{data: make(map[string][]byte)}
}

func (s *slotStub) Load(
	_ context.Context, sessionID string,
) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, false, s.loadErr
	}
	payload, ok := s.data[sessionID]
	return payload, ok, nil
}

func (s *slotStub) Store(
	_ context.Context, sessionID string, payload []byte,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.storeErr != nil {
		return s.storeErr
	}
	s.stores++
	s.data[sessionID] = payload
	return nil
}

func (s *slotStub) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clearErr != nil {
		return s.clearErr
	}
	s.clears++
	delete(s.data, sessionID)
	return nil
}

func (s *slotStub) Updates(
	ctx context.Context, _ string,
) <-chan struct{} {
	ch := make(chan struct{})
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch
}

var _ port.CheckoutEventsProducer = (*eventsRecorder)(nil)

type eventsRecorder struct {
	mu     sync.Mutex
	events []domain.CheckoutEvent
	err    error
}

func (r *eventsRecorder) ProduceEvent(
	_ context.Context, evt domain.CheckoutEvent,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, evt)
	return nil
}

func (r *eventsRecorder) recorded() []domain.CheckoutEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events
}

const testSessionID = "a3f1c2e4-0000-0000-0000-000000000000"

func TestCartServiceAddItem(t *testing.T) {
	catalog := domain.Catalog()

	t.Run("PersistsBeforeReturning", func(t *testing.T) {
		slot := newSlotStub()
		events := new(eventsRecorder)
		s := service.NewCartService(catalog, slot, events)

		cart, err := s.AddItem(t.Context(), testSessionID, catalog[0].ID)
		require.NoError(t, err)
		require.Len(t, cart.Lines(), 1)
		assert.Equal(t, 1, slot.stores)

		// A fresh read goes back through the slot and must observe
		// the same cart.
		got, err := s.Cart(t.Context(), testSessionID)
		require.NoError(t, err)
		assert.Equal(t, cart.Lines(), got.Lines())
	})

	t.Run("SameProductIncrements", func(t *testing.T) {
		slot := newSlotStub()
		events := new(eventsRecorder)
		s := service.NewCartService(catalog, slot, events)

		_, err := s.AddItem(t.Context(), testSessionID, catalog[0].ID)
		require.NoError(t, err)
		cart, err := s.AddItem(t.Context(), testSessionID, catalog[0].ID)
		require.NoError(t, err)

		require.Len(t, cart.Lines(), 1)
		assert.Equal(t, 2, cart.Lines()[0].Quantity)
	})

	t.Run("UnknownProduct", func(t *testing.T) {
		slot := newSlotStub()
		events := new(eventsRecorder)
		s := service.NewCartService(catalog, slot, events)

		_, err := s.AddItem(t.Context(), testSessionID, 9000)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
		assert.Zero(t, slot.stores)
	})

	t.Run("EmitsEvent", func(t *testing.T) {
		slot := newSlotStub()
		events := new(eventsRecorder)
		s := service.NewCartService(catalog, slot, events)

		_, err := s.AddItem(t.Context(), testSessionID, catalog[0].ID)
		require.NoError(t, err)

		evts := events.recorded()
		require.Len(t, evts, 1)
		assert.Equal(t, domain.EventCartAdd, evts[0].Type)
		assert.Equal(t, catalog[0].ID, evts[0].ProductID)
		assert.Equal(t, testSessionID, evts[0].SessionID)
	})

	t.Run("ProducerFailureIsNotFatal", func(t *testing.T) {
		slot := newSlotStub()
		events := &eventsRecorder{err: context.DeadlineExceeded}
		s := service.NewCartService(catalog, slot, events)

		cart, err := s.AddItem(t.Context(), testSessionID, catalog[0].ID)
		require.NoError(t, err)
		assert.Len(t, cart.Lines(), 1)
	})
}

func TestCartServiceRemoveItem(t *testing.T) {
	catalog := domain.Catalog()

	t.Run("RemovesLine", func(t *testing.T) {
		slot := newSlotStub()
		events := new(eventsRecorder)
		s := service.NewCartService(catalog, slot, events)

		_, err := s.AddItem(t.Context(), testSessionID, catalog[0].ID)
		require.NoError(t, err)

		cart, err := s.RemoveItem(t.Context(), testSessionID, catalog[0].ID)
		require.NoError(t, err)
		assert.True(t, cart.Empty())

		got, err := s.Cart(t.Context(), testSessionID)
		require.NoError(t, err)
		assert.True(t, got.Empty())
	})

	t.Run("AbsentIDIsNoop", func(t *testing.T) {
		slot := newSlotStub()
		events := new(eventsRecorder)
		s := service.NewCartService(catalog, slot, events)

		_, err := s.AddItem(t.Context(), testSessionID, catalog[0].ID)
		require.NoError(t, err)

		cart, err := s.RemoveItem(t.Context(), testSessionID, 9000)
		require.NoError(t, err)
		require.Len(t, cart.Lines(), 1)
	})
}

func TestCartServiceCart(t *testing.T) {
	catalog := domain.Catalog()

	t.Run("AbsentSlotIsEmptyCart", func(t *testing.T) {
		slot := newSlotStub()
		s := service.NewCartService(catalog, slot, new(eventsRecorder))

		cart, err := s.Cart(t.Context(), testSessionID)
		require.NoError(t, err)
		assert.True(t, cart.Empty())
	})

	t.Run("MalformedPayloadIsEmptyCart", func(t *testing.T) {
		slot := newSlotStub()
		slot.data[testSessionID] = []byte(`{corrupt`)
		s := service.NewCartService(catalog, slot, new(eventsRecorder))

		cart, err := s.Cart(t.Context(), testSessionID)
		require.NoError(t, err)
		assert.True(t, cart.Empty())
	})
}

func TestCartServiceHandOff(t *testing.T) {
	catalog := domain.Catalog()

	t.Run("ReturnsCheckoutRoute", func(t *testing.T) {
		slot := newSlotStub()
		s := service.NewCartService(catalog, slot, new(eventsRecorder))

		_, err := s.AddItem(t.Context(), testSessionID, catalog[0].ID)
		require.NoError(t, err)

		loc, err := s.HandOff(t.Context(), testSessionID)
		require.NoError(t, err)
		assert.Equal(t, "/checkout", loc)
		assert.Equal(t, 2, slot.stores)
	})

	t.Run("ReserializesMalformedPayload", func(t *testing.T) {
		slot := newSlotStub()
		slot.data[testSessionID] = []byte(`not json at all`)
		s := service.NewCartService(catalog, slot, new(eventsRecorder))

		_, err := s.HandOff(t.Context(), testSessionID)
		require.NoError(t, err)
		assert.JSONEq(t, `[]`, string(slot.data[testSessionID]))
	})
}
