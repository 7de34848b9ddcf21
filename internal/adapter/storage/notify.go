package storage

import (
	"context"
	"sync"
)

// updateHub fans out best-effort slot change signals to in-process
// subscribers. A slow subscriber misses coalesced signals instead of
// blocking the writer.
type updateHub struct {
	mu   sync.Mutex
	subs map[string]map[chan struct{}]struct{}
}

func newUpdateHub() *updateHub {
	return &updateHub{subs: make(map[string]map[chan struct{}]struct{})}
}

func (h *updateHub) subscribe(
	ctx context.Context, sessionID string,
) <-chan struct{} {
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	if h.subs[sessionID] == nil {
		h.subs[sessionID] = make(map[chan struct{}]struct{})
	}
	h.subs[sessionID][ch] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs[sessionID], ch)
		if len(h.subs[sessionID]) == 0 {
			delete(h.subs, sessionID)
		}
		h.mu.Unlock()
		close(ch)
	}()

	return ch
}

func (h *updateHub) broadcast(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs[sessionID] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
