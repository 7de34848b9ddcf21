package httphandler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/niksmo/storefront/internal/core/port"
)

type UpdatesHandler struct {
	watcher port.CartWatcher
}

// RegisterCartUpdates exposes the best-effort slot change signal as a
// server-sent event stream. Tabs of the same session subscribe to keep
// their cart badge fresh across writers.
func RegisterCartUpdates(mux *http.ServeMux, watcher port.CartWatcher) {
	h := UpdatesHandler{watcher}
	mux.HandleFunc("GET /v1/cart/updates", h.GetUpdates)
}

func (h UpdatesHandler) GetUpdates(w http.ResponseWriter, r *http.Request) {
	const op = "UpdatesHandler.GetUpdates"
	log := slog.With("op", op)

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	updates := h.watcher.CartUpdates(r.Context(), SessionID(r))

	fmt.Fprint(w, ": subscribed\n\n")
	flusher.Flush()

	for range updates {
		if _, err := fmt.Fprint(w, "event: cart\ndata: updated\n\n"); err != nil {
			log.Warn("subscriber gone", "err", err)
			return
		}
		flusher.Flush()
	}
}
