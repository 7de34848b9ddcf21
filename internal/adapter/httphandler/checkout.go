package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

type CheckoutHandler struct {
	loader    port.CheckoutLoader
	submitter port.CheckoutSubmitter
}

func RegisterCheckout(
	mux *http.ServeMux,
	loader port.CheckoutLoader,
	submitter port.CheckoutSubmitter,
) {
	h := CheckoutHandler{loader, submitter}
	mux.HandleFunc("GET /v1/checkout", h.GetCheckout)
	mux.HandleFunc("POST /v1/checkout", h.PostCheckout)
}

func (h CheckoutHandler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	state := h.loader.LoadCheckout(r.Context(), SessionID(r))
	writeJSON(w, http.StatusOK, CheckoutView{
		Status: state.Status.String(),
		Cart:   toCartView(state.Cart),
	})
}

func (h CheckoutHandler) PostCheckout(w http.ResponseWriter, r *http.Request) {
	const op = "CheckoutHandler.PostCheckout"
	log := slog.With("op", op)

	var info CustomerInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	res, err := h.submitter.SubmitCheckout(
		r.Context(), SessionID(r), toCustomerInfo(info),
	)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCustomerInfoIncomplete):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, domain.ErrEmptyCart):
			http.Error(w, "cart is empty", http.StatusConflict)
		default:
			http.Error(w, "failed to submit checkout",
				http.StatusInternalServerError)
			log.Error("failed to submit checkout", "err", err)
		}
		return
	}

	// Failed and pending outcomes are form-level states, the transport
	// succeeded: the client renders the reason near the submit control.
	writeJSON(w, http.StatusOK, SubmitResponse{
		Status:          string(res.Outcome.Status),
		Reference:       res.Outcome.Reference,
		Error:           res.Outcome.Reason,
		RedirectURL:     res.RedirectURL,
		RedirectAfterMS: res.RedirectAfter.Milliseconds(),
	})
}

type PaymentsHandler struct {
	intents        port.IntentCreator
	publishableKey string
	currency       string
}

func RegisterPayments(
	mux *http.ServeMux,
	intents port.IntentCreator,
	publishableKey string,
	currency string,
) {
	h := PaymentsHandler{intents, publishableKey, currency}
	mux.HandleFunc("POST /api/create-payment-intent", h.PostCreateIntent)
	mux.HandleFunc("GET /api/stripe-config", h.GetConfig)
}

func (h PaymentsHandler) PostCreateIntent(
	w http.ResponseWriter, r *http.Request,
) {
	const op = "PaymentsHandler.PostCreateIntent"
	log := slog.With("op", op)

	var req CreateIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = h.currency
	}

	secret, err := h.intents.CreateIntent(r.Context(), req.Amount, currency)
	if err != nil {
		log.Error("failed to create intent", "err", err)
		writeJSON(w, http.StatusInternalServerError,
			ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, CreateIntentResponse{ClientSecret: secret})
}

// GetConfig is the processor-config probe. An empty body means no
// processor is configured and the client should expect the demo flow.
func (h PaymentsHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK,
		StripeConfigResponse{PublishableKey: h.publishableKey})
}

type AnalyticsHandler struct {
	activity port.SessionActivityReader
}

func RegisterAnalytics(
	mux *http.ServeMux, activity port.SessionActivityReader,
) {
	h := AnalyticsHandler{activity}
	mux.HandleFunc("GET /v1/analytics/sessions/{id}", h.GetSessionActivity)
}

func (h AnalyticsHandler) GetSessionActivity(
	w http.ResponseWriter, r *http.Request,
) {
	const op = "AnalyticsHandler.GetSessionActivity"
	log := slog.With("op", op)

	sessionID := r.PathValue("id")
	n, err := h.activity.SessionEvents(sessionID)
	if err != nil {
		http.Error(w, "failed to read session activity",
			http.StatusInternalServerError)
		log.Error("failed to read session activity", "err", err)
		return
	}

	writeJSON(w, http.StatusOK, SessionActivityResponse{
		SessionID: sessionID,
		Events:    n,
	})
}
