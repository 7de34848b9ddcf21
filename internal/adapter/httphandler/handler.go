package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response body", "err", err)
	}
}

type ProductsHandler struct {
	catalog port.CatalogProvider
}

func RegisterProducts(mux *http.ServeMux, catalog port.CatalogProvider) {
	h := ProductsHandler{catalog}
	mux.HandleFunc("GET /v1/products", h.GetProducts)
}

func (h ProductsHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	ps := h.catalog.Products()
	res := make([]Product, 0, len(ps))
	for _, p := range ps {
		res = append(res, toProduct(p))
	}
	writeJSON(w, http.StatusOK, res)
}

type CartHandler struct {
	reader  port.CartReader
	adder   port.CartAdder
	remover port.CartRemover
	handOff port.CartHandOff
}

func RegisterCart(
	mux *http.ServeMux,
	reader port.CartReader,
	adder port.CartAdder,
	remover port.CartRemover,
	handOff port.CartHandOff,
) {
	h := CartHandler{reader, adder, remover, handOff}
	mux.HandleFunc("GET /v1/cart", h.GetCart)
	mux.HandleFunc("POST /v1/cart/items", h.PostItem)
	mux.HandleFunc("DELETE /v1/cart/items/{id}", h.DeleteItem)
	mux.HandleFunc("POST /v1/cart/checkout", h.PostCheckout)
}

func (h CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.GetCart"
	log := slog.With("op", op)

	cart, err := h.reader.Cart(r.Context(), SessionID(r))
	if err != nil {
		http.Error(w, "failed to read cart", http.StatusInternalServerError)
		log.Error("failed to read cart", "err", err)
		return
	}
	writeJSON(w, http.StatusOK, toCartView(cart))
}

func (h CartHandler) PostItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PostItem"
	log := slog.With("op", op)

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	cart, err := h.adder.AddItem(r.Context(), SessionID(r), req.ProductID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			http.Error(w, "unknown product", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to add item", http.StatusInternalServerError)
		log.Error("failed to add item", "err", err)
		return
	}

	log.Info("item added", "productID", req.ProductID)
	writeJSON(w, http.StatusOK, toCartView(cart))
}

func (h CartHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.DeleteItem"
	log := slog.With("op", op)

	productID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	cart, err := h.remover.RemoveItem(r.Context(), SessionID(r), productID)
	if err != nil {
		http.Error(w, "failed to remove item", http.StatusInternalServerError)
		log.Error("failed to remove item", "err", err)
		return
	}

	writeJSON(w, http.StatusOK, toCartView(cart))
}

func (h CartHandler) PostCheckout(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PostCheckout"
	log := slog.With("op", op)

	route, err := h.handOff.HandOff(r.Context(), SessionID(r))
	if err != nil {
		http.Error(w, "failed to hand off cart", http.StatusInternalServerError)
		log.Error("failed to hand off cart", "err", err)
		return
	}

	writeJSON(w, http.StatusOK, HandOffResponse{Location: route})
}
