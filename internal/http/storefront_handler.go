package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Carola178/storefront-service-go/internal/cart"
	"github.com/Carola178/storefront-service-go/internal/catalog"
	"github.com/Carola178/storefront-service-go/internal/events"
	"github.com/Carola178/storefront-service-go/internal/order"
)

// OrderPlacedPublisher is what the checkout flow needs from the events layer.
type OrderPlacedPublisher interface {
	PublishOrderPlaced(ctx context.Context, o *order.Order, meta events.EnvelopeMetadata) error
}

type Handler struct {
	catalog   *catalog.Store
	ledger    *cart.Ledger
	builder   *order.Builder
	orders    order.Repository
	publisher OrderPlacedPublisher
	logger    *log.Logger
}

func NewHandler(
	catalogStore *catalog.Store,
	ledger *cart.Ledger,
	builder *order.Builder,
	orders order.Repository,
	publisher OrderPlacedPublisher,
	logger *log.Logger,
) *Handler {
	return &Handler{
		catalog:   catalogStore,
		ledger:    ledger,
		builder:   builder,
		orders:    orders,
		publisher: publisher,
		logger:    logger,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "storefront-service",
	})
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	products := h.catalog.Search(q)
	if products == nil {
		products = []catalog.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "productId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid productId")
		return
	}

	p, ok := h.catalog.FindByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ledger.Snapshot())
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ProductID int    `json:"productId"`
		Size      string `json:"size"`
		Qty       int    `json:"qty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.ledger.Add(ctx, body.ProductID, body.Size, body.Qty); err != nil {
		writeCartError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, h.ledger.Snapshot())
}

func (h *Handler) ChangeQuantity(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ProductID int    `json:"productId"`
		Size      string `json:"size"`
		Delta     int    `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.ledger.ChangeQuantity(ctx, body.ProductID, body.Size, body.Delta); err != nil {
		writeCartError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.ledger.Snapshot())
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "productId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid productId")
		return
	}
	size := chi.URLParam(r, "size")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	h.ledger.Remove(ctx, id, size)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	h.ledger.Clear(ctx)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Address string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	buyer := order.Buyer{Name: body.Name, Email: body.Email, Address: body.Address}
	o, err := h.builder.Checkout(ctx, buyer)
	if err != nil {
		if errors.Is(err, order.ErrEmptyCart) {
			writeError(w, http.StatusConflict, "cart is empty")
			return
		}
		writeError(w, http.StatusInternalServerError, "checkout failed")
		return
	}

	// The order stands once built: stock is already decremented, so failures
	// past this point are logged rather than rolled back.
	if err := h.orders.Create(ctx, o); err != nil {
		h.logger.Printf("record order %s: %v", o.ID, err)
	}

	if err := h.publisher.PublishOrderPlaced(ctx, o, events.EnvelopeMetadata{}); err != nil {
		h.logger.Printf("publish OrderPlaced for %s: %v", o.ID, err)
	}

	h.ledger.Clear(ctx)

	writeJSON(w, http.StatusCreated, o)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	orders, err := h.orders.ListRecent(ctx, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}

	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "missing orderId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.orders.GetByID(ctx, orderID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load order")
		return
	}
	if o == nil {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}

	writeJSON(w, http.StatusOK, o)
}

func writeCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrInvalidSize):
		writeError(w, http.StatusBadRequest, "size is required")
	case errors.Is(err, cart.ErrProductNotFound):
		writeError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, cart.ErrInsufficientStock):
		writeError(w, http.StatusConflict, "insufficient stock")
	default:
		writeError(w, http.StatusInternalServerError, "cart operation failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
