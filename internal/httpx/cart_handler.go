package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/auth"
	"github.com/example/storefront/internal/cart"
	kafkax "github.com/example/storefront/internal/kafka"
	"github.com/example/storefront/internal/orders"
	"github.com/example/storefront/internal/redisx"
)

type CartStore interface {
	Get(ctx context.Context, userID string) (cart.Cart, error)
	AddItem(ctx context.Context, userID, productID string, qty int) (cart.Cart, error)
	RemoveItem(ctx context.Context, userID, itemID string) (cart.Cart, error)
}

type CheckoutStore interface {
	Checkout(ctx context.Context, userID string) (orders.Order, error)
}

// EventPublisher is satisfied by *kafka.Producer.
type EventPublisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type CartHandler struct {
	Store    CartStore
	Checkout CheckoutStore
	Producer EventPublisher
	Redis    *redis.Client // nil-safe: status caching skipped if nil
	Service  string
	Log      *zap.Logger
}

type addItemReq struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

type removeItemReq struct {
	ItemID string `json:"item_id"`
}

func (h *CartHandler) getCart(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	c, err := h.Store.Get(r.Context(), id.UserID)
	if err != nil {
		h.Log.Error("get cart", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "cart unavailable")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	var req addItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Qty == 0 {
		req.Qty = 1
	}
	if req.ProductID == "" || req.Qty < 1 {
		writeError(w, http.StatusBadRequest, "product_id and positive qty required")
		return
	}

	c, err := h.Store.AddItem(r.Context(), id.UserID, req.ProductID, req.Qty)
	if errors.Is(err, cart.ErrProductNotFound) {
		writeError(w, http.StatusBadRequest, "Invalid product_id")
		return
	}
	if err != nil {
		h.Log.Error("add cart item", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "cart update failed")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	var req removeItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ItemID == "" {
		writeError(w, http.StatusBadRequest, "item_id required")
		return
	}

	c, err := h.Store.RemoveItem(r.Context(), id.UserID, req.ItemID)
	if errors.Is(err, cart.ErrItemNotFound) {
		writeError(w, http.StatusBadRequest, "Invalid item_id")
		return
	}
	if err != nil {
		h.Log.Error("remove cart item", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "cart update failed")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CartHandler) checkout(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Checkout.Checkout(ctx, id.UserID)
	if errors.Is(err, orders.ErrEmptyCart) {
		writeError(w, http.StatusBadRequest, "Cart is empty")
		return
	}
	var stockErr *orders.InsufficientStockError
	if errors.As(err, &stockErr) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "Insufficient stock",
			"details": stockErr.Details,
		})
		return
	}
	if err != nil {
		h.Log.Error("checkout", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "checkout failed")
		return
	}

	if h.Redis != nil {
		key := fmt.Sprintf(redisx.KeyOrderStatus, o.ID)
		_ = h.Redis.Set(ctx, key, fmt.Sprintf(`{"status":%q}`, o.Status), redisx.TTLStatusCache).Err()
	}

	items := make([]orders.ItemPrice, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orders.ItemPrice{ProductID: it.ProductID, Qty: it.Qty, PriceCents: it.PriceCents})
	}
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderCreated,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: o.ID,
		Payload: kafkax.MustMarshal(orders.OrderCreatedPayload{
			OrderID:    o.ID,
			UserID:     id.UserID,
			Items:      items,
			TotalCents: o.TotalCents,
		}),
	}
	h.Producer.Publish(orders.PartitionKey(o.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderCreated)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)

	writeJSON(w, http.StatusCreated, o)
}
