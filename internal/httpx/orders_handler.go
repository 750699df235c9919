package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/auth"
	kafkax "github.com/example/storefront/internal/kafka"
	"github.com/example/storefront/internal/orders"
	"github.com/example/storefront/internal/redisx"
)

type OrdersStore interface {
	List(ctx context.Context, userID string, f orders.ListFilter) ([]orders.Order, error)
	Get(ctx context.Context, userID, orderID string) (orders.Order, error)
	UpdateStatus(ctx context.Context, userID, orderID string, next orders.Status) (orders.Status, error)
}

type OrdersHandler struct {
	Store    OrdersStore
	Producer EventPublisher
	Redis    *redis.Client // nil-safe: status caching skipped if nil
	Service  string
	Log      *zap.Logger
}

func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	q := r.URL.Query()

	f := orders.ListFilter{Ordering: q.Get("ordering")}
	if s := q.Get("status"); s != "" {
		if !orders.ValidStatus(orders.Status(s)) {
			writeError(w, http.StatusBadRequest, "invalid status")
			return
		}
		f.Status = orders.Status(s)
	}
	if v := q.Get("created_since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "created_since must be RFC3339")
			return
		}
		f.CreatedSince = t
	}

	out, err := h.Store.List(r.Context(), id.UserID, f)
	if err != nil {
		h.Log.Error("list orders", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "orders unavailable")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	o, err := h.Store.Get(r.Context(), id.UserID, chi.URLParam(r, "id"))
	if errors.Is(err, orders.ErrNotFound) {
		// covers both missing and not-owned; never disclose which
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		h.Log.Error("get order", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "orders unavailable")
		return
	}
	writeJSON(w, http.StatusOK, o)
}

type updateStatusReq struct {
	Status orders.Status `json:"status"`
}

func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	orderID := chi.URLParam(r, "id")

	var req updateStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if !orders.ValidStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	from, err := h.Store.UpdateStatus(ctx, id.UserID, orderID, req.Status)
	if errors.Is(err, orders.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if errors.Is(err, orders.ErrInvalidTransition) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.Log.Error("update order status", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "status update failed")
		return
	}

	if h.Redis != nil {
		key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
		_ = h.Redis.Set(ctx, key, fmt.Sprintf(`{"status":%q}`, req.Status), redisx.TTLStatusCache).Err()
	}

	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderStatusChanged,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: orderID,
		Payload: kafkax.MustMarshal(orders.OrderStatusChangedPayload{
			OrderID: orderID,
			From:    from,
			To:      req.Status,
		}),
	}
	h.Producer.Publish(orders.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderStatusChanged)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)

	writeJSON(w, http.StatusOK, map[string]any{"order_id": orderID, "from": from, "to": req.Status})
}
