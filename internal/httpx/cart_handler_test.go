package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/cart"
	"github.com/example/storefront/internal/orders"
)

func newCartHandler(store *MockCartStore, co *MockCheckoutStore) (*CartHandler, *MockPublisher) {
	pub := &MockPublisher{}
	return &CartHandler{
		Store:    store,
		Checkout: co,
		Producer: pub,
		Service:  "test-api",
		Log:      zap.NewNop(),
	}, pub
}

func TestGetCart(t *testing.T) {
	store := &MockCartStore{cart: cart.Cart{
		UserID: "u1",
		Items: []cart.Item{
			{ID: "i1", ProductID: "p1", Qty: 3, PriceCents: 500, SubtotalCents: 1500},
		},
		TotalCents: 1500,
	}}
	h, _ := newCartHandler(store, &MockCheckoutStore{})

	rec := httptest.NewRecorder()
	h.getCart(rec, authedRequest("GET", "/cart/", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	var c cart.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	assert.Equal(t, 1500, c.TotalCents)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 1500, c.Items[0].SubtotalCents)
}

func TestAddItem_DefaultsQtyToOne(t *testing.T) {
	store := &MockCartStore{}
	h, _ := newCartHandler(store, &MockCheckoutStore{})

	rec := httptest.NewRecorder()
	h.addItem(rec, authedRequest("POST", "/cart/add", `{"product_id":"p1"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, store.lastQty)
}

func TestAddItem_InvalidProduct(t *testing.T) {
	store := &MockCartStore{addErr: cart.ErrProductNotFound}
	h, _ := newCartHandler(store, &MockCheckoutStore{})

	rec := httptest.NewRecorder()
	h.addItem(rec, authedRequest("POST", "/cart/add", `{"product_id":"nope","qty":2}`))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid product_id")
}

func TestAddItem_NegativeQty(t *testing.T) {
	h, _ := newCartHandler(&MockCartStore{}, &MockCheckoutStore{})

	rec := httptest.NewRecorder()
	h.addItem(rec, authedRequest("POST", "/cart/add", `{"product_id":"p1","qty":-2}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRemoveItem_Invalid(t *testing.T) {
	store := &MockCartStore{removeErr: cart.ErrItemNotFound}
	h, _ := newCartHandler(store, &MockCheckoutStore{})

	rec := httptest.NewRecorder()
	h.removeItem(rec, authedRequest("POST", "/cart/remove", `{"item_id":"nope"}`))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid item_id")
}

func TestCheckout_Success(t *testing.T) {
	co := &MockCheckoutStore{order: orders.Order{
		ID:         "o1",
		CustomerID: "u1",
		Status:     orders.StatusPending,
		TotalCents: 1500,
		Items: []orders.Item{
			{ID: "oi1", ProductID: "p1", Qty: 3, PriceCents: 500, SubtotalCents: 1500},
		},
	}}
	h, pub := newCartHandler(&MockCartStore{}, co)

	rec := httptest.NewRecorder()
	h.checkout(rec, authedRequest("POST", "/cart/checkout", ""))

	require.Equal(t, http.StatusCreated, rec.Code)
	var o orders.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &o))
	assert.Equal(t, 1500, o.TotalCents)
	assert.Equal(t, orders.StatusPending, o.Status)

	require.Len(t, pub.messages, 1)
	var env orders.Envelope
	require.NoError(t, json.Unmarshal(pub.messages[0].Value, &env))
	assert.Equal(t, orders.EventOrderCreated, env.EventType)
	assert.Equal(t, "o1", env.CorrelationID)
	assert.Equal(t, []byte("o1"), pub.messages[0].Key)

	var p orders.OrderCreatedPayload
	require.NoError(t, json.Unmarshal(env.Payload, &p))
	assert.Equal(t, 1500, p.TotalCents)
	require.Len(t, p.Items, 1)
	assert.Equal(t, 500, p.Items[0].PriceCents)
}

func TestCheckout_EmptyCart(t *testing.T) {
	co := &MockCheckoutStore{err: orders.ErrEmptyCart}
	h, pub := newCartHandler(&MockCartStore{}, co)

	rec := httptest.NewRecorder()
	h.checkout(rec, authedRequest("POST", "/cart/checkout", ""))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Cart is empty", resp["error"])
	assert.Empty(t, pub.messages, "failed checkout must publish nothing")
}

func TestCheckout_InsufficientStock(t *testing.T) {
	co := &MockCheckoutStore{err: &orders.InsufficientStockError{Details: []orders.StockShortage{
		{ProductID: "p1", Required: 5, Available: 2},
	}}}
	h, pub := newCartHandler(&MockCartStore{}, co)

	rec := httptest.NewRecorder()
	h.checkout(rec, authedRequest("POST", "/cart/checkout", ""))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp struct {
		Error   string                 `json:"error"`
		Details []orders.StockShortage `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Insufficient stock", resp.Error)
	require.Len(t, resp.Details, 1)
	assert.Equal(t, 5, resp.Details[0].Required)
	assert.Equal(t, 2, resp.Details[0].Available)
	assert.Empty(t, pub.messages)
}
