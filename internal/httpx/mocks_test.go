package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/example/storefront/internal/accounts"
	"github.com/example/storefront/internal/auth"
	"github.com/example/storefront/internal/cart"
	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/orders"
)

// MockAccountsStore implements AccountsStore for testing.
type MockAccountsStore struct {
	createUserID  string
	createErr     error
	createCalls   int
	profile       accounts.Profile
	profileErr    error
	updateProfile func(up accounts.ProfileUpdate) (accounts.Profile, error)
}

func (m *MockAccountsStore) CreateUser(_ context.Context, _ accounts.RegisterInput, _ string) (string, error) {
	m.createCalls++
	return m.createUserID, m.createErr
}

func (m *MockAccountsStore) GetProfile(_ context.Context, _ string) (accounts.Profile, error) {
	return m.profile, m.profileErr
}

func (m *MockAccountsStore) UpdateProfile(_ context.Context, _ string, up accounts.ProfileUpdate) (accounts.Profile, error) {
	if m.updateProfile != nil {
		return m.updateProfile(up)
	}
	return m.profile, m.profileErr
}

// MockCartStore implements CartStore for testing.
type MockCartStore struct {
	cart      cart.Cart
	addErr    error
	removeErr error
	lastQty   int
}

func (m *MockCartStore) Get(_ context.Context, _ string) (cart.Cart, error) {
	return m.cart, nil
}

func (m *MockCartStore) AddItem(_ context.Context, _, _ string, qty int) (cart.Cart, error) {
	m.lastQty = qty
	return m.cart, m.addErr
}

func (m *MockCartStore) RemoveItem(_ context.Context, _, _ string) (cart.Cart, error) {
	return m.cart, m.removeErr
}

// MockCheckoutStore implements CheckoutStore for testing.
type MockCheckoutStore struct {
	order orders.Order
	err   error
	calls int
}

func (m *MockCheckoutStore) Checkout(_ context.Context, _ string) (orders.Order, error) {
	m.calls++
	return m.order, m.err
}

// MockOrdersStore implements OrdersStore for testing.
type MockOrdersStore struct {
	orders     []orders.Order
	getErr     error
	statusFrom orders.Status
	statusErr  error
	lastFilter orders.ListFilter
}

func (m *MockOrdersStore) List(_ context.Context, _ string, f orders.ListFilter) ([]orders.Order, error) {
	m.lastFilter = f
	return m.orders, nil
}

func (m *MockOrdersStore) Get(_ context.Context, _, _ string) (orders.Order, error) {
	if m.getErr != nil {
		return orders.Order{}, m.getErr
	}
	if len(m.orders) == 0 {
		return orders.Order{}, orders.ErrNotFound
	}
	return m.orders[0], nil
}

func (m *MockOrdersStore) UpdateStatus(_ context.Context, _, _ string, _ orders.Status) (orders.Status, error) {
	return m.statusFrom, m.statusErr
}

// MockCatalogStore implements the parts of CatalogStore exercised in tests.
type MockCatalogStore struct {
	categories []catalog.Category
	products   []catalog.Product
	product    catalog.Product
	getErr     error
	createErr  error
	lastFilter catalog.ProductFilter
}

func (m *MockCatalogStore) ListCategories(_ context.Context) ([]catalog.Category, error) {
	return m.categories, nil
}
func (m *MockCatalogStore) GetCategory(_ context.Context, _ string) (catalog.Category, error) {
	if len(m.categories) == 0 {
		return catalog.Category{}, catalog.ErrNotFound
	}
	return m.categories[0], nil
}
func (m *MockCatalogStore) CreateCategory(_ context.Context, in catalog.CategoryInput) (catalog.Category, error) {
	if m.createErr != nil {
		return catalog.Category{}, m.createErr
	}
	return catalog.Category{ID: "c1", Name: in.Name, Slug: in.Slug}, nil
}
func (m *MockCatalogStore) UpdateCategory(_ context.Context, _, name string) (catalog.Category, error) {
	if len(m.categories) == 0 {
		return catalog.Category{}, catalog.ErrNotFound
	}
	c := m.categories[0]
	c.Name = name
	return c, nil
}
func (m *MockCatalogStore) DeleteCategory(_ context.Context, _ string) error { return m.getErr }
func (m *MockCatalogStore) ListProducts(_ context.Context, f catalog.ProductFilter) ([]catalog.Product, error) {
	m.lastFilter = f
	return m.products, nil
}
func (m *MockCatalogStore) GetProduct(_ context.Context, _ string) (catalog.Product, error) {
	return m.product, m.getErr
}
func (m *MockCatalogStore) CreateProduct(_ context.Context, _ catalog.ProductInput) (catalog.Product, error) {
	return m.product, m.createErr
}
func (m *MockCatalogStore) UpdateProduct(_ context.Context, _ string, _ catalog.ProductInput) (catalog.Product, error) {
	return m.product, m.getErr
}
func (m *MockCatalogStore) DeleteProduct(_ context.Context, _ string) error { return m.getErr }

// MockPublisher implements EventPublisher for testing.
type MockPublisher struct {
	messages []kafkago.Message
}

func (m *MockPublisher) Publish(key, value []byte, headers ...kafkago.Header) {
	m.messages = append(m.messages, kafkago.Message{Key: key, Value: value, Headers: headers})
}

func authedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	id := auth.Identity{UserID: "u1", Username: "alice", Scopes: []auth.Scope{
		auth.ScopeReadCart, auth.ScopeWriteCart, auth.ScopeReadOrders, auth.ScopeWriteOrders,
	}}
	return req.WithContext(auth.WithIdentity(req.Context(), id))
}
