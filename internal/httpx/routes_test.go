package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/auth"
)

type staticTokenStore struct {
	tokens map[string]auth.Identity
}

func (s *staticTokenStore) Introspect(_ context.Context, token string) (auth.Identity, error) {
	id, ok := s.tokens[token]
	if !ok {
		return auth.Identity{}, auth.ErrTokenUnknown
	}
	return id, nil
}

func newTestAPI() *apiTester {
	store := &staticTokenStore{tokens: map[string]auth.Identity{
		"cart-reader": {UserID: "u1", Scopes: []auth.Scope{auth.ScopeReadCart}},
		"no-scopes":   {UserID: "u2", Scopes: nil},
	}}
	api := &API{
		Accounts: &AccountsHandler{Store: &MockAccountsStore{createUserID: "u9"}, Log: zap.NewNop()},
		Catalog:  &CatalogHandler{Store: &MockCatalogStore{}, Log: zap.NewNop()},
		Cart: &CartHandler{
			Store: &MockCartStore{}, Checkout: &MockCheckoutStore{},
			Producer: &MockPublisher{}, Service: "test-api", Log: zap.NewNop(),
		},
		Orders: &OrdersHandler{
			Store: &MockOrdersStore{}, Producer: &MockPublisher{},
			Service: "test-api", Log: zap.NewNop(),
		},
		Authn: auth.Authenticate(store),
	}
	r := NewRouter(zap.NewNop())
	api.Register(r)
	return &apiTester{r}
}

// apiTester keeps the matrix test call sites short.
type apiTester struct{ h http.Handler }

func (m *apiTester) do(method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	m.h.ServeHTTP(rec, req)
	return rec
}

func TestRoutes_NoToken(t *testing.T) {
	m := newTestAPI()
	for _, target := range []string{"/cart/", "/orders/", "/products/", "/categories/", "/accounts/user/"} {
		rec := m.do("GET", target, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, target)
	}
}

func TestRoutes_MissingScope(t *testing.T) {
	m := newTestAPI()
	assert.Equal(t, http.StatusForbidden, m.do("GET", "/cart/", "no-scopes").Code)
	assert.Equal(t, http.StatusForbidden, m.do("GET", "/orders/", "cart-reader").Code)
	assert.Equal(t, http.StatusForbidden, m.do("POST", "/cart/add", "cart-reader").Code,
		"read:cart must not grant writes")
}

func TestRoutes_CorrectScope(t *testing.T) {
	m := newTestAPI()
	assert.Equal(t, http.StatusOK, m.do("GET", "/cart/", "cart-reader").Code)
}

func TestRoutes_RegisterIsOpen(t *testing.T) {
	m := newTestAPI()
	rec := m.do("POST", "/accounts/register", "")
	// reaches the handler (which rejects the empty body), not the authn layer
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRoutes_Healthz(t *testing.T) {
	m := newTestAPI()
	assert.Equal(t, http.StatusOK, m.do("GET", "/healthz", "").Code)
}
