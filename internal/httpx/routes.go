package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/example/storefront/internal/auth"
)

// API wires every handler behind the authentication and per-resource scope
// middleware. Registration is the only open endpoint.
type API struct {
	Accounts *AccountsHandler
	Catalog  *CatalogHandler
	Cart     *CartHandler
	Orders   *OrdersHandler
	Authn    func(http.Handler) http.Handler
}

func (a *API) Register(r *chi.Mux) {
	r.Post("/accounts/register", a.Accounts.register)

	r.Route("/accounts/user", func(r chi.Router) {
		r.Use(a.Authn, auth.RequireScope(auth.ResourceCustomers))
		r.Get("/", a.Accounts.getProfile)
		r.Put("/", a.Accounts.updateProfile)
	})

	r.Route("/categories", func(r chi.Router) {
		r.Use(a.Authn, auth.RequireScope(auth.ResourceProducts))
		r.Get("/", a.Catalog.listCategories)
		r.Post("/", a.Catalog.createCategory)
		r.Get("/{slug}", a.Catalog.getCategory)
		r.Put("/{slug}", a.Catalog.updateCategory)
		r.Delete("/{slug}", a.Catalog.deleteCategory)
	})

	r.Route("/products", func(r chi.Router) {
		r.Use(a.Authn, auth.RequireScope(auth.ResourceProducts))
		r.Get("/", a.Catalog.listProducts)
		r.Post("/", a.Catalog.createProduct)
		r.Get("/{slug}", a.Catalog.getProduct)
		r.Put("/{slug}", a.Catalog.updateProduct)
		r.Delete("/{slug}", a.Catalog.deleteProduct)
	})

	r.Route("/cart", func(r chi.Router) {
		r.Use(a.Authn, auth.RequireScope(auth.ResourceCart))
		r.Get("/", a.Cart.getCart)
		r.Post("/add", a.Cart.addItem)
		r.Post("/remove", a.Cart.removeItem)
		r.Post("/checkout", a.Cart.checkout)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Use(a.Authn, auth.RequireScope(auth.ResourceOrders))
		r.Get("/", a.Orders.listOrders)
		r.Get("/{id}", a.Orders.getOrder)
		r.Put("/{id}/status", a.Orders.updateStatus)
	})
}
