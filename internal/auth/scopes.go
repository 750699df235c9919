package auth

// Scope is a capability string carried by an access token. The OAuth2
// provider issues tokens with a subset of these; the API only checks them.
type Scope string

const (
	ScopeReadProducts   Scope = "read:products"
	ScopeWriteProducts  Scope = "write:products"
	ScopeReadOrders     Scope = "read:orders"
	ScopeWriteOrders    Scope = "write:orders"
	ScopeReadCart       Scope = "read:cart"
	ScopeWriteCart      Scope = "write:cart"
	ScopeReadCustomers  Scope = "read:customers"
	ScopeWriteCustomers Scope = "write:customers"
)

// Resource groups endpoints that share a scope pair.
type Resource string

const (
	ResourceProducts  Resource = "products"
	ResourceOrders    Resource = "orders"
	ResourceCart      Resource = "cart"
	ResourceCustomers Resource = "customers"
)

// requiredScopes maps resource and HTTP method to the scope a token must
// carry. Checked before dispatch; methods absent from a row are rejected.
var requiredScopes = map[Resource]map[string]Scope{
	ResourceProducts: {
		"GET":    ScopeReadProducts,
		"POST":   ScopeWriteProducts,
		"PUT":    ScopeWriteProducts,
		"DELETE": ScopeWriteProducts,
	},
	ResourceOrders: {
		"GET": ScopeReadOrders,
		"PUT": ScopeWriteOrders,
	},
	ResourceCart: {
		"GET":  ScopeReadCart,
		"POST": ScopeWriteCart,
	},
	ResourceCustomers: {
		"GET": ScopeReadCustomers,
		"PUT": ScopeWriteCustomers,
	},
}

// Required returns the scope needed for a method on a resource.
func Required(res Resource, method string) (Scope, bool) {
	s, ok := requiredScopes[res][method]
	return s, ok
}
