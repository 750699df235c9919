package redisx

import "time"

const (
	// Token introspection store shared with the OAuth2 provider:
	// auth:token:{token} -> {"user_id": "...", "username": "...", "scopes": [...]}
	KeyAuthToken = "auth:token:%s"

	// Cached order status: order:status:{order_id} -> {"status": "..."}
	KeyOrderStatus = "order:status:%s"

	// Dedup for event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Units sold per product: sales:product:{product_id} -> counter
	KeySalesCount = "sales:product:%s"
)

var (
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)
