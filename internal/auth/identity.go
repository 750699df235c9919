package auth

import "context"

// Identity is the authenticated principal attached to a request context.
type Identity struct {
	UserID   string  `json:"user_id"`
	Username string  `json:"username"`
	Scopes   []Scope `json:"scopes"`
}

func (id Identity) HasScope(s Scope) bool {
	for _, have := range id.Scopes {
		if have == s {
			return true
		}
	}
	return false
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
