package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// Authenticate validates the bearer token and stores the resolved identity
// in the request context. Missing or unknown tokens get 401.
func Authenticate(store TokenStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				deny(w, http.StatusUnauthorized, "authentication required")
				return
			}
			id, err := store.Introspect(r.Context(), token)
			if errors.Is(err, ErrTokenUnknown) {
				deny(w, http.StatusUnauthorized, "invalid token")
				return
			}
			if err != nil {
				deny(w, http.StatusInternalServerError, "authentication unavailable")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequireScope enforces the resource's method-to-scope table. Runs after
// Authenticate; an authenticated caller lacking the scope gets 403.
func RequireScope(res Resource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := FromContext(r.Context())
			if !ok {
				deny(w, http.StatusUnauthorized, "authentication required")
				return
			}
			scope, ok := Required(res, r.Method)
			if !ok || !id.HasScope(scope) {
				deny(w, http.StatusForbidden, "insufficient scope")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func deny(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
