package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/example/storefront/internal/accounts"
	"github.com/example/storefront/internal/auth"
)

type AccountsStore interface {
	CreateUser(ctx context.Context, in accounts.RegisterInput, passwordHash string) (string, error)
	GetProfile(ctx context.Context, userID string) (accounts.Profile, error)
	UpdateProfile(ctx context.Context, userID string, up accounts.ProfileUpdate) (accounts.Profile, error)
}

type AccountsHandler struct {
	Store AccountsStore
	Log   *zap.Logger
}

func (h *AccountsHandler) register(w http.ResponseWriter, r *http.Request) {
	var in accounts.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if in.Username == "" || in.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password required")
		return
	}
	if msgs := accounts.ValidatePassword(in.Password, in.Username); len(msgs) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"password": msgs})
		return
	}

	hash, err := accounts.HashPassword(in.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	userID, err := h.Store.CreateUser(r.Context(), in, hash)
	if errors.Is(err, accounts.ErrUsernameTaken) {
		writeError(w, http.StatusBadRequest, "Username already exists")
		return
	}
	if err != nil {
		h.Log.Error("create user", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "user_id": userID})
}

func (h *AccountsHandler) getProfile(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	p, err := h.Store.GetProfile(r.Context(), id.UserID)
	if errors.Is(err, accounts.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		h.Log.Error("get profile", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "profile unavailable")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *AccountsHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	var up accounts.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&up); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	p, err := h.Store.UpdateProfile(r.Context(), id.UserID, up)
	if errors.Is(err, accounts.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		h.Log.Error("update profile", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "profile update failed")
		return
	}
	writeJSON(w, http.StatusOK, p)
}
