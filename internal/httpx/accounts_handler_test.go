package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/accounts"
)

func TestRegister_Success(t *testing.T) {
	store := &MockAccountsStore{createUserID: "u1"}
	h := &AccountsHandler{Store: store, Log: zap.NewNop()}

	req := httptest.NewRequest("POST", "/accounts/register",
		strings.NewReader(`{"username":"alice","password":"correct-horse-battery","email":"a@example.com"}`))
	rec := httptest.NewRecorder()
	h.register(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "u1", resp["user_id"])
}

func TestRegister_MissingFields(t *testing.T) {
	h := &AccountsHandler{Store: &MockAccountsStore{}, Log: zap.NewNop()}

	req := httptest.NewRequest("POST", "/accounts/register", strings.NewReader(`{"username":"alice"}`))
	rec := httptest.NewRecorder()
	h.register(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Username and password required")
}

func TestRegister_DuplicateUsername(t *testing.T) {
	store := &MockAccountsStore{createErr: accounts.ErrUsernameTaken}
	h := &AccountsHandler{Store: store, Log: zap.NewNop()}

	req := httptest.NewRequest("POST", "/accounts/register",
		strings.NewReader(`{"username":"alice","password":"correct-horse-battery"}`))
	rec := httptest.NewRecorder()
	h.register(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Username already exists", resp["error"])
}

func TestRegister_WeakPasswordCreatesNoUser(t *testing.T) {
	store := &MockAccountsStore{}
	h := &AccountsHandler{Store: store, Log: zap.NewNop()}

	req := httptest.NewRequest("POST", "/accounts/register",
		strings.NewReader(`{"username":"alice","password":"1234"}`))
	rec := httptest.NewRecorder()
	h.register(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["password"])
	assert.Zero(t, store.createCalls, "no user row may be created for a weak password")
}

func TestGetProfile(t *testing.T) {
	store := &MockAccountsStore{profile: accounts.Profile{Username: "alice", City: "Bandung"}}
	h := &AccountsHandler{Store: store, Log: zap.NewNop()}

	rec := httptest.NewRecorder()
	h.getProfile(rec, authedRequest("GET", "/accounts/user/", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	var p accounts.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "alice", p.Username)
	assert.Equal(t, "Bandung", p.City)
}

func TestUpdateProfile_PartialUpdateKeepsAbsentFields(t *testing.T) {
	current := accounts.Profile{Username: "alice", Email: "a@example.com", City: "Bandung"}
	store := &MockAccountsStore{updateProfile: func(up accounts.ProfileUpdate) (accounts.Profile, error) {
		out := current
		if up.City != nil {
			out.City = *up.City
		}
		require.Nil(t, up.Email, "absent field must not be sent")
		return out, nil
	}}
	h := &AccountsHandler{Store: store, Log: zap.NewNop()}

	rec := httptest.NewRecorder()
	h.updateProfile(rec, authedRequest("PUT", "/accounts/user/", `{"city":"Jakarta"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	var p accounts.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "Jakarta", p.City)
	assert.Equal(t, "a@example.com", p.Email)
}
