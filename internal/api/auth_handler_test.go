package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wrenhall/tome-api/internal/config"
	"github.com/wrenhall/tome-api/internal/domain"
	"github.com/wrenhall/tome-api/internal/service/auth"
	"github.com/wrenhall/tome-api/internal/store"
)

// fakeUserStore keeps users in memory keyed by email.
type fakeUserStore struct {
	users map[string]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*domain.User)}
}

func (f *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	if _, exists := f.users[user.Email]; exists {
		return store.ErrEmailExists
	}
	f.users[user.Email] = user
	return nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

func newAuthHandler(t *testing.T, users store.UserStore) *AuthHandler {
	t.Helper()
	jwtService, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:                   strings.Repeat("s", 32),
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 10080,
	})
	require.NoError(t, err)

	return NewAuthHandler(
		users,
		jwtService,
		auth.NewBcryptHasher(4), // minimum cost keeps tests fast
		auth.NewBcryptVerifier(),
		time.Hour,
	)
}

func postJSON(handler http.HandlerFunc, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestRegisterAndLogin(t *testing.T) {
	users := newFakeUserStore()
	handler := newAuthHandler(t, users)

	rec := postJSON(handler.Register, "/api/auth/register",
		`{"email":"reader@example.com","password":"correct horse battery"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var registered AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &registered))
	assert.NotEmpty(t, registered.AccessToken)
	assert.NotEmpty(t, registered.RefreshToken)

	// Stored password must be hashed, never plaintext.
	stored := users.users["reader@example.com"]
	require.NotNil(t, stored)
	assert.Empty(t, stored.Password)
	assert.NotEmpty(t, stored.HashedPassword)
	assert.NotEqual(t, "correct horse battery", stored.HashedPassword)

	rec = postJSON(handler.Login, "/api/auth/login",
		`{"email":"reader@example.com","password":"correct horse battery"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var loggedIn AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loggedIn))
	assert.Equal(t, registered.UserID, loggedIn.UserID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newFakeUserStore()
	handler := newAuthHandler(t, users)

	body := `{"email":"reader@example.com","password":"correct horse battery"}`
	rec := postJSON(handler.Register, "/api/auth/register", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(handler.Register, "/api/auth/register", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	handler := newAuthHandler(t, newFakeUserStore())

	rec := postJSON(handler.Register, "/api/auth/register",
		`{"email":"reader@example.com","password":"short"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	users := newFakeUserStore()
	handler := newAuthHandler(t, users)

	rec := postJSON(handler.Register, "/api/auth/register",
		`{"email":"reader@example.com","password":"correct horse battery"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(handler.Login, "/api/auth/login",
		`{"email":"reader@example.com","password":"wrong horse battery!"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	handler := newAuthHandler(t, newFakeUserStore())

	rec := postJSON(handler.Login, "/api/auth/login",
		`{"email":"ghost@example.com","password":"whatever it was"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	users := newFakeUserStore()
	handler := newAuthHandler(t, users)

	rec := postJSON(handler.Register, "/api/auth/register",
		`{"email":"reader@example.com","password":"correct horse battery"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var registered AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &registered))

	rec = postJSON(handler.RefreshToken, "/api/auth/refresh",
		`{"refresh_token":"`+registered.RefreshToken+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var refreshed RefreshTokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &refreshed))
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEmpty(t, refreshed.RefreshToken)
}

func TestRefreshTokenRejectsAccessToken(t *testing.T) {
	users := newFakeUserStore()
	handler := newAuthHandler(t, users)

	rec := postJSON(handler.Register, "/api/auth/register",
		`{"email":"reader@example.com","password":"correct horse battery"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var registered AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &registered))

	// An access token is the wrong type for the refresh endpoint.
	rec = postJSON(handler.RefreshToken, "/api/auth/refresh",
		`{"refresh_token":"`+registered.AccessToken+`"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
