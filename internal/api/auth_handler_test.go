package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubhub-backend-go/internal/config"
	"clubhub-backend-go/internal/models"
)

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	w := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"UP"}`, w.Body.String())
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email": "ana@club.cl", "password": "secret123", "displayName": "Ana López",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[SessionResponse](t, w)
	assert.Equal(t, "authenticated", created.State)
	require.NotNil(t, created.Profile)
	assert.Equal(t, "Ana López", created.Profile.DisplayName)
	assert.Empty(t, created.Profile.Clubs)

	w = s.do(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email": "ana@club.cl", "password": "secret123", "displayName": "Ana",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/auth/signin", "", map[string]string{"email": "ana@club.cl", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = s.do(t, http.MethodPost, "/api/v1/auth/signin", "", map[string]string{"email": "luis@club.cl", "password": "secret123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid email or password", decode[ErrorResponse](t, w).Error)

	w = s.do(t, http.MethodPost, "/api/v1/auth/signin", "", map[string]string{"email": "ana@club.cl", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code)
	token := decode[SessionResponse](t, w).User.IDToken

	w = s.do(t, http.MethodGet, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ana@club.cl", decode[models.User](t, w).Email)

	w = s.do(t, http.MethodPost, "/api/v1/auth/signout", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(t, http.MethodGet, "/api/v1/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequestValidation(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name string
		path string
		body any
		want int
	}{
		{"weak password", "/api/v1/auth/signup", map[string]string{"email": "a@b.cl", "password": "123", "displayName": "A"}, http.StatusBadRequest},
		{"bad email", "/api/v1/auth/signup", map[string]string{"email": "nope", "password": "secret123", "displayName": "A"}, http.StatusBadRequest},
		{"unknown field", "/api/v1/auth/signin", `{"email":"a@b.cl","password":"x","remember":true}`, http.StatusBadRequest},
		{"empty body", "/api/v1/auth/signin", nil, http.StatusBadRequest},
		{"reset unknown email", "/api/v1/auth/reset-password", map[string]string{"email": "who@b.cl"}, http.StatusUnauthorized},
		{"google disabled", "/api/v1/auth/google", map[string]string{"idToken": "x"}, http.StatusNotFound},
		{"signout without token", "/api/v1/auth/signout", nil, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, tt.path, "", tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}

	s.signUp(t, "ana@club.cl", "Ana")
	w := s.do(t, http.MethodPost, "/api/v1/auth/reset-password", "", map[string]string{"email": "ana@club.cl"})
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestGoogleSignInWhenEnabled(t *testing.T) {
	s := newTestServer(t, &config.Config{StoreDriver: config.StoreMemory, EnableGoogleSignIn: true})

	w := s.do(t, http.MethodPost, "/api/v1/auth/google", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// The local provider has no federated backend.
	w = s.do(t, http.MethodPost, "/api/v1/auth/google", "", map[string]string{"idToken": "google-token"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestUpdateCurrentUserProfile(t *testing.T) {
	s := newTestServer(t, nil)
	token, _ := s.signUp(t, "ana@club.cl", "Ana")

	w := s.do(t, http.MethodPatch, "/api/v1/users/me", token, map[string]string{"displayName": "Ana María", "rut": "12.345.678-5"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	user := decode[models.User](t, w)
	assert.Equal(t, "Ana María", user.DisplayName)
	require.NotNil(t, user.RUT)
	assert.Equal(t, "12.345.678-5", *user.RUT)

	w = s.do(t, http.MethodPatch, "/api/v1/users/me", token, map[string]string{"photoURL": "not a url"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
