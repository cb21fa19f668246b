package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clubhub-backend-go/internal/auth"
	"clubhub-backend-go/internal/middleware"
	"clubhub-backend-go/internal/models"
)

// AuthHandler exposes the session operations. The server is stateless: each
// request drives a fresh session and returns the resulting snapshot.
type AuthHandler struct {
	manager       *auth.Manager
	googleEnabled bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(manager *auth.Manager, googleEnabled bool) *AuthHandler {
	return &AuthHandler{manager: manager, googleEnabled: googleEnabled}
}

// SignUp handles POST /auth/signup
// The account is created even when the profile document cannot be written;
// the response then carries a null profile, which is repaired on next sign-in.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req models.SignUpRequest
	if err := decodeJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	if err := models.Validate(req); err != nil {
		respondError(c, err)
		return
	}
	snap, err := h.manager.SignUp(c.Request.Context(), auth.NewSession(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sessionResponse(snap))
}

// SignIn handles POST /auth/signin
// The returned session carries the ID token the client sends as a bearer
// token on every authenticated route.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req models.SignInRequest
	if err := decodeJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	if err := models.Validate(req); err != nil {
		respondError(c, err)
		return
	}
	snap, err := h.manager.SignIn(c.Request.Context(), auth.NewSession(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(snap))
}

// SignInWithGoogle handles POST /auth/google
func (h *AuthHandler) SignInWithGoogle(c *gin.Context) {
	// Federated sign-in is a deployment toggle (ENABLE_GOOGLE_SIGN_IN).
	if !h.googleEnabled {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Google sign-in is not enabled"})
		return
	}
	var req models.GoogleSignInRequest
	if err := decodeJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	// The client completes the Google popup itself and forwards the resulting
	// credential; at least one of the two tokens is required.
	if req.IDToken == "" && req.AccessToken == "" {
		respondError(c, models.NewValidationError("idToken", "or accessToken is required"))
		return
	}
	cred := auth.FederatedCredential{
		ProviderID:  "google.com",
		IDToken:     req.IDToken,
		AccessToken: req.AccessToken,
		RequestURI:  req.RequestURI,
	}
	snap, err := h.manager.SignInWithGoogle(c.Request.Context(), auth.NewSession(), cred)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(snap))
}

// ResetPassword handles POST /auth/reset-password
// The reset mail itself is sent by the identity provider.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := decodeJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	if err := models.Validate(req); err != nil {
		respondError(c, err)
		return
	}
	if err := h.manager.ResetPassword(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SignOut handles POST /auth/signout. It needs the auth middleware.
func (h *AuthHandler) SignOut(c *gin.Context) {
	sess := middleware.Session(c)
	if sess == nil { // only reachable if the route is mounted without VerifyToken
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Not authenticated"})
		return
	}
	if err := h.manager.SignOut(c.Request.Context(), sess); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
