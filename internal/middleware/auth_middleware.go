package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clubhub-backend-go/internal/auth"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID  = "userID"
	ContextSession = "session"
)

// ErrorResponse is the standard error body of every endpoint.
// It lives here rather than in internal/api because api imports middleware;
// api re-exports it as an alias so both packages send the same shape.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// AuthMiddleware restores a session from the bearer token of each request.
type AuthMiddleware struct {
	manager *auth.Manager
	logger  *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware instance.
// A nil logger is replaced with a no-op logger; manager must not be nil.
func NewAuthMiddleware(manager *auth.Manager, logger *zap.Logger) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{manager: manager, logger: logger}
}

// VerifyToken is a Gin middleware handler function that rejects requests
// without a valid ID token. On success the caller's UID and its authenticated
// session are stored in the gin context under ContextUserID and
// ContextSession, for handlers to read through UserID and Session.
func (m *AuthMiddleware) VerifyToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Extract the token. "Bearer" is matched case-insensitively.
		idToken, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header format must be 'Bearer {token}'"})
			return
		}

		// 2. Restore a fresh session for this request only. Sessions are never
		// shared between requests, so the manager's state machine runs per call.
		sess := auth.NewSession()
		snap, err := m.manager.Restore(c.Request.Context(), sess, idToken)
		if err != nil || snap.State != auth.StateAuthenticated {
			// Token failures are routine (expired tokens), so they log at Debug.
			m.logger.Debug("Rejected bearer token", zap.Error(err), zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired authentication token"})
			return
		}

		// 3. Expose the caller to downstream handlers.
		c.Set(ContextUserID, snap.Principal.UID)
		c.Set(ContextSession, sess)
		c.Next()
	}
}

// BearerToken extracts the token from an Authorization header value of the
// form "Bearer {token}". ok is false for any other scheme or an empty token.
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// UserID returns the authenticated caller's UID, or "" on routes that are not
// behind VerifyToken.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// Session returns the request's authenticated session, or nil.
func Session(c *gin.Context) *auth.Session {
	v, ok := c.Get(ContextSession)
	if !ok {
		return nil
	}
	sess, _ := v.(*auth.Session)
	return sess
}
