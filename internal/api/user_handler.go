package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clubhub-backend-go/internal/core"
	"clubhub-backend-go/internal/middleware"
	"clubhub-backend-go/internal/models"
)

// UserHandler handles the caller's own profile.
type UserHandler struct {
	userService core.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(us core.UserService) *UserHandler {
	return &UserHandler{userService: us}
}

// GetCurrentUserProfile handles GET /users/me
func (h *UserHandler) GetCurrentUserProfile(c *gin.Context) {
	user, err := h.userService.GetProfile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateCurrentUserProfile handles PATCH /users/me
func (h *UserHandler) UpdateCurrentUserProfile(c *gin.Context) {
	var patch models.UserPatch
	if err := decodeJSON(c, &patch); err != nil {
		respondError(c, err)
		return
	}
	user, err := h.userService.UpdateProfile(c.Request.Context(), middleware.UserID(c), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
