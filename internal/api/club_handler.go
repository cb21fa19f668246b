package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clubhub-backend-go/internal/core"
	"clubhub-backend-go/internal/middleware"
	"clubhub-backend-go/internal/models"
)

// ClubHandler handles API endpoints related to clubs and their public portal.
type ClubHandler struct {
	clubService core.ClubService
}

// NewClubHandler creates a new ClubHandler.
func NewClubHandler(cs core.ClubService) *ClubHandler {
	return &ClubHandler{clubService: cs}
}

// CreateClub handles POST /clubs
// The caller becomes the owner. The slug is derived from the name and may be
// suffixed (-2, -3, ...) when already taken, so clients must read it from the
// response.
func (h *ClubHandler) CreateClub(c *gin.Context) {
	var req models.CreateClubRequest
	if err := decodeJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	club, err := h.clubService.CreateClub(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, club)
}

// ListClubs handles GET /clubs?scope=owned|member
func (h *ClubHandler) ListClubs(c *gin.Context) {
	var (
		clubs []*models.Club
		err   error
	)
	// "owned" lists clubs by ownerId; "member" resolves the caller's
	// memberships through the user -> clubs index.
	switch scope := c.DefaultQuery("scope", "owned"); scope {
	case "owned":
		clubs, err = h.clubService.ListOwnedClubs(c.Request.Context(), middleware.UserID(c))
	case "member":
		clubs, err = h.clubService.ListMemberClubs(c.Request.Context(), middleware.UserID(c))
	default:
		err = models.NewValidationError("scope", "must be owned or member")
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page(clubs, 0, nil)) // not paginated
}

// GetClub handles GET /clubs/:clubId
func (h *ClubHandler) GetClub(c *gin.Context) {
	club, err := h.clubService.GetClub(c.Request.Context(), middleware.UserID(c), c.Param("clubId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, club)
}

// UpdateClub handles PATCH /clubs/:clubId
func (h *ClubHandler) UpdateClub(c *gin.Context) {
	var patch models.ClubPatch
	if err := decodeJSON(c, &patch); err != nil {
		respondError(c, err)
		return
	}
	club, err := h.clubService.UpdateClub(c.Request.Context(), middleware.UserID(c), c.Param("clubId"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, club)
}

// DeleteClub handles DELETE /clubs/:clubId
// Owner only. Every subcollection is deleted along with the club; an
// interrupted delete can be retried with the same request.
func (h *ClubHandler) DeleteClub(c *gin.Context) {
	if err := h.clubService.DeleteClub(c.Request.Context(), middleware.UserID(c), c.Param("clubId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ReconcileMemberCount handles POST /clubs/:clubId/reconcile
// It runs the same recount as the nightly job for a single club.
func (h *ClubHandler) ReconcileMemberCount(c *gin.Context) {
	result, err := h.clubService.ReconcileMemberCount(c.Request.Context(), middleware.UserID(c), c.Param("clubId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetPortal handles GET /portal/:slug. It needs no authentication.
func (h *ClubHandler) GetPortal(c *gin.Context) {
	portal, err := h.clubService.GetPortal(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, portal)
}
