package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clubhub-backend-go/internal/core"
	"clubhub-backend-go/internal/middleware"
	"clubhub-backend-go/internal/models"
)

var memberFilters = filters{
	"userId":   filterString,
	"role":     filterString,
	"category": filterString,
	"isActive": filterBool,
}

// MemberHandler handles the members of a club.
type MemberHandler struct {
	memberService core.MemberService
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(ms core.MemberService) *MemberHandler {
	return &MemberHandler{memberService: ms}
}

// AddMember handles POST /clubs/:clubId/members
func (h *MemberHandler) AddMember(c *gin.Context) {
	var member models.Member
	if err := decodeJSON(c, &member); err != nil {
		respondError(c, err)
		return
	}
	created, err := h.memberService.AddMember(c.Request.Context(), middleware.UserID(c), c.Param("clubId"), member)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListMembers handles GET /clubs/:clubId/members
func (h *MemberHandler) ListMembers(c *gin.Context) {
	opts, err := listOptions(c, memberFilters)
	if err != nil {
		respondError(c, err)
		return
	}
	members, err := h.memberService.ListMembers(c.Request.Context(), middleware.UserID(c), c.Param("clubId"), opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page(members, opts.Limit, func(m *models.Member) string { return m.ID }))
}

// GetMember handles GET /clubs/:clubId/members/:memberId
func (h *MemberHandler) GetMember(c *gin.Context) {
	member, err := h.memberService.GetMember(c.Request.Context(), middleware.UserID(c), c.Param("clubId"), c.Param("memberId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

// UpdateMember handles PATCH /clubs/:clubId/members/:memberId
func (h *MemberHandler) UpdateMember(c *gin.Context) {
	var patch models.MemberPatch
	if err := decodeJSON(c, &patch); err != nil {
		respondError(c, err)
		return
	}
	member, err := h.memberService.UpdateMember(c.Request.Context(), middleware.UserID(c), c.Param("clubId"), c.Param("memberId"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

// DeleteMember handles DELETE /clubs/:clubId/members/:memberId
func (h *MemberHandler) DeleteMember(c *gin.Context) {
	if err := h.memberService.DeleteMember(c.Request.Context(), middleware.UserID(c), c.Param("clubId"), c.Param("memberId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
