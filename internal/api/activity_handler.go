package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clubhub-backend-go/internal/core"
	"clubhub-backend-go/internal/middleware"
	"clubhub-backend-go/internal/models"
)

var (
	eventFilters      = filters{"createdBy": filterString, "isAllDay": filterBool}
	attendanceFilters = filters{"eventId": filterString, "memberId": filterString, "status": filterString}
	documentFilters   = filters{"fileType": filterString, "uploadedBy": filterString, "isPublic": filterBool}
	auditFilters      = filters{"userId": filterString, "action": filterString, "targetType": filterString, "targetId": filterString}
)

// ActivityHandler handles a club's events, attendance, documents and audit
// trail.
type ActivityHandler struct {
	eventService    core.EventService
	documentService core.DocumentService
	auditService    core.AuditService
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(es core.EventService, ds core.DocumentService, as core.AuditService) *ActivityHandler {
	return &ActivityHandler{eventService: es, documentService: ds, auditService: as}
}

// CreateEvent handles POST /clubs/:clubId/events
func (h *ActivityHandler) CreateEvent(c *gin.Context) {
	var event models.Event
	if err := decodeJSON(c, &event); err != nil {
		respondError(c, err)
		return
	}
	created, err := h.eventService.CreateEvent(c.Request.Context(), middleware.UserID(c), c.Param("clubId"), event)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListEvents handles GET /clubs/:clubId/events
func (h *ActivityHandler) ListEvents(c *gin.Context) {
	opts, err := listOptions(c, eventFilters)
	if err != nil {
		respondError(c, err)
		return
	}
	events, err := h.eventService.ListEvents(c.Request.Context(), middleware.UserID(c), c.Param("clubId"), opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page(events, opts.Limit, func(e *models.Event) string { return e.ID }))
}

// RecordAttendance handles POST /clubs/:clubId/attendance
func (h *ActivityHandler) RecordAttendance(c *gin.Context) {
	var attendance models.Attendance
	if err := decodeJSON(c, &attendance); err != nil {
		respondError(c, err)
		return
	}
	recorded, err := h.eventService.RecordAttendance(c.Request.Context(), middleware.UserID(c), c.Param("clubId"), attendance)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recorded)
}

// ListAttendance handles GET /clubs/:clubId/attendance
func (h *ActivityHandler) ListAttendance(c *gin.Context) {
	opts, err := listOptions(c, attendanceFilters)
	if err != nil {
		respondError(c, err)
		return
	}
	rows, err := h.eventService.ListAttendance(c.Request.Context(), middleware.UserID(c), c.Param("clubId"), opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page(rows, opts.Limit, func(a *models.Attendance) string { return a.ID }))
}

// AddDocument handles POST /clubs/:clubId/documents
func (h *ActivityHandler) AddDocument(c *gin.Context) {
	var doc models.ClubDocument
	if err := decodeJSON(c, &doc); err != nil {
		respondError(c, err)
		return
	}
	created, err := h.documentService.AddDocument(c.Request.Context(), middleware.UserID(c), c.Param("clubId"), doc)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListDocuments handles GET /clubs/:clubId/documents
func (h *ActivityHandler) ListDocuments(c *gin.Context) {
	opts, err := listOptions(c, documentFilters)
	if err != nil {
		respondError(c, err)
		return
	}
	docs, err := h.documentService.ListDocuments(c.Request.Context(), middleware.UserID(c), c.Param("clubId"), opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page(docs, opts.Limit, func(d *models.ClubDocument) string { return d.ID }))
}

// ListAuditLogs handles GET /clubs/:clubId/audit-logs
func (h *ActivityHandler) ListAuditLogs(c *gin.Context) {
	opts, err := listOptions(c, auditFilters)
	if err != nil {
		respondError(c, err)
		return
	}
	logs, err := h.auditService.ListAuditLogs(c.Request.Context(), middleware.UserID(c), c.Param("clubId"), opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page(logs, opts.Limit, func(l *models.AuditLog) string { return l.ID }))
}
