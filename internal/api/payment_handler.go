package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clubhub-backend-go/internal/core"
	"clubhub-backend-go/internal/middleware"
	"clubhub-backend-go/internal/models"
)

var paymentFilters = filters{
	"memberId":    filterString,
	"status":      filterString,
	"method":      filterString,
	"concept":     filterString,
	"isRecurring": filterBool,
}

var invoiceFilters = filters{
	"memberId": filterString,
	"status":   filterString,
	"number":   filterString,
}

// PaymentHandler handles the payments and invoices of a club.
type PaymentHandler struct {
	paymentService core.PaymentService
	invoiceService core.InvoiceService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(ps core.PaymentService, is core.InvoiceService) *PaymentHandler {
	return &PaymentHandler{paymentService: ps, invoiceService: is}
}

// CreatePayment handles POST /clubs/:clubId/payments
// memberName is copied from the member at creation time.
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req models.CreatePaymentRequest
	if err := decodeJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	payment, err := h.paymentService.CreatePayment(c.Request.Context(), middleware.UserID(c), c.Param("clubId"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// CreateBulkPayments handles POST /clubs/:clubId/payments/bulk
// Either every payment is created or none is. An empty memberIds list charges
// all active members of the club.
func (h *PaymentHandler) CreateBulkPayments(c *gin.Context) {
	var req models.BulkPaymentRequest
	if err := decodeJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	ids, err := h.paymentService.CreateBulkPayments(c.Request.Context(), middleware.UserID(c), c.Param("clubId"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, BulkPaymentResponse{PaymentIDs: ids, Count: len(ids)})
}

// ListPayments handles GET /clubs/:clubId/payments
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	opts, err := listOptions(c, paymentFilters)
	if err != nil {
		respondError(c, err)
		return
	}
	payments, err := h.paymentService.ListPayments(c.Request.Context(), middleware.UserID(c), c.Param("clubId"), opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page(payments, opts.Limit, func(p *models.Payment) string { return p.ID }))
}

// UpdatePayment handles PATCH /clubs/:clubId/payments/:paymentId
func (h *PaymentHandler) UpdatePayment(c *gin.Context) {
	var patch models.PaymentPatch
	if err := decodeJSON(c, &patch); err != nil {
		respondError(c, err)
		return
	}
	payment, err := h.paymentService.UpdatePayment(c.Request.Context(), middleware.UserID(c), c.Param("clubId"), c.Param("paymentId"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

// CreateInvoice handles POST /clubs/:clubId/invoices
func (h *PaymentHandler) CreateInvoice(c *gin.Context) {
	var req models.CreateInvoiceRequest
	if err := decodeJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), middleware.UserID(c), c.Param("clubId"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, invoice)
}

// ListInvoices handles GET /clubs/:clubId/invoices
func (h *PaymentHandler) ListInvoices(c *gin.Context) {
	opts, err := listOptions(c, invoiceFilters)
	if err != nil {
		respondError(c, err)
		return
	}
	invoices, err := h.invoiceService.ListInvoices(c.Request.Context(), middleware.UserID(c), c.Param("clubId"), opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page(invoices, opts.Limit, func(inv *models.Invoice) string { return inv.ID }))
}
