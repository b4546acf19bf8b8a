package handler

import (
	billingapp "github.com/accounting/backend/internal/application/billing"
	identityapp "github.com/accounting/backend/internal/application/identity"
	"github.com/gin-gonic/gin"
)

// InvoiceHandler handles invoice and line item endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService    *billingapp.InvoiceService
	commissionService *billingapp.CommissionService
	accessService     *identityapp.AccessService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *billingapp.InvoiceService, commissionService *billingapp.CommissionService, accessService *identityapp.AccessService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService:    invoiceService,
		commissionService: commissionService,
		accessService:     accessService,
	}
}

// Create creates a new invoice
func (h *InvoiceHandler) Create(c *gin.Context) {
	access, err := resolveAccess(c, h.accessService)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req billingapp.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), access, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, invoice)
}

// GetByID returns one invoice; SALES see only their own
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	access, err := resolveAccess(c, h.accessService)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), access, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// List returns a paginated invoice list; SALES results are scoped to the
// caller's own sales
func (h *InvoiceHandler) List(c *gin.Context) {
	access, err := resolveAccess(c, h.accessService)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var filter billingapp.InvoiceListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoices, total, err := h.invoiceService.List(c.Request.Context(), access, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	h.SuccessWithMeta(c, invoices, total, filter.Page, filter.PageSize)
}

// Update changes an invoice; status values go through normalization and the
// forward-only transition check
func (h *InvoiceHandler) Update(c *gin.Context) {
	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	var req billingapp.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	access, err := resolveAccess(c, h.accessService)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	invoice, err := h.invoiceService.Update(c.Request.Context(), access, invoiceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// Delete removes an invoice along with its items and commissions
func (h *InvoiceHandler) Delete(c *gin.Context) {
	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	access, err := resolveAccess(c, h.accessService)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), access, invoiceID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Lock locks an invoice against non-OWNER mutation
func (h *InvoiceHandler) Lock(c *gin.Context) {
	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	access, err := resolveAccess(c, h.accessService)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	invoice, err := h.invoiceService.Lock(c.Request.Context(), access, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// Unlock lifts an invoice lock
func (h *InvoiceHandler) Unlock(c *gin.Context) {
	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	access, err := resolveAccess(c, h.accessService)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	invoice, err := h.invoiceService.Unlock(c.Request.Context(), access, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// AddItem appends a line item; the server recomputes the line total and the
// parent invoice total
func (h *InvoiceHandler) AddItem(c *gin.Context) {
	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	var req billingapp.CreateInvoiceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	access, err := resolveAccess(c, h.accessService)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	item, err := h.invoiceService.AddItem(c.Request.Context(), access, invoiceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, item)
}

// ListItems returns an invoice's line items
func (h *InvoiceHandler) ListItems(c *gin.Context) {
	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	access, err := resolveAccess(c, h.accessService)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items, err := h.invoiceService.ListItems(c.Request.Context(), access, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}

// CreateSnapshot creates a commission snapshot for a paid invoice. The
// operation is idempotent: an existing snapshot is returned unchanged.
func (h *InvoiceHandler) CreateSnapshot(c *gin.Context) {
	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	access, err := resolveAccess(c, h.accessService)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	commission, err := h.commissionService.CreateSnapshot(c.Request.Context(), access, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, commission)
}

// RegisterRoutes registers invoice routes
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.Create)
		invoices.GET("", h.List)
		invoices.GET("/:id", h.GetByID)
		invoices.PUT("/:id", h.Update)
		invoices.DELETE("/:id", h.Delete)
		invoices.POST("/:id/lock", h.Lock)
		invoices.POST("/:id/unlock", h.Unlock)
		invoices.POST("/:id/items", h.AddItem)
		invoices.GET("/:id/items", h.ListItems)
		invoices.POST("/:id/commission-snapshot", h.CreateSnapshot)
	}
}
