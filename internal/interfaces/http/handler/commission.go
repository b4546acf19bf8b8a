package handler

import (
	billingapp "github.com/accounting/backend/internal/application/billing"
	identityapp "github.com/accounting/backend/internal/application/identity"
	"github.com/gin-gonic/gin"
)

// CommissionHandler handles commission workflow endpoints
type CommissionHandler struct {
	BaseHandler
	commissionService *billingapp.CommissionService
	accessService     *identityapp.AccessService
}

// NewCommissionHandler creates a new CommissionHandler
func NewCommissionHandler(commissionService *billingapp.CommissionService, accessService *identityapp.AccessService) *CommissionHandler {
	return &CommissionHandler{
		commissionService: commissionService,
		accessService:     accessService,
	}
}

// List returns a paginated commission list; SALES see only their own
func (h *CommissionHandler) List(c *gin.Context) {
	access, err := resolveAccess(c, h.accessService)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var filter billingapp.CommissionListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	commissions, total, err := h.commissionService.List(c.Request.Context(), access, filter)
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
	h.SuccessWithMeta(c, commissions, total, filter.Page, filter.PageSize)
}

// GetByID returns one commission; SALES see only their own
func (h *CommissionHandler) GetByID(c *gin.Context) {
	commissionID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid commission ID format")
		return
	}

	access, err := resolveAccess(c, h.accessService)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	commission, err := h.commissionService.GetByID(c.Request.Context(), access, commissionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, commission)
}

// Create creates a commission by hand, outside the snapshot engine, OWNER only
func (h *CommissionHandler) Create(c *gin.Context) {
	access, err := resolveAccess(c, h.accessService)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req billingapp.CreateCommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	commission, err := h.commissionService.Create(c.Request.Context(), access, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, commission)
}

// Update corrects a commission's rate, OWNER only
func (h *CommissionHandler) Update(c *gin.Context) {
	commissionID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid commission ID format")
		return
	}

	var req billingapp.UpdateCommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	access, err := resolveAccess(c, h.accessService)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	commission, err := h.commissionService.Update(c.Request.Context(), access, commissionID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, commission)
}

// Delete removes a commission, OWNER only
func (h *CommissionHandler) Delete(c *gin.Context) {
	commissionID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid commission ID format")
		return
	}

	access, err := resolveAccess(c, h.accessService)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if err := h.commissionService.Delete(c.Request.Context(), access, commissionID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Approve advances a commission from PENDING to APPROVED, OWNER only
func (h *CommissionHandler) Approve(c *gin.Context) {
	commissionID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid commission ID format")
		return
	}

	access, err := resolveAccess(c, h.accessService)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	commission, err := h.commissionService.Approve(c.Request.Context(), access, commissionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, commission)
}

// MarkPaid advances a commission from APPROVED to PAID, OWNER only
func (h *CommissionHandler) MarkPaid(c *gin.Context) {
	commissionID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid commission ID format")
		return
	}

	access, err := resolveAccess(c, h.accessService)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	commission, err := h.commissionService.MarkPaid(c.Request.Context(), access, commissionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, commission)
}

// RegisterRoutes registers commission routes
func (h *CommissionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	commissions := rg.Group("/commissions")
	{
		commissions.GET("", h.List)
		commissions.GET("/:id", h.GetByID)
		commissions.POST("", h.Create)
		commissions.PUT("/:id", h.Update)
		commissions.DELETE("/:id", h.Delete)
		commissions.POST("/:id/approve", h.Approve)
		commissions.POST("/:id/mark-paid", h.MarkPaid)
	}
}
