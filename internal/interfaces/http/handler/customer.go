package handler

import (
	identityapp "github.com/accounting/backend/internal/application/identity"
	partnerapp "github.com/accounting/backend/internal/application/partner"
	"github.com/gin-gonic/gin"
)

// CustomerHandler handles customer endpoints
type CustomerHandler struct {
	BaseHandler
	customerService *partnerapp.CustomerService
	accessService   *identityapp.AccessService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *partnerapp.CustomerService, accessService *identityapp.AccessService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		accessService:   accessService,
	}
}

// Create creates a new customer
func (h *CustomerHandler) Create(c *gin.Context) {
	access, err := resolveAccess(c, h.accessService)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req partnerapp.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customer, err := h.customerService.Create(c.Request.Context(), access, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, customer)
}

// GetByID returns one customer
func (h *CustomerHandler) GetByID(c *gin.Context) {
	customerID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	access, err := resolveAccess(c, h.accessService)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	customer, err := h.customerService.GetByID(c.Request.Context(), access, customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// List returns a paginated customer list with optional name/email search
func (h *CustomerHandler) List(c *gin.Context) {
	access, err := resolveAccess(c, h.accessService)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var filter partnerapp.CustomerListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customers, total, err := h.customerService.List(c.Request.Context(), access, filter)
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
	h.SuccessWithMeta(c, customers, total, filter.Page, filter.PageSize)
}

// Update changes a customer's details
func (h *CustomerHandler) Update(c *gin.Context) {
	customerID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	var req partnerapp.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	access, err := resolveAccess(c, h.accessService)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	customer, err := h.customerService.Update(c.Request.Context(), access, customerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// Delete removes a customer; blocked while invoices reference it
func (h *CustomerHandler) Delete(c *gin.Context) {
	customerID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	access, err := resolveAccess(c, h.accessService)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if err := h.customerService.Delete(c.Request.Context(), access, customerID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers customer routes
func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	customers := rg.Group("/customers")
	{
		customers.POST("", h.Create)
		customers.GET("", h.List)
		customers.GET("/:id", h.GetByID)
		customers.PUT("/:id", h.Update)
		customers.DELETE("/:id", h.Delete)
	}
}
