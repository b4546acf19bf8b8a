package handler

import (
	identityapp "github.com/accounting/backend/internal/application/identity"
	"github.com/gin-gonic/gin"
)

// CompanyHandler handles company (tenant) endpoints
type CompanyHandler struct {
	BaseHandler
	companyService *identityapp.CompanyService
	accessService  *identityapp.AccessService
}

// NewCompanyHandler creates a new CompanyHandler
func NewCompanyHandler(companyService *identityapp.CompanyService, accessService *identityapp.AccessService) *CompanyHandler {
	return &CompanyHandler{
		companyService: companyService,
		accessService:  accessService,
	}
}

// Create creates a company; the creator is enrolled as its OWNER
func (h *CompanyHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req identityapp.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	company, err := h.companyService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, company)
}

// List returns the companies the caller belongs to
func (h *CompanyHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	companies, err := h.companyService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, companies)
}

// resolveForCompany resolves access with the path company as the explicit
// tenant, so membership is verified against the company being addressed
func (h *CompanyHandler) resolveForCompany(c *gin.Context) (identityapp.AccessContext, error) {
	userID, err := getUserID(c)
	if err != nil {
		return identityapp.AccessContext{}, err
	}
	companyID, err := parseIDParam(c, "id")
	if err != nil {
		return identityapp.AccessContext{}, err
	}
	return h.accessService.Resolve(c.Request.Context(), userID, &companyID)
}

// Get returns a company the caller is a member of
func (h *CompanyHandler) Get(c *gin.Context) {
	if _, err := parseIDParam(c, "id"); err != nil {
		h.BadRequest(c, "Invalid company ID format")
		return
	}

	access, err := h.resolveForCompany(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	company, err := h.companyService.Get(c.Request.Context(), access)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, company)
}

// Update renames a company, OWNER only
func (h *CompanyHandler) Update(c *gin.Context) {
	if _, err := parseIDParam(c, "id"); err != nil {
		h.BadRequest(c, "Invalid company ID format")
		return
	}

	var req identityapp.UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	access, err := h.resolveForCompany(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	company, err := h.companyService.Update(c.Request.Context(), access, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, company)
}

// Delete removes a company and everything it owns, OWNER only
func (h *CompanyHandler) Delete(c *gin.Context) {
	if _, err := parseIDParam(c, "id"); err != nil {
		h.BadRequest(c, "Invalid company ID format")
		return
	}

	access, err := h.resolveForCompany(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if err := h.companyService.Delete(c.Request.Context(), access); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers company routes
func (h *CompanyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	companies := rg.Group("/companies")
	{
		companies.POST("", h.Create)
		companies.GET("", h.List)
		companies.GET("/:id", h.Get)
		companies.PUT("/:id", h.Update)
		companies.DELETE("/:id", h.Delete)
	}
}
