package handler

import (
	auditapp "github.com/accounting/backend/internal/application/audit"
	identityapp "github.com/accounting/backend/internal/application/identity"
	"github.com/accounting/backend/internal/domain/identity"
	"github.com/accounting/backend/internal/domain/shared"
	"github.com/accounting/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditHandler handles the audit trail read endpoint
type AuditHandler struct {
	BaseHandler
	recorder      *auditapp.Recorder
	accessService *identityapp.AccessService
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(recorder *auditapp.Recorder, accessService *identityapp.AccessService) *AuditHandler {
	return &AuditHandler{
		recorder:      recorder,
		accessService: accessService,
	}
}

// List returns the company's audit entries, newest first, with optional
// entity_type and entity_id filters
func (h *AuditHandler) List(c *gin.Context) {
	access, err := resolveAccess(c, h.accessService)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if err := access.Require(identity.PermAuditRead); err != nil {
		h.HandleError(c, err)
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	if entityType := c.Query("entity_type"); entityType != "" {
		filter.Filters["entity_type"] = entityType
	}
	if raw := c.Query("entity_id"); raw != "" {
		entityID, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid entity ID format")
			return
		}
		filter.Filters["entity_id"] = entityID
	}

	logs, total, err := h.recorder.List(c.Request.Context(), access.CompanyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, logs, total, filter.Page, filter.PageSize)
}

// RegisterRoutes registers audit routes
func (h *AuditHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/audit-logs", h.List)
}
