package handler

import (
	identityapp "github.com/accounting/backend/internal/application/identity"
	"github.com/accounting/backend/internal/domain/shared"
	"github.com/accounting/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// MembershipHandler handles company membership endpoints
type MembershipHandler struct {
	BaseHandler
	membershipService *identityapp.MembershipService
	accessService     *identityapp.AccessService
}

// NewMembershipHandler creates a new MembershipHandler
func NewMembershipHandler(membershipService *identityapp.MembershipService, accessService *identityapp.AccessService) *MembershipHandler {
	return &MembershipHandler{
		membershipService: membershipService,
		accessService:     accessService,
	}
}

// Add enrolls a user into the caller's company, OWNER only
func (h *MembershipHandler) Add(c *gin.Context) {
	access, err := resolveAccess(c, h.accessService)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req identityapp.CreateMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	membership, err := h.membershipService.Add(c.Request.Context(), access, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, membership)
}

// List returns the members of the caller's company
func (h *MembershipHandler) List(c *gin.Context) {
	access, err := resolveAccess(c, h.accessService)
	if err != nil {
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
	if role := c.Query("role"); role != "" {
		filter.Filters["role"] = role
	}

	memberships, err := h.membershipService.List(c.Request.Context(), access, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, memberships)
}

// Update changes a member's role or commission rate, OWNER only
func (h *MembershipHandler) Update(c *gin.Context) {
	membershipID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid membership ID format")
		return
	}

	var req identityapp.UpdateMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	access, err := resolveAccess(c, h.accessService)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	membership, err := h.membershipService.Update(c.Request.Context(), access, membershipID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, membership)
}

// Remove drops a member from the caller's company, OWNER only
func (h *MembershipHandler) Remove(c *gin.Context) {
	membershipID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid membership ID format")
		return
	}

	access, err := resolveAccess(c, h.accessService)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if err := h.membershipService.Remove(c.Request.Context(), access, membershipID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers membership routes
func (h *MembershipHandler) RegisterRoutes(rg *gin.RouterGroup) {
	members := rg.Group("/members")
	{
		members.POST("", h.Add)
		members.GET("", h.List)
		members.PUT("/:id", h.Update)
		members.DELETE("/:id", h.Remove)
	}
}
