package handler

import (
	identityapp "github.com/accounting/backend/internal/application/identity"
	"github.com/accounting/backend/internal/domain/shared"
	"github.com/accounting/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserHandler handles user management endpoints. Users are global
// aggregates; the write operations are gated on the caller's role in the
// resolved company, except that users may always read and update themselves.
type UserHandler struct {
	BaseHandler
	userService   *identityapp.UserService
	authService   *identityapp.AuthService
	accessService *identityapp.AccessService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identityapp.UserService, authService *identityapp.AuthService, accessService *identityapp.AccessService) *UserHandler {
	return &UserHandler{
		userService:   userService,
		authService:   authService,
		accessService: accessService,
	}
}

// Create registers a new user account, OWNER only
func (h *UserHandler) Create(c *gin.Context) {
	access, err := resolveAccess(c, h.accessService)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if err := access.RequireOwner(); err != nil {
		h.HandleError(c, err)
		return
	}

	var req identityapp.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, user)
}

// List returns the users of the caller's company with their roles
func (h *UserHandler) List(c *gin.Context) {
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
	filter.Search = req.Search

	users, err := h.userService.ListForCompany(c.Request.Context(), access, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, users)
}

// authorizeSelfOrOwner allows the caller through when acting on their own
// account; anyone else must be an OWNER in the resolved company
func (h *UserHandler) authorizeSelfOrOwner(c *gin.Context, targetID uuid.UUID) error {
	callerID, err := getUserID(c)
	if err != nil {
		return err
	}
	if callerID == targetID {
		return nil
	}
	access, err := resolveAccess(c, h.accessService)
	if err != nil {
		return err
	}
	return access.RequireOwner()
}

// Get returns a user, self or OWNER
func (h *UserHandler) Get(c *gin.Context) {
	targetID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	if err := h.authorizeSelfOrOwner(c, targetID); err != nil {
		h.HandleError(c, err)
		return
	}

	user, err := h.userService.Get(c.Request.Context(), targetID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// Update changes a user's profile, self or OWNER
func (h *UserHandler) Update(c *gin.Context) {
	targetID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	var req identityapp.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.authorizeSelfOrOwner(c, targetID); err != nil {
		h.HandleError(c, err)
		return
	}

	user, err := h.userService.Update(c.Request.Context(), targetID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// Delete removes a user account, OWNER only. Financial records referencing
// the user survive with their attribution nulled.
func (h *UserHandler) Delete(c *gin.Context) {
	targetID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	access, err := resolveAccess(c, h.accessService)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if err := access.RequireOwner(); err != nil {
		h.HandleError(c, err)
		return
	}

	if err := h.userService.Delete(c.Request.Context(), targetID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers user routes
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		users.POST("", h.Create)
		users.GET("", h.List)
		users.GET("/:id", h.Get)
		users.PUT("/:id", h.Update)
		users.DELETE("/:id", h.Delete)
	}
}
