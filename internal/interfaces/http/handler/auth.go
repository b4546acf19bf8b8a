package handler

import (
	identityapp "github.com/accounting/backend/internal/application/identity"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	BaseHandler
	authService    *identityapp.AuthService
	companyService *identityapp.CompanyService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *identityapp.AuthService, companyService *identityapp.CompanyService) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		companyService: companyService,
	}
}

// MeResponse carries the authenticated principal and the companies they
// belong to, so clients can offer a company switcher
type MeResponse struct {
	User      identityapp.UserResponse      `json:"user"`
	Companies []identityapp.CompanyResponse `json:"companies"`
}

// Login authenticates with email and password and returns an access token
func (h *AuthHandler) Login(c *gin.Context) {
	var req identityapp.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Me returns the authenticated user and their company memberships
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	user, err := h.authService.Me(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	companies, err := h.companyService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MeResponse{User: *user, Companies: companies})
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.GET("/me", h.Me)
	}
}
