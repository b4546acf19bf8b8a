package identity

import (
	"time"

	"github.com/accounting/backend/internal/domain/identity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Auth DTOs
// =============================================================================

// RegisterRequest represents a request to register a new user
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=200"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	FullName string `json:"full_name" binding:"required,min=1,max=200"`
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued access token
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	User        UserResponse `json:"user"`
}

// =============================================================================
// User DTOs
// =============================================================================

// UpdateUserRequest represents a request to update a user's profile
type UpdateUserRequest struct {
	Email    *string `json:"email" binding:"omitempty,email,max=200"`
	FullName *string `json:"full_name" binding:"omitempty,min=1,max=200"`
	Password *string `json:"password" binding:"omitempty,min=8,max=72"`
	IsActive *bool   `json:"is_active"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToUserResponse converts a domain User to UserResponse
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// CompanyUserResponse joins a user with their membership in one company
type CompanyUserResponse struct {
	ID                uuid.UUID       `json:"id"`
	Email             string          `json:"email"`
	FullName          string          `json:"full_name"`
	IsActive          bool            `json:"is_active"`
	Role              string          `json:"role"`
	CommissionPercent decimal.Decimal `json:"commission_percent"`
	CreatedAt         time.Time       `json:"created_at"`
}

// ToCompanyUserResponse converts a user and their membership to CompanyUserResponse
func ToCompanyUserResponse(u *identity.User, m *identity.Membership) CompanyUserResponse {
	return CompanyUserResponse{
		ID:                u.ID,
		Email:             u.Email,
		FullName:          u.FullName,
		IsActive:          u.IsActive,
		Role:              string(m.Role),
		CommissionPercent: m.CommissionPercent,
		CreatedAt:         u.CreatedAt,
	}
}

// =============================================================================
// Company DTOs
// =============================================================================

// CreateCompanyRequest represents a request to create a company
type CreateCompanyRequest struct {
	Name string `json:"name" binding:"required,min=1,max=200"`
}

// UpdateCompanyRequest represents a request to rename a company
type UpdateCompanyRequest struct {
	Name string `json:"name" binding:"required,min=1,max=200"`
}

// CompanyResponse represents a company in API responses
type CompanyResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToCompanyResponse converts a domain Company to CompanyResponse
func ToCompanyResponse(c *identity.Company) CompanyResponse {
	return CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// =============================================================================
// Membership DTOs
// =============================================================================

// CreateMembershipRequest enrolls a user into a company
type CreateMembershipRequest struct {
	UserID            uuid.UUID        `json:"user_id" binding:"required"`
	Role              string           `json:"role" binding:"required,oneof=OWNER ACCOUNTANT SALES"`
	CommissionPercent *decimal.Decimal `json:"commission_percent"`
}

// UpdateMembershipRequest changes a member's role or commission rate
type UpdateMembershipRequest struct {
	Role              *string          `json:"role" binding:"omitempty,oneof=OWNER ACCOUNTANT SALES"`
	CommissionPercent *decimal.Decimal `json:"commission_percent"`
}

// MembershipResponse represents a membership in API responses
type MembershipResponse struct {
	ID                uuid.UUID       `json:"id"`
	CompanyID         uuid.UUID       `json:"company_id"`
	UserID            uuid.UUID       `json:"user_id"`
	Role              string          `json:"role"`
	CommissionPercent decimal.Decimal `json:"commission_percent"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ToMembershipResponse converts a domain Membership to MembershipResponse
func ToMembershipResponse(m *identity.Membership) MembershipResponse {
	return MembershipResponse{
		ID:                m.ID,
		CompanyID:         m.CompanyID,
		UserID:            m.UserID,
		Role:              string(m.Role),
		CommissionPercent: m.CommissionPercent,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}
