package billing

import (
	"time"

	"github.com/accounting/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Invoice DTOs
// =============================================================================

// CreateInvoiceRequest represents a request to create a new invoice
type CreateInvoiceRequest struct {
	CustomerID    uuid.UUID  `json:"customer_id" binding:"required"`
	InvoiceNumber string     `json:"invoice_number" binding:"required,min=1,max=50"`
	SoldByUserID  *uuid.UUID `json:"sold_by_user_id"`
	Status        string     `json:"status"`
}

// UpdateInvoiceRequest represents a request to update an invoice. A status
// value goes through normalization and the forward-only transition check;
// an unrecognized status leaves the current status untouched.
type UpdateInvoiceRequest struct {
	InvoiceNumber *string    `json:"invoice_number" binding:"omitempty,min=1,max=50"`
	CustomerID    *uuid.UUID `json:"customer_id"`
	SoldByUserID  *uuid.UUID `json:"sold_by_user_id"`
	Status        *string    `json:"status"`
}

// InvoiceListFilter carries list query parameters
type InvoiceListFilter struct {
	Page         int        `form:"page"`
	PageSize     int        `form:"page_size"`
	Status       string     `form:"status"`
	CustomerID   *uuid.UUID `form:"customer_id"`
	SoldByUserID *uuid.UUID `form:"sold_by_user_id"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID            uuid.UUID       `json:"id"`
	CompanyID     uuid.UUID       `json:"company_id"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	InvoiceNumber string          `json:"invoice_number"`
	Status        string          `json:"status"`
	SoldByUserID  *uuid.UUID      `json:"sold_by_user_id"`
	CreatedBy     *uuid.UUID      `json:"created_by_user_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	IsLocked      bool            `json:"is_locked"`
	PaidAt        *time.Time      `json:"paid_at"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// ToInvoiceResponse converts a domain Invoice to InvoiceResponse
func ToInvoiceResponse(i *billing.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:            i.ID,
		CompanyID:     i.CompanyID,
		CustomerID:    i.CustomerID,
		InvoiceNumber: i.InvoiceNumber,
		Status:        string(i.Status),
		SoldByUserID:  i.SoldBy,
		CreatedBy:     i.CreatedBy,
		TotalAmount:   i.TotalAmount,
		IsLocked:      i.IsLocked,
		PaidAt:        i.PaidAt,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
		Version:       i.Version,
	}
}

// =============================================================================
// Invoice item DTOs
// =============================================================================

// CreateInvoiceItemRequest represents a request to add a line item. The
// client may claim a total; the server recomputes it and rejects a mismatch.
type CreateInvoiceItemRequest struct {
	Description string           `json:"description" binding:"required,min=1,max=500"`
	Quantity    decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal  `json:"unit_price"`
	Discount    decimal.Decimal  `json:"discount"`
	TotalAmount *decimal.Decimal `json:"total_amount"`
}

// InvoiceItemResponse represents a line item in API responses
type InvoiceItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	InvoiceID   uuid.UUID       `json:"invoice_id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToInvoiceItemResponse converts a domain InvoiceItem to InvoiceItemResponse
func ToInvoiceItemResponse(it *billing.InvoiceItem) InvoiceItemResponse {
	return InvoiceItemResponse{
		ID:          it.ID,
		InvoiceID:   it.InvoiceID,
		Description: it.Description,
		Quantity:    it.Quantity,
		UnitPrice:   it.UnitPrice,
		Discount:    it.Discount,
		TotalAmount: it.TotalAmount,
		CreatedAt:   it.CreatedAt,
	}
}

// =============================================================================
// Commission DTOs
// =============================================================================

// CreateCommissionRequest represents an administrative commission creation
type CreateCommissionRequest struct {
	InvoiceID  uuid.UUID       `json:"invoice_id" binding:"required"`
	UserID     *uuid.UUID      `json:"user_id"`
	BaseAmount decimal.Decimal `json:"base_amount"`
	Percent    decimal.Decimal `json:"percent"`
}

// UpdateCommissionRequest adjusts a pending commission's rate
type UpdateCommissionRequest struct {
	Percent *decimal.Decimal `json:"percent"`
}

// CommissionListFilter carries list query parameters
type CommissionListFilter struct {
	Page      int        `form:"page"`
	PageSize  int        `form:"page_size"`
	Status    string     `form:"status"`
	UserID    *uuid.UUID `form:"user_id"`
	InvoiceID *uuid.UUID `form:"invoice_id"`
}

// CommissionResponse represents a commission in API responses
type CommissionResponse struct {
	ID               uuid.UUID       `json:"id"`
	CompanyID        uuid.UUID       `json:"company_id"`
	InvoiceID        uuid.UUID       `json:"invoice_id"`
	UserID           *uuid.UUID      `json:"user_id"`
	BaseAmount       decimal.Decimal `json:"base_amount"`
	Percent          decimal.Decimal `json:"percent"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	Status           string          `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ToCommissionResponse converts a domain Commission to CommissionResponse
func ToCommissionResponse(c *billing.Commission) CommissionResponse {
	return CommissionResponse{
		ID:               c.ID,
		CompanyID:        c.CompanyID,
		InvoiceID:        c.InvoiceID,
		UserID:           c.UserID,
		BaseAmount:       c.BaseAmount,
		Percent:          c.Percent,
		CommissionAmount: c.CommissionAmount,
		Status:           string(c.Status),
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}
