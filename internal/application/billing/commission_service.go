package billing

import (
	"context"
	"errors"

	appidentity "github.com/accounting/backend/internal/application/identity"
	"github.com/accounting/backend/internal/domain/billing"
	"github.com/accounting/backend/internal/domain/identity"
	"github.com/accounting/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CommissionService handles commission snapshots and the payout workflow
type CommissionService struct {
	commissionRepo billing.CommissionRepository
	invoiceRepo    billing.InvoiceRepository
	membershipRepo identity.MembershipRepository
}

// NewCommissionService creates a new CommissionService
func NewCommissionService(commissionRepo billing.CommissionRepository, invoiceRepo billing.InvoiceRepository, membershipRepo identity.MembershipRepository) *CommissionService {
	return &CommissionService{
		commissionRepo: commissionRepo,
		invoiceRepo:    invoiceRepo,
		membershipRepo: membershipRepo,
	}
}

// SnapshotOnPaid records a pending commission for an invoice that just
// became paid. Invoices without a seller earn no commission. A snapshot
// already recorded for the invoice is left untouched, so the paid
// transition can only ever produce one.
func (s *CommissionService) SnapshotOnPaid(ctx context.Context, invoice *billing.Invoice) error {
	if invoice.SoldBy == nil {
		return nil
	}

	if _, err := s.commissionRepo.FindByInvoice(ctx, invoice.CompanyID, invoice.ID); err == nil {
		return nil
	} else if !errors.Is(err, shared.ErrNotFound) {
		return err
	}

	percent, err := s.sellerRate(ctx, invoice.CompanyID, *invoice.SoldBy)
	if err != nil {
		return err
	}

	commission, err := billing.NewCommission(invoice.CompanyID, invoice.ID, invoice.SoldBy, invoice.TotalAmount, percent)
	if err != nil {
		return err
	}
	return s.commissionRepo.Save(ctx, commission)
}

// CreateSnapshot records a commission for a paid invoice on demand. The
// operation is idempotent: an existing commission is returned unchanged.
func (s *CommissionService) CreateSnapshot(ctx context.Context, access appidentity.AccessContext, invoiceID uuid.UUID) (*CommissionResponse, error) {
	if err := access.Require(identity.PermCommissionCreateSnapshot); err != nil {
		return nil, err
	}

	invoice, err := s.invoiceRepo.FindByIDForCompany(ctx, access.CompanyID, invoiceID)
	if err != nil {
		return nil, err
	}

	existing, err := s.commissionRepo.FindByInvoice(ctx, access.CompanyID, invoiceID)
	if err == nil {
		response := ToCommissionResponse(existing)
		return &response, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	if !invoice.IsPaid() {
		return nil, shared.NewDomainError("INVALID_STATE", "Commission snapshots require a paid invoice")
	}
	if invoice.SoldBy == nil {
		return nil, shared.NewDomainError("INVALID_STATE", "Invoice has no seller to earn a commission")
	}

	percent, err := s.sellerRate(ctx, access.CompanyID, *invoice.SoldBy)
	if err != nil {
		return nil, err
	}
	commission, err := billing.NewCommission(access.CompanyID, invoice.ID, invoice.SoldBy, invoice.TotalAmount, percent)
	if err != nil {
		return nil, err
	}
	if err := s.commissionRepo.Save(ctx, commission); err != nil {
		return nil, err
	}

	response := ToCommissionResponse(commission)
	return &response, nil
}

// List retrieves commissions. SALES callers only ever see their own.
func (s *CommissionService) List(ctx context.Context, access appidentity.AccessContext, filter CommissionListFilter) ([]CommissionResponse, int64, error) {
	if err := access.Require(identity.PermCommissionRead); err != nil {
		return nil, 0, err
	}

	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 && filter.PageSize <= 100 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.InvoiceID != nil {
		domainFilter.Filters["invoice_id"] = *filter.InvoiceID
	}
	if access.IsSales() {
		domainFilter.Filters["user_id"] = access.UserID
	} else if filter.UserID != nil {
		domainFilter.Filters["user_id"] = *filter.UserID
	}

	commissions, err := s.commissionRepo.FindAllForCompany(ctx, access.CompanyID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.commissionRepo.CountForCompany(ctx, access.CompanyID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CommissionResponse, 0, len(commissions))
	for i := range commissions {
		responses = append(responses, ToCommissionResponse(&commissions[i]))
	}
	return responses, total, nil
}

// GetByID retrieves a commission. SALES callers may only read their own.
func (s *CommissionService) GetByID(ctx context.Context, access appidentity.AccessContext, commissionID uuid.UUID) (*CommissionResponse, error) {
	if err := access.Require(identity.PermCommissionRead); err != nil {
		return nil, err
	}

	commission, err := s.commissionRepo.FindByIDForCompany(ctx, access.CompanyID, commissionID)
	if err != nil {
		return nil, err
	}
	if access.IsSales() && (commission.UserID == nil || *commission.UserID != access.UserID) {
		return nil, shared.ErrForbidden
	}

	response := ToCommissionResponse(commission)
	return &response, nil
}

// Approve moves a pending commission to approved. Owner only.
func (s *CommissionService) Approve(ctx context.Context, access appidentity.AccessContext, commissionID uuid.UUID) (*CommissionResponse, error) {
	if err := access.Require(identity.PermCommissionApprove); err != nil {
		return nil, err
	}
	return s.advance(ctx, access, commissionID, (*billing.Commission).Approve)
}

// MarkPaid moves an approved commission to paid. Owner only.
func (s *CommissionService) MarkPaid(ctx context.Context, access appidentity.AccessContext, commissionID uuid.UUID) (*CommissionResponse, error) {
	if err := access.Require(identity.PermCommissionMarkPaid); err != nil {
		return nil, err
	}
	return s.advance(ctx, access, commissionID, (*billing.Commission).MarkPaid)
}

// Create records a commission by hand. Owner only.
func (s *CommissionService) Create(ctx context.Context, access appidentity.AccessContext, req CreateCommissionRequest) (*CommissionResponse, error) {
	if err := access.RequireOwner(); err != nil {
		return nil, err
	}

	if _, err := s.invoiceRepo.FindByIDForCompany(ctx, access.CompanyID, req.InvoiceID); err != nil {
		return nil, err
	}

	commission, err := billing.NewCommission(access.CompanyID, req.InvoiceID, req.UserID, req.BaseAmount, req.Percent)
	if err != nil {
		return nil, err
	}
	if err := s.commissionRepo.Save(ctx, commission); err != nil {
		return nil, err
	}

	response := ToCommissionResponse(commission)
	return &response, nil
}

// Update adjusts a commission's rate and recomputes its amount. Owner
// only. Corrections are allowed in any workflow state.
func (s *CommissionService) Update(ctx context.Context, access appidentity.AccessContext, commissionID uuid.UUID, req UpdateCommissionRequest) (*CommissionResponse, error) {
	if err := access.RequireOwner(); err != nil {
		return nil, err
	}

	commission, err := s.commissionRepo.FindByIDForCompany(ctx, access.CompanyID, commissionID)
	if err != nil {
		return nil, err
	}

	if req.Percent != nil {
		amount, err := billing.CalculateCommission(commission.BaseAmount, *req.Percent)
		if err != nil {
			return nil, err
		}
		commission.Percent = *req.Percent
		commission.CommissionAmount = amount
		commission.Touch()
	}

	if err := s.commissionRepo.Save(ctx, commission); err != nil {
		return nil, err
	}

	response := ToCommissionResponse(commission)
	return &response, nil
}

// Delete removes a commission. Owner only.
func (s *CommissionService) Delete(ctx context.Context, access appidentity.AccessContext, commissionID uuid.UUID) error {
	if err := access.RequireOwner(); err != nil {
		return err
	}
	if _, err := s.commissionRepo.FindByIDForCompany(ctx, access.CompanyID, commissionID); err != nil {
		return err
	}
	return s.commissionRepo.DeleteForCompany(ctx, access.CompanyID, commissionID)
}

func (s *CommissionService) advance(ctx context.Context, access appidentity.AccessContext, commissionID uuid.UUID, step func(*billing.Commission) error) (*CommissionResponse, error) {
	commission, err := s.commissionRepo.FindByIDForCompany(ctx, access.CompanyID, commissionID)
	if err != nil {
		return nil, err
	}
	if err := step(commission); err != nil {
		return nil, err
	}
	if err := s.commissionRepo.Save(ctx, commission); err != nil {
		return nil, err
	}

	response := ToCommissionResponse(commission)
	return &response, nil
}

// sellerRate returns the seller's membership commission rate, falling back
// to the default when the seller is no longer a member
func (s *CommissionService) sellerRate(ctx context.Context, companyID, userID uuid.UUID) (decimal.Decimal, error) {
	membership, err := s.membershipRepo.FindByCompanyAndUser(ctx, companyID, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return identity.DefaultCommissionPercent, nil
		}
		return decimal.Zero, err
	}
	return membership.CommissionPercent, nil
}
