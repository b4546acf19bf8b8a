package billing

import (
	"context"
	"time"

	appaudit "github.com/accounting/backend/internal/application/audit"
	appidentity "github.com/accounting/backend/internal/application/identity"
	"github.com/accounting/backend/internal/domain/audit"
	"github.com/accounting/backend/internal/domain/billing"
	"github.com/accounting/backend/internal/domain/identity"
	"github.com/accounting/backend/internal/domain/partner"
	"github.com/accounting/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const invoiceEntityType = "invoice"

// Snapshotter records a commission for an invoice that just became paid.
// Implemented by CommissionService; an interface here keeps the invoice
// lifecycle testable on its own.
type Snapshotter interface {
	SnapshotOnPaid(ctx context.Context, invoice *billing.Invoice) error
}

// InvoiceService handles the invoice lifecycle. The paid transition is the
// sensitive path: the status flip is a store-level check-and-set, and the
// commission snapshot hangs off its result so concurrent updates cannot
// produce two snapshots.
type InvoiceService struct {
	invoiceRepo    billing.InvoiceRepository
	customerRepo   partner.CustomerRepository
	membershipRepo identity.MembershipRepository
	snapshotter    Snapshotter
	recorder       *appaudit.Recorder
	logger         *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo billing.InvoiceRepository,
	customerRepo partner.CustomerRepository,
	membershipRepo identity.MembershipRepository,
	snapshotter Snapshotter,
	recorder *appaudit.Recorder,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:    invoiceRepo,
		customerRepo:   customerRepo,
		membershipRepo: membershipRepo,
		snapshotter:    snapshotter,
		recorder:       recorder,
		logger:         logger,
	}
}

// Create creates a new invoice. The customer must belong to the company and
// the seller, when given, must be a member.
func (s *InvoiceService) Create(ctx context.Context, access appidentity.AccessContext, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	if err := access.Require(identity.PermInvoiceCreate); err != nil {
		return nil, err
	}

	if _, err := s.customerRepo.FindByIDForCompany(ctx, access.CompanyID, req.CustomerID); err != nil {
		return nil, err
	}
	if req.SoldByUserID != nil {
		if _, err := s.membershipRepo.FindByCompanyAndUser(ctx, access.CompanyID, *req.SoldByUserID); err != nil {
			return nil, err
		}
	}

	taken, err := s.invoiceRepo.ExistsByNumber(ctx, access.CompanyID, req.InvoiceNumber)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Invoice number already in use")
	}

	invoice, err := billing.NewInvoice(access.CompanyID, req.CustomerID, access.UserID, req.InvoiceNumber, req.SoldByUserID)
	if err != nil {
		return nil, err
	}
	// the initial status goes through the same normalization as updates;
	// unrecognized input leaves the invoice in draft
	if req.Status != "" {
		if target, ok := billing.NormalizeStatus(req.Status); ok && target != billing.InvoiceStatusDraft {
			if _, err := invoice.TransitionTo(target); err != nil {
				return nil, err
			}
		}
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	s.recorder.Record(ctx, access.CompanyID, &access.UserID, audit.ActionCreate, invoiceEntityType, invoice.ID, nil, response)

	if invoice.IsPaid() {
		s.snapshotBestEffort(ctx, invoice)
	}
	return &response, nil
}

// GetByID retrieves an invoice. SALES callers may only read their own sales.
func (s *InvoiceService) GetByID(ctx context.Context, access appidentity.AccessContext, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.findReadable(ctx, access, invoiceID)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// List retrieves invoices with filtering and pagination. SALES callers are
// always restricted to invoices they sold, regardless of requested filters.
func (s *InvoiceService) List(ctx context.Context, access appidentity.AccessContext, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	if err := access.Require(identity.PermInvoiceRead); err != nil {
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
		if status, ok := billing.NormalizeStatus(filter.Status); ok {
			domainFilter.Filters["status"] = string(status)
		}
	}
	if filter.CustomerID != nil {
		domainFilter.Filters["customer_id"] = *filter.CustomerID
	}
	if access.IsSales() {
		domainFilter.Filters["sold_by_user_id"] = access.UserID
	} else if filter.SoldByUserID != nil {
		domainFilter.Filters["sold_by_user_id"] = *filter.SoldByUserID
	}

	invoices, err := s.invoiceRepo.FindAllForCompany(ctx, access.CompanyID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.invoiceRepo.CountForCompany(ctx, access.CompanyID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		responses = append(responses, ToInvoiceResponse(&invoices[i]))
	}
	return responses, total, nil
}

// Update mutates an invoice. Status input is normalized first; unrecognized
// values leave the status untouched, and a backward transition fails before
// anything is persisted. When the update takes the invoice to paid, the flip
// happens through the store's check-and-set and only the request that wins
// it triggers the commission snapshot.
func (s *InvoiceService) Update(ctx context.Context, access appidentity.AccessContext, invoiceID uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	if err := access.Require(identity.PermInvoiceUpdate); err != nil {
		return nil, err
	}

	invoice, err := s.invoiceRepo.FindByIDForCompany(ctx, access.CompanyID, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := s.checkLockGate(access, invoice); err != nil {
		return nil, err
	}
	before := ToInvoiceResponse(invoice)

	var target billing.InvoiceStatus
	hasTarget := false
	if req.Status != nil {
		target, hasTarget = billing.NormalizeStatus(*req.Status)
		if hasTarget {
			if err := invoice.CanTransitionTo(target); err != nil {
				return nil, err
			}
		}
	}

	if req.InvoiceNumber != nil && *req.InvoiceNumber != invoice.InvoiceNumber {
		taken, err := s.invoiceRepo.ExistsByNumber(ctx, access.CompanyID, *req.InvoiceNumber)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Invoice number already in use")
		}
		if err := invoice.SetNumber(*req.InvoiceNumber); err != nil {
			return nil, err
		}
	}
	if req.CustomerID != nil && *req.CustomerID != invoice.CustomerID {
		if _, err := s.customerRepo.FindByIDForCompany(ctx, access.CompanyID, *req.CustomerID); err != nil {
			return nil, err
		}
		invoice.AssignCustomer(*req.CustomerID)
	}
	if req.SoldByUserID != nil {
		if _, err := s.membershipRepo.FindByCompanyAndUser(ctx, access.CompanyID, *req.SoldByUserID); err != nil {
			return nil, err
		}
		invoice.AssignSeller(req.SoldByUserID)
	}

	// non-paid transitions are plain field changes
	if hasTarget && target != billing.InvoiceStatusPaid {
		if _, err := invoice.TransitionTo(target); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	if hasTarget && target == billing.InvoiceStatusPaid && !invoice.IsPaid() {
		now := time.Now()
		becamePaid, err := s.invoiceRepo.MarkPaid(ctx, access.CompanyID, invoice.ID, now)
		if err != nil {
			return nil, err
		}
		invoice.Status = billing.InvoiceStatusPaid
		invoice.PaidAt = &now
		if becamePaid {
			s.snapshotBestEffort(ctx, invoice)
		}
	}

	response := ToInvoiceResponse(invoice)
	s.recorder.Record(ctx, access.CompanyID, &access.UserID, audit.ActionUpdate, invoiceEntityType, invoice.ID, before, response)
	return &response, nil
}

// Delete removes an invoice with its items and commissions. On top of the
// permission gate, an accountant may never delete a paid invoice and a
// locked invoice is deletable only by the owner.
func (s *InvoiceService) Delete(ctx context.Context, access appidentity.AccessContext, invoiceID uuid.UUID) error {
	if err := access.Require(identity.PermInvoiceDelete); err != nil {
		return err
	}

	invoice, err := s.invoiceRepo.FindByIDForCompany(ctx, access.CompanyID, invoiceID)
	if err != nil {
		return err
	}
	if access.Role == identity.RoleAccountant && invoice.IsPaid() {
		return shared.NewDomainError("FORBIDDEN", "Accountants cannot delete paid invoices")
	}
	if invoice.IsLocked && access.Role != identity.RoleOwner {
		return shared.NewDomainError("FORBIDDEN", "Only the owner can delete a locked invoice")
	}

	if err := s.invoiceRepo.DeleteCascade(ctx, access.CompanyID, invoiceID); err != nil {
		return err
	}

	s.recorder.Record(ctx, access.CompanyID, &access.UserID, audit.ActionDelete, invoiceEntityType, invoiceID, ToInvoiceResponse(invoice), nil)
	return nil
}

// Lock marks an invoice as locked. Owner only.
func (s *InvoiceService) Lock(ctx context.Context, access appidentity.AccessContext, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	return s.setLock(ctx, access, invoiceID, identity.PermInvoiceLock, true)
}

// Unlock releases an invoice lock. Owner only.
func (s *InvoiceService) Unlock(ctx context.Context, access appidentity.AccessContext, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	return s.setLock(ctx, access, invoiceID, identity.PermInvoiceUnlock, false)
}

// AddItem appends a line item. The item total is recomputed server-side; a
// claimed total that disagrees is rejected. The parent invoice total is
// updated in the same transaction as the insert.
func (s *InvoiceService) AddItem(ctx context.Context, access appidentity.AccessContext, invoiceID uuid.UUID, req CreateInvoiceItemRequest) (*InvoiceItemResponse, error) {
	if err := access.Require(identity.PermInvoiceCreate); err != nil {
		return nil, err
	}

	invoice, err := s.invoiceRepo.FindByIDForCompany(ctx, access.CompanyID, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := s.checkLockGate(access, invoice); err != nil {
		return nil, err
	}

	item, err := billing.NewInvoiceItem(invoice.ID, req.Description, req.Quantity, req.UnitPrice, req.Discount)
	if err != nil {
		return nil, err
	}
	if req.TotalAmount != nil {
		if err := item.VerifyClaimedTotal(*req.TotalAmount); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.AddItem(ctx, access.CompanyID, item); err != nil {
		return nil, err
	}

	response := ToInvoiceItemResponse(item)
	s.recorder.Record(ctx, access.CompanyID, &access.UserID, audit.ActionCreate, "invoice_item", item.ID, nil, response)
	return &response, nil
}

// ListItems lists an invoice's line items, honoring SALES scoping on the
// parent invoice
func (s *InvoiceService) ListItems(ctx context.Context, access appidentity.AccessContext, invoiceID uuid.UUID) ([]InvoiceItemResponse, error) {
	invoice, err := s.findReadable(ctx, access, invoiceID)
	if err != nil {
		return nil, err
	}

	items, err := s.invoiceRepo.FindItems(ctx, invoice.ID)
	if err != nil {
		return nil, err
	}

	responses := make([]InvoiceItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, ToInvoiceItemResponse(&items[i]))
	}
	return responses, nil
}

func (s *InvoiceService) setLock(ctx context.Context, access appidentity.AccessContext, invoiceID uuid.UUID, perm identity.Permission, locked bool) (*InvoiceResponse, error) {
	if err := access.Require(perm); err != nil {
		return nil, err
	}

	invoice, err := s.invoiceRepo.FindByIDForCompany(ctx, access.CompanyID, invoiceID)
	if err != nil {
		return nil, err
	}
	before := ToInvoiceResponse(invoice)

	action := audit.ActionLock
	if locked {
		invoice.Lock()
	} else {
		invoice.Unlock()
		action = audit.ActionUnlock
	}
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	s.recorder.Record(ctx, access.CompanyID, &access.UserID, action, invoiceEntityType, invoice.ID, before, response)
	return &response, nil
}

// findReadable loads an invoice and enforces read permission plus SALES
// own-records scoping
func (s *InvoiceService) findReadable(ctx context.Context, access appidentity.AccessContext, invoiceID uuid.UUID) (*billing.Invoice, error) {
	if err := access.Require(identity.PermInvoiceRead); err != nil {
		return nil, err
	}
	invoice, err := s.invoiceRepo.FindByIDForCompany(ctx, access.CompanyID, invoiceID)
	if err != nil {
		return nil, err
	}
	if access.IsSales() && (invoice.SoldBy == nil || *invoice.SoldBy != access.UserID) {
		return nil, shared.ErrForbidden
	}
	return invoice, nil
}

// checkLockGate rejects mutation of a locked invoice by anyone but the owner
func (s *InvoiceService) checkLockGate(access appidentity.AccessContext, invoice *billing.Invoice) error {
	if invoice.IsLocked && access.Role != identity.RoleOwner {
		return shared.NewDomainError("FORBIDDEN", "Only the owner can modify a locked invoice")
	}
	return nil
}

// snapshotBestEffort records the commission for a freshly paid invoice.
// Failures are logged and swallowed; the paid transition already happened
// and must not be rolled back by a snapshot problem.
func (s *InvoiceService) snapshotBestEffort(ctx context.Context, invoice *billing.Invoice) {
	if err := s.snapshotter.SnapshotOnPaid(ctx, invoice); err != nil {
		s.logger.Error("commission snapshot failed",
			zap.String("invoice_id", invoice.ID.String()),
			zap.String("company_id", invoice.CompanyID.String()),
			zap.Error(err))
	}
}
