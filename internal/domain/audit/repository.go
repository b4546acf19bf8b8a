package audit

import (
	"context"

	"github.com/accounting/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the interface for audit log persistence
type Repository interface {
	// Append inserts a log entry
	Append(ctx context.Context, log *Log) error

	// FindAllForCompany lists log entries for a company, newest first.
	// Supported filter keys: entity_type, entity_id.
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Log, error)

	// CountForCompany counts log entries for a company
	CountForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error)
}
