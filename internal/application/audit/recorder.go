package audit

import (
	"context"
	"encoding/json"

	"github.com/accounting/backend/internal/domain/audit"
	"github.com/accounting/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recorder writes audit log entries. Recording is best effort: a failure is
// logged and swallowed so the business operation it documents never fails
// because of the trail.
type Recorder struct {
	repo   audit.Repository
	logger *zap.Logger
}

// NewRecorder creates a new Recorder
func NewRecorder(repo audit.Repository, logger *zap.Logger) *Recorder {
	return &Recorder{
		repo:   repo,
		logger: logger,
	}
}

// Record appends an audit entry. oldData and newData are marshalled to JSON;
// nil snapshots are stored as empty.
func (r *Recorder) Record(ctx context.Context, companyID uuid.UUID, userID *uuid.UUID, action, entityType string, entityID uuid.UUID, oldData, newData interface{}) {
	oldJSON := r.marshal(oldData, action, entityType)
	newJSON := r.marshal(newData, action, entityType)

	entry := audit.NewLog(companyID, userID, action, entityType, entityID, oldJSON, newJSON)
	if err := r.repo.Append(ctx, entry); err != nil {
		r.logger.Error("audit log append failed",
			zap.String("action", action),
			zap.String("entity_type", entityType),
			zap.String("entity_id", entityID.String()),
			zap.Error(err))
	}
}

func (r *Recorder) marshal(data interface{}, action, entityType string) string {
	if data == nil {
		return ""
	}
	raw, err := json.Marshal(data)
	if err != nil {
		r.logger.Error("audit snapshot marshal failed",
			zap.String("action", action),
			zap.String("entity_type", entityType),
			zap.Error(err))
		return ""
	}
	return string(raw)
}

// List returns audit entries for a company, newest first
func (r *Recorder) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]LogResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	logs, err := r.repo.FindAllForCompany(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := r.repo.CountForCompany(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]LogResponse, 0, len(logs))
	for i := range logs {
		responses = append(responses, ToLogResponse(&logs[i]))
	}
	return responses, total, nil
}
