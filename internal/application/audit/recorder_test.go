package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/accounting/backend/internal/domain/audit"
	"github.com/accounting/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockAuditRepository is a mock implementation of audit.Repository
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Append(ctx context.Context, log *audit.Log) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockAuditRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]audit.Log, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).([]audit.Log), args.Error(1)
}

func (m *MockAuditRepository) CountForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func TestRecorder_Record(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	userID := uuid.New()
	entityID := uuid.New()

	t.Run("appends a serialized entry", func(t *testing.T) {
		repo := new(MockAuditRepository)
		var appended *audit.Log
		repo.On("Append", ctx, mock.AnythingOfType("*audit.Log")).
			Run(func(args mock.Arguments) {
				appended = args.Get(1).(*audit.Log)
			}).
			Return(nil)

		rec := NewRecorder(repo, zap.NewNop())
		rec.Record(ctx, companyID, &userID, audit.ActionUpdate, "invoice", entityID,
			map[string]string{"status": "draft"},
			map[string]string{"status": "issued"},
		)

		require.NotNil(t, appended)
		assert.Equal(t, companyID, appended.CompanyID)
		assert.Equal(t, audit.ActionUpdate, appended.Action)
		assert.JSONEq(t, `{"status":"draft"}`, appended.OldData)
		assert.JSONEq(t, `{"status":"issued"}`, appended.NewData)
	})

	t.Run("nil snapshots are stored empty", func(t *testing.T) {
		repo := new(MockAuditRepository)
		var appended *audit.Log
		repo.On("Append", ctx, mock.AnythingOfType("*audit.Log")).
			Run(func(args mock.Arguments) {
				appended = args.Get(1).(*audit.Log)
			}).
			Return(nil)

		rec := NewRecorder(repo, zap.NewNop())
		rec.Record(ctx, companyID, nil, audit.ActionDelete, "customer", entityID, map[string]string{"name": "x"}, nil)

		require.NotNil(t, appended)
		assert.Empty(t, appended.NewData)
		assert.Nil(t, appended.UserID)
	})

	t.Run("append failure is swallowed", func(t *testing.T) {
		repo := new(MockAuditRepository)
		repo.On("Append", ctx, mock.AnythingOfType("*audit.Log")).Return(errors.New("db down"))

		rec := NewRecorder(repo, zap.NewNop())
		assert.NotPanics(t, func() {
			rec.Record(ctx, companyID, &userID, audit.ActionCreate, "product", entityID, nil, map[string]string{"sku": "A"})
		})
	})
}

func TestRecorder_List(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	entry := audit.NewLog(companyID, nil, audit.ActionCreate, "invoice", uuid.New(), "", `{"status":"draft"}`)

	repo := new(MockAuditRepository)
	repo.On("FindAllForCompany", ctx, companyID, mock.Anything).Return([]audit.Log{*entry}, nil)
	repo.On("CountForCompany", ctx, companyID, mock.Anything).Return(int64(1), nil)

	rec := NewRecorder(repo, zap.NewNop())
	logs, total, err := rec.List(ctx, companyID, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, logs, 1)
	assert.Equal(t, "invoice", logs[0].EntityType)
}
