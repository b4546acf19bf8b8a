package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDraftInvoice(t *testing.T) *Invoice {
	t.Helper()
	inv, err := NewInvoice(uuid.New(), uuid.New(), uuid.New(), "INV-001", nil)
	require.NoError(t, err)
	return inv
}

func TestNormalizeStatus(t *testing.T) {
	cases := map[string]InvoiceStatus{
		"draft":   InvoiceStatusDraft,
		"sent":    InvoiceStatusIssued,
		"issued":  InvoiceStatusIssued,
		"overdue": InvoiceStatusIssued,
		"paid":    InvoiceStatusPaid,
		"PAID":    InvoiceStatusPaid,
		" Draft ": InvoiceStatusDraft,
	}
	for raw, want := range cases {
		got, ok := NormalizeStatus(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}

	_, ok := NormalizeStatus("cancelled")
	assert.False(t, ok)
	_, ok = NormalizeStatus("")
	assert.False(t, ok)
}

func TestInvoice_TransitionTo(t *testing.T) {
	t.Run("draft to issued to paid", func(t *testing.T) {
		inv := newDraftInvoice(t)

		becamePaid, err := inv.TransitionTo(InvoiceStatusIssued)
		require.NoError(t, err)
		assert.False(t, becamePaid)
		assert.Equal(t, InvoiceStatusIssued, inv.Status)
		assert.Nil(t, inv.PaidAt)

		becamePaid, err = inv.TransitionTo(InvoiceStatusPaid)
		require.NoError(t, err)
		assert.True(t, becamePaid)
		assert.NotNil(t, inv.PaidAt)
	})

	t.Run("skipping issued is allowed", func(t *testing.T) {
		inv := newDraftInvoice(t)
		becamePaid, err := inv.TransitionTo(InvoiceStatusPaid)
		require.NoError(t, err)
		assert.True(t, becamePaid)
	})

	t.Run("same state is a no-op", func(t *testing.T) {
		inv := newDraftInvoice(t)
		becamePaid, err := inv.TransitionTo(InvoiceStatusDraft)
		require.NoError(t, err)
		assert.False(t, becamePaid)
	})

	t.Run("backward transition is rejected", func(t *testing.T) {
		inv := newDraftInvoice(t)
		_, err := inv.TransitionTo(InvoiceStatusPaid)
		require.NoError(t, err)

		_, err = inv.TransitionTo(InvoiceStatusDraft)
		assert.Error(t, err)
		_, err = inv.TransitionTo(InvoiceStatusIssued)
		assert.Error(t, err)
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
	})

	t.Run("paid is reported exactly once", func(t *testing.T) {
		inv := newDraftInvoice(t)
		becamePaid, err := inv.TransitionTo(InvoiceStatusPaid)
		require.NoError(t, err)
		assert.True(t, becamePaid)

		becamePaid, err = inv.TransitionTo(InvoiceStatusPaid)
		require.NoError(t, err)
		assert.False(t, becamePaid)
	})
}

func TestInvoice_Lock(t *testing.T) {
	inv := newDraftInvoice(t)
	assert.False(t, inv.IsLocked)

	inv.Lock()
	assert.True(t, inv.IsLocked)

	// lock is orthogonal to status
	_, err := inv.TransitionTo(InvoiceStatusIssued)
	require.NoError(t, err)
	assert.True(t, inv.IsLocked)

	inv.Unlock()
	assert.False(t, inv.IsLocked)
}

func TestInvoice_RecalculateTotal(t *testing.T) {
	inv := newDraftInvoice(t)

	a, err := NewInvoiceItem(inv.ID, "widgets", decimal.NewFromInt(7), decimal.RequireFromString("49.99"), decimal.RequireFromString("17.43"))
	require.NoError(t, err)
	b, err := NewInvoiceItem(inv.ID, "setup fee", decimal.NewFromInt(1), decimal.RequireFromString("100.00"), decimal.Zero)
	require.NoError(t, err)

	inv.RecalculateTotal([]InvoiceItem{*a, *b})
	assert.Equal(t, "432.50", inv.TotalAmount.StringFixed(2))
}
