package handler

import (
	"net/http"
	"testing"

	"github.com/accounting/backend/internal/domain/identity"
	"github.com/accounting/backend/internal/domain/partner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// invoiceFixture seeds a company with an owner, an accountant, a salesperson
// at a 15 percent rate, and one customer
type invoiceFixture struct {
	app        *testApp
	companyID  string
	customerID string
	owner      string
	accountant string
	sales      string
	salesID    string
}

func newInvoiceFixture(t *testing.T) *invoiceFixture {
	t.Helper()
	app := newTestApp(t)

	company := app.createCompany(t, "Acme")
	owner := app.createUser(t, "owner@example.com")
	accountant := app.createUser(t, "accountant@example.com")
	sales := app.createUser(t, "sales@example.com")
	app.enroll(t, company, owner, identity.RoleOwner, "0")
	app.enroll(t, company, accountant, identity.RoleAccountant, "0")
	app.enroll(t, company, sales, identity.RoleSales, "15")

	customer, err := partner.NewCustomer(company.ID, "Jane Smith", "", "jane@example.com")
	require.NoError(t, err)
	require.NoError(t, app.db.Create(customer).Error)

	return &invoiceFixture{
		app:        app,
		companyID:  company.ID.String(),
		customerID: customer.ID.String(),
		owner:      app.token(t, owner),
		accountant: app.token(t, accountant),
		sales:      app.token(t, sales),
		salesID:    sales.ID.String(),
	}
}

func (f *invoiceFixture) createInvoice(t *testing.T, number string) string {
	t.Helper()
	rec := f.app.request(t, http.MethodPost, "/api/v1/invoices", f.owner, "", map[string]any{
		"customer_id":     f.customerID,
		"invoice_number":  number,
		"sold_by_user_id": f.salesID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return dataField(t, rec)["id"].(string)
}

func TestInvoiceHandler_CreateAndItemTotals(t *testing.T) {
	f := newInvoiceFixture(t)
	invoiceID := f.createInvoice(t, "INV-001")

	rec := f.app.request(t, http.MethodPost, "/api/v1/invoices/"+invoiceID+"/items", f.owner, "", map[string]any{
		"description": "Consulting",
		"quantity":    "7",
		"unit_price":  "49.99",
		"discount":    "17.43",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "332.5", dataField(t, rec)["total_amount"])

	rec = f.app.request(t, http.MethodGet, "/api/v1/invoices/"+invoiceID, f.owner, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "332.5", dataField(t, rec)["total_amount"])

	t.Run("a wrong client-claimed total is rejected", func(t *testing.T) {
		rec := f.app.request(t, http.MethodPost, "/api/v1/invoices/"+invoiceID+"/items", f.owner, "", map[string]any{
			"description":  "Mismatch",
			"quantity":     "2",
			"unit_price":   "10.00",
			"total_amount": "25.00",
		})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "ERR_TOTAL_MISMATCH", errorCode(t, rec))
	})

	t.Run("duplicate invoice numbers are rejected per company", func(t *testing.T) {
		rec := f.app.request(t, http.MethodPost, "/api/v1/invoices", f.owner, "", map[string]any{
			"customer_id":    f.customerID,
			"invoice_number": "INV-001",
		})
		require.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestInvoiceHandler_PaidTransitionSnapshotsCommission(t *testing.T) {
	f := newInvoiceFixture(t)
	invoiceID := f.createInvoice(t, "INV-001")

	rec := f.app.request(t, http.MethodPost, "/api/v1/invoices/"+invoiceID+"/items", f.owner, "", map[string]any{
		"description": "License",
		"quantity":    "1",
		"unit_price":  "333.33",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.app.request(t, http.MethodPut, "/api/v1/invoices/"+invoiceID, f.owner, "", map[string]any{
		"status": "paid",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "paid", dataField(t, rec)["status"])
	assert.NotNil(t, dataField(t, rec)["paid_at"])

	// One commission at the seller's snapshot rate: 333.33 * 15% = 50.00
	rec = f.app.request(t, http.MethodGet, "/api/v1/commissions", f.owner, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	commissions := dataList(t, rec)
	require.Len(t, commissions, 1)
	commission := commissions[0].(map[string]any)
	assert.Equal(t, "50", commission["commission_amount"])
	assert.Equal(t, "PENDING", commission["status"])

	t.Run("paying again does not duplicate the snapshot", func(t *testing.T) {
		rec := f.app.request(t, http.MethodPut, "/api/v1/invoices/"+invoiceID, f.owner, "", map[string]any{
			"status": "paid",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = f.app.request(t, http.MethodGet, "/api/v1/commissions", f.owner, "", nil)
		require.Len(t, dataList(t, rec), 1)
	})

	t.Run("a manual snapshot returns the existing commission", func(t *testing.T) {
		rec := f.app.request(t, http.MethodPost, "/api/v1/invoices/"+invoiceID+"/commission-snapshot", f.accountant, "", nil)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, commission["id"], dataField(t, rec)["id"])
	})

	t.Run("a paid invoice cannot go back to draft", func(t *testing.T) {
		rec := f.app.request(t, http.MethodPut, "/api/v1/invoices/"+invoiceID, f.owner, "", map[string]any{
			"status": "draft",
		})
		require.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "ERR_INVALID_STATE", errorCode(t, rec))
	})
}

func TestInvoiceHandler_LockGate(t *testing.T) {
	f := newInvoiceFixture(t)
	invoiceID := f.createInvoice(t, "INV-001")

	t.Run("only the owner may lock", func(t *testing.T) {
		rec := f.app.request(t, http.MethodPost, "/api/v1/invoices/"+invoiceID+"/lock", f.accountant, "", nil)
		require.Equal(t, http.StatusForbidden, rec.Code)

		rec = f.app.request(t, http.MethodPost, "/api/v1/invoices/"+invoiceID+"/lock", f.owner, "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, dataField(t, rec)["is_locked"])
	})

	item := map[string]any{
		"description": "Blocked",
		"quantity":    "1",
		"unit_price":  "10.00",
	}

	t.Run("a locked invoice rejects non-owner item writes", func(t *testing.T) {
		rec := f.app.request(t, http.MethodPost, "/api/v1/invoices/"+invoiceID+"/items", f.accountant, "", item)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("the owner can still write", func(t *testing.T) {
		rec := f.app.request(t, http.MethodPost, "/api/v1/invoices/"+invoiceID+"/items", f.owner, "", item)
		require.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("unlock reopens the invoice", func(t *testing.T) {
		rec := f.app.request(t, http.MethodPost, "/api/v1/invoices/"+invoiceID+"/unlock", f.owner, "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = f.app.request(t, http.MethodPost, "/api/v1/invoices/"+invoiceID+"/items", f.accountant, "", item)
		require.Equal(t, http.StatusCreated, rec.Code)
	})
}

func TestInvoiceHandler_SalesScoping(t *testing.T) {
	f := newInvoiceFixture(t)
	mine := f.createInvoice(t, "INV-001")

	// An invoice attributed to nobody
	rec := f.app.request(t, http.MethodPost, "/api/v1/invoices", f.owner, "", map[string]any{
		"customer_id":    f.customerID,
		"invoice_number": "INV-002",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	other := dataField(t, rec)["id"].(string)

	t.Run("list shows only the caller's sales", func(t *testing.T) {
		rec := f.app.request(t, http.MethodGet, "/api/v1/invoices", f.sales, "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		invoices := dataList(t, rec)
		require.Len(t, invoices, 1)
		assert.Equal(t, mine, invoices[0].(map[string]any)["id"])
	})

	t.Run("direct access to another invoice is forbidden", func(t *testing.T) {
		rec := f.app.request(t, http.MethodGet, "/api/v1/invoices/"+other, f.sales, "", nil)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("the owner sees everything", func(t *testing.T) {
		rec := f.app.request(t, http.MethodGet, "/api/v1/invoices", f.owner, "", nil)
		require.Len(t, dataList(t, rec), 2)
	})
}

func TestInvoiceHandler_DeletePolicy(t *testing.T) {
	f := newInvoiceFixture(t)
	invoiceID := f.createInvoice(t, "INV-001")

	rec := f.app.request(t, http.MethodPut, "/api/v1/invoices/"+invoiceID, f.owner, "", map[string]any{
		"status": "paid",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	t.Run("an accountant cannot delete", func(t *testing.T) {
		rec := f.app.request(t, http.MethodDelete, "/api/v1/invoices/"+invoiceID, f.accountant, "", nil)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("the owner deletes invoice, items, and commissions", func(t *testing.T) {
		rec := f.app.request(t, http.MethodDelete, "/api/v1/invoices/"+invoiceID, f.owner, "", nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = f.app.request(t, http.MethodGet, "/api/v1/invoices/"+invoiceID, f.owner, "", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)

		rec = f.app.request(t, http.MethodGet, "/api/v1/commissions", f.owner, "", nil)
		assert.Empty(t, dataList(t, rec))
	})
}

func TestCommissionHandler_Workflow(t *testing.T) {
	f := newInvoiceFixture(t)
	invoiceID := f.createInvoice(t, "INV-001")

	rec := f.app.request(t, http.MethodPost, "/api/v1/invoices/"+invoiceID+"/items", f.owner, "", map[string]any{
		"description": "Service",
		"quantity":    "1",
		"unit_price":  "200.00",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.app.request(t, http.MethodPut, "/api/v1/invoices/"+invoiceID, f.owner, "", map[string]any{"status": "paid"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.app.request(t, http.MethodGet, "/api/v1/commissions", f.owner, "", nil)
	commissionID := dataList(t, rec)[0].(map[string]any)["id"].(string)

	t.Run("only the owner may approve", func(t *testing.T) {
		rec := f.app.request(t, http.MethodPost, "/api/v1/commissions/"+commissionID+"/approve", f.accountant, "", nil)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("mark-paid before approval is rejected", func(t *testing.T) {
		rec := f.app.request(t, http.MethodPost, "/api/v1/commissions/"+commissionID+"/mark-paid", f.owner, "", nil)
		require.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("approve then mark paid", func(t *testing.T) {
		rec := f.app.request(t, http.MethodPost, "/api/v1/commissions/"+commissionID+"/approve", f.owner, "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "APPROVED", dataField(t, rec)["status"])

		rec = f.app.request(t, http.MethodPost, "/api/v1/commissions/"+commissionID+"/mark-paid", f.owner, "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "PAID", dataField(t, rec)["status"])
	})

	t.Run("sales see only their own commissions", func(t *testing.T) {
		rec := f.app.request(t, http.MethodGet, "/api/v1/commissions", f.sales, "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, dataList(t, rec), 1)
	})
}
