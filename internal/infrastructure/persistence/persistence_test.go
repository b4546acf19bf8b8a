package persistence

import (
	"testing"

	"github.com/accounting/backend/internal/domain/audit"
	"github.com/accounting/backend/internal/domain/billing"
	"github.com/accounting/backend/internal/domain/catalog"
	"github.com/accounting/backend/internal/domain/identity"
	"github.com/accounting/backend/internal/domain/partner"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens an in-memory SQLite database and migrates every table
// the repositories touch.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&identity.User{},
		&identity.Company{},
		&identity.Membership{},
		&partner.Customer{},
		&catalog.Product{},
		&billing.Invoice{},
		&billing.InvoiceItem{},
		&billing.Commission{},
		&audit.Log{},
	)
	require.NoError(t, err)

	return db
}

func seedCompany(t *testing.T, db *gorm.DB, name string) *identity.Company {
	t.Helper()
	company, err := identity.NewCompany(name)
	require.NoError(t, err)
	require.NoError(t, db.Create(company).Error)
	return company
}

func seedUser(t *testing.T, db *gorm.DB, email string) *identity.User {
	t.Helper()
	user, err := identity.NewUser(email, "correct horse", "Test User")
	require.NoError(t, err)
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedCustomer(t *testing.T, db *gorm.DB, companyID uuid.UUID, name string) *partner.Customer {
	t.Helper()
	customer, err := partner.NewCustomer(companyID, name, "", "")
	require.NoError(t, err)
	require.NoError(t, db.Create(customer).Error)
	return customer
}

func seedInvoice(t *testing.T, db *gorm.DB, companyID uuid.UUID, number string) *billing.Invoice {
	t.Helper()
	customer := seedCustomer(t, db, companyID, "Customer for "+number)
	invoice, err := billing.NewInvoice(companyID, customer.ID, uuid.New(), number, nil)
	require.NoError(t, err)
	require.NoError(t, db.Create(invoice).Error)
	return invoice
}

func money(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
