package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	auditapp "github.com/accounting/backend/internal/application/audit"
	billingapp "github.com/accounting/backend/internal/application/billing"
	catalogapp "github.com/accounting/backend/internal/application/catalog"
	identityapp "github.com/accounting/backend/internal/application/identity"
	partnerapp "github.com/accounting/backend/internal/application/partner"
	"github.com/accounting/backend/internal/domain/audit"
	"github.com/accounting/backend/internal/domain/billing"
	"github.com/accounting/backend/internal/domain/catalog"
	"github.com/accounting/backend/internal/domain/identity"
	"github.com/accounting/backend/internal/domain/partner"
	"github.com/accounting/backend/internal/infrastructure/auth"
	"github.com/accounting/backend/internal/infrastructure/config"
	"github.com/accounting/backend/internal/infrastructure/persistence"
	"github.com/accounting/backend/internal/interfaces/http/middleware"
	"github.com/accounting/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testApp wires the full HTTP stack over an in-memory database
type testApp struct {
	db     *gorm.DB
	engine *gin.Engine
	jwt    *auth.JWTService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&identity.User{},
		&identity.Company{},
		&identity.Membership{},
		&partner.Customer{},
		&catalog.Product{},
		&billing.Invoice{},
		&billing.InvoiceItem{},
		&billing.Commission{},
		&audit.Log{},
	))

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "handler-test-secret-32-chars-long!",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "test-issuer",
	})

	log := zap.NewNop()
	userRepo := persistence.NewGormUserRepository(db)
	companyRepo := persistence.NewGormCompanyRepository(db)
	membershipRepo := persistence.NewGormMembershipRepository(db)
	customerRepo := persistence.NewGormCustomerRepository(db)
	productRepo := persistence.NewGormProductRepository(db)
	invoiceRepo := persistence.NewGormInvoiceRepository(db)
	commissionRepo := persistence.NewGormCommissionRepository(db)
	auditRepo := persistence.NewGormAuditRepository(db)

	recorder := auditapp.NewRecorder(auditRepo, log)
	accessService := identityapp.NewAccessService(membershipRepo)
	authService := identityapp.NewAuthService(userRepo, jwtService)
	companyService := identityapp.NewCompanyService(companyRepo, membershipRepo)
	membershipService := identityapp.NewMembershipService(membershipRepo, userRepo)
	userService := identityapp.NewUserService(userRepo, membershipRepo)
	customerService := partnerapp.NewCustomerService(customerRepo, recorder)
	productService := catalogapp.NewProductService(productRepo, recorder)
	commissionService := billingapp.NewCommissionService(commissionRepo, invoiceRepo, membershipRepo)
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, customerRepo, membershipRepo, commissionService, recorder, log)

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(middleware.JWTAuthMiddleware(jwtService))

	r := router.NewRouter(engine)
	r.Register(NewAuthHandler(authService, companyService))
	r.Register(NewCompanyHandler(companyService, accessService))
	r.Register(NewUserHandler(userService, authService, accessService))
	r.Register(NewMembershipHandler(membershipService, accessService))
	r.Register(NewCustomerHandler(customerService, accessService))
	r.Register(NewProductHandler(productService, accessService))
	r.Register(NewInvoiceHandler(invoiceService, commissionService, accessService))
	r.Register(NewCommissionHandler(commissionService, accessService))
	r.Register(NewAuditHandler(recorder, accessService))
	r.Setup()

	return &testApp{db: db, engine: engine, jwt: jwtService}
}

func (a *testApp) createUser(t *testing.T, email string) *identity.User {
	t.Helper()
	user, err := identity.NewUser(email, "correct horse battery", "Test User")
	require.NoError(t, err)
	require.NoError(t, a.db.Create(user).Error)
	return user
}

func (a *testApp) createCompany(t *testing.T, name string) *identity.Company {
	t.Helper()
	company, err := identity.NewCompany(name)
	require.NoError(t, err)
	require.NoError(t, a.db.Create(company).Error)
	return company
}

func (a *testApp) enroll(t *testing.T, company *identity.Company, user *identity.User, role identity.Role, percent string) *identity.Membership {
	t.Helper()
	membership, err := identity.NewMembership(company.ID, user.ID, role)
	require.NoError(t, err)
	rate, err := decimal.NewFromString(percent)
	require.NoError(t, err)
	require.NoError(t, membership.SetCommissionPercent(rate))
	require.NoError(t, a.db.Create(membership).Error)
	return membership
}

func (a *testApp) token(t *testing.T, user *identity.User) string {
	t.Helper()
	token, _, err := a.jwt.Issue(user.ID, user.Email)
	require.NoError(t, err)
	return token
}

// request performs an HTTP request against the test app. token and companyID
// are optional; body is marshalled to JSON when non-nil.
func (a *testApp) request(t *testing.T, method, path, token, companyID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if companyID != "" {
		req.Header.Set("X-Company-ID", companyID)
	}

	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)
	return rec
}

// decodeBody unmarshals a response envelope
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// dataField returns the data object of a success envelope
func dataField(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	body := decodeBody(t, rec)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok, "expected object data field, got: %s", rec.Body.String())
	return data
}

// dataList returns the data array of a success envelope
func dataList(t *testing.T, rec *httptest.ResponseRecorder) []any {
	t.Helper()
	body := decodeBody(t, rec)
	data, ok := body["data"].([]any)
	require.True(t, ok, "expected array data field, got: %s", rec.Body.String())
	return data
}

// errorCode returns the error code of an error envelope
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := decodeBody(t, rec)
	errInfo, ok := body["error"].(map[string]any)
	require.True(t, ok, "expected error field, got: %s", rec.Body.String())
	code, _ := errInfo["code"].(string)
	return code
}
