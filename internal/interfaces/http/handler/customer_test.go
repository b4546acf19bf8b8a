package handler

import (
	"net/http"
	"testing"

	"github.com/accounting/backend/internal/domain/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerHandler_CRUD(t *testing.T) {
	app := newTestApp(t)
	company := app.createCompany(t, "Acme")
	owner := app.createUser(t, "owner@example.com")
	sales := app.createUser(t, "sales@example.com")
	app.enroll(t, company, owner, identity.RoleOwner, "0")
	app.enroll(t, company, sales, identity.RoleSales, "10")
	ownerToken := app.token(t, owner)

	var customerID string

	t.Run("create", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/api/v1/customers", ownerToken, "", map[string]any{
			"name":  "Jane Smith",
			"phone": "+1-555-0100",
			"email": "Jane@Example.com",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		data := dataField(t, rec)
		customerID = data["id"].(string)
		assert.Equal(t, "Jane Smith", data["name"])
		// emails are stored lowercased
		assert.Equal(t, "jane@example.com", data["email"])
	})

	t.Run("duplicate email in the company is rejected", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/api/v1/customers", ownerToken, "", map[string]any{
			"name":  "Jane Clone",
			"email": "jane@example.com",
		})
		require.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "ERR_ALREADY_EXISTS", errorCode(t, rec))
	})

	t.Run("sales cannot create customers", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/api/v1/customers", app.token(t, sales), "", map[string]any{
			"name": "Blocked",
		})
		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "ERR_FORBIDDEN", errorCode(t, rec))
	})

	t.Run("sales can read customers", func(t *testing.T) {
		rec := app.request(t, http.MethodGet, "/api/v1/customers/"+customerID, app.token(t, sales), "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("update", func(t *testing.T) {
		rec := app.request(t, http.MethodPut, "/api/v1/customers/"+customerID, ownerToken, "", map[string]any{
			"phone": "+1-555-0199",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		data := dataField(t, rec)
		assert.Equal(t, "+1-555-0199", data["phone"])
		assert.Equal(t, "Jane Smith", data["name"])
	})

	t.Run("list with search", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/api/v1/customers", ownerToken, "", map[string]any{
			"name": "Bob Jones",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = app.request(t, http.MethodGet, "/api/v1/customers?search=jane", ownerToken, "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		customers := dataList(t, rec)
		require.Len(t, customers, 1)
		assert.Equal(t, "Jane Smith", customers[0].(map[string]any)["name"])

		meta := decodeBody(t, rec)["meta"].(map[string]any)
		assert.Equal(t, float64(1), meta["total"])
	})

	t.Run("delete", func(t *testing.T) {
		rec := app.request(t, http.MethodDelete, "/api/v1/customers/"+customerID, ownerToken, "", nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = app.request(t, http.MethodGet, "/api/v1/customers/"+customerID, ownerToken, "", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "ERR_NOT_FOUND", errorCode(t, rec))
	})
}

func TestCustomerHandler_TenantIsolation(t *testing.T) {
	app := newTestApp(t)
	acme := app.createCompany(t, "Acme")
	globex := app.createCompany(t, "Globex")
	alice := app.createUser(t, "alice@example.com")
	bob := app.createUser(t, "bob@example.com")
	app.enroll(t, acme, alice, identity.RoleOwner, "0")
	app.enroll(t, globex, bob, identity.RoleOwner, "0")

	rec := app.request(t, http.MethodPost, "/api/v1/customers", app.token(t, alice), "", map[string]any{
		"name": "Acme Customer",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	customerID := dataField(t, rec)["id"].(string)

	t.Run("another company's record reads as not found", func(t *testing.T) {
		rec := app.request(t, http.MethodGet, "/api/v1/customers/"+customerID, app.token(t, bob), "", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("another company's record cannot be updated", func(t *testing.T) {
		rec := app.request(t, http.MethodPut, "/api/v1/customers/"+customerID, app.token(t, bob), "", map[string]any{
			"name": "Hijacked",
		})
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("lists never cross companies", func(t *testing.T) {
		rec := app.request(t, http.MethodGet, "/api/v1/customers", app.token(t, bob), "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, dataList(t, rec))
	})
}
