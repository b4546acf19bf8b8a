package handler

import (
	"net/http"
	"testing"

	"github.com/accounting/backend/internal/domain/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanyHandler_Lifecycle(t *testing.T) {
	app := newTestApp(t)
	alice := app.createUser(t, "alice@example.com")
	token := app.token(t, alice)

	var companyID string

	t.Run("creating a company enrolls the creator as owner", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/api/v1/companies", token, "", map[string]any{
			"name": "Acme",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		companyID = dataField(t, rec)["id"].(string)

		rec = app.request(t, http.MethodGet, "/api/v1/members", token, companyID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		members := dataList(t, rec)
		require.Len(t, members, 1)
		member := members[0].(map[string]any)
		assert.Equal(t, "OWNER", member["role"])
		assert.Equal(t, alice.ID.String(), member["user_id"])
	})

	t.Run("list shows only the caller's companies", func(t *testing.T) {
		outsider := app.createUser(t, "outsider@example.com")
		rec := app.request(t, http.MethodGet, "/api/v1/companies", app.token(t, outsider), "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, dataList(t, rec))

		rec = app.request(t, http.MethodGet, "/api/v1/companies", token, "", nil)
		require.Len(t, dataList(t, rec), 1)
	})

	t.Run("rename", func(t *testing.T) {
		rec := app.request(t, http.MethodPut, "/api/v1/companies/"+companyID, token, "", map[string]any{
			"name": "Acme Ltd",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Acme Ltd", dataField(t, rec)["name"])
	})

	t.Run("a non-member cannot read the company", func(t *testing.T) {
		stranger := app.createUser(t, "stranger@example.com")
		rec := app.request(t, http.MethodGet, "/api/v1/companies/"+companyID, app.token(t, stranger), "", nil)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("delete cascades", func(t *testing.T) {
		rec := app.request(t, http.MethodDelete, "/api/v1/companies/"+companyID, token, "", nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = app.request(t, http.MethodGet, "/api/v1/companies", token, "", nil)
		assert.Empty(t, dataList(t, rec))
	})
}

func TestMembershipHandler_Roster(t *testing.T) {
	app := newTestApp(t)
	company := app.createCompany(t, "Acme")
	owner := app.createUser(t, "owner@example.com")
	app.enroll(t, company, owner, identity.RoleOwner, "0")
	ownerToken := app.token(t, owner)

	hire := app.createUser(t, "hire@example.com")

	var membershipID string

	t.Run("the owner enrolls a salesperson", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/api/v1/members", ownerToken, "", map[string]any{
			"user_id":            hire.ID.String(),
			"role":               "SALES",
			"commission_percent": "12.5",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		data := dataField(t, rec)
		membershipID = data["id"].(string)
		assert.Equal(t, "SALES", data["role"])
		assert.Equal(t, "12.5", data["commission_percent"])
	})

	t.Run("enrolling twice is rejected", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/api/v1/members", ownerToken, "", map[string]any{
			"user_id": hire.ID.String(),
			"role":    "SALES",
		})
		require.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("a non-owner cannot mutate the roster", func(t *testing.T) {
		rec := app.request(t, http.MethodPut, "/api/v1/members/"+membershipID, app.token(t, hire), "", map[string]any{
			"role": "ACCOUNTANT",
		})
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("the owner promotes the hire", func(t *testing.T) {
		rec := app.request(t, http.MethodPut, "/api/v1/members/"+membershipID, ownerToken, "", map[string]any{
			"role": "ACCOUNTANT",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ACCOUNTANT", dataField(t, rec)["role"])
	})

	t.Run("an out-of-range rate is rejected", func(t *testing.T) {
		rec := app.request(t, http.MethodPut, "/api/v1/members/"+membershipID, ownerToken, "", map[string]any{
			"commission_percent": "150",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "ERR_VALIDATION_RANGE", errorCode(t, rec))
	})

	t.Run("the last owner cannot be removed", func(t *testing.T) {
		rec := app.request(t, http.MethodGet, "/api/v1/members", ownerToken, "", nil)
		var ownerMembershipID string
		for _, m := range dataList(t, rec) {
			member := m.(map[string]any)
			if member["role"] == "OWNER" {
				ownerMembershipID = member["id"].(string)
			}
		}
		require.NotEmpty(t, ownerMembershipID)

		rec = app.request(t, http.MethodDelete, "/api/v1/members/"+ownerMembershipID, ownerToken, "", nil)
		require.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "ERR_INVALID_STATE", errorCode(t, rec))
	})

	t.Run("the owner removes the hire", func(t *testing.T) {
		rec := app.request(t, http.MethodDelete, "/api/v1/members/"+membershipID, ownerToken, "", nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = app.request(t, http.MethodGet, "/api/v1/members", ownerToken, "", nil)
		require.Len(t, dataList(t, rec), 1)
	})
}
