package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamtrackr/teamtrackr/internal/api/dto"
	"github.com/teamtrackr/teamtrackr/internal/api/handlers"
	"github.com/teamtrackr/teamtrackr/internal/api/middleware"
	"github.com/teamtrackr/teamtrackr/internal/database/models"
	"github.com/teamtrackr/teamtrackr/internal/testutil"
)

func setupOrgTestRouter(t *testing.T) (*chi.Mux, *testutil.TestSetup) {
	tc := testutil.NewTestContext(t)

	handler := handlers.NewOrganizationHandler(tc.DB)

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(tc.JWTService))
		r.Patch("/api/v1/organizations/approve-employee/{userId}", handler.ApproveEmployee)
		r.Patch("/api/v1/organizations/reject-employee/{userId}", handler.RejectEmployee)
	})

	return r, tc
}

func TestOrganizationHandler_ApproveEmployee(t *testing.T) {
	router, tc := setupOrgTestRouter(t)
	defer tc.Cleanup()

	org, orgUser := testutil.CreateTestOrg(t, tc.DB)
	orgToken := testutil.GenerateTestToken(t, tc.JWTService, orgUser)

	t.Run("approves a pending employee", func(t *testing.T) {
		pending := testutil.CreateTestUser(t, tc.DB, testutil.WithStatus(models.EmployeeStatusPending))

		req := testutil.AuthenticatedRequest(t, "PATCH", "/api/v1/organizations/approve-employee/"+pending.ID.String(), nil, orgToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp dto.UserResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, models.EmployeeStatusApproved, resp.User.Status)

		var stored models.Organization
		require.NoError(t, tc.DB.First(&stored, "id = ?", org.ID).Error)
		assert.True(t, stored.Employees.Contains(pending.ID))
	})

	t.Run("already approved", func(t *testing.T) {
		approved := testutil.CreateTestUser(t, tc.DB)

		req := testutil.AuthenticatedRequest(t, "PATCH", "/api/v1/organizations/approve-employee/"+approved.ID.String(), nil, orgToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var resp dto.ErrorResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "User already approved", resp.Error)
	})

	t.Run("unknown user", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "PATCH", "/api/v1/organizations/approve-employee/7e7a46c9-5a4d-4d6e-9f3e-000000000000", nil, orgToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("employees cannot approve", func(t *testing.T) {
		pending := testutil.CreateTestUser(t, tc.DB, testutil.WithStatus(models.EmployeeStatusPending))

		req := testutil.AuthenticatedRequest(t, "PATCH", "/api/v1/organizations/approve-employee/"+pending.ID.String(), nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestOrganizationHandler_RejectEmployee(t *testing.T) {
	router, tc := setupOrgTestRouter(t)
	defer tc.Cleanup()

	_, orgUser := testutil.CreateTestOrg(t, tc.DB)
	orgToken := testutil.GenerateTestToken(t, tc.JWTService, orgUser)

	pending := testutil.CreateTestUser(t, tc.DB, testutil.WithStatus(models.EmployeeStatusPending))

	req := testutil.AuthenticatedRequest(t, "PATCH", "/api/v1/organizations/reject-employee/"+pending.ID.String(), nil, orgToken)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var stored models.User
	require.NoError(t, tc.DB.First(&stored, "id = ?", pending.ID).Error)
	assert.Equal(t, models.EmployeeStatusRejected, stored.Status)
}
