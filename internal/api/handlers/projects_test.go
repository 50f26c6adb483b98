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

func setupProjectTestRouter(t *testing.T) (*chi.Mux, *testutil.TestSetup) {
	tc := testutil.NewTestContext(t)

	handler := handlers.NewProjectHandler(tc.DB)

	r := chi.NewRouter()
	r.Get("/api/v1/projects", handler.List)
	r.Get("/api/v1/projects/{id}", handler.Get)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(tc.JWTService))
		r.Get("/api/v1/projects/organization", handler.ListOwn)
		r.Post("/api/v1/projects/new-project", handler.Create)
		r.Patch("/api/v1/projects/{id}/update", handler.Update)
		r.Delete("/api/v1/projects/{id}/delete", handler.Delete)
	})

	return r, tc
}

func TestProjectHandler_List(t *testing.T) {
	router, tc := setupProjectTestRouter(t)
	defer tc.Cleanup()

	testutil.CreateTestProject(t, tc.DB, tc.User.ID)
	testutil.CreateTestProject(t, tc.DB, tc.User.ID)

	req := testutil.UnauthenticatedRequest(t, "GET", "/api/v1/projects", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp dto.ListResponse
	testutil.ParseJSONResponse(t, rr, &resp)
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Count)
}

func TestProjectHandler_Get(t *testing.T) {
	router, tc := setupProjectTestRouter(t)
	defer tc.Cleanup()

	project := testutil.CreateTestProject(t, tc.DB, tc.User.ID)

	t.Run("found", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, "GET", "/api/v1/projects/"+project.ID.String(), nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp dto.ProjectResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		require.NotNil(t, resp.Project)
		assert.Equal(t, project.Name, resp.Project.Name)
	})

	t.Run("not found", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, "GET", "/api/v1/projects/7e7a46c9-5a4d-4d6e-9f3e-000000000000", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, "GET", "/api/v1/projects/not-a-uuid", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var resp dto.ErrorResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "Invalid project ID", resp.Error)
	})
}

func TestProjectHandler_Create(t *testing.T) {
	router, tc := setupProjectTestRouter(t)
	defer tc.Cleanup()

	t.Run("senior can create", func(t *testing.T) {
		body := map[string]string{
			"name":        "Platform Rebuild",
			"description": "Rebuild the billing platform",
		}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/projects/new-project", body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var resp dto.ProjectResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "Project created successfully", resp.Message)
		require.NotNil(t, resp.Project)
		assert.Equal(t, tc.User.ID, resp.Project.CreatedBy)
	})

	t.Run("duplicate name", func(t *testing.T) {
		body := map[string]string{
			"name":        "Platform Rebuild",
			"description": "Another attempt",
		}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/projects/new-project", body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var resp dto.ErrorResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "Project with this name already exists", resp.Error)
	})

	t.Run("junior is refused", func(t *testing.T) {
		junior := testutil.CreateTestUser(t, tc.DB, testutil.WithLevel(models.LevelJunior))
		token := testutil.GenerateTestToken(t, tc.JWTService, junior)

		body := map[string]string{
			"name":        "Junior Project",
			"description": "Should never exist",
		}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/projects/new-project", body, token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)

		var resp dto.ErrorResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "You are not authorized to create a project", resp.Error)
	})

	t.Run("name too short", func(t *testing.T) {
		body := map[string]string{
			"name":        "ab",
			"description": "Valid description",
		}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/projects/new-project", body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var resp dto.ErrorResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "Project name length must be between 3 and 50 characters", resp.Error)
	})

	t.Run("requires authentication", func(t *testing.T) {
		body := map[string]string{
			"name":        "Anonymous Project",
			"description": "No token attached",
		}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/projects/new-project", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestProjectHandler_Update(t *testing.T) {
	router, tc := setupProjectTestRouter(t)
	defer tc.Cleanup()

	project := testutil.CreateTestProject(t, tc.DB, tc.User.ID)

	t.Run("creator can update", func(t *testing.T) {
		body := map[string]string{"description": "Rewritten description"}

		req := testutil.AuthenticatedRequest(t, "PATCH", "/api/v1/projects/"+project.ID.String()+"/update", body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp dto.ProjectResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "Rewritten description", resp.Project.Description)
		// untouched fields survive a partial update
		assert.Equal(t, project.Name, resp.Project.Name)
	})

	t.Run("non-creator is refused", func(t *testing.T) {
		other := testutil.CreateTestUser(t, tc.DB)
		token := testutil.GenerateTestToken(t, tc.JWTService, other)

		body := map[string]string{"description": "Hostile takeover"}

		req := testutil.AuthenticatedRequest(t, "PATCH", "/api/v1/projects/"+project.ID.String()+"/update", body, token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)

		var resp dto.ErrorResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "You are not authorized to perform this action", resp.Error)
	})

	t.Run("rename collision", func(t *testing.T) {
		other := testutil.CreateTestProject(t, tc.DB, tc.User.ID)

		body := map[string]string{"name": other.Name}

		req := testutil.AuthenticatedRequest(t, "PATCH", "/api/v1/projects/"+project.ID.String()+"/update", body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestProjectHandler_Delete(t *testing.T) {
	router, tc := setupProjectTestRouter(t)
	defer tc.Cleanup()

	t.Run("cascade removes tasks and comments", func(t *testing.T) {
		project := testutil.CreateTestProject(t, tc.DB, tc.User.ID)
		task := testutil.CreateTestTask(t, tc.DB, project.ID, tc.User.ID)
		testutil.CreateTestComment(t, tc.DB, task.ID, tc.User.ID)

		req := testutil.AuthenticatedRequest(t, "DELETE", "/api/v1/projects/"+project.ID.String()+"/delete", nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var tasksLeft, commentsLeft int64
		tc.DB.Model(&models.Task{}).Where("project_id = ?", project.ID).Count(&tasksLeft)
		tc.DB.Model(&models.Comment{}).Where("task_id = ?", task.ID).Count(&commentsLeft)
		assert.Zero(t, tasksLeft)
		assert.Zero(t, commentsLeft)
	})

	t.Run("non-creator is refused", func(t *testing.T) {
		project := testutil.CreateTestProject(t, tc.DB, tc.User.ID)
		other := testutil.CreateTestUser(t, tc.DB)
		token := testutil.GenerateTestToken(t, tc.JWTService, other)

		req := testutil.AuthenticatedRequest(t, "DELETE", "/api/v1/projects/"+project.ID.String()+"/delete", nil, token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestProjectHandler_ListOwn(t *testing.T) {
	router, tc := setupProjectTestRouter(t)
	defer tc.Cleanup()

	other := testutil.CreateTestUser(t, tc.DB)
	testutil.CreateTestProject(t, tc.DB, tc.User.ID)
	testutil.CreateTestProject(t, tc.DB, other.ID)

	req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/projects/organization", nil, tc.Token)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp dto.ListResponse
	testutil.ParseJSONResponse(t, rr, &resp)
	assert.Equal(t, 1, resp.Count)
}
