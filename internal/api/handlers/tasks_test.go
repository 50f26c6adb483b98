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

func setupTaskTestRouter(t *testing.T) (*chi.Mux, *testutil.TestSetup) {
	tc := testutil.NewTestContext(t)

	handler := handlers.NewTaskHandler(tc.DB)

	r := chi.NewRouter()
	r.Get("/api/v1/tasks", handler.List)
	r.Get("/api/v1/tasks/{id}", handler.Get)
	r.Get("/api/v1/tasks/project/{projectId}", handler.ListByProject)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(tc.JWTService))
		r.Post("/api/v1/projects/{id}/new-task", handler.Create)
		r.Patch("/api/v1/tasks/{id}/update", handler.Update)
		r.Delete("/api/v1/tasks/{id}/delete", handler.Delete)
	})

	return r, tc
}

func TestTaskHandler_Create(t *testing.T) {
	router, tc := setupTaskTestRouter(t)
	defer tc.Cleanup()

	project := testutil.CreateTestProject(t, tc.DB, tc.User.ID)

	t.Run("successful creation with defaults", func(t *testing.T) {
		body := map[string]interface{}{
			"title":       "Wire up payments",
			"description": "Integrate the payment provider",
		}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/projects/"+project.ID.String()+"/new-task", body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var resp dto.TaskResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		require.NotNil(t, resp.Task)
		assert.Equal(t, models.TaskStatusNew, resp.Task.Status)
		assert.Equal(t, models.TaskPriorityMedium, resp.Task.Priority)
		assert.Equal(t, project.ID, resp.Task.ProjectID)
	})

	t.Run("duplicate title", func(t *testing.T) {
		body := map[string]interface{}{
			"title":       "Wire up payments",
			"description": "Again",
		}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/projects/"+project.ID.String()+"/new-task", body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var resp dto.ErrorResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "Task with this title already exists", resp.Error)
	})

	t.Run("missing project", func(t *testing.T) {
		body := map[string]interface{}{
			"title":       "Orphan task",
			"description": "No project behind it",
		}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/projects/7e7a46c9-5a4d-4d6e-9f3e-000000000000/new-task", body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("junior is refused", func(t *testing.T) {
		junior := testutil.CreateTestUser(t, tc.DB, testutil.WithLevel(models.LevelJunior))
		token := testutil.GenerateTestToken(t, tc.JWTService, junior)

		body := map[string]interface{}{
			"title":       "Junior task",
			"description": "Should be blocked",
		}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/projects/"+project.ID.String()+"/new-task", body, token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)

		var resp dto.ErrorResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "You are not authorized to create a task", resp.Error)
	})

	t.Run("invalid status", func(t *testing.T) {
		body := map[string]interface{}{
			"title":       "Badly flagged task",
			"description": "Carries a made up status",
			"status":      "Paused",
		}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/projects/"+project.ID.String()+"/new-task", body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var resp dto.ErrorResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "Invalid status", resp.Error)
	})
}

func TestTaskHandler_ListByProject(t *testing.T) {
	router, tc := setupTaskTestRouter(t)
	defer tc.Cleanup()

	project := testutil.CreateTestProject(t, tc.DB, tc.User.ID)
	other := testutil.CreateTestProject(t, tc.DB, tc.User.ID)
	testutil.CreateTestTask(t, tc.DB, project.ID, tc.User.ID)
	testutil.CreateTestTask(t, tc.DB, project.ID, tc.User.ID)
	testutil.CreateTestTask(t, tc.DB, other.ID, tc.User.ID)

	req := testutil.UnauthenticatedRequest(t, "GET", "/api/v1/tasks/project/"+project.ID.String(), nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp dto.ListResponse
	testutil.ParseJSONResponse(t, rr, &resp)
	assert.Equal(t, 2, resp.Count)
}

func TestTaskHandler_Update(t *testing.T) {
	router, tc := setupTaskTestRouter(t)
	defer tc.Cleanup()

	project := testutil.CreateTestProject(t, tc.DB, tc.User.ID)

	t.Run("assignee can update", func(t *testing.T) {
		assignee := testutil.CreateTestUser(t, tc.DB, testutil.WithLevel(models.LevelJunior))
		task := testutil.CreateTestTask(t, tc.DB, project.ID, tc.User.ID)
		task.AssignedTo = models.UUIDArray{assignee.ID}
		require.NoError(t, tc.DB.Save(task).Error)

		token := testutil.GenerateTestToken(t, tc.JWTService, assignee)
		body := map[string]string{"status": models.TaskStatusInProgress}

		req := testutil.AuthenticatedRequest(t, "PATCH", "/api/v1/tasks/"+task.ID.String()+"/update", body, token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp dto.TaskResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, models.TaskStatusInProgress, resp.Task.Status)
	})

	t.Run("project owner can update tasks they did not create", func(t *testing.T) {
		creator := testutil.CreateTestUser(t, tc.DB)
		task := testutil.CreateTestTask(t, tc.DB, project.ID, creator.ID)

		body := map[string]string{"priority": models.TaskPriorityHigh}

		req := testutil.AuthenticatedRequest(t, "PATCH", "/api/v1/tasks/"+task.ID.String()+"/update", body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("bystander is refused", func(t *testing.T) {
		task := testutil.CreateTestTask(t, tc.DB, project.ID, tc.User.ID)
		bystander := testutil.CreateTestUser(t, tc.DB)
		token := testutil.GenerateTestToken(t, tc.JWTService, bystander)

		body := map[string]string{"status": models.TaskStatusDone}

		req := testutil.AuthenticatedRequest(t, "PATCH", "/api/v1/tasks/"+task.ID.String()+"/update", body, token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestTaskHandler_Delete(t *testing.T) {
	router, tc := setupTaskTestRouter(t)
	defer tc.Cleanup()

	project := testutil.CreateTestProject(t, tc.DB, tc.User.ID)

	t.Run("cascade removes comments", func(t *testing.T) {
		task := testutil.CreateTestTask(t, tc.DB, project.ID, tc.User.ID)
		testutil.CreateTestComment(t, tc.DB, task.ID, tc.User.ID)

		req := testutil.AuthenticatedRequest(t, "DELETE", "/api/v1/tasks/"+task.ID.String()+"/delete", nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var commentsLeft int64
		tc.DB.Model(&models.Comment{}).Where("task_id = ?", task.ID).Count(&commentsLeft)
		assert.Zero(t, commentsLeft)
	})

	t.Run("project owner alone cannot delete", func(t *testing.T) {
		creator := testutil.CreateTestUser(t, tc.DB)
		task := testutil.CreateTestTask(t, tc.DB, project.ID, creator.ID)

		req := testutil.AuthenticatedRequest(t, "DELETE", "/api/v1/tasks/"+task.ID.String()+"/delete", nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("assignee can delete", func(t *testing.T) {
		assignee := testutil.CreateTestUser(t, tc.DB, testutil.WithLevel(models.LevelMid))
		task := testutil.CreateTestTask(t, tc.DB, project.ID, tc.User.ID)
		task.AssignedTo = models.UUIDArray{assignee.ID}
		require.NoError(t, tc.DB.Save(task).Error)

		token := testutil.GenerateTestToken(t, tc.JWTService, assignee)

		req := testutil.AuthenticatedRequest(t, "DELETE", "/api/v1/tasks/"+task.ID.String()+"/delete", nil, token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}
