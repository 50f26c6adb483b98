package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/teamtrackr/teamtrackr/internal/api/dto"
	"github.com/teamtrackr/teamtrackr/internal/api/policy"
	"github.com/teamtrackr/teamtrackr/internal/apperrors"
	"github.com/teamtrackr/teamtrackr/internal/database/models"
	"gorm.io/gorm"
)

type TaskHandler struct {
	db *gorm.DB
}

func NewTaskHandler(db *gorm.DB) *TaskHandler {
	return &TaskHandler{db: db}
}

// List handles GET /api/v1/tasks
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	var tasks []models.Task
	if err := h.db.WithContext(r.Context()).Order("created_at DESC").Find(&tasks).Error; err != nil {
		writeError(w, apperrors.Unprocessable("Failed to fetch tasks"))
		return
	}

	writeJSON(w, http.StatusOK, dto.ListResponse{
		Success: true,
		Count:   len(tasks),
		Data:    tasks,
	})
}

// ListByProject handles GET /api/v1/tasks/project/{projectId}
func (h *TaskHandler) ListByProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "projectId", "project")
	if !ok {
		return
	}

	var project models.Project
	if err := h.db.WithContext(r.Context()).First(&project, "id = ?", projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, apperrors.NotFound("Project not found"))
		} else {
			writeError(w, apperrors.Unprocessable("Failed to fetch tasks"))
		}
		return
	}

	var tasks []models.Task
	if err := h.db.WithContext(r.Context()).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		writeError(w, apperrors.Unprocessable("Failed to fetch tasks"))
		return
	}

	writeJSON(w, http.StatusOK, dto.ListResponse{
		Success: true,
		Count:   len(tasks),
		Data:    tasks,
	})
}

// Get handles GET /api/v1/tasks/{id}
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathID(w, r, "id", "task")
	if !ok {
		return
	}

	var task models.Task
	if err := h.db.WithContext(r.Context()).First(&task, "id = ?", taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, apperrors.NotFound("Task not found"))
		} else {
			writeError(w, apperrors.Unprocessable("Failed to fetch task"))
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.TaskResponse{Success: true, Task: &task})
}

// Create handles POST /api/v1/projects/{id}/new-task
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r)
	if !policy.Allowed(identity, policy.ActionCreate, policy.ResourceTask, policy.Target{}) {
		writeError(w, apperrors.Forbidden("You are not authorized to create a task"))
		return
	}

	projectID, ok := pathID(w, r, "id", "project")
	if !ok {
		return
	}

	var project models.Project
	if err := h.db.WithContext(r.Context()).First(&project, "id = ?", projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, apperrors.NotFound("Project not found"))
		} else {
			writeError(w, apperrors.Unprocessable("Failed to create task"))
		}
		return
	}

	var req dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.BadRequest("Invalid request body"))
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, err)
		return
	}

	var count int64
	if err := h.db.WithContext(r.Context()).Model(&models.Task{}).
		Where("title = ?", req.Title).Count(&count).Error; err != nil {
		writeError(w, apperrors.Unprocessable("Failed to create task"))
		return
	}
	if count > 0 {
		writeError(w, apperrors.BadRequest("Task with this title already exists"))
		return
	}

	task := models.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		CreatedBy:   identity.UserID,
		AssignedTo:  models.UUIDArray(req.AssignedTo),
		ProjectID:   project.ID,
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
	}
	if task.Status == "" {
		task.Status = models.TaskStatusNew
	}
	if task.Priority == "" {
		task.Priority = models.TaskPriorityMedium
	}
	if err := h.db.WithContext(r.Context()).Create(&task).Error; err != nil {
		writeError(w, apperrors.Unprocessable("Failed to create task"))
		return
	}

	writeJSON(w, http.StatusCreated, dto.TaskResponse{
		Success: true,
		Message: "Task created successfully",
		Task:    &task,
	})
}

// Update handles PATCH /api/v1/tasks/{id}/update. The parent project's owner
// may update tasks they did not create, so the project is loaded to settle
// the ownership check.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathID(w, r, "id", "task")
	if !ok {
		return
	}

	var task models.Task
	if err := h.db.WithContext(r.Context()).First(&task, "id = ?", taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, apperrors.NotFound("Task not found"))
		} else {
			writeError(w, apperrors.Unprocessable("Failed to update task"))
		}
		return
	}

	var project models.Project
	if err := h.db.WithContext(r.Context()).First(&project, "id = ?", task.ProjectID).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		writeError(w, apperrors.Unprocessable("Failed to update task"))
		return
	}

	identity := identityFrom(r)
	target := policy.Target{
		CreatedBy:        task.CreatedBy,
		AssignedTo:       task.AssignedTo,
		ProjectCreatedBy: project.CreatedBy,
	}
	if !policy.Allowed(identity, policy.ActionUpdate, policy.ResourceTask, target) {
		writeError(w, apperrors.Forbidden("You are not authorized to perform this action"))
		return
	}

	var req dto.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.BadRequest("Invalid request body"))
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, err)
		return
	}

	if req.Title != nil && *req.Title != task.Title {
		var count int64
		if err := h.db.WithContext(r.Context()).Model(&models.Task{}).
			Where("title = ? AND id <> ?", *req.Title, task.ID).Count(&count).Error; err != nil {
			writeError(w, apperrors.Unprocessable("Failed to update task"))
			return
		}
		if count > 0 {
			writeError(w, apperrors.BadRequest("Task with this title already exists"))
			return
		}
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.AssignedTo != nil {
		task.AssignedTo = models.UUIDArray(*req.AssignedTo)
	}
	if req.StartDate != nil {
		task.StartDate = *req.StartDate
	}
	if req.DueDate != nil {
		task.DueDate = *req.DueDate
	}

	if err := h.db.WithContext(r.Context()).Save(&task).Error; err != nil {
		writeError(w, apperrors.Unprocessable("Failed to update task"))
		return
	}

	writeJSON(w, http.StatusOK, dto.TaskResponse{
		Success: true,
		Message: "Task updated successfully",
		Task:    &task,
	})
}

// Delete handles DELETE /api/v1/tasks/{id}/delete. Comments under the task
// are removed in the same transaction.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathID(w, r, "id", "task")
	if !ok {
		return
	}

	var task models.Task
	if err := h.db.WithContext(r.Context()).First(&task, "id = ?", taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, apperrors.NotFound("Task not found"))
		} else {
			writeError(w, apperrors.Unprocessable("Failed to delete task"))
		}
		return
	}

	identity := identityFrom(r)
	target := policy.Target{
		CreatedBy:  task.CreatedBy,
		AssignedTo: task.AssignedTo,
	}
	if !policy.Allowed(identity, policy.ActionDelete, policy.ResourceTask, target) {
		writeError(w, apperrors.Forbidden("You are not authorized to perform this action"))
		return
	}

	err := h.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", task.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&task).Error
	})
	if err != nil {
		writeError(w, apperrors.Unprocessable("Failed to delete task"))
		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{
		Success: true,
		Message: "Task deleted successfully",
	})
}
