package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/teamtrackr/teamtrackr/internal/api/dto"
	"github.com/teamtrackr/teamtrackr/internal/api/middleware"
	"github.com/teamtrackr/teamtrackr/internal/api/policy"
	"github.com/teamtrackr/teamtrackr/internal/apperrors"
	"github.com/teamtrackr/teamtrackr/internal/database/models"
	"gorm.io/gorm"
)

type ProjectHandler struct {
	db *gorm.DB
}

func NewProjectHandler(db *gorm.DB) *ProjectHandler {
	return &ProjectHandler{db: db}
}

// List handles GET /api/v1/projects
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	var projects []models.Project
	if err := h.db.WithContext(r.Context()).Order("created_at DESC").Find(&projects).Error; err != nil {
		writeError(w, apperrors.Unprocessable("Failed to fetch projects"))
		return
	}

	writeJSON(w, http.StatusOK, dto.ListResponse{
		Success: true,
		Count:   len(projects),
		Data:    projects,
	})
}

// ListOwn handles GET /api/v1/projects/organization and returns only the
// projects created by the caller.
func (h *ProjectHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var projects []models.Project
	if err := h.db.WithContext(r.Context()).
		Where("created_by = ?", userID).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		writeError(w, apperrors.Unprocessable("Failed to fetch projects"))
		return
	}

	writeJSON(w, http.StatusOK, dto.ListResponse{
		Success: true,
		Count:   len(projects),
		Data:    projects,
	})
}

// Get handles GET /api/v1/projects/{id}
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "id", "project")
	if !ok {
		return
	}

	var project models.Project
	if err := h.db.WithContext(r.Context()).First(&project, "id = ?", projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, apperrors.NotFound("Project not found"))
		} else {
			writeError(w, apperrors.Unprocessable("Failed to fetch project"))
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.ProjectResponse{Success: true, Project: &project})
}

// Create handles POST /api/v1/projects/new-project
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r)
	if !policy.Allowed(identity, policy.ActionCreate, policy.ResourceProject, policy.Target{}) {
		writeError(w, apperrors.Forbidden("You are not authorized to create a project"))
		return
	}

	var req dto.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.BadRequest("Invalid request body"))
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, err)
		return
	}

	var count int64
	if err := h.db.WithContext(r.Context()).Model(&models.Project{}).
		Where("name = ?", req.Name).Count(&count).Error; err != nil {
		writeError(w, apperrors.Unprocessable("Failed to create project"))
		return
	}
	if count > 0 {
		writeError(w, apperrors.BadRequest("Project with this name already exists"))
		return
	}

	project := models.Project{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   identity.UserID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	if err := h.db.WithContext(r.Context()).Create(&project).Error; err != nil {
		writeError(w, apperrors.Unprocessable("Failed to create project"))
		return
	}

	writeJSON(w, http.StatusCreated, dto.ProjectResponse{
		Success: true,
		Message: "Project created successfully",
		Project: &project,
	})
}

// Update handles PATCH /api/v1/projects/{id}/update
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "id", "project")
	if !ok {
		return
	}

	var project models.Project
	if err := h.db.WithContext(r.Context()).First(&project, "id = ?", projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, apperrors.NotFound("Project not found"))
		} else {
			writeError(w, apperrors.Unprocessable("Failed to update project"))
		}
		return
	}

	identity := identityFrom(r)
	if !policy.Allowed(identity, policy.ActionUpdate, policy.ResourceProject, policy.Target{CreatedBy: project.CreatedBy}) {
		writeError(w, apperrors.Forbidden("You are not authorized to perform this action"))
		return
	}

	var req dto.UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.BadRequest("Invalid request body"))
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, err)
		return
	}

	if req.Name != nil && *req.Name != project.Name {
		var count int64
		if err := h.db.WithContext(r.Context()).Model(&models.Project{}).
			Where("name = ? AND id <> ?", *req.Name, project.ID).Count(&count).Error; err != nil {
			writeError(w, apperrors.Unprocessable("Failed to update project"))
			return
		}
		if count > 0 {
			writeError(w, apperrors.BadRequest("Project with this name already exists"))
			return
		}
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.StartDate != nil {
		project.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		project.EndDate = *req.EndDate
	}

	if err := h.db.WithContext(r.Context()).Save(&project).Error; err != nil {
		writeError(w, apperrors.Unprocessable("Failed to update project"))
		return
	}

	writeJSON(w, http.StatusOK, dto.ProjectResponse{
		Success: true,
		Message: "Project updated successfully",
		Project: &project,
	})
}

// Delete handles DELETE /api/v1/projects/{id}/delete. The project and every
// task under it, plus the comments under those tasks, go in one transaction
// so a failure partway leaves no orphans.
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "id", "project")
	if !ok {
		return
	}

	var project models.Project
	if err := h.db.WithContext(r.Context()).First(&project, "id = ?", projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, apperrors.NotFound("Project not found"))
		} else {
			writeError(w, apperrors.Unprocessable("Failed to delete project"))
		}
		return
	}

	identity := identityFrom(r)
	if !policy.Allowed(identity, policy.ActionDelete, policy.ResourceProject, policy.Target{CreatedBy: project.CreatedBy}) {
		writeError(w, apperrors.Forbidden("You are not authorized to perform this action"))
		return
	}

	err := h.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		var taskIDs []string
		if err := tx.Model(&models.Task{}).
			Where("project_id = ?", project.ID).
			Pluck("id", &taskIDs).Error; err != nil {
			return err
		}
		if len(taskIDs) > 0 {
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("project_id = ?", project.ID).Delete(&models.Task{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&project).Error
	})
	if err != nil {
		writeError(w, apperrors.Unprocessable("Failed to delete project"))
		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{
		Success: true,
		Message: "Project deleted successfully",
	})
}
