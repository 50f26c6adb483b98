package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/teamtrackr/teamtrackr/internal/apperrors"
	"github.com/teamtrackr/teamtrackr/internal/database/models"
)

type CreateTaskRequest struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Status      string      `json:"status"`
	Priority    string      `json:"priority"`
	AssignedTo  []uuid.UUID `json:"assignedTo"`
	StartDate   time.Time   `json:"startDate"`
	DueDate     time.Time   `json:"dueDate"`
}

func (r CreateTaskRequest) Validate() error {
	if err := validateTaskTitle(r.Title); err != nil {
		return err
	}
	if err := validateTaskDescription(r.Description); err != nil {
		return err
	}
	if r.Status != "" && !models.ValidTaskStatus(r.Status) {
		return apperrors.BadRequest("Invalid status")
	}
	if r.Priority != "" && !models.ValidTaskPriority(r.Priority) {
		return apperrors.BadRequest("Invalid priority")
	}
	return nil
}

type UpdateTaskRequest struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	Status      *string      `json:"status"`
	Priority    *string      `json:"priority"`
	AssignedTo  *[]uuid.UUID `json:"assignedTo"`
	StartDate   *time.Time   `json:"startDate"`
	DueDate     *time.Time   `json:"dueDate"`
}

func (r UpdateTaskRequest) Validate() error {
	if r.Title != nil {
		if err := validateTaskTitle(*r.Title); err != nil {
			return err
		}
	}
	if r.Description != nil {
		if err := validateTaskDescription(*r.Description); err != nil {
			return err
		}
	}
	if r.Status != nil && !models.ValidTaskStatus(*r.Status) {
		return apperrors.BadRequest("Invalid status")
	}
	if r.Priority != nil && !models.ValidTaskPriority(*r.Priority) {
		return apperrors.BadRequest("Invalid priority")
	}
	return nil
}

func validateTaskTitle(title string) error {
	if len(title) < 3 || len(title) > 50 {
		return apperrors.BadRequest("Task title length must be between 3 and 50 characters")
	}
	return nil
}

func validateTaskDescription(description string) error {
	if len(description) < 3 || len(description) > 300 {
		return apperrors.BadRequest("Task description length must be between 3 and 300 characters")
	}
	return nil
}

type TaskResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Task    *models.Task `json:"task"`
}
