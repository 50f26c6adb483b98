package dto

import (
	"time"

	"github.com/teamtrackr/teamtrackr/internal/apperrors"
	"github.com/teamtrackr/teamtrackr/internal/database/models"
)

type CreateProjectRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
}

func (r CreateProjectRequest) Validate() error {
	return validateProjectFields(r.Name, r.Description)
}

// UpdateProjectRequest uses pointers so PATCH can distinguish "absent" from
// "set to zero value".
type UpdateProjectRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
}

func (r UpdateProjectRequest) Validate() error {
	if r.Name != nil {
		if err := validateProjectName(*r.Name); err != nil {
			return err
		}
	}
	if r.Description != nil {
		if err := validateProjectDescription(*r.Description); err != nil {
			return err
		}
	}
	return nil
}

func validateProjectFields(name, description string) error {
	if err := validateProjectName(name); err != nil {
		return err
	}
	return validateProjectDescription(description)
}

func validateProjectName(name string) error {
	if len(name) < 3 || len(name) > 50 {
		return apperrors.BadRequest("Project name length must be between 3 and 50 characters")
	}
	return nil
}

func validateProjectDescription(description string) error {
	if len(description) < 3 || len(description) > 300 {
		return apperrors.BadRequest("Project description length must be between 3 and 300 characters")
	}
	return nil
}

type ProjectResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Project *models.Project `json:"project"`
}
