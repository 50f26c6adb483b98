package dto

import (
	"time"

	"github.com/teamtrackr/teamtrackr/internal/apperrors"
	"github.com/teamtrackr/teamtrackr/internal/database/models"
)

type AvailabilityPayload struct {
	Status           string     `json:"status"`
	Reason           string     `json:"reason"`
	NextAvailability *time.Time `json:"nextAvailability"`
}

func (a AvailabilityPayload) ToModel() models.Availability {
	return models.Availability{
		Status:           a.Status,
		Reason:           a.Reason,
		NextAvailability: a.NextAvailability,
	}
}

type RegisterEmployeeRequest struct {
	Name         string               `json:"name"`
	Email        string               `json:"email"`
	Password     string               `json:"password"`
	Level        string               `json:"level"`
	YearsOfWork  int                  `json:"yearsOfWork"`
	Availability *AvailabilityPayload `json:"availability"`
	UserType     string               `json:"userType"`
}

// Validate checks the registration rules in order and reports the first
// violation only.
func (r RegisterEmployeeRequest) Validate() error {
	if len(r.Password) < 6 {
		return apperrors.BadRequest("Password must be at least 6 characters long")
	}
	if !models.ValidLevel(r.Level) {
		return apperrors.BadRequest("Invalid level")
	}
	if r.YearsOfWork < 0 || r.YearsOfWork > 99 {
		return apperrors.BadRequest("Years of work must be between 0 and 99")
	}
	if !models.ValidUserType(r.UserType) {
		return apperrors.BadRequest("Invalid userType")
	}
	if r.Availability != nil && r.Availability.Status == models.AvailabilityNotAvailable {
		if r.Availability.Reason == "" || r.Availability.NextAvailability == nil {
			return apperrors.BadRequest(`Reason and next available date are required for "Not Available" status`)
		}
	}
	return nil
}

type RegisterOrganizationRequest struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	Password          string `json:"password"`
	Level             string `json:"level"`
	OrganizationName  string `json:"organizationName"`
	IndustryType      string `json:"industryType"`
	TaxID             string `json:"taxId"`
	NumberOfEmployees int    `json:"numberOfEmployees"`
}

func (r RegisterOrganizationRequest) Validate() error {
	if r.Name == "" || r.Email == "" || r.Password == "" || r.OrganizationName == "" {
		return apperrors.BadRequest("Name, email, password and organizationName are required")
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	if r.Email == "" || r.Password == "" {
		return apperrors.BadRequest("Email and password are required")
	}
	return nil
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (r UpdatePasswordRequest) Validate() error {
	if len(r.NewPassword) < 6 {
		return apperrors.BadRequest("Password must be at least 6 characters long")
	}
	if r.NewPassword == r.CurrentPassword {
		return apperrors.BadRequest("New password must be different from the current password")
	}
	return nil
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password"`
}

func (r ResetPasswordRequest) Validate() error {
	if len(r.Password) < 6 {
		return apperrors.BadRequest("Password must be at least 6 characters long")
	}
	return nil
}

// UserResponse is the envelope for single-user payloads. PasswordHash and the
// reset token fields are excluded by the model's json tags.
type UserResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	User    *models.User `json:"user"`
}

type LoginResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    *models.User `json:"user"`
	Token   string       `json:"token"`
}
