package handlers

import (
	"errors"
	"net/http"

	"github.com/teamtrackr/teamtrackr/internal/api/dto"
	"github.com/teamtrackr/teamtrackr/internal/api/middleware"
	"github.com/teamtrackr/teamtrackr/internal/apperrors"
	"github.com/teamtrackr/teamtrackr/internal/database/models"
	"gorm.io/gorm"
)

// OrganizationHandler owns the employee approval flow. Only callers whose
// token carries the Organization user type may approve or reject.
type OrganizationHandler struct {
	db *gorm.DB
}

func NewOrganizationHandler(db *gorm.DB) *OrganizationHandler {
	return &OrganizationHandler{db: db}
}

// ApproveEmployee handles PATCH /api/v1/organizations/approve-employee/{userId}
func (h *OrganizationHandler) ApproveEmployee(w http.ResponseWriter, r *http.Request) {
	org, ok := h.callerOrganization(w, r)
	if !ok {
		return
	}

	userID, ok := pathID(w, r, "userId", "user")
	if !ok {
		return
	}

	var user models.User
	if err := h.db.WithContext(r.Context()).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, apperrors.NotFound("User not found"))
		} else {
			writeError(w, apperrors.Unprocessable("Failed to approve employee"))
		}
		return
	}

	if user.Status == models.EmployeeStatusApproved {
		writeError(w, apperrors.BadRequest("User already approved"))
		return
	}

	err := h.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		user.Status = models.EmployeeStatusApproved
		user.OrganizationID = &org.ID
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		if !org.Employees.Contains(user.ID) {
			org.Employees = append(org.Employees, user.ID)
		}
		return tx.Save(org).Error
	})
	if err != nil {
		writeError(w, apperrors.Unprocessable("Failed to approve employee"))
		return
	}

	writeJSON(w, http.StatusOK, dto.UserResponse{
		Success: true,
		Message: "Employee approved successfully",
		User:    &user,
	})
}

// RejectEmployee handles PATCH /api/v1/organizations/reject-employee/{userId}
func (h *OrganizationHandler) RejectEmployee(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.callerOrganization(w, r); !ok {
		return
	}

	userID, ok := pathID(w, r, "userId", "user")
	if !ok {
		return
	}

	var user models.User
	if err := h.db.WithContext(r.Context()).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, apperrors.NotFound("User not found"))
		} else {
			writeError(w, apperrors.Unprocessable("Failed to reject employee"))
		}
		return
	}

	user.Status = models.EmployeeStatusRejected
	if err := h.db.WithContext(r.Context()).Save(&user).Error; err != nil {
		writeError(w, apperrors.Unprocessable("Failed to reject employee"))
		return
	}

	writeJSON(w, http.StatusOK, dto.UserResponse{
		Success: true,
		Message: "Employee rejected successfully",
		User:    &user,
	})
}

// callerOrganization resolves the Organization record behind the
// authenticated caller, writing the error response on failure.
func (h *OrganizationHandler) callerOrganization(w http.ResponseWriter, r *http.Request) (*models.Organization, bool) {
	ctx := r.Context()
	if middleware.GetUserType(ctx) != models.UserTypeOrganization {
		writeError(w, apperrors.Forbidden("You are not authorized to perform this action"))
		return nil, false
	}

	var caller models.User
	if err := h.db.WithContext(ctx).First(&caller, "id = ?", middleware.GetUserID(ctx)).Error; err != nil {
		writeError(w, apperrors.Unauthorized("Invalid token"))
		return nil, false
	}
	if caller.OrganizationID == nil {
		writeError(w, apperrors.Forbidden("You are not authorized to perform this action"))
		return nil, false
	}

	var org models.Organization
	if err := h.db.WithContext(ctx).First(&org, "id = ?", *caller.OrganizationID).Error; err != nil {
		writeError(w, apperrors.NotFound("Organization not found"))
		return nil, false
	}
	return &org, true
}
