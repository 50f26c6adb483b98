package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/teamtrackr/teamtrackr/internal/api/dto"
	"github.com/teamtrackr/teamtrackr/internal/api/middleware"
	"github.com/teamtrackr/teamtrackr/internal/api/policy"
	"github.com/teamtrackr/teamtrackr/internal/apperrors"
	"github.com/teamtrackr/teamtrackr/internal/database/models"
	"gorm.io/gorm"
)

type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// List handles GET /api/v1/users. Accepts optional page and perPage query
// parameters.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	params := dto.PaginationParams{}
	params.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	params.PerPage, _ = strconv.Atoi(r.URL.Query().Get("perPage"))
	params.Normalize()

	var users []models.User
	if err := h.db.WithContext(r.Context()).
		Order("created_at DESC").
		Limit(params.PerPage).
		Offset(params.Offset()).
		Find(&users).Error; err != nil {
		writeError(w, apperrors.Unprocessable("Failed to fetch all users"))
		return
	}

	writeJSON(w, http.StatusOK, dto.ListResponse{
		Success: true,
		Count:   len(users),
		Data:    users,
	})
}

// Me handles GET /api/v1/users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var user models.User
	if err := h.db.WithContext(r.Context()).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, apperrors.NotFound("User not found"))
		} else {
			writeError(w, apperrors.Unprocessable("Failed to fetch user"))
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.UserResponse{Success: true, User: &user})
}

// Get handles GET /api/v1/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id", "user")
	if !ok {
		return
	}

	var user models.User
	if err := h.db.WithContext(r.Context()).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, apperrors.NotFound("User not found"))
		} else {
			writeError(w, apperrors.Unprocessable("Failed to fetch user"))
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.UserResponse{Success: true, User: &user})
}

// Delete handles DELETE /api/v1/users/{id}/delete. Accounts can only be
// deleted by their own holder.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id", "user")
	if !ok {
		return
	}

	var user models.User
	if err := h.db.WithContext(r.Context()).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, apperrors.NotFound("User not found"))
		} else {
			writeError(w, apperrors.Unprocessable("Failed to delete user"))
		}
		return
	}

	identity := identityFrom(r)
	if !policy.Allowed(identity, policy.ActionDelete, policy.ResourceUser, policy.Target{UserID: user.ID}) {
		writeError(w, apperrors.Forbidden("You are not authorized to perform this action"))
		return
	}

	if err := h.db.WithContext(r.Context()).Delete(&user).Error; err != nil {
		writeError(w, apperrors.Unprocessable("Failed to delete user"))
		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{
		Success: true,
		Message: "User deleted successfully",
	})
}
