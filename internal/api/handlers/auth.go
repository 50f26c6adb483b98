package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/teamtrackr/teamtrackr/internal/api/dto"
	"github.com/teamtrackr/teamtrackr/internal/api/middleware"
	"github.com/teamtrackr/teamtrackr/internal/apperrors"
	"github.com/teamtrackr/teamtrackr/internal/auth"
)

type AuthHandler struct {
	authService auth.Authenticator
}

func NewAuthHandler(authService auth.Authenticator) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) RegisterEmployee(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.BadRequest("Invalid request body"))
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, err)
		return
	}

	input := auth.RegisterEmployeeInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Level:       req.Level,
		YearsOfWork: req.YearsOfWork,
	}
	if req.Availability != nil {
		input.Availability = req.Availability.ToModel()
	}

	user, err := h.authService.RegisterEmployee(r.Context(), input)
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			writeError(w, apperrors.BadRequest("User with this email already exists"))
		} else {
			writeError(w, apperrors.Unprocessable("Failed to register employee"))
		}
		return
	}

	writeJSON(w, http.StatusCreated, dto.UserResponse{
		Success: true,
		Message: "Employee registered successfully",
		User:    user,
	})
}

func (h *AuthHandler) RegisterOrganization(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.BadRequest("Invalid request body"))
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.authService.RegisterOrganization(r.Context(), auth.RegisterOrganizationInput{
		Name:              req.Name,
		Email:             req.Email,
		Password:          req.Password,
		Level:             req.Level,
		OrganizationName:  req.OrganizationName,
		IndustryType:      req.IndustryType,
		TaxID:             req.TaxID,
		NumberOfEmployees: req.NumberOfEmployees,
	})
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			writeError(w, apperrors.BadRequest("User with this email already exists"))
		} else {
			writeError(w, apperrors.Unprocessable("Failed to register organization"))
		}
		return
	}

	writeJSON(w, http.StatusCreated, dto.UserResponse{
		Success: true,
		Message: "Organization registered successfully",
		User:    user,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.BadRequest("Invalid request body"))
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, apperrors.Unauthorized("Invalid credentials"))
		} else {
			writeError(w, apperrors.Unprocessable("Failed to login user"))
		}
		return
	}

	// The token travels both ways: clients may read it from the body or from
	// the echoed Authorization header.
	w.Header().Set("Authorization", "Bearer "+result.Token)
	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Success: true,
		Message: "User logged in successfully",
		User:    result.User,
		Token:   result.Token,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if _, err := h.authService.GetUserByID(r.Context(), userID); err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			writeError(w, apperrors.NotFound("User not found"))
		} else {
			writeError(w, apperrors.Unprocessable("Failed to logout user"))
		}
		return
	}

	// Stateless logout: the bearer token stays valid until expiry, the
	// emptied header is only a signal to the client to drop it.
	w.Header().Set("Authorization", "")
	writeJSON(w, http.StatusOK, dto.MessageResponse{
		Success: true,
		Message: "User logged out successfully",
	})
}

func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.BadRequest("Invalid request body"))
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, err)
		return
	}

	userID := middleware.GetUserID(r.Context())
	err := h.authService.UpdatePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrWrongPassword):
			writeError(w, apperrors.Unauthorized("Current password is incorrect"))
		case errors.Is(err, auth.ErrUserNotFound):
			writeError(w, apperrors.NotFound("User not found"))
		default:
			writeError(w, apperrors.Unprocessable("Failed to update password"))
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{
		Success: true,
		Message: "Password updated successfully",
	})
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.BadRequest("Invalid request body"))
		return
	}

	if err := h.authService.ForgotPassword(r.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			writeError(w, apperrors.NotFound("There is no user with that email"))
		case errors.Is(err, auth.ErrEmailSend):
			writeError(w, apperrors.Unprocessable("Email could not be sent"))
		default:
			writeError(w, apperrors.Unprocessable("Failed to process password reset"))
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{
		Success: true,
		Message: "Email sent",
	})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.BadRequest("Invalid request body"))
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, err)
		return
	}

	resetToken := chi.URLParam(r, "resettoken")
	if err := h.authService.ResetPassword(r.Context(), resetToken, req.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidResetToken) {
			writeError(w, apperrors.BadRequest("Invalid or expired token"))
		} else {
			writeError(w, apperrors.Unprocessable("Failed to reset password"))
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{
		Success: true,
		Message: "Password reset successfully",
	})
}
