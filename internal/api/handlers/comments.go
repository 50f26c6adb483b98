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

type CommentHandler struct {
	db *gorm.DB
}

func NewCommentHandler(db *gorm.DB) *CommentHandler {
	return &CommentHandler{db: db}
}

// List handles GET /api/v1/comments
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	var comments []models.Comment
	if err := h.db.WithContext(r.Context()).Order("created_at DESC").Find(&comments).Error; err != nil {
		writeError(w, apperrors.Unprocessable("Failed to fetch comments"))
		return
	}

	writeJSON(w, http.StatusOK, dto.ListResponse{
		Success: true,
		Count:   len(comments),
		Data:    comments,
	})
}

// Get handles GET /api/v1/comments/{id}
func (h *CommentHandler) Get(w http.ResponseWriter, r *http.Request) {
	commentID, ok := pathID(w, r, "id", "comment")
	if !ok {
		return
	}

	var comment models.Comment
	if err := h.db.WithContext(r.Context()).First(&comment, "id = ?", commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, apperrors.NotFound("Comment not found"))
		} else {
			writeError(w, apperrors.Unprocessable("Failed to fetch comment"))
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.CommentResponse{Success: true, Comment: &comment})
}

// Create handles POST /api/v1/tasks/{id}/new-comment
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathID(w, r, "id", "task")
	if !ok {
		return
	}

	var task models.Task
	if err := h.db.WithContext(r.Context()).First(&task, "id = ?", taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, apperrors.NotFound("Task not found"))
		} else {
			writeError(w, apperrors.Unprocessable("Failed to create comment"))
		}
		return
	}

	var req dto.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.BadRequest("Invalid request body"))
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, err)
		return
	}

	identity := identityFrom(r)
	comment := models.Comment{
		Text:      req.Text,
		TaskID:    task.ID,
		CreatedBy: identity.UserID,
	}
	if err := h.db.WithContext(r.Context()).Create(&comment).Error; err != nil {
		writeError(w, apperrors.Unprocessable("Failed to create comment"))
		return
	}

	writeJSON(w, http.StatusCreated, dto.CommentResponse{
		Success: true,
		Message: "Comment created successfully",
		Comment: &comment,
	})
}

// Update handles PATCH /api/v1/comments/{id}/update
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	commentID, ok := pathID(w, r, "id", "comment")
	if !ok {
		return
	}

	var comment models.Comment
	if err := h.db.WithContext(r.Context()).First(&comment, "id = ?", commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, apperrors.NotFound("Comment not found"))
		} else {
			writeError(w, apperrors.Unprocessable("Failed to update comment"))
		}
		return
	}

	identity := identityFrom(r)
	if !policy.Allowed(identity, policy.ActionUpdate, policy.ResourceComment, policy.Target{CreatedBy: comment.CreatedBy}) {
		writeError(w, apperrors.Forbidden("You are not authorized to perform this action"))
		return
	}

	var req dto.UpdateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.BadRequest("Invalid request body"))
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, err)
		return
	}

	if req.Text != nil {
		comment.Text = *req.Text
	}

	if err := h.db.WithContext(r.Context()).Save(&comment).Error; err != nil {
		writeError(w, apperrors.Unprocessable("Failed to update comment"))
		return
	}

	writeJSON(w, http.StatusOK, dto.CommentResponse{
		Success: true,
		Message: "Comment updated successfully",
		Comment: &comment,
	})
}

// Delete handles DELETE /api/v1/comments/{id}/delete
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	commentID, ok := pathID(w, r, "id", "comment")
	if !ok {
		return
	}

	var comment models.Comment
	if err := h.db.WithContext(r.Context()).First(&comment, "id = ?", commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, apperrors.NotFound("Comment not found"))
		} else {
			writeError(w, apperrors.Unprocessable("Failed to delete comment"))
		}
		return
	}

	identity := identityFrom(r)
	if !policy.Allowed(identity, policy.ActionDelete, policy.ResourceComment, policy.Target{CreatedBy: comment.CreatedBy}) {
		writeError(w, apperrors.Forbidden("You are not authorized to perform this action"))
		return
	}

	if err := h.db.WithContext(r.Context()).Delete(&comment).Error; err != nil {
		writeError(w, apperrors.Unprocessable("Failed to delete comment"))
		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{
		Success: true,
		Message: "Comment deleted successfully",
	})
}
