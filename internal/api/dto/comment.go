package dto

import (
	"github.com/teamtrackr/teamtrackr/internal/apperrors"
	"github.com/teamtrackr/teamtrackr/internal/database/models"
)

type CreateCommentRequest struct {
	Text string `json:"text"`
}

func (r CreateCommentRequest) Validate() error {
	if r.Text == "" {
		return apperrors.BadRequest("Please add some text")
	}
	return nil
}

type UpdateCommentRequest struct {
	Text *string `json:"text"`
}

func (r UpdateCommentRequest) Validate() error {
	if r.Text != nil && *r.Text == "" {
		return apperrors.BadRequest("Please add some text")
	}
	return nil
}

type CommentResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Comment *models.Comment `json:"comment"`
}
