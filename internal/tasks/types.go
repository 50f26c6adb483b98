package tasks

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Task type names
const (
	TypeResetPasswordEmail = "email:reset_password"
	TypeWelcomeEmail       = "email:welcome"
	TypeOverdueDigest      = "reminder:overdue_digest"
)

// ResetPasswordEmailPayload carries the raw reset token embedded in the URL.
// It lives only in the queue; the database never sees the raw token.
type ResetPasswordEmailPayload struct {
	UserID   uuid.UUID `json:"user_id"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	ResetURL string    `json:"reset_url"`
}

func NewResetPasswordEmailTask(payload ResetPasswordEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeResetPasswordEmail, data), nil
}

// WelcomeEmailPayload contains the data for a registration welcome email
type WelcomeEmailPayload struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
}

func NewWelcomeEmailTask(payload WelcomeEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeWelcomeEmail, data), nil
}

// OverdueDigestPayload is empty - the digest sweeps every project.
type OverdueDigestPayload struct{}

func NewOverdueDigestTask() *asynq.Task {
	return asynq.NewTask(TypeOverdueDigest, nil)
}
