package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/teamtrackr/teamtrackr/internal/database/models"
	"github.com/teamtrackr/teamtrackr/internal/mail"
	"gorm.io/gorm"
)

type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
	mailer mail.Mailer
}

func NewHandler(db *gorm.DB, logger *slog.Logger, mailer mail.Mailer) *Handler {
	return &Handler{
		db:     db,
		logger: logger,
		mailer: mailer,
	}
}

func (h *Handler) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeResetPasswordEmail, h.HandleResetPasswordEmail)
	mux.HandleFunc(TypeWelcomeEmail, h.HandleWelcomeEmail)
	mux.HandleFunc(TypeOverdueDigest, h.HandleOverdueDigest)
}

func (h *Handler) HandleResetPasswordEmail(ctx context.Context, t *asynq.Task) error {
	var payload ResetPasswordEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	h.logger.Info("sending reset password email", "user_id", payload.UserID)

	body := fmt.Sprintf(
		"You are receiving this email because you (or someone else) has requested the reset of a password.\n\n"+
			"Please follow this link to reset your password:\n\n%s\n\n"+
			"The link expires in 24 hours. If you did not request this, you can ignore this email.",
		payload.ResetURL,
	)

	if err := h.mailer.Send(payload.Email, "Password reset request", body); err != nil {
		h.logger.Error("failed to send reset email", "user_id", payload.UserID, "error", err)
		return err
	}

	return nil
}

func (h *Handler) HandleWelcomeEmail(ctx context.Context, t *asynq.Task) error {
	var payload WelcomeEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	body := fmt.Sprintf(
		"Hi %s,\n\nYour Team Trackr account is ready. Log in to start managing projects and tasks.\n",
		payload.Name,
	)

	if err := h.mailer.Send(payload.Email, "Welcome to Team Trackr", body); err != nil {
		h.logger.Error("failed to send welcome email", "user_id", payload.UserID, "error", err)
		return err
	}

	return nil
}

// HandleOverdueDigest sweeps tasks whose due date has passed without being
// done and mails one digest per project creator.
func (h *Handler) HandleOverdueDigest(ctx context.Context, t *asynq.Task) error {
	var overdue []models.Task
	err := h.db.WithContext(ctx).
		Where("due_date < ? AND status <> ?", time.Now(), models.TaskStatusDone).
		Order("due_date ASC").
		Find(&overdue).Error
	if err != nil {
		return fmt.Errorf("listing overdue tasks: %w", err)
	}

	if len(overdue) == 0 {
		return nil
	}

	byProject := make(map[uuid.UUID][]models.Task)
	for _, task := range overdue {
		byProject[task.ProjectID] = append(byProject[task.ProjectID], task)
	}

	byCreator := make(map[uuid.UUID][]string)
	for projectID, projectTasks := range byProject {
		var project models.Project
		if err := h.db.WithContext(ctx).First(&project, "id = ?", projectID).Error; err != nil {
			h.logger.Warn("skipping orphaned tasks", "project_id", projectID, "count", len(projectTasks))
			continue
		}
		for _, task := range projectTasks {
			line := fmt.Sprintf("- [%s] %s (due %s)", project.Name, task.Title, task.DueDate.Format("2006-01-02"))
			byCreator[project.CreatedBy] = append(byCreator[project.CreatedBy], line)
		}
	}

	for creatorID, lines := range byCreator {
		var creator models.User
		if err := h.db.WithContext(ctx).First(&creator, "id = ?", creatorID).Error; err != nil {
			continue
		}

		body := fmt.Sprintf(
			"Hi %s,\n\nThe following tasks in your projects are past due:\n\n%s\n",
			creator.Name, strings.Join(lines, "\n"),
		)

		if err := h.mailer.Send(creator.Email, "Overdue task digest", body); err != nil {
			h.logger.Error("failed to send overdue digest", "user_id", creatorID, "error", err)
		}
	}

	h.logger.Info("overdue digest complete", "tasks", len(overdue), "recipients", len(byCreator))

	return nil
}
