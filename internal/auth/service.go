package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/teamtrackr/teamtrackr/internal/database/models"
	"github.com/teamtrackr/teamtrackr/internal/tasks"
	"github.com/teamtrackr/teamtrackr/pkg/crypto"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrInvalidResetToken  = errors.New("invalid or expired token")
	ErrEmailSend          = errors.New("email could not be sent")
)

// Enqueuer is the slice of asynq.Client the service needs. Tests swap in a
// recording fake.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type Service struct {
	db          *gorm.DB
	jwt         *JWTService
	queue       Enqueuer
	resetExpiry time.Duration
	baseURL     string
}

func NewService(db *gorm.DB, jwt *JWTService, queue Enqueuer, resetExpiry time.Duration, baseURL string) *Service {
	return &Service{
		db:          db,
		jwt:         jwt,
		queue:       queue,
		resetExpiry: resetExpiry,
		baseURL:     baseURL,
	}
}

type RegisterEmployeeInput struct {
	Name         string
	Email        string
	Password     string
	Level        string
	YearsOfWork  int
	Availability models.Availability
}

type RegisterOrganizationInput struct {
	Name              string
	Email             string
	Password          string
	Level             string
	OrganizationName  string
	IndustryType      string
	TaxID             string
	NumberOfEmployees int
}

type AuthResult struct {
	Token string
	User  *models.User
}

func (s *Service) RegisterEmployee(ctx context.Context, input RegisterEmployeeInput) (*models.User, error) {
	var existing models.User
	if err := s.db.WithContext(ctx).Where("email = ?", input.Email).First(&existing).Error; err == nil {
		return nil, ErrUserExists
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Level:        input.Level,
		YearsOfWork:  input.YearsOfWork,
		Availability: input.Availability,
		UserType:     models.UserTypeEmployee,
		Status:       models.EmployeeStatusPending,
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}

	s.enqueueWelcome(&user)

	return &user, nil
}

func (s *Service) RegisterOrganization(ctx context.Context, input RegisterOrganizationInput) (*models.User, error) {
	var existing models.User
	if err := s.db.WithContext(ctx).Where("email = ?", input.Email).First(&existing).Error; err == nil {
		return nil, ErrUserExists
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	// The organization account is both a login identity (a User of type
	// Organization) and a distinct Organization record carrying the employee
	// roster. Created together or not at all.
	var user models.User
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		org := models.Organization{
			Name:              input.Name,
			Email:             input.Email,
			PasswordHash:      hash,
			OrganizationName:  input.OrganizationName,
			IndustryType:      input.IndustryType,
			TaxID:             input.TaxID,
			NumberOfEmployees: input.NumberOfEmployees,
			Employees:         models.UUIDArray{},
		}
		if err := tx.Create(&org).Error; err != nil {
			return err
		}

		user = models.User{
			Name:             input.Name,
			Email:            input.Email,
			PasswordHash:     hash,
			Level:            input.Level,
			UserType:         models.UserTypeOrganization,
			OrganizationName: input.OrganizationName,
			Status:           models.EmployeeStatusApproved,
			OrganizationID:   &org.ID,
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}

	s.enqueueWelcome(&user)

	return &user, nil
}

// Login issues a 7-day bearer token. Unknown email and wrong password fail
// with the same error so the response cannot reveal which check tripped.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, user.UserType, user.Level)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Token: token, User: &user}, nil
}

func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Service) UpdatePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if !CheckPassword(currentPassword, user.PasswordHash) {
		return ErrWrongPassword
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Model(user).Update("password_hash", hash).Error
}

// ForgotPassword stores only the SHA-256 of the reset token; the raw token
// leaves the process exactly once, inside the reset email. The stored hash
// stays in place until the token is consumed or expires.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	token, err := crypto.GenerateResetToken()
	if err != nil {
		return err
	}

	expiry := time.Now().Add(s.resetExpiry)
	if err := s.db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
		"reset_password_token_hash": crypto.HashToken(token),
		"reset_password_expires_at": expiry,
	}).Error; err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/api/v1/auth/reset-password/%s", s.baseURL, token)
	task, err := tasks.NewResetPasswordEmailTask(tasks.ResetPasswordEmailPayload{
		UserID:   user.ID,
		Email:    user.Email,
		Name:     user.Name,
		ResetURL: resetURL,
	})
	if err == nil {
		if s.queue == nil {
			err = ErrEmailSend
		} else {
			_, err = s.queue.Enqueue(task, asynq.Queue("critical"))
		}
	}
	if err != nil {
		// Without a deliverable email the stored hash is useless; drop it so
		// the user can retry cleanly.
		s.db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
			"reset_password_token_hash": "",
			"reset_password_expires_at": nil,
		})
		return ErrEmailSend
	}

	return nil
}

func (s *Service) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	tokenHash := crypto.HashToken(rawToken)

	var user models.User
	err := s.db.WithContext(ctx).
		Where("reset_password_token_hash = ? AND reset_password_expires_at > ?", tokenHash, time.Now()).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
		"password_hash":             hash,
		"reset_password_token_hash": "",
		"reset_password_expires_at": nil,
	}).Error
}

func (s *Service) enqueueWelcome(user *models.User) {
	if s.queue == nil {
		return
	}
	task, err := tasks.NewWelcomeEmailTask(tasks.WelcomeEmailPayload{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	})
	if err != nil {
		return
	}
	// Welcome mail is best-effort; registration never fails on it.
	_, _ = s.queue.Enqueue(task, asynq.Queue("low"))
}
