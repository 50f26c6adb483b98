package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/teamtrackr/teamtrackr/internal/database/models"
)

// Authenticator defines the credential lifecycle operations.
type Authenticator interface {
	RegisterEmployee(ctx context.Context, input RegisterEmployeeInput) (*models.User, error)
	RegisterOrganization(ctx context.Context, input RegisterOrganizationInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, rawToken, newPassword string) error
}

// TokenService defines the interface for bearer token operations.
type TokenService interface {
	GenerateToken(userID uuid.UUID, userType, level string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Compile-time interface satisfaction checks
var (
	_ Authenticator = (*Service)(nil)
	_ TokenService  = (*JWTService)(nil)
)
