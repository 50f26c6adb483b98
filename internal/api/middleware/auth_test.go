package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamtrackr/teamtrackr/internal/api/middleware"
	"github.com/teamtrackr/teamtrackr/internal/auth"
	"github.com/teamtrackr/teamtrackr/internal/database/models"
)

func authedEcho(t *testing.T, svc *auth.JWTService) (http.Handler, *uuid.UUID, *string, *string) {
	t.Helper()

	var gotID uuid.UUID
	var gotType, gotLevel string

	handler := middleware.Auth(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = middleware.GetUserID(r.Context())
		gotType = middleware.GetUserType(r.Context())
		gotLevel = middleware.GetUserLevel(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	return handler, &gotID, &gotType, &gotLevel
}

func TestAuth_ValidToken(t *testing.T) {
	svc := auth.NewJWTService("test-secret", time.Hour)
	userID := uuid.New()

	token, err := svc.GenerateToken(userID, models.UserTypeEmployee, models.LevelSenior)
	require.NoError(t, err)

	handler, gotID, gotType, gotLevel := authedEcho(t, svc)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, userID, *gotID)
	assert.Equal(t, models.UserTypeEmployee, *gotType)
	assert.Equal(t, models.LevelSenior, *gotLevel)
}

func TestAuth_MissingHeader(t *testing.T) {
	svc := auth.NewJWTService("test-secret", time.Hour)
	handler, _, _, _ := authedEcho(t, svc)

	req := httptest.NewRequest("GET", "/", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Authorization token missing")
}

func TestAuth_MissingBearerPrefix(t *testing.T) {
	svc := auth.NewJWTService("test-secret", time.Hour)
	token, err := svc.GenerateToken(uuid.New(), models.UserTypeEmployee, models.LevelJunior)
	require.NoError(t, err)

	handler, _, _, _ := authedEcho(t, svc)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid token")
}

func TestAuth_ExpiredToken(t *testing.T) {
	svc := auth.NewJWTService("test-secret", -time.Hour)
	token, err := svc.GenerateToken(uuid.New(), models.UserTypeEmployee, models.LevelJunior)
	require.NoError(t, err)

	handler, _, _, _ := authedEcho(t, svc)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Token has expired")
}

func TestAuth_TamperedToken(t *testing.T) {
	svc := auth.NewJWTService("test-secret", time.Hour)
	other := auth.NewJWTService("another-secret", time.Hour)

	token, err := other.GenerateToken(uuid.New(), models.UserTypeEmployee, models.LevelJunior)
	require.NoError(t, err)

	handler, _, _, _ := authedEcho(t, svc)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid token")
}
