package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/teamtrackr/teamtrackr/internal/auth"
	"github.com/teamtrackr/teamtrackr/internal/database/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	// Run migrations
	err = db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.Project{},
		&models.Task{},
		&models.Comment{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// CleanupTestDB closes the test database connection
func CleanupTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		t.Logf("warning: failed to get sql.DB: %v", err)
		return
	}
	sqlDB.Close()
}

// UserOption tweaks the defaults of CreateTestUser.
type UserOption func(*models.User)

func WithLevel(level string) UserOption {
	return func(u *models.User) { u.Level = level }
}

func WithUserType(userType string) UserOption {
	return func(u *models.User) { u.UserType = userType }
}

func WithStatus(status string) UserOption {
	return func(u *models.User) { u.Status = status }
}

func WithEmail(email string) UserOption {
	return func(u *models.User) { u.Email = email }
}

// CreateTestUser creates an approved Senior employee unless options say
// otherwise. The password is always "testpassword123".
func CreateTestUser(t *testing.T, db *gorm.DB, opts ...UserOption) *models.User {
	t.Helper()

	hash, err := auth.HashPassword("testpassword123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Base: models.Base{
			ID: uuid.New(),
		},
		Name:         "Test User",
		Email:        "test-" + uuid.New().String()[:8] + "@example.com",
		PasswordHash: hash,
		Level:        models.LevelSenior,
		YearsOfWork:  5,
		Availability: models.Availability{Status: models.AvailabilityAvailable},
		UserType:     models.UserTypeEmployee,
		Status:       models.EmployeeStatusApproved,
	}
	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateTestOrg creates an organization record together with its login user.
func CreateTestOrg(t *testing.T, db *gorm.DB) (*models.Organization, *models.User) {
	t.Helper()

	org := &models.Organization{
		Base: models.Base{
			ID: uuid.New(),
		},
		Name:             "Test Org Owner",
		Email:            "org-" + uuid.New().String()[:8] + "@example.com",
		OrganizationName: "Test Organization",
	}

	hash, err := auth.HashPassword("testpassword123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	org.PasswordHash = hash

	if err := db.Create(org).Error; err != nil {
		t.Fatalf("failed to create test organization: %v", err)
	}

	user := CreateTestUser(t, db,
		WithUserType(models.UserTypeOrganization),
		WithLevel(models.LevelCEO),
		WithEmail(org.Email))
	user.OrganizationName = org.OrganizationName
	user.OrganizationID = &org.ID
	if err := db.Save(user).Error; err != nil {
		t.Fatalf("failed to link organization user: %v", err)
	}

	return org, user
}

// CreateTestProject creates a test project owned by the given user
func CreateTestProject(t *testing.T, db *gorm.DB, createdBy uuid.UUID) *models.Project {
	t.Helper()

	project := &models.Project{
		Base: models.Base{
			ID: uuid.New(),
		},
		Name:        "Test Project " + uuid.New().String()[:8],
		Description: "Test project description",
		CreatedBy:   createdBy,
		StartDate:   time.Now(),
		EndDate:     time.Now().Add(30 * 24 * time.Hour),
	}

	if err := db.Create(project).Error; err != nil {
		t.Fatalf("failed to create test project: %v", err)
	}

	return project
}

// CreateTestTask creates a test task under the given project
func CreateTestTask(t *testing.T, db *gorm.DB, projectID, createdBy uuid.UUID) *models.Task {
	t.Helper()

	task := &models.Task{
		Base: models.Base{
			ID: uuid.New(),
		},
		Title:       "Test Task " + uuid.New().String()[:8],
		Description: "Test task description",
		Status:      models.TaskStatusNew,
		Priority:    models.TaskPriorityMedium,
		CreatedBy:   createdBy,
		ProjectID:   projectID,
		StartDate:   time.Now(),
		DueDate:     time.Now().Add(7 * 24 * time.Hour),
	}

	if err := db.Create(task).Error; err != nil {
		t.Fatalf("failed to create test task: %v", err)
	}

	return task
}

// CreateTestComment creates a test comment on the given task
func CreateTestComment(t *testing.T, db *gorm.DB, taskID, createdBy uuid.UUID) *models.Comment {
	t.Helper()

	comment := &models.Comment{
		Base: models.Base{
			ID: uuid.New(),
		},
		Text:      "Test comment",
		TaskID:    taskID,
		CreatedBy: createdBy,
	}

	if err := db.Create(comment).Error; err != nil {
		t.Fatalf("failed to create test comment: %v", err)
	}

	return comment
}

// CreateTestJWTService creates a JWT service for testing
func CreateTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret-key-for-testing", 24*time.Hour)
}

// GenerateTestToken generates a valid JWT token for the given user
func GenerateTestToken(t *testing.T, jwtService *auth.JWTService, user *models.User) string {
	t.Helper()

	token, err := jwtService.GenerateToken(user.ID, user.UserType, user.Level)
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}

	return token
}

// AuthenticatedRequest creates an HTTP request with authentication
func AuthenticatedRequest(t *testing.T, method, path string, body interface{}, token string) *http.Request {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// UnauthenticatedRequest creates an HTTP request without authentication
func UnauthenticatedRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	return AuthenticatedRequest(t, method, path, body, "")
}

// AssertStatus checks if the response has the expected status code
func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rr.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, rr.Code, rr.Body.String())
	}
}

// ParseJSONResponse parses the response body into the given struct
func ParseJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response body: %v. Body: %s", err, rr.Body.String())
	}
}

// TestContext creates a context with a timeout for tests
func TestContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// TestSetup holds all the common test dependencies
type TestSetup struct {
	DB         *gorm.DB
	JWTService *auth.JWTService
	User       *models.User
	Token      string
}

// NewTestContext creates a complete test setup with DB, user, and token
func NewTestContext(t *testing.T) *TestSetup {
	t.Helper()

	db := SetupTestDB(t)
	jwtService := CreateTestJWTService()
	user := CreateTestUser(t, db)
	token := GenerateTestToken(t, jwtService, user)

	return &TestSetup{
		DB:         db,
		JWTService: jwtService,
		User:       user,
		Token:      token,
	}
}

// Cleanup closes the test database
func (ts *TestSetup) Cleanup() {
	if ts.DB != nil {
		sqlDB, err := ts.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}
