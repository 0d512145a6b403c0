package testutil

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/kendall-kelly/modamedidas-api/config"
	"github.com/kendall-kelly/modamedidas-api/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TestPassword is the password every designer fixture is created with
const TestPassword = "correct-horse-battery"

// RequireTestEnvironment ensures that tests are running in the test environment.
// This prevents accidental execution of tests against production or development databases.
// It will fail the test immediately if GO_ENV is not set to "test".
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: Tests must run with GO_ENV=test to prevent data loss. Current GO_ENV=%q. Set GO_ENV=test before running tests.", env)
	}
}

// RequireTestEnvironmentOrSkip is similar to RequireTestEnvironment but skips the test
// instead of failing it.
func RequireTestEnvironmentOrSkip(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Skipf("Skipping test: GO_ENV must be 'test' (current: %q)", env)
	}
}

// MustSetTestEnvironment sets GO_ENV to test and fails if it cannot be set.
// Use this in suite setup functions.
func MustSetTestEnvironment(t *testing.T) {
	t.Helper()

	if err := os.Setenv("GO_ENV", "test"); err != nil {
		t.Fatalf("Failed to set GO_ENV=test: %v", err)
	}
	if os.Getenv("GO_ENV") != "test" {
		t.Fatal("Failed to verify GO_ENV=test")
	}
}

// NewTestDB opens a migrated in-memory sqlite database and installs it as config.DB.
// The pool is pinned to one connection so every query sees the same memory database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), config.GormConfig())
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	config.SetDB(db)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// NewTestConfig returns a configuration suitable for tests and installs it as
// the process configuration
func NewTestConfig() *config.Config {
	cfg := &config.Config{
		DatabaseURL:           ":memory:",
		DatabaseDriver:        "sqlite",
		Port:                  "8080",
		GoEnv:                 "test",
		JWTSecret:             "test-secret",
		JWTIssuer:             "modamedidas-api",
		JWTAudience:           "modamedidas",
		JWTExpiry:             time.Hour,
		BcryptCost:            bcrypt.MinCost,
		StorageDriver:         "local",
		UploadDir:             os.TempDir(),
		RateLimitRequests:     1000,
		RateLimitWindow:       time.Minute,
		AuthRateLimitRequests: 1000,
		LogLevel:              "error",
	}
	config.SetConfig(cfg)
	return cfg
}

// CreateDesigner stores an active designer account with TestPassword
func CreateDesigner(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Name:       "Designer " + email,
		Email:      models.NormalizeEmail(email),
		StudioName: "Studio " + email,
		Role:       models.RoleDesigner,
		IsActive:   true,
	}
	if err := user.SetPassword(TestPassword, bcrypt.MinCost); err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create designer: %v", err)
	}
	return user
}

// CreateAdmin stores an active admin account
func CreateAdmin(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := CreateDesigner(t, db, email)
	if err := db.Model(user).Update("role", models.RoleAdmin).Error; err != nil {
		t.Fatalf("Failed to promote admin: %v", err)
	}
	user.Role = models.RoleAdmin
	return user
}

// CreateClient stores an active client owned by designer
func CreateClient(t *testing.T, db *gorm.DB, designer *models.User, name string) *models.Client {
	t.Helper()

	client := &models.Client{
		DesignerID: designer.ID,
		Name:       name,
		Phone:      "555-0100",
		Email:      fmt.Sprintf("%s@example.com", name),
		IsActive:   true,
	}
	if err := db.Create(client).Error; err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return client
}

// Float returns a pointer to v for measurement fixtures
func Float(v float64) *float64 {
	return &v
}
