package testutil

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/exxata/connect-api/internal/domain"
)

// SetupTestDB creates a connection to the test PostgreSQL database
// It uses environment variables or falls back to docker-compose defaults
func SetupTestDB(t *testing.T) *gorm.DB {
	host := getEnvOrDefault("DATABASE_HOST", "localhost")
	port := getEnvOrDefault("DATABASE_PORT", "5432")
	user := getEnvOrDefault("DATABASE_USER", "connect_user")
	password := getEnvOrDefault("DATABASE_PASSWORD", "connect_password")
	dbname := getEnvOrDefault("DATABASE_NAME", "connect")

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		host, port, user, password, dbname)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err, "Failed to connect to test database. Ensure PostgreSQL is running.")

	return db
}

// CleanupTestData cleans up test data from all tables
// This should be called after tests to ensure a clean state
func CleanupTestData(t *testing.T, db *gorm.DB) {
	// Delete in order to respect foreign key constraints
	tables := []string{
		"panoramas",
		"conducts",
		"indicators",
		"project_files",
		"project_activities",
		"project_members",
		"projects",
		"profiles",
	}

	for _, table := range tables {
		err := db.Exec(fmt.Sprintf("DELETE FROM %s WHERE id IS NOT NULL", table)).Error
		if err != nil {
			// Table might not exist, that's ok
			t.Logf("Note: Could not clean table %s: %v", table, err)
		}
	}
}

// CreateTestProfile creates a profile row with the given role and a
// unique email so parallel tests don't collide on the unique index
func CreateTestProfile(t *testing.T, db *gorm.DB, name string, role domain.Role) *domain.Profile {
	profile := &domain.Profile{
		ID:     uuid.New(),
		Name:   name,
		Email:  fmt.Sprintf("test-%d@exxata.com.br", randomInt()),
		Role:   role,
		Status: domain.UserStatusActive,
	}
	err := db.Omit(clause.Associations).Create(profile).Error
	require.NoError(t, err)
	return profile
}

// CreateTestProject creates a project owned by the given profile
func CreateTestProject(t *testing.T, db *gorm.DB, name string, createdBy uuid.UUID) *domain.Project {
	project := &domain.Project{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		Name:      name,
		Client:    "Cliente Teste",
		Status:    string(domain.ProjectStatusActive),
		CreatedBy: &createdBy,
	}
	err := db.Omit(clause.Associations).Create(project).Error
	require.NoError(t, err)
	return project
}

// AddTestMember links a profile to a project as an active member
func AddTestMember(t *testing.T, db *gorm.DB, projectID, userID uuid.UUID, role domain.Role) *domain.ProjectMember {
	member := &domain.ProjectMember{
		ID:        uuid.New(),
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
		Status:    domain.MemberStatusActive,
	}
	err := db.Omit(clause.Associations).Create(member).Error
	require.NoError(t, err)
	return member
}

// randomInt returns a unique integer for test data
func randomInt() int64 {
	return time.Now().UnixNano()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
