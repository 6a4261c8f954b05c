package actions

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rpupo63/project-tracker-backend/database"
	"github.com/rpupo63/project-tracker-backend/models"
)

// testNow is the frozen clock every service under test runs on.
var testNow = time.Date(2025, time.July, 15, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) database.Database {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps the in-memory database alive and shared.
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gormDB.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, models.Migrate(gormDB))

	return database.New(gormDB)
}

func newTestService(t *testing.T) (*ProjectService, database.Database, string) {
	t.Helper()

	db := newTestDB(t)
	service := NewProjectService(db, WithClock(func() time.Time { return testNow }))

	user := &models.User{Email: "dev@example.com", Name: "Dev"}
	require.NoError(t, db.UserRepo().Add(user))

	return service, db, user.ID.String()
}

func addUser(t *testing.T, db database.Database, email string) string {
	t.Helper()

	user := &models.User{Email: email, Name: "Other"}
	require.NoError(t, db.UserRepo().Add(user))
	return user.ID.String()
}

func createProject(t *testing.T, s *ProjectService, userID string, input CreateProjectInput) *models.Project {
	t.Helper()

	if input.Name == "" {
		input.Name = "Side Project"
	}
	if input.StartDate.IsZero() {
		input.StartDate = testNow.AddDate(0, -1, 0)
	}
	result, err := s.CreateProject(userID, input)
	require.NoError(t, err)
	require.True(t, result.Success, "create failed: %s (%s)", result.Error, result.Code)
	return result.Data
}

func strPtr(s string) *string { return &s }

func tagLabels(tags []models.ProjectTag) []string {
	labels := make([]string, 0, len(tags))
	for _, tag := range tags {
		labels = append(labels, tag.Label)
	}
	return labels
}

func mustGet(t *testing.T, s *ProjectService, userID string, projectID uuid.UUID) *models.Project {
	t.Helper()

	result, err := s.GetProject(userID, projectID.String())
	require.NoError(t, err)
	require.True(t, result.Success)
	return result.Data
}
