package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rpupo63/project-tracker-backend/auth"
	"github.com/rpupo63/project-tracker-backend/database"
	"github.com/rpupo63/project-tracker-backend/models"
)

func newTestAuth(t *testing.T) (*auth.Service, database.Database) {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.Migrate(gormDB))

	db := database.New(gormDB)
	return auth.NewService(db.UserRepo(), map[string]string{"JWT_SECRET": "test-secret"}), db
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	authService, _ := newTestAuth(t)
	middleware := newAuthMiddleware(authService)

	handler := middleware.authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"garbage token", "Bearer not-a-token"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/projects", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAuthenticatePassesUserID(t *testing.T) {
	authService, db := newTestAuth(t)
	middleware := newAuthMiddleware(authService)

	user := &models.User{Email: "dev@example.com", Name: "Dev"}
	require.NoError(t, db.UserRepo().Add(user))

	token, err := authService.IssueToken(user.ID)
	require.NoError(t, err)

	var gotUserID string
	handler := middleware.authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, err = ctxGetUserID(r.Context())
		require.NoError(t, err)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, user.ID.String(), gotUserID)
}

func TestLogInternalServerErrorsRecoversPanic(t *testing.T) {
	handler := LogInternalServerErrors(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
