package auth

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rpupo63/project-tracker-backend/database"
	"github.com/rpupo63/project-tracker-backend/errs"
	"github.com/rpupo63/project-tracker-backend/models"
)

func newTestAuthService(t *testing.T) *Service {
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
	return NewService(db.UserRepo(), map[string]string{
		"JWT_SECRET":      "test-secret",
		"TOKEN_TTL_HOURS": "1",
	})
}

func TestSignUpAndSignIn(t *testing.T) {
	service := newTestAuthService(t)

	user, token, err := service.SignUp("dev@example.com", "hunter22", "Dev")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NotEmpty(t, token)
	assert.Equal(t, "dev@example.com", user.Email)
	assert.NotEqual(t, "hunter22", user.PasswordHash)

	signedIn, token, err := service.SignIn("dev@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, user.ID, signedIn.ID)
	assert.NotEmpty(t, token)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	service := newTestAuthService(t)

	_, _, err := service.SignUp("dev@example.com", "hunter22", "Dev")
	require.NoError(t, err)

	_, _, err = service.SignUp("dev@example.com", "other-password", "Dev Again")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrAlreadyExists)
}

func TestSignInWrongPassword(t *testing.T) {
	service := newTestAuthService(t)

	_, _, err := service.SignUp("dev@example.com", "hunter22", "Dev")
	require.NoError(t, err)

	_, _, wrongErr := service.SignIn("dev@example.com", "wrong")
	_, _, unknownErr := service.SignIn("nobody@example.com", "hunter22")

	// Wrong password and unknown email must be indistinguishable.
	require.Error(t, wrongErr)
	require.Error(t, unknownErr)
	assert.Equal(t, wrongErr.Error(), unknownErr.Error())
}

func TestTokenRoundTrip(t *testing.T) {
	service := newTestAuthService(t)

	user, token, err := service.SignUp("dev@example.com", "hunter22", "Dev")
	require.NoError(t, err)

	subject, err := service.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), subject)
}

func TestTokenExpiry(t *testing.T) {
	service := newTestAuthService(t)

	user, _, err := service.SignUp("dev@example.com", "hunter22", "Dev")
	require.NoError(t, err)

	issued := time.Now()
	service.now = func() time.Time { return issued }
	token, err := service.IssueToken(user.ID)
	require.NoError(t, err)

	// Still valid just inside the TTL.
	service.now = func() time.Time { return issued.Add(59 * time.Minute) }
	_, err = service.ParseToken(token)
	require.NoError(t, err)

	// Rejected once the TTL has passed.
	service.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = service.ParseToken(token)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	service := newTestAuthService(t)

	_, err := service.ParseToken("not-a-token")
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	_, err = service.ParseToken("")
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}
