package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"

	"github.com/rpupo63/project-tracker-backend/config"
	"github.com/rpupo63/project-tracker-backend/database"
	"github.com/rpupo63/project-tracker-backend/errs"
	"github.com/rpupo63/project-tracker-backend/models"
)

const githubUserEndpoint = "https://api.github.com/user"

// Service issues and verifies session tokens, and owns account sign-up and
// sign-in (email/password and GitHub OAuth).
type Service struct {
	users     *database.UserRepo
	logger    zerolog.Logger
	jwtSecret []byte
	tokenTTL  time.Duration
	github    *oauth2.Config
	now       func() time.Time
}

func NewService(users *database.UserRepo, c map[string]string) *Service {
	logger := log.With().Str("serviceName", "authService").Logger()

	var github *oauth2.Config
	clientID := config.GetString(c, "GITHUB_CLIENT_ID", "")
	if clientID != "" {
		github = &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: config.GetString(c, "GITHUB_CLIENT_SECRET", ""),
			RedirectURL:  config.GetString(c, "GITHUB_REDIRECT_URL", ""),
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     githuboauth.Endpoint,
		}
	}

	return &Service{
		users:     users,
		logger:    logger,
		jwtSecret: []byte(config.GetString(c, "JWT_SECRET", "")),
		tokenTTL:  time.Duration(config.GetInt(c, "TOKEN_TTL_HOURS", 72)) * time.Hour,
		github:    github,
		now:       time.Now,
	}
}

// SignUp registers an email/password account and returns the new user with a
// session token.
func (s *Service) SignUp(email, password, name string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", errs.NewBadRequestError("email and password are required")
	}

	existing, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, "", errs.NewDatabaseError("find", "user", err)
	}
	if existing != nil {
		return nil, "", errs.NewAlreadyExists("user")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", errs.NewInternalErrorWithCause("failed to hash password", err)
	}

	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
	}
	if err := s.users.Add(user); err != nil {
		return nil, "", errs.NewDatabaseError("create", "user", err)
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// SignIn verifies an email/password pair and returns the user with a fresh
// session token. Unknown email and wrong password are indistinguishable.
func (s *Service) SignIn(email, password string) (*models.User, string, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, "", errs.NewDatabaseError("find", "user", err)
	}
	if user == nil || user.PasswordHash == "" {
		return nil, "", errs.NewUnauthorizedError("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", errs.NewUnauthorizedError("invalid credentials")
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// IssueToken signs a session token for the user.
func (s *Service) IssueToken(userID uuid.UUID) (string, error) {
	if len(s.jwtSecret) == 0 {
		return "", errs.NewInternalError("JWT secret is not configured")
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", errs.NewInternalErrorWithCause("failed to sign token", err)
	}
	return signed, nil
}

// ParseToken verifies a session token and returns the user id it carries.
func (s *Service) ParseToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil || !token.Valid {
		return "", errs.Unauthorized
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", errs.Unauthorized
	}
	return claims.Subject, nil
}

// GitHubEnabled reports whether GitHub OAuth is configured.
func (s *Service) GitHubEnabled() bool {
	return s.github != nil
}

// GitHubAuthURL returns the GitHub consent page URL for the given state.
func (s *Service) GitHubAuthURL(state string) string {
	return s.github.AuthCodeURL(state)
}

type githubUser struct {
	Login string `json:"login"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SignInWithGitHub exchanges an OAuth code, fetches the GitHub profile and
// finds or creates the matching account by email.
func (s *Service) SignInWithGitHub(ctx context.Context, code string) (*models.User, string, error) {
	if s.github == nil {
		return nil, "", errs.NewBadRequestError("GitHub sign-in is not configured")
	}

	oauthToken, err := s.github.Exchange(ctx, code)
	if err != nil {
		return nil, "", errs.NewUnauthorizedError("GitHub code exchange failed")
	}

	profile, err := s.fetchGitHubUser(ctx, oauthToken)
	if err != nil {
		return nil, "", err
	}

	email := profile.Email
	if email == "" {
		// GitHub hides the email for some accounts; fall back to the
		// stable noreply address so the account key stays deterministic.
		email = fmt.Sprintf("%s@users.noreply.github.com", profile.Login)
	}
	name := profile.Name
	if name == "" {
		name = profile.Login
	}

	user, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, "", errs.NewDatabaseError("find", "user", err)
	}
	if user == nil {
		user = &models.User{Email: email, Name: name}
		if err := s.users.Add(user); err != nil {
			return nil, "", errs.NewDatabaseError("create", "user", err)
		}
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *Service) fetchGitHubUser(ctx context.Context, token *oauth2.Token) (*githubUser, error) {
	client := s.github.Client(ctx, token)
	resp, err := client.Get(githubUserEndpoint)
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("failed to fetch GitHub profile", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		s.logger.Error().Int("status", resp.StatusCode).Str("body", string(body)).Msg("GitHub profile request failed")
		return nil, errs.NewUnauthorizedError("GitHub profile request failed")
	}

	var profile githubUser
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, errs.NewInternalErrorWithCause("failed to decode GitHub profile", err)
	}
	return &profile, nil
}
