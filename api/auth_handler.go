package api

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/project-tracker-backend/auth"
	"github.com/rpupo63/project-tracker-backend/errs"
	"github.com/rpupo63/project-tracker-backend/models"
)

const oauthStateCookie = "oauth_state"

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	auth      *auth.Service
}

func newAuthHandler(authService *auth.Service) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: NewResponder(logger),
		logger:    logger,
		auth:      authService,
	}
}

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (h authHandler) signUp() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signUpRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("json", err))
			return
		}

		user, token, err := h.auth.SignUp(req.Email, req.Password, req.Name)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, sessionResponse{Token: token, User: user})
	}
}

func (h authHandler) signIn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signInRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("json", err))
			return
		}

		user, token, err := h.auth.SignIn(req.Email, req.Password)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, sessionResponse{Token: token, User: user})
	}
}

// githubRedirect sends the browser to GitHub's consent page with a random
// state bound to a short-lived cookie.
func (h authHandler) githubRedirect() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.auth.GitHubEnabled() {
			h.responder.WriteError(w, errs.NewBadRequestError("GitHub sign-in is not configured"))
			return
		}

		stateBytes := make([]byte, 16)
		if _, err := rand.Read(stateBytes); err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to generate OAuth state", err))
			return
		}
		state := hex.EncodeToString(stateBytes)

		http.SetCookie(w, &http.Cookie{
			Name:     oauthStateCookie,
			Value:    state,
			Path:     "/",
			Expires:  time.Now().Add(10 * time.Minute),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, h.auth.GitHubAuthURL(state), http.StatusTemporaryRedirect)
	}
}

// githubCallback validates the state cookie, exchanges the code and returns
// a session for the matched-or-created account.
func (h authHandler) githubCallback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stateCookie, err := r.Cookie(oauthStateCookie)
		if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
			h.responder.WriteError(w, errs.NewUnauthorizedError("OAuth state mismatch"))
			return
		}

		code := r.URL.Query().Get("code")
		if code == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing OAuth code"))
			return
		}

		user, token, err := h.auth.SignInWithGitHub(r.Context(), code)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		// Clear the state cookie now that it has been used once.
		http.SetCookie(w, &http.Cookie{Name: oauthStateCookie, Value: "", Path: "/", MaxAge: -1})
		h.responder.WriteJSON(w, sessionResponse{Token: token, User: user})
	}
}
