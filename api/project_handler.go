package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/project-tracker-backend/actions"
	"github.com/rpupo63/project-tracker-backend/errs"
)

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	projects  *actions.ProjectService
}

func newProjectHandler(projects *actions.ProjectService) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		projects:  projects,
	}
}

// userIDOr401 pulls the authenticated user id out of the request context.
func (h projectHandler) userIDOr401(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, err := ctxGetUserID(r.Context())
	if err != nil {
		h.responder.WriteError(w, errs.Unauthorized)
		return "", false
	}
	return userID, true
}

// getAllProjects returns the caller's projects with tags, abandonment and
// revival history, most recently updated first.
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := h.userIDOr401(w, r)
		if !ok {
			return
		}

		result, err := h.projects.GetProjects(userID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		writeResult(h.responder, w, result)
	}
}

func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := h.userIDOr401(w, r)
		if !ok {
			return
		}

		result, err := h.projects.GetProject(userID, chi.URLParam(r, "projectID"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		writeResult(h.responder, w, result)
	}
}

func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := h.userIDOr401(w, r)
		if !ok {
			return
		}

		var input actions.CreateProjectInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode create project request body")
			h.responder.WriteError(w, errs.NewMalformedPayloadError("json", err))
			return
		}

		result, err := h.projects.CreateProject(userID, input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if result.Success {
			w.WriteHeader(http.StatusCreated)
		}
		writeResult(h.responder, w, result)
	}
}

func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := h.userIDOr401(w, r)
		if !ok {
			return
		}

		var input actions.UpdateProjectInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode update project request body")
			h.responder.WriteError(w, errs.NewMalformedPayloadError("json", err))
			return
		}
		input.ID = chi.URLParam(r, "projectID")

		result, err := h.projects.UpdateProject(userID, input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		writeResult(h.responder, w, result)
	}
}

func (h projectHandler) completeProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := h.userIDOr401(w, r)
		if !ok {
			return
		}

		var input actions.CompleteProjectInput
		if r.ContentLength > 0 {
			if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
				h.logger.Error().Err(err).Msg("Failed to decode complete project request body")
				h.responder.WriteError(w, errs.NewMalformedPayloadError("json", err))
				return
			}
		}
		input.ID = chi.URLParam(r, "projectID")

		result, err := h.projects.CompleteProject(userID, input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		writeResult(h.responder, w, result)
	}
}

func (h projectHandler) abandonProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := h.userIDOr401(w, r)
		if !ok {
			return
		}

		var input actions.AbandonProjectInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode abandon project request body")
			h.responder.WriteError(w, errs.NewMalformedPayloadError("json", err))
			return
		}
		input.ID = chi.URLParam(r, "projectID")

		result, err := h.projects.AbandonProject(userID, input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		writeResult(h.responder, w, result)
	}
}

func (h projectHandler) reviveProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := h.userIDOr401(w, r)
		if !ok {
			return
		}

		var input actions.ReviveProjectInput
		if r.ContentLength > 0 {
			if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
				h.logger.Error().Err(err).Msg("Failed to decode revive project request body")
				h.responder.WriteError(w, errs.NewMalformedPayloadError("json", err))
				return
			}
		}
		input.ID = chi.URLParam(r, "projectID")

		result, err := h.projects.ReviveProject(userID, input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		writeResult(h.responder, w, result)
	}
}

func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := h.userIDOr401(w, r)
		if !ok {
			return
		}

		result, err := h.projects.DeleteProject(userID, chi.URLParam(r, "projectID"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		writeResult(h.responder, w, result)
	}
}
