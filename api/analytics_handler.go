package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/project-tracker-backend/actions"
	"github.com/rpupo63/project-tracker-backend/errs"
)

type analyticsHandler struct {
	responder Responder
	logger    zerolog.Logger
	projects  *actions.ProjectService
}

func newAnalyticsHandler(projects *actions.ProjectService) analyticsHandler {
	logger := log.With().Str("handlerName", "analyticsHandler").Logger()

	return analyticsHandler{
		responder: NewResponder(logger),
		logger:    logger,
		projects:  projects,
	}
}

// getStats returns the dashboard's headline counts and completion rate.
func (h analyticsHandler) getStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		result, err := h.projects.GetProjectStats(userID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		writeResult(h.responder, w, result)
	}
}

// getAnalytics returns the full analytics view: monthly activity, reason
// breakdown, tag stats and key metrics.
func (h analyticsHandler) getAnalytics() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		result, err := h.projects.GetProjectAnalytics(userID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		writeResult(h.responder, w, result)
	}
}
