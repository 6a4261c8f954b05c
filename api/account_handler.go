package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/project-tracker-backend/database"
	"github.com/rpupo63/project-tracker-backend/errs"
	"github.com/rpupo63/project-tracker-backend/services"
)

type accountHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
	export    *services.ExportService
}

func newAccountHandler(db database.Database, export *services.ExportService) accountHandler {
	logger := log.With().Str("handlerName", "accountHandler").Logger()

	return accountHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
		export:    export,
	}
}

func (h accountHandler) userIDOr401(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := ctxGetUserID(r.Context())
	if err != nil {
		h.responder.WriteError(w, errs.Unauthorized)
		return uuid.Nil, false
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		h.responder.WriteError(w, errs.Unauthorized)
		return uuid.Nil, false
	}
	return uid, true
}

type updateProfileRequest struct {
	Name     *string `json:"name"`
	Location *string `json:"location"`
	Website  *string `json:"website"`
}

// updateProfile changes the caller's display fields. Only supplied fields
// are touched.
func (h accountHandler) updateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := h.userIDOr401(w, r)
		if !ok {
			return
		}

		var req updateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("json", err))
			return
		}

		fields := map[string]any{"updated_at": time.Now()}
		if req.Name != nil {
			if *req.Name == "" {
				h.responder.WriteError(w, errs.NewBadRequestError("name cannot be empty"))
				return
			}
			fields["name"] = *req.Name
		}
		if req.Location != nil {
			fields["location"] = *req.Location
		}
		if req.Website != nil {
			fields["website"] = *req.Website
		}

		if err := h.db.UserRepo().UpdateFields(uid, fields); err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("update", "user", err))
			return
		}

		user, err := h.db.UserRepo().FindByID(uid)
		if err != nil || user == nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "user", err))
			return
		}
		h.responder.WriteJSON(w, user)
	}
}

// deleteAllProjects wipes every project the caller owns.
func (h accountHandler) deleteAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := h.userIDOr401(w, r)
		if !ok {
			return
		}

		if err := h.db.ProjectRepo().DeleteAllByUser(uid); err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("delete", "projects", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "all projects deleted",
		})
	}
}

// deleteAccount removes the caller's account; projects and their children
// cascade away with it.
func (h accountHandler) deleteAccount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := h.userIDOr401(w, r)
		if !ok {
			return
		}

		if err := h.db.UserRepo().Delete(uid); err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("delete", "user", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "account deleted",
		})
	}
}

// exportData returns the caller's full data snapshot. With ?archive=true and
// a configured bucket, the snapshot is also uploaded to S3.
func (h accountHandler) exportData() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := h.userIDOr401(w, r)
		if !ok {
			return
		}

		export, err := h.export.Export(r.Context(), uid)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if r.URL.Query().Get("archive") == "true" {
			key, err := h.export.Archive(r.Context(), export)
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
			h.logger.Info().Str("key", key).Msg("Export archived on request")
		}

		h.responder.WriteJSON(w, export)
	}
}
