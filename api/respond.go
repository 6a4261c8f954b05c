package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/rpupo63/project-tracker-backend/actions"
	"github.com/rpupo63/project-tracker-backend/errs"
)

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

func (r Responder) WriteJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr

	// For unexpected errors, log and return generic internal error
	if !errors.As(err, &apiErr) {
		r.logger.Error().Msg(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		r.WriteJSON(w, map[string]any{
			"error":  "Internal Server Error",
			"status": "error",
		})
		return
	}

	response := map[string]any{
		"error":  apiErr.Error(),
		"status": "error",
	}
	if apiErr.Field != "" {
		response["field"] = apiErr.Field
	}
	if apiErr.Details != "" {
		response["details"] = apiErr.Details
	}
	if apiErr.Cause != nil {
		response["cause"] = apiErr.GetFullError()
	}

	w.WriteHeader(apiErr.StatusCode)
	r.WriteJSON(w, response)
}

// writeResult maps an action result to HTTP: the result value itself is the
// body, the code picks the status.
func writeResult[T any](r Responder, w http.ResponseWriter, result actions.Result[T]) {
	if !result.Success {
		w.WriteHeader(statusForCode(result.Code))
	}
	r.WriteJSON(w, result)
}

// statusForCode maps action error codes to HTTP status codes. Per-operation
// fallback codes (*_ERROR wrapping unexpected persistence failures) land on
// 500.
func statusForCode(code string) int {
	switch code {
	case actions.CodeValidation:
		return http.StatusBadRequest
	case actions.CodeProjectNotFound:
		return http.StatusNotFound
	case actions.CodeInvalidStatus:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
