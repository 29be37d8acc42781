package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/jonasmwansa/portfolio-backend/errs"
)

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

func (r Responder) WriteJSON(w http.ResponseWriter, data any) {
	r.WriteJSONStatus(w, http.StatusOK, data)
}

// WriteJSONStatus sets the content type before the status line so it is not lost.
func (r Responder) WriteJSONStatus(w http.ResponseWriter, status int, data any) {
	// Marshal the data first to check size and handle errors
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	// Check if response is too large (e.g., > 10MB)
	const maxResponseSize = 10 * 1024 * 1024 // 10MB
	if len(jsonData) > maxResponseSize {
		r.logger.Error().
			Int("responseSize", len(jsonData)).
			Int("maxSize", maxResponseSize).
			Msg("response too large, truncating")

		truncatedJSON, _ := json.Marshal(map[string]any{
			"error":        "Response too large",
			"message":      "The requested data exceeds the maximum response size",
			"maxSizeMB":    maxResponseSize / (1024 * 1024),
			"actualSizeMB": len(jsonData) / (1024 * 1024),
		})
		status, jsonData = http.StatusRequestEntityTooLarge, truncatedJSON
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// asApiErr maps the error kinds produced below the handlers onto their wire
// form. The boolean is false for unexpected errors.
func asApiErr(err error) (*errs.ApiErr, bool) {
	var validationErr *errs.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.ApiErr(), true
	}

	var transportErr *errs.MailTransportError
	if errors.As(err, &transportErr) {
		return transportErr.ApiErr(), true
	}

	var apiErr *errs.ApiErr
	if errors.As(err, &apiErr) {
		return apiErr, true
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewNotFoundError("record not found"), true
	}
	return nil, false
}

func (r Responder) WriteError(w http.ResponseWriter, err error) {
	apiErr, ok := asApiErr(err)

	// For unexpected errors, log and return generic internal error
	if !ok {
		r.logger.Error().Err(err).Msg("unexpected error")
		r.WriteJSONStatus(w, http.StatusInternalServerError, ErrorResponse{
			Error:  "Internal Server Error",
			Status: "error",
		})
		return
	}

	response := ErrorResponse{
		Error:   apiErr.Message(),
		Status:  "error",
		Field:   apiErr.Field,
		Details: apiErr.Details,
	}

	if apiErr.StatusCode >= http.StatusInternalServerError {
		// Causes of server-side failures are logged, never rendered.
		r.logger.Error().Err(err).Str("cause", apiErr.GetFullError()).Msg("request failed")
	} else if apiErr.Cause != nil {
		response.Cause = apiErr.GetFullError()
	}

	r.WriteJSONStatus(w, apiErr.StatusCode, response)
}

// WriteStoreError reports a repository failure. Validation failures keep their
// field; anything else goes through the database error mapping.
func (r Responder) WriteStoreError(w http.ResponseWriter, operation, entity string, err error) {
	if errs.IsValidation(err) {
		r.WriteError(w, err)
		return
	}
	r.WriteError(w, wrapDatabaseError(operation, entity, err))
}

// wrapDatabaseError wraps a database error with context information
func wrapDatabaseError(operation, entity string, cause error) error {
	return errs.NewDatabaseError(operation, entity, cause)
}
