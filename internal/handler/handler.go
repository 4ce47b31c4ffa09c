package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"milamart/internal/middleware"
	"milamart/internal/model"

	"github.com/rs/zerolog"
)

// maxBodyBytes bounds request bodies read by handlers.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeText writes a plain-text response.
func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Warn().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: message})
}

// writeServiceError maps a service error onto an HTTP status and writes it.
// Server-side failures carry the request id so they can be traced in the logs.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	status := statusForError(err)
	code := model.ErrorCode(err)

	message := "internal server error"
	var de *model.DomainError
	if errors.As(err, &de) {
		message = de.Message
	}

	resp := model.ErrorResponse{Error: message}

	if status >= http.StatusInternalServerError {
		resp.CorrelationID = middleware.RequestIDFromContext(r.Context())
		logger.Error().
			Err(err).
			Str("code", code).
			Int("status", status).
			Str("request_id", resp.CorrelationID).
			Msg("request failed")
	} else {
		if status == http.StatusBadRequest {
			resp.Message = err.Error()
		}
		logger.Debug().
			Err(err).
			Str("code", code).
			Int("status", status).
			Msg("request rejected")
	}

	writeJSON(w, status, resp)
}

// statusForError returns the HTTP status for a domain error code.
func statusForError(err error) int {
	switch model.ErrorCode(err) {
	case model.ErrCodeProductNotFound:
		return http.StatusNotFound
	case model.ErrCodeInvalidParameter, model.ErrCodeInvalidJSON:
		return http.StatusBadRequest
	case model.ErrCodeCatalogUnavailable:
		return http.StatusServiceUnavailable
	case model.ErrCodeUpstreamTimeout:
		return http.StatusGatewayTimeout
	case model.ErrCodeUpstreamMalformed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
