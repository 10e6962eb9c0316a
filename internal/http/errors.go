package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kjstillabower/geoweather-service/internal/client"
	"github.com/kjstillabower/geoweather-service/internal/observability"
)

const msgInternalError = "Internal Server Error"

type errorBody struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// writeJSON writes a JSON response with the specified HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes {"error":{"message":...,"status":...}}. The correlation ID travels in
// the X-Correlation-ID response header, not the body.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Message: message, Status: status}})
}

// writeServiceError maps a service failure to 500. Upstream failures keep their client-facing
// message; anything else is reported generically.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	logger := observability.LoggerFromContext(r.Context())

	var upErr *client.UpstreamError
	if errors.As(err, &upErr) {
		logger.Error("upstream request failed",
			zap.String("provider", upErr.Provider),
			zap.String("error_category", string(client.CategorizeError(err))),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, upErr.Message)
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, msgInternalError)
}

// NotFoundHandler answers unknown routes with the JSON error envelope.
func NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found")
	})
}

// MethodNotAllowedHandler answers known routes hit with the wrong method.
func MethodNotAllowedHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})
}
