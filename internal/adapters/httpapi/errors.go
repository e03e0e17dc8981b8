package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/oakmount/accounts-api/internal/apperror"
)

// ErrorBody is the wire shape of every error response. The two-field
// envelope is a stable contract with clients; nothing else is ever added.
type ErrorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

const fallbackMessage = "Internal Server Error"

// Translate maps a failure to its HTTP status and response body.
//
// A classified *apperror.Error (possibly wrapped) keeps its status and
// message. Anything else is an unexpected failure: status 500 with the
// error's message, or a generic one when it carries none. Translate is a
// pure function of its input.
func Translate(err error) (int, ErrorBody) {
	ae := (*apperror.Error)(nil)
	if errors.As(err, &ae) {
		return ae.Status, ErrorBody{Status: "error", Message: ae.Message}
	}

	msg := ""
	if err != nil {
		msg = err.Error()
	}
	if msg == "" {
		msg = fallbackMessage
	}
	return http.StatusInternalServerError, ErrorBody{Status: "error", Message: msg}
}

// WriteError is the terminal point of a failed request: it translates the
// failure, logs it, and writes the response exactly once. Nothing after it
// may touch the ResponseWriter.
func WriteError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	status, body := Translate(err)

	if log != nil {
		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		}
		if rid := middleware.GetReqID(r.Context()); rid != "" {
			fields = append(fields, zap.String("request_id", rid))
		}
		if status >= 500 {
			log.Error("request failed", fields...)
		} else {
			log.Warn("request rejected", fields...)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
