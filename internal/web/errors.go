package web

// errors.go provides unified error response handling for the web layer.
//
// Every failure is logged with its technical text and the request ID, then
// mapped through core.MapError so clients only see the user-facing message,
// its suggested action and a stable code.

import (
	"net/http"

	"github.com/JonMunkholm/employees/internal/apperr"
	"github.com/JonMunkholm/employees/internal/core"
	"github.com/JonMunkholm/employees/internal/logging"
	"github.com/JonMunkholm/employees/internal/web/templates"
)

// ErrorResponse is the JSON body of a failed API call. Success and Error
// keep the shape of the result envelope.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusFor maps an error kind to an HTTP status.
func statusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.Validation:
		return http.StatusBadRequest
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Transport:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// logError records the technical error against the request.
func logError(r *http.Request, err error, status int, msg core.UserMessage) {
	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"kind", apperr.KindOf(err).String(),
		"code", msg.Code,
	)
}

// respondErrorJSON logs err and writes it as an API error response.
func respondErrorJSON(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := core.MapError(err)
	logError(r, err, status, msg)

	writeJSON(w, status, ErrorResponse{
		Success: false,
		Error:   err.Error(),
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// respondErrorPage logs err and renders a full error page.
func (s *Server) respondErrorPage(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := core.MapError(err)
	logError(r, err, status, msg)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if rerr := templates.ErrorPage(msg.Message, msg.Action, msg.Code).Render(r.Context(), w); rerr != nil {
		logging.FromContext(r.Context()).Error("render error page", "error", rerr)
	}
}

// alertFor maps err for inline display on a page.
func alertFor(err error) *templates.Alert {
	msg := core.MapError(err)
	return &templates.Alert{Message: msg.Message, Action: msg.Action, Code: msg.Code}
}
