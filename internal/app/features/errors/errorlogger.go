// internal/app/features/errors/errorlogger.go
package errors

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ErrorLogger pairs structured logging with user-facing error pages so
// handlers can report a failure in one call. The developer message and error
// go to the log; only the user message reaches the browser.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger on the given zap logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	return []zap.Field{
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
}

// LogServerError logs the error and renders a 500 page.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, devMsg string, err error, userMsg, backURL string) {
	e.log.Error(devMsg, e.fields(r, err)...)
	RenderServerError(w, r, userMsg, backURL)
}

// LogBadRequest logs the error and renders a 400 page.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, devMsg string, err error, userMsg, backURL string) {
	e.log.Warn(devMsg, e.fields(r, err)...)
	RenderBadRequest(w, r, userMsg, backURL)
}

// LogNotFound logs the error and renders a 404 page.
func (e *ErrorLogger) LogNotFound(w http.ResponseWriter, r *http.Request, devMsg string, err error, userMsg, backURL string) {
	e.log.Warn(devMsg, e.fields(r, err)...)
	RenderNotFound(w, r, userMsg, backURL)
}

// LogForbidden logs the error and renders the access-denied page.
func (e *ErrorLogger) LogForbidden(w http.ResponseWriter, r *http.Request, devMsg string, err error, userMsg, backURL string) {
	e.log.Warn(devMsg, e.fields(r, err)...)
	RenderForbidden(w, r, userMsg, backURL)
}

// HTMX variants render an inline error banner instead of a full page so the
// partial swap shows the failure in place.

type bannerData struct {
	Message string
}

func htmxBanner(w http.ResponseWriter, status int, userMsg string) {
	w.WriteHeader(status)
	templates.RenderSnippet(w, "error_banner", bannerData{Message: userMsg})
}

// HTMXLogServerError logs the error and renders an inline 500 banner.
func (e *ErrorLogger) HTMXLogServerError(w http.ResponseWriter, r *http.Request, devMsg string, err error, userMsg, backURL string) {
	e.log.Error(devMsg, e.fields(r, err)...)
	htmxBanner(w, http.StatusInternalServerError, userMsg)
}

// HTMXLogBadRequest logs the error and renders an inline 400 banner.
func (e *ErrorLogger) HTMXLogBadRequest(w http.ResponseWriter, r *http.Request, devMsg string, err error, userMsg, backURL string) {
	e.log.Warn(devMsg, e.fields(r, err)...)
	htmxBanner(w, http.StatusBadRequest, userMsg)
}

// HTMXLogForbidden logs the error and renders an inline 403 banner.
func (e *ErrorLogger) HTMXLogForbidden(w http.ResponseWriter, r *http.Request, devMsg string, err error, userMsg, backURL string) {
	e.log.Warn(devMsg, e.fields(r, err)...)
	htmxBanner(w, http.StatusForbidden, userMsg)
}
