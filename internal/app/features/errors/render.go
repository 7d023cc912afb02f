// internal/app/features/errors/render.go
package errors

import (
	"net/http"

	"github.com/dalemusser/staffhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

// RenderUnauthorized shows a friendly "sign in required" page.
// If backURL is empty, it will default to /login.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request, backURL string) {
	if backURL == "" {
		backURL = "/login"
	}
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Sign in required", backURL),
		Message: "Please sign in to continue.",
	}
	templates.Render(w, r, "error_forbidden", data)
}

// RenderForbidden shows a friendly access error page with a message.
// If backURL is empty, it resolves a safe back URL with a default fallback.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if backURL == "" {
		backURL = "/"
	}
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Access denied", backURL),
		Message: msg,
	}
	templates.Render(w, r, "error_forbidden", data)
}

// RenderNotFound shows a 404 page with a message.
func RenderNotFound(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if backURL == "" {
		backURL = "/"
	}
	if msg == "" {
		msg = "The page you're looking for doesn't exist."
	}
	w.WriteHeader(http.StatusNotFound)
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Page not found", backURL),
		Message: msg,
	}
	templates.Render(w, r, "error_notfound", data)
}

// RenderServerError shows a generic 500 page with a user-safe message.
func RenderServerError(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if backURL == "" {
		backURL = "/"
	}
	if msg == "" {
		msg = "Something went wrong on our end. Please try again."
	}
	w.WriteHeader(http.StatusInternalServerError)
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Server error", backURL),
		Message: msg,
	}
	templates.Render(w, r, "error_server", data)
}

// RenderBadRequest shows a 400 page with a user-safe message.
func RenderBadRequest(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if backURL == "" {
		backURL = "/"
	}
	if msg == "" {
		msg = "That request couldn't be processed."
	}
	w.WriteHeader(http.StatusBadRequest)
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Invalid request", backURL),
		Message: msg,
	}
	templates.Render(w, r, "error_server", data)
}
