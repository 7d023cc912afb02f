// internal/app/features/home/handler.go
package home

import (
	"net/http"

	"github.com/dalemusser/staffhub/internal/app/system/auth"
	"github.com/dalemusser/staffhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Handler serves the landing page and routes signed-in users to their
// role's starting point.
type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

// ServeRoot sends signed-in users to the page their role starts on and
// shows the landing page to everyone else.
func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, startPageFor(u.Role), http.StatusSeeOther)
		return
	}

	data := struct {
		viewdata.BaseVM
	}{
		BaseVM: viewdata.NewBaseVM(r, "Welcome", "/"),
	}
	templates.Render(w, r, "home", data)
}

func startPageFor(role string) string {
	switch role {
	case "admin":
		return "/trainings"
	case "reviewer":
		return "/documents"
	default:
		return "/my/trainings"
	}
}
