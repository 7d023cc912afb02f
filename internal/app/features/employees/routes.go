// internal/app/features/employees/routes.go
package employees

import (
	"github.com/dalemusser/staffhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the employee directory under the path where this router
// is mounted (typically "/employees" from bootstrap). Directory admin is
// admin-only.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("admin"))

		pr.Get("/", h.ServeList)

		pr.Get("/new", h.ServeNew)
		pr.Post("/", h.HandleCreate)

		pr.Get("/import", h.ServeImport)
		pr.Post("/import", h.HandleImport)

		pr.Get("/{id}/view", h.ServeView)
		pr.Get("/{id}/edit", h.ServeEdit)
		pr.Post("/{id}/edit", h.HandleEdit)
		pr.Post("/{id}/delete", h.HandleDelete)
	})

	return r
}
