// internal/app/features/trainings/routes.go
package trainings

import (
	"github.com/dalemusser/staffhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// AdminRoutes mounts all admin training routes under whatever base
// path the caller chooses (typically "/trainings" from bootstrap).
//
// Example from bootstrap:
//
//	admin := trainings.NewAdminHandler(db, dispatcher, errLog, audit, logger)
//	r.Mount("/trainings", trainings.AdminRoutes(admin, sessionMgr))
func AdminRoutes(h *AdminHandler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("admin"))

		// LIST (live search + HTMX table swap)
		pr.Get("/", h.ServeList)

		// CREATE
		pr.Get("/new", h.ServeNew)
		pr.Post("/", h.HandleCreate)

		// VIEW
		pr.Get("/{id}/view", h.ServeView)

		// EDIT
		pr.Get("/{id}/edit", h.ServeEdit)
		pr.Post("/{id}/edit", h.HandleEdit)

		// DELETE
		pr.Post("/{id}/delete", h.HandleDelete)

		// ASSIGNMENT (per training)
		pr.Get("/{id}/assign", h.ServeAssign)
		pr.Post("/{id}/assign", h.HandleAssign)
		pr.Post("/assignments/{assignID}/delete", h.HandleUnassign)
	})

	return r
}
