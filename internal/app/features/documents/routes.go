// internal/app/features/documents/routes.go
package documents

import (
	"github.com/dalemusser/staffhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes wires the staff-facing document endpoints. Admins and reviewers
// share the author surface; publish/reject are additionally gated inside
// the handlers on review permission.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(gr chi.Router) {
		gr.Use(sm.RequireSignedIn)
		gr.Use(sm.RequireRole("admin", "reviewer"))

		gr.Get("/", h.ServeList)
		gr.Get("/new", h.ServeNew)
		gr.Post("/", h.HandleCreate)
		gr.Get("/review", h.ServeReviewQueue)
		gr.Get("/{id}/view", h.ServeView)
		gr.Get("/{id}/edit", h.ServeEdit)
		gr.Post("/{id}/edit", h.HandleEdit)
		gr.Post("/{id}/delete", h.HandleDelete)
		gr.Post("/{id}/submit", h.HandleSubmit)
		gr.Post("/{id}/withdraw", h.HandleWithdraw)
		gr.Post("/{id}/publish", h.HandlePublish)
		gr.Post("/{id}/reject", h.HandleReject)
	})

	return r
}

// EmployeeRoutes wires the employee-facing published-document endpoints.
func EmployeeRoutes(h *EmployeeHandler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(gr chi.Router) {
		gr.Use(sm.RequireSignedIn)
		gr.Use(sm.RequireRole("employee"))

		gr.Get("/", h.ServeList)
		gr.Get("/{id}/view", h.ServeView)
	})

	return r
}
