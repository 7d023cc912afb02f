// internal/app/features/mytrainings/routes.go
package mytrainings

import (
	"github.com/dalemusser/staffhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the employee training routes under whatever base path the
// caller chooses (typically "/my/trainings" from bootstrap).
//
// Example from bootstrap:
//
//	my := mytrainings.NewHandler(db, errLog, audit, logger)
//	r.Mount("/my/trainings", mytrainings.Routes(my, sessionMgr))
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("employee"))

		// List everything assigned to the current employee.
		pr.Get("/", h.ServeList)

		// Mark one assignment complete.
		pr.Post("/{assignID}/complete", h.HandleComplete)
	})

	return r
}
