// internal/app/features/employees/delete.go
package employees

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/staffhub/internal/app/features/errors"
	userstore "github.com/dalemusser/staffhub/internal/app/store/users"
	"github.com/dalemusser/staffhub/internal/app/system/authz"
	"github.com/dalemusser/staffhub/internal/app/system/navigation"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
)

// HandleDelete removes an employee account. Only role="employee" accounts
// can be deleted here; admin and reviewer accounts are managed out of band.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	uid, ok := parseEmployeeID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users := userstore.New(h.DB)
	u, err := users.GetEmployeeByID(ctx, uid)
	if err != nil {
		uierrors.RenderNotFound(w, r, "Employee not found.", "/employees")
		return
	}

	if _, err := users.DeleteEmployee(ctx, uid); err != nil {
		h.ErrLog.LogServerError(w, r, "delete employee failed", err, "Unable to delete employee.", "/employees")
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.AuditLog.UserDeleted(ctx, r, actorID, uid, u.Email)

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/employees")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	ret := navigation.SafeBackURL(r, navigation.EmployeesBackURL)
	http.Redirect(w, r, ret, http.StatusSeeOther)
}
