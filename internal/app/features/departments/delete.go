// internal/app/features/departments/delete.go
package departments

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/staffhub/internal/app/features/errors"
	departmentstore "github.com/dalemusser/staffhub/internal/app/store/departments"
	userstore "github.com/dalemusser/staffhub/internal/app/store/users"
	"github.com/dalemusser/staffhub/internal/app/system/authz"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
)

// HandleDelete removes a department. Departments that still have employees
// assigned cannot be deleted; disable them instead.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	did, ok := parseDepartmentID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	depts := departmentstore.New(h.DB)
	d, err := depts.GetByID(ctx, did)
	if err != nil {
		uierrors.RenderNotFound(w, r, "Department not found.", "/departments")
		return
	}

	staff, err := userstore.New(h.DB).Count(ctx, userstore.ListFilter{DepartmentID: &did})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count department staff failed", err, "Unable to delete department.", "/departments")
		return
	}
	if staff > 0 {
		uierrors.RenderBadRequest(w, r, "This department still has employees assigned. Move or remove them first.", "/departments")
		return
	}

	if _, err := depts.Delete(ctx, did); err != nil {
		h.ErrLog.LogServerError(w, r, "delete department failed", err, "Unable to delete department.", "/departments")
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.AuditLog.DepartmentDeleted(ctx, r, actorID, did, d.Name)

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/departments")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/departments", http.StatusSeeOther)
}
