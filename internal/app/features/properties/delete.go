// internal/app/features/properties/delete.go
package properties

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/staffhub/internal/app/features/errors"
	propertystore "github.com/dalemusser/staffhub/internal/app/store/properties"
	userstore "github.com/dalemusser/staffhub/internal/app/store/users"
	"github.com/dalemusser/staffhub/internal/app/system/authz"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
)

// HandleDelete removes a property. Properties that still have employees
// assigned cannot be deleted; disable them instead.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	pid, ok := parsePropertyID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	props := propertystore.New(h.DB)
	p, err := props.GetByID(ctx, pid)
	if err != nil {
		uierrors.RenderNotFound(w, r, "Property not found.", "/properties")
		return
	}

	staff, err := userstore.New(h.DB).Count(ctx, userstore.ListFilter{PropertyID: &pid})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count property staff failed", err, "Unable to delete property.", "/properties")
		return
	}
	if staff > 0 {
		uierrors.RenderBadRequest(w, r, "This property still has employees assigned. Move or remove them first.", "/properties")
		return
	}

	if _, err := props.Delete(ctx, pid); err != nil {
		h.ErrLog.LogServerError(w, r, "delete property failed", err, "Unable to delete property.", "/properties")
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.AuditLog.PropertyDeleted(ctx, r, actorID, pid, p.Name)

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/properties")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/properties", http.StatusSeeOther)
}
