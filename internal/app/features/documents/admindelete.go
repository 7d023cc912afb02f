// internal/app/features/documents/admindelete.go
package documents

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/staffhub/internal/app/features/errors"
	documentstore "github.com/dalemusser/staffhub/internal/app/store/documents"
	"github.com/dalemusser/staffhub/internal/app/system/authz"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/go-chi/chi/v5"
)

// HandleDelete removes a document.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, _ := authz.UserCtx(r)

	oid, ok := parseDocID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	docStore := documentstore.New(h.DB)
	doc, err := docStore.GetByID(ctx, oid)
	if err != nil {
		uierrors.RenderNotFound(w, r, "Document not found.", "/documents")
		return
	}

	if _, err := docStore.Delete(ctx, oid); err != nil {
		h.ErrLog.LogServerError(w, r, "delete document failed", err, "Unable to delete document.", "")
		return
	}

	h.AuditLog.DocumentDeleted(ctx, r, actorID, oid, doc.Title)

	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", "/documents")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	ret := urlutil.SafeReturn(r.FormValue("return"), chi.URLParam(r, "id"), "/documents")
	http.Redirect(w, r, ret, http.StatusSeeOther)
}
