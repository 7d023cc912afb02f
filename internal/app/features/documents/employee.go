// internal/app/features/documents/employee.go
package documents

import (
	"context"
	"html/template"
	"net/http"

	uierrors "github.com/dalemusser/staffhub/internal/app/features/errors"
	documentstore "github.com/dalemusser/staffhub/internal/app/store/documents"
	"github.com/dalemusser/staffhub/internal/app/system/authz"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"github.com/dalemusser/staffhub/internal/app/system/viewdata"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// sessionScopeUser reconstructs the scope-relevant fields of the current
// user from the session so visibility checks do not need a directory
// round-trip.
func sessionScopeUser(r *http.Request) *models.User {
	role, _, userID, _ := authz.UserCtx(r)
	u := models.User{ID: userID, Role: role}
	if pid := authz.UserPropertyID(r); !pid.IsZero() {
		p := pid
		u.PropertyID = &p
	}
	if did := authz.UserDepartmentID(r); !did.IsZero() {
		d := did
		u.DepartmentID = &d
	}
	return &u
}

// ServeList shows the published documents the current employee's scope
// admits.
func (h *EmployeeHandler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u := sessionScopeUser(r)
	rows, err := documentstore.New(h.DB).ListPublishedVisibleTo(ctx, u)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list visible documents failed", err, "A database error occurred.", "/")
		return
	}

	items := make([]myListItem, 0, len(rows))
	for _, d := range rows {
		items = append(items, myListItem{
			ID:       d.ID.Hex(),
			Title:    d.Title,
			Summary:  d.Summary,
			Category: d.Category,
		})
	}

	data := myListData{
		BaseVM: viewdata.NewBaseVM(r, "Documents", "/"),
		Items:  items,
	}
	templates.Render(w, r, "mydocuments_list", data)
}

// ServeView shows a single published document. Documents outside the
// employee's scope render as not found rather than forbidden so the URL
// does not confirm their existence.
func (h *EmployeeHandler) ServeView(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderBadRequest(w, r, "Invalid document ID.", "/my/documents")
		return
	}

	doc, err := documentstore.New(h.DB).GetByID(ctx, oid)
	if err != nil {
		uierrors.RenderNotFound(w, r, "Document not found.", "/my/documents")
		return
	}

	u := sessionScopeUser(r)
	if doc.Status != models.DocStatusPublished || !doc.VisibleTo(u) {
		uierrors.RenderNotFound(w, r, "Document not found.", "/my/documents")
		return
	}

	data := myViewData{
		BaseVM:   viewdata.NewBaseVM(r, doc.Title, "/my/documents"),
		DocTitle: doc.Title,
		Summary:  doc.Summary,
		Content:  template.HTML(doc.Content), // sanitized at write time
		Category: doc.Category,
	}
	templates.Render(w, r, "mydocument_view", data)
}
