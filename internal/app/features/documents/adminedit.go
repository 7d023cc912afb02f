// internal/app/features/documents/adminedit.go
package documents

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/staffhub/internal/app/features/errors"
	"github.com/dalemusser/staffhub/internal/app/policy/docpolicy"
	documentstore "github.com/dalemusser/staffhub/internal/app/store/documents"
	"github.com/dalemusser/staffhub/internal/app/system/authz"
	"github.com/dalemusser/staffhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/staffhub/internal/app/system/inputval"
	"github.com/dalemusser/staffhub/internal/app/system/limits"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// editDocumentInput defines validation rules for editing a document.
type editDocumentInput struct {
	Title    string `validate:"required,max=200" label:"Title"`
	Summary  string `validate:"max=500" label:"Summary"`
	Category string `validate:"max=100" label:"Category"`
}

// ServeEdit renders the Edit Document form.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	idHex := chi.URLParam(r, "id")
	oid, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		uierrors.RenderBadRequest(w, r, "Invalid document ID.", "/documents")
		return
	}

	docStore := documentstore.New(h.DB)
	doc, err := docStore.GetByID(ctx, oid)
	if err != nil {
		uierrors.RenderNotFound(w, r, "Document not found.", "/documents")
		return
	}

	deleteReturn := urlutil.SafeReturn(r.URL.Query().Get("return"), idHex, "/documents")
	submitReturn := urlutil.SafeReturn(r.URL.Query().Get("return"), "", "/documents")

	vm := documentFormVM{
		ID:           doc.ID.Hex(),
		DocTitle:     doc.Title,
		Summary:      doc.Summary,
		Content:      doc.Content,
		Category:     doc.Category,
		Visibility:   string(doc.Visibility),
		RoleScope:    doc.RoleScope,
		Status:       string(doc.Status),
		DeleteReturn: deleteReturn,
		SubmitReturn: submitReturn,
	}
	if doc.PropertyID != nil {
		vm.PropertyID = doc.PropertyID.Hex()
	}
	if doc.DepartmentID != nil {
		vm.DepartmentID = doc.DepartmentID.Hex()
	}

	h.renderEditForm(w, r, vm, "")
}

// HandleEdit processes the Edit Document form POST.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	_, uname, actorID, _ := authz.UserCtx(r)

	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxDocumentFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/documents")
		return
	}

	idHex := chi.URLParam(r, "id")
	did, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		uierrors.RenderBadRequest(w, r, "Invalid document ID.", "/documents")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	summary := strings.TrimSpace(r.FormValue("summary"))
	category := strings.TrimSpace(r.FormValue("category"))
	// Sanitize HTML content from rich text editor
	content := htmlsanitize.Sanitize(strings.TrimSpace(r.FormValue("content")))
	scope := readScopeInput(r)

	delReturn := urlutil.SafeReturn(r.FormValue("return"), did.Hex(), "/documents")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	docStore := documentstore.New(h.DB)
	doc, err := docStore.GetByID(ctx, did)
	if err != nil {
		uierrors.RenderNotFound(w, r, "Document not found.", "/documents")
		return
	}

	reRender := func(msg string) {
		vm := documentFormVM{
			ID:           did.Hex(),
			DocTitle:     title,
			Summary:      summary,
			Content:      content,
			Category:     category,
			Visibility:   scope.Visibility,
			PropertyID:   scope.PropertyID,
			DepartmentID: scope.DepartmentID,
			RoleScope:    scope.RoleScope,
			Status:       string(doc.Status),
			DeleteReturn: delReturn,
			SubmitReturn: urlutil.SafeReturn(r.FormValue("return"), "", "/documents"),
		}
		h.renderEditForm(w, r, vm, msg)
	}

	input := editDocumentInput{Title: title, Summary: summary, Category: category}
	if result := inputval.Validate(input); result.HasErrors() {
		reRender(result.First())
		return
	}

	wasDeptScoped := doc.Visibility == models.VisibilityDepartment

	doc.Title = title
	doc.Summary = summary
	doc.Content = content
	doc.Category = category
	scope.applyTo(&doc)

	// Clearing the department on a department-scoped document, with the
	// visibility selector untouched, resets visibility to all_properties
	// rather than failing the save.
	if wasDeptScoped && doc.Visibility == models.VisibilityDepartment && doc.DepartmentID == nil {
		docpolicy.ApplyDepartmentChange(&doc, nil)
	} else if _, err := docpolicy.Check(&doc); err != nil {
		reRender(scopeErrorMessage(err))
		return
	}

	doc.UpdatedByID = &actorID
	doc.UpdatedByName = uname

	if err := docStore.Update(ctx, doc); err != nil {
		msg := "Database error while updating document."
		if errors.Is(err, documentstore.ErrDuplicateTitle) {
			msg = "A document with that title already exists."
		} else {
			h.Log.Error("failed to update document", zap.Error(err))
		}
		reRender(msg)
		return
	}

	h.AuditLog.DocumentUpdated(ctx, r, actorID, did, "title,summary,content,category,visibility,property_id,department_id,role_scope")

	ret := urlutil.SafeReturn(r.FormValue("return"), did.Hex(), "/documents")
	http.Redirect(w, r, ret, http.StatusSeeOther)
}
