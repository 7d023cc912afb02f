// internal/app/features/documents/adminnew.go
package documents

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/staffhub/internal/app/policy/docpolicy"
	documentstore "github.com/dalemusser/staffhub/internal/app/store/documents"
	"github.com/dalemusser/staffhub/internal/app/system/authz"
	"github.com/dalemusser/staffhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/staffhub/internal/app/system/inputval"
	"github.com/dalemusser/staffhub/internal/app/system/limits"
	"github.com/dalemusser/staffhub/internal/app/system/navigation"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"go.uber.org/zap"
)

// createDocumentInput defines validation rules for creating a document.
type createDocumentInput struct {
	Title    string `validate:"required,max=200" label:"Title"`
	Summary  string `validate:"max=500" label:"Summary"`
	Category string `validate:"max=100" label:"Category"`
}

func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	vm := documentFormVM{}
	h.renderNewForm(w, r, vm, "")
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxDocumentFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/documents")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	summary := strings.TrimSpace(r.FormValue("summary"))
	category := strings.TrimSpace(r.FormValue("category"))
	// Sanitize HTML content from rich text editor
	content := htmlsanitize.Sanitize(strings.TrimSpace(r.FormValue("content")))
	scope := readScopeInput(r)

	if scope.Visibility == "" {
		scope.Visibility = string(models.VisibilityAllProperties)
	}

	reRender := func(msg string) {
		vm := documentFormVM{
			DocTitle:     title,
			Summary:      summary,
			Content:      content,
			Category:     category,
			Visibility:   scope.Visibility,
			PropertyID:   scope.PropertyID,
			DepartmentID: scope.DepartmentID,
			RoleScope:    scope.RoleScope,
		}
		h.renderNewForm(w, r, vm, msg)
	}

	input := createDocumentInput{Title: title, Summary: summary, Category: category}
	if result := inputval.Validate(input); result.HasErrors() {
		reRender(result.First())
		return
	}

	doc := models.Document{
		Title:    title,
		Summary:  summary,
		Content:  content,
		Category: category,
		Status:   models.DocStatusDraft,
	}
	scope.applyTo(&doc)

	// Scope validity is the hard save gate.
	if _, err := docpolicy.Check(&doc); err != nil {
		reRender(scopeErrorMessage(err))
		return
	}

	_, uname, userID, ok := authz.UserCtx(r)
	if ok {
		doc.CreatedByID = &userID
		doc.CreatedByName = uname
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := documentstore.New(h.DB).Create(ctx, doc)
	if err != nil {
		msg := "Database error while creating document."
		if errors.Is(err, documentstore.ErrDuplicateTitle) {
			msg = "A document with that title already exists."
		} else {
			h.Log.Error("failed to create document", zap.Error(err))
		}
		reRender(msg)
		return
	}

	h.AuditLog.DocumentCreated(ctx, r, userID, created.ID, created.Title)

	ret := navigation.SafeBackURL(r, navigation.DocumentsBackURL)
	http.Redirect(w, r, ret, http.StatusSeeOther)
}
