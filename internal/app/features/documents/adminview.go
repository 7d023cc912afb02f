// internal/app/features/documents/adminview.go
package documents

import (
	"context"
	"html/template"
	"net/http"

	uierrors "github.com/dalemusser/staffhub/internal/app/features/errors"
	"github.com/dalemusser/staffhub/internal/app/policy/docpolicy"
	departmentstore "github.com/dalemusser/staffhub/internal/app/store/departments"
	documentstore "github.com/dalemusser/staffhub/internal/app/store/documents"
	propertystore "github.com/dalemusser/staffhub/internal/app/store/properties"
	"github.com/dalemusser/staffhub/internal/app/system/authz"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"github.com/dalemusser/staffhub/internal/app/system/viewdata"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
)

// ServeView displays a document's details and the review actions available
// for its current status.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	oid, ok := parseDocID(w, r)
	if !ok {
		return
	}

	doc, err := documentstore.New(h.DB).GetByID(ctx, oid)
	if err != nil {
		uierrors.RenderNotFound(w, r, "Document not found.", "/documents")
		return
	}

	canReview := authz.CanReviewDocuments(r)

	data := viewData{
		BaseVM:         viewdata.NewBaseVM(r, doc.Title, "/documents"),
		ID:             doc.ID.Hex(),
		DocTitle:       doc.Title,
		Summary:        doc.Summary,
		Content:        template.HTML(doc.Content), // sanitized at write time
		Category:       doc.Category,
		Status:         string(doc.Status),
		Visibility:     string(doc.Visibility),
		ScopeName:      h.scopeName(ctx, &doc),
		ReviewNote:     doc.ReviewNote,
		ReviewedByName: doc.ReviewedByName,
		CreatedByName:  doc.CreatedByName,

		CanReview:   canReview,
		CanSubmit:   docpolicy.CanTransition(doc.Status, models.DocStatusPendingReview),
		CanWithdraw: docpolicy.CanTransition(doc.Status, models.DocStatusDraft),
		CanDecide:   canReview && doc.Status == models.DocStatusPendingReview,
	}
	if doc.SubmittedAt != nil {
		data.SubmittedAt = doc.SubmittedAt.Format("Jan 2, 2006 3:04 PM")
	}
	if doc.ReviewedAt != nil {
		data.ReviewedAt = doc.ReviewedAt.Format("Jan 2, 2006 3:04 PM")
	}
	if doc.UpdatedAt != nil {
		data.UpdatedAt = doc.UpdatedAt.Format("Jan 2, 2006 3:04 PM")
	}

	templates.Render(w, r, "document_view", data)
}

// scopeName resolves the human-readable name for the document's visibility
// target. Falls back to the raw value when the lookup fails.
func (h *Handler) scopeName(ctx context.Context, d *models.Document) string {
	switch d.Visibility {
	case models.VisibilityAllProperties:
		return "All properties"
	case models.VisibilityProperty:
		if d.PropertyID != nil {
			if p, err := propertystore.New(h.DB).GetByID(ctx, *d.PropertyID); err == nil {
				return p.Name
			}
			return d.PropertyID.Hex()
		}
	case models.VisibilityDepartment:
		if d.DepartmentID != nil {
			if dep, err := departmentstore.New(h.DB).GetByID(ctx, *d.DepartmentID); err == nil {
				return dep.Name
			}
			return d.DepartmentID.Hex()
		}
	case models.VisibilityRole:
		return d.RoleScope
	}
	return ""
}
