// internal/app/features/documents/review.go
package documents

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/staffhub/internal/app/features/errors"
	"github.com/dalemusser/staffhub/internal/app/policy/docpolicy"
	documentstore "github.com/dalemusser/staffhub/internal/app/store/documents"
	"github.com/dalemusser/staffhub/internal/app/system/authz"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"github.com/dalemusser/staffhub/internal/app/system/viewdata"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeReviewQueue lists documents waiting for review, oldest submission
// first.
func (h *Handler) ServeReviewQueue(w http.ResponseWriter, r *http.Request) {
	if !authz.CanReviewDocuments(r) {
		uierrors.RenderForbidden(w, r, "You do not have permission to review documents.", "/documents")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, err := documentstore.New(h.DB).ListPendingReview(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list pending review failed", err, "A database error occurred.", "/documents")
		return
	}

	items := make([]reviewItem, 0, len(rows))
	for _, d := range rows {
		it := reviewItem{
			ID:            d.ID.Hex(),
			Title:         d.Title,
			Category:      d.Category,
			CreatedByName: d.CreatedByName,
		}
		if d.SubmittedAt != nil {
			it.SubmittedAt = d.SubmittedAt.Format("Jan 2, 2006 3:04 PM")
		}
		items = append(items, it)
	}

	data := reviewData{
		BaseVM: viewdata.NewBaseVM(r, "Review Queue", "/documents"),
		Items:  items,
	}
	templates.Render(w, r, "documents_review", data)
}

// HandleSubmit sends a draft or rejected document into the review queue.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, models.DocStatusPendingReview, "")
}

// HandleWithdraw pulls a document back to draft so the author can keep
// editing. Works from pending review, published, and rejected.
func (h *Handler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, models.DocStatusDraft, "")
}

// HandlePublish approves a pending document. Reviewer only.
func (h *Handler) HandlePublish(w http.ResponseWriter, r *http.Request) {
	if !authz.CanReviewDocuments(r) {
		uierrors.RenderForbidden(w, r, "You do not have permission to review documents.", "/documents")
		return
	}
	h.transition(w, r, models.DocStatusPublished, strings.TrimSpace(r.FormValue("review_note")))
}

// HandleReject sends a pending document back to its author with a note.
// Reviewer only.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	if !authz.CanReviewDocuments(r) {
		uierrors.RenderForbidden(w, r, "You do not have permission to review documents.", "/documents")
		return
	}
	note := strings.TrimSpace(r.FormValue("review_note"))
	if note == "" {
		uierrors.RenderBadRequest(w, r, "A review note is required when rejecting a document.", "/documents/review")
		return
	}
	h.transition(w, r, models.DocStatusRejected, note)
}

// transition applies a lifecycle change after checking it is legal from the
// document's current status.
func (h *Handler) transition(w http.ResponseWriter, r *http.Request, to models.DocumentStatus, note string) {
	_, uname, actorID, _ := authz.UserCtx(r)

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

	if !docpolicy.CanTransition(doc.Status, to) {
		uierrors.RenderBadRequest(w, r, "That action is not available for this document.", "/documents/"+oid.Hex()+"/view")
		return
	}

	var reviewerID *primitive.ObjectID
	reviewerName := ""
	if to == models.DocStatusPublished || to == models.DocStatusRejected {
		reviewerID = &actorID
		reviewerName = uname
	}

	if err := docStore.SetStatus(ctx, oid, to, reviewerID, reviewerName, note); err != nil {
		h.ErrLog.LogServerError(w, r, "set document status failed", err, "Unable to update the document.", "")
		return
	}

	switch to {
	case models.DocStatusPendingReview:
		h.AuditLog.DocumentSubmitted(ctx, r, actorID, oid)
	case models.DocStatusPublished:
		h.AuditLog.DocumentPublished(ctx, r, actorID, oid)
	case models.DocStatusRejected:
		h.AuditLog.DocumentRejected(ctx, r, actorID, oid, note)
	}

	dest := "/documents/" + oid.Hex() + "/view"
	if to == models.DocStatusPublished || to == models.DocStatusRejected {
		dest = "/documents/review"
	}

	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", dest)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}
