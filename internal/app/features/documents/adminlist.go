// internal/app/features/documents/adminlist.go
package documents

import (
	"context"
	"net/http"

	documentstore "github.com/dalemusser/staffhub/internal/app/store/documents"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"github.com/dalemusser/staffhub/internal/app/system/viewdata"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
)

// ServeList displays the staff document list with status, category and
// title-prefix filters.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := query.Search(r, "q")
	status := query.Get(r, "status")
	category := query.Search(r, "category")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	filter := documentstore.ListFilter{
		Category: category,
		Search:   q,
	}
	if s := models.NormalizeDocumentStatus(models.DocumentStatus(status)); s != "" {
		switch s {
		case models.DocStatusDraft, models.DocStatusPendingReview, models.DocStatusPublished, models.DocStatusRejected:
			filter.Status = s
		}
	}

	docStore := documentstore.New(h.DB)
	rows, err := docStore.List(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list documents failed", err, "A database error occurred.", "/")
		return
	}
	total, err := docStore.Count(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count documents failed", err, "A database error occurred.", "/")
		return
	}

	items := make([]listItem, 0, len(rows))
	for _, d := range rows {
		it := listItem{
			ID:       d.ID.Hex(),
			Title:    d.Title,
			Summary:  d.Summary,
			Category: d.Category,
			Status:   string(d.Status),
		}
		if d.UpdatedAt != nil {
			it.UpdatedAt = d.UpdatedAt.Format("Jan 2, 2006")
		}
		items = append(items, it)
	}

	data := listData{
		BaseVM:   viewdata.NewBaseVM(r, "Documents", "/"),
		Q:        q,
		Status:   string(filter.Status),
		Category: category,
		Items:    items,
		Total:    total,
	}

	if r.Header.Get("HX-Request") != "" && r.Header.Get("HX-Target") == "documents-table-wrap" {
		templates.RenderSnippet(w, "documents_table", data)
		return
	}

	templates.Render(w, r, "documents_list", data)
}
