// internal/app/features/trainings/adminlist.go
package trainings

import (
	"context"
	"maps"
	"net/http"

	trainingstore "github.com/dalemusser/staffhub/internal/app/store/trainings"
	"github.com/dalemusser/staffhub/internal/app/system/paging"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"github.com/dalemusser/staffhub/internal/app/system/viewdata"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ServeList displays the admin list of trainings.
// Supports live HTMX search and prefix queries on *_ci columns.
// Authorization: RequireRole("admin") middleware in routes.go ensures only admins reach this handler.
func (h *AdminHandler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := query.Search(r, "q")
	after := query.Get(r, "after")
	before := query.Get(r, "before")
	start := paging.ParseStart(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()
	db := h.DB

	// Build base filter
	base := bson.M{}
	var searchOr []bson.M
	if lo, hi := text.PrefixRange(q); lo != "" {
		searchOr = []bson.M{
			{"title_ci": bson.M{"$gte": lo, "$lt": hi}},
			{"subject_ci": bson.M{"$gte": lo, "$lt": hi}},
		}
		base["$or"] = searchOr
	}

	// Count total via store
	trStore := trainingstore.New(db)
	total, err := trStore.CountDocs(ctx, base)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count trainings failed", err, "A database error occurred.", "/")
		return
	}

	// Clone base filter for pagination query
	f := maps.Clone(base)
	find := options.Find()
	sortField := "title_ci"

	// Configure keyset pagination
	cfg := paging.ConfigureKeyset(before, after)
	cfg.ApplyToFind(find, sortField)

	find.SetProjection(bson.M{
		"_id":         1,
		"title":       1,
		"title_ci":    1,
		"subject":     1,
		"type":        1,
		"status":      1,
		"description": 1,
	})

	// Apply cursor conditions (handle $or clause specially)
	if ks := cfg.KeysetWindow(sortField); ks != nil {
		if q != "" && len(searchOr) > 0 {
			f["$and"] = []bson.M{{"$or": searchOr}, ks}
			delete(f, "$or")
		} else {
			maps.Copy(f, ks)
		}
	}

	rows, err := trStore.Find(ctx, f, find)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find trainings failed", err, "A database error occurred.", "/")
		return
	}

	// Reverse if paging backwards
	if cfg.Direction == paging.Backward {
		paging.Reverse(rows)
	}

	page := paging.TrimPage(&rows, before, after)

	shown := len(rows)
	rng := paging.ComputeRange(start, shown)

	items := make([]listItem, 0, len(rows))
	for _, tr := range rows {
		items = append(items, listItem{
			ID:          tr.ID,
			Title:       tr.Title,
			TitleCI:     tr.TitleCI,
			Subject:     tr.Subject,
			Type:        tr.Type,
			Status:      tr.Status,
			Description: tr.Description,
		})
	}

	prevCur, nextCur := paging.BuildCursors(rows,
		func(tr models.Training) string { return tr.TitleCI },
		func(tr models.Training) primitive.ObjectID { return tr.ID })

	data := listData{
		BaseVM: viewdata.NewBaseVM(r, "Trainings", "/"),
		Q:      q,
		Items:  items,

		Shown:      shown,
		Total:      total,
		HasPrev:    page.HasPrev,
		HasNext:    page.HasNext,
		PrevCursor: prevCur,
		NextCursor: nextCur,
		RangeStart: rng.Start,
		RangeEnd:   rng.End,
		PrevStart:  rng.PrevStart,
		NextStart:  rng.NextStart,
	}

	// HTMX partial table refresh
	if r.Header.Get("HX-Request") != "" && r.Header.Get("HX-Target") == "trainings-table-wrap" {
		templates.RenderSnippet(w, "trainings_table", data)
		return
	}

	templates.Render(w, r, "trainings_list", data)
}
