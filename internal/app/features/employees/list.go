// internal/app/features/employees/list.go
package employees

import (
	"context"
	"net/http"

	propertystore "github.com/dalemusser/staffhub/internal/app/store/properties"
	userstore "github.com/dalemusser/staffhub/internal/app/store/users"
	"github.com/dalemusser/staffhub/internal/app/system/normalize"
	"github.com/dalemusser/staffhub/internal/app/system/search"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"github.com/dalemusser/staffhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeList displays the employee roster with name-prefix, status and
// property filters.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := query.Search(r, "q")
	status := normalize.Status(query.Get(r, "status"))
	propertyHex := query.Get(r, "property")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	filter := userstore.ListFilter{Role: "employee"}
	if status == "active" || status == "disabled" {
		filter.Status = status
	}
	// Queries that look like an email pivot to the email index.
	if search.EmailPivotOK(q, filter.Status) {
		filter.EmailSearch = q
	} else {
		filter.Search = q
	}
	if pid, err := primitive.ObjectIDFromHex(propertyHex); err == nil {
		filter.PropertyID = &pid
	}

	users := userstore.New(h.DB)
	rows, err := users.List(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list employees failed", err, "A database error occurred.", "/")
		return
	}
	total, err := users.Count(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count employees failed", err, "A database error occurred.", "/")
		return
	}

	// Resolve property names for the rows in one pass.
	propNames := map[primitive.ObjectID]string{}
	if props, err := propertystore.New(h.DB).List(ctx); err == nil {
		for _, p := range props {
			propNames[p.ID] = p.Name
		}
	}

	items := make([]listItem, 0, len(rows))
	for _, u := range rows {
		it := listItem{
			ID:       u.ID.Hex(),
			FullName: u.FullName,
			Email:    u.Email,
			Status:   u.Status,
		}
		if u.PropertyID != nil {
			if name, ok := propNames[*u.PropertyID]; ok {
				it.Property = name
			} else {
				it.Property = u.PropertyID.Hex()
			}
		}
		items = append(items, it)
	}

	data := listData{
		BaseVM:     viewdata.NewBaseVM(r, "Employees", "/"),
		Q:          q,
		Status:     status,
		PropertyID: propertyHex,
		Properties: h.propertyOptions(ctx),
		Items:      items,
		Total:      total,
	}

	// Filter changes swap just the table via htmx.
	if r.Header.Get("HX-Request") == "true" && r.Header.Get("HX-Target") == "employees-table-wrap" {
		templates.RenderSnippet(w, "employees_table", data)
		return
	}

	templates.Render(w, r, "employees_list", data)
}
