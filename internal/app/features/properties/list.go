// internal/app/features/properties/list.go
package properties

import (
	"context"
	"net/http"

	propertystore "github.com/dalemusser/staffhub/internal/app/store/properties"
	userstore "github.com/dalemusser/staffhub/internal/app/store/users"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"github.com/dalemusser/staffhub/internal/app/system/timezones"
	"github.com/dalemusser/staffhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

// ServeList displays every property with its staff headcount.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, err := propertystore.New(h.DB).List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list properties failed", err, "A database error occurred.", "/")
		return
	}

	users := userstore.New(h.DB)
	items := make([]listItem, 0, len(rows))
	for _, p := range rows {
		it := listItem{
			ID:       p.ID.Hex(),
			Name:     p.Name,
			City:     p.City,
			State:    p.State,
			TimeZone: timezones.Label(p.TimeZone),
			Status:   p.Status,
		}
		pid := p.ID
		if n, err := users.Count(ctx, userstore.ListFilter{Role: "employee", PropertyID: &pid}); err == nil {
			it.Staff = n
		}
		items = append(items, it)
	}

	data := listData{
		BaseVM: viewdata.NewBaseVM(r, "Properties", "/"),
		Items:  items,
		Total:  int64(len(items)),
	}

	templates.Render(w, r, "properties_list", data)
}
