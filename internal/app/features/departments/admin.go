// internal/app/features/departments/admin.go
package departments

import (
	"context"
	"html/template"
	"net/http"

	uierrors "github.com/dalemusser/staffhub/internal/app/features/errors"
	departmentstore "github.com/dalemusser/staffhub/internal/app/store/departments"
	userstore "github.com/dalemusser/staffhub/internal/app/store/users"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"github.com/dalemusser/staffhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type listItem struct {
	ID          string
	Name        string
	Description string
	Status      string
	Staff       int64
}

type listData struct {
	viewdata.BaseVM
	Items []listItem
	Total int64
}

type departmentFormVM struct {
	viewdata.BaseVM
	ID          string
	Name        string
	Description string
	Status      string
	Error       template.HTML
}

// parseDepartmentID extracts and validates the {id} URL parameter. On
// failure it renders the bad-request page and returns ok=false.
func parseDepartmentID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderBadRequest(w, r, "Invalid department ID.", "/departments")
		return primitive.NilObjectID, false
	}
	return oid, true
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, name, title string, vm departmentFormVM, errMsg string) {
	vm.BaseVM = viewdata.NewBaseVM(r, title, "/departments")

	if vm.Status == "" {
		vm.Status = "active"
	}
	if errMsg != "" {
		vm.Error = template.HTML(errMsg)
	}

	templates.Render(w, r, name, vm)
}

// ServeList displays every department with its member headcount.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, err := departmentstore.New(h.DB).List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list departments failed", err, "A database error occurred.", "/")
		return
	}

	users := userstore.New(h.DB)
	items := make([]listItem, 0, len(rows))
	for _, d := range rows {
		it := listItem{
			ID:          d.ID.Hex(),
			Name:        d.Name,
			Description: d.Description,
			Status:      d.Status,
		}
		did := d.ID
		if n, err := users.Count(ctx, userstore.ListFilter{Role: "employee", DepartmentID: &did}); err == nil {
			it.Staff = n
		}
		items = append(items, it)
	}

	data := listData{
		BaseVM: viewdata.NewBaseVM(r, "Departments", "/"),
		Items:  items,
		Total:  int64(len(items)),
	}

	templates.Render(w, r, "departments_list", data)
}
