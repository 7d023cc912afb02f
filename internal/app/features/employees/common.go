// internal/app/features/employees/common.go
package employees

import (
	"context"
	"html/template"
	"net/http"

	uierrors "github.com/dalemusser/staffhub/internal/app/features/errors"
	departmentstore "github.com/dalemusser/staffhub/internal/app/store/departments"
	propertystore "github.com/dalemusser/staffhub/internal/app/store/properties"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"github.com/dalemusser/staffhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// parseEmployeeID extracts and validates the {id} URL parameter. On failure
// it renders the bad-request page and returns ok=false.
func parseEmployeeID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderBadRequest(w, r, "Invalid employee ID.", "/employees")
		return primitive.NilObjectID, false
	}
	return oid, true
}

// propertyOptions returns the active-property pick list. Lookup failures
// yield an empty list rather than failing the page.
func (h *Handler) propertyOptions(ctx context.Context) []pickOption {
	var opts []pickOption
	if rows, err := propertystore.New(h.DB).ListActive(ctx); err == nil {
		for _, p := range rows {
			opts = append(opts, pickOption{ID: p.ID.Hex(), Name: p.Name})
		}
	}
	return opts
}

// loadScopeLists fills the property and department pick lists used by the
// employee form.
func (h *Handler) loadScopeLists(ctx context.Context, vm *employeeFormVM) {
	vm.Properties = h.propertyOptions(ctx)
	if rows, err := departmentstore.New(h.DB).ListActive(ctx); err == nil {
		for _, d := range rows {
			vm.Departments = append(vm.Departments, pickOption{ID: d.ID.Hex(), Name: d.Name})
		}
	}
}

// renderNewForm populates the common chrome for the Add Employee page and
// renders the new form, echoing any partially-filled form back to the user.
func (h *Handler) renderNewForm(w http.ResponseWriter, r *http.Request, vm employeeFormVM, errMsg string) {
	vm.BaseVM = viewdata.NewBaseVM(r, "Add Employee", "/employees")

	if vm.Status == "" {
		vm.Status = "active"
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	h.loadScopeLists(ctx, &vm)

	if errMsg != "" {
		vm.Error = template.HTML(errMsg)
	}

	templates.Render(w, r, "employee_new", vm)
}

// renderEditForm populates the common chrome for the Edit Employee page and
// renders the edit form.
func (h *Handler) renderEditForm(w http.ResponseWriter, r *http.Request, vm employeeFormVM, errMsg string) {
	vm.BaseVM = viewdata.NewBaseVM(r, "Edit Employee", "/employees")

	if vm.DeleteReturn == "" {
		vm.DeleteReturn = "/employees"
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	h.loadScopeLists(ctx, &vm)

	if errMsg != "" {
		vm.Error = template.HTML(errMsg)
	}

	templates.Render(w, r, "employee_edit", vm)
}
