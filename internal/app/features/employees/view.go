// internal/app/features/employees/view.go
package employees

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/staffhub/internal/app/features/errors"
	departmentstore "github.com/dalemusser/staffhub/internal/app/store/departments"
	propertystore "github.com/dalemusser/staffhub/internal/app/store/properties"
	trainingassignstore "github.com/dalemusser/staffhub/internal/app/store/trainingassign"
	userstore "github.com/dalemusser/staffhub/internal/app/store/users"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"github.com/dalemusser/staffhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

const viewDateLayout = "Jan 2, 2006 3:04 PM"

// ServeView shows one employee's account details, scope, and how many
// training assignments currently cover them.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	uid, ok := parseEmployeeID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := userstore.New(h.DB).GetEmployeeByID(ctx, uid)
	if err != nil {
		uierrors.RenderNotFound(w, r, "Employee not found.", "/employees")
		return
	}

	data := viewData{
		BaseVM:    viewdata.NewBaseVM(r, u.FullName, "/employees"),
		ID:        u.ID.Hex(),
		FullName:  u.FullName,
		Email:     u.Email,
		Status:    u.Status,
		CreatedAt: u.CreatedAt.Format(viewDateLayout),
		UpdatedAt: u.UpdatedAt.Format(viewDateLayout),
	}

	if u.PropertyID != nil {
		data.Property = u.PropertyID.Hex()
		if p, err := propertystore.New(h.DB).GetByID(ctx, *u.PropertyID); err == nil {
			data.Property = p.Name
		}
	}
	if u.DepartmentID != nil {
		data.Department = u.DepartmentID.Hex()
		if d, err := departmentstore.New(h.DB).GetByID(ctx, *u.DepartmentID); err == nil {
			data.Department = d.Name
		}
	}

	if rows, err := trainingassignstore.New(h.DB).ListForTargets(ctx, u.ID, u.DepartmentID, u.PropertyID); err == nil {
		data.AssignedCount = len(rows)
	}

	templates.Render(w, r, "employee_view", data)
}
