// internal/app/features/departments/edit.go
package departments

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/staffhub/internal/app/features/errors"
	departmentstore "github.com/dalemusser/staffhub/internal/app/store/departments"
	"github.com/dalemusser/staffhub/internal/app/system/authz"
	"github.com/dalemusser/staffhub/internal/app/system/inputval"
	"github.com/dalemusser/staffhub/internal/app/system/normalize"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.uber.org/zap"
)

func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	did, ok := parseDepartmentID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	d, err := departmentstore.New(h.DB).GetByID(ctx, did)
	if err != nil {
		uierrors.RenderNotFound(w, r, "Department not found.", "/departments")
		return
	}

	h.renderForm(w, r, "department_edit", "Edit Department", departmentFormVM{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Status:      d.Status,
	}, "")
}

func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	did, ok := parseDepartmentID(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/departments")
		return
	}

	name := normalize.Name(r.FormValue("name"))
	description := strings.TrimSpace(r.FormValue("description"))
	status := normalize.Status(r.FormValue("status"))

	reRender := func(msg string) {
		h.renderForm(w, r, "department_edit", "Edit Department", departmentFormVM{
			ID:          did.Hex(),
			Name:        name,
			Description: description,
			Status:      status,
		}, msg)
	}

	input := createDepartmentInput{Name: name, Description: description}
	if result := inputval.Validate(input); result.HasErrors() {
		reRender(result.First())
		return
	}
	if status != "active" && status != "disabled" {
		status = "active"
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	depts := departmentstore.New(h.DB)
	if _, err := depts.GetByID(ctx, did); err != nil {
		uierrors.RenderNotFound(w, r, "Department not found.", "/departments")
		return
	}

	if exists, err := depts.NameExistsForOther(ctx, text.Fold(name), did); err == nil && exists {
		reRender("A department with that name already exists.")
		return
	}

	if err := depts.Update(ctx, did, models.Department{
		Name:        name,
		Description: description,
		Status:      status,
	}); err != nil {
		msg := "Database error while updating department."
		if errors.Is(err, departmentstore.ErrDuplicateDepartment) {
			msg = "A department with that name already exists."
		} else {
			h.Log.Error("failed to update department", zap.Error(err))
		}
		reRender(msg)
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.AuditLog.DepartmentUpdated(ctx, r, actorID, did, "name,description,status")

	http.Redirect(w, r, "/departments", http.StatusSeeOther)
}
