// internal/app/features/departments/new.go
package departments

import (
	"context"
	"errors"
	"net/http"
	"strings"

	departmentstore "github.com/dalemusser/staffhub/internal/app/store/departments"
	"github.com/dalemusser/staffhub/internal/app/system/authz"
	"github.com/dalemusser/staffhub/internal/app/system/inputval"
	"github.com/dalemusser/staffhub/internal/app/system/normalize"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"go.uber.org/zap"
)

// createDepartmentInput defines validation rules for adding a department.
type createDepartmentInput struct {
	Name        string `validate:"required,max=200" label:"Name"`
	Description string `validate:"max=500" label:"Description"`
}

func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, "department_new", "New Department", departmentFormVM{}, "")
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/departments")
		return
	}

	name := normalize.Name(r.FormValue("name"))
	description := strings.TrimSpace(r.FormValue("description"))
	status := normalize.Status(r.FormValue("status"))

	reRender := func(msg string) {
		h.renderForm(w, r, "department_new", "New Department", departmentFormVM{
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := departmentstore.New(h.DB).Create(ctx, models.Department{
		Name:        name,
		Description: description,
		Status:      status,
	})
	if err != nil {
		msg := "Database error while creating department."
		if errors.Is(err, departmentstore.ErrDuplicateDepartment) {
			msg = "A department with that name already exists."
		} else {
			h.Log.Error("failed to create department", zap.Error(err))
		}
		reRender(msg)
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.AuditLog.DepartmentCreated(ctx, r, actorID, created.ID, created.Name)

	http.Redirect(w, r, "/departments", http.StatusSeeOther)
}
