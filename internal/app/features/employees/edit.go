// internal/app/features/employees/edit.go
package employees

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/staffhub/internal/app/features/errors"
	userstore "github.com/dalemusser/staffhub/internal/app/store/users"
	"github.com/dalemusser/staffhub/internal/app/system/authutil"
	"github.com/dalemusser/staffhub/internal/app/system/authz"
	"github.com/dalemusser/staffhub/internal/app/system/inputval"
	"github.com/dalemusser/staffhub/internal/app/system/navigation"
	"github.com/dalemusser/staffhub/internal/app/system/normalize"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// editEmployeeInput defines validation rules for editing an employee.
type editEmployeeInput struct {
	FullName   string `validate:"required,max=200" label:"Full name"`
	Email      string `validate:"required,email,max=200" label:"Email"`
	PropertyID string `validate:"required,objectid" label:"Property"`
}

func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	uid, ok := parseEmployeeID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := userstore.New(h.DB).GetEmployeeByID(ctx, uid)
	if err != nil {
		uierrors.RenderNotFound(w, r, "Employee not found.", "/employees")
		return
	}

	vm := employeeFormVM{
		ID:       u.ID.Hex(),
		FullName: u.FullName,
		Email:    u.Email,
		Status:   u.Status,
	}
	if u.PropertyID != nil {
		vm.PropertyID = u.PropertyID.Hex()
	}
	if u.DepartmentID != nil {
		vm.DepartmentID = u.DepartmentID.Hex()
	}

	h.renderEditForm(w, r, vm, "")
}

func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	uid, ok := parseEmployeeID(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/employees")
		return
	}

	full := normalize.Name(r.FormValue("full_name"))
	email := normalize.Email(r.FormValue("email"))
	status := normalize.Status(r.FormValue("status"))
	propertyHex := strings.TrimSpace(r.FormValue("property_id"))
	departmentHex := strings.TrimSpace(r.FormValue("department_id"))
	password := r.FormValue("password")

	reRender := func(msg string) {
		h.renderEditForm(w, r, employeeFormVM{
			ID:           uid.Hex(),
			FullName:     full,
			Email:        email,
			Status:       status,
			PropertyID:   propertyHex,
			DepartmentID: departmentHex,
		}, msg)
	}

	input := editEmployeeInput{FullName: full, Email: email, PropertyID: propertyHex}
	if result := inputval.Validate(input); result.HasErrors() {
		reRender(result.First())
		return
	}
	if password != "" && len(password) < minPasswordLen {
		reRender("The new password must be at least 8 characters.")
		return
	}
	if status != "active" && status != "disabled" {
		status = "active"
	}

	propertyID, err := primitive.ObjectIDFromHex(propertyHex)
	if err != nil {
		reRender("Select a property.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users := userstore.New(h.DB)
	if _, err := users.GetEmployeeByID(ctx, uid); err != nil {
		uierrors.RenderNotFound(w, r, "Employee not found.", "/employees")
		return
	}

	upd := userstore.EmployeeUpdate{
		FullName:   full,
		Email:      email,
		Status:     status,
		PropertyID: propertyID,
	}
	if did, err := primitive.ObjectIDFromHex(departmentHex); err == nil {
		upd.DepartmentID = &did
	}

	if err := users.UpdateEmployee(ctx, uid, upd); err != nil {
		msg := "Database error while updating employee."
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			msg = "An account with that email already exists."
		} else {
			h.Log.Error("failed to update employee", zap.Error(err))
		}
		reRender(msg)
		return
	}

	fields := "full_name,email,status,property_id,department_id"
	if password != "" {
		hash, err := authutil.HashPassword(password)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "hash password failed", err, "Unable to update password.", "/employees")
			return
		}
		if err := users.SetPasswordHash(ctx, uid, hash); err != nil {
			h.ErrLog.LogServerError(w, r, "set password failed", err, "Unable to update password.", "/employees")
			return
		}
		fields += ",password"
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.AuditLog.UserUpdated(ctx, r, actorID, uid, fields)

	ret := navigation.SafeBackURL(r, navigation.EmployeesBackURL)
	http.Redirect(w, r, ret, http.StatusSeeOther)
}
