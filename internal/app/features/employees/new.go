// internal/app/features/employees/new.go
package employees

import (
	"context"
	"errors"
	"net/http"
	"strings"

	userstore "github.com/dalemusser/staffhub/internal/app/store/users"
	"github.com/dalemusser/staffhub/internal/app/system/authutil"
	"github.com/dalemusser/staffhub/internal/app/system/authz"
	"github.com/dalemusser/staffhub/internal/app/system/inputval"
	"github.com/dalemusser/staffhub/internal/app/system/navigation"
	"github.com/dalemusser/staffhub/internal/app/system/normalize"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// createEmployeeInput defines validation rules for adding an employee.
// The initial password has a length floor checked separately.
type createEmployeeInput struct {
	FullName   string `validate:"required,max=200" label:"Full name"`
	Email      string `validate:"required,email,max=200" label:"Email"`
	PropertyID string `validate:"required,objectid" label:"Property"`
}

const minPasswordLen = 8

func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	vm := employeeFormVM{}
	h.renderNewForm(w, r, vm, "")
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
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
		h.renderNewForm(w, r, employeeFormVM{
			FullName:     full,
			Email:        email,
			Status:       status,
			PropertyID:   propertyHex,
			DepartmentID: departmentHex,
		}, msg)
	}

	input := createEmployeeInput{FullName: full, Email: email, PropertyID: propertyHex}
	if result := inputval.Validate(input); result.HasErrors() {
		reRender(result.First())
		return
	}
	if len(password) < minPasswordLen {
		reRender("The initial password must be at least 8 characters.")
		return
	}

	propertyID, err := primitive.ObjectIDFromHex(propertyHex)
	if err != nil {
		reRender("Select a property.")
		return
	}

	u := models.User{
		FullName:   full,
		Email:      email,
		Role:       "employee",
		Status:     status,
		PropertyID: &propertyID,
	}
	if did, err := primitive.ObjectIDFromHex(departmentHex); err == nil {
		u.DepartmentID = &did
	}

	hash, err := authutil.HashPassword(password)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "hash password failed", err, "Unable to create employee.", "/employees")
		return
	}
	u.PasswordHash = hash

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := userstore.New(h.DB).Create(ctx, u)
	if err != nil {
		msg := "Database error while creating employee."
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			msg = "An account with that email already exists."
		} else {
			h.Log.Error("failed to create employee", zap.Error(err))
		}
		reRender(msg)
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.AuditLog.UserCreated(ctx, r, actorID, created.ID, created.PropertyID, created.Role)

	// A new hire picks up every auto-enroll assignment covering their
	// property or department. The account is already committed, so a
	// notification failure is logged and the admin flow continues.
	h.notifyAutoEnroll(ctx, created)

	ret := navigation.SafeBackURL(r, navigation.EmployeesBackURL)
	http.Redirect(w, r, ret, http.StatusSeeOther)
}
