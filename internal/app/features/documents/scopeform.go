// internal/app/features/documents/scopeform.go
package documents

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/staffhub/internal/app/policy/docpolicy"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// scopeInput carries the visibility-related form fields as submitted.
type scopeInput struct {
	Visibility   string
	PropertyID   string
	DepartmentID string
	RoleScope    string
}

func readScopeInput(r *http.Request) scopeInput {
	return scopeInput{
		Visibility:   strings.TrimSpace(r.FormValue("visibility")),
		PropertyID:   strings.TrimSpace(r.FormValue("property_id")),
		DepartmentID: strings.TrimSpace(r.FormValue("department_id")),
		RoleScope:    strings.TrimSpace(r.FormValue("role_scope")),
	}
}

// applyTo writes the scope fields onto the document. Malformed ObjectIDs
// are treated as unset; docpolicy.Check catches the resulting gaps.
func (in scopeInput) applyTo(d *models.Document) {
	d.Visibility = models.Visibility(in.Visibility)
	d.RoleScope = in.RoleScope
	d.PropertyID = nil
	d.DepartmentID = nil
	if oid, err := primitive.ObjectIDFromHex(in.PropertyID); err == nil {
		d.PropertyID = &oid
	}
	if oid, err := primitive.ObjectIDFromHex(in.DepartmentID); err == nil {
		d.DepartmentID = &oid
	}
}

// applyScopeFlags recomputes the advisory scope warnings from the form's
// current values so the template can show them inline.
func (vm *documentFormVM) applyScopeFlags() {
	var d models.Document
	scopeInput{
		Visibility:   vm.Visibility,
		PropertyID:   vm.PropertyID,
		DepartmentID: vm.DepartmentID,
		RoleScope:    vm.RoleScope,
	}.applyTo(&d)
	f := docpolicy.ApplyVisibilityChange(&d, models.Visibility(vm.Visibility))
	vm.PropertyIrrelevant = f.PropertyIrrelevant
}

// scopeErrorMessage maps the docpolicy save-gate errors to the form
// messages shown to the author.
func scopeErrorMessage(err error) string {
	switch {
	case errors.Is(err, docpolicy.ErrDepartmentRequired):
		return "Select a department, or change the visibility."
	case errors.Is(err, docpolicy.ErrPropertyRequired):
		return "Select a property, or change the visibility."
	case errors.Is(err, docpolicy.ErrRoleRequired):
		return "Select a role, or change the visibility."
	case errors.Is(err, docpolicy.ErrBadVisibility):
		return "Visibility is invalid."
	}
	return "Visibility settings are invalid."
}
