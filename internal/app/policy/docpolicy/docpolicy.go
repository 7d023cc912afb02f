// internal/app/policy/docpolicy.go
package docpolicy

import (
	"errors"

	"github.com/dalemusser/staffhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrDepartmentRequired is the hard save-time failure for a
// department-scoped document with no department selected.
var ErrDepartmentRequired = errors.New("a department must be selected when visibility is department")

// ErrPropertyRequired is the analogous failure for property scope.
var ErrPropertyRequired = errors.New("a property must be selected when visibility is property")

// ErrRoleRequired is the analogous failure for role scope.
var ErrRoleRequired = errors.New("a role must be selected when visibility is role")

// ErrBadVisibility is returned for an unknown visibility value.
var ErrBadVisibility = errors.New(`visibility must be "all_properties"|"property"|"department"|"role"`)

// Flags are the reactive warnings surfaced in the editor while the
// operator is still filling in the form. They are advisory; Check is the
// save gate.
type Flags struct {
	// DepartmentRequired: visibility is department but no department is
	// selected yet. Blocks save.
	DepartmentRequired bool
	// PropertyRequired: visibility is property but no property is
	// selected yet. Blocks save.
	PropertyRequired bool
	// RoleRequired: visibility is role but no role is selected yet.
	// Blocks save.
	RoleRequired bool
	// PropertyIrrelevant: a property is still selected but visibility is
	// all_properties, so the value has no effect. Informational only.
	PropertyIrrelevant bool
}

// Check is the single source of truth for "is this document's scope
// valid". It is called on every field edit (the Flags drive the editor
// warnings) and again immediately before persistence (the error is the
// hard gate). The reactive call alone is not sufficient: a user can
// submit before the warning renders.
func Check(d *models.Document) (Flags, error) {
	var f Flags

	if !models.IsValidVisibility(d.Visibility) {
		return f, ErrBadVisibility
	}

	switch d.Visibility {
	case models.VisibilityDepartment:
		if d.DepartmentID == nil || d.DepartmentID.IsZero() {
			f.DepartmentRequired = true
			return f, ErrDepartmentRequired
		}
	case models.VisibilityProperty:
		if d.PropertyID == nil || d.PropertyID.IsZero() {
			f.PropertyRequired = true
			return f, ErrPropertyRequired
		}
	case models.VisibilityRole:
		if d.RoleScope == "" {
			f.RoleRequired = true
			return f, ErrRoleRequired
		}
	case models.VisibilityAllProperties:
		if d.PropertyID != nil && !d.PropertyID.IsZero() {
			f.PropertyIrrelevant = true
		}
	}

	return f, nil
}

// ApplyDepartmentChange records an edit to the department field and
// applies the forward-only auto-correction: clearing the department while
// visibility is department resets visibility to all_properties. Selecting
// a department never auto-sets visibility.
func ApplyDepartmentChange(d *models.Document, departmentID *primitive.ObjectID) Flags {
	d.DepartmentID = departmentID
	if (departmentID == nil || departmentID.IsZero()) && d.Visibility == models.VisibilityDepartment {
		d.Visibility = models.VisibilityAllProperties
	}
	f, _ := Check(d)
	return f
}

// ApplyVisibilityChange records an edit to the visibility field. Switching
// to department scope does not demand a department at that moment; the
// returned Flags carry the DepartmentRequired warning and save stays
// blocked until one is chosen.
func ApplyVisibilityChange(d *models.Document, v models.Visibility) Flags {
	d.Visibility = v
	f, _ := Check(d)
	return f
}

// CanTransition reports whether a review-workflow status change is
// allowed. The lifecycle has no terminal state: published and rejected
// documents can be pulled back to draft and re-edited indefinitely.
func CanTransition(from, to models.DocumentStatus) bool {
	from = models.NormalizeDocumentStatus(from)
	to = models.NormalizeDocumentStatus(to)

	switch from {
	case models.DocStatusDraft:
		return to == models.DocStatusPendingReview
	case models.DocStatusPendingReview:
		return to == models.DocStatusPublished || to == models.DocStatusRejected || to == models.DocStatusDraft
	case models.DocStatusPublished:
		return to == models.DocStatusDraft
	case models.DocStatusRejected:
		return to == models.DocStatusDraft || to == models.DocStatusPendingReview
	}
	return false
}
