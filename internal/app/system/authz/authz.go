// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/staffhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's role (lowercased), name, Mongo ObjectID, and a found flag.
// If no user is present in context or the user ID is malformed, it returns
// "visitor", "", NilObjectID, false. This ensures callers can trust that
// ok=true means a valid, authenticated user with a valid ObjectID.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session - fail closed.
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, userID, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == "admin"
}

// IsReviewer reports whether the current request's user is a reviewer.
// Admins are also considered reviewers for permission purposes.
func IsReviewer(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && (role == "reviewer" || role == "admin")
}

// IsEmployee reports whether the current request's user is an employee.
func IsEmployee(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == "employee"
}

// HasAnyRole reports whether the current request's user has any of the given
// roles. Returns false if no user is present.
func HasAnyRole(r *http.Request, roles ...string) bool {
	role, _, _, ok := UserCtx(r)
	if !ok {
		return false
	}
	for _, want := range roles {
		if role == strings.ToLower(strings.TrimSpace(want)) {
			return true
		}
	}
	return false
}

// UserPropertyID returns the current user's home property ID.
// Returns NilObjectID for chain-wide accounts or when not signed in.
func UserPropertyID(r *http.Request) primitive.ObjectID {
	user, ok := auth.CurrentUser(r)
	if !ok || user.PropertyID == "" {
		return primitive.NilObjectID
	}
	oid, err := primitive.ObjectIDFromHex(user.PropertyID)
	if err != nil {
		return primitive.NilObjectID
	}
	return oid
}

// UserDepartmentID returns the current user's department ID.
// Returns NilObjectID when the user has no department or is not signed in.
func UserDepartmentID(r *http.Request) primitive.ObjectID {
	user, ok := auth.CurrentUser(r)
	if !ok || user.DepartmentID == "" {
		return primitive.NilObjectID
	}
	oid, err := primitive.ObjectIDFromHex(user.DepartmentID)
	if err != nil {
		return primitive.NilObjectID
	}
	return oid
}

// CanReviewDocuments reports whether the current user can approve or reject
// submitted documents.
func CanReviewDocuments(r *http.Request) bool {
	return IsReviewer(r)
}

// CanManageTrainings reports whether the current user can create/edit/delete
// trainings and assignments.
func CanManageTrainings(r *http.Request) bool {
	return IsAdmin(r)
}

// CanAccessProperty reports whether the current user may see data scoped to
// the given property. Admins and reviewers are chain-wide; employees see
// their own property only.
func CanAccessProperty(r *http.Request, propertyID primitive.ObjectID) bool {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return false
	}

	role := strings.ToLower(user.Role)
	if role == "admin" || role == "reviewer" {
		return true
	}

	if user.PropertyID == "" {
		return false
	}
	oid, err := primitive.ObjectIDFromHex(user.PropertyID)
	if err != nil {
		return false
	}
	return oid == propertyID
}
