package authz_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/staffhub/internal/app/system/auth"
	"github.com/dalemusser/staffhub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func reqWithUser(u *auth.SessionUser) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if u == nil {
		return r
	}
	return auth.WithTestUser(r, u)
}

func TestUserCtx(t *testing.T) {
	id := primitive.NewObjectID()

	t.Run("signed in", func(t *testing.T) {
		r := reqWithUser(&auth.SessionUser{ID: id.Hex(), Name: "Ana", Role: "Admin"})
		role, name, uid, ok := authz.UserCtx(r)
		if !ok {
			t.Fatal("expected ok")
		}
		if role != "admin" {
			t.Errorf("role = %q, want lowercased admin", role)
		}
		if name != "Ana" || uid != id {
			t.Errorf("got name=%q uid=%v", name, uid)
		}
	})

	t.Run("not signed in", func(t *testing.T) {
		role, _, uid, ok := authz.UserCtx(reqWithUser(nil))
		if ok || role != "visitor" || uid != primitive.NilObjectID {
			t.Errorf("got role=%q uid=%v ok=%v", role, uid, ok)
		}
	})

	t.Run("malformed id fails closed", func(t *testing.T) {
		r := reqWithUser(&auth.SessionUser{ID: "garbage", Role: "admin"})
		_, _, _, ok := authz.UserCtx(r)
		if ok {
			t.Error("expected ok=false for malformed user ID")
		}
	})
}

func TestRolePredicates(t *testing.T) {
	id := primitive.NewObjectID().Hex()

	admin := reqWithUser(&auth.SessionUser{ID: id, Role: "admin"})
	reviewer := reqWithUser(&auth.SessionUser{ID: id, Role: "reviewer"})
	employee := reqWithUser(&auth.SessionUser{ID: id, Role: "employee"})
	anon := reqWithUser(nil)

	if !authz.IsAdmin(admin) || authz.IsAdmin(reviewer) || authz.IsAdmin(anon) {
		t.Error("IsAdmin misclassified")
	}
	// Admins count as reviewers.
	if !authz.IsReviewer(reviewer) || !authz.IsReviewer(admin) || authz.IsReviewer(employee) {
		t.Error("IsReviewer misclassified")
	}
	if !authz.IsEmployee(employee) || authz.IsEmployee(admin) {
		t.Error("IsEmployee misclassified")
	}
	if !authz.CanManageTrainings(admin) || authz.CanManageTrainings(reviewer) {
		t.Error("CanManageTrainings misclassified")
	}
	if !authz.CanReviewDocuments(reviewer) || authz.CanReviewDocuments(employee) {
		t.Error("CanReviewDocuments misclassified")
	}
}

func TestHasAnyRole(t *testing.T) {
	r := reqWithUser(&auth.SessionUser{ID: primitive.NewObjectID().Hex(), Role: "reviewer"})
	if !authz.HasAnyRole(r, "admin", "reviewer") {
		t.Error("expected reviewer to match")
	}
	if authz.HasAnyRole(r, "admin", "employee") {
		t.Error("expected no match")
	}
	if authz.HasAnyRole(reqWithUser(nil), "admin") {
		t.Error("expected false when not signed in")
	}
}

func TestUserPropertyAndDepartmentID(t *testing.T) {
	propID := primitive.NewObjectID()
	deptID := primitive.NewObjectID()

	r := reqWithUser(&auth.SessionUser{
		ID:           primitive.NewObjectID().Hex(),
		Role:         "employee",
		PropertyID:   propID.Hex(),
		DepartmentID: deptID.Hex(),
	})
	if got := authz.UserPropertyID(r); got != propID {
		t.Errorf("UserPropertyID = %v, want %v", got, propID)
	}
	if got := authz.UserDepartmentID(r); got != deptID {
		t.Errorf("UserDepartmentID = %v, want %v", got, deptID)
	}

	chainWide := reqWithUser(&auth.SessionUser{ID: primitive.NewObjectID().Hex(), Role: "admin"})
	if got := authz.UserPropertyID(chainWide); got != primitive.NilObjectID {
		t.Errorf("expected NilObjectID for chain-wide account, got %v", got)
	}
}

func TestCanAccessProperty(t *testing.T) {
	mine := primitive.NewObjectID()
	other := primitive.NewObjectID()
	uid := primitive.NewObjectID().Hex()

	admin := reqWithUser(&auth.SessionUser{ID: uid, Role: "admin"})
	reviewer := reqWithUser(&auth.SessionUser{ID: uid, Role: "reviewer"})
	employee := reqWithUser(&auth.SessionUser{ID: uid, Role: "employee", PropertyID: mine.Hex()})

	if !authz.CanAccessProperty(admin, other) || !authz.CanAccessProperty(reviewer, other) {
		t.Error("admins and reviewers are chain-wide")
	}
	if !authz.CanAccessProperty(employee, mine) {
		t.Error("employee should access own property")
	}
	if authz.CanAccessProperty(employee, other) {
		t.Error("employee should not access another property")
	}
	if authz.CanAccessProperty(reqWithUser(nil), mine) {
		t.Error("anonymous should not access any property")
	}
}
