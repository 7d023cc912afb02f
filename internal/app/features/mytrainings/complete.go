// internal/app/features/mytrainings/complete.go
package mytrainings

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/staffhub/internal/app/features/errors"
	completionstore "github.com/dalemusser/staffhub/internal/app/store/completions"
	trainingassignstore "github.com/dalemusser/staffhub/internal/app/store/trainingassign"
	"github.com/dalemusser/staffhub/internal/app/system/authz"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleComplete records the current employee's completion of an assignment.
// Completion is idempotent: completing twice keeps the first timestamp.
func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderForbidden(w, r, "You must be logged in.", "/login")
		return
	}

	assignHex := chi.URLParam(r, "assignID")
	aid, err := primitive.ObjectIDFromHex(assignHex)
	if err != nil {
		uierrors.RenderBadRequest(w, r, "Invalid assignment ID.", "/my/trainings")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()
	db := h.DB

	a, err := trainingassignstore.New(db).GetByID(ctx, aid)
	if err != nil {
		uierrors.RenderNotFound(w, r, "Assignment not found.", "/my/trainings")
		return
	}

	// Only targets of the assignment may complete it.
	if !h.assignmentTargetsUser(r, &a, userID) {
		uierrors.RenderForbidden(w, r, "This training is not assigned to you.", "/my/trainings")
		return
	}

	if _, err := completionstore.New(db).MarkComplete(ctx, aid, userID); err != nil {
		h.ErrLog.LogServerError(w, r, "mark complete failed", err, "Unable to record completion.", "/my/trainings")
		return
	}

	// Audit log: training completed
	h.AuditLog.TrainingCompleted(ctx, r, userID, aid)

	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", "/my/trainings")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/my/trainings", http.StatusSeeOther)
}

// assignmentTargetsUser reports whether the assignment's audience includes
// the current user: everyone, the user directly, or the user's department or
// property.
func (h *Handler) assignmentTargetsUser(r *http.Request, a *models.TrainingAssignment, userID primitive.ObjectID) bool {
	if a.IsEveryone() {
		return true
	}
	if a.TargetID == nil {
		return false
	}
	switch a.TargetType {
	case models.TargetUsers:
		return *a.TargetID == userID
	case models.TargetDepartments:
		return *a.TargetID == authz.UserDepartmentID(r)
	case models.TargetProperties:
		return *a.TargetID == authz.UserPropertyID(r)
	}
	return false
}
