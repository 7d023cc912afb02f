// internal/app/features/trainings/admindelete.go
package trainings

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/staffhub/internal/app/features/errors"
	completionstore "github.com/dalemusser/staffhub/internal/app/store/completions"
	trainingassignstore "github.com/dalemusser/staffhub/internal/app/store/trainingassign"
	trainingstore "github.com/dalemusser/staffhub/internal/app/store/trainings"
	"github.com/dalemusser/staffhub/internal/app/system/authz"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"github.com/dalemusser/staffhub/internal/app/system/txn"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleDelete deletes a training along with its assignments and their
// completion records.
func (h *AdminHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, _ := authz.UserCtx(r)

	idHex := chi.URLParam(r, "id")
	oid, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		uierrors.RenderBadRequest(w, r, "Invalid training ID.", "/trainings")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()
	db := h.DB

	trStore := trainingstore.New(db)
	assignStore := trainingassignstore.New(db)
	compStore := completionstore.New(db)

	tr, err := trStore.GetByID(ctx, oid)
	if err != nil {
		uierrors.RenderNotFound(w, r, "Training not found.", "/trainings")
		return
	}

	// Use transaction for atomic deletion of training, assignments, and
	// completion records.
	if err := txn.Run(ctx, db, h.Log, func(ctx context.Context) error {
		// 1) Completion records hang off assignments; clean them first.
		assignments, err := assignStore.ListByTraining(ctx, oid)
		if err != nil {
			return err
		}
		for i := range assignments {
			if _, err := compStore.DeleteByAssignment(ctx, assignments[i].ID); err != nil {
				return err
			}
		}
		// 2) Remove the assignments themselves.
		if _, err := assignStore.DeleteByTraining(ctx, oid); err != nil {
			return err
		}
		// 3) Delete the training.
		if _, err := trStore.Delete(ctx, oid); err != nil {
			return err
		}
		return nil
	}); err != nil {
		h.ErrLog.LogServerError(w, r, "delete training failed", err, "Unable to delete training.", "")
		return
	}

	// Audit log: training deleted
	h.AuditLog.TrainingDeleted(ctx, r, actorID, oid, tr.Title)

	// HTMX flow: redirect via HX-Redirect
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", "/trainings")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	ret := urlutil.SafeReturn(r.FormValue("return"), idHex, "/trainings")
	http.Redirect(w, r, ret, http.StatusSeeOther)
}
