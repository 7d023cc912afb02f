// internal/app/features/employees/autoenroll.go
package employees

import (
	"context"

	trainingassignstore "github.com/dalemusser/staffhub/internal/app/store/trainingassign"
	trainingstore "github.com/dalemusser/staffhub/internal/app/store/trainings"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const deadlineLayout = "2006-01-02"

// notifyAutoEnroll dispatches a training-assigned notification to a newly
// created employee for every auto-enroll assignment covering them:
// chain-wide rows plus rows targeting the employee's property or
// department. Dispatch failures are logged, never surfaced to the admin.
func (h *Handler) notifyAutoEnroll(ctx context.Context, u models.User) {
	rows, err := trainingassignstore.New(h.DB).ListAutoEnrollFor(ctx, u.PropertyID, u.DepartmentID)
	if err != nil {
		h.Log.Error("auto-enroll lookup failed",
			zap.String("user_id", u.ID.Hex()),
			zap.Error(err))
		return
	}
	if len(rows) == 0 {
		return
	}

	// One notification per training; multiple rows for the same training
	// (for example property and department) collapse to one.
	trainings := trainingstore.New(h.DB)
	seen := map[primitive.ObjectID]bool{}
	recipient := []primitive.ObjectID{u.ID}
	for _, a := range rows {
		if seen[a.TrainingID] {
			continue
		}
		seen[a.TrainingID] = true

		tr, err := trainings.GetByID(ctx, a.TrainingID)
		if err != nil {
			h.Log.Error("auto-enroll training lookup failed",
				zap.String("training_id", a.TrainingID.Hex()),
				zap.Error(err))
			continue
		}

		data := map[string]string{"training_id": a.TrainingID.Hex()}
		if a.Deadline != nil {
			data["deadline"] = a.Deadline.Format(deadlineLayout)
		}
		if err := h.Dispatcher.Dispatch(ctx, recipient, models.NotificationTrainingAssigned,
			"New training assigned: "+tr.Title, tr.Description, data); err != nil {
			h.Log.Error("auto-enroll notification dispatch failed",
				zap.String("training_id", a.TrainingID.Hex()),
				zap.String("user_id", u.ID.Hex()),
				zap.Error(err))
		}
	}
}
