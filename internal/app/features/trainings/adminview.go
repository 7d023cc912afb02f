package trainings

import (
	"context"
	"html/template"
	"net/http"

	uierrors "github.com/dalemusser/staffhub/internal/app/features/errors"
	completionstore "github.com/dalemusser/staffhub/internal/app/store/completions"
	departmentstore "github.com/dalemusser/staffhub/internal/app/store/departments"
	propertystore "github.com/dalemusser/staffhub/internal/app/store/properties"
	trainingassignstore "github.com/dalemusser/staffhub/internal/app/store/trainingassign"
	trainingstore "github.com/dalemusser/staffhub/internal/app/store/trainings"
	userstore "github.com/dalemusser/staffhub/internal/app/store/users"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"github.com/dalemusser/staffhub/internal/app/system/viewdata"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeView renders the View Training page for admins, including the
// assignments that currently point at it and their completion counts.
func (h *AdminHandler) ServeView(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()
	db := h.DB

	idHex := chi.URLParam(r, "id")
	oid, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		uierrors.RenderBadRequest(w, r, "Invalid training ID.", "/trainings")
		return
	}

	trStore := trainingstore.New(db)
	tr, err := trStore.GetByID(ctx, oid)
	if err != nil {
		uierrors.RenderNotFound(w, r, "Training not found.", "/trainings")
		return
	}

	assignStore := trainingassignstore.New(db)
	assignments, err := assignStore.ListByTraining(ctx, oid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list assignments failed", err, "A database error occurred.", "/trainings")
		return
	}

	targetNames := h.targetNames(ctx, assignments)
	compStore := completionstore.New(db)

	rows := make([]assignmentRow, 0, len(assignments))
	for i := range assignments {
		a := &assignments[i]
		count, _ := compStore.CountByAssignment(ctx, a.ID)

		deadline := ""
		if a.Deadline != nil {
			deadline = a.Deadline.Format("Jan 2, 2006")
		}

		rows = append(rows, assignmentRow{
			ID:          a.ID.Hex(),
			TargetType:  string(a.TargetType),
			TargetName:  targetNames[a.ID],
			Deadline:    deadline,
			Recurring:   string(a.Recurring),
			AutoEnroll:  a.AutoEnroll,
			Completions: count,
			CreatedAt:   a.CreatedAt.Format("Jan 2, 2006"),
		})
	}

	data := viewData{
		BaseVM:              viewdata.NewBaseVM(r, "View Training", "/trainings"),
		ID:                  tr.ID.Hex(),
		TrainingTitle:       tr.Title,
		Subject:             tr.Subject,
		Description:         tr.Description,
		LaunchURL:           tr.LaunchURL,
		Type:                tr.Type,
		Status:              tr.Status,
		DefaultInstructions: template.HTML(tr.DefaultInstructions),
		Assignments:         rows,
	}

	templates.Render(w, r, "training_view", data)
}

// targetNames resolves a display name per assignment, batch-loading the
// departments, properties, and users the assignments point at. Lookups are
// best effort; an unresolvable target falls back to its id.
func (h *AdminHandler) targetNames(ctx context.Context, assignments []models.TrainingAssignment) map[primitive.ObjectID]string {
	var deptIDs, propIDs, userIDs []primitive.ObjectID
	for i := range assignments {
		a := &assignments[i]
		if a.TargetID == nil {
			continue
		}
		switch a.TargetType {
		case models.TargetDepartments:
			deptIDs = append(deptIDs, *a.TargetID)
		case models.TargetProperties:
			propIDs = append(propIDs, *a.TargetID)
		case models.TargetUsers:
			userIDs = append(userIDs, *a.TargetID)
		}
	}

	names := make(map[primitive.ObjectID]string)
	if depts, err := departmentstore.New(h.DB).GetByIDs(ctx, deptIDs); err == nil {
		for _, d := range depts {
			names[d.ID] = d.Name
		}
	}
	if props, err := propertystore.New(h.DB).GetByIDs(ctx, propIDs); err == nil {
		for _, p := range props {
			names[p.ID] = p.Name
		}
	}
	usrStore := userstore.New(h.DB)
	for _, uid := range userIDs {
		if u, err := usrStore.GetByID(ctx, uid); err == nil {
			names[uid] = u.FullName
		}
	}

	out := make(map[primitive.ObjectID]string, len(assignments))
	for i := range assignments {
		a := &assignments[i]
		switch {
		case a.IsEveryone():
			out[a.ID] = "Everyone"
		case a.TargetID == nil:
			out[a.ID] = ""
		default:
			if n, ok := names[*a.TargetID]; ok {
				out[a.ID] = n
			} else {
				out[a.ID] = a.TargetID.Hex()
			}
		}
	}
	return out
}
