// internal/app/features/mytrainings/list.go
package mytrainings

import (
	"context"
	"html/template"
	"net/http"
	"sort"
	"time"

	uierrors "github.com/dalemusser/staffhub/internal/app/features/errors"
	"github.com/dalemusser/staffhub/internal/app/policy/duestatus"
	completionstore "github.com/dalemusser/staffhub/internal/app/store/completions"
	trainingassignstore "github.com/dalemusser/staffhub/internal/app/store/trainingassign"
	trainingstore "github.com/dalemusser/staffhub/internal/app/store/trainings"
	"github.com/dalemusser/staffhub/internal/app/system/authz"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"github.com/dalemusser/staffhub/internal/app/system/viewdata"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// listItem is one assigned training in the employee list.
type listItem struct {
	AssignmentID string
	TrainingID   string
	Title        string
	Subject      string
	Type         string
	LaunchURL    string
	Instructions template.HTML
	Deadline     string
	Status       string // active | due_soon | overdue | completed
	Recurring    string
}

// listData is the view-model for the "My Trainings" page.
type listData struct {
	viewdata.BaseVM

	Items []listItem
}

// ServeList renders everything assigned to the current employee, with a
// due-status badge per assignment. Assignments pointing at disabled or
// deleted trainings are skipped.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderForbidden(w, r, "You must be logged in.", "/login")
		return
	}

	var deptID, propID *primitive.ObjectID
	if id := authz.UserDepartmentID(r); !id.IsZero() {
		deptID = &id
	}
	if id := authz.UserPropertyID(r); !id.IsZero() {
		propID = &id
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()
	db := h.DB

	assignStore := trainingassignstore.New(db)
	assignments, err := assignStore.ListForTargets(ctx, userID, deptID, propID)
	if err != nil {
		h.Log.Error("error fetching assignments", zap.Error(err))
		uierrors.RenderServerError(w, r, "Failed to load your trainings.", "/")
		return
	}

	completed, err := completionstore.New(db).CompletedAssignmentIDs(ctx, userID)
	if err != nil {
		h.Log.Error("error fetching completions", zap.Error(err))
		uierrors.RenderServerError(w, r, "Failed to load your trainings.", "/")
		return
	}

	// Batch-load the referenced trainings.
	trainingIDs := make([]primitive.ObjectID, 0, len(assignments))
	seen := make(map[primitive.ObjectID]struct{}, len(assignments))
	for i := range assignments {
		id := assignments[i].TrainingID
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		trainingIDs = append(trainingIDs, id)
	}
	trs, err := trainingstore.New(db).GetByIDs(ctx, trainingIDs)
	if err != nil {
		h.Log.Error("error fetching trainings", zap.Error(err))
		uierrors.RenderServerError(w, r, "Failed to load your trainings.", "/")
		return
	}
	byID := make(map[primitive.ObjectID]models.Training, len(trs))
	for _, tr := range trs {
		byID[tr.ID] = tr
	}

	now := time.Now().UTC()
	items := make([]listItem, 0, len(assignments))
	for i := range assignments {
		a := &assignments[i]
		tr, found := byID[a.TrainingID]
		if !found || tr.Status != "active" {
			continue
		}

		item := listItem{
			AssignmentID: a.ID.Hex(),
			TrainingID:   tr.ID.Hex(),
			Title:        tr.Title,
			Subject:      tr.Subject,
			Type:         tr.Type,
			LaunchURL:    tr.LaunchURL,
			Instructions: template.HTML(a.Instructions),
			Status:       string(duestatus.ForUser(a, completed[a.ID], now)),
			Recurring:    string(a.Recurring),
		}
		if a.Deadline != nil {
			item.Deadline = a.Deadline.Format("Jan 2, 2006")
		}
		items = append(items, item)
	}

	// Most urgent first: overdue, due soon, active, then completed.
	rank := map[string]int{
		string(duestatus.Overdue):   0,
		string(duestatus.DueSoon):   1,
		string(duestatus.Active):    2,
		string(duestatus.Completed): 3,
	}
	sort.SliceStable(items, func(i, j int) bool {
		return rank[items[i].Status] < rank[items[j].Status]
	})

	data := listData{
		BaseVM: viewdata.NewBaseVM(r, "My Trainings", "/"),
		Items:  items,
	}

	templates.Render(w, r, "mytrainings_list", data)
}
