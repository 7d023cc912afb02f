// internal/app/features/trainings/adminassign.go
package trainings

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	uierrors "github.com/dalemusser/staffhub/internal/app/features/errors"
	"github.com/dalemusser/staffhub/internal/app/policy/targetpolicy"
	completionstore "github.com/dalemusser/staffhub/internal/app/store/completions"
	departmentstore "github.com/dalemusser/staffhub/internal/app/store/departments"
	propertystore "github.com/dalemusser/staffhub/internal/app/store/properties"
	trainingassignstore "github.com/dalemusser/staffhub/internal/app/store/trainingassign"
	trainingstore "github.com/dalemusser/staffhub/internal/app/store/trainings"
	userstore "github.com/dalemusser/staffhub/internal/app/store/users"
	"github.com/dalemusser/staffhub/internal/app/system/authz"
	"github.com/dalemusser/staffhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"github.com/dalemusser/staffhub/internal/app/system/txn"
	"github.com/dalemusser/staffhub/internal/app/system/viewdata"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// deadlineLayout is the wire format of the assignment deadline date input.
const deadlineLayout = "2006-01-02"

// ServeAssign renders the assignment form for a training: audience mode,
// target pick lists, deadline, recurrence, and per-assignment instructions.
func (h *AdminHandler) ServeAssign(w http.ResponseWriter, r *http.Request) {
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

	vm := assignFormVM{
		TrainingID:    tr.ID.Hex(),
		TrainingTitle: tr.Title,
		TargetType:    string(models.TargetAll),
		Recurring:     string(models.RecurringNone),
		Instructions:  tr.DefaultInstructions,
	}
	h.renderAssignForm(w, r, vm, "")
}

// HandleAssign validates the audience specification, persists one assignment
// row per target, and notifies the resolved recipients. Notification failures
// are logged but never roll back rows that already committed.
func (h *AdminHandler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	_, uname, actorID, actorOK := authz.UserCtx(r)

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/trainings")
		return
	}

	idHex := chi.URLParam(r, "id")
	tid, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		uierrors.RenderBadRequest(w, r, "Invalid training ID.", "/trainings")
		return
	}

	targetType := models.TargetType(strings.TrimSpace(r.FormValue("target_type")))
	rawIDs := r.Form["target_ids"]
	deadlineStr := strings.TrimSpace(r.FormValue("deadline"))
	recurring := models.RecurringType(strings.TrimSpace(r.FormValue("recurring")))
	autoEnroll := r.FormValue("auto_enroll") != ""
	instructions := htmlsanitize.Sanitize(strings.TrimSpace(r.FormValue("instructions")))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()
	db := h.DB

	trStore := trainingstore.New(db)
	tr, err := trStore.GetByID(ctx, tid)
	if err != nil {
		uierrors.RenderNotFound(w, r, "Training not found.", "/trainings")
		return
	}

	// Helper to re-render the form with a message, echoing user input.
	reRender := func(msg string) {
		vm := assignFormVM{
			TrainingID:    tid.Hex(),
			TrainingTitle: tr.Title,
			TargetType:    string(targetType),
			TargetIDs:     rawIDs,
			Deadline:      deadlineStr,
			Recurring:     string(recurring),
			AutoEnroll:    autoEnroll,
			Instructions:  instructions,
		}
		h.renderAssignForm(w, r, vm, msg)
	}

	// Parse selected target ids. Ids only matter for non-"all" modes.
	ids := make([]primitive.ObjectID, 0, len(rawIDs))
	for _, raw := range rawIDs {
		oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
		if err != nil {
			reRender("One of the selected targets is invalid.")
			return
		}
		ids = append(ids, oid)
	}

	target := models.Target{Type: targetType, IDs: ids}
	if err := targetpolicy.Validate(target); err != nil {
		switch {
		case errors.Is(err, targetpolicy.ErrEmptyTarget):
			reRender("Select at least one target, or assign to everyone.")
		default:
			reRender("Target type is invalid.")
		}
		return
	}

	var deadline *time.Time
	if deadlineStr != "" {
		d, err := time.ParseInLocation(deadlineLayout, deadlineStr, time.UTC)
		if err != nil {
			reRender("Deadline must be a valid date (YYYY-MM-DD).")
			return
		}
		deadline = &d
	}

	if recurring == "" {
		recurring = models.RecurringNone
	}
	if !models.IsValidRecurringType(recurring) {
		reRender("Recurrence is invalid.")
		return
	}

	// Per-assignment instructions default to the training's.
	if instructions == "" {
		instructions = tr.DefaultInstructions
	}

	// Resolve the concrete recipient set before writing anything, so an
	// unknown directory failure surfaces as a form error, not half a batch.
	usrStore := userstore.New(db)
	recipients, err := targetpolicy.Resolve(ctx, usrStore, target)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "resolve assignment targets failed", err, "A database error occurred.", "/trainings")
		return
	}

	assignStore := trainingassignstore.New(db)
	var created []models.TrainingAssignment

	// One row per target id ("all" collapses to a single nil-target row),
	// written atomically.
	if err := txn.Run(ctx, db, h.Log, func(ctx context.Context) error {
		created = created[:0]
		for _, targetID := range targetpolicy.Rows(target) {
			a := models.TrainingAssignment{
				TrainingID:   tid,
				TargetType:   target.Type,
				TargetID:     targetID,
				Deadline:     deadline,
				Recurring:    recurring,
				AutoEnroll:   autoEnroll,
				Instructions: instructions,
			}
			if actorOK {
				a.CreatedByID = &actorID
				a.CreatedByName = uname
			}
			row, err := assignStore.Create(ctx, a)
			if err != nil {
				return err
			}
			created = append(created, row)
		}
		return nil
	}); err != nil {
		h.ErrLog.LogServerError(w, r, "create assignments failed", err, "Unable to assign training.", "/trainings")
		return
	}

	// Notify resolved recipients. The assignment rows are already committed;
	// a notification failure is logged and the admin flow continues.
	data := map[string]string{"training_id": tid.Hex()}
	if deadline != nil {
		data["deadline"] = deadline.Format(deadlineLayout)
	}
	if err := h.Dispatcher.Dispatch(ctx, recipients, models.NotificationTrainingAssigned,
		"New training assigned: "+tr.Title, tr.Description, data); err != nil {
		h.Log.Error("assignment notification dispatch failed",
			zap.String("training_id", tid.Hex()),
			zap.Int("recipients", len(recipients)),
			zap.Error(err))
	}

	// Audit log: training assigned
	if len(created) > 0 {
		h.AuditLog.TrainingAssigned(ctx, r, actorID, created[0].ID, tid, string(target.Type), len(recipients))
	}

	http.Redirect(w, r, "/trainings/"+tid.Hex()+"/view", http.StatusSeeOther)
}

// HandleUnassign removes a single assignment row and its completion records.
func (h *AdminHandler) HandleUnassign(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, _ := authz.UserCtx(r)

	assignHex := chi.URLParam(r, "assignID")
	aid, err := primitive.ObjectIDFromHex(assignHex)
	if err != nil {
		uierrors.RenderBadRequest(w, r, "Invalid assignment ID.", "/trainings")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()
	db := h.DB

	assignStore := trainingassignstore.New(db)
	compStore := completionstore.New(db)

	a, err := assignStore.GetByID(ctx, aid)
	if err != nil {
		uierrors.RenderNotFound(w, r, "Assignment not found.", "/trainings")
		return
	}

	if err := txn.Run(ctx, db, h.Log, func(ctx context.Context) error {
		if _, err := compStore.DeleteByAssignment(ctx, aid); err != nil {
			return err
		}
		return assignStore.Delete(ctx, aid)
	}); err != nil {
		h.ErrLog.LogServerError(w, r, "delete assignment failed", err, "Unable to remove assignment.", "")
		return
	}

	// Audit log: training unassigned
	h.AuditLog.TrainingUnassigned(ctx, r, actorID, aid, a.TrainingID)

	viewURL := "/trainings/" + a.TrainingID.Hex() + "/view"
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", viewURL)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	ret := urlutil.SafeReturn(r.FormValue("return"), assignHex, viewURL)
	http.Redirect(w, r, ret, http.StatusSeeOther)
}

// renderAssignForm loads the pick lists and renders the assignment form.
func (h *AdminHandler) renderAssignForm(w http.ResponseWriter, r *http.Request, vm assignFormVM, errMsg string) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()
	db := h.DB

	if users, err := userstore.New(db).List(ctx, userstore.ListFilter{Role: "employee", Status: "active"}); err == nil {
		vm.Employees = make([]pickOption, 0, len(users))
		for _, u := range users {
			vm.Employees = append(vm.Employees, pickOption{ID: u.ID.Hex(), Name: u.FullName})
		}
	}
	if depts, err := departmentstore.New(db).ListActive(ctx); err == nil {
		vm.Departments = make([]pickOption, 0, len(depts))
		for _, d := range depts {
			vm.Departments = append(vm.Departments, pickOption{ID: d.ID.Hex(), Name: d.Name})
		}
	}
	if props, err := propertystore.New(db).ListActive(ctx); err == nil {
		vm.Properties = make([]pickOption, 0, len(props))
		for _, p := range props {
			vm.Properties = append(vm.Properties, pickOption{ID: p.ID.Hex(), Name: p.Name})
		}
	}

	vm.BaseVM = viewdata.NewBaseVM(r, "Assign Training", "/trainings/"+vm.TrainingID+"/view")
	if errMsg != "" {
		vm.Error = template.HTML(errMsg)
	}

	templates.Render(w, r, "training_assign", vm)
}
