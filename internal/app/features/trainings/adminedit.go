package trainings

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/staffhub/internal/app/features/errors"
	trainingstore "github.com/dalemusser/staffhub/internal/app/store/trainings"
	"github.com/dalemusser/staffhub/internal/app/system/authz"
	"github.com/dalemusser/staffhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/staffhub/internal/app/system/inputval"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// editTrainingInput defines validation rules for editing a training.
type editTrainingInput struct {
	Title     string `validate:"required,max=200" label:"Title"`
	Status    string `validate:"required,oneof=active disabled" label:"Status"`
	LaunchURL string `validate:"required,httpurl" label:"Launch URL"`
}

// ServeEdit renders the Edit Training form for admins.
func (h *AdminHandler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
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

	// Compute safe return targets for submit/delete actions
	deleteReturn := urlutil.SafeReturn(r.URL.Query().Get("return"), idHex, "/trainings")
	submitReturn := urlutil.SafeReturn(r.URL.Query().Get("return"), "", "/trainings")

	vm := trainingFormVM{
		ID:                  tr.ID.Hex(),
		TrainingTitle:       tr.Title,
		Subject:             tr.Subject,
		Description:         tr.Description,
		LaunchURL:           tr.LaunchURL,
		Type:                tr.Type,
		Status:              tr.Status,
		DefaultInstructions: tr.DefaultInstructions,
		DeleteReturn:        deleteReturn,
		SubmitReturn:        submitReturn,
	}

	h.renderEditForm(w, r, vm, "")
}

// HandleEdit processes the Edit Training form POST for admins.
func (h *AdminHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	_, uname, actorID, _ := authz.UserCtx(r)

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

	title := strings.TrimSpace(r.FormValue("title"))
	subject := strings.TrimSpace(r.FormValue("subject"))
	description := strings.TrimSpace(r.FormValue("description"))
	launchURL := strings.TrimSpace(r.FormValue("launch_url"))

	typeValue := strings.TrimSpace(r.FormValue("type"))
	if typeValue == "" {
		typeValue = models.DefaultTrainingType
	}

	status := strings.TrimSpace(r.FormValue("status"))
	if status == "" {
		status = "active"
	}

	// Sanitize HTML content from rich text editor
	defaultInstructions := htmlsanitize.Sanitize(strings.TrimSpace(r.FormValue("default_instructions")))

	// Delete-return should never redirect back to a URL containing this id.
	delReturn := urlutil.SafeReturn(r.FormValue("return"), tid.Hex(), "/trainings")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()
	db := h.DB

	trStore := trainingstore.New(db)
	if _, err := trStore.GetByID(ctx, tid); err != nil {
		uierrors.RenderNotFound(w, r, "Training not found.", "/trainings")
		return
	}

	// Helper to re-render the form with a message.
	reRender := func(msg string) {
		vm := trainingFormVM{
			ID:                  tid.Hex(),
			TrainingTitle:       title,
			Subject:             subject,
			Description:         description,
			LaunchURL:           launchURL,
			Type:                typeValue,
			Status:              status,
			DefaultInstructions: defaultInstructions,
			DeleteReturn:        delReturn,
			SubmitReturn:        urlutil.SafeReturn(r.FormValue("return"), "", "/trainings"),
		}
		h.renderEditForm(w, r, vm, msg)
	}

	// Validate required fields using struct tags
	input := editTrainingInput{Title: title, Status: status, LaunchURL: launchURL}
	if result := inputval.Validate(input); result.HasErrors() {
		reRender(result.First())
		return
	}

	if !models.IsValidTrainingType(typeValue) {
		reRender("Type is invalid.")
		return
	}

	upd := trainingstore.Update{
		Title:               title,
		Subject:             subject,
		Type:                typeValue,
		Status:              status,
		LaunchURL:           launchURL,
		Description:         description,
		DefaultInstructions: defaultInstructions,
		UpdatedByID:         &actorID,
		UpdatedByName:       uname,
	}

	if err := trStore.Update(ctx, tid, upd); err != nil {
		msg := "Database error while updating training."
		if errors.Is(err, trainingstore.ErrDuplicateTitle) {
			msg = "A training with that title already exists."
		} else {
			h.Log.Error("failed to update training", zap.Error(err))
		}
		reRender(msg)
		return
	}

	// Audit log: training updated
	h.AuditLog.TrainingUpdated(ctx, r, actorID, tid, "title,subject,type,status,launch_url,description,default_instructions")

	ret := urlutil.SafeReturn(r.FormValue("return"), tid.Hex(), "/trainings")
	http.Redirect(w, r, ret, http.StatusSeeOther)
}
