package trainings

import (
	"context"
	"errors"
	"net/http"
	"strings"

	trainingstore "github.com/dalemusser/staffhub/internal/app/store/trainings"
	"github.com/dalemusser/staffhub/internal/app/system/authz"
	"github.com/dalemusser/staffhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/staffhub/internal/app/system/inputval"
	"github.com/dalemusser/staffhub/internal/app/system/navigation"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"go.uber.org/zap"
)

// createTrainingInput defines validation rules for creating a training.
type createTrainingInput struct {
	Title     string `validate:"required,max=200" label:"Title"`
	Status    string `validate:"required,oneof=active disabled" label:"Status"`
	LaunchURL string `validate:"required,httpurl" label:"Launch URL"`
}

func (h *AdminHandler) ServeNew(w http.ResponseWriter, r *http.Request) {
	vm := trainingFormVM{}
	h.renderNewForm(w, r, vm, "")
}

func (h *AdminHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/trainings")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	subject := strings.TrimSpace(r.FormValue("subject"))
	description := strings.TrimSpace(r.FormValue("description"))
	launchURL := strings.TrimSpace(r.FormValue("launch_url"))
	typeValue := strings.TrimSpace(r.FormValue("type"))
	status := strings.TrimSpace(r.FormValue("status"))
	// Sanitize HTML content from rich text editor
	defaultInstructions := htmlsanitize.Sanitize(strings.TrimSpace(r.FormValue("default_instructions")))

	if typeValue == "" {
		typeValue = models.DefaultTrainingType
	}
	if status == "" {
		status = "active"
	}

	// Helper to re-render the form with a message
	reRender := func(msg string) {
		vm := trainingFormVM{
			TrainingTitle:       title,
			Subject:             subject,
			Description:         description,
			LaunchURL:           launchURL,
			Type:                typeValue,
			Status:              status,
			DefaultInstructions: defaultInstructions,
		}
		h.renderNewForm(w, r, vm, msg)
	}

	// Validate required fields using struct tags
	input := createTrainingInput{Title: title, Status: status, LaunchURL: launchURL}
	if result := inputval.Validate(input); result.HasErrors() {
		reRender(result.First())
		return
	}

	if !models.IsValidTrainingType(typeValue) {
		reRender("Type is invalid.")
		return
	}

	_, uname, userID, ok := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()
	db := h.DB

	// Create training via store (handles ID, CI fields, timestamps)
	trStore := trainingstore.New(db)
	tr := models.Training{
		Title:               title,
		Subject:             subject,
		Description:         description,
		LaunchURL:           launchURL,
		Status:              status,
		Type:                typeValue,
		DefaultInstructions: defaultInstructions,
	}
	if ok {
		tr.CreatedByID = &userID
		tr.CreatedByName = uname
	}

	created, err := trStore.Create(ctx, tr)
	if err != nil {
		msg := "Database error while creating training."
		if errors.Is(err, trainingstore.ErrDuplicateTitle) {
			msg = "A training with that title already exists."
		} else {
			h.Log.Error("failed to create training", zap.Error(err))
		}
		reRender(msg)
		return
	}

	// Audit log: training created
	h.AuditLog.TrainingCreated(ctx, r, userID, created.ID, created.Title)

	ret := navigation.SafeBackURL(r, navigation.TrainingsBackURL)
	http.Redirect(w, r, ret, http.StatusSeeOther)
}
