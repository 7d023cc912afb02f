// internal/app/features/properties/new.go
package properties

import (
	"context"
	"errors"
	"net/http"
	"strings"

	propertystore "github.com/dalemusser/staffhub/internal/app/store/properties"
	"github.com/dalemusser/staffhub/internal/app/system/authz"
	"github.com/dalemusser/staffhub/internal/app/system/inputval"
	"github.com/dalemusser/staffhub/internal/app/system/normalize"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"github.com/dalemusser/staffhub/internal/app/system/timezones"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"go.uber.org/zap"
)

// createPropertyInput defines validation rules for adding a property.
type createPropertyInput struct {
	Name  string `validate:"required,max=200" label:"Name"`
	City  string `validate:"max=100" label:"City"`
	State string `validate:"max=100" label:"State"`
}

func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	h.renderNewForm(w, r, propertyFormVM{}, "")
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/properties")
		return
	}

	name := normalize.Name(r.FormValue("name"))
	city := strings.TrimSpace(r.FormValue("city"))
	state := strings.TrimSpace(r.FormValue("state"))
	tz := strings.TrimSpace(r.FormValue("time_zone"))
	status := normalize.Status(r.FormValue("status"))

	reRender := func(msg string) {
		h.renderNewForm(w, r, propertyFormVM{
			Name:     name,
			City:     city,
			State:    state,
			TimeZone: tz,
			Status:   status,
		}, msg)
	}

	input := createPropertyInput{Name: name, City: city, State: state}
	if result := inputval.Validate(input); result.HasErrors() {
		reRender(result.First())
		return
	}
	if tz == "" || !timezones.Valid(tz) {
		reRender("Select a valid time zone.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := propertystore.New(h.DB).Create(ctx, models.Property{
		Name:     name,
		City:     city,
		State:    state,
		TimeZone: tz,
		Status:   status,
	})
	if err != nil {
		msg := "Database error while creating property."
		if errors.Is(err, propertystore.ErrDuplicateProperty) {
			msg = "A property with that name already exists."
		} else {
			h.Log.Error("failed to create property", zap.Error(err))
		}
		reRender(msg)
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.AuditLog.PropertyCreated(ctx, r, actorID, created.ID, created.Name)

	http.Redirect(w, r, "/properties", http.StatusSeeOther)
}
