// internal/app/features/properties/edit.go
package properties

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/staffhub/internal/app/features/errors"
	propertystore "github.com/dalemusser/staffhub/internal/app/store/properties"
	"github.com/dalemusser/staffhub/internal/app/system/authz"
	"github.com/dalemusser/staffhub/internal/app/system/inputval"
	"github.com/dalemusser/staffhub/internal/app/system/normalize"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"github.com/dalemusser/staffhub/internal/app/system/timezones"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.uber.org/zap"
)

func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	pid, ok := parsePropertyID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := propertystore.New(h.DB).GetByID(ctx, pid)
	if err != nil {
		uierrors.RenderNotFound(w, r, "Property not found.", "/properties")
		return
	}

	h.renderEditForm(w, r, propertyFormVM{
		ID:       p.ID.Hex(),
		Name:     p.Name,
		City:     p.City,
		State:    p.State,
		TimeZone: p.TimeZone,
		Status:   p.Status,
	}, "")
}

func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	pid, ok := parsePropertyID(w, r)
	if !ok {
		return
	}

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
		h.renderEditForm(w, r, propertyFormVM{
			ID:       pid.Hex(),
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
	if tz != "" && !timezones.Valid(tz) {
		reRender("Select a valid time zone.")
		return
	}
	if status != "active" && status != "disabled" {
		status = "active"
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	props := propertystore.New(h.DB)
	if _, err := props.GetByID(ctx, pid); err != nil {
		uierrors.RenderNotFound(w, r, "Property not found.", "/properties")
		return
	}

	if exists, err := props.NameExistsForOther(ctx, text.Fold(name), pid); err == nil && exists {
		reRender("A property with that name already exists.")
		return
	}

	if err := props.Update(ctx, pid, models.Property{
		Name:     name,
		City:     city,
		State:    state,
		TimeZone: tz,
		Status:   status,
	}); err != nil {
		msg := "Database error while updating property."
		if errors.Is(err, propertystore.ErrDuplicateProperty) {
			msg = "A property with that name already exists."
		} else {
			h.Log.Error("failed to update property", zap.Error(err))
		}
		reRender(msg)
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.AuditLog.PropertyUpdated(ctx, r, actorID, pid, "name,city,state,time_zone,status")

	http.Redirect(w, r, "/properties", http.StatusSeeOther)
}
