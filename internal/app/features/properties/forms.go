// internal/app/features/properties/forms.go
package properties

import (
	"html/template"
	"net/http"

	uierrors "github.com/dalemusser/staffhub/internal/app/features/errors"
	"github.com/dalemusser/staffhub/internal/app/system/timezones"
	"github.com/dalemusser/staffhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// parsePropertyID extracts and validates the {id} URL parameter. On failure
// it renders the bad-request page and returns ok=false.
func parsePropertyID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderBadRequest(w, r, "Invalid property ID.", "/properties")
		return primitive.NilObjectID, false
	}
	return oid, true
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, name, title string, vm propertyFormVM, errMsg string) {
	vm.BaseVM = viewdata.NewBaseVM(r, title, "/properties")

	if vm.Status == "" {
		vm.Status = "active"
	}
	if groups, err := timezones.Groups(); err == nil {
		vm.TimezoneGroups = groups
	}
	if errMsg != "" {
		vm.Error = template.HTML(errMsg)
	}

	templates.Render(w, r, name, vm)
}

func (h *Handler) renderNewForm(w http.ResponseWriter, r *http.Request, vm propertyFormVM, errMsg string) {
	h.renderForm(w, r, "property_new", "New Property", vm, errMsg)
}

func (h *Handler) renderEditForm(w http.ResponseWriter, r *http.Request, vm propertyFormVM, errMsg string) {
	h.renderForm(w, r, "property_edit", "Edit Property", vm, errMsg)
}
