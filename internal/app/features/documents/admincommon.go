// internal/app/features/documents/admincommon.go
package documents

import (
	"context"
	"html/template"
	"net/http"

	uierrors "github.com/dalemusser/staffhub/internal/app/features/errors"
	departmentstore "github.com/dalemusser/staffhub/internal/app/store/departments"
	propertystore "github.com/dalemusser/staffhub/internal/app/store/properties"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"github.com/dalemusser/staffhub/internal/app/system/viewdata"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// parseDocID extracts and validates the {id} URL parameter. On failure it
// renders the bad-request page and returns ok=false.
func parseDocID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderBadRequest(w, r, "Invalid document ID.", "/documents")
		return primitive.NilObjectID, false
	}
	return oid, true
}

// roleScopeOptions are the roles a role-scoped document can target.
func roleScopeOptions() []string {
	return []string{"admin", "reviewer", "employee"}
}

// loadScopeLists fills the property and department pick lists used by the
// visibility selector. Lookup failures leave the lists empty rather than
// failing the page.
func (h *Handler) loadScopeLists(ctx context.Context, vm *documentFormVM) {
	if props, err := propertystore.New(h.DB).ListActive(ctx); err == nil {
		for _, p := range props {
			vm.Properties = append(vm.Properties, pickOption{ID: p.ID.Hex(), Name: p.Name})
		}
	}
	if depts, err := departmentstore.New(h.DB).ListActive(ctx); err == nil {
		for _, d := range depts {
			vm.Departments = append(vm.Departments, pickOption{ID: d.ID.Hex(), Name: d.Name})
		}
	}
	vm.RoleOptions = roleScopeOptions()
}

// renderNewForm populates the common chrome for the New Document page and
// renders the new form, echoing any partially-filled form back to the user.
func (h *Handler) renderNewForm(w http.ResponseWriter, r *http.Request, vm documentFormVM, errMsg string) {
	vm.BaseVM = viewdata.NewBaseVM(r, "New Document", "/documents")

	if vm.Visibility == "" {
		vm.Visibility = string(models.VisibilityAllProperties)
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	h.loadScopeLists(ctx, &vm)
	vm.applyScopeFlags()

	if errMsg != "" {
		vm.Error = template.HTML(errMsg)
	}

	templates.Render(w, r, "document_new", vm)
}

// renderEditForm populates the common chrome for the Edit Document page and
// renders the edit form.
func (h *Handler) renderEditForm(w http.ResponseWriter, r *http.Request, vm documentFormVM, errMsg string) {
	backURL := "/documents"
	if vm.BackURL != "" {
		backURL = vm.BackURL
	}

	vm.BaseVM = viewdata.NewBaseVM(r, "Edit Document", backURL)

	if vm.SubmitReturn == "" {
		vm.SubmitReturn = "/documents"
	}
	if vm.DeleteReturn == "" {
		vm.DeleteReturn = "/documents"
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	h.loadScopeLists(ctx, &vm)
	vm.applyScopeFlags()

	if errMsg != "" {
		vm.Error = template.HTML(errMsg)
	}

	templates.Render(w, r, "document_edit", vm)
}
