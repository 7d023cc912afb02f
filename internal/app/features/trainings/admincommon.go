// internal/app/features/trainings/admincommon.go
package trainings

import (
	"html/template"
	"net/http"

	"github.com/dalemusser/staffhub/internal/app/system/viewdata"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
)

// renderNewForm populates the common chrome for the New Training page and
// renders the new form. Callers pass in a partially-filled trainingFormVM
// (for example, to echo back user input on validation errors) and an
// optional error message.
func (h *AdminHandler) renderNewForm(w http.ResponseWriter, r *http.Request, vm trainingFormVM, errMsg string) {
	vm.BaseVM = viewdata.NewBaseVM(r, "New Training", "/trainings")

	vm.TypeOptions = trainingTypeOptions()

	// Default type and status on initial GET.
	if vm.Type == "" {
		vm.Type = models.DefaultTrainingType
	}
	if vm.Status == "" {
		vm.Status = "active"
	}

	if errMsg != "" {
		vm.Error = template.HTML(errMsg)
	}

	templates.Render(w, r, "training_new", vm)
}

// renderEditForm populates the common chrome for the Edit Training page and
// renders the edit form. Callers supply the current form VM plus an optional
// error message to display above the form.
func (h *AdminHandler) renderEditForm(w http.ResponseWriter, r *http.Request, vm trainingFormVM, errMsg string) {
	backURL := "/trainings"
	if vm.BackURL != "" {
		backURL = vm.BackURL
	}

	vm.BaseVM = viewdata.NewBaseVM(r, "Edit Training", backURL)

	// SubmitReturn is the post-edit redirect target; DeleteReturn is used
	// by the delete button. If either is empty, default them to the
	// trainings list so templates can rely on non-empty values.
	if vm.SubmitReturn == "" {
		vm.SubmitReturn = "/trainings"
	}
	if vm.DeleteReturn == "" {
		vm.DeleteReturn = "/trainings"
	}

	vm.TypeOptions = trainingTypeOptions()

	if errMsg != "" {
		vm.Error = template.HTML(errMsg)
	}

	templates.Render(w, r, "training_edit", vm)
}
