// internal/app/features/employees/import.go
package employees

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"strings"

	departmentstore "github.com/dalemusser/staffhub/internal/app/store/departments"
	userstore "github.com/dalemusser/staffhub/internal/app/store/users"
	"github.com/dalemusser/staffhub/internal/app/system/authutil"
	"github.com/dalemusser/staffhub/internal/app/system/authz"
	"github.com/dalemusser/staffhub/internal/app/system/csvutil"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"github.com/dalemusser/staffhub/internal/app/system/viewdata"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// importVM backs the roster CSV upload page, both the blank form and the
// post-import summary.
type importVM struct {
	viewdata.BaseVM
	Properties []pickOption
	PropertyID string
	Error      template.HTML

	Done    bool
	Created int
	Skipped []string // emails that already had accounts
}

func (h *Handler) renderImportForm(w http.ResponseWriter, r *http.Request, vm importVM) {
	vm.BaseVM = viewdata.NewBaseVM(r, "Import Employees", "/employees")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	vm.Properties = h.propertyOptions(ctx)

	templates.Render(w, r, "employee_import", vm)
}

// ServeImport handles GET /employees/import.
func (h *Handler) ServeImport(w http.ResponseWriter, r *http.Request) {
	h.renderImportForm(w, r, importVM{})
}

// HandleImport handles POST /employees/import: a roster CSV of
// "Full Name,Email[,Department]" rows, all placed at one property with a
// shared initial password. Rows whose email already has an account are
// skipped and reported; everything else is created as an active employee.
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, csvutil.MaxUploadSize)

	propertyHex := strings.TrimSpace(r.FormValue("property_id"))
	password := r.FormValue("password")

	reRender := func(errHTML template.HTML) {
		h.renderImportForm(w, r, importVM{PropertyID: propertyHex, Error: errHTML})
	}
	reRenderMsg := func(msg string) {
		reRender(template.HTML(template.HTMLEscapeString(msg)))
	}

	propertyID, err := primitive.ObjectIDFromHex(propertyHex)
	if err != nil {
		reRenderMsg("Select a property.")
		return
	}
	if len(password) < minPasswordLen {
		reRenderMsg("The initial password must be at least 8 characters.")
		return
	}

	file, _, err := r.FormFile("csv")
	if err != nil {
		msg := "A CSV file is required."
		if strings.Contains(err.Error(), "request body too large") {
			msg = "The CSV file is too large. The limit is 5 MB."
		}
		reRenderMsg(msg)
		return
	}
	defer file.Close()

	parsed, err := csvutil.ParseEmployeesCSV(file, csvutil.DefaultParseOptions())
	if err != nil {
		reRenderMsg("The CSV file could not be parsed: " + err.Error())
		return
	}
	if parsed.HasErrors() {
		reRender(csvutil.FormatParseErrors(parsed.Errors, 5))
		return
	}
	if len(parsed.Rows) == 0 {
		reRenderMsg("The CSV file contains no employee rows.")
		return
	}

	hash, err := authutil.HashPassword(password)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "hash password failed", err, "Unable to import employees.", "/employees")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	// Department column values are matched by folded name against the
	// active department list; unknown names leave the field unset.
	deptByName := map[string]primitive.ObjectID{}
	if depts, err := departmentstore.New(h.DB).ListActive(ctx); err == nil {
		for _, d := range depts {
			deptByName[d.NameCI] = d.ID
		}
	}

	_, _, actorID, _ := authz.UserCtx(r)
	users := userstore.New(h.DB)

	vm := importVM{PropertyID: propertyHex, Done: true}
	for _, row := range parsed.Rows {
		u := models.User{
			FullName:     row.FullName,
			Email:        row.Email,
			PasswordHash: hash,
			Role:         "employee",
			Status:       "active",
			PropertyID:   &propertyID,
		}
		if row.Department != "" {
			if did, ok := deptByName[text.Fold(row.Department)]; ok {
				u.DepartmentID = &did
			}
		}

		created, err := users.Create(ctx, u)
		switch {
		case errors.Is(err, userstore.ErrDuplicateEmail):
			vm.Skipped = append(vm.Skipped, row.Email)
			continue
		case err != nil:
			h.Log.Error("import employee failed",
				zap.String("email", row.Email),
				zap.Error(err))
			vm.Skipped = append(vm.Skipped, row.Email)
			continue
		}

		vm.Created++
		h.AuditLog.UserCreated(ctx, r, actorID, created.ID, created.PropertyID, created.Role)
		h.notifyAutoEnroll(ctx, created)
	}

	h.Log.Info("employee roster imported",
		zap.String("property_id", propertyID.Hex()),
		zap.Int("created", vm.Created),
		zap.Int("skipped", len(vm.Skipped)))

	h.renderImportForm(w, r, vm)
}
