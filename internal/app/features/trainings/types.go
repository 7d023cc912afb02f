// internal/app/features/trainings/types.go
package trainings

import (
	"html/template"

	"github.com/dalemusser/staffhub/internal/app/system/viewdata"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ========================= ADMIN VIEW MODELS ======================

// listItem is a summary row for display in the admin trainings list.
type listItem struct {
	ID          primitive.ObjectID
	Title       string
	TitleCI     string // case-insensitive title for cursor building
	Subject     string
	Type        string
	Status      string
	Description string
}

// listData provides template data for the admin trainings list.
type listData struct {
	viewdata.BaseVM

	Q     string
	Items []listItem

	// Pagination
	Shown      int
	Total      int64
	HasPrev    bool
	HasNext    bool
	PrevCursor string
	NextCursor string
	RangeStart int
	RangeEnd   int
	PrevStart  int
	NextStart  int
}

// TrainingTypeOption is used to populate the training type select menu.
type TrainingTypeOption struct {
	ID    string
	Label string
}

// trainingFormVM is the unified form view-model used by the New and Edit
// admin flows. New and Edit handlers populate this and then render the
// corresponding templates.
type trainingFormVM struct {
	viewdata.BaseVM

	ID            string
	TrainingTitle string
	Subject       string
	Description   string
	LaunchURL     string
	Type          string

	Status              string
	DefaultInstructions string

	// Navigation / redirects
	SubmitReturn string
	DeleteReturn string

	// Error message to show above the form
	Error template.HTML

	// Populated with models.TrainingTypes as ID + label
	TypeOptions []TrainingTypeOption
}

// assignmentRow is a single assignment on the admin training detail page.
type assignmentRow struct {
	ID          string
	TargetType  string
	TargetName  string
	Deadline    string
	Recurring   string
	AutoEnroll  bool
	Completions int64
	CreatedAt   string
}

// viewData is the view-only model for the admin training detail page.
type viewData struct {
	viewdata.BaseVM

	ID                  string
	TrainingTitle       string
	Subject             string
	Description         string
	LaunchURL           string
	Type                string
	Status              string
	DefaultInstructions template.HTML // sanitized HTML for safe rendering

	Assignments []assignmentRow
}

// ========================= ASSIGNMENT VIEW MODELS ======================

// pickOption is one selectable user/department/property in the assign form.
type pickOption struct {
	ID   string
	Name string
}

// assignFormVM is the view-model for the training assignment form.
type assignFormVM struct {
	viewdata.BaseVM

	TrainingID    string
	TrainingTitle string

	TargetType   string
	TargetIDs    []string
	Deadline     string
	Recurring    string
	AutoEnroll   bool
	Instructions string

	Employees   []pickOption
	Departments []pickOption
	Properties  []pickOption

	Error template.HTML
}
