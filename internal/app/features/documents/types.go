// internal/app/features/documents/types.go
package documents

import (
	"html/template"

	"github.com/dalemusser/staffhub/internal/app/system/viewdata"
)

type listItem struct {
	ID        string
	Title     string
	Summary   string
	Category  string
	Status    string
	UpdatedAt string
}

type listData struct {
	viewdata.BaseVM
	Q        string
	Status   string
	Category string
	Items    []listItem
	Total    int64
}

type pickOption struct {
	ID   string
	Name string
}

// documentFormVM backs both the new and edit forms. The scope warning
// fields mirror docpolicy.Flags so the template can surface them inline.
type documentFormVM struct {
	viewdata.BaseVM
	ID           string
	DocTitle     string
	Summary      string
	Content      string
	Category     string
	Visibility   string
	PropertyID   string
	DepartmentID string
	RoleScope    string

	Properties  []pickOption
	Departments []pickOption
	RoleOptions []string

	Status       string
	SubmitReturn string
	DeleteReturn string
	Error        template.HTML

	PropertyIrrelevant bool
}

type viewData struct {
	viewdata.BaseVM
	ID             string
	DocTitle       string
	Summary        string
	Content        template.HTML
	Category       string
	Status         string
	Visibility     string
	ScopeName      string
	ReviewNote     string
	SubmittedAt    string
	ReviewedAt     string
	ReviewedByName string
	CreatedByName  string
	UpdatedAt      string

	CanReview   bool
	CanSubmit   bool
	CanWithdraw bool
	CanDecide   bool
}

type reviewItem struct {
	ID            string
	Title         string
	Category      string
	SubmittedAt   string
	CreatedByName string
}

type reviewData struct {
	viewdata.BaseVM
	Items []reviewItem
}

// ========================= EMPLOYEE VIEW MODELS ======================

type myListItem struct {
	ID       string
	Title    string
	Summary  string
	Category string
}

type myListData struct {
	viewdata.BaseVM
	Items []myListItem
}

type myViewData struct {
	viewdata.BaseVM
	DocTitle string
	Summary  string
	Content  template.HTML
	Category string
}
