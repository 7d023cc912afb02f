// internal/app/features/employees/types.go
package employees

import (
	"html/template"

	"github.com/dalemusser/staffhub/internal/app/system/viewdata"
)

type listItem struct {
	ID       string
	FullName string
	Email    string
	Property string
	Status   string
}

type listData struct {
	viewdata.BaseVM
	Q          string
	Status     string
	PropertyID string
	Properties []pickOption
	Items      []listItem
	Total      int64
}

type pickOption struct {
	ID   string
	Name string
}

// employeeFormVM backs both the new and edit forms. Password is never
// echoed back; on validation failure the admin re-enters it.
type employeeFormVM struct {
	viewdata.BaseVM
	ID           string
	FullName     string
	Email        string
	Status       string
	PropertyID   string
	DepartmentID string

	Properties  []pickOption
	Departments []pickOption

	DeleteReturn string
	Error        template.HTML
}

type viewData struct {
	viewdata.BaseVM
	ID         string
	FullName   string
	Email      string
	Status     string
	Property   string
	Department string
	CreatedAt  string
	UpdatedAt  string

	AssignedCount int
}
