// internal/app/features/properties/types.go
package properties

import (
	"html/template"

	"github.com/dalemusser/staffhub/internal/app/system/timezones"
	"github.com/dalemusser/staffhub/internal/app/system/viewdata"
)

type listItem struct {
	ID       string
	Name     string
	City     string
	State    string
	TimeZone string
	Status   string
	Staff    int64
}

type listData struct {
	viewdata.BaseVM
	Items []listItem
	Total int64
}

type propertyFormVM struct {
	viewdata.BaseVM
	ID       string
	Name     string
	City     string
	State    string
	TimeZone string
	Status   string

	TimezoneGroups []timezones.ZoneGroup
	Error          template.HTML
}
