// internal/app/features/auditlog/types.go
package auditlog

import (
	"github.com/dalemusser/staffhub/internal/app/store/audit"
	"github.com/dalemusser/staffhub/internal/app/system/viewdata"
)

// listItem represents a single audit event row for display.
type listItem struct {
	ID           string
	Timestamp    string
	Category     string
	EventType    string
	ActorName    string // resolved from ActorID
	TargetName   string // resolved from UserID
	PropertyName string // resolved from PropertyID
	IP           string
	Success      bool
	Details      map[string]string
}

// listData is the view model for the audit log list page.
type listData struct {
	viewdata.BaseVM

	Items []listItem

	// Filters
	Category  string
	EventType string
	StartDate string
	EndDate   string

	// Filter options
	Categories []categoryOption
	EventTypes []string

	// Pagination
	Page       int
	TotalPages int
	Total      int64
	HasPrev    bool
	HasNext    bool
	PrevPage   int
	NextPage   int
}

// categoryOption represents a category for the filter dropdown.
type categoryOption struct {
	Value string
	Label string
}

// allCategories returns the available categories for filtering.
func allCategories() []categoryOption {
	return []categoryOption{
		{Value: audit.CategoryAuth, Label: "Authentication"},
		{Value: audit.CategoryAdmin, Label: "Administration"},
	}
}

// eventTypesForCategory returns the event types for a given category.
// If category is empty, returns all event types.
func eventTypesForCategory(category string) []string {
	authEvents := []string{
		audit.EventLoginSuccess,
		audit.EventLoginFailedUserNotFound,
		audit.EventLoginFailedWrongPassword,
		audit.EventLoginFailedUserDisabled,
		audit.EventLogout,
		audit.EventPasswordChanged,
	}

	adminEvents := []string{
		audit.EventUserCreated,
		audit.EventUserUpdated,
		audit.EventUserDisabled,
		audit.EventUserDeleted,
		audit.EventTrainingCreated,
		audit.EventTrainingUpdated,
		audit.EventTrainingDeleted,
		audit.EventTrainingAssigned,
		audit.EventTrainingUnassigned,
		audit.EventTrainingCompleted,
		audit.EventDocumentCreated,
		audit.EventDocumentUpdated,
		audit.EventDocumentDeleted,
		audit.EventDocumentSubmitted,
		audit.EventDocumentPublished,
		audit.EventDocumentRejected,
		audit.EventPropertyCreated,
		audit.EventPropertyUpdated,
		audit.EventPropertyDeleted,
		audit.EventDepartmentCreated,
		audit.EventDepartmentUpdated,
		audit.EventDepartmentDeleted,
	}

	switch category {
	case audit.CategoryAuth:
		return authEvents
	case audit.CategoryAdmin:
		return adminEvents
	case "":
		all := make([]string, 0, len(authEvents)+len(adminEvents))
		all = append(all, authEvents...)
		all = append(all, adminEvents...)
		return all
	default:
		return nil
	}
}
