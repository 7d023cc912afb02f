// internal/app/features/auditlog/list.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/staffhub/internal/app/store/audit"
	propertystore "github.com/dalemusser/staffhub/internal/app/store/properties"
	userstore "github.com/dalemusser/staffhub/internal/app/store/users"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"github.com/dalemusser/staffhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const pageSize = 50

// ServeList displays the audit log with category, event type, and date
// range filters.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	category := strings.TrimSpace(r.URL.Query().Get("category"))
	eventType := strings.TrimSpace(r.URL.Query().Get("event_type"))
	startDate := strings.TrimSpace(r.URL.Query().Get("start_date"))
	endDate := strings.TrimSpace(r.URL.Query().Get("end_date"))

	page := 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}

	filter := audit.QueryFilter{
		Category:  category,
		EventType: eventType,
		Limit:     pageSize,
		Offset:    int64((page - 1) * pageSize),
	}
	if startDate != "" {
		if t, err := time.Parse("2006-01-02", startDate); err == nil {
			filter.StartTime = &t
		}
	}
	if endDate != "" {
		if t, err := time.Parse("2006-01-02", endDate); err == nil {
			endOfDay := t.Add(24*time.Hour - time.Second)
			filter.EndTime = &endOfDay
		}
	}

	auditStore := audit.New(h.DB)
	events, err := auditStore.Query(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "query audit events failed", err, "A database error occurred.", "/")
		return
	}
	total, err := auditStore.Count(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count audit events failed", err, "A database error occurred.", "/")
		return
	}

	items := h.resolveItems(ctx, events)

	totalPages := int((total + pageSize - 1) / pageSize)
	if totalPages < 1 {
		totalPages = 1
	}

	data := listData{
		BaseVM:     viewdata.NewBaseVM(r, "Audit Log", "/"),
		Items:      items,
		Category:   category,
		EventType:  eventType,
		StartDate:  startDate,
		EndDate:    endDate,
		Categories: allCategories(),
		EventTypes: eventTypesForCategory(category),
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
		PrevPage:   page - 1,
		NextPage:   page + 1,
	}

	templates.Render(w, r, "audit_list", data)
}

// resolveItems turns raw events into display rows, batch-resolving actor,
// target, and property names. Resolution failures fall back to hex IDs.
func (h *Handler) resolveItems(ctx context.Context, events []audit.Event) []listItem {
	userIDs := map[primitive.ObjectID]struct{}{}
	propIDs := map[primitive.ObjectID]struct{}{}
	for _, e := range events {
		if e.ActorID != nil {
			userIDs[*e.ActorID] = struct{}{}
		}
		if e.UserID != nil {
			userIDs[*e.UserID] = struct{}{}
		}
		if e.PropertyID != nil {
			propIDs[*e.PropertyID] = struct{}{}
		}
	}

	userNames := map[primitive.ObjectID]string{}
	if len(userIDs) > 0 {
		ids := make([]primitive.ObjectID, 0, len(userIDs))
		for id := range userIDs {
			ids = append(ids, id)
		}
		if users, err := userstore.New(h.DB).GetByIDs(ctx, ids); err != nil {
			h.Log.Warn("resolve audit user names failed", zap.Error(err))
		} else {
			for _, u := range users {
				userNames[u.ID] = u.FullName
			}
		}
	}

	propNames := map[primitive.ObjectID]string{}
	if len(propIDs) > 0 {
		ids := make([]primitive.ObjectID, 0, len(propIDs))
		for id := range propIDs {
			ids = append(ids, id)
		}
		if props, err := propertystore.New(h.DB).GetByIDs(ctx, ids); err != nil {
			h.Log.Warn("resolve audit property names failed", zap.Error(err))
		} else {
			for _, p := range props {
				propNames[p.ID] = p.Name
			}
		}
	}

	nameOr := func(m map[primitive.ObjectID]string, id *primitive.ObjectID) string {
		if id == nil {
			return ""
		}
		if n, ok := m[*id]; ok {
			return n
		}
		return id.Hex()
	}

	items := make([]listItem, 0, len(events))
	for _, e := range events {
		items = append(items, listItem{
			ID:           e.ID.Hex(),
			Timestamp:    e.Timestamp.Format("Jan 2, 2006 3:04:05 PM"),
			Category:     e.Category,
			EventType:    e.EventType,
			ActorName:    nameOr(userNames, e.ActorID),
			TargetName:   nameOr(userNames, e.UserID),
			PropertyName: nameOr(propNames, e.PropertyID),
			IP:           e.IP,
			Success:      e.Success,
			Details:      e.Details,
		})
	}
	return items
}
