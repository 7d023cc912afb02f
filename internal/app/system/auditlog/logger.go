// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/staffhub/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for authentication events (login, logout, password).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Auth string
	// Admin controls logging for admin action events (user/training/document CRUD).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Admin string
}

// Logger provides convenience methods for recording audit events. Events go
// to MongoDB (via audit.Store) and/or structured logs (via zap) depending on
// per-category config.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// NewNopLogger returns a Logger that records nothing. All methods are safe on
// the nil receiver, so tests can use this without wiring a store.
func NewNopLogger() *Logger {
	return nil
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}

	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.PropertyID != nil {
		fields = append(fields, zap.String("property_id", event.PropertyID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration. A nil Logger is a no-op
// so tests can pass nil.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	default:
		setting = "all"
	}

	if setting == "off" {
		return
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}

	if setting == "all" || setting == "db" {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Authentication events ---

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, propertyID *primitive.ObjectID, email string) {
	l.Log(ctx, audit.Event{
		Category:   audit.CategoryAuth,
		EventType:  audit.EventLoginSuccess,
		UserID:     &userID,
		PropertyID: propertyID,
		IP:         getClientIP(r),
		UserAgent:  r.UserAgent(),
		Success:    true,
		Details:    map[string]string{"email": email},
	})
}

// LoginFailedUserNotFound logs a login attempt for an unknown email.
func (l *Logger) LoginFailedUserNotFound(ctx context.Context, r *http.Request, attemptedEmail string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedUserNotFound,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "user not found",
		Details:       map[string]string{"attempted_email": attemptedEmail},
	})
}

// LoginFailedWrongPassword logs a login attempt with a bad password.
func (l *Logger) LoginFailedWrongPassword(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedWrongPassword,
		UserID:        &userID,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "wrong password",
		Details:       map[string]string{"email": email},
	})
}

// LoginFailedUserDisabled logs a login attempt on a disabled account.
func (l *Logger) LoginFailedUserDisabled(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedUserDisabled,
		UserID:        &userID,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "user disabled",
		Details:       map[string]string{"email": email},
	})
}

// Logout logs a sign-out.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userIDStr string) {
	var userID *primitive.ObjectID
	if oid, err := primitive.ObjectIDFromHex(userIDStr); err == nil {
		userID = &oid
	}
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLogout,
		UserID:    userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	})
}

// --- Training events ---

// TrainingCreated logs creation of a training.
func (l *Logger) TrainingCreated(ctx context.Context, r *http.Request, actorID, trainingID primitive.ObjectID, title string) {
	l.adminEvent(ctx, r, audit.EventTrainingCreated, actorID, map[string]string{
		"training_id": trainingID.Hex(),
		"title":       title,
	})
}

// TrainingUpdated logs an edit to a training.
func (l *Logger) TrainingUpdated(ctx context.Context, r *http.Request, actorID, trainingID primitive.ObjectID, fieldsChanged string) {
	l.adminEvent(ctx, r, audit.EventTrainingUpdated, actorID, map[string]string{
		"training_id":    trainingID.Hex(),
		"fields_changed": fieldsChanged,
	})
}

// TrainingDeleted logs deletion of a training.
func (l *Logger) TrainingDeleted(ctx context.Context, r *http.Request, actorID, trainingID primitive.ObjectID, title string) {
	l.adminEvent(ctx, r, audit.EventTrainingDeleted, actorID, map[string]string{
		"training_id": trainingID.Hex(),
		"title":       title,
	})
}

// TrainingAssigned logs creation of a training assignment, including the
// audience it targets and how many users resolved from it.
func (l *Logger) TrainingAssigned(ctx context.Context, r *http.Request, actorID, assignmentID, trainingID primitive.ObjectID, targetType string, recipients int) {
	l.adminEvent(ctx, r, audit.EventTrainingAssigned, actorID, map[string]string{
		"assignment_id": assignmentID.Hex(),
		"training_id":   trainingID.Hex(),
		"target_type":   targetType,
		"recipients":    strconv.Itoa(recipients),
	})
}

// TrainingUnassigned logs removal of a training assignment.
func (l *Logger) TrainingUnassigned(ctx context.Context, r *http.Request, actorID, assignmentID, trainingID primitive.ObjectID) {
	l.adminEvent(ctx, r, audit.EventTrainingUnassigned, actorID, map[string]string{
		"assignment_id": assignmentID.Hex(),
		"training_id":   trainingID.Hex(),
	})
}

// TrainingCompleted logs an employee completing an assigned training.
func (l *Logger) TrainingCompleted(ctx context.Context, r *http.Request, userID, assignmentID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventTrainingCompleted,
		UserID:    &userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   map[string]string{"assignment_id": assignmentID.Hex()},
	})
}

// --- Document events ---

// DocumentCreated logs creation of a document.
func (l *Logger) DocumentCreated(ctx context.Context, r *http.Request, actorID, docID primitive.ObjectID, title string) {
	l.adminEvent(ctx, r, audit.EventDocumentCreated, actorID, map[string]string{
		"document_id": docID.Hex(),
		"title":       title,
	})
}

// DocumentUpdated logs an edit to a document.
func (l *Logger) DocumentUpdated(ctx context.Context, r *http.Request, actorID, docID primitive.ObjectID, fieldsChanged string) {
	l.adminEvent(ctx, r, audit.EventDocumentUpdated, actorID, map[string]string{
		"document_id":    docID.Hex(),
		"fields_changed": fieldsChanged,
	})
}

// DocumentDeleted logs deletion of a document.
func (l *Logger) DocumentDeleted(ctx context.Context, r *http.Request, actorID, docID primitive.ObjectID, title string) {
	l.adminEvent(ctx, r, audit.EventDocumentDeleted, actorID, map[string]string{
		"document_id": docID.Hex(),
		"title":       title,
	})
}

// DocumentSubmitted logs a document entering review.
func (l *Logger) DocumentSubmitted(ctx context.Context, r *http.Request, actorID, docID primitive.ObjectID) {
	l.adminEvent(ctx, r, audit.EventDocumentSubmitted, actorID, map[string]string{
		"document_id": docID.Hex(),
	})
}

// DocumentPublished logs a reviewer approving a document.
func (l *Logger) DocumentPublished(ctx context.Context, r *http.Request, actorID, docID primitive.ObjectID) {
	l.adminEvent(ctx, r, audit.EventDocumentPublished, actorID, map[string]string{
		"document_id": docID.Hex(),
	})
}

// DocumentRejected logs a reviewer rejecting a document.
func (l *Logger) DocumentRejected(ctx context.Context, r *http.Request, actorID, docID primitive.ObjectID, note string) {
	l.adminEvent(ctx, r, audit.EventDocumentRejected, actorID, map[string]string{
		"document_id": docID.Hex(),
		"note":        note,
	})
}

// --- User / property / department events ---

// UserCreated logs creation of a user account.
func (l *Logger) UserCreated(ctx context.Context, r *http.Request, actorID, targetUserID primitive.ObjectID, propertyID *primitive.ObjectID, role string) {
	l.Log(ctx, audit.Event{
		Category:   audit.CategoryAdmin,
		EventType:  audit.EventUserCreated,
		ActorID:    &actorID,
		UserID:     &targetUserID,
		PropertyID: propertyID,
		IP:         getClientIP(r),
		UserAgent:  r.UserAgent(),
		Success:    true,
		Details:    map[string]string{"role": role},
	})
}

// UserUpdated logs an edit to a user account.
func (l *Logger) UserUpdated(ctx context.Context, r *http.Request, actorID, targetUserID primitive.ObjectID, fieldsChanged string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventUserUpdated,
		ActorID:   &actorID,
		UserID:    &targetUserID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   map[string]string{"fields_changed": fieldsChanged},
	})
}

// UserDeleted logs removal of a user account.
func (l *Logger) UserDeleted(ctx context.Context, r *http.Request, actorID, targetUserID primitive.ObjectID, email string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventUserDeleted,
		ActorID:   &actorID,
		UserID:    &targetUserID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   map[string]string{"email": email},
	})
}

// PropertyCreated logs creation of a property.
func (l *Logger) PropertyCreated(ctx context.Context, r *http.Request, actorID, propertyID primitive.ObjectID, name string) {
	l.adminEvent(ctx, r, audit.EventPropertyCreated, actorID, map[string]string{
		"property_id": propertyID.Hex(),
		"name":        name,
	})
}

// PropertyUpdated logs an edit to a property.
func (l *Logger) PropertyUpdated(ctx context.Context, r *http.Request, actorID, propertyID primitive.ObjectID, fieldsChanged string) {
	l.adminEvent(ctx, r, audit.EventPropertyUpdated, actorID, map[string]string{
		"property_id":    propertyID.Hex(),
		"fields_changed": fieldsChanged,
	})
}

// PropertyDeleted logs removal of a property.
func (l *Logger) PropertyDeleted(ctx context.Context, r *http.Request, actorID, propertyID primitive.ObjectID, name string) {
	l.adminEvent(ctx, r, audit.EventPropertyDeleted, actorID, map[string]string{
		"property_id": propertyID.Hex(),
		"name":        name,
	})
}

// DepartmentCreated logs creation of a department.
func (l *Logger) DepartmentCreated(ctx context.Context, r *http.Request, actorID, departmentID primitive.ObjectID, name string) {
	l.adminEvent(ctx, r, audit.EventDepartmentCreated, actorID, map[string]string{
		"department_id": departmentID.Hex(),
		"name":          name,
	})
}

// DepartmentUpdated logs an edit to a department.
func (l *Logger) DepartmentUpdated(ctx context.Context, r *http.Request, actorID, departmentID primitive.ObjectID, fieldsChanged string) {
	l.adminEvent(ctx, r, audit.EventDepartmentUpdated, actorID, map[string]string{
		"department_id":  departmentID.Hex(),
		"fields_changed": fieldsChanged,
	})
}

// DepartmentDeleted logs removal of a department.
func (l *Logger) DepartmentDeleted(ctx context.Context, r *http.Request, actorID, departmentID primitive.ObjectID, name string) {
	l.adminEvent(ctx, r, audit.EventDepartmentDeleted, actorID, map[string]string{
		"department_id": departmentID.Hex(),
		"name":          name,
	})
}

// adminEvent is the common shape for successful admin actions.
func (l *Logger) adminEvent(ctx context.Context, r *http.Request, eventType string, actorID primitive.ObjectID, details map[string]string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: eventType,
		ActorID:   &actorID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   details,
	})
}
