// internal/app/features/documents/handler.go
package documents

import (
	uierrors "github.com/dalemusser/staffhub/internal/app/features/errors"
	"github.com/dalemusser/staffhub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the staff-facing knowledge document handlers: CRUD for
// authors and the review queue for reviewers.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
}

// EmployeeHandler owns the employee-facing document handlers (published
// documents the current user's scope admits).
type EmployeeHandler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

// NewHandler constructs a Handler bound to the given Mongo database and logger.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: audit,
	}
}

// NewEmployeeHandler constructs an EmployeeHandler bound to the given Mongo
// database and logger.
func NewEmployeeHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		DB:     db,
		Log:    logger,
		ErrLog: errLog,
	}
}
