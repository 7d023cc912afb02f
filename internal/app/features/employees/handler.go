// internal/app/features/employees/handler.go
package employees

import (
	uierrors "github.com/dalemusser/staffhub/internal/app/features/errors"
	"github.com/dalemusser/staffhub/internal/app/system/auditlog"
	"github.com/dalemusser/staffhub/internal/app/system/notify"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the admin employee-directory handlers (list, new, edit,
// view, delete). Employee accounts created here get an initial password
// and, via the dispatcher, notifications for any auto-enroll training
// assignments covering their property or department.
type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Dispatcher *notify.Dispatcher
}

// NewHandler constructs a Handler bound to the given Mongo database,
// notification dispatcher, and logger.
func NewHandler(db *mongo.Database, dispatcher *notify.Dispatcher, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Log:        logger,
		ErrLog:     errLog,
		AuditLog:   audit,
		Dispatcher: dispatcher,
	}
}
