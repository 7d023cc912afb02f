// internal/app/features/trainings/handler.go
package trainings

import (
	uierrors "github.com/dalemusser/staffhub/internal/app/features/errors"
	"github.com/dalemusser/staffhub/internal/app/system/auditlog"
	"github.com/dalemusser/staffhub/internal/app/system/notify"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// AdminHandler owns all admin-facing Training handlers
// (list, new, edit, view, delete, assign, unassign).
//
// It is constructed once at startup in bootstrap, using the
// shared Mongo database handle, notification dispatcher, and logger.
type AdminHandler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Dispatcher *notify.Dispatcher
}

// NewAdminHandler constructs an AdminHandler bound to the given Mongo
// database, notification dispatcher, and logger.
func NewAdminHandler(db *mongo.Database, dispatcher *notify.Dispatcher, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		DB:         db,
		Log:        logger,
		ErrLog:     errLog,
		AuditLog:   audit,
		Dispatcher: dispatcher,
	}
}
