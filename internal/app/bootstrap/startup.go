// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"time"

	"github.com/dalemusser/staffhub/internal/app/resources"
	outboxstore "github.com/dalemusser/staffhub/internal/app/store/outbox"
	trainingassignstore "github.com/dalemusser/staffhub/internal/app/store/trainingassign"
	trainingstore "github.com/dalemusser/staffhub/internal/app/store/trainings"
	userstore "github.com/dalemusser/staffhub/internal/app/store/users"
	notificationstore "github.com/dalemusser/staffhub/internal/app/store/notifications"
	"github.com/dalemusser/staffhub/internal/app/system/mailer"
	"github.com/dalemusser/staffhub/internal/app/system/notify"
	"github.com/dalemusser/staffhub/internal/app/system/tasks"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// taskRunner drives the periodic jobs (reminders, recurrence, outbox
// delivery). Started here, stopped in Shutdown.
var taskRunner *tasks.Runner

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It loads
// the shared templates, guarantees an admin account exists, and launches
// the background job runner.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	if err := ensureBootstrapAdmin(ctx, deps, appCfg.BootstrapAdminEmail, logger); err != nil {
		return err
	}

	db := deps.StaffHubMongoDatabase
	assignments := trainingassignstore.New(db)
	trainings := trainingstore.New(db)
	users := userstore.New(db)
	outbox := outboxstore.New(db)
	dispatcher := notify.NewDispatcher(notificationstore.New(db), outbox, logger)
	bulkClient := notify.NewBulkClient(appCfg.NotifyBulkURL, logger)

	// Nil when no SMTP host is configured; reminders then stay in-app only.
	mail := mailer.New(mailer.Config{
		Host:     appCfg.SMTPHost,
		Port:     appCfg.SMTPPort,
		Username: appCfg.SMTPUsername,
		Password: appCfg.SMTPPassword,
		From:     appCfg.SMTPFrom,
	}, logger)

	taskRunner = tasks.NewRunner(logger,
		tasks.ReminderJob(assignments, trainings, users, dispatcher, mail, appCfg.BaseURL, logger),
		tasks.RecurrenceJob(assignments, logger),
		tasks.OutboxDeliveryJob(outbox, bulkClient, logger),
	)
	taskRunner.Start()

	return nil
}

// ensureBootstrapAdmin promotes (or creates) the configured admin account
// so a fresh deployment is reachable. No-op when the email is blank.
func ensureBootstrapAdmin(ctx context.Context, deps DBDeps, email string, logger *zap.Logger) error {
	if email == "" {
		return nil
	}

	db := deps.StaffHubMongoDatabase
	users := userstore.New(db)

	existing, err := users.GetByEmail(ctx, email)
	switch {
	case err == mongo.ErrNoDocuments:
		now := time.Now().UTC()
		u := models.User{
			ID:         primitive.NewObjectID(),
			FullName:   "Administrator",
			FullNameCI: text.Fold("Administrator"),
			Email:      email,
			Role:       "admin",
			Status:     "active",
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if _, err := db.Collection("users").InsertOne(ctx, u); err != nil {
			return err
		}
		logger.Info("bootstrap admin created", zap.String("email", email))
		return nil
	case err != nil:
		return err
	}

	if existing.Role == "admin" {
		return nil
	}

	_, err = db.Collection("users").UpdateByID(ctx, existing.ID, bson.M{
		"$set": bson.M{
			"role":       "admin",
			"status":     "active",
			"updated_at": time.Now().UTC(),
		},
	})
	if err != nil {
		return err
	}
	logger.Info("bootstrap admin promoted",
		zap.String("email", email),
		zap.String("previous_role", existing.Role))
	return nil
}
