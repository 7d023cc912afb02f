// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/staffhub/internal/app/policy/targetpolicy"
	outboxstore "github.com/dalemusser/staffhub/internal/app/store/outbox"
	trainingassignstore "github.com/dalemusser/staffhub/internal/app/store/trainingassign"
	trainingstore "github.com/dalemusser/staffhub/internal/app/store/trainings"
	userstore "github.com/dalemusser/staffhub/internal/app/store/users"
	"github.com/dalemusser/staffhub/internal/app/system/mailer"
	"github.com/dalemusser/staffhub/internal/app/system/notify"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ReminderJob sweeps assignments whose deadline has passed without a
// reminder, notifies the resolved audience, and flags the row so the
// reminder fires once per cycle. When a mailer is configured, each
// recipient also gets a reminder email.
func ReminderJob(
	assignments *trainingassignstore.Store,
	trainings *trainingstore.Store,
	users *userstore.Store,
	dispatcher *notify.Dispatcher,
	mail *mailer.Mailer,
	baseURL string,
	logger *zap.Logger,
) Job {
	return Job{
		Name:     "training-reminders",
		Interval: 15 * time.Minute,
		Run: func(ctx context.Context) error {
			due, err := assignments.ListOverdueUnreminded(ctx, time.Now().UTC())
			if err != nil {
				return err
			}
			for _, a := range due {
				tr, err := trainings.GetByID(ctx, a.TrainingID)
				if err != nil {
					logger.Warn("reminder skipped: training lookup failed",
						zap.String("assignment_id", a.ID.Hex()),
						zap.Error(err))
					continue
				}

				recipients, err := targetpolicy.Resolve(ctx, users, a.Target())
				if err != nil {
					logger.Warn("reminder skipped: target resolution failed",
						zap.String("assignment_id", a.ID.Hex()),
						zap.Error(err))
					continue
				}

				err = dispatcher.Dispatch(ctx, recipients,
					models.NotificationTrainingReminder,
					fmt.Sprintf("Overdue: %s", tr.Title),
					"This training is past its deadline. Please complete it as soon as possible.",
					map[string]string{
						"training_id":   tr.ID.Hex(),
						"assignment_id": a.ID.Hex(),
					})
				if err != nil {
					logger.Error("reminder dispatch failed",
						zap.String("assignment_id", a.ID.Hex()),
						zap.Error(err))
					continue
				}

				if mail.Enabled() {
					sendReminderEmails(ctx, users, mail, baseURL, tr, a.Deadline, recipients, logger)
				}

				// Flag only after a successful dispatch so a failed run
				// retries on the next sweep.
				if err := assignments.MarkReminderSent(ctx, a.ID); err != nil {
					logger.Error("failed to flag reminder",
						zap.String("assignment_id", a.ID.Hex()),
						zap.Error(err))
					continue
				}
				logger.Info("reminder dispatched",
					zap.String("assignment_id", a.ID.Hex()),
					zap.String("training", tr.Title),
					zap.Int("recipients", len(recipients)))
			}
			return nil
		},
	}
}

// sendReminderEmails mails every active recipient with an email address.
// Email is best-effort on top of the in-app notification, so failures are
// logged per recipient and never fail the sweep.
func sendReminderEmails(
	ctx context.Context,
	users *userstore.Store,
	mail *mailer.Mailer,
	baseURL string,
	tr models.Training,
	deadline *time.Time,
	recipients []primitive.ObjectID,
	logger *zap.Logger,
) {
	rows, err := users.GetByIDs(ctx, recipients)
	if err != nil {
		logger.Warn("reminder emails skipped: recipient lookup failed",
			zap.String("training_id", tr.ID.Hex()),
			zap.Error(err))
		return
	}

	data := mailer.ReminderEmailData{
		SiteName:      "StaffHub",
		TrainingTitle: tr.Title,
		TrainingLink:  strings.TrimSuffix(baseURL, "/") + "/my/trainings",
	}
	if deadline != nil {
		data.Deadline = deadline.Format("Jan 2, 2006")
	}

	for _, u := range rows {
		if u.Email == "" || !u.IsActive() {
			continue
		}
		data.RecipientName = u.FullName
		email := mailer.BuildReminderEmail(data)
		email.To = u.Email
		if err := mail.Send(email); err != nil {
			logger.Warn("reminder email failed",
				zap.String("user_id", u.ID.Hex()),
				zap.Error(err))
		}
	}
}

// RecurrenceJob rolls recurring assignments into a new cycle once their
// deadline passes: the deadline advances by the recurrence period and the
// reminder flag resets.
func RecurrenceJob(assignments *trainingassignstore.Store, logger *zap.Logger) Job {
	return Job{
		Name:     "assignment-recurrence",
		Interval: 1 * time.Hour,
		Run: func(ctx context.Context) error {
			recurring, err := assignments.ListRecurring(ctx)
			if err != nil {
				return err
			}
			now := time.Now().UTC()
			for _, a := range recurring {
				if a.Deadline == nil || !a.Deadline.Before(now) {
					continue
				}
				next := nextCycleDeadline(*a.Deadline, a.Recurring, now)
				if next == nil {
					continue
				}
				a.Deadline = next
				a.ReminderSent = false
				if _, err := assignments.Update(ctx, a); err != nil {
					logger.Error("failed to roll recurring assignment",
						zap.String("assignment_id", a.ID.Hex()),
						zap.Error(err))
					continue
				}
				logger.Info("recurring assignment rolled over",
					zap.String("assignment_id", a.ID.Hex()),
					zap.String("recurring", string(a.Recurring)),
					zap.Time("next_deadline", *next))
			}
			return nil
		},
	}
}

// nextCycleDeadline advances a past deadline by whole recurrence periods
// until it lands in the future, so a long outage produces one rollover
// rather than a backlog of stale cycles.
func nextCycleDeadline(deadline time.Time, r models.RecurringType, now time.Time) *time.Time {
	var months int
	switch r {
	case models.RecurringMonthly:
		months = 1
	case models.RecurringQuarterly:
		months = 3
	default:
		return nil
	}
	next := deadline
	for !next.After(now) {
		next = next.AddDate(0, months, 0)
	}
	return &next
}

// OutboxDeliveryJob pushes pending notification batches to the bulk
// endpoint. Failures are recorded and the batch stays pending; delivery is
// at-least-once with the batch key as the dedupe token.
func OutboxDeliveryJob(outbox *outboxstore.Store, client *notify.BulkClient, logger *zap.Logger) Job {
	return Job{
		Name:     "outbox-delivery",
		Interval: 1 * time.Minute,
		Run: func(ctx context.Context) error {
			if !client.Configured() {
				return nil
			}
			pending, err := outbox.ListPending(ctx, 0)
			if err != nil {
				return err
			}
			for _, e := range pending {
				if err := client.Deliver(ctx, e); err != nil {
					logger.Warn("batch delivery failed",
						zap.String("batch_key", e.BatchKey),
						zap.Int("attempts", e.Attempts+1),
						zap.Error(err))
					if rerr := outbox.RecordFailure(ctx, e.ID, err); rerr != nil {
						logger.Error("failed to record delivery failure",
							zap.String("batch_key", e.BatchKey),
							zap.Error(rerr))
					}
					continue
				}
				if err := outbox.MarkDelivered(ctx, e.ID); err != nil {
					// The endpoint saw the batch; the idempotency key makes
					// redelivery on the next sweep harmless.
					logger.Error("failed to mark batch delivered",
						zap.String("batch_key", e.BatchKey),
						zap.Error(err))
				}
			}
			return nil
		},
	}
}
