// internal/app/system/notify/notify.go
package notify

import (
	"context"

	"github.com/dalemusser/staffhub/internal/app/policy/targetpolicy"
	notificationstore "github.com/dalemusser/staffhub/internal/app/store/notifications"
	outboxstore "github.com/dalemusser/staffhub/internal/app/store/outbox"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Dispatcher fans a notification out to a recipient set. Small sets are
// inserted synchronously; sets at or above targetpolicy.SyncDispatchThreshold
// are persisted as an outbox batch and delivered by the background worker.
type Dispatcher struct {
	notifications *notificationstore.Store
	outbox        *outboxstore.Store
	log           *zap.Logger
}

func NewDispatcher(notifications *notificationstore.Store, outbox *outboxstore.Store, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{notifications: notifications, outbox: outbox, log: logger}
}

// Dispatch delivers one notification per recipient. Zero recipients is a
// no-op. Callers that must not fail on notification problems (assignment
// creation already committed) log the returned error instead of aborting.
func (d *Dispatcher) Dispatch(ctx context.Context, recipientIDs []primitive.ObjectID, notificationType, title, body string, data map[string]string) error {
	if len(recipientIDs) == 0 {
		return nil
	}

	if len(recipientIDs) < targetpolicy.SyncDispatchThreshold {
		ns := make([]models.Notification, 0, len(recipientIDs))
		for _, uid := range recipientIDs {
			ns = append(ns, models.Notification{
				UserID: uid,
				Type:   notificationType,
				Title:  title,
				Body:   body,
				Data:   data,
			})
		}
		if err := d.notifications.InsertMany(ctx, ns); err != nil {
			return err
		}
		d.log.Debug("notifications inserted",
			zap.String("type", notificationType),
			zap.Int("recipients", len(recipientIDs)))
		return nil
	}

	// Merge title/body into the batch payload; the bulk endpoint creates
	// the per-recipient rows on its side.
	batchData := make(map[string]string, len(data)+2)
	for k, v := range data {
		batchData[k] = v
	}
	batchData["title"] = title
	if body != "" {
		batchData["body"] = body
	}

	entry, err := d.outbox.Enqueue(ctx, recipientIDs, notificationType, batchData)
	if err != nil {
		return err
	}
	d.log.Info("notification batch enqueued",
		zap.String("type", notificationType),
		zap.String("batch_key", entry.BatchKey),
		zap.Int("recipients", len(recipientIDs)))
	return nil
}
