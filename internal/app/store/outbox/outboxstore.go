// internal/app/store/outbox/outboxstore.go
package outboxstore

import (
	"context"
	"time"

	"github.com/dalemusser/staffhub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// The outbox gives bulk notification delivery at-least-once semantics: large
// recipient batches are persisted here first, and the delivery job pushes
// them to the notification service with the batch key as idempotency key
// until the push succeeds.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("notification_outbox")}
}

// Enqueue persists a pending batch and assigns it a fresh batch key.
func (s *Store) Enqueue(ctx context.Context, recipientIDs []primitive.ObjectID, notificationType string, data map[string]string) (models.OutboxEntry, error) {
	e := models.OutboxEntry{
		ID:               primitive.NewObjectID(),
		BatchKey:         uuid.NewString(),
		RecipientIDs:     recipientIDs,
		NotificationType: notificationType,
		NotificationData: data,
		Status:           models.OutboxPending,
		CreatedAt:        time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.OutboxEntry{}, err
	}
	return e, nil
}

// ListPending returns pending batches, oldest first, up to limit.
func (s *Store) ListPending(ctx context.Context, limit int64) ([]models.OutboxEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, bson.M{"status": models.OutboxPending}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var entries []models.OutboxEntry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// MarkDelivered flags a batch as delivered.
func (s *Store) MarkDelivered(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now().UTC()
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":       models.OutboxDelivered,
		"delivered_at": now,
	}})
	return err
}

// RecordFailure increments the attempt counter and stores the error. The
// entry stays pending so the next delivery run retries it.
func (s *Store) RecordFailure(ctx context.Context, id primitive.ObjectID, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{
		"$inc": bson.M{"attempts": 1},
		"$set": bson.M{"last_error": msg},
	})
	return err
}

// GetByBatchKey loads an entry by its idempotency key.
func (s *Store) GetByBatchKey(ctx context.Context, batchKey string) (models.OutboxEntry, error) {
	var e models.OutboxEntry
	if err := s.c.FindOne(ctx, bson.M{"batch_key": batchKey}).Decode(&e); err != nil {
		return models.OutboxEntry{}, err
	}
	return e, nil
}

// CountPending returns the number of undelivered batches.
func (s *Store) CountPending(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"status": models.OutboxPending})
}
