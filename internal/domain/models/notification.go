// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types dispatched by StaffHub.
const (
	NotificationTrainingAssigned = "training_assigned"
	NotificationTrainingReminder = "training_reminder"
)

// Notification is a per-recipient in-app notification row. Small recipient
// sets are inserted directly; large sets go through the outbox and the
// external bulk endpoint, which creates these rows on the backend side.
type Notification struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`

	Type  string `bson:"type" json:"type"`
	Title string `bson:"title" json:"title"`
	Body  string `bson:"body,omitempty" json:"body,omitempty"`

	// Data carries type-specific payload (training id, deadline, ...).
	Data map[string]string `bson:"data,omitempty" json:"data,omitempty"`

	ReadAt    *time.Time `bson:"read_at,omitempty" json:"read_at,omitempty"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
}

// OutboxStatus values for pending bulk notification work.
const (
	OutboxPending   = "pending"
	OutboxDelivered = "delivered"
)

// OutboxEntry is a pending bulk-notification batch. It is written in the
// same logical step as the assignment rows it belongs to, and a background
// worker delivers it to the bulk endpoint, retrying until acknowledged.
// BatchKey is a UUID reused across retries so the receiving side can
// deduplicate.
type OutboxEntry struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BatchKey string             `bson:"batch_key" json:"batch_key"`

	RecipientIDs     []primitive.ObjectID `bson:"recipient_ids" json:"recipient_ids"`
	NotificationType string               `bson:"notification_type" json:"notification_type"`
	NotificationData map[string]string    `bson:"notification_data,omitempty" json:"notification_data,omitempty"`

	Status      string     `bson:"status" json:"status"` // "pending" or "delivered"
	Attempts    int        `bson:"attempts" json:"attempts"`
	LastError   string     `bson:"last_error,omitempty" json:"last_error,omitempty"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	DeliveredAt *time.Time `bson:"delivered_at,omitempty" json:"delivered_at,omitempty"`
}
