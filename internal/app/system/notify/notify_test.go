package notify_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	notificationstore "github.com/dalemusser/staffhub/internal/app/store/notifications"
	outboxstore "github.com/dalemusser/staffhub/internal/app/store/outbox"
	"github.com/dalemusser/staffhub/internal/app/system/notify"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"github.com/dalemusser/staffhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func recipients(n int) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, n)
	for i := range ids {
		ids[i] = primitive.NewObjectID()
	}
	return ids
}

func TestDispatcher_SmallSetInsertsDirectly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	notifications := notificationstore.New(db)
	outbox := outboxstore.New(db)
	d := notify.NewDispatcher(notifications, outbox, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ids := recipients(3)
	err := d.Dispatch(ctx, ids, models.NotificationTrainingAssigned,
		"New training assigned", "", map[string]string{"training_id": primitive.NewObjectID().Hex()})
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	for _, uid := range ids {
		n, err := notifications.CountUnread(ctx, uid)
		if err != nil {
			t.Fatalf("CountUnread failed: %v", err)
		}
		if n != 1 {
			t.Errorf("recipient %s: unread = %d, want 1", uid.Hex(), n)
		}
	}

	pending, err := outbox.CountPending(ctx)
	if err != nil {
		t.Fatalf("CountPending failed: %v", err)
	}
	if pending != 0 {
		t.Errorf("small set must not touch the outbox, pending = %d", pending)
	}
}

func TestDispatcher_LargeSetGoesToOutbox(t *testing.T) {
	db := testutil.SetupTestDB(t)
	notifications := notificationstore.New(db)
	outbox := outboxstore.New(db)
	d := notify.NewDispatcher(notifications, outbox, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// At the threshold the bulk path kicks in.
	ids := recipients(10)
	err := d.Dispatch(ctx, ids, models.NotificationTrainingAssigned,
		"New training assigned", "", nil)
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	pending, err := outbox.ListPending(ctx, 0)
	if err != nil {
		t.Fatalf("ListPending failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("ListPending: got %d, want 1", len(pending))
	}
	if len(pending[0].RecipientIDs) != 10 {
		t.Errorf("batch recipients = %d, want 10", len(pending[0].RecipientIDs))
	}
	if pending[0].NotificationData["title"] != "New training assigned" {
		t.Errorf("batch data title = %q", pending[0].NotificationData["title"])
	}

	// No synchronous rows for any recipient.
	n, err := notifications.CountUnread(ctx, ids[0])
	if err != nil {
		t.Fatalf("CountUnread failed: %v", err)
	}
	if n != 0 {
		t.Error("large set must not insert synchronous rows")
	}
}

func TestDispatcher_NoRecipients(t *testing.T) {
	db := testutil.SetupTestDB(t)
	d := notify.NewDispatcher(notificationstore.New(db), outboxstore.New(db), zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := d.Dispatch(ctx, nil, models.NotificationTrainingAssigned, "x", "", nil); err != nil {
		t.Errorf("empty recipient set should be a no-op, got %v", err)
	}
}

func TestBulkClient_Deliver(t *testing.T) {
	var gotIdempotencyKey string
	var gotBody struct {
		Action           string            `json:"action"`
		RecipientIDs     []string          `json:"recipientIds"`
		NotificationType string            `json:"notificationType"`
		NotificationData map[string]string `json:"notificationData"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIdempotencyKey = r.Header.Get("Idempotency-Key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client := notify.NewBulkClient(srv.URL, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	entry := models.OutboxEntry{
		ID:               primitive.NewObjectID(),
		BatchKey:         "550e8400-e29b-41d4-a716-446655440000",
		RecipientIDs:     recipients(2),
		NotificationType: models.NotificationTrainingAssigned,
		NotificationData: map[string]string{"title": "New training assigned"},
		Status:           models.OutboxPending,
	}
	if err := client.Deliver(ctx, entry); err != nil {
		t.Fatalf("Deliver failed: %v", err)
	}

	if gotIdempotencyKey != entry.BatchKey {
		t.Errorf("Idempotency-Key = %q, want batch key", gotIdempotencyKey)
	}
	if gotBody.Action != "create_batch" {
		t.Errorf("action = %q", gotBody.Action)
	}
	if len(gotBody.RecipientIDs) != 2 {
		t.Errorf("recipientIds = %d, want 2", len(gotBody.RecipientIDs))
	}
	if gotBody.NotificationType != models.NotificationTrainingAssigned {
		t.Errorf("notificationType = %q", gotBody.NotificationType)
	}
	if gotBody.NotificationData["title"] != "New training assigned" {
		t.Errorf("notificationData = %v", gotBody.NotificationData)
	}
}

func TestBulkClient_DeliverServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "queue full", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := notify.NewBulkClient(srv.URL, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := client.Deliver(ctx, models.OutboxEntry{
		BatchKey:         "key",
		RecipientIDs:     recipients(1),
		NotificationType: models.NotificationTrainingAssigned,
	})
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestBulkClient_NotConfigured(t *testing.T) {
	client := notify.NewBulkClient("", zap.NewNop())
	if client.Configured() {
		t.Error("empty URL must report not configured")
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := client.Deliver(ctx, models.OutboxEntry{}); err != notify.ErrNotConfigured {
		t.Errorf("Deliver = %v, want ErrNotConfigured", err)
	}
}
