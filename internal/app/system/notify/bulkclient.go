// internal/app/system/notify/bulkclient.go
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dalemusser/staffhub/internal/domain/models"
	"go.uber.org/zap"
)

// ErrNotConfigured is returned by Deliver when no bulk endpoint URL is set.
var ErrNotConfigured = errors.New("bulk notification endpoint is not configured")

// BulkClient posts outbox batches to the external bulk notification
// endpoint. The batch key rides along as an idempotency header so retried
// deliveries deduplicate on the receiving side.
type BulkClient struct {
	url    string
	client *http.Client
	log    *zap.Logger
}

func NewBulkClient(url string, logger *zap.Logger) *BulkClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BulkClient{
		url:    url,
		client: &http.Client{Timeout: 15 * time.Second},
		log:    logger,
	}
}

// Configured reports whether a bulk endpoint URL is set. The delivery job
// skips its sweep entirely when it is not.
func (c *BulkClient) Configured() bool { return c.url != "" }

type bulkRequest struct {
	Action           string            `json:"action"`
	RecipientIDs     []string          `json:"recipientIds"`
	NotificationType string            `json:"notificationType"`
	NotificationData map[string]string `json:"notificationData,omitempty"`
}

// Deliver pushes one batch. A non-2xx response is an error so the caller
// records the failure and the batch stays pending for the next run.
func (c *BulkClient) Deliver(ctx context.Context, e models.OutboxEntry) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	recipients := make([]string, 0, len(e.RecipientIDs))
	for _, id := range e.RecipientIDs {
		recipients = append(recipients, id.Hex())
	}
	payload, err := json.Marshal(bulkRequest{
		Action:           "create_batch",
		RecipientIDs:     recipients,
		NotificationType: e.NotificationType,
		NotificationData: e.NotificationData,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", e.BatchKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Read a little of the body for the error record.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("bulk endpoint returned %d: %s", resp.StatusCode, string(snippet))
	}

	c.log.Info("notification batch delivered",
		zap.String("batch_key", e.BatchKey),
		zap.Int("recipients", len(e.RecipientIDs)))
	return nil
}
