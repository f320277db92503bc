package mediacleanup

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/photoshare/backend/internal/photos"
	"github.com/photoshare/backend/pkg/logger"
)

type objectDeleter interface {
	DeleteObject(ctx context.Context, bucket, object string) error
}

// Consumer removes storage objects for photos that were deleted from the database.
type Consumer struct {
	gcs          objectDeleter
	bucket       string
	subscription *pubsub.Subscriber
	logg         *logger.Logger
}

// NewConsumer builds a media cleanup consumer.
func NewConsumer(gcs objectDeleter, bucket string, subscription *pubsub.Subscriber, logg *logger.Logger) (*Consumer, error) {
	if gcs == nil {
		return nil, fmt.Errorf("gcs client required")
	}
	if strings.TrimSpace(bucket) == "" {
		return nil, fmt.Errorf("gcs bucket name required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("media cleanup subscription required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		gcs:          gcs,
		bucket:       strings.TrimSpace(bucket),
		subscription: subscription,
		logg:         logg,
	}, nil
}

// Run processes cleanup events until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		if err := c.Process(ctx, msg.Data); err != nil {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

// Process deletes the object named by the event. Deleting an already-missing
// object succeeds, so redelivered events are safe to process again.
func (c *Consumer) Process(ctx context.Context, payload []byte) error {
	var event photos.CleanupEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		c.logg.Error(ctx, "malformed cleanup event", err)
		// Redelivery cannot fix a bad payload.
		return nil
	}

	logCtx := c.logg.WithFields(ctx, map[string]any{
		"photo_id":    event.PhotoID.String(),
		"storage_key": event.StorageKey,
	})

	if strings.TrimSpace(event.StorageKey) == "" {
		c.logg.Warn(logCtx, "cleanup event missing storage key")
		return nil
	}

	if err := c.gcs.DeleteObject(ctx, c.bucket, event.StorageKey); err != nil {
		c.logg.Error(logCtx, "failed to delete storage object", err)
		return err
	}

	c.logg.Info(logCtx, "storage object deleted")
	return nil
}
