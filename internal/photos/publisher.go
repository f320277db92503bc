package photos

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
)

const publishTimeout = 10 * time.Second

// CleanupEvent asks the media cleanup worker to delete an orphaned object.
type CleanupEvent struct {
	PhotoID    uuid.UUID `json:"photo_id"`
	StorageKey string    `json:"storage_key"`
	DeletedAt  time.Time `json:"deleted_at"`
}

// CleanupPublisher emits storage cleanup events to Pub/Sub.
type CleanupPublisher struct {
	publisher *gcppubsub.Publisher
}

// NewCleanupPublisher wraps the configured cleanup topic publisher.
func NewCleanupPublisher(publisher *gcppubsub.Publisher) (*CleanupPublisher, error) {
	if publisher == nil {
		return nil, fmt.Errorf("cleanup publisher is required")
	}
	return &CleanupPublisher{publisher: publisher}, nil
}

// PublishCleanup publishes the event and waits for the server ack.
func (p *CleanupPublisher) PublishCleanup(ctx context.Context, event CleanupEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding cleanup event: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	result := p.publisher.Publish(publishCtx, &gcppubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"event_type": "media.cleanup",
			"photo_id":   event.PhotoID.String(),
		},
	})
	if _, err := result.Get(publishCtx); err != nil {
		return fmt.Errorf("publishing cleanup event: %w", err)
	}
	return nil
}
