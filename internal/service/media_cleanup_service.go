package service

import (
	"context"
	"encoding/json"

	"characterhub-be/internal/dto"
	"characterhub-be/internal/pkg/logger"
	"characterhub-be/pkg/blobstore"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IMediaCleanupService interface {
	Consume(ctx context.Context) error
}

// mediaCleanupService removes blob objects whose referencing rows are gone.
// It runs off the orphaned-media topic so deletes never sit on the request path.
type mediaCleanupService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	store     blobstore.Client
	log       logger.ILogger
}

func NewMediaCleanupService(
	pubSub *gochannel.GoChannel,
	topicName string,
	store blobstore.Client,
	log logger.ILogger,
) IMediaCleanupService {
	return &mediaCleanupService{
		pubSub:    pubSub,
		topicName: topicName,
		store:     store,
		log:       log,
	}
}

func (cs *mediaCleanupService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *mediaCleanupService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.MediaOrphanedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("media-cleanup", "failed to unmarshal message", map[string]interface{}{
			"error": err.Error(),
		})
		// Ack invalid messages to prevent infinite retry.
		msg.Ack()
		return
	}

	for _, key := range payload.Keys {
		if err := cs.store.Delete(ctx, key); err != nil {
			cs.log.Error("media-cleanup", "failed to delete object", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
			msg.Nack()
			return
		}
	}

	cs.log.Info("media-cleanup", "orphaned objects removed", map[string]interface{}{
		"count": len(payload.Keys),
	})
	msg.Ack()
}
