package service

import (
	"context"
	"time"

	"github.com/Skotchmaster/giftcard_vault/internal/logging"
)

const (
	TopicUserEvents     = "user_events"
	TopicGiftcardEvents = "giftcard_events"

	EventUserRegistered       = "user_registered"
	EventUserLoggedIn         = "user_logged_in"
	EventGiftcardCreated      = "giftcard_created"
	EventGiftcardImageUpdated = "giftcard_image_updated"

	publishTimeout = 5 * time.Second
)

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// publish never fails the caller; errors are only logged.
func publish(ctx context.Context, p Publisher, topic, key string, event map[string]any) {
	if p == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("event_publish_failed", "topic", topic, "type", event["type"], "error", err)
	}
}
