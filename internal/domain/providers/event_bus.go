package providers

import (
	"context"

	"github.com/zatekoja/campusmove/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.MarketplaceEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.MarketplaceEvent, error)

	// Close closes the event bus and all subscriptions
	Close() error
}

const (
	// EventChannelMarketplace carries every marketplace event
	EventChannelMarketplace = "marketplace:events"

	// EventChannelUserPrefix is the prefix for per-user channels
	EventChannelUserPrefix = "user:"
)

// GetUserChannel returns the channel name for events concerning a user
func GetUserChannel(userID string) string {
	return EventChannelUserPrefix + userID
}
