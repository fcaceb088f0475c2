package entities

import (
	"time"

	"github.com/google/uuid"
)

// MarketplaceEventType represents the type of marketplace event
type MarketplaceEventType string

const (
	MarketplaceEventRequestCreated MarketplaceEventType = "request.created"
	MarketplaceEventRequestUpdated MarketplaceEventType = "request.updated"
	MarketplaceEventReviewCreated  MarketplaceEventType = "review.created"
	MarketplaceEventUserRegistered MarketplaceEventType = "user.registered"
	MarketplaceEventUserUpdated    MarketplaceEventType = "user.updated"
)

// MarketplaceEvent is published after a successful mutation of the store.
type MarketplaceEvent struct {
	ID        string               `json:"id"`
	Type      MarketplaceEventType `json:"type"`
	EntityID  string               `json:"entity_id"`
	UserID    string               `json:"user_id,omitempty"`
	Timestamp time.Time            `json:"timestamp"`
	Changes   map[string]any       `json:"changes,omitempty"`
}

// NewMarketplaceEvent creates a new marketplace event
func NewMarketplaceEvent(eventType MarketplaceEventType, entityID, userID string, changes map[string]any) *MarketplaceEvent {
	return &MarketplaceEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		EntityID:  entityID,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Changes:   changes,
	}
}
