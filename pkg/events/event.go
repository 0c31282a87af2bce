package events

import (
	"time"

	"github.com/google/uuid"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "CATALOG_ITEM_UPDATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Catalog lifecycle event types. Downstream consumers (other instances,
// analytics) key their invalidation on these.
const (
	TypeCatalogItemCreated = "CATALOG_ITEM_CREATED"
	TypeCatalogItemUpdated = "CATALOG_ITEM_UPDATED"
	TypeCatalogItemDeleted = "CATALOG_ITEM_DELETED"
)

// NewCatalogItemEvent builds the standard payload for a catalog mutation.
func NewCatalogItemEvent(eventType string, itemId uuid.UUID, sku string) BaseEvent {
	return BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"catalog_item_id": itemId,
			"sku":             sku,
		},
		OccurredAt: time.Now(),
	}
}
