package schema

import (
	"time"

	"gorm.io/datatypes"
)

// PurchaseEvent represents the purchase_events table - a journal of every
// confirmed purchase, keyed by the event ID so replayed broker deliveries
// insert nothing
type PurchaseEvent struct {
	// EventID is the ULID assigned when the purchase was first observed
	EventID string `gorm:"column:event_id;primaryKey;type:text"`
	// TokenNumber is the purchased token
	TokenNumber uint64 `gorm:"column:token_number;not null;index:idx_purchase_events_token_number"`
	// Payload is the full event as published to the broker
	Payload datatypes.JSON `gorm:"column:payload;not null;type:jsonb"`
	// CreatedAt is the timestamp when this row was written
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the PurchaseEvent model
func (PurchaseEvent) TableName() string {
	return "purchase_events"
}
