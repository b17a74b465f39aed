package messaging

import (
	"context"

	"github.com/satoshe-sluggers/ownership-indexer/internal/domain"
)

// Publisher defines the interface for publishing purchase events to the message broker
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishPurchase publishes a confirmed purchase to the broker
	PublishPurchase(ctx context.Context, event *domain.PurchaseEvent) error

	// Close closes the connection
	Close()
}
