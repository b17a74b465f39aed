package messaging

import (
	"context"

	"github.com/satoshe-sluggers/ownership-indexer/internal/domain"
)

// PurchaseHandler is called for each purchase event received from the broker
type PurchaseHandler func(event *domain.PurchaseEvent) error

// Subscriber defines the interface for consuming purchase events published by
// other processes (the purchase-emitter or other API replicas)
//
//go:generate mockgen -source=subscriber.go -destination=../mocks/subscriber.go -package=mocks -mock_names=Subscriber=MockSubscriber
type Subscriber interface {
	// SubscribePurchases delivers purchase events to the handler until the
	// context is canceled
	SubscribePurchases(ctx context.Context, handler PurchaseHandler) error

	// Close closes the connection and cleans up resources
	Close()
}
