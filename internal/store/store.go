package store

import (
	"context"

	"github.com/satoshe-sluggers/ownership-indexer/internal/domain"
)

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// UpsertOwnershipRecords writes ownership records, keeping the newest
	// resolution when a row already exists
	UpsertOwnershipRecords(ctx context.Context, records []domain.OwnershipRecord) error
	// GetOwnershipRecords retrieves the stored records for the given tokens.
	// Tokens without a stored record are absent from the result
	GetOwnershipRecords(ctx context.Context, tokenNumbers []uint64) (map[uint64]domain.OwnershipRecord, error)
	// ListOwnershipRecords retrieves every stored ownership record
	ListOwnershipRecords(ctx context.Context) ([]domain.OwnershipRecord, error)
	// CountOwnership returns how many stored records are sold and how many exist in total
	CountOwnership(ctx context.Context) (sold uint64, total uint64, err error)
	// RecordPurchase journals a purchase event. It returns false when an event
	// with the same ID was already journaled
	RecordPurchase(ctx context.Context, event *domain.PurchaseEvent) (bool, error)
	// GetBlockCursor retrieves the last processed block number
	GetBlockCursor(ctx context.Context, name string) (uint64, error)
	// SetBlockCursor stores the last processed block number
	SetBlockCursor(ctx context.Context, name string, blockNumber uint64) error
}
