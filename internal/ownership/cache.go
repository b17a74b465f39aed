package ownership

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/satoshe-sluggers/ownership-indexer/internal/adapter"
	"github.com/satoshe-sluggers/ownership-indexer/internal/config"
	"github.com/satoshe-sluggers/ownership-indexer/internal/domain"
	"github.com/satoshe-sluggers/ownership-indexer/internal/logger"
	"github.com/satoshe-sluggers/ownership-indexer/internal/store"
)

// Snapshot classifies a cache lookup. Entries within the TTL are fresh,
// entries past the TTL but within the stale window are stale and must be
// revalidated, everything else is missing.
type Snapshot struct {
	Fresh   map[uint64]domain.OwnershipRecord
	Stale   map[uint64]domain.OwnershipRecord
	Missing []uint64
}

// Cache holds ownership records in memory with TTL-based freshness and an
// optional durable layer. The newest resolution always wins so a slow
// resolver cannot overwrite a newer purchase flip.
//
//go:generate mockgen -source=cache.go -destination=../mocks/ownership_cache.go -package=mocks -mock_names=Cache=MockOwnershipCache
type Cache interface {
	// Lookup classifies the requested tokens by freshness and remembers that
	// they were requested, for the background refresh window
	Lookup(tokenNumbers []uint64) Snapshot

	// Put stores resolved records, keeping the newest resolution per token
	Put(ctx context.Context, records []domain.OwnershipRecord)

	// MarkSold flips a token to sold from a purchase event. It returns true
	// when the flip changed the token's sale state
	MarkSold(ctx context.Context, event *domain.PurchaseEvent) bool

	// Counts derives the aggregate live and sold counts from cached state.
	// Tokens never resolved count as live, so live plus sold always equals
	// the collection's total supply
	Counts() domain.AggregateCounts

	// RecentlyRequested returns the tokens looked up within the window, in
	// ascending token order
	RecentlyRequested(window time.Duration) []uint64

	// WarmFromStore loads the durable records into memory
	WarmFromStore(ctx context.Context) error
}

type cache struct {
	cfg         config.CacheConfig
	store       store.Store // nil means memory only
	clock       adapter.Clock
	totalSupply uint64

	mu          sync.RWMutex
	records     map[uint64]domain.OwnershipRecord
	requestedAt map[uint64]time.Time
}

// NewCache creates an ownership cache. The store is optional; when present
// every accepted write is mirrored to it.
func NewCache(cfg config.CacheConfig, totalSupply uint64, s store.Store, clock adapter.Clock) Cache {
	return &cache{
		cfg:         cfg,
		store:       s,
		clock:       clock,
		totalSupply: totalSupply,
		records:     make(map[uint64]domain.OwnershipRecord),
		requestedAt: make(map[uint64]time.Time),
	}
}

// Lookup classifies the requested tokens by freshness
func (c *cache) Lookup(tokenNumbers []uint64) Snapshot {
	now := c.clock.Now()

	snapshot := Snapshot{
		Fresh: make(map[uint64]domain.OwnershipRecord),
		Stale: make(map[uint64]domain.OwnershipRecord),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, tokenNumber := range tokenNumbers {
		c.requestedAt[tokenNumber] = now

		record, ok := c.records[tokenNumber]
		if !ok {
			snapshot.Missing = append(snapshot.Missing, tokenNumber)
			continue
		}

		age := record.Age(now)
		switch {
		case age < c.cfg.TTL:
			snapshot.Fresh[tokenNumber] = record
		case age < c.cfg.StaleWindow:
			snapshot.Stale[tokenNumber] = record
		default:
			// Too old to serve even as stale
			snapshot.Missing = append(snapshot.Missing, tokenNumber)
		}
	}

	return snapshot
}

// Put stores resolved records, keeping the newest resolution per token
func (c *cache) Put(ctx context.Context, records []domain.OwnershipRecord) {
	accepted := make([]domain.OwnershipRecord, 0, len(records))

	c.mu.Lock()
	for _, record := range records {
		existing, ok := c.records[record.TokenNumber]
		if ok && existing.ResolvedAt.After(record.ResolvedAt) {
			// A newer resolution already landed
			continue
		}
		c.records[record.TokenNumber] = record
		accepted = append(accepted, record)
	}
	c.mu.Unlock()

	c.persist(ctx, accepted)
}

// MarkSold flips a token to sold from a purchase event
func (c *cache) MarkSold(ctx context.Context, event *domain.PurchaseEvent) bool {
	record := domain.OwnershipRecord{
		TokenNumber: event.TokenNumber,
		Owner:       domain.NormalizeAddress(event.Buyer),
		HasOwner:    true,
		Sold:        true,
		ResolvedAt:  event.Timestamp,
	}

	c.mu.Lock()
	existing, ok := c.records[event.TokenNumber]
	if ok && existing.ResolvedAt.After(record.ResolvedAt) {
		c.mu.Unlock()
		return false
	}
	c.records[event.TokenNumber] = record
	c.mu.Unlock()

	c.persist(ctx, []domain.OwnershipRecord{record})

	return !ok || !existing.Sold
}

// Counts derives the aggregate counts from cached state
func (c *cache) Counts() domain.AggregateCounts {
	c.mu.RLock()
	var sold uint64
	for _, record := range c.records {
		if record.Sold {
			sold++
		}
	}
	c.mu.RUnlock()

	if sold > c.totalSupply {
		sold = c.totalSupply
	}

	return domain.AggregateCounts{
		Live:       c.totalSupply - sold,
		Sold:       sold,
		ComputedAt: c.clock.Now(),
	}
}

// RecentlyRequested returns the tokens looked up within the window
func (c *cache) RecentlyRequested(window time.Duration) []uint64 {
	cutoff := c.clock.Now().Add(-window)

	c.mu.RLock()
	tokens := make([]uint64, 0, len(c.requestedAt))
	for tokenNumber, requestedAt := range c.requestedAt {
		if requestedAt.After(cutoff) {
			tokens = append(tokens, tokenNumber)
		}
	}
	c.mu.RUnlock()

	sort.Slice(tokens, func(i, j int) bool { return tokens[i] < tokens[j] })
	return tokens
}

// WarmFromStore loads the durable records into memory
func (c *cache) WarmFromStore(ctx context.Context) error {
	if c.store == nil {
		return nil
	}

	records, err := c.store.ListOwnershipRecords(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	for _, record := range records {
		existing, ok := c.records[record.TokenNumber]
		if ok && existing.ResolvedAt.After(record.ResolvedAt) {
			continue
		}
		c.records[record.TokenNumber] = record
	}
	c.mu.Unlock()

	logger.InfoCtx(ctx, "Warmed ownership cache from store", zap.Int("records", len(records)))
	return nil
}

// persist mirrors accepted writes to the durable layer. The memory copy is
// authoritative, so a store failure is logged and not propagated.
func (c *cache) persist(ctx context.Context, records []domain.OwnershipRecord) {
	if c.store == nil || len(records) == 0 {
		return
	}

	if err := c.store.UpsertOwnershipRecords(ctx, records); err != nil {
		logger.WarnCtx(ctx, "Failed to persist ownership records",
			zap.Int("records", len(records)),
			zap.Error(err),
		)
	}
}
