package ownership

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/satoshe-sluggers/ownership-indexer/internal/adapter"
	"github.com/satoshe-sluggers/ownership-indexer/internal/bus"
	"github.com/satoshe-sluggers/ownership-indexer/internal/config"
	"github.com/satoshe-sluggers/ownership-indexer/internal/domain"
	"github.com/satoshe-sluggers/ownership-indexer/internal/logger"
	"github.com/satoshe-sluggers/ownership-indexer/internal/store"
)

// Reconciler keeps the ownership cache consistent with the chain. Reads are
// served from the cache where possible; stale entries are returned as-is and
// revalidated in the background, missing entries are resolved before the
// call returns. Purchase events flip the cache immediately and schedule a
// confirming re-resolution.
//
//go:generate mockgen -source=reconciler.go -destination=../mocks/ownership_reconciler.go -package=mocks -mock_names=Reconciler=MockOwnershipReconciler
type Reconciler interface {
	// Get returns ownership records for the requested tokens. Stale records
	// are included and marked stale in the snapshot; tokens no tier could
	// resolve are absent
	Get(ctx context.Context, tokenNumbers []uint64) (Snapshot, error)

	// Counts returns the aggregate live and sold counts
	Counts() domain.AggregateCounts

	// HandlePurchase applies a confirmed purchase: journal it, flip the cache,
	// notify in-process subscribers, and schedule a confirming re-resolution.
	// Replayed events are ignored
	HandlePurchase(ctx context.Context, event *domain.PurchaseEvent) error

	// Refresh forces re-resolution of the given tokens, bypassing freshness
	Refresh(ctx context.Context, tokenNumbers []uint64) error

	// Start runs the periodic refresh of recently requested tokens until the
	// context is canceled
	Start(ctx context.Context) error

	// PurchaseBus exposes the in-process purchase event bus
	PurchaseBus() *bus.Bus[domain.PurchaseEvent]
}

type reconciler struct {
	cfg      config.CacheConfig
	cache    Cache
	resolver Resolver
	store    store.Store // nil disables the purchase journal and the store read-through
	clock    adapter.Clock
	events   *bus.Bus[domain.PurchaseEvent]

	mu       sync.Mutex
	inFlight map[uint64]bool
}

// NewReconciler creates a reconciler over the given cache and resolver
func NewReconciler(cfg config.CacheConfig, cache Cache, resolver Resolver, s store.Store, clock adapter.Clock) Reconciler {
	return &reconciler{
		cfg:      cfg,
		cache:    cache,
		resolver: resolver,
		store:    s,
		clock:    clock,
		events:   bus.New[domain.PurchaseEvent](),
		inFlight: make(map[uint64]bool),
	}
}

// Get returns ownership records for the requested tokens
func (r *reconciler) Get(ctx context.Context, tokenNumbers []uint64) (Snapshot, error) {
	snapshot := r.cache.Lookup(tokenNumbers)

	// Stale entries are served now and revalidated behind the response
	if len(snapshot.Stale) > 0 {
		staleTokens := make([]uint64, 0, len(snapshot.Stale))
		for tokenNumber := range snapshot.Stale {
			staleTokens = append(staleTokens, tokenNumber)
		}
		r.revalidateAsync(staleTokens)
	}

	if len(snapshot.Missing) == 0 {
		return snapshot, nil
	}

	// Another replica may have resolved these already; its records land in the
	// shared store before this replica's memory sees them
	r.readThroughStore(ctx, &snapshot)

	if len(snapshot.Missing) == 0 {
		return snapshot, nil
	}

	// Missing entries block the call; without them the response would have
	// nothing to say about those tokens
	records, err := r.resolver.Resolve(ctx, snapshot.Missing)
	if err != nil {
		return snapshot, err
	}

	resolved := make([]domain.OwnershipRecord, 0, len(records))
	var unresolved []uint64
	for _, tokenNumber := range snapshot.Missing {
		record, ok := records[tokenNumber]
		if !ok {
			unresolved = append(unresolved, tokenNumber)
			continue
		}
		resolved = append(resolved, record)
		snapshot.Fresh[tokenNumber] = record
	}
	snapshot.Missing = unresolved

	r.cache.Put(ctx, resolved)

	return snapshot, nil
}

// Counts returns the aggregate live and sold counts
func (r *reconciler) Counts() domain.AggregateCounts {
	return r.cache.Counts()
}

// HandlePurchase applies a confirmed purchase
func (r *reconciler) HandlePurchase(ctx context.Context, event *domain.PurchaseEvent) error {
	if event == nil || !event.Valid() {
		return domain.ErrInvalidPurchaseEvent
	}

	if r.store != nil {
		inserted, err := r.store.RecordPurchase(ctx, event)
		if err != nil {
			return err
		}
		if !inserted {
			logger.DebugCtx(ctx, "Ignoring replayed purchase event", zap.String("event_id", event.ID))
			return nil
		}
	}

	flipped := r.cache.MarkSold(ctx, event)
	logger.InfoCtx(ctx, "Applied purchase event",
		zap.String("event_id", event.ID),
		zap.Uint64("token_number", event.TokenNumber),
		zap.Bool("flipped", flipped),
	)

	r.events.Publish(*event)

	// The event said sold; the chain read confirms who holds it now
	r.revalidateAsync([]uint64{event.TokenNumber})

	return nil
}

// Refresh forces re-resolution of the given tokens
func (r *reconciler) Refresh(ctx context.Context, tokenNumbers []uint64) error {
	records, err := r.resolver.Resolve(ctx, tokenNumbers)
	if err != nil {
		return err
	}

	resolved := make([]domain.OwnershipRecord, 0, len(records))
	for _, record := range records {
		resolved = append(resolved, record)
	}
	r.cache.Put(ctx, resolved)

	return nil
}

// Start runs the periodic refresh of recently requested tokens
func (r *reconciler) Start(ctx context.Context) error {
	ticker := r.clock.NewTicker(r.cfg.RefreshInterval)
	defer ticker.Stop()

	logger.InfoCtx(ctx, "Starting ownership refresh loop",
		zap.Duration("interval", r.cfg.RefreshInterval),
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			tokens := r.cache.RecentlyRequested(r.cfg.StaleWindow)
			if len(tokens) == 0 {
				continue
			}
			if err := r.Refresh(ctx, tokens); err != nil {
				logger.ErrorCtx(ctx, err, zap.String("message", "Periodic ownership refresh failed"))
			}
		}
	}
}

// PurchaseBus exposes the in-process purchase event bus
func (r *reconciler) PurchaseBus() *bus.Bus[domain.PurchaseEvent] {
	return r.events
}

// readThroughStore fills missing snapshot entries from the durable layer.
// Only records still within the TTL are taken; anything older goes to the
// resolver as usual. A store failure falls through to on-chain resolution.
func (r *reconciler) readThroughStore(ctx context.Context, snapshot *Snapshot) {
	if r.store == nil || len(snapshot.Missing) == 0 {
		return
	}

	stored, err := r.store.GetOwnershipRecords(ctx, snapshot.Missing)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to read ownership records from store", zap.Error(err))
		return
	}
	if len(stored) == 0 {
		return
	}

	now := r.clock.Now()
	fromStore := make([]domain.OwnershipRecord, 0, len(stored))
	remaining := make([]uint64, 0, len(snapshot.Missing))
	for _, tokenNumber := range snapshot.Missing {
		record, ok := stored[tokenNumber]
		if !ok || record.Age(now) >= r.cfg.TTL {
			remaining = append(remaining, tokenNumber)
			continue
		}
		snapshot.Fresh[tokenNumber] = record
		fromStore = append(fromStore, record)
	}

	if len(fromStore) == 0 {
		return
	}
	snapshot.Missing = remaining
	r.cache.Put(ctx, fromStore)
}

// revalidateAsync re-resolves tokens in the background, skipping tokens that
// already have a revalidation in flight
func (r *reconciler) revalidateAsync(tokenNumbers []uint64) {
	r.mu.Lock()
	var claimed []uint64
	for _, tokenNumber := range tokenNumbers {
		if r.inFlight[tokenNumber] {
			continue
		}
		r.inFlight[tokenNumber] = true
		claimed = append(claimed, tokenNumber)
	}
	r.mu.Unlock()

	if len(claimed) == 0 {
		return
	}

	go func() {
		defer func() {
			r.mu.Lock()
			for _, tokenNumber := range claimed {
				delete(r.inFlight, tokenNumber)
			}
			r.mu.Unlock()
		}()

		ctx, cancel := context.WithTimeout(context.Background(), r.cfg.StaleWindow)
		defer cancel()

		if err := r.Refresh(ctx, claimed); err != nil {
			logger.Warn("Background revalidation failed",
				zap.Int("tokens", len(claimed)),
				zap.Error(err),
			)
		}
	}()
}
