package ownership

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/satoshe-sluggers/ownership-indexer/internal/adapter"
	"github.com/satoshe-sluggers/ownership-indexer/internal/chain"
	"github.com/satoshe-sluggers/ownership-indexer/internal/config"
	"github.com/satoshe-sluggers/ownership-indexer/internal/domain"
	"github.com/satoshe-sluggers/ownership-indexer/internal/logger"
	"github.com/satoshe-sluggers/ownership-indexer/internal/providers/reservoir"
	"github.com/satoshe-sluggers/ownership-indexer/internal/ratelimit"
)

// Resolver resolves current ownership for sets of tokens. Tiers are tried in
// order: the indexed Reservoir API, a Multicall3 batch read, and finally
// per-token ownerOf calls. A tier failing is a fallback, not an error; only
// tokens no tier could resolve are absent from the result.
//
//go:generate mockgen -source=resolver.go -destination=../mocks/ownership_resolver.go -package=mocks -mock_names=Resolver=MockOwnershipResolver
type Resolver interface {
	// Resolve returns one ownership record per resolvable token. The error is
	// non-nil only when no token could be resolved at all
	Resolve(ctx context.Context, tokenNumbers []uint64) (map[uint64]domain.OwnershipRecord, error)
}

type resolver struct {
	cfg            config.ChainConfig
	reservoir      reservoir.Client // nil disables the indexed tier
	chain          chain.Client
	rateLimitProxy ratelimit.Proxy
	breaker        *gobreaker.CircuitBreaker
	clock          adapter.Clock
}

// NewResolver creates a tiered ownership resolver. The Reservoir tier sits
// behind a circuit breaker so a degraded indexer stops costing a timeout per
// batch.
func NewResolver(
	cfg config.ChainConfig,
	reservoirClient reservoir.Client,
	chainClient chain.Client,
	rateLimitProxy ratelimit.Proxy,
	clock adapter.Clock,
) Resolver {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    reservoir.PROVIDER_NAME,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &resolver{
		cfg:            cfg,
		reservoir:      reservoirClient,
		chain:          chainClient,
		rateLimitProxy: rateLimitProxy,
		breaker:        breaker,
		clock:          clock,
	}
}

// Resolve returns one ownership record per resolvable token
func (r *resolver) Resolve(ctx context.Context, tokenNumbers []uint64) (map[uint64]domain.OwnershipRecord, error) {
	if len(tokenNumbers) == 0 {
		return map[uint64]domain.OwnershipRecord{}, nil
	}

	resolvedAt := r.clock.Now()
	records := make(map[uint64]domain.OwnershipRecord, len(tokenNumbers))

	remaining := r.resolveIndexed(ctx, tokenNumbers, resolvedAt, records)
	remaining = r.resolveMulticall(ctx, remaining, resolvedAt, records)
	remaining, err := r.resolveSingles(ctx, remaining, resolvedAt, records)

	if len(records) == 0 && err != nil {
		return nil, fmt.Errorf("%w: all resolution tiers failed: %w", domain.ErrOwnershipUnavailable, err)
	}
	if len(remaining) > 0 {
		logger.WarnCtx(ctx, "Some tokens could not be resolved",
			zap.Int("requested", len(tokenNumbers)),
			zap.Int("unresolved", len(remaining)),
		)
	}

	return records, nil
}

// resolveIndexed tries the Reservoir tier and returns the tokens it did not cover
func (r *resolver) resolveIndexed(ctx context.Context, tokenNumbers []uint64, resolvedAt time.Time, records map[uint64]domain.OwnershipRecord) []uint64 {
	if r.reservoir == nil || len(tokenNumbers) == 0 {
		return tokenNumbers
	}

	result, err := r.breaker.Execute(func() (interface{}, error) {
		return r.reservoir.BatchOwners(ctx, r.cfg.CollectionContract, tokenNumbers)
	})
	if err != nil {
		logger.WarnCtx(ctx, "Indexed ownership tier failed, falling back to chain reads", zap.Error(err))
		return tokenNumbers
	}

	owners := result.(map[uint64]string)
	remaining := make([]uint64, 0, len(tokenNumbers))
	for _, tokenNumber := range tokenNumbers {
		owner, ok := owners[tokenNumber]
		if !ok {
			// The indexer does not know this token, try the chain
			remaining = append(remaining, tokenNumber)
			continue
		}
		records[tokenNumber] = domain.NewOwnershipRecord(tokenNumber, owner, r.cfg.MarketplaceWallet, resolvedAt)
	}

	return remaining
}

// resolveMulticall tries one Multicall3 batch read for the remaining tokens
func (r *resolver) resolveMulticall(ctx context.Context, tokenNumbers []uint64, resolvedAt time.Time, records map[uint64]domain.OwnershipRecord) []uint64 {
	if len(tokenNumbers) == 0 || r.cfg.Multicall3Address == "" {
		return tokenNumbers
	}

	owners, err := ratelimit.Request(ctx, r.rateLimitProxy, ratelimit.ProviderChain, func(ctx context.Context) (map[uint64]string, error) {
		return r.chain.BatchOwnerOf(ctx, tokenNumbers)
	})
	if err != nil {
		logger.WarnCtx(ctx, "Multicall ownership tier failed, falling back to per-token reads", zap.Error(err))
		return tokenNumbers
	}

	remaining := make([]uint64, 0)
	for _, tokenNumber := range tokenNumbers {
		owner, ok := owners[tokenNumber]
		if !ok {
			remaining = append(remaining, tokenNumber)
			continue
		}
		records[tokenNumber] = domain.NewOwnershipRecord(tokenNumber, owner, r.cfg.MarketplaceWallet, resolvedAt)
	}

	return remaining
}

// resolveSingles reads each remaining token with its own rate-limited ownerOf
// call. A failing token affects only itself.
func (r *resolver) resolveSingles(ctx context.Context, tokenNumbers []uint64, resolvedAt time.Time, records map[uint64]domain.OwnershipRecord) ([]uint64, error) {
	if len(tokenNumbers) == 0 {
		return nil, nil
	}

	fns := make([]func(ctx context.Context) (*string, error), len(tokenNumbers))
	for i, tokenNumber := range tokenNumbers {
		tokenNumber := tokenNumber
		fns[i] = func(ctx context.Context) (*string, error) {
			owner, err := r.chain.OwnerOf(ctx, tokenNumber)
			if err != nil {
				return nil, err
			}
			return &owner, nil
		}
	}

	results, err := ratelimit.RequestBatch(ctx, r.rateLimitProxy, ratelimit.ProviderChain, fns)

	var unresolved []uint64
	for i, owner := range results {
		tokenNumber := tokenNumbers[i]
		if owner == nil {
			unresolved = append(unresolved, tokenNumber)
			continue
		}
		records[tokenNumber] = domain.NewOwnershipRecord(tokenNumber, *owner, r.cfg.MarketplaceWallet, resolvedAt)
	}

	return unresolved, err
}
