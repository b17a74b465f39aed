package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satoshe-sluggers/ownership-indexer/internal/domain"
)

const (
	testMarketplaceWallet = "0x396343362be2A4dA1cE0C1C210945346fb82Aa49"
	testBuyer             = "0x1234567890123456789012345678901234567890"
)

func buildTestRecord(tokenNumber uint64, owner string, resolvedAt time.Time) domain.OwnershipRecord {
	return domain.NewOwnershipRecord(tokenNumber, owner, testMarketplaceWallet, resolvedAt)
}

func testUpsertOwnershipRecords(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("insert and read back", func(t *testing.T) {
		resolvedAt := time.Now().UTC().Truncate(time.Microsecond)
		records := []domain.OwnershipRecord{
			buildTestRecord(1, testBuyer, resolvedAt),
			buildTestRecord(2, testMarketplaceWallet, resolvedAt),
			buildTestRecord(3, "", resolvedAt),
		}

		require.NoError(t, store.UpsertOwnershipRecords(ctx, records))

		got, err := store.GetOwnershipRecords(ctx, []uint64{1, 2, 3, 4})
		require.NoError(t, err)
		require.Len(t, got, 3)

		assert.True(t, got[1].Sold)
		assert.True(t, got[1].HasOwner)
		assert.False(t, got[2].Sold)
		assert.True(t, got[3].Sold)
		assert.False(t, got[3].HasOwner)
		assert.WithinDuration(t, resolvedAt, got[1].ResolvedAt, time.Millisecond)
	})

	t.Run("newer resolution wins", func(t *testing.T) {
		earlier := time.Now().UTC().Add(-time.Minute).Truncate(time.Microsecond)
		later := earlier.Add(30 * time.Second)

		require.NoError(t, store.UpsertOwnershipRecords(ctx, []domain.OwnershipRecord{
			buildTestRecord(10, testMarketplaceWallet, earlier),
		}))
		require.NoError(t, store.UpsertOwnershipRecords(ctx, []domain.OwnershipRecord{
			buildTestRecord(10, testBuyer, later),
		}))

		got, err := store.GetOwnershipRecords(ctx, []uint64{10})
		require.NoError(t, err)
		assert.True(t, got[10].Sold)
		assert.WithinDuration(t, later, got[10].ResolvedAt, time.Millisecond)
	})

	t.Run("older resolution is ignored", func(t *testing.T) {
		earlier := time.Now().UTC().Add(-time.Minute).Truncate(time.Microsecond)
		later := earlier.Add(30 * time.Second)

		require.NoError(t, store.UpsertOwnershipRecords(ctx, []domain.OwnershipRecord{
			buildTestRecord(11, testBuyer, later),
		}))
		require.NoError(t, store.UpsertOwnershipRecords(ctx, []domain.OwnershipRecord{
			buildTestRecord(11, testMarketplaceWallet, earlier),
		}))

		got, err := store.GetOwnershipRecords(ctx, []uint64{11})
		require.NoError(t, err)
		assert.True(t, got[11].Sold)
		assert.WithinDuration(t, later, got[11].ResolvedAt, time.Millisecond)
	})

	t.Run("empty input is a no-op", func(t *testing.T) {
		require.NoError(t, store.UpsertOwnershipRecords(ctx, nil))
	})
}

func testListAndCountOwnership(t *testing.T, store Store) {
	ctx := context.Background()

	resolvedAt := time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, store.UpsertOwnershipRecords(ctx, []domain.OwnershipRecord{
		buildTestRecord(1, testBuyer, resolvedAt),
		buildTestRecord(2, testMarketplaceWallet, resolvedAt),
		buildTestRecord(3, testMarketplaceWallet, resolvedAt),
	}))

	records, err := store.ListOwnershipRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	// Ordered by token number
	assert.Equal(t, uint64(1), records[0].TokenNumber)
	assert.Equal(t, uint64(3), records[2].TokenNumber)

	sold, total, err := store.CountOwnership(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), sold)
	assert.Equal(t, uint64(3), total)
}

func testRecordPurchase(t *testing.T, store Store) {
	ctx := context.Background()

	event := domain.NewPurchaseEvent(42, testBuyer, "1000000000000000000", "0xabc", time.Now().UTC())

	inserted, err := store.RecordPurchase(ctx, &event)
	require.NoError(t, err)
	assert.True(t, inserted)

	// Replaying the same event is a no-op
	inserted, err = store.RecordPurchase(ctx, &event)
	require.NoError(t, err)
	assert.False(t, inserted)

	other := domain.NewPurchaseEvent(43, testBuyer, "1000000000000000000", "0xdef", time.Now().UTC())
	inserted, err = store.RecordPurchase(ctx, &other)
	require.NoError(t, err)
	assert.True(t, inserted)
}

func testBlockCursor(t *testing.T, store Store) {
	ctx := context.Background()

	// No cursor yet
	cursor, err := store.GetBlockCursor(ctx, "emitter")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), cursor)

	require.NoError(t, store.SetBlockCursor(ctx, "emitter", 19_000_000))

	cursor, err = store.GetBlockCursor(ctx, "emitter")
	require.NoError(t, err)
	assert.Equal(t, uint64(19_000_000), cursor)

	// Overwrite
	require.NoError(t, store.SetBlockCursor(ctx, "emitter", 19_000_100))

	cursor, err = store.GetBlockCursor(ctx, "emitter")
	require.NoError(t, err)
	assert.Equal(t, uint64(19_000_100), cursor)

	// Cursors are namespaced
	cursor, err = store.GetBlockCursor(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), cursor)
}

// RunStoreTests runs the full store test suite against an implementation
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store, cleanupDB func(t *testing.T)) {
	tests := []struct {
		name string
		fn   func(t *testing.T, store Store)
	}{
		{"UpsertOwnershipRecords", testUpsertOwnershipRecords},
		{"ListAndCountOwnership", testListAndCountOwnership},
		{"RecordPurchase", testRecordPurchase},
		{"BlockCursor", testBlockCursor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := initDB(t)
			defer cleanupDB(t)
			tt.fn(t, store)
		})
	}
}
