package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/satoshe-sluggers/ownership-indexer/internal/domain"
	"github.com/satoshe-sluggers/ownership-indexer/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM
// database connection. Zero values fall back to reasonable defaults.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// UpsertOwnershipRecords writes ownership records, keeping the newest
// resolution when a row already exists. An incoming record older than the
// stored one leaves the row untouched.
func (s *pgStore) UpsertOwnershipRecords(ctx context.Context, records []domain.OwnershipRecord) error {
	if len(records) == 0 {
		return nil
	}

	rows := make([]schema.OwnershipRecord, 0, len(records))
	for _, record := range records {
		rows = append(rows, schema.OwnershipRecord{
			TokenNumber: record.TokenNumber,
			Owner:       record.Owner,
			HasOwner:    record.HasOwner,
			Sold:        record.Sold,
			ResolvedAt:  record.ResolvedAt,
		})
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token_number"}},
		DoUpdates: clause.AssignmentColumns([]string{"owner", "has_owner", "sold", "resolved_at", "updated_at"}),
		Where: clause.Where{
			Exprs: []clause.Expression{
				clause.Expr{SQL: "excluded.resolved_at >= ownership_records.resolved_at"},
			},
		},
	}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to upsert ownership records: %w", err)
	}

	return nil
}

// GetOwnershipRecords retrieves the stored records for the given tokens
func (s *pgStore) GetOwnershipRecords(ctx context.Context, tokenNumbers []uint64) (map[uint64]domain.OwnershipRecord, error) {
	if len(tokenNumbers) == 0 {
		return map[uint64]domain.OwnershipRecord{}, nil
	}

	var rows []schema.OwnershipRecord
	err := s.db.WithContext(ctx).Where("token_number IN ?", tokenNumbers).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get ownership records: %w", err)
	}

	records := make(map[uint64]domain.OwnershipRecord, len(rows))
	for _, row := range rows {
		records[row.TokenNumber] = toDomainRecord(row)
	}

	return records, nil
}

// ListOwnershipRecords retrieves every stored ownership record
func (s *pgStore) ListOwnershipRecords(ctx context.Context) ([]domain.OwnershipRecord, error) {
	var rows []schema.OwnershipRecord
	err := s.db.WithContext(ctx).Order("token_number ASC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list ownership records: %w", err)
	}

	records := make([]domain.OwnershipRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, toDomainRecord(row))
	}

	return records, nil
}

// CountOwnership returns how many stored records are sold and how many exist in total
func (s *pgStore) CountOwnership(ctx context.Context) (uint64, uint64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&schema.OwnershipRecord{}).Count(&total).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count ownership records: %w", err)
	}

	var sold int64
	if err := s.db.WithContext(ctx).Model(&schema.OwnershipRecord{}).Where("sold = ?", true).Count(&sold).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count sold records: %w", err)
	}

	return uint64(sold), uint64(total), nil
}

// RecordPurchase journals a purchase event, ignoring duplicates by event ID
func (s *pgStore) RecordPurchase(ctx context.Context, event *domain.PurchaseEvent) (bool, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return false, fmt.Errorf("failed to marshal purchase event: %w", err)
	}

	row := schema.PurchaseEvent{
		EventID:     event.ID,
		TokenNumber: event.TokenNumber,
		Payload:     datatypes.JSON(payload),
	}

	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoNothing: true,
	}).Create(&row)
	if result.Error != nil {
		return false, fmt.Errorf("failed to record purchase: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// GetBlockCursor retrieves the last processed block number
func (s *pgStore) GetBlockCursor(ctx context.Context, name string) (uint64, error) {
	key := fmt.Sprintf("block_cursor:%s", name)

	var kv schema.KeyValueStore
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&kv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil // Return 0 if no cursor exists
		}
		return 0, fmt.Errorf("failed to get block cursor: %w", err)
	}

	blockNumber, err := strconv.ParseUint(kv.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse block cursor: %w", err)
	}

	return blockNumber, nil
}

// SetBlockCursor stores the last processed block number
func (s *pgStore) SetBlockCursor(ctx context.Context, name string, blockNumber uint64) error {
	key := fmt.Sprintf("block_cursor:%s", name)

	kv := schema.KeyValueStore{
		Key:   key,
		Value: strconv.FormatUint(blockNumber, 10),
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&kv).Error
	if err != nil {
		return fmt.Errorf("failed to set block cursor: %w", err)
	}

	return nil
}

func toDomainRecord(row schema.OwnershipRecord) domain.OwnershipRecord {
	return domain.OwnershipRecord{
		TokenNumber: row.TokenNumber,
		Owner:       row.Owner,
		HasOwner:    row.HasOwner,
		Sold:        row.Sold,
		ResolvedAt:  row.ResolvedAt,
	}
}
