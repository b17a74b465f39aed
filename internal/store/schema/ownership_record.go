package schema

import (
	"time"
)

// OwnershipRecord represents the ownership_records table - the durable copy of
// the per-token ownership cache
type OwnershipRecord struct {
	// TokenNumber is the token's position in the collection
	TokenNumber uint64 `gorm:"column:token_number;primaryKey"`
	// Owner is the checksummed owner address, empty when the token has no resolvable owner
	Owner string `gorm:"column:owner;not null;type:text"`
	// HasOwner is false for burned or otherwise unresolvable tokens
	HasOwner bool `gorm:"column:has_owner;not null"`
	// Sold is true when the owner is not the marketplace wallet
	Sold bool `gorm:"column:sold;not null"`
	// ResolvedAt is the timestamp of the resolution that produced this record
	ResolvedAt time.Time `gorm:"column:resolved_at;not null;type:timestamptz"`
	// UpdatedAt is the timestamp when this row was last written
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the OwnershipRecord model
func (OwnershipRecord) TableName() string {
	return "ownership_records"
}
