package rest

import (
	"time"

	"github.com/satoshe-sluggers/ownership-indexer/internal/domain"
	"github.com/satoshe-sluggers/ownership-indexer/internal/ownership"
)

// OwnershipDTO is the sale-status slice of a token response. Stale marks
// records past their TTL that are served while a background revalidation runs.
type OwnershipDTO struct {
	Sold       bool      `json:"sold"`
	Owner      string    `json:"owner,omitempty"`
	HasOwner   bool      `json:"has_owner"`
	ResolvedAt time.Time `json:"resolved_at"`
	Stale      bool      `json:"stale"`
}

// TokenDTO merges the static catalog record with resolved ownership. Ownership
// is omitted when no tier could resolve the token and nothing is cached; the
// storefront falls back to the buyable presentation.
type TokenDTO struct {
	domain.Token
	Ownership *OwnershipDTO `json:"ownership,omitempty"`
}

// ListTokensResponse is the paginated grid payload
type ListTokensResponse struct {
	Items  []TokenDTO `json:"items"`
	Total  int        `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}

// CountsResponse is the aggregate live/sold payload
type CountsResponse struct {
	Live       uint64    `json:"live"`
	Sold       uint64    `json:"sold"`
	Total      uint64    `json:"total"`
	ComputedAt time.Time `json:"computed_at"`
}

// PurchaseRequest is the wallet layer's confirmation callback body
type PurchaseRequest struct {
	TokenNumber uint64 `json:"token_number"`
	Buyer       string `json:"buyer" binding:"required"`
	PriceWei    string `json:"price_wei"`
	TxHash      string `json:"tx_hash"`
}

// PurchaseResponse acknowledges an accepted purchase event
type PurchaseResponse struct {
	EventID string `json:"event_id"`
}

// RefreshRequest names the tokens to force re-resolve
type RefreshRequest struct {
	TokenNumbers []uint64 `json:"token_numbers"`
}

// RefreshResponse reports how many tokens were re-resolved
type RefreshResponse struct {
	Refreshed int `json:"refreshed"`
}

// newTokenDTO builds the merged response for one token
func newTokenDTO(token *domain.Token, snapshot ownership.Snapshot) TokenDTO {
	dto := TokenDTO{Token: *token}

	if record, ok := snapshot.Fresh[token.TokenNumber]; ok {
		dto.Ownership = newOwnershipDTO(record, false)
	} else if record, ok := snapshot.Stale[token.TokenNumber]; ok {
		dto.Ownership = newOwnershipDTO(record, true)
	}

	return dto
}

func newOwnershipDTO(record domain.OwnershipRecord, stale bool) *OwnershipDTO {
	return &OwnershipDTO{
		Sold:       record.Sold,
		Owner:      record.Owner,
		HasOwner:   record.HasOwner,
		ResolvedAt: record.ResolvedAt,
		Stale:      stale,
	}
}
