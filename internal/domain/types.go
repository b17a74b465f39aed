package domain

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/oklog/ulid/v2"
)

// eventEntropy is shared across all event constructions. A per-event source
// seeded from the timestamp would hand identical IDs to events that share a
// timestamp, and block header times have second granularity.
var (
	eventEntropyMu sync.Mutex
	eventEntropy   = ulid.Monotonic(rand.Reader, 0)
)

func newEventID(timestamp time.Time) string {
	eventEntropyMu.Lock()
	defer eventEntropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(timestamp), eventEntropy).String()
}

// Attribute is a single static trait of a token (e.g. "Jersey" = "Pinstripe")
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// Token is the immutable static record for one piece of the collection.
// Loaded once from the bundled metadata file and never mutated.
type Token struct {
	TokenNumber uint64      `json:"token_number"`
	Name        string      `json:"name"`
	RarityTier  string      `json:"rarity_tier"`
	RarityRank  uint64      `json:"rarity_rank"`
	Attributes  []Attribute `json:"attributes"`
	ImageRef    string      `json:"image_ref"`
	PriceWei    string      `json:"price_wei"`
}

// Attribute returns the value of the named trait, or "" if the token does not carry it
func (t *Token) Attribute(traitType string) string {
	for _, a := range t.Attributes {
		if strings.EqualFold(a.TraitType, traitType) {
			return a.Value
		}
	}
	return ""
}

// OwnershipRecord is the resolved on-chain state for one token. Overwritten on
// each refresh; records older than the cache TTL are served only as stale.
type OwnershipRecord struct {
	TokenNumber uint64    `json:"token_number"`
	Owner       string    `json:"owner"`
	HasOwner    bool      `json:"has_owner"`
	Sold        bool      `json:"sold"`
	ResolvedAt  time.Time `json:"resolved_at"`
}

// NewOwnershipRecord derives the sold flag from the resolved owner. A token
// still held by the marketplace wallet is live; anything else, including the
// no-owner sentinel for burned or never-minted tokens, counts as sold since it
// cannot be bought.
func NewOwnershipRecord(tokenNumber uint64, owner string, marketplaceWallet string, resolvedAt time.Time) OwnershipRecord {
	record := OwnershipRecord{
		TokenNumber: tokenNumber,
		ResolvedAt:  resolvedAt,
	}

	if owner == "" || strings.EqualFold(owner, ETHEREUM_ZERO_ADDRESS) {
		record.Sold = true
		return record
	}

	record.Owner = NormalizeAddress(owner)
	record.HasOwner = true
	record.Sold = !strings.EqualFold(record.Owner, marketplaceWallet)
	return record
}

// Age returns how long ago the record was resolved
func (r OwnershipRecord) Age(now time.Time) time.Duration {
	return now.Sub(r.ResolvedAt)
}

// AggregateCounts are the collection-wide live/sold totals. Derived from the
// ownership records; Live+Sold equals the total supply at settled snapshots.
type AggregateCounts struct {
	Live       uint64    `json:"live"`
	Sold       uint64    `json:"sold"`
	ComputedAt time.Time `json:"computed_at"`
}

// Total returns the supply covered by this snapshot
func (c AggregateCounts) Total() uint64 {
	return c.Live + c.Sold
}

// PurchaseEvent is the ephemeral message broadcast after a confirmed buy. It
// exists only on the bus and the NATS stream for the duration of delivery.
type PurchaseEvent struct {
	ID          string    `json:"id"`
	TokenNumber uint64    `json:"token_number"`
	Buyer       string    `json:"buyer"`
	PriceWei    string    `json:"price_wei"`
	TxHash      string    `json:"tx_hash"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewPurchaseEvent creates a purchase event with a fresh ULID. Event IDs sort
// by creation time, which gives consumers a cheap dedupe/ordering key.
func NewPurchaseEvent(tokenNumber uint64, buyer string, priceWei string, txHash string, timestamp time.Time) PurchaseEvent {
	return PurchaseEvent{
		ID:          newEventID(timestamp),
		TokenNumber: tokenNumber,
		Buyer:       NormalizeAddress(buyer),
		PriceWei:    priceWei,
		TxHash:      txHash,
		Timestamp:   timestamp,
	}
}

// Valid checks the event carries a plausible buyer and timestamp
func (e *PurchaseEvent) Valid() bool {
	if e.ID == "" {
		return false
	}
	if e.Buyer == "" || !common.IsHexAddress(e.Buyer) {
		return false
	}
	if strings.EqualFold(e.Buyer, ETHEREUM_ZERO_ADDRESS) {
		return false
	}
	return !e.Timestamp.IsZero()
}

// NormalizeAddress normalizes an Ethereum address to its checksum form
func NormalizeAddress(address string) string {
	if strings.HasPrefix(address, "0x") {
		return common.HexToAddress(address).String()
	}
	return address
}

// SameAddress compares two addresses ignoring checksum casing
func SameAddress(a, b string) bool {
	return strings.EqualFold(a, b)
}
