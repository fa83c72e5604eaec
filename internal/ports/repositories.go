package ports

import (
	"context"
	"time"

	"github.com/viralforge/chainpay/internal/domain"
)

// EscrowContractRepository is the object-store view of conditional payment
// records: one row per active contract keyed by a store-assigned ID, with
// secondary non-unique indexes on originator and expiration.
type EscrowContractRepository interface {
	// Create persists a new record. A second active record under the same
	// (originator, contract_id) key fails with domain.ErrConflict.
	Create(ctx context.Context, row domain.EscrowContract) error

	// GetByKey looks up an active contract by its (originator, contract_id)
	// key; domain.ErrNotFound if absent.
	GetByKey(ctx context.Context, originator domain.AccountID, contractID uint64) (domain.EscrowContract, error)

	Update(ctx context.Context, row domain.EscrowContract) error
	Remove(ctx context.Context, id string) error

	ListByOriginator(ctx context.Context, originator domain.AccountID) ([]domain.EscrowContract, error)

	// ListExpiringBefore returns contracts with expiration < cutoff in
	// ascending expiration order. This is the maturity-driven access path
	// reserved for sweep-style collaborators.
	ListExpiringBefore(ctx context.Context, cutoff time.Time, limit int) ([]domain.EscrowContract, error)
}

// HTLCContractRepository mirrors the escrow access paths for the HTLC schema.
// Storage only: redeem/refund evaluators are external to this core.
type HTLCContractRepository interface {
	Create(ctx context.Context, row domain.HTLCContract) error
	GetByID(ctx context.Context, id string) (domain.HTLCContract, error)
	Remove(ctx context.Context, id string) error
	ListByOriginator(ctx context.Context, originator domain.AccountID) ([]domain.HTLCContract, error)
	ListExpiringBefore(ctx context.Context, cutoff time.Time, limit int) ([]domain.HTLCContract, error)
}

// IdempotencyRecord caches the outcome of a completed submission.
type IdempotencyRecord struct {
	Key          string
	RequestHash  string
	ResponseCode int
	ResponseBody []byte
	ExpiresAt    time.Time
}

// IdempotencyStore guards the HTTP submission surface against duplicate
// deliveries. It is strictly outside the evaluator core.
type IdempotencyStore interface {
	Get(ctx context.Context, key string, now time.Time) (*IdempotencyRecord, error)
	Reserve(ctx context.Context, key, requestHash string, expiresAt time.Time) error
	Complete(ctx context.Context, key string, responseCode int, responseBody []byte, at time.Time) error
}
