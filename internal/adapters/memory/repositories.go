package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/viralforge/chainpay/internal/domain"
	"github.com/viralforge/chainpay/internal/ports"
)

type escrowKey struct {
	originator domain.AccountID
	contractID uint64
}

// EscrowContractRepository keeps active contracts in maps with the same
// access paths the postgres adapter indexes: primary id, (originator,
// contract_id), and expiration ordering.
type EscrowContractRepository struct {
	mu    sync.Mutex
	byID  map[string]domain.EscrowContract
	byKey map[escrowKey]string
}

func NewEscrowContractRepository() *EscrowContractRepository {
	return &EscrowContractRepository{
		byID:  map[string]domain.EscrowContract{},
		byKey: map[escrowKey]string{},
	}
}

func (r *EscrowContractRepository) Create(_ context.Context, row domain.EscrowContract) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := escrowKey{originator: row.Originator, contractID: row.ContractID}
	if _, ok := r.byKey[key]; ok {
		return domain.ErrConflict
	}
	if _, ok := r.byID[row.ID]; ok {
		return domain.ErrConflict
	}
	r.byID[row.ID] = row
	r.byKey[key] = row.ID
	return nil
}

func (r *EscrowContractRepository) GetByKey(_ context.Context, originator domain.AccountID, contractID uint64) (domain.EscrowContract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byKey[escrowKey{originator: originator, contractID: contractID}]
	if !ok {
		return domain.EscrowContract{}, domain.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *EscrowContractRepository) Update(_ context.Context, row domain.EscrowContract) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[row.ID]; !ok {
		return domain.ErrNotFound
	}
	r.byID[row.ID] = row
	return nil
}

func (r *EscrowContractRepository) Remove(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	delete(r.byKey, escrowKey{originator: row.Originator, contractID: row.ContractID})
	return nil
}

func (r *EscrowContractRepository) ListByOriginator(_ context.Context, originator domain.AccountID) ([]domain.EscrowContract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.EscrowContract, 0)
	for _, row := range r.byID {
		if row.Originator == originator {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ContractID < out[j].ContractID })
	return out, nil
}

func (r *EscrowContractRepository) ListExpiringBefore(_ context.Context, cutoff time.Time, limit int) ([]domain.EscrowContract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.EscrowContract, 0)
	for _, row := range r.byID {
		if row.Expiration.Before(cutoff) {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Expiration.Equal(out[j].Expiration) {
			return out[i].Expiration.Before(out[j].Expiration)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// HTLCContractRepository mirrors the escrow access paths for HTLC rows.
type HTLCContractRepository struct {
	mu   sync.Mutex
	byID map[string]domain.HTLCContract
}

func NewHTLCContractRepository() *HTLCContractRepository {
	return &HTLCContractRepository{byID: map[string]domain.HTLCContract{}}
}

func (r *HTLCContractRepository) Create(_ context.Context, row domain.HTLCContract) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[row.ID]; ok {
		return domain.ErrConflict
	}
	r.byID[row.ID] = row
	return nil
}

func (r *HTLCContractRepository) GetByID(_ context.Context, id string) (domain.HTLCContract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.byID[id]
	if !ok {
		return domain.HTLCContract{}, domain.ErrNotFound
	}
	return row, nil
}

func (r *HTLCContractRepository) Remove(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *HTLCContractRepository) ListByOriginator(_ context.Context, originator domain.AccountID) ([]domain.HTLCContract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.HTLCContract, 0)
	for _, row := range r.byID {
		if row.Originator == originator {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *HTLCContractRepository) ListExpiringBefore(_ context.Context, cutoff time.Time, limit int) ([]domain.HTLCContract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.HTLCContract, 0)
	for _, row := range r.byID {
		if row.Expiration.Before(cutoff) {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Expiration.Equal(out[j].Expiration) {
			return out[i].Expiration.Before(out[j].Expiration)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// IdempotencyStore caches submission outcomes with TTL expiry.
type IdempotencyStore struct {
	mu    sync.Mutex
	rows  map[string]ports.IdempotencyRecord
	nowFn func() time.Time
}

func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{
		rows:  map[string]ports.IdempotencyRecord{},
		nowFn: func() time.Time { return time.Now().UTC() },
	}
}

func (s *IdempotencyStore) Get(_ context.Context, key string, now time.Time) (*ports.IdempotencyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[key]
	if !ok {
		return nil, nil
	}
	if now.After(row.ExpiresAt) {
		delete(s.rows, key)
		return nil, nil
	}
	c := row
	c.ResponseBody = append([]byte(nil), row.ResponseBody...)
	return &c, nil
}

func (s *IdempotencyStore) Reserve(_ context.Context, key, requestHash string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if row, ok := s.rows[key]; ok && s.nowFn().Before(row.ExpiresAt) {
		return domain.ErrConflict
	}
	s.rows[key] = ports.IdempotencyRecord{Key: key, RequestHash: requestHash, ExpiresAt: expiresAt}
	return nil
}

func (s *IdempotencyStore) Complete(_ context.Context, key string, responseCode int, responseBody []byte, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[key]
	if !ok {
		return domain.ErrNotFound
	}
	row.ResponseCode = responseCode
	row.ResponseBody = append([]byte(nil), responseBody...)
	s.rows[key] = row
	return nil
}

// OutboxRepository keeps enqueued events in insertion order.
type OutboxRepository struct {
	mu    sync.Mutex
	rows  map[string]ports.OutboxRecord
	order []string
}

func NewOutboxRepository() *OutboxRepository {
	return &OutboxRepository{rows: map[string]ports.OutboxRecord{}, order: []string{}}
}

func (r *OutboxRepository) Enqueue(_ context.Context, record ports.OutboxRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[record.RecordID]; ok {
		return domain.ErrConflict
	}
	r.rows[record.RecordID] = record
	r.order = append(r.order, record.RecordID)
	return nil
}

func (r *OutboxRepository) ListPending(_ context.Context, limit int) ([]ports.OutboxRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 {
		limit = 100
	}
	out := make([]ports.OutboxRecord, 0, limit)
	for _, id := range r.order {
		row, ok := r.rows[id]
		if !ok || row.SentAt != nil {
			continue
		}
		out = append(out, row)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *OutboxRepository) MarkSent(_ context.Context, recordID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[recordID]
	if !ok {
		return domain.ErrNotFound
	}
	row.SentAt = &at
	r.rows[recordID] = row
	return nil
}
