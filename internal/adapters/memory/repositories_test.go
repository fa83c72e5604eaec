package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/viralforge/chainpay/internal/domain"
	"github.com/viralforge/chainpay/internal/ports"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func escrowRow(id string, contractID uint64, expiration time.Time) domain.EscrowContract {
	return domain.EscrowContract{
		ID:          id,
		ContractID:  contractID,
		Originator:  "alice",
		Beneficiary: "bob",
		Arbiter:     "carol",
		Balance:     domain.Asset{Amount: 100, Kind: "CORE"},
		Expiration:  expiration,
		CreatedAt:   t0,
		UpdatedAt:   t0,
	}
}

func TestEscrowRepositoryKeyConflict(t *testing.T) {
	repo := NewEscrowContractRepository()
	ctx := context.Background()

	if err := repo.Create(ctx, escrowRow("obj-1", 1, t0.Add(time.Hour))); err != nil {
		t.Fatalf("Create: %v", err)
	}
	err := repo.Create(ctx, escrowRow("obj-2", 1, t0.Add(time.Hour)))
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate Create: got %v, want %v", err, domain.ErrConflict)
	}

	// Removing the first frees the key.
	if err := repo.Remove(ctx, "obj-1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := repo.Create(ctx, escrowRow("obj-2", 1, t0.Add(time.Hour))); err != nil {
		t.Fatalf("Create after Remove: %v", err)
	}
}

func TestEscrowRepositoryListByOriginatorOrdersByContractID(t *testing.T) {
	repo := NewEscrowContractRepository()
	ctx := context.Background()

	for _, row := range []domain.EscrowContract{
		escrowRow("obj-3", 3, t0.Add(time.Hour)),
		escrowRow("obj-1", 1, t0.Add(time.Hour)),
		escrowRow("obj-2", 2, t0.Add(time.Hour)),
	} {
		if err := repo.Create(ctx, row); err != nil {
			t.Fatalf("Create %s: %v", row.ID, err)
		}
	}

	rows, err := repo.ListByOriginator(ctx, "alice")
	if err != nil {
		t.Fatalf("ListByOriginator: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows: got %d, want 3", len(rows))
	}
	for i, want := range []uint64{1, 2, 3} {
		if rows[i].ContractID != want {
			t.Fatalf("row %d: got contract %d, want %d", i, rows[i].ContractID, want)
		}
	}

	other, err := repo.ListByOriginator(ctx, "mallory")
	if err != nil {
		t.Fatalf("ListByOriginator: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("foreign originator rows: got %d, want 0", len(other))
	}
}

func TestEscrowRepositoryListExpiringBefore(t *testing.T) {
	repo := NewEscrowContractRepository()
	ctx := context.Background()

	for _, row := range []domain.EscrowContract{
		escrowRow("obj-1", 1, t0.Add(3*time.Hour)),
		escrowRow("obj-2", 2, t0.Add(time.Hour)),
		escrowRow("obj-3", 3, t0.Add(2*time.Hour)),
	} {
		if err := repo.Create(ctx, row); err != nil {
			t.Fatalf("Create %s: %v", row.ID, err)
		}
	}

	rows, err := repo.ListExpiringBefore(ctx, t0.Add(150*time.Minute), 10)
	if err != nil {
		t.Fatalf("ListExpiringBefore: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows: got %d, want 2", len(rows))
	}
	if rows[0].ID != "obj-2" || rows[1].ID != "obj-3" {
		t.Fatalf("expiration order: got %s, %s", rows[0].ID, rows[1].ID)
	}

	limited, err := repo.ListExpiringBefore(ctx, t0.Add(24*time.Hour), 1)
	if err != nil {
		t.Fatalf("ListExpiringBefore limited: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != "obj-2" {
		t.Fatalf("limited rows: got %+v", limited)
	}
}

func htlcRow(id string, expiration time.Time) domain.HTLCContract {
	return domain.HTLCContract{
		ID:            id,
		Originator:    "alice",
		Beneficiary:   "bob",
		Amount:        domain.Asset{Amount: 100, Kind: "CORE"},
		Expiration:    expiration,
		PendingFee:    domain.Asset{Amount: 2, Kind: "CORE"},
		PreimageHash:  []byte{0xde, 0xad, 0xbe, 0xef},
		HashAlgorithm: domain.HashSHA256,
		PreimageSize:  32,
		CreatedAt:     t0,
	}
}

func TestHTLCRepositoryCreateGetRemove(t *testing.T) {
	repo := NewHTLCContractRepository()
	ctx := context.Background()

	if err := repo.Create(ctx, htlcRow("htlc-1", t0.Add(time.Hour))); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, htlcRow("htlc-1", t0.Add(2*time.Hour))); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate Create: got %v, want %v", err, domain.ErrConflict)
	}

	row, err := repo.GetByID(ctx, "htlc-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if row.Beneficiary != "bob" || row.HashAlgorithm != domain.HashSHA256 || row.PreimageSize != 32 {
		t.Fatalf("row: got %+v", row)
	}

	if err := repo.Remove(ctx, "htlc-1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := repo.GetByID(ctx, "htlc-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetByID after Remove: got %v, want %v", err, domain.ErrNotFound)
	}
	if err := repo.Remove(ctx, "htlc-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second Remove: got %v, want %v", err, domain.ErrNotFound)
	}
}

func TestHTLCRepositoryListByOriginatorOrdersByID(t *testing.T) {
	repo := NewHTLCContractRepository()
	ctx := context.Background()

	for _, row := range []domain.HTLCContract{
		htlcRow("htlc-3", t0.Add(time.Hour)),
		htlcRow("htlc-1", t0.Add(time.Hour)),
		htlcRow("htlc-2", t0.Add(time.Hour)),
	} {
		if err := repo.Create(ctx, row); err != nil {
			t.Fatalf("Create %s: %v", row.ID, err)
		}
	}

	rows, err := repo.ListByOriginator(ctx, "alice")
	if err != nil {
		t.Fatalf("ListByOriginator: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows: got %d, want 3", len(rows))
	}
	for i, want := range []string{"htlc-1", "htlc-2", "htlc-3"} {
		if rows[i].ID != want {
			t.Fatalf("row %d: got %s, want %s", i, rows[i].ID, want)
		}
	}

	other, err := repo.ListByOriginator(ctx, "mallory")
	if err != nil {
		t.Fatalf("ListByOriginator: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("foreign originator rows: got %d, want 0", len(other))
	}
}

func TestHTLCRepositoryListExpiringBefore(t *testing.T) {
	repo := NewHTLCContractRepository()
	ctx := context.Background()

	for _, row := range []domain.HTLCContract{
		htlcRow("htlc-1", t0.Add(3*time.Hour)),
		htlcRow("htlc-2", t0.Add(time.Hour)),
		htlcRow("htlc-3", t0.Add(2*time.Hour)),
	} {
		if err := repo.Create(ctx, row); err != nil {
			t.Fatalf("Create %s: %v", row.ID, err)
		}
	}

	rows, err := repo.ListExpiringBefore(ctx, t0.Add(150*time.Minute), 10)
	if err != nil {
		t.Fatalf("ListExpiringBefore: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows: got %d, want 2", len(rows))
	}
	if rows[0].ID != "htlc-2" || rows[1].ID != "htlc-3" {
		t.Fatalf("expiration order: got %s, %s", rows[0].ID, rows[1].ID)
	}

	limited, err := repo.ListExpiringBefore(ctx, t0.Add(24*time.Hour), 1)
	if err != nil {
		t.Fatalf("ListExpiringBefore limited: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != "htlc-2" {
		t.Fatalf("limited rows: got %+v", limited)
	}
}

func TestBalanceLedgerRejectsOverdraft(t *testing.T) {
	ledger := NewBalanceLedger()
	ctx := context.Background()

	if err := ledger.AdjustBalance(ctx, "alice", domain.Asset{Amount: 50, Kind: "CORE"}); err != nil {
		t.Fatalf("credit: %v", err)
	}
	err := ledger.AdjustBalance(ctx, "alice", domain.Asset{Amount: -51, Kind: "CORE"})
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("overdraft: got %v, want %v", err, domain.ErrInsufficientFunds)
	}
	if got, _ := ledger.GetBalance(ctx, "alice", "CORE"); got != 50 {
		t.Fatalf("balance after rejected debit: got %d, want 50", got)
	}

	// Balances are per asset kind.
	if got, _ := ledger.GetBalance(ctx, "alice", "USD"); got != 0 {
		t.Fatalf("USD balance: got %d, want 0", got)
	}
}

func TestBalanceLedgerJournal(t *testing.T) {
	ledger := NewBalanceLedger()
	ctx := context.Background()

	_ = ledger.AdjustBalance(ctx, "alice", domain.Asset{Amount: 50, Kind: "CORE"})
	_ = ledger.AdjustBalance(ctx, "alice", domain.Asset{Amount: -20, Kind: "CORE"})
	_ = ledger.AdjustBalance(ctx, "bob", domain.Asset{Amount: 20, Kind: "CORE"})

	entries, err := ledger.ListByAccount(ctx, "alice")
	if err != nil {
		t.Fatalf("ListByAccount: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries: got %d, want 2", len(entries))
	}
	if entries[0].Delta.Amount != 50 || entries[1].Delta.Amount != -20 {
		t.Fatalf("journal deltas: got %d, %d", entries[0].Delta.Amount, entries[1].Delta.Amount)
	}
}

func TestIdempotencyStoreLifecycle(t *testing.T) {
	store := NewIdempotencyStore()
	ctx := context.Background()
	expires := time.Now().UTC().Add(time.Hour)

	if err := store.Reserve(ctx, "key-1", "hash-1", expires); err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if err := store.Reserve(ctx, "key-1", "hash-1", expires); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("second Reserve: got %v, want %v", err, domain.ErrConflict)
	}
	if err := store.Complete(ctx, "key-1", 200, []byte(`{"ok":true}`), time.Now()); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	rec, err := store.Get(ctx, "key-1", time.Now().UTC())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec == nil || rec.RequestHash != "hash-1" || rec.ResponseCode != 200 {
		t.Fatalf("record: got %+v", rec)
	}

	// Expired records vanish.
	stale, err := store.Get(ctx, "key-1", expires.Add(time.Minute))
	if err != nil {
		t.Fatalf("Get expired: %v", err)
	}
	if stale != nil {
		t.Fatalf("expired record returned: %+v", stale)
	}
}

func TestIdempotencyStoreReserveHonorsInjectedClock(t *testing.T) {
	store := NewIdempotencyStore()
	ctx := context.Background()

	clock := t0
	store.nowFn = func() time.Time { return clock }

	if err := store.Reserve(ctx, "key-1", "hash-1", t0.Add(time.Hour)); err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if err := store.Reserve(ctx, "key-1", "hash-2", t0.Add(time.Hour)); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("Reserve before expiry: got %v, want %v", err, domain.ErrConflict)
	}

	// Once the reservation lapses the key is free again.
	clock = t0.Add(time.Hour)
	if err := store.Reserve(ctx, "key-1", "hash-2", clock.Add(time.Hour)); err != nil {
		t.Fatalf("Reserve after expiry: %v", err)
	}
}

func TestOutboxPendingOrderAndMarkSent(t *testing.T) {
	outbox := NewOutboxRepository()
	ctx := context.Background()

	for _, id := range []string{"rec-1", "rec-2", "rec-3"} {
		if err := outbox.Enqueue(ctx, ports.OutboxRecord{RecordID: id, EventClass: "domain", CreatedAt: t0}); err != nil {
			t.Fatalf("Enqueue %s: %v", id, err)
		}
	}
	if err := outbox.MarkSent(ctx, "rec-2", t0.Add(time.Second)); err != nil {
		t.Fatalf("MarkSent: %v", err)
	}

	pending, err := outbox.ListPending(ctx, 10)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("pending: got %d, want 2", len(pending))
	}
	if pending[0].RecordID != "rec-1" || pending[1].RecordID != "rec-3" {
		t.Fatalf("pending order: got %s, %s", pending[0].RecordID, pending[1].RecordID)
	}
}
