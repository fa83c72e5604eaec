package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/viralforge/chainpay/internal/domain"
)

type balanceKey struct {
	account domain.AccountID
	kind    domain.AssetKind
}

// BalanceLedger is an in-memory account ledger with an appended journal.
// Used by tests and the local runtime when no database is configured.
type BalanceLedger struct {
	mu       sync.Mutex
	balances map[balanceKey]int64
	journal  []domain.JournalEntry
	nowFn    func() time.Time
}

func NewBalanceLedger() *BalanceLedger {
	return &BalanceLedger{
		balances: map[balanceKey]int64{},
		nowFn:    func() time.Time { return time.Now().UTC() },
	}
}

func (l *BalanceLedger) GetBalance(_ context.Context, account domain.AccountID, kind domain.AssetKind) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[balanceKey{account: account, kind: kind}], nil
}

func (l *BalanceLedger) AdjustBalance(_ context.Context, account domain.AccountID, delta domain.Asset) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := balanceKey{account: account, kind: delta.Kind}
	next := l.balances[key] + delta.Amount
	if next < 0 {
		return domain.ErrInsufficientFunds
	}
	l.balances[key] = next
	l.journal = append(l.journal, domain.JournalEntry{
		EntryID:    uuid.NewString(),
		Account:    account,
		Delta:      delta,
		OccurredAt: l.nowFn(),
	})
	return nil
}

func (l *BalanceLedger) ListByAccount(_ context.Context, account domain.AccountID) ([]domain.JournalEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.JournalEntry, 0)
	for _, e := range l.journal {
		if e.Account == account {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OccurredAt.Before(out[j].OccurredAt) })
	return out, nil
}
