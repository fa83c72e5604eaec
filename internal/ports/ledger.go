package ports

import (
	"context"

	"github.com/viralforge/chainpay/internal/domain"
)

// BalanceLedger is the external account balance ledger. All debits and
// credits performed by the evaluators go through it.
type BalanceLedger interface {
	// GetBalance returns the account's balance in the given asset kind.
	// Unknown accounts hold zero of everything.
	GetBalance(ctx context.Context, account domain.AccountID, kind domain.AssetKind) (int64, error)

	// AdjustBalance applies a signed delta: negative debits, positive
	// credits. A debit that would make the balance negative fails with
	// domain.ErrInsufficientFunds and leaves the balance untouched.
	AdjustBalance(ctx context.Context, account domain.AccountID, delta domain.Asset) error
}

// JournalReader exposes the audit trail of balance movements kept by ledger
// adapters.
type JournalReader interface {
	ListByAccount(ctx context.Context, account domain.AccountID) ([]domain.JournalEntry, error)
}
