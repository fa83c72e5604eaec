package domain

import "fmt"

// AccountID identifies a ledger account. Accounts are opaque to this core;
// resolution and signature checks happen upstream.
type AccountID string

// AssetKind tags an amount with the asset it denominates.
type AssetKind string

// Asset is a quantity of a single asset kind. Amounts are integer base units;
// every node must compute identical results, so no floating point anywhere.
type Asset struct {
	Amount int64
	Kind   AssetKind
}

func (a Asset) IsZero() bool { return a.Amount == 0 }

// SameKind reports whether both amounts denominate the same asset.
func (a Asset) SameKind(b Asset) bool { return a.Kind == b.Kind }

// Negated returns the debit form of the amount.
func (a Asset) Negated() Asset { return Asset{Amount: -a.Amount, Kind: a.Kind} }

// Sub returns a minus b. Callers must have verified kinds match; a kind
// mismatch here is a programming error, not a validation failure.
func (a Asset) Sub(b Asset) (Asset, error) {
	if !a.SameKind(b) {
		return Asset{}, fmt.Errorf("%w: %s vs %s", ErrInvalidAmount, a.Kind, b.Kind)
	}
	return Asset{Amount: a.Amount - b.Amount, Kind: a.Kind}, nil
}

func (a Asset) String() string { return fmt.Sprintf("%d %s", a.Amount, a.Kind) }
