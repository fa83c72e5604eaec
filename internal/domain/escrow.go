package domain

import "time"

// EscrowContract is a conditional payment record: funds moved out of the
// originator's balance, releasable under the three-phase authorization rules
// enforced by the release evaluator.
//
// The record carries two identifiers. ID is the opaque store-assigned object
// identifier. ContractID is supplied by the originator with the transfer
// operation; the lookup key for an active contract is (Originator, ContractID)
// and is unique among active contracts.
type EscrowContract struct {
	ID         string
	ContractID uint64

	Originator  AccountID
	Beneficiary AccountID
	Arbiter     AccountID

	// Balance is the fraction of the original transfer still held. It is
	// always > 0 for a persisted record: a full release deletes the record.
	Balance Asset

	// Expiration is absolute ledger time. At or after this instant the
	// contract is matured and either party may release.
	Expiration time.Time

	// Disputed transitions false->true exactly once and never resets.
	Disputed bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Matured reports whether the contract has passed its expiration at the given
// ledger time.
func (c EscrowContract) Matured(now time.Time) bool {
	return !now.Before(c.Expiration)
}

// JournalEntry is one balance movement recorded by the ledger adapters.
// Entries are an audit trail; contract state never derives from them.
type JournalEntry struct {
	EntryID    string
	Account    AccountID
	Delta      Asset
	OccurredAt time.Time
}
