package domain

import "time"

// OperationKind tags each variant of the operation union.
type OperationKind string

const (
	OpEscrowTransfer OperationKind = "escrow_transfer"
	OpEscrowDispute  OperationKind = "escrow_dispute"
	OpEscrowRelease  OperationKind = "escrow_release"
)

// Operation is the closed union of conditional-payment operations. The
// dispatcher switches exhaustively over the concrete types; the unexported
// method keeps the union closed so a new variant forces the switch to be
// revisited.
type Operation interface {
	Kind() OperationKind
	operation()
}

// EscrowTransfer funds a new conditional payment contract.
type EscrowTransfer struct {
	Originator  AccountID
	Beneficiary AccountID
	Arbiter     AccountID

	Amount Asset
	// Fee is paid to the arbiter for arbitration service. It must share the
	// transfer's asset kind unless zero.
	Fee Asset

	Expiration time.Time
	ContractID uint64
}

func (EscrowTransfer) Kind() OperationKind { return OpEscrowTransfer }
func (EscrowTransfer) operation()          {}

// EscrowDispute flags an active contract as disputed, enabling arbiter-mediated
// release while the contract is active.
type EscrowDispute struct {
	Originator AccountID
	ContractID uint64
	// Beneficiary is asserted by the caller and must match the record.
	Beneficiary AccountID
}

func (EscrowDispute) Kind() OperationKind { return OpEscrowDispute }
func (EscrowDispute) operation()          {}

// EscrowRelease moves part or all of a contract's balance to a destination
// account, subject to the phase authorization table.
type EscrowRelease struct {
	// Requester is the account invoking the release.
	Requester  AccountID
	Originator AccountID
	ContractID uint64

	Destination AccountID
	Amount      Asset
}

func (EscrowRelease) Kind() OperationKind { return OpEscrowRelease }
func (EscrowRelease) operation()          {}
