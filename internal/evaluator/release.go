package evaluator

import (
	"context"
	"time"

	"github.com/viralforge/chainpay/internal/domain"
	"github.com/viralforge/chainpay/internal/ports"
)

// ReleaseEvaluator validates and applies escrow release operations.
type ReleaseEvaluator struct {
	ledger  ports.BalanceLedger
	escrows ports.EscrowContractRepository
}

func NewReleaseEvaluator(ledger ports.BalanceLedger, escrows ports.EscrowContractRepository) *ReleaseEvaluator {
	return &ReleaseEvaluator{ledger: ledger, escrows: escrows}
}

// ReleaseValidation carries the resolved record from Validate into Apply.
type ReleaseValidation struct {
	op       domain.EscrowRelease
	contract domain.EscrowContract
	now      time.Time
}

// Contract exposes the resolved record so callers can report post-apply state.
func (v ReleaseValidation) Contract() domain.EscrowContract { return v.contract }

// Validate resolves the contract, checks the amount, and evaluates the phase
// authorization table against ledger time.
//
// While the contract is active, a party may only release toward the opposite
// party; anyone else needs a raised dispute and must be the arbiter. Once
// matured, either party may release. The arbiter and matured branches
// deliberately leave the destination unconstrained: arbiter discretion while
// disputed, and the maturity dead-man's-switch, both permit directing funds
// to an arbitrary account. Preserved as-is pending product confirmation.
func (e *ReleaseEvaluator) Validate(ctx context.Context, op domain.EscrowRelease, now time.Time) (ReleaseValidation, error) {
	contract, err := e.escrows.GetByKey(ctx, op.Originator, op.ContractID)
	if err != nil {
		return ReleaseValidation{}, err
	}

	// The balance invariant requires every successful release to strictly
	// decrease the held amount.
	if op.Amount.Amount <= 0 {
		return ReleaseValidation{}, domain.ErrInvalidAmount
	}
	if !op.Amount.SameKind(contract.Balance) {
		return ReleaseValidation{}, domain.ErrInvalidAmount
	}
	if op.Amount.Amount > contract.Balance.Amount {
		return ReleaseValidation{}, domain.ErrInvalidAmount
	}

	if !contract.Matured(now) {
		switch {
		case op.Requester == contract.Originator:
			if op.Destination != contract.Beneficiary {
				return ReleaseValidation{}, domain.ErrNotAuthorized
			}
		case op.Requester == contract.Beneficiary:
			if op.Destination != contract.Originator {
				return ReleaseValidation{}, domain.ErrNotAuthorized
			}
		default:
			if !contract.Disputed || op.Requester != contract.Arbiter {
				return ReleaseValidation{}, domain.ErrNotAuthorized
			}
		}
	} else {
		if op.Requester != contract.Beneficiary && op.Requester != contract.Originator {
			return ReleaseValidation{}, domain.ErrNotAuthorized
		}
	}

	return ReleaseValidation{op: op, contract: contract, now: now}, nil
}

// Apply credits the destination and drains the contract. A full release
// deletes the record; a partial one decrements the balance in place and the
// contract stays live under the same phase rules.
func (e *ReleaseEvaluator) Apply(ctx context.Context, v ReleaseValidation) (string, error) {
	op := v.op
	contract := v.contract

	if err := e.ledger.AdjustBalance(ctx, op.Destination, op.Amount); err != nil {
		return "", err
	}

	if contract.Balance.Amount == op.Amount.Amount {
		if err := e.escrows.Remove(ctx, contract.ID); err != nil {
			return "", err
		}
		return contract.ID, nil
	}

	remaining, err := contract.Balance.Sub(op.Amount)
	if err != nil {
		return "", err
	}
	contract.Balance = remaining
	contract.UpdatedAt = v.now
	if err := e.escrows.Update(ctx, contract); err != nil {
		return "", err
	}
	return contract.ID, nil
}
