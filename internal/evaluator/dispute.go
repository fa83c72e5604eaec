package evaluator

import (
	"context"
	"time"

	"github.com/viralforge/chainpay/internal/domain"
	"github.com/viralforge/chainpay/internal/ports"
)

// DisputeEvaluator validates and applies escrow dispute operations.
type DisputeEvaluator struct {
	escrows ports.EscrowContractRepository
}

func NewDisputeEvaluator(escrows ports.EscrowContractRepository) *DisputeEvaluator {
	return &DisputeEvaluator{escrows: escrows}
}

// DisputeValidation carries the resolved record from Validate into Apply.
type DisputeValidation struct {
	contract domain.EscrowContract
	now      time.Time
}

// Validate resolves the active contract and checks the dispute preconditions.
// Disputing an already-disputed contract fails; the flag is monotonic and the
// second caller must learn the dispute already exists.
func (e *DisputeEvaluator) Validate(ctx context.Context, op domain.EscrowDispute, now time.Time) (DisputeValidation, error) {
	contract, err := e.escrows.GetByKey(ctx, op.Originator, op.ContractID)
	if err != nil {
		return DisputeValidation{}, err
	}
	if contract.Disputed {
		return DisputeValidation{}, domain.ErrAlreadyDisputed
	}
	if contract.Beneficiary != op.Beneficiary {
		return DisputeValidation{}, domain.ErrPartyMismatch
	}
	return DisputeValidation{contract: contract, now: now}, nil
}

// Apply flips the disputed flag in place. No balance moves.
func (e *DisputeEvaluator) Apply(ctx context.Context, v DisputeValidation) (string, error) {
	contract := v.contract
	contract.Disputed = true
	contract.UpdatedAt = v.now
	if err := e.escrows.Update(ctx, contract); err != nil {
		return "", err
	}
	return contract.ID, nil
}
