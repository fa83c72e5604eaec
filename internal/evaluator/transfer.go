package evaluator

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/viralforge/chainpay/internal/domain"
	"github.com/viralforge/chainpay/internal/ports"
)

// TransferEvaluator validates and applies escrow transfer operations.
type TransferEvaluator struct {
	ledger  ports.BalanceLedger
	escrows ports.EscrowContractRepository
	newID   func() string
}

func NewTransferEvaluator(ledger ports.BalanceLedger, escrows ports.EscrowContractRepository) *TransferEvaluator {
	return &TransferEvaluator{ledger: ledger, escrows: escrows, newID: uuid.NewString}
}

// TransferValidation carries the outcome of a successful Validate into Apply.
type TransferValidation struct {
	op  domain.EscrowTransfer
	now time.Time
}

// Validate checks every transfer precondition without mutating anything.
// Ledger time is an input so validation is replayable on every node.
//
// The three party identifiers need not be distinct; the protocol deliberately
// permits originator == beneficiary and similar arrangements.
func (e *TransferEvaluator) Validate(ctx context.Context, op domain.EscrowTransfer, now time.Time) (TransferValidation, error) {
	// A zero or negative transfer would create a record the balance
	// invariant forbids.
	if op.Amount.Amount <= 0 {
		return TransferValidation{}, domain.ErrInvalidOperation
	}
	if op.Fee.Amount < 0 {
		return TransferValidation{}, domain.ErrInvalidOperation
	}
	if op.Fee.Amount > 0 && !op.Fee.SameKind(op.Amount) {
		return TransferValidation{}, domain.ErrInvalidOperation
	}
	if !op.Expiration.After(now) {
		return TransferValidation{}, domain.ErrInvalidOperation
	}

	if _, err := e.escrows.GetByKey(ctx, op.Originator, op.ContractID); err == nil {
		// The active-contract key must stay unique or later lookups
		// become ambiguous.
		return TransferValidation{}, domain.ErrInvalidOperation
	} else if !errors.Is(err, domain.ErrNotFound) {
		return TransferValidation{}, err
	}

	balance, err := e.ledger.GetBalance(ctx, op.Originator, op.Amount.Kind)
	if err != nil {
		return TransferValidation{}, err
	}
	// Checked as two subtractions: amount+fee can wrap past MaxInt64, and a
	// wrapped sum would pass the comparison on an underfunded account.
	if balance < op.Amount.Amount || balance-op.Amount.Amount < op.Fee.Amount {
		return TransferValidation{}, domain.ErrInsufficientFunds
	}

	return TransferValidation{op: op, now: now}, nil
}

// Apply moves the funds and creates the record. It trusts that Validate
// succeeded against the current state; the enclosing transaction boundary
// makes the debits and the create atomic.
func (e *TransferEvaluator) Apply(ctx context.Context, v TransferValidation) (string, error) {
	op := v.op

	if op.Fee.Amount > 0 {
		if err := e.ledger.AdjustBalance(ctx, op.Originator, op.Fee.Negated()); err != nil {
			return "", err
		}
		if err := e.ledger.AdjustBalance(ctx, op.Arbiter, op.Fee); err != nil {
			return "", err
		}
	}
	if err := e.ledger.AdjustBalance(ctx, op.Originator, op.Amount.Negated()); err != nil {
		return "", err
	}

	row := domain.EscrowContract{
		ID:          e.newID(),
		ContractID:  op.ContractID,
		Originator:  op.Originator,
		Beneficiary: op.Beneficiary,
		Arbiter:     op.Arbiter,
		Balance:     op.Amount,
		Expiration:  op.Expiration,
		Disputed:    false,
		CreatedAt:   v.now,
		UpdatedAt:   v.now,
	}
	if err := e.escrows.Create(ctx, row); err != nil {
		return "", err
	}
	return row.ID, nil
}
