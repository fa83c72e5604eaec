// Package evaluator is the consensus-critical core of the conditional-payment
// subsystem. Every operation goes through a two-phase contract: Validate is a
// pure precondition check safe to run speculatively or in parallel, and Apply
// mutates the balance ledger and object store trusting that validation
// already succeeded. Mutation never happens without a preceding successful
// validation, and validation never mutates.
package evaluator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/viralforge/chainpay/internal/domain"
	"github.com/viralforge/chainpay/internal/ports"
)

// Dispatcher routes each operation variant to its evaluator. Process runs the
// validate/apply pair as a critical section: applies against the shared
// ledger and store are strictly sequential because ordering changes outcomes.
type Dispatcher struct {
	mu sync.Mutex

	transfer *TransferEvaluator
	dispute  *DisputeEvaluator
	release  *ReleaseEvaluator
}

func NewDispatcher(ledger ports.BalanceLedger, escrows ports.EscrowContractRepository) *Dispatcher {
	return &Dispatcher{
		transfer: NewTransferEvaluator(ledger, escrows),
		dispute:  NewDisputeEvaluator(escrows),
		release:  NewReleaseEvaluator(ledger, escrows),
	}
}

// Validate runs the pure precondition phase for any operation without taking
// the apply lock. Safe for speculative batch validation.
func (d *Dispatcher) Validate(ctx context.Context, op domain.Operation, now time.Time) error {
	switch o := op.(type) {
	case domain.EscrowTransfer:
		_, err := d.transfer.Validate(ctx, o, now)
		return err
	case domain.EscrowDispute:
		_, err := d.dispute.Validate(ctx, o, now)
		return err
	case domain.EscrowRelease:
		_, err := d.release.Validate(ctx, o, now)
		return err
	default:
		return fmt.Errorf("%w: unknown operation kind %q", domain.ErrInvalidOperation, op.Kind())
	}
}

// Process validates and, only on success, applies a single operation at the
// given ledger time. It returns the store-assigned identifier of the affected
// record.
func (d *Dispatcher) Process(ctx context.Context, op domain.Operation, now time.Time) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch o := op.(type) {
	case domain.EscrowTransfer:
		v, err := d.transfer.Validate(ctx, o, now)
		if err != nil {
			return "", err
		}
		return d.transfer.Apply(ctx, v)
	case domain.EscrowDispute:
		v, err := d.dispute.Validate(ctx, o, now)
		if err != nil {
			return "", err
		}
		return d.dispute.Apply(ctx, v)
	case domain.EscrowRelease:
		v, err := d.release.Validate(ctx, o, now)
		if err != nil {
			return "", err
		}
		return d.release.Apply(ctx, v)
	default:
		return "", fmt.Errorf("%w: unknown operation kind %q", domain.ErrInvalidOperation, op.Kind())
	}
}
