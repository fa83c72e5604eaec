package evaluator

import (
	"context"
	"testing"
	"time"

	"github.com/viralforge/chainpay/internal/adapters/memory"
	"github.com/viralforge/chainpay/internal/domain"
)

const coreAsset = domain.AssetKind("CORE")

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type harness struct {
	ledger     *memory.BalanceLedger
	escrows    *memory.EscrowContractRepository
	dispatcher *Dispatcher
}

func newHarness() *harness {
	ledger := memory.NewBalanceLedger()
	escrows := memory.NewEscrowContractRepository()
	return &harness{
		ledger:     ledger,
		escrows:    escrows,
		dispatcher: NewDispatcher(ledger, escrows),
	}
}

func (h *harness) fund(t *testing.T, account domain.AccountID, amount int64) {
	t.Helper()
	err := h.ledger.AdjustBalance(context.Background(), account, domain.Asset{Amount: amount, Kind: coreAsset})
	if err != nil {
		t.Fatalf("fund %s: %v", account, err)
	}
}

func (h *harness) balance(t *testing.T, account domain.AccountID) int64 {
	t.Helper()
	b, err := h.ledger.GetBalance(context.Background(), account, coreAsset)
	if err != nil {
		t.Fatalf("balance %s: %v", account, err)
	}
	return b
}

func (h *harness) contract(t *testing.T, originator domain.AccountID, contractID uint64) domain.EscrowContract {
	t.Helper()
	c, err := h.escrows.GetByKey(context.Background(), originator, contractID)
	if err != nil {
		t.Fatalf("get contract %d for %s: %v", contractID, originator, err)
	}
	return c
}

func core(amount int64) domain.Asset {
	return domain.Asset{Amount: amount, Kind: coreAsset}
}

func transferOp(contractID uint64, amount, fee int64) domain.EscrowTransfer {
	return domain.EscrowTransfer{
		Originator:  "alice",
		Beneficiary: "bob",
		Arbiter:     "carol",
		Amount:      core(amount),
		Fee:         core(fee),
		Expiration:  baseTime.Add(10 * time.Minute),
		ContractID:  contractID,
	}
}
