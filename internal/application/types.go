package application

import (
	"time"

	"github.com/viralforge/chainpay/internal/domain"
	"github.com/viralforge/chainpay/internal/evaluator"
	"github.com/viralforge/chainpay/internal/ports"
)

type Config struct {
	ServiceName          string
	IdempotencyTTL       time.Duration
	OutboxFlushBatchSize int
}

// Actor is the authenticated submitter of an operational request. Signature
// verification of the underlying chain operation happens upstream; the actor
// only gates the operational surface.
type Actor struct {
	SubjectID      string
	Role           string
	RequestID      string
	IdempotencyKey string
}

type TransferInput struct {
	Originator  string
	Beneficiary string
	Arbiter     string
	Amount      int64
	AssetKind   string
	Fee         int64
	Expiration  time.Time
	ContractID  uint64
}

type DisputeInput struct {
	Originator  string
	ContractID  uint64
	Beneficiary string
}

type ReleaseInput struct {
	Requester   string
	Originator  string
	ContractID  uint64
	Destination string
	Amount      int64
	AssetKind   string
}

type CreditInput struct {
	Account   string
	Amount    int64
	AssetKind string
}

// ReleaseResult reports the post-apply state of a release; Closed means the
// contract fully drained and the record was deleted.
type ReleaseResult struct {
	ObjectID         string           `json:"object_id"`
	ContractID       uint64           `json:"contract_id"`
	Destination      domain.AccountID `json:"destination"`
	Released         domain.Asset     `json:"released"`
	RemainingBalance int64            `json:"remaining_balance"`
	Closed           bool             `json:"closed"`
}

type Service struct {
	cfg Config

	dispatcher *evaluator.Dispatcher
	ledger     ports.BalanceLedger
	journal    ports.JournalReader
	escrows    ports.EscrowContractRepository
	htlcs      ports.HTLCContractRepository

	idempotency ports.IdempotencyStore
	outbox      ports.OutboxRepository
	publisher   ports.EventPublisher

	nowFn func() time.Time
}

type Dependencies struct {
	Config Config

	Dispatcher *evaluator.Dispatcher
	Ledger     ports.BalanceLedger
	Journal    ports.JournalReader
	Escrows    ports.EscrowContractRepository
	HTLCs      ports.HTLCContractRepository

	Idempotency ports.IdempotencyStore
	Outbox      ports.OutboxRepository
	Publisher   ports.EventPublisher
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.ServiceName == "" {
		cfg.ServiceName = "chainpay-engine"
	}
	if cfg.IdempotencyTTL <= 0 {
		cfg.IdempotencyTTL = 7 * 24 * time.Hour
	}
	if cfg.OutboxFlushBatchSize <= 0 {
		cfg.OutboxFlushBatchSize = 100
	}
	return &Service{
		cfg:         cfg,
		dispatcher:  deps.Dispatcher,
		ledger:      deps.Ledger,
		journal:     deps.Journal,
		escrows:     deps.Escrows,
		htlcs:       deps.HTLCs,
		idempotency: deps.Idempotency,
		outbox:      deps.Outbox,
		publisher:   deps.Publisher,
		nowFn:       func() time.Time { return time.Now().UTC() },
	}
}
