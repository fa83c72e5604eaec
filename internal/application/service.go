package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"

	"github.com/viralforge/chainpay/internal/domain"
)

// Transfer submits an escrow transfer operation: validate, apply, emit.
// The returned record is the freshly created conditional payment contract.
func (s *Service) Transfer(ctx context.Context, actor Actor, input TransferInput) (domain.EscrowContract, error) {
	if err := requireActor(actor); err != nil {
		return domain.EscrowContract{}, err
	}
	input.Originator = strings.TrimSpace(input.Originator)
	input.Beneficiary = strings.TrimSpace(input.Beneficiary)
	input.Arbiter = strings.TrimSpace(input.Arbiter)
	input.AssetKind = strings.TrimSpace(input.AssetKind)
	if input.Originator == "" || input.Beneficiary == "" || input.Arbiter == "" || input.AssetKind == "" {
		return domain.EscrowContract{}, domain.ErrInvalidInput
	}

	requestHash := hashJSON(input)
	if cached, ok, err := s.getIdempotentContract(ctx, actor.IdempotencyKey, requestHash); err != nil {
		return domain.EscrowContract{}, err
	} else if ok {
		return cached, nil
	}
	if err := s.reserveIdempotency(ctx, actor.IdempotencyKey, requestHash); err != nil {
		return domain.EscrowContract{}, err
	}

	op := domain.EscrowTransfer{
		Originator:  domain.AccountID(input.Originator),
		Beneficiary: domain.AccountID(input.Beneficiary),
		Arbiter:     domain.AccountID(input.Arbiter),
		Amount:      domain.Asset{Amount: input.Amount, Kind: domain.AssetKind(input.AssetKind)},
		Fee:         domain.Asset{Amount: input.Fee, Kind: domain.AssetKind(input.AssetKind)},
		Expiration:  input.Expiration,
		ContractID:  input.ContractID,
	}
	now := s.nowFn()
	if _, err := s.dispatcher.Process(ctx, op, now); err != nil {
		return domain.EscrowContract{}, err
	}

	contract, err := s.escrows.GetByKey(ctx, op.Originator, op.ContractID)
	if err != nil {
		return domain.EscrowContract{}, err
	}
	if err := s.enqueueTransferCreated(ctx, contract, op.Fee, actor.RequestID, now); err != nil {
		return domain.EscrowContract{}, err
	}
	_ = s.completeIdempotencyJSON(ctx, actor.IdempotencyKey, 200, contract)
	return contract, nil
}

// Dispute submits an escrow dispute operation. On success the contract's
// disputed flag is set; a second dispute fails with ErrAlreadyDisputed.
func (s *Service) Dispute(ctx context.Context, actor Actor, input DisputeInput) (domain.EscrowContract, error) {
	if err := requireActor(actor); err != nil {
		return domain.EscrowContract{}, err
	}
	input.Originator = strings.TrimSpace(input.Originator)
	input.Beneficiary = strings.TrimSpace(input.Beneficiary)
	if input.Originator == "" || input.Beneficiary == "" {
		return domain.EscrowContract{}, domain.ErrInvalidInput
	}

	requestHash := hashJSON(input)
	if cached, ok, err := s.getIdempotentContract(ctx, actor.IdempotencyKey, requestHash); err != nil {
		return domain.EscrowContract{}, err
	} else if ok {
		return cached, nil
	}
	if err := s.reserveIdempotency(ctx, actor.IdempotencyKey, requestHash); err != nil {
		return domain.EscrowContract{}, err
	}

	op := domain.EscrowDispute{
		Originator:  domain.AccountID(input.Originator),
		ContractID:  input.ContractID,
		Beneficiary: domain.AccountID(input.Beneficiary),
	}
	now := s.nowFn()
	if _, err := s.dispatcher.Process(ctx, op, now); err != nil {
		return domain.EscrowContract{}, err
	}

	contract, err := s.escrows.GetByKey(ctx, op.Originator, op.ContractID)
	if err != nil {
		return domain.EscrowContract{}, err
	}
	if err := s.enqueueDisputed(ctx, contract, actor.RequestID, now); err != nil {
		return domain.EscrowContract{}, err
	}
	_ = s.completeIdempotencyJSON(ctx, actor.IdempotencyKey, 200, contract)
	return contract, nil
}

// Release submits an escrow release operation and reports the post-apply
// contract state.
func (s *Service) Release(ctx context.Context, actor Actor, input ReleaseInput) (ReleaseResult, error) {
	if err := requireActor(actor); err != nil {
		return ReleaseResult{}, err
	}
	input.Requester = strings.TrimSpace(input.Requester)
	input.Originator = strings.TrimSpace(input.Originator)
	input.Destination = strings.TrimSpace(input.Destination)
	input.AssetKind = strings.TrimSpace(input.AssetKind)
	if input.Requester == "" || input.Originator == "" || input.Destination == "" || input.AssetKind == "" {
		return ReleaseResult{}, domain.ErrInvalidInput
	}

	requestHash := hashJSON(input)
	if cached, ok, err := s.getIdempotentRelease(ctx, actor.IdempotencyKey, requestHash); err != nil {
		return ReleaseResult{}, err
	} else if ok {
		return cached, nil
	}
	if err := s.reserveIdempotency(ctx, actor.IdempotencyKey, requestHash); err != nil {
		return ReleaseResult{}, err
	}

	op := domain.EscrowRelease{
		Requester:   domain.AccountID(input.Requester),
		Originator:  domain.AccountID(input.Originator),
		ContractID:  input.ContractID,
		Destination: domain.AccountID(input.Destination),
		Amount:      domain.Asset{Amount: input.Amount, Kind: domain.AssetKind(input.AssetKind)},
	}
	now := s.nowFn()
	objectID, err := s.dispatcher.Process(ctx, op, now)
	if err != nil {
		return ReleaseResult{}, err
	}

	result := ReleaseResult{
		ObjectID:    objectID,
		ContractID:  op.ContractID,
		Destination: op.Destination,
		Released:    op.Amount,
	}
	remaining, err := s.escrows.GetByKey(ctx, op.Originator, op.ContractID)
	switch {
	case err == nil:
		result.RemainingBalance = remaining.Balance.Amount
	case errors.Is(err, domain.ErrNotFound):
		result.Closed = true
	default:
		return ReleaseResult{}, err
	}

	if err := s.enqueueReleased(ctx, result, actor.RequestID, now); err != nil {
		return ReleaseResult{}, err
	}
	_ = s.completeIdempotencyJSON(ctx, actor.IdempotencyKey, 200, result)
	return result, nil
}

// AdminCredit funds an account. Restricted to operator roles: the balance
// ledger is owned by the chain, and this is the local runtime's stand-in for
// deposits that normally arrive through block processing.
func (s *Service) AdminCredit(ctx context.Context, actor Actor, input CreditInput) error {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.ErrUnauthorized
	}
	if actor.Role != "system" && actor.Role != "ops" {
		return domain.ErrForbidden
	}
	input.Account = strings.TrimSpace(input.Account)
	input.AssetKind = strings.TrimSpace(input.AssetKind)
	if input.Account == "" || input.AssetKind == "" || input.Amount <= 0 {
		return domain.ErrInvalidInput
	}
	return s.ledger.AdjustBalance(ctx, domain.AccountID(input.Account), domain.Asset{
		Amount: input.Amount,
		Kind:   domain.AssetKind(input.AssetKind),
	})
}

func requireActor(actor Actor) error {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.ErrUnauthorized
	}
	if strings.TrimSpace(actor.IdempotencyKey) == "" {
		return domain.ErrIdempotencyRequired
	}
	return nil
}

func (s *Service) getIdempotentContract(ctx context.Context, key, requestHash string) (domain.EscrowContract, bool, error) {
	body, ok, err := s.getIdempotentBody(ctx, key, requestHash)
	if err != nil || !ok {
		return domain.EscrowContract{}, false, err
	}
	var out domain.EscrowContract
	if err := json.Unmarshal(body, &out); err != nil {
		return domain.EscrowContract{}, false, nil
	}
	return out, true, nil
}

func (s *Service) getIdempotentRelease(ctx context.Context, key, requestHash string) (ReleaseResult, bool, error) {
	body, ok, err := s.getIdempotentBody(ctx, key, requestHash)
	if err != nil || !ok {
		return ReleaseResult{}, false, err
	}
	var out ReleaseResult
	if err := json.Unmarshal(body, &out); err != nil {
		return ReleaseResult{}, false, nil
	}
	return out, true, nil
}

func (s *Service) getIdempotentBody(ctx context.Context, key, requestHash string) ([]byte, bool, error) {
	if s.idempotency == nil || strings.TrimSpace(key) == "" {
		return nil, false, nil
	}
	rec, err := s.idempotency.Get(ctx, key, s.nowFn())
	if err != nil || rec == nil {
		return nil, false, err
	}
	if rec.RequestHash != requestHash {
		return nil, false, domain.ErrIdempotencyConflict
	}
	if len(rec.ResponseBody) == 0 {
		return nil, false, nil
	}
	return rec.ResponseBody, true, nil
}

func (s *Service) reserveIdempotency(ctx context.Context, key, requestHash string) error {
	if s.idempotency == nil {
		return nil
	}
	err := s.idempotency.Reserve(ctx, key, requestHash, s.nowFn().Add(s.cfg.IdempotencyTTL))
	if errors.Is(err, domain.ErrConflict) {
		return domain.ErrIdempotencyConflict
	}
	return err
}

func (s *Service) completeIdempotencyJSON(ctx context.Context, key string, code int, payload any) error {
	if s.idempotency == nil || strings.TrimSpace(key) == "" {
		return nil
	}
	b, _ := json.Marshal(payload)
	return s.idempotency.Complete(ctx, key, code, b, s.nowFn())
}

func hashJSON(v any) string {
	b, _ := json.Marshal(v)
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}
