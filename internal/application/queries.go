package application

import (
	"context"
	"strings"
	"time"

	"github.com/viralforge/chainpay/internal/domain"
)

// Read queries. These require an authenticated actor but no idempotency key:
// they never mutate.

func (s *Service) GetContract(ctx context.Context, actor Actor, originator string, contractID uint64) (domain.EscrowContract, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.EscrowContract{}, domain.ErrUnauthorized
	}
	originator = strings.TrimSpace(originator)
	if originator == "" {
		return domain.EscrowContract{}, domain.ErrInvalidInput
	}
	return s.escrows.GetByKey(ctx, domain.AccountID(originator), contractID)
}

func (s *Service) ListContractsByOriginator(ctx context.Context, actor Actor, originator string) ([]domain.EscrowContract, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return nil, domain.ErrUnauthorized
	}
	originator = strings.TrimSpace(originator)
	if originator == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.escrows.ListByOriginator(ctx, domain.AccountID(originator))
}

func (s *Service) ListContractsExpiringBefore(ctx context.Context, actor Actor, cutoff time.Time, limit int) ([]domain.EscrowContract, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return nil, domain.ErrUnauthorized
	}
	if cutoff.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	return s.escrows.ListExpiringBefore(ctx, cutoff, limit)
}

func (s *Service) GetHTLC(ctx context.Context, actor Actor, id string) (domain.HTLCContract, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.HTLCContract{}, domain.ErrUnauthorized
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.HTLCContract{}, domain.ErrInvalidInput
	}
	return s.htlcs.GetByID(ctx, id)
}

func (s *Service) ListHTLCsByOriginator(ctx context.Context, actor Actor, originator string) ([]domain.HTLCContract, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return nil, domain.ErrUnauthorized
	}
	originator = strings.TrimSpace(originator)
	if originator == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.htlcs.ListByOriginator(ctx, domain.AccountID(originator))
}

func (s *Service) GetBalance(ctx context.Context, actor Actor, account, kind string) (int64, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return 0, domain.ErrUnauthorized
	}
	account = strings.TrimSpace(account)
	kind = strings.TrimSpace(kind)
	if account == "" || kind == "" {
		return 0, domain.ErrInvalidInput
	}
	return s.ledger.GetBalance(ctx, domain.AccountID(account), domain.AssetKind(kind))
}

func (s *Service) ListJournal(ctx context.Context, actor Actor, account string) ([]domain.JournalEntry, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return nil, domain.ErrUnauthorized
	}
	account = strings.TrimSpace(account)
	if account == "" {
		return nil, domain.ErrInvalidInput
	}
	if s.journal == nil {
		return []domain.JournalEntry{}, nil
	}
	return s.journal.ListByAccount(ctx, domain.AccountID(account))
}
