package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/viralforge/chainpay/internal/domain"
)

// BalanceLedger keeps account balances and their journal in Postgres. Each
// adjustment locks the balance row, applies the delta, and appends a journal
// entry inside one transaction.
type BalanceLedger struct {
	db    *gorm.DB
	nowFn func() time.Time
}

func NewBalanceLedger(db *gorm.DB) *BalanceLedger {
	return &BalanceLedger{db: db, nowFn: time.Now}
}

func (l *BalanceLedger) GetBalance(ctx context.Context, account domain.AccountID, kind domain.AssetKind) (int64, error) {
	var model accountBalanceModel
	err := l.db.WithContext(ctx).
		Where("account = ? AND asset_kind = ?", string(account), string(kind)).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return model.Amount, nil
}

func (l *BalanceLedger) AdjustBalance(ctx context.Context, account domain.AccountID, delta domain.Asset) error {
	if delta.IsZero() {
		return nil
	}
	now := l.nowFn().UTC()
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model accountBalanceModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("account = ? AND asset_kind = ?", string(account), string(delta.Kind)).
			First(&model).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			model = accountBalanceModel{
				Account:   string(account),
				AssetKind: string(delta.Kind),
				Amount:    0,
			}
		case err != nil:
			return fmt.Errorf("lock balance row: %w", err)
		}

		next := model.Amount + delta.Amount
		if next < 0 {
			return fmt.Errorf("%w: %s holds %d %s, delta %d", domain.ErrInsufficientFunds,
				account, model.Amount, delta.Kind, delta.Amount)
		}

		model.Amount = next
		model.UpdatedAt = now
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "account"}, {Name: "asset_kind"}},
			DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
		}).Create(&model).Error; err != nil {
			return fmt.Errorf("upsert balance: %w", err)
		}

		entry := journalEntryModel{
			EntryID:    uuid.NewString(),
			Account:    string(account),
			Amount:     delta.Amount,
			AssetKind:  string(delta.Kind),
			OccurredAt: now,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("append journal entry: %w", err)
		}
		return nil
	})
}

func (l *BalanceLedger) ListByAccount(ctx context.Context, account domain.AccountID) ([]domain.JournalEntry, error) {
	var models []journalEntryModel
	err := l.db.WithContext(ctx).
		Where("account = ?", string(account)).
		Order("occurred_at ASC, entry_id ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	entries := make([]domain.JournalEntry, 0, len(models))
	for _, m := range models {
		entries = append(entries, journalFromModel(m))
	}
	return entries, nil
}
