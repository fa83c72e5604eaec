package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/viralforge/chainpay/internal/domain"
)

// EscrowContractRepository is the Postgres-backed conditional payment store.
type EscrowContractRepository struct {
	db *gorm.DB
}

func NewEscrowContractRepository(db *gorm.DB) *EscrowContractRepository {
	return &EscrowContractRepository{db: db}
}

func (r *EscrowContractRepository) Create(ctx context.Context, row domain.EscrowContract) error {
	model := escrowToModel(row)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: escrow contract %d for %s", domain.ErrConflict, row.ContractID, row.Originator)
		}
		return fmt.Errorf("create escrow contract: %w", err)
	}
	return nil
}

func (r *EscrowContractRepository) GetByKey(ctx context.Context, originator domain.AccountID, contractID uint64) (domain.EscrowContract, error) {
	var model escrowContractModel
	err := r.db.WithContext(ctx).
		Where("originator = ? AND contract_id = ?", string(originator), int64(contractID)).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.EscrowContract{}, fmt.Errorf("%w: escrow contract %d for %s", domain.ErrNotFound, contractID, originator)
		}
		return domain.EscrowContract{}, fmt.Errorf("get escrow contract by key: %w", err)
	}
	return escrowFromModel(model), nil
}

func (r *EscrowContractRepository) Update(ctx context.Context, row domain.EscrowContract) error {
	model := escrowToModel(row)
	result := r.db.WithContext(ctx).
		Model(&escrowContractModel{}).
		Where("id = ?", row.ID).
		Updates(map[string]any{
			"balance":    model.Balance,
			"disputed":   model.Disputed,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("update escrow contract: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: escrow contract %s", domain.ErrNotFound, row.ID)
	}
	return nil
}

func (r *EscrowContractRepository) Remove(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&escrowContractModel{})
	if result.Error != nil {
		return fmt.Errorf("remove escrow contract: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: escrow contract %s", domain.ErrNotFound, id)
	}
	return nil
}

func (r *EscrowContractRepository) ListByOriginator(ctx context.Context, originator domain.AccountID) ([]domain.EscrowContract, error) {
	var models []escrowContractModel
	err := r.db.WithContext(ctx).
		Where("originator = ?", string(originator)).
		Order("contract_id ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list escrow contracts by originator: %w", err)
	}
	rows := make([]domain.EscrowContract, 0, len(models))
	for _, m := range models {
		rows = append(rows, escrowFromModel(m))
	}
	return rows, nil
}

func (r *EscrowContractRepository) ListExpiringBefore(ctx context.Context, cutoff time.Time, limit int) ([]domain.EscrowContract, error) {
	var models []escrowContractModel
	query := r.db.WithContext(ctx).
		Where("expiration < ?", cutoff.UTC()).
		Order("expiration ASC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list expiring escrow contracts: %w", err)
	}
	rows := make([]domain.EscrowContract, 0, len(models))
	for _, m := range models {
		rows = append(rows, escrowFromModel(m))
	}
	return rows, nil
}
