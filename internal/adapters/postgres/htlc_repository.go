package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/viralforge/chainpay/internal/domain"
)

// HTLCContractRepository is the Postgres-backed hash-time-locked contract
// store. Storage only, no redemption logic.
type HTLCContractRepository struct {
	db *gorm.DB
}

func NewHTLCContractRepository(db *gorm.DB) *HTLCContractRepository {
	return &HTLCContractRepository{db: db}
}

func (r *HTLCContractRepository) Create(ctx context.Context, row domain.HTLCContract) error {
	model := htlcToModel(row)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: htlc contract %s", domain.ErrConflict, row.ID)
		}
		return fmt.Errorf("create htlc contract: %w", err)
	}
	return nil
}

func (r *HTLCContractRepository) GetByID(ctx context.Context, id string) (domain.HTLCContract, error) {
	var model htlcContractModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.HTLCContract{}, fmt.Errorf("%w: htlc contract %s", domain.ErrNotFound, id)
		}
		return domain.HTLCContract{}, fmt.Errorf("get htlc contract: %w", err)
	}
	return htlcFromModel(model), nil
}

func (r *HTLCContractRepository) Remove(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&htlcContractModel{})
	if result.Error != nil {
		return fmt.Errorf("remove htlc contract: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: htlc contract %s", domain.ErrNotFound, id)
	}
	return nil
}

func (r *HTLCContractRepository) ListByOriginator(ctx context.Context, originator domain.AccountID) ([]domain.HTLCContract, error) {
	var models []htlcContractModel
	err := r.db.WithContext(ctx).
		Where("originator = ?", string(originator)).
		Order("created_at ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list htlc contracts by originator: %w", err)
	}
	rows := make([]domain.HTLCContract, 0, len(models))
	for _, m := range models {
		rows = append(rows, htlcFromModel(m))
	}
	return rows, nil
}

func (r *HTLCContractRepository) ListExpiringBefore(ctx context.Context, cutoff time.Time, limit int) ([]domain.HTLCContract, error) {
	var models []htlcContractModel
	query := r.db.WithContext(ctx).
		Where("expiration < ?", cutoff.UTC()).
		Order("expiration ASC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list expiring htlc contracts: %w", err)
	}
	rows := make([]domain.HTLCContract, 0, len(models))
	for _, m := range models {
		rows = append(rows, htlcFromModel(m))
	}
	return rows, nil
}
