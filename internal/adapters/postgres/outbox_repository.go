package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/viralforge/chainpay/internal/domain"
	"github.com/viralforge/chainpay/internal/ports"
)

// OutboxRepository stores event envelopes pending broker delivery.
type OutboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

func (r *OutboxRepository) Enqueue(ctx context.Context, record ports.OutboxRecord) error {
	model, err := outboxToModel(record)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("enqueue outbox record: %w", err)
	}
	return nil
}

func (r *OutboxRepository) ListPending(ctx context.Context, limit int) ([]ports.OutboxRecord, error) {
	var models []outboxModel
	query := r.db.WithContext(ctx).
		Where("sent_at IS NULL").
		Order("created_at ASC, record_id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list pending outbox records: %w", err)
	}
	records := make([]ports.OutboxRecord, 0, len(models))
	for _, m := range models {
		record, err := outboxFromModel(m)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func (r *OutboxRepository) MarkSent(ctx context.Context, recordID string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("record_id = ? AND sent_at IS NULL", recordID).
		Update("sent_at", at.UTC())
	if result.Error != nil {
		return fmt.Errorf("mark outbox record sent: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: outbox record %s", domain.ErrNotFound, recordID)
	}
	return nil
}
