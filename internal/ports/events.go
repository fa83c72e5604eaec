package ports

import (
	"context"
	"time"

	"github.com/viralforge/chainpay/internal/contracts"
)

// OutboxRecord is one enqueued event awaiting broker delivery.
type OutboxRecord struct {
	RecordID   string
	EventClass string
	Envelope   contracts.EventEnvelope
	CreatedAt  time.Time
	SentAt     *time.Time
}

// OutboxRepository stores events transactionally alongside state changes so
// delivery can never observe a state the store did not commit.
type OutboxRepository interface {
	Enqueue(ctx context.Context, record OutboxRecord) error
	ListPending(ctx context.Context, limit int) ([]OutboxRecord, error)
	MarkSent(ctx context.Context, recordID string, at time.Time) error
}

// EventPublisher delivers envelopes to the broker.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error
}
