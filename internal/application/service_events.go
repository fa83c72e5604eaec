package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/viralforge/chainpay/internal/contracts"
	"github.com/viralforge/chainpay/internal/domain"
	"github.com/viralforge/chainpay/internal/ports"
)

func (s *Service) enqueueTransferCreated(ctx context.Context, c domain.EscrowContract, fee domain.Asset, traceID string, now time.Time) error {
	return s.enqueueEvent(ctx, domain.EventEscrowTransferCreated, traceID, contracts.EscrowTransferCreatedPayload{
		ObjectID:    c.ID,
		ContractID:  c.ContractID,
		Originator:  string(c.Originator),
		Beneficiary: string(c.Beneficiary),
		Arbiter:     string(c.Arbiter),
		Amount:      c.Balance.Amount,
		AssetKind:   string(c.Balance.Kind),
		Fee:         fee.Amount,
		Expiration:  c.Expiration.UTC().Format(time.RFC3339),
	}, c.ID, now)
}

func (s *Service) enqueueDisputed(ctx context.Context, c domain.EscrowContract, traceID string, now time.Time) error {
	return s.enqueueEvent(ctx, domain.EventEscrowDisputed, traceID, contracts.EscrowDisputedPayload{
		ObjectID:   c.ID,
		ContractID: c.ContractID,
		Originator: string(c.Originator),
		DisputedAt: now.UTC().Format(time.RFC3339),
	}, c.ID, now)
}

func (s *Service) enqueueReleased(ctx context.Context, r ReleaseResult, traceID string, now time.Time) error {
	if r.Closed {
		return s.enqueueEvent(ctx, domain.EventEscrowFullyReleased, traceID, contracts.EscrowFullyReleasedPayload{
			ObjectID:    r.ObjectID,
			ContractID:  r.ContractID,
			Destination: string(r.Destination),
			Amount:      r.Released.Amount,
			AssetKind:   string(r.Released.Kind),
			ReleasedAt:  now.UTC().Format(time.RFC3339),
		}, r.ObjectID, now)
	}
	return s.enqueueEvent(ctx, domain.EventEscrowPartialRelease, traceID, contracts.EscrowPartialReleasePayload{
		ObjectID:         r.ObjectID,
		ContractID:       r.ContractID,
		Destination:      string(r.Destination),
		Amount:           r.Released.Amount,
		AssetKind:        string(r.Released.Kind),
		RemainingBalance: r.RemainingBalance,
		ReleasedAt:       now.UTC().Format(time.RFC3339),
	}, r.ObjectID, now)
}

func (s *Service) enqueueEvent(ctx context.Context, eventType, traceID string, data any, objectID string, now time.Time) error {
	if s.outbox == nil {
		return nil
	}
	if !domain.IsCanonicalEmittedEvent(eventType) {
		return fmt.Errorf("%w: event type %q", domain.ErrInvalidInput, eventType)
	}
	b, err := json.Marshal(data)
	if err != nil {
		return domain.ErrInvalidInput
	}
	if strings.TrimSpace(traceID) == "" {
		traceID = uuid.NewString()
	}
	env := contracts.EventEnvelope{
		EventID:          uuid.NewString(),
		EventType:        eventType,
		EventClass:       domain.CanonicalEventClass(eventType),
		OccurredAt:       now,
		PartitionKeyPath: domain.CanonicalPartitionKeyPath(eventType),
		PartitionKey:     objectID,
		SourceService:    s.cfg.ServiceName,
		TraceID:          traceID,
		SchemaVersion:    "v1",
		Data:             b,
	}
	return s.outbox.Enqueue(ctx, ports.OutboxRecord{
		RecordID:   uuid.NewString(),
		EventClass: env.EventClass,
		Envelope:   env,
		CreatedAt:  now,
	})
}

// FlushOutbox publishes pending outbox records through the configured
// publisher. The outbox worker calls this on its poll interval.
func (s *Service) FlushOutbox(ctx context.Context) error {
	if s.outbox == nil || s.publisher == nil {
		return nil
	}
	pending, err := s.outbox.ListPending(ctx, s.cfg.OutboxFlushBatchSize)
	if err != nil {
		return err
	}
	for _, rec := range pending {
		payload, err := json.Marshal(rec.Envelope)
		if err != nil {
			return err
		}
		if err := s.publisher.Publish(ctx, rec.Envelope.EventType, payload, rec.Envelope.PartitionKey); err != nil {
			return err
		}
		if err := s.outbox.MarkSent(ctx, rec.RecordID, s.nowFn()); err != nil {
			return err
		}
	}
	return nil
}
