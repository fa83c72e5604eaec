package events

import (
	"context"
	"sync"
)

// PublishedMessage is one delivered event, retained for inspection.
type PublishedMessage struct {
	EventType    string
	Payload      []byte
	PartitionKey string
}

// MemoryPublisher collects published events in memory. Used by tests and by
// the local runtime when no brokers are configured.
type MemoryPublisher struct {
	mu       sync.Mutex
	messages []PublishedMessage
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (p *MemoryPublisher) Publish(_ context.Context, eventType string, payload []byte, partitionKey string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, PublishedMessage{
		EventType:    eventType,
		Payload:      append([]byte(nil), payload...),
		PartitionKey: partitionKey,
	})
	return nil
}

func (p *MemoryPublisher) Messages() []PublishedMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]PublishedMessage, len(p.messages))
	copy(out, p.messages)
	return out
}
