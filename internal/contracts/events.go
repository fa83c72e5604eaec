package contracts

import (
	"encoding/json"
	"time"
)

type EventEnvelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	EventClass       string          `json:"event_class,omitempty"`
	OccurredAt       time.Time       `json:"occurred_at"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id"`
	SchemaVersion    string          `json:"schema_version"`
	Data             json.RawMessage `json:"data"`
}

type EscrowTransferCreatedPayload struct {
	ObjectID    string `json:"object_id"`
	ContractID  uint64 `json:"contract_id"`
	Originator  string `json:"originator"`
	Beneficiary string `json:"beneficiary"`
	Arbiter     string `json:"arbiter"`
	Amount      int64  `json:"amount"`
	AssetKind   string `json:"asset_kind"`
	Fee         int64  `json:"fee"`
	Expiration  string `json:"expiration"`
}

type EscrowDisputedPayload struct {
	ObjectID   string `json:"object_id"`
	ContractID uint64 `json:"contract_id"`
	Originator string `json:"originator"`
	DisputedAt string `json:"disputed_at"`
}

type EscrowPartialReleasePayload struct {
	ObjectID         string `json:"object_id"`
	ContractID       uint64 `json:"contract_id"`
	Destination      string `json:"destination"`
	Amount           int64  `json:"amount"`
	AssetKind        string `json:"asset_kind"`
	RemainingBalance int64  `json:"remaining_balance"`
	ReleasedAt       string `json:"released_at"`
}

type EscrowFullyReleasedPayload struct {
	ObjectID    string `json:"object_id"`
	ContractID  uint64 `json:"contract_id"`
	Destination string `json:"destination"`
	Amount      int64  `json:"amount"`
	AssetKind   string `json:"asset_kind"`
	ReleasedAt  string `json:"released_at"`
}
