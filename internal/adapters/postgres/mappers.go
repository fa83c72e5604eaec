package postgres

import (
	"encoding/json"
	"fmt"

	"github.com/viralforge/chainpay/internal/contracts"
	"github.com/viralforge/chainpay/internal/domain"
	"github.com/viralforge/chainpay/internal/ports"
)

func escrowToModel(row domain.EscrowContract) escrowContractModel {
	return escrowContractModel{
		ID:          row.ID,
		ContractID:  int64(row.ContractID),
		Originator:  string(row.Originator),
		Beneficiary: string(row.Beneficiary),
		Arbiter:     string(row.Arbiter),
		Balance:     row.Balance.Amount,
		AssetKind:   string(row.Balance.Kind),
		Expiration:  row.Expiration.UTC(),
		Disputed:    row.Disputed,
		CreatedAt:   row.CreatedAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
	}
}

func escrowFromModel(m escrowContractModel) domain.EscrowContract {
	return domain.EscrowContract{
		ID:          m.ID,
		ContractID:  uint64(m.ContractID),
		Originator:  domain.AccountID(m.Originator),
		Beneficiary: domain.AccountID(m.Beneficiary),
		Arbiter:     domain.AccountID(m.Arbiter),
		Balance:     domain.Asset{Amount: m.Balance, Kind: domain.AssetKind(m.AssetKind)},
		Expiration:  m.Expiration,
		Disputed:    m.Disputed,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func htlcToModel(row domain.HTLCContract) htlcContractModel {
	return htlcContractModel{
		ID:             row.ID,
		Originator:     string(row.Originator),
		Beneficiary:    string(row.Beneficiary),
		Amount:         row.Amount.Amount,
		AssetKind:      string(row.Amount.Kind),
		Expiration:     row.Expiration.UTC(),
		PendingFee:     row.PendingFee.Amount,
		PendingFeeKind: string(row.PendingFee.Kind),
		PreimageHash:   row.PreimageHash,
		HashAlgorithm:  int16(row.HashAlgorithm),
		PreimageSize:   int32(row.PreimageSize),
		CreatedAt:      row.CreatedAt.UTC(),
	}
}

func htlcFromModel(m htlcContractModel) domain.HTLCContract {
	return domain.HTLCContract{
		ID:            m.ID,
		Originator:    domain.AccountID(m.Originator),
		Beneficiary:   domain.AccountID(m.Beneficiary),
		Amount:        domain.Asset{Amount: m.Amount, Kind: domain.AssetKind(m.AssetKind)},
		Expiration:    m.Expiration,
		PendingFee:    domain.Asset{Amount: m.PendingFee, Kind: domain.AssetKind(m.PendingFeeKind)},
		PreimageHash:  m.PreimageHash,
		HashAlgorithm: domain.HashAlgorithm(m.HashAlgorithm),
		PreimageSize:  uint16(m.PreimageSize),
		CreatedAt:     m.CreatedAt,
	}
}

func journalFromModel(m journalEntryModel) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:    m.EntryID,
		Account:    domain.AccountID(m.Account),
		Delta:      domain.Asset{Amount: m.Amount, Kind: domain.AssetKind(m.AssetKind)},
		OccurredAt: m.OccurredAt,
	}
}

func outboxToModel(record ports.OutboxRecord) (outboxModel, error) {
	raw, err := json.Marshal(record.Envelope)
	if err != nil {
		return outboxModel{}, fmt.Errorf("marshal outbox envelope: %w", err)
	}
	return outboxModel{
		RecordID:   record.RecordID,
		EventClass: record.EventClass,
		Envelope:   string(raw),
		CreatedAt:  record.CreatedAt.UTC(),
		SentAt:     record.SentAt,
	}, nil
}

func outboxFromModel(m outboxModel) (ports.OutboxRecord, error) {
	var envelope contracts.EventEnvelope
	if err := json.Unmarshal([]byte(m.Envelope), &envelope); err != nil {
		return ports.OutboxRecord{}, fmt.Errorf("unmarshal outbox envelope %s: %w", m.RecordID, err)
	}
	return ports.OutboxRecord{
		RecordID:   m.RecordID,
		EventClass: m.EventClass,
		Envelope:   envelope,
		CreatedAt:  m.CreatedAt,
		SentAt:     m.SentAt,
	}, nil
}
