package postgres

import "time"

type escrowContractModel struct {
	ID string `gorm:"column:id;type:uuid;primaryKey"`
	// ContractID holds the caller-chosen uint64 key in a BIGINT column, so
	// values above MaxInt64 sign-wrap in SQL. Both lookup and storage go
	// through the same int64 cast, so equality on (originator, contract_id)
	// and wrap-free round-tripping are preserved; only raw SQL that orders or
	// ranges over contract_id would see the wrapped sign.
	ContractID  int64     `gorm:"column:contract_id"`
	Originator  string    `gorm:"column:originator"`
	Beneficiary string    `gorm:"column:beneficiary"`
	Arbiter     string    `gorm:"column:arbiter"`
	Balance     int64     `gorm:"column:balance"`
	AssetKind   string    `gorm:"column:asset_kind"`
	Expiration  time.Time `gorm:"column:expiration"`
	Disputed    bool      `gorm:"column:disputed"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (escrowContractModel) TableName() string { return "escrow_contracts" }

type htlcContractModel struct {
	ID             string    `gorm:"column:id;type:uuid;primaryKey"`
	Originator     string    `gorm:"column:originator"`
	Beneficiary    string    `gorm:"column:beneficiary"`
	Amount         int64     `gorm:"column:amount"`
	AssetKind      string    `gorm:"column:asset_kind"`
	Expiration     time.Time `gorm:"column:expiration"`
	PendingFee     int64     `gorm:"column:pending_fee"`
	PendingFeeKind string    `gorm:"column:pending_fee_kind"`
	PreimageHash   []byte    `gorm:"column:preimage_hash"`
	HashAlgorithm  int16     `gorm:"column:hash_algorithm"`
	PreimageSize   int32     `gorm:"column:preimage_size"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (htlcContractModel) TableName() string { return "htlc_contracts" }

type accountBalanceModel struct {
	Account   string    `gorm:"column:account;primaryKey"`
	AssetKind string    `gorm:"column:asset_kind;primaryKey"`
	Amount    int64     `gorm:"column:amount"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (accountBalanceModel) TableName() string { return "account_balances" }

type journalEntryModel struct {
	EntryID    string    `gorm:"column:entry_id;type:uuid;primaryKey"`
	Account    string    `gorm:"column:account"`
	Amount     int64     `gorm:"column:amount"`
	AssetKind  string    `gorm:"column:asset_kind"`
	OccurredAt time.Time `gorm:"column:occurred_at"`
}

func (journalEntryModel) TableName() string { return "journal_entries" }

type outboxModel struct {
	RecordID   string     `gorm:"column:record_id;type:uuid;primaryKey"`
	EventClass string     `gorm:"column:event_class"`
	Envelope   string     `gorm:"column:envelope;type:jsonb"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
	SentAt     *time.Time `gorm:"column:sent_at"`
}

func (outboxModel) TableName() string { return "escrow_outbox" }
