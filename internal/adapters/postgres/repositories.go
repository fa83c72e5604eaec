package postgres

import "gorm.io/gorm"

// Repositories bundles the Postgres adapters built on one connection pool.
type Repositories struct {
	Escrows *EscrowContractRepository
	HTLCs   *HTLCContractRepository
	Ledger  *BalanceLedger
	Outbox  *OutboxRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Escrows: NewEscrowContractRepository(db),
		HTLCs:   NewHTLCContractRepository(db),
		Ledger:  NewBalanceLedger(db),
		Outbox:  NewOutboxRepository(db),
	}
}
