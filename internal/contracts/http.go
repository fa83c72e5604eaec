package contracts

type SuccessResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type ErrorPayload struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

type ErrorResponse struct {
	Status string       `json:"status"`
	Error  ErrorPayload `json:"error"`
}

type TransferRequest struct {
	Originator  string `json:"originator"`
	Beneficiary string `json:"beneficiary"`
	Arbiter     string `json:"arbiter"`
	Amount      int64  `json:"amount"`
	AssetKind   string `json:"asset_kind"`
	Fee         int64  `json:"fee"`
	Expiration  string `json:"expiration"`
	ContractID  uint64 `json:"contract_id"`
}

type DisputeRequest struct {
	Originator  string `json:"originator"`
	ContractID  uint64 `json:"contract_id"`
	Beneficiary string `json:"beneficiary"`
}

type ReleaseRequest struct {
	Requester   string `json:"requester"`
	Originator  string `json:"originator"`
	ContractID  uint64 `json:"contract_id"`
	Destination string `json:"destination"`
	Amount      int64  `json:"amount"`
	AssetKind   string `json:"asset_kind"`
}

type CreditRequest struct {
	Account   string `json:"account"`
	Amount    int64  `json:"amount"`
	AssetKind string `json:"asset_kind"`
}

type ContractResponse struct {
	ObjectID    string `json:"object_id"`
	ContractID  uint64 `json:"contract_id"`
	Originator  string `json:"originator"`
	Beneficiary string `json:"beneficiary"`
	Arbiter     string `json:"arbiter"`
	Balance     int64  `json:"balance"`
	AssetKind   string `json:"asset_kind"`
	Expiration  string `json:"expiration"`
	Disputed    bool   `json:"disputed"`
}

type ReleaseResponse struct {
	ObjectID         string `json:"object_id"`
	ContractID       uint64 `json:"contract_id"`
	Destination      string `json:"destination"`
	Released         int64  `json:"released"`
	AssetKind        string `json:"asset_kind"`
	RemainingBalance int64  `json:"remaining_balance"`
	Closed           bool   `json:"closed"`
}

type HTLCResponse struct {
	ObjectID      string `json:"object_id"`
	Originator    string `json:"originator"`
	Beneficiary   string `json:"beneficiary"`
	Amount        int64  `json:"amount"`
	AssetKind     string `json:"asset_kind"`
	Expiration    string `json:"expiration"`
	PendingFee    int64  `json:"pending_fee"`
	PreimageHash  string `json:"preimage_hash"`
	HashAlgorithm string `json:"hash_algorithm"`
	PreimageSize  uint16 `json:"preimage_size"`
}

type BalanceResponse struct {
	Account   string `json:"account"`
	AssetKind string `json:"asset_kind"`
	Amount    int64  `json:"amount"`
}

type JournalEntryResponse struct {
	EntryID    string `json:"entry_id"`
	Account    string `json:"account"`
	Amount     int64  `json:"amount"`
	AssetKind  string `json:"asset_kind"`
	OccurredAt string `json:"occurred_at"`
}
