package http

import (
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/viralforge/chainpay/internal/application"
	"github.com/viralforge/chainpay/internal/contracts"
	"github.com/viralforge/chainpay/internal/domain"
)

type Handler struct{ service *application.Service }

func NewHandler(service *application.Service) *Handler { return &Handler{service: service} }

func (h *Handler) transfer(w http.ResponseWriter, r *http.Request) {
	var req contracts.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "invalid json body", requestIDFromContext(r.Context()))
		return
	}
	expiration, err := time.Parse(time.RFC3339, req.Expiration)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "expiration must be RFC3339", requestIDFromContext(r.Context()))
		return
	}
	actor := actorFromContext(r.Context())
	contract, err := h.service.Transfer(r.Context(), actor, application.TransferInput{
		Originator:  req.Originator,
		Beneficiary: req.Beneficiary,
		Arbiter:     req.Arbiter,
		Amount:      req.Amount,
		AssetKind:   req.AssetKind,
		Fee:         req.Fee,
		Expiration:  expiration,
		ContractID:  req.ContractID,
	})
	if err != nil {
		code, c := mapDomainError(err)
		writeError(w, code, c, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "transfer applied", toContractResponse(contract))
}

func (h *Handler) dispute(w http.ResponseWriter, r *http.Request) {
	var req contracts.DisputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "invalid json body", requestIDFromContext(r.Context()))
		return
	}
	actor := actorFromContext(r.Context())
	contract, err := h.service.Dispute(r.Context(), actor, application.DisputeInput{
		Originator:  req.Originator,
		ContractID:  req.ContractID,
		Beneficiary: req.Beneficiary,
	})
	if err != nil {
		code, c := mapDomainError(err)
		writeError(w, code, c, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "dispute applied", toContractResponse(contract))
}

func (h *Handler) release(w http.ResponseWriter, r *http.Request) {
	var req contracts.ReleaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "invalid json body", requestIDFromContext(r.Context()))
		return
	}
	actor := actorFromContext(r.Context())
	result, err := h.service.Release(r.Context(), actor, application.ReleaseInput{
		Requester:   req.Requester,
		Originator:  req.Originator,
		ContractID:  req.ContractID,
		Destination: req.Destination,
		Amount:      req.Amount,
		AssetKind:   req.AssetKind,
	})
	if err != nil {
		code, c := mapDomainError(err)
		writeError(w, code, c, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "release applied", contracts.ReleaseResponse{
		ObjectID:         result.ObjectID,
		ContractID:       result.ContractID,
		Destination:      string(result.Destination),
		Released:         result.Released.Amount,
		AssetKind:        string(result.Released.Kind),
		RemainingBalance: result.RemainingBalance,
		Closed:           result.Closed,
	})
}

func (h *Handler) credit(w http.ResponseWriter, r *http.Request) {
	var req contracts.CreditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "invalid json body", requestIDFromContext(r.Context()))
		return
	}
	actor := actorFromContext(r.Context())
	if err := h.service.AdminCredit(r.Context(), actor, application.CreditInput{
		Account:   req.Account,
		Amount:    req.Amount,
		AssetKind: req.AssetKind,
	}); err != nil {
		code, c := mapDomainError(err)
		writeError(w, code, c, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "credit applied", nil)
}

func (h *Handler) getContract(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	contractID, err := strconv.ParseUint(strings.TrimSpace(r.URL.Query().Get("contract_id")), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "contract_id must be an unsigned integer", requestIDFromContext(r.Context()))
		return
	}
	contract, err := h.service.GetContract(r.Context(), actor, r.URL.Query().Get("originator"), contractID)
	if err != nil {
		code, c := mapDomainError(err)
		writeError(w, code, c, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "contract", toContractResponse(contract))
}

func (h *Handler) listContracts(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	rows, err := h.service.ListContractsByOriginator(r.Context(), actor, r.URL.Query().Get("originator"))
	if err != nil {
		code, c := mapDomainError(err)
		writeError(w, code, c, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	out := make([]contracts.ContractResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, toContractResponse(row))
	}
	writeSuccess(w, http.StatusOK, "contracts", out)
}

func (h *Handler) listExpiring(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	cutoff, err := time.Parse(time.RFC3339, strings.TrimSpace(r.URL.Query().Get("before")))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "before must be RFC3339", requestIDFromContext(r.Context()))
		return
	}
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}
	rows, err := h.service.ListContractsExpiringBefore(r.Context(), actor, cutoff, limit)
	if err != nil {
		code, c := mapDomainError(err)
		writeError(w, code, c, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	out := make([]contracts.ContractResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, toContractResponse(row))
	}
	writeSuccess(w, http.StatusOK, "expiring contracts", out)
}

func (h *Handler) getHTLC(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	row, err := h.service.GetHTLC(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		code, c := mapDomainError(err)
		writeError(w, code, c, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "htlc contract", toHTLCResponse(row))
}

func (h *Handler) listHTLCs(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	rows, err := h.service.ListHTLCsByOriginator(r.Context(), actor, r.URL.Query().Get("originator"))
	if err != nil {
		code, c := mapDomainError(err)
		writeError(w, code, c, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	out := make([]contracts.HTLCResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, toHTLCResponse(row))
	}
	writeSuccess(w, http.StatusOK, "htlc contracts", out)
}

func (h *Handler) balance(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	account := strings.TrimSpace(r.URL.Query().Get("account"))
	kind := strings.TrimSpace(r.URL.Query().Get("asset_kind"))
	amount, err := h.service.GetBalance(r.Context(), actor, account, kind)
	if err != nil {
		code, c := mapDomainError(err)
		writeError(w, code, c, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "balance", contracts.BalanceResponse{
		Account:   account,
		AssetKind: kind,
		Amount:    amount,
	})
}

func (h *Handler) journal(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	rows, err := h.service.ListJournal(r.Context(), actor, r.URL.Query().Get("account"))
	if err != nil {
		code, c := mapDomainError(err)
		writeError(w, code, c, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	out := make([]contracts.JournalEntryResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, contracts.JournalEntryResponse{
			EntryID:    row.EntryID,
			Account:    string(row.Account),
			Amount:     row.Delta.Amount,
			AssetKind:  string(row.Delta.Kind),
			OccurredAt: row.OccurredAt.UTC().Format(time.RFC3339),
		})
	}
	writeSuccess(w, http.StatusOK, "journal", out)
}

func toContractResponse(c domain.EscrowContract) contracts.ContractResponse {
	return contracts.ContractResponse{
		ObjectID:    c.ID,
		ContractID:  c.ContractID,
		Originator:  string(c.Originator),
		Beneficiary: string(c.Beneficiary),
		Arbiter:     string(c.Arbiter),
		Balance:     c.Balance.Amount,
		AssetKind:   string(c.Balance.Kind),
		Expiration:  c.Expiration.UTC().Format(time.RFC3339),
		Disputed:    c.Disputed,
	}
}

func toHTLCResponse(c domain.HTLCContract) contracts.HTLCResponse {
	return contracts.HTLCResponse{
		ObjectID:      c.ID,
		Originator:    string(c.Originator),
		Beneficiary:   string(c.Beneficiary),
		Amount:        c.Amount.Amount,
		AssetKind:     string(c.Amount.Kind),
		Expiration:    c.Expiration.UTC().Format(time.RFC3339),
		PendingFee:    c.PendingFee.Amount,
		PreimageHash:  hex.EncodeToString(c.PreimageHash),
		HashAlgorithm: c.HashAlgorithm.String(),
		PreimageSize:  c.PreimageSize,
	}
}
