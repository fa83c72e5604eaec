package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	eventadapter "github.com/viralforge/chainpay/internal/adapters/events"
	"github.com/viralforge/chainpay/internal/adapters/memory"
	"github.com/viralforge/chainpay/internal/application"
	"github.com/viralforge/chainpay/internal/contracts"
	"github.com/viralforge/chainpay/internal/evaluator"
)

func newTestRouter() http.Handler {
	ledger := memory.NewBalanceLedger()
	escrows := memory.NewEscrowContractRepository()
	svc := application.NewService(application.Dependencies{
		Dispatcher:  evaluator.NewDispatcher(ledger, escrows),
		Ledger:      ledger,
		Journal:     ledger,
		Escrows:     escrows,
		HTLCs:       memory.NewHTLCContractRepository(),
		Idempotency: memory.NewIdempotencyStore(),
		Outbox:      memory.NewOutboxRepository(),
		Publisher:   eventadapter.NewMemoryPublisher(),
	})
	return NewRouter(NewHandler(svc))
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func authHeaders(idemKey string) map[string]string {
	h := map[string]string{
		"Authorization": "Bearer svc_ops",
		"X-Actor-Role":  "system",
	}
	if idemKey != "" {
		h["Idempotency-Key"] = idemKey
	}
	return h
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter()
	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doJSON(t, router, http.MethodGet, path, nil, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: got %d, want 200", path, rec.Code)
		}
	}
}

func TestRouterRequiresBearerToken(t *testing.T) {
	router := newTestRouter()
	rec := doJSON(t, router, http.MethodPost, "/v1/escrow/transfers", contracts.TransferRequest{}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated transfer: got %d, want 401", rec.Code)
	}

	var body contracts.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Status != "error" || body.Error.Code != "unauthorized" {
		t.Fatalf("error body: %+v", body)
	}
}

func TestTransferDisputeReleaseOverHTTP(t *testing.T) {
	router := newTestRouter()
	expiration := time.Now().UTC().Add(time.Hour).Format(time.RFC3339)

	rec := doJSON(t, router, http.MethodPost, "/v1/ledger/credits", contracts.CreditRequest{
		Account: "alice", Amount: 500, AssetKind: "CORE",
	}, authHeaders(""))
	if rec.Code != http.StatusOK {
		t.Fatalf("credit: got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/v1/escrow/transfers", contracts.TransferRequest{
		Originator:  "alice",
		Beneficiary: "bob",
		Arbiter:     "carol",
		Amount:      100,
		AssetKind:   "CORE",
		Fee:         5,
		Expiration:  expiration,
		ContractID:  1,
	}, authHeaders("idem-http-1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("transfer: got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/v1/escrow/disputes", contracts.DisputeRequest{
		Originator: "alice", ContractID: 1, Beneficiary: "bob",
	}, authHeaders("idem-http-2"))
	if rec.Code != http.StatusOK {
		t.Fatalf("dispute: got %d: %s", rec.Code, rec.Body.String())
	}

	// A second dispute surfaces the conflict.
	rec = doJSON(t, router, http.MethodPost, "/v1/escrow/disputes", contracts.DisputeRequest{
		Originator: "alice", ContractID: 1, Beneficiary: "bob",
	}, authHeaders("idem-http-3"))
	if rec.Code != http.StatusConflict {
		t.Fatalf("second dispute: got %d, want 409", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/v1/escrow/releases", contracts.ReleaseRequest{
		Requester:   "carol",
		Originator:  "alice",
		ContractID:  1,
		Destination: "dave",
		Amount:      40,
		AssetKind:   "CORE",
	}, authHeaders("idem-http-4"))
	if rec.Code != http.StatusOK {
		t.Fatalf("arbiter release: got %d: %s", rec.Code, rec.Body.String())
	}
	var release struct {
		Data contracts.ReleaseResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &release); err != nil {
		t.Fatalf("decode release body: %v", err)
	}
	if release.Data.RemainingBalance != 60 || release.Data.Closed {
		t.Fatalf("release result: %+v", release.Data)
	}

	rec = doJSON(t, router, http.MethodGet, "/v1/escrow/contract?originator=alice&contract_id=1", nil, authHeaders(""))
	if rec.Code != http.StatusOK {
		t.Fatalf("get contract: got %d: %s", rec.Code, rec.Body.String())
	}
	var contract struct {
		Data contracts.ContractResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &contract); err != nil {
		t.Fatalf("decode contract body: %v", err)
	}
	if contract.Data.Balance != 60 || !contract.Data.Disputed {
		t.Fatalf("contract state: %+v", contract.Data)
	}

	rec = doJSON(t, router, http.MethodGet, "/v1/ledger/balance?account=dave&asset_kind=CORE", nil, authHeaders(""))
	if rec.Code != http.StatusOK {
		t.Fatalf("balance: got %d: %s", rec.Code, rec.Body.String())
	}
	var balance struct {
		Data contracts.BalanceResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &balance); err != nil {
		t.Fatalf("decode balance body: %v", err)
	}
	if balance.Data.Amount != 40 {
		t.Fatalf("destination balance: got %d, want 40", balance.Data.Amount)
	}
}

func TestTransferStatusCodes(t *testing.T) {
	router := newTestRouter()
	expiration := time.Now().UTC().Add(time.Hour).Format(time.RFC3339)

	// No funds credited: insufficient funds maps to 422.
	rec := doJSON(t, router, http.MethodPost, "/v1/escrow/transfers", contracts.TransferRequest{
		Originator:  "alice",
		Beneficiary: "bob",
		Arbiter:     "carol",
		Amount:      100,
		AssetKind:   "CORE",
		Expiration:  expiration,
		ContractID:  1,
	}, authHeaders("idem-sc-1"))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unfunded transfer: got %d, want 422", rec.Code)
	}

	// Missing idempotency key maps to 400.
	rec = doJSON(t, router, http.MethodPost, "/v1/escrow/transfers", contracts.TransferRequest{
		Originator:  "alice",
		Beneficiary: "bob",
		Arbiter:     "carol",
		Amount:      100,
		AssetKind:   "CORE",
		Expiration:  expiration,
		ContractID:  1,
	}, authHeaders(""))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("keyless transfer: got %d, want 400", rec.Code)
	}

	// Unknown contract on release maps to 404.
	rec = doJSON(t, router, http.MethodPost, "/v1/escrow/releases", contracts.ReleaseRequest{
		Requester:   "alice",
		Originator:  "alice",
		ContractID:  42,
		Destination: "bob",
		Amount:      10,
		AssetKind:   "CORE",
	}, authHeaders("idem-sc-2"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown release: got %d, want 404", rec.Code)
	}

	// Operator role cannot credit the ledger.
	headers := authHeaders("")
	headers["X-Actor-Role"] = "operator"
	rec = doJSON(t, router, http.MethodPost, "/v1/ledger/credits", contracts.CreditRequest{
		Account: "alice", Amount: 100, AssetKind: "CORE",
	}, headers)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("operator credit: got %d, want 403", rec.Code)
	}
}
