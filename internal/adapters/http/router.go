package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { writeSuccess(w, http.StatusOK, "ok", nil) })
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) { writeSuccess(w, http.StatusOK, "ready", nil) })
	r.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/escrow/transfers", handler.transfer)
			r.Post("/escrow/disputes", handler.dispute)
			r.Post("/escrow/releases", handler.release)
			r.Get("/escrow/contracts", handler.listContracts)
			r.Get("/escrow/contract", handler.getContract)
			r.Get("/escrow/contracts/expiring", handler.listExpiring)
			r.Get("/htlc/contracts", handler.listHTLCs)
			r.Get("/htlc/contracts/{id}", handler.getHTLC)
			r.Get("/ledger/balance", handler.balance)
			r.Get("/ledger/journal", handler.journal)
			r.Post("/ledger/credits", handler.credit)
		})
	})
	return r
}
