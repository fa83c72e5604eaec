package domain

import "errors"

// Evaluator outcomes. These are the terminal result of an operation; nothing
// inside the core retries or suppresses them.
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidOperation  = errors.New("invalid operation")
	ErrNotFound          = errors.New("not found")
	ErrAlreadyDisputed   = errors.New("escrow already disputed")
	ErrPartyMismatch     = errors.New("party mismatch")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrNotAuthorized     = errors.New("not authorized")
)

// Operational-surface errors (actor/idempotency/storage plumbing).
var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidInput        = errors.New("invalid input")
	ErrConflict            = errors.New("conflict")
	ErrIdempotencyRequired = errors.New("idempotency key required")
	ErrIdempotencyConflict = errors.New("idempotency conflict")
)
