package engine

import "errors"

// Sentinel errors. Every error returned by the engine wraps one of these
// with the offending player or card, so callers can test with errors.Is.
var (
	ErrTurnOrder         = errors.New("turn order violation")
	ErrIllegalPlay       = errors.New("illegal play")
	ErrIllegalDraw       = errors.New("illegal draw")
	ErrResourceExhausted = errors.New("resource exhausted")
	ErrNotFound          = errors.New("not found")
)
