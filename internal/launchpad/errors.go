package launchpad

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPoolNotFound reports that no pool exists for a pair and fee tier.
// Surfaced to the caller, never retried.
var ErrPoolNotFound = errors.New("pool not found for pair and fee tier")

// ReadError wraps a failed read call with the contract and method that
// produced it. Enumeration degrades these to fallbacks; single-value reads
// surface them.
type ReadError struct {
	Contract string
	Method   string
	Err      error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s on %s: %v", e.Method, e.Contract, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// TxError wraps a failed submission or confirmation wait. Never retried
// automatically: resubmitting a financial transaction needs explicit user
// intent.
type TxError struct {
	Method string
	Err    error
}

func (e *TxError) Error() string {
	return fmt.Sprintf("transaction %s: %v", e.Method, e.Err)
}

func (e *TxError) Unwrap() error { return e.Err }

// UserMessage reduces an error to its first clause for display, dropping
// the parenthesized RPC details nodes append.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if idx := strings.Index(msg, "("); idx > 0 {
		msg = msg[:idx]
	}
	return strings.TrimSpace(msg)
}
