package launchpad

import (
	"errors"
	"fmt"
	"testing"
)

func TestUserMessage(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{errors.New("execution reverted"), "execution reverted"},
		{errors.New("insufficient funds (gas 21000, balance 0, tx cost 42)"), "insufficient funds"},
		{&TxError{Method: "approve", Err: errors.New("nonce too low (expected 5, got 3)")}, "transaction approve: nonce too low"},
	}
	for _, tc := range cases {
		if got := UserMessage(tc.err); got != tc.want {
			t.Fatalf("UserMessage(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestReadErrorUnwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := fmt.Errorf("fetching: %w", &ReadError{Contract: "pool", Method: "slot0", Err: inner})

	var readErr *ReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("errors.As failed")
	}
	if readErr.Method != "slot0" {
		t.Fatalf("method = %q, want slot0", readErr.Method)
	}
	if !errors.Is(err, inner) {
		t.Fatalf("inner error not reachable through Unwrap")
	}
}

func TestTxErrorUnwrap(t *testing.T) {
	inner := errors.New("replacement underpriced")
	err := &TxError{Method: "swapV3ExactIn", Err: inner}

	if !errors.Is(err, inner) {
		t.Fatalf("inner error not reachable through Unwrap")
	}
}
