package enumerate

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/NuclearManD3/DeployBased/internal/launchpad"
)

type fakeFactory struct {
	details   []launchpad.TokenDetail
	failFrom  map[int64]bool // batches starting at these indices always fail
	failFirst int            // the first N list calls fail regardless of range
	totalErr  error

	listCalls int
}

func (f *fakeFactory) TotalTokens(_ context.Context, _ common.Address) (*big.Int, error) {
	if f.totalErr != nil {
		return nil, f.totalErr
	}
	return big.NewInt(int64(len(f.details))), nil
}

func (f *fakeFactory) ListManyTokenDetails(_ context.Context, _ common.Address, start, end int64) ([]launchpad.TokenDetail, error) {
	f.listCalls++
	if f.listCalls <= f.failFirst {
		return nil, fmt.Errorf("transient rpc failure")
	}
	if f.failFrom[start] {
		return nil, fmt.Errorf("execution reverted")
	}
	if start < 0 || end > int64(len(f.details)) || start > end {
		return nil, fmt.Errorf("range [%d,%d) out of bounds", start, end)
	}
	out := make([]launchpad.TokenDetail, end-start)
	copy(out, f.details[start:end])
	return out, nil
}

func (f *fakeFactory) GetPool(_ context.Context, _, _, _ common.Address, _ uint32) (common.Address, error) {
	return common.Address{}, launchpad.ErrPoolNotFound
}

func makeDetails(n int) []launchpad.TokenDetail {
	details := make([]launchpad.TokenDetail, n)
	for i := range details {
		details[i] = launchpad.TokenDetail{
			Token:  common.BigToAddress(big.NewInt(int64(i + 1))),
			Owner:  common.BigToAddress(big.NewInt(int64(i + 1000))),
			Name:   fmt.Sprintf("Token %d", i),
			Symbol: fmt.Sprintf("TK%d", i),
		}
	}
	return details
}

func drain(t *testing.T, reg *Registry, cfg Config) []string {
	t.Helper()
	iter, err := reg.Begin(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	defer iter.Close()

	records, err := Collect(context.Background(), iter)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	names := make([]string, len(records))
	for i, rec := range records {
		names[i] = rec.Name
	}
	return names
}

func TestNewestFirstOrder(t *testing.T) {
	factory := &fakeFactory{details: makeDetails(10)}
	reg := NewRegistry(factory, nil)

	names := drain(t, reg, Config{Order: NewestFirst, BatchSize: 4, FetchLimit: 50, RetryDelay: time.Millisecond})

	want := []string{
		"Token 9", "Token 8", "Token 7", "Token 6",
		"Token 5", "Token 4", "Token 3", "Token 2",
		"Token 1", "Token 0",
	}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("order = %v, want %v", names, want)
	}
}

func TestOldestFirstOrder(t *testing.T) {
	factory := &fakeFactory{details: makeDetails(5)}
	reg := NewRegistry(factory, nil)

	names := drain(t, reg, Config{Order: OldestFirst, BatchSize: 2, FetchLimit: 50, RetryDelay: time.Millisecond})

	want := []string{"Token 0", "Token 1", "Token 2", "Token 3", "Token 4"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("order = %v, want %v", names, want)
	}
}

func TestFetchLimitCapsPass(t *testing.T) {
	factory := &fakeFactory{details: makeDetails(80)}
	reg := NewRegistry(factory, nil)

	names := drain(t, reg, Config{Order: NewestFirst, BatchSize: 25, FetchLimit: 50, RetryDelay: time.Millisecond})

	if len(names) != 50 {
		t.Fatalf("record count = %d, want 50", len(names))
	}
	if names[0] != "Token 79" || names[49] != "Token 30" {
		t.Fatalf("cap window = %s .. %s, want Token 79 .. Token 30", names[0], names[49])
	}
}

func TestLabelFallback(t *testing.T) {
	details := makeDetails(3)
	details[1].Name = ""
	details[2].Name = ""
	details[2].Symbol = ""
	factory := &fakeFactory{details: details}
	reg := NewRegistry(factory, nil)

	iter, err := reg.Begin(context.Background(), Config{Order: OldestFirst, RetryDelay: time.Millisecond})
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	records, err := Collect(context.Background(), iter)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("record count = %d, want 3", len(records))
	}

	if records[0].Label != "Token 0" {
		t.Fatalf("label[0] = %q, want name", records[0].Label)
	}
	if records[1].Label != "TK1" {
		t.Fatalf("label[1] = %q, want symbol", records[1].Label)
	}
	if records[2].Label != records[2].Address {
		t.Fatalf("label[2] = %q, want address %q", records[2].Label, records[2].Address)
	}
}

func TestFailedBatchIsSkipped(t *testing.T) {
	factory := &fakeFactory{
		details:  makeDetails(10),
		failFrom: map[int64]bool{5: true},
	}
	reg := NewRegistry(factory, nil)

	names := drain(t, reg, Config{Order: OldestFirst, BatchSize: 5, FetchLimit: 50, RetryDelay: time.Millisecond})

	// The second batch [5,10) fails after retries and is dropped; the pass
	// still returns the first batch.
	want := []string{"Token 0", "Token 1", "Token 2", "Token 3", "Token 4"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("records = %v, want %v", names, want)
	}
}

func TestOwnerFilter(t *testing.T) {
	details := makeDetails(6)
	owner := common.BigToAddress(big.NewInt(42))
	details[1].Owner = owner
	details[4].Owner = owner
	factory := &fakeFactory{details: details}
	reg := NewRegistry(factory, nil)

	names := drain(t, reg, Config{
		Order:       OldestFirst,
		OwnerFilter: strings.ToUpper(owner.Hex()), // filter matching is case-insensitive
		RetryDelay:  time.Millisecond,
	})

	want := []string{"Token 1", "Token 4"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("filtered = %v, want %v", names, want)
	}
}

func TestBeginDropsConcurrentPass(t *testing.T) {
	factory := &fakeFactory{details: makeDetails(3)}
	reg := NewRegistry(factory, nil)

	first, err := reg.Begin(context.Background(), Config{RetryDelay: time.Millisecond})
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}

	if _, err := reg.Begin(context.Background(), Config{RetryDelay: time.Millisecond}); !errors.Is(err, ErrBusy) {
		t.Fatalf("overlapping Begin err = %v, want ErrBusy", err)
	}

	first.Close()
	second, err := reg.Begin(context.Background(), Config{RetryDelay: time.Millisecond})
	if err != nil {
		t.Fatalf("Begin after Close: %v", err)
	}
	second.Close()
}

func TestSlotReleasedOnExhaustion(t *testing.T) {
	factory := &fakeFactory{details: makeDetails(2)}
	reg := NewRegistry(factory, nil)

	iter, err := reg.Begin(context.Background(), Config{RetryDelay: time.Millisecond})
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := Collect(context.Background(), iter); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	// Draining to the end releases the slot without an explicit Close.
	next, err := reg.Begin(context.Background(), Config{RetryDelay: time.Millisecond})
	if err != nil {
		t.Fatalf("Begin after drain: %v", err)
	}
	next.Close()
}

func TestBeginTotalError(t *testing.T) {
	wantErr := errors.New("rpc down")
	factory := &fakeFactory{totalErr: wantErr}
	reg := NewRegistry(factory, nil)

	if _, err := reg.Begin(context.Background(), Config{Retries: 1, RetryDelay: time.Millisecond}); !errors.Is(err, wantErr) {
		t.Fatalf("Begin err = %v, want %v", err, wantErr)
	}

	// A failed Begin must not leave the slot held.
	factory.totalErr = nil
	factory.details = makeDetails(1)
	recovered, err := reg.Begin(context.Background(), Config{RetryDelay: time.Millisecond})
	if err != nil {
		t.Fatalf("Begin after failure: %v", err)
	}
	recovered.Close()
}

func TestRetriesTransientFailure(t *testing.T) {
	factory := &fakeFactory{
		details:   makeDetails(4),
		failFirst: 1,
	}
	reg := NewRegistry(factory, nil)

	iter, err := reg.Begin(context.Background(), Config{Order: OldestFirst, Retries: 2, RetryDelay: time.Millisecond})
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	defer iter.Close()

	records, err := Collect(context.Background(), iter)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("record count = %d, want 4", len(records))
	}
	if factory.listCalls != 2 {
		t.Fatalf("list calls = %d, want 2 (one failure, one retry)", factory.listCalls)
	}
}
