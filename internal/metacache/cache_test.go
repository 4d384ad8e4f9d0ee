package metacache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestGetLoadsOnce(t *testing.T) {
	ctx := context.Background()
	cache := New(ctx, nil, nil)

	calls := 0
	loader := func(context.Context) (string, error) {
		calls++
		return "TKN", nil
	}

	for i := 0; i < 3; i++ {
		value, err := cache.Get(ctx, "0xAbC", "symbol", loader)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if value != "TKN" {
			t.Fatalf("value = %q, want TKN", value)
		}
	}
	if calls != 1 {
		t.Fatalf("loader called %d times, want 1", calls)
	}
}

func TestGetKeyIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	cache := New(ctx, nil, nil)

	calls := 0
	loader := func(context.Context) (string, error) {
		calls++
		return "Demo", nil
	}

	if _, err := cache.Get(ctx, "0xABCDEF", "name", loader); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if _, err := cache.Get(ctx, "0xabcdef", "name", loader); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if calls != 1 {
		t.Fatalf("loader called %d times, want 1", calls)
	}
}

func TestGetLoaderError(t *testing.T) {
	ctx := context.Background()
	cache := New(ctx, nil, nil)

	wantErr := errors.New("rpc down")
	_, err := cache.Get(ctx, "0xabc", "symbol", func(context.Context) (string, error) {
		return "", wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}

	// A failed load caches nothing; the next call retries.
	if _, ok := cache.Peek("0xabc", "symbol"); ok {
		t.Fatalf("failed load left a cached entry")
	}
	value, err := cache.Get(ctx, "0xabc", "symbol", func(context.Context) (string, error) {
		return "TKN", nil
	})
	if err != nil || value != "TKN" {
		t.Fatalf("retry = %q, %v", value, err)
	}
}

func TestPutAndPeek(t *testing.T) {
	ctx := context.Background()
	cache := New(ctx, nil, nil)

	cache.Put(ctx, "0xDeF", "decimals", "18")

	value, ok := cache.Peek("0xdef", "decimals")
	if !ok || value != "18" {
		t.Fatalf("Peek = %q, %v", value, ok)
	}
	if cache.Len() != 1 {
		t.Fatalf("Len = %d, want 1", cache.Len())
	}
}

func TestCachePersistsThroughStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	first := New(ctx, store, nil)
	first.Put(ctx, "0xabc", "symbol", "TKN")

	second := New(ctx, store, nil)
	value, ok := second.Peek("0xabc", "symbol")
	if !ok || value != "TKN" {
		t.Fatalf("reloaded value = %q, %v", value, ok)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sub", "cache.json")

	store := NewFileStore(path)
	if err := store.Put(ctx, "0xabc/symbol", "TKN"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Put(ctx, "0xabc/name", "Token"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	loaded, err := NewFileStore(path).Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := map[string]string{"0xabc/symbol": "TKN", "0xabc/name": "Token"}
	if !reflect.DeepEqual(loaded, want) {
		t.Fatalf("loaded = %v, want %v", loaded, want)
	}
}

func TestFileStoreMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nope.json"))
	loaded, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("loaded = %v, want empty", loaded)
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	loaded, err := NewFileStore(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("corrupt file loaded as %v, want empty", loaded)
	}
}
