// Package enumerate walks the factory's token registry in bounded batches
// and yields display-ready records through a pull iterator.
package enumerate

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/NuclearManD3/DeployBased/internal/launchpad"
	"github.com/NuclearManD3/DeployBased/internal/model"
)

// Order selects the direction of enumeration.
type Order int

const (
	// NewestFirst walks from the end of the registry toward index zero.
	NewestFirst Order = iota
	// OldestFirst walks from index zero forward.
	OldestFirst
)

// ErrBusy is returned when an enumeration is already running. Overlapping
// requests are dropped, not queued.
var ErrBusy = errors.New("token enumeration already in progress")

const (
	defaultBatchSize  = 25
	defaultFetchLimit = 50
)

// Config bounds one enumeration pass.
type Config struct {
	Factory common.Address
	Order   Order

	// BatchSize is the registry range requested per contract call.
	// FetchLimit caps the total indices visited in one pass so a huge
	// registry cannot stall the caller. Zero values take the defaults
	// (25 and 50).
	BatchSize  int64
	FetchLimit int64

	// OwnerFilter, when non-empty, keeps only tokens whose owner matches
	// it case-insensitively.
	OwnerFilter string

	Retries    int
	RetryDelay time.Duration
}

func (c *Config) withDefaults() {
	if c.BatchSize <= 0 {
		c.BatchSize = defaultBatchSize
	}
	if c.FetchLimit <= 0 {
		c.FetchLimit = defaultFetchLimit
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 200 * time.Millisecond
	}
}

// Registry serializes enumeration passes over one factory reader. A pass
// in flight causes Begin to fail fast with ErrBusy rather than wait.
type Registry struct {
	mu     sync.Mutex
	reader launchpad.FactoryReader
	logger *zap.Logger
}

func NewRegistry(reader launchpad.FactoryReader, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{reader: reader, logger: logger}
}

// Begin reads the registry size and returns an iterator over it. The
// caller must drain the iterator or call Close to let the next pass run.
func (r *Registry) Begin(ctx context.Context, cfg Config) (*Enumerator, error) {
	if !r.mu.TryLock() {
		return nil, ErrBusy
	}
	cfg.withDefaults()

	var total int64
	err := withRetry(ctx, cfg.Retries, cfg.RetryDelay, func(ctx context.Context) error {
		n, err := r.reader.TotalTokens(ctx, cfg.Factory)
		if err != nil {
			return err
		}
		total = n.Int64()
		return nil
	})
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}

	e := &Enumerator{
		cfg:    cfg,
		reader: r.reader,
		logger: r.logger,
		total:  total,
	}
	e.release = func() { r.mu.Unlock() }
	if cfg.Order == NewestFirst {
		e.cursor = total
	}
	return e, nil
}

// Enumerator yields token records one at a time, fetching registry batches
// lazily. Not safe for concurrent use.
type Enumerator struct {
	cfg    Config
	reader launchpad.FactoryReader
	logger *zap.Logger

	total   int64
	cursor  int64 // next unvisited index boundary
	visited int64 // indices consumed against FetchLimit
	buf     []model.TokenRecord
	done    bool

	release   func()
	closeOnce sync.Once
}

// Total reports the registry size observed when the pass began.
func (e *Enumerator) Total() int64 {
	return e.total
}

// Next returns the next record. ok is false once the pass is exhausted;
// the pass releases its slot at that point. A batch that keeps failing
// after retries is logged and skipped, so Next only errors on context
// cancellation.
func (e *Enumerator) Next(ctx context.Context) (model.TokenRecord, bool, error) {
	for len(e.buf) == 0 {
		if e.done {
			e.Close()
			return model.TokenRecord{}, false, nil
		}
		if err := e.fillBatch(ctx); err != nil {
			e.Close()
			return model.TokenRecord{}, false, err
		}
	}

	rec := e.buf[0]
	e.buf = e.buf[1:]
	return rec, true, nil
}

// Close releases the enumeration slot early. Safe to call multiple times.
func (e *Enumerator) Close() {
	e.closeOnce.Do(e.release)
}

func (e *Enumerator) fillBatch(ctx context.Context) error {
	remaining := e.cfg.FetchLimit - e.visited
	if remaining <= 0 {
		e.done = true
		return nil
	}
	size := e.cfg.BatchSize
	if size > remaining {
		size = remaining
	}

	var start, end int64
	switch e.cfg.Order {
	case OldestFirst:
		if e.cursor >= e.total {
			e.done = true
			return nil
		}
		start = e.cursor
		end = start + size
		if end > e.total {
			end = e.total
		}
		e.cursor = end
		if e.cursor >= e.total {
			e.done = true
		}
	default: // NewestFirst
		if e.cursor <= 0 {
			e.done = true
			return nil
		}
		end = e.cursor
		start = end - size
		if start < 0 {
			start = 0
		}
		e.cursor = start
		if e.cursor <= 0 {
			e.done = true
		}
	}
	e.visited += end - start

	var details []launchpad.TokenDetail
	err := withRetry(ctx, e.cfg.Retries, e.cfg.RetryDelay, func(ctx context.Context) error {
		var err error
		details, err = e.reader.ListManyTokenDetails(ctx, e.cfg.Factory, start, end)
		return err
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// Skip the batch rather than abort the whole pass.
		e.logger.Warn("token batch fetch failed, skipping",
			zap.Int64("start", start),
			zap.Int64("end", end),
			zap.Error(err),
		)
		return nil
	}

	if e.cfg.Order == NewestFirst {
		for i, j := 0, len(details)-1; i < j; i, j = i+1, j-1 {
			details[i], details[j] = details[j], details[i]
		}
	}

	for _, d := range details {
		rec := toRecord(d)
		if e.cfg.OwnerFilter != "" && !strings.EqualFold(rec.Owner, e.cfg.OwnerFilter) {
			continue
		}
		e.buf = append(e.buf, rec)
	}
	return nil
}

func toRecord(d launchpad.TokenDetail) model.TokenRecord {
	rec := model.TokenRecord{
		Address: strings.ToLower(d.Token.Hex()),
		Owner:   strings.ToLower(d.Owner.Hex()),
		Name:    d.Name,
		Symbol:  d.Symbol,
	}
	switch {
	case rec.Name != "":
		rec.Label = rec.Name
	case rec.Symbol != "":
		rec.Label = rec.Symbol
	case rec.Address != "":
		rec.Label = rec.Address
	default:
		rec.Label = "Unknown"
	}
	return rec
}

// Collect drains an iterator into a slice. Convenience for callers that
// want the whole page at once.
func Collect(ctx context.Context, e *Enumerator) ([]model.TokenRecord, error) {
	var out []model.TokenRecord
	for {
		rec, ok, err := e.Next(ctx)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, rec)
	}
}
