package source

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/rshade/usertable/internal/logging"
)

// DefaultQueryKey is the stable key the user collection is cached under.
const DefaultQueryKey = "users"

// Status is the state of a query as seen by a consumer.
type Status int

const (
	// StatusIdle means no load has been started for the key.
	StatusIdle Status = iota
	// StatusLoading means a load is in flight.
	StatusLoading
	// StatusError means the last load failed.
	StatusError
	// StatusSuccess means a result is cached.
	StatusSuccess
)

// String returns the lower-case status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// Result is a point-in-time view of a query.
type Result struct {
	Status  Status
	Records []Record
	Err     error
}

// QueryClient caches loader results by query key. A successful result is
// reused until Invalidate is called; failures are remembered for Result
// but never cached as data, so the next Fetch loads again.
type QueryClient struct {
	loader Loader
	store  *MemoryStore
	group  singleflight.Group

	mu       sync.Mutex
	inflight map[string]bool
	failures map[string]error
}

// NewQueryClient creates a client over loader with an empty cache.
func NewQueryClient(loader Loader) *QueryClient {
	return &QueryClient{
		loader:   loader,
		store:    NewMemoryStore(),
		inflight: make(map[string]bool),
		failures: make(map[string]error),
	}
}

// Fetch returns the cached collection for key, loading it if needed.
// Concurrent callers for the same key share a single load.
func (c *QueryClient) Fetch(ctx context.Context, key string) ([]Record, error) {
	if key == "" {
		return nil, ErrInvalidCacheKey
	}

	if entry, err := c.store.Get(key); err == nil {
		logging.FromContext(ctx).Debug().Ctx(ctx).
			Str("query_key", key).
			Dur("age", entry.Age()).
			Msg("query cache hit")
		return entry.Records, nil
	}

	v, err, shared := c.group.Do(key, func() (any, error) {
		return c.load(ctx, key)
	})
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Debug().Ctx(ctx).
		Str("query_key", key).
		Bool("shared", shared).
		Msg("query loaded")

	records, _ := v.([]Record)
	return records, nil
}

// Prefetch starts a background Fetch. Result reports StatusLoading as soon
// as Prefetch returns.
func (c *QueryClient) Prefetch(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if _, err := c.store.Get(key); err == nil {
		return
	}
	c.markLoading(key)
	go func() {
		_, _ = c.Fetch(ctx, key)
	}()
}

// Result reports the current state of key without triggering a load.
func (c *QueryClient) Result(key string) Result {
	if entry, err := c.store.Get(key); err == nil {
		return Result{Status: StatusSuccess, Records: entry.Records}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inflight[key] {
		return Result{Status: StatusLoading}
	}
	if err, ok := c.failures[key]; ok {
		return Result{Status: StatusError, Err: err}
	}
	return Result{Status: StatusIdle}
}

// Invalidate drops the cached result and any remembered failure for key.
func (c *QueryClient) Invalidate(key string) error {
	if err := c.store.Delete(key); err != nil && !errors.Is(err, ErrCacheNotFound) {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.failures, key)
	return nil
}

// load runs inside the singleflight group. A load that completed between the
// caller's cache miss and entering the group is reused instead of repeated.
func (c *QueryClient) load(ctx context.Context, key string) ([]Record, error) {
	if entry, err := c.store.Get(key); err == nil {
		c.mu.Lock()
		delete(c.inflight, key)
		c.mu.Unlock()
		return entry.Records, nil
	}

	c.markLoading(key)
	records, err := c.loader.Load(ctx)
	c.finish(key, records, err)
	return records, err
}

func (c *QueryClient) markLoading(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight[key] = true
}

func (c *QueryClient) finish(key string, records []Record, err error) {
	if err == nil {
		_ = c.store.Set(key, records)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, key)
	if err != nil {
		c.failures[key] = err
	} else {
		delete(c.failures, key)
	}
}
