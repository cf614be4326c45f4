package query

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Status is the lifecycle state of a query
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusResolved
	StatusRejected
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusResolved:
		return "resolved"
	case StatusRejected:
		return "rejected"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Fetcher loads the data for the active key
type Fetcher[T any] func(ctx context.Context) (T, error)

// State is a snapshot of a query. Data is only meaningful when resolved
// and Err only when rejected.
type State[T any] struct {
	Key    string
	Status Status
	Data   T
	Err    error
}

// IsResolved reports whether Data holds the result for the active key
func (s State[T]) IsResolved() bool { return s.Status == StatusResolved }

// IsRejected reports whether the last fetch for the active key failed
func (s State[T]) IsRejected() bool { return s.Status == StatusRejected }

// Query tracks one resource. Only the response for the currently active
// key is ever committed; responses for keys that were replaced while in
// flight are dropped.
type Query[T any] struct {
	name   string
	logger *zap.Logger

	mu    sync.Mutex
	state State[T]
}

// New creates a query. Reuse of earlier results belongs to the fetcher;
// the query only tracks which key is active.
func New[T any](name string, logger *zap.Logger) *Query[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Query[T]{
		name:   name,
		logger: logger,
	}
}

// State returns a snapshot of the current state
func (q *Query[T]) State() State[T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// Activate makes key the active key. A closed gate returns the query to
// idle. A fetch already pending for key is left to finish. Otherwise the
// query goes pending and Activate returns true: the caller must Fetch.
func (q *Query[T]) Activate(key string, enabled bool) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !enabled {
		q.state = State[T]{Key: key, Status: StatusIdle}
		return false
	}

	if q.state.Key == key && q.state.Status == StatusPending {
		return false
	}

	q.state = State[T]{Key: key, Status: StatusPending}
	return true
}

// Fetch runs fetch for key and commits the result if key is still the
// active, pending key. It returns the state after the commit attempt.
func (q *Query[T]) Fetch(ctx context.Context, key string, fetch Fetcher[T]) State[T] {
	data, err := fetch(ctx)

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.state.Key != key || q.state.Status != StatusPending {
		q.logger.Debug("discarding stale response",
			zap.String("query", q.name),
			zap.String("key", key),
			zap.String("active_key", q.state.Key),
		)
		return q.state
	}

	if err != nil {
		q.logger.Debug("query failed", zap.String("query", q.name), zap.Error(err))
		q.state.Status = StatusRejected
		q.state.Err = err
		return q.state
	}

	q.state.Status = StatusResolved
	q.state.Data = data
	return q.state
}

// Run activates key and fetches when needed
func (q *Query[T]) Run(ctx context.Context, key string, enabled bool, fetch Fetcher[T]) State[T] {
	if q.Activate(key, enabled) {
		return q.Fetch(ctx, key, fetch)
	}
	return q.State()
}

// Key builds a query key from its parameters
func Key(parts ...interface{}) string {
	s := make([]string, len(parts))
	for i, p := range parts {
		s[i] = fmt.Sprint(p)
	}
	return strings.Join(s, "|")
}
