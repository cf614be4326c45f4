package query

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Poller refetches a value on a fixed interval
type Poller[T any] struct {
	name     string
	interval time.Duration
	fetch    Fetcher[T]
	logger   *zap.Logger
}

// NewPoller creates a poller. A non-positive interval fetches only once.
func NewPoller[T any](name string, interval time.Duration, fetch Fetcher[T], logger *zap.Logger) *Poller[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller[T]{
		name:     name,
		interval: interval,
		fetch:    fetch,
		logger:   logger,
	}
}

// Interval returns the refetch interval
func (p *Poller[T]) Interval() time.Duration {
	return p.interval
}

// Run fetches immediately, then on every tick until ctx is done, passing
// each result to onResult.
func (p *Poller[T]) Run(ctx context.Context, onResult func(T, error)) {
	p.poll(ctx, onResult)

	if p.interval <= 0 {
		return
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx, onResult)
		}
	}
}

func (p *Poller[T]) poll(ctx context.Context, onResult func(T, error)) {
	v, err := p.fetch(ctx)
	if err != nil && ctx.Err() != nil {
		return
	}
	if err != nil {
		p.logger.Debug("poll failed", zap.String("poller", p.name), zap.Error(err))
	}
	onResult(v, err)
}
