package pathfinder

import (
	"context"
	"math/big"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pathfinder/pkg/network"
	"pathfinder/pkg/query"
)

const (
	GasPriceInterval     = 10 * time.Second
	USDPriceInterval     = 60 * time.Second
	DefaultBlockInterval = 12 * time.Second
)

// ChainReader reads live values from a chain node
type ChainReader interface {
	GasPrice(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// PriceSource quotes a coin's USD price by its price-feed id
type PriceSource interface {
	SimplePrice(ctx context.Context, id string) (float64, error)
}

// Snapshot holds the live inputs of the gas and age formatters. A nil
// field means the value is not available.
type Snapshot struct {
	GasPrice     *big.Int
	USDPrice     *float64
	CurrentBlock *uint64
}

// Equal reports whether two snapshots hold the same values
func (s Snapshot) Equal(o Snapshot) bool {
	switch {
	case (s.GasPrice == nil) != (o.GasPrice == nil):
		return false
	case s.GasPrice != nil && s.GasPrice.Cmp(o.GasPrice) != 0:
		return false
	case (s.USDPrice == nil) != (o.USDPrice == nil):
		return false
	case s.USDPrice != nil && *s.USDPrice != *o.USDPrice:
		return false
	case (s.CurrentBlock == nil) != (o.CurrentBlock == nil):
		return false
	case s.CurrentBlock != nil && *s.CurrentBlock != *o.CurrentBlock:
		return false
	}
	return true
}

// Feeds tracks gas price, native USD price and block height for one chain.
// Either collaborator may be nil, which leaves its fields nil.
type Feeds struct {
	chainID uint64
	reader  ChainReader
	prices  PriceSource
	logger  *zap.Logger

	mu   sync.Mutex
	snap Snapshot

	// serialises onUpdate callbacks
	notifyMu sync.Mutex
}

// NewFeeds creates the feeds for a chain
func NewFeeds(chainID uint64, reader ChainReader, prices PriceSource, logger *zap.Logger) *Feeds {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Feeds{
		chainID: chainID,
		reader:  reader,
		prices:  prices,
		logger:  logger,
	}
}

// Snapshot returns the latest values
func (f *Feeds) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

// Refresh fetches all three values once and returns the result
func (f *Feeds) Refresh(ctx context.Context) Snapshot {
	var g errgroup.Group
	g.Go(func() error {
		f.setGasPrice(f.fetchGasPrice(ctx))
		return nil
	})
	g.Go(func() error {
		f.setUSDPrice(f.fetchUSDPrice(ctx))
		return nil
	})
	g.Go(func() error {
		f.setBlock(f.fetchBlock(ctx))
		return nil
	})
	_ = g.Wait()
	return f.Snapshot()
}

// Watch polls each value on its own interval until ctx is done. onUpdate
// receives the full snapshot after every poll. With no collaborators there
// is nothing to poll and Watch returns at once.
func (f *Feeds) Watch(ctx context.Context, onUpdate func(Snapshot)) {
	notify := func() {
		f.notifyMu.Lock()
		defer f.notifyMu.Unlock()
		onUpdate(f.Snapshot())
	}

	gas, price, block := f.pollers()
	f.logger.Debug("watching live values",
		zap.Uint64("chain_id", f.chainID),
		zap.Duration("gas_interval", gas.Interval()),
		zap.Duration("price_interval", price.Interval()),
		zap.Duration("block_interval", block.Interval()),
	)

	var g errgroup.Group
	if f.reader != nil {
		g.Go(func() error {
			gas.Run(ctx, func(v *big.Int, err error) {
				f.setGasPrice(v, err)
				notify()
			})
			return nil
		})
		g.Go(func() error {
			block.Run(ctx, func(v *uint64, err error) {
				f.setBlock(v, err)
				notify()
			})
			return nil
		})
	}
	if f.prices != nil && f.priceID() != "" {
		g.Go(func() error {
			price.Run(ctx, func(v *float64, err error) {
				f.setUSDPrice(v, err)
				notify()
			})
			return nil
		})
	}
	_ = g.Wait()
}

// pollers builds one poller per live value: gas every GasPriceInterval, the
// USD price every USDPriceInterval and blocks at the chain's block time
func (f *Feeds) pollers() (*query.Poller[*big.Int], *query.Poller[*float64], *query.Poller[*uint64]) {
	return query.NewPoller[*big.Int]("gas_price", GasPriceInterval, f.fetchGasPrice, f.logger),
		query.NewPoller[*float64]("usd_price", USDPriceInterval, f.fetchUSDPrice, f.logger),
		query.NewPoller[*uint64]("block_number", f.blockInterval(), f.fetchBlock, f.logger)
}

func (f *Feeds) priceID() string {
	cfg, ok := network.Lookup(f.chainID)
	if !ok {
		return ""
	}
	return cfg.NativeCurrency.CoingeckoID
}

func (f *Feeds) blockInterval() time.Duration {
	cfg, ok := network.Lookup(f.chainID)
	if !ok || cfg.BlockInterval() <= 0 {
		return DefaultBlockInterval
	}
	return cfg.BlockInterval()
}

func (f *Feeds) fetchGasPrice(ctx context.Context) (*big.Int, error) {
	if f.reader == nil {
		return nil, nil
	}
	return f.reader.GasPrice(ctx)
}

func (f *Feeds) fetchUSDPrice(ctx context.Context) (*float64, error) {
	id := f.priceID()
	if f.prices == nil || id == "" {
		return nil, nil
	}
	price, err := f.prices.SimplePrice(ctx, id)
	if err != nil {
		return nil, err
	}
	return &price, nil
}

func (f *Feeds) fetchBlock(ctx context.Context) (*uint64, error) {
	if f.reader == nil {
		return nil, nil
	}
	n, err := f.reader.BlockNumber(ctx)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (f *Feeds) setGasPrice(v *big.Int, err error) {
	if err != nil {
		f.logger.Debug("gas price unavailable", zap.Error(err))
		v = nil
	}
	f.mu.Lock()
	f.snap.GasPrice = v
	f.mu.Unlock()
}

func (f *Feeds) setUSDPrice(v *float64, err error) {
	if err != nil {
		f.logger.Debug("usd price unavailable", zap.Error(err))
		v = nil
	}
	f.mu.Lock()
	f.snap.USDPrice = v
	f.mu.Unlock()
}

func (f *Feeds) setBlock(v *uint64, err error) {
	if err != nil {
		f.logger.Debug("block number unavailable", zap.Error(err))
		v = nil
	}
	f.mu.Lock()
	f.snap.CurrentBlock = v
	f.mu.Unlock()
}
