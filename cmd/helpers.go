package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pathfinder/config"
	"pathfinder/pkg/chain"
	"pathfinder/pkg/client"
	"pathfinder/pkg/network"
	"pathfinder/pkg/parser"
	"pathfinder/pkg/pathfinder"
)

// deps holds everything a command needs to talk to the outside world
type deps struct {
	cfg    *config.Config
	logger *zap.Logger
	api    *client.CachedClient
	prices *client.CoinGeckoClient
	chain  *chain.Client
}

func setup(cmd *cobra.Command) (*deps, error) {
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = "debug"
	}

	logger, err := newLogger(level)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	enso := client.NewEnsoClient(client.Options{
		BaseURL:    cfg.BaseURL,
		APIKey:     cfg.APIKey,
		HTTPClient: httpClient,
		Logger:     logger,
	})

	api, err := client.NewCachedClient(enso, client.CacheOptions{
		TTL:    cfg.CacheTTL,
		Dir:    cfg.CacheDir,
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}

	if _, ok := network.Lookup(cfg.ChainID); !ok {
		logger.Warn("chain is not in the registry, gas cost and route age will show N/A",
			zap.Uint64("chain_id", cfg.ChainID),
			zap.Uint64s("known_chains", network.ChainIDs()),
		)
	}

	logger.Debug("configuration loaded",
		zap.Uint64("chain_id", cfg.ChainID),
		zap.String("base_url", cfg.BaseURL),
		zap.String("project_id", cfg.ProjectID),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.String("cache_dir", cfg.CacheDir),
	)

	return &deps{
		cfg:    cfg,
		logger: logger,
		api:    api,
		prices: client.NewCoinGeckoClient(cfg.CoinGeckoURL, httpClient, logger),
	}, nil
}

func (d *deps) Close() {
	d.api.Close()
	if d.chain != nil {
		d.chain.Close()
	}
	_ = d.logger.Sync()
}

// feeds connects to the chain's RPC endpoint when one is configured. Without
// one, gas costs render as N/A.
func (d *deps) feeds(ctx context.Context) *pathfinder.Feeds {
	var reader pathfinder.ChainReader

	if url := d.cfg.RPCURLFor(d.cfg.ChainID); url != "" {
		c, err := chain.Dial(ctx, d.cfg.ChainID, url)
		if err != nil {
			d.logger.Warn("rpc unavailable", zap.Uint64("chain_id", d.cfg.ChainID), zap.Error(err))
		} else {
			d.chain = c
			reader = c
		}
	} else {
		d.logger.Debug("no rpc url configured", zap.Uint64("chain_id", d.cfg.ChainID))
	}

	return pathfinder.NewFeeds(d.cfg.ChainID, reader, d.prices, d.logger)
}

// session resolves the swap arguments against the chain's token list and
// fills a session with them. reverse swaps the two tokens, keeping the amount.
func (d *deps) session(ctx context.Context, p *pathfinder.Pathfinder, args []string, reverse bool) (*pathfinder.Session, error) {
	swap, err := parser.ParseSwapArgs(args)
	if err != nil {
		return nil, err
	}
	if err := parser.ValidateSwapCommand(swap); err != nil {
		return nil, err
	}

	tokens, err := p.Tokens(ctx, d.cfg.ChainID)
	if err != nil {
		return nil, err
	}

	from, err := parser.ResolveToken(tokens, swap.From, d.cfg.ChainID)
	if err != nil {
		return nil, err
	}
	to, err := parser.ResolveToken(tokens, swap.To, d.cfg.ChainID)
	if err != nil {
		return nil, err
	}

	s := pathfinder.NewSession(d.cfg.ChainID)
	s.SetWallet(d.cfg.WalletAddress)
	s.SetFromToken(from)
	s.SetToToken(to)
	if reverse {
		s.SwapTokens()
	}
	s.SetAmount(swap.Amount)
	s.SetSlippage(d.cfg.Slippage)

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func startSpinner(suffix string, enabled bool) func() {
	if !enabled {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = suffix
	s.Start()
	return s.Stop
}

func printJSON(v interface{}) {
	jsonData, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(jsonData))
}
