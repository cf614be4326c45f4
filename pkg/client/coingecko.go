package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"go.uber.org/zap"
)

// DefaultCoinGeckoURL is the public CoinGecko API
const DefaultCoinGeckoURL = "https://api.coingecko.com/api/v3"

// PriceTTL is how long a fetched price is reused. It stays under the USD
// poll interval so every poll tick still reaches the API.
const PriceTTL = 30 * time.Second

// CoinGeckoClient reads USD prices from the CoinGecko simple price endpoint
type CoinGeckoClient struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
	prices     *ttlcache.Cache[string, float64]
}

// NewCoinGeckoClient creates a new price feed client
func NewCoinGeckoClient(baseURL string, httpClient *http.Client, logger *zap.Logger) *CoinGeckoClient {
	if baseURL == "" {
		baseURL = DefaultCoinGeckoURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: time.Minute}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CoinGeckoClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
		prices: ttlcache.New[string, float64](
			ttlcache.WithTTL[string, float64](PriceTTL),
			ttlcache.WithDisableTouchOnHit[string, float64](),
		),
	}
}

// SimplePrice returns the USD price for a CoinGecko id, reusing a price
// fetched within PriceTTL. An empty id returns ErrPriceUnavailable without
// calling the API.
func (c *CoinGeckoClient) SimplePrice(ctx context.Context, id string) (float64, error) {
	if id == "" {
		return 0, ErrPriceUnavailable
	}
	if item := c.prices.Get(id); item != nil {
		return item.Value(), nil
	}

	params := url.Values{}
	params.Set("ids", id)
	params.Set("vs_currencies", "usd")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/simple/price?"+params.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("build price request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to get price for %s: %w", id, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read price response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return 0, parseAPIError(resp.StatusCode, body)
	}

	var prices map[string]map[string]float64
	if err := json.Unmarshal(body, &prices); err != nil {
		return 0, fmt.Errorf("decode price response: %w", err)
	}

	usd, ok := prices[id]["usd"]
	if !ok {
		return 0, fmt.Errorf("%s: %w", id, ErrPriceUnavailable)
	}

	c.prices.Set(id, usd, ttlcache.DefaultTTL)
	c.logger.Debug("price fetched", zap.String("id", id), zap.Float64("usd", usd))
	return usd, nil
}
