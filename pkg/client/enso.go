package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"pathfinder/pkg/types"
)

// DefaultBaseURL is the public routing API
const DefaultBaseURL = "https://api.enso.finance/api/v1"

// Options configures an EnsoClient
type Options struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// EnsoClient issues typed requests to the routing API
type EnsoClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *zap.Logger
}

// NewEnsoClient creates a new routing API client
func NewEnsoClient(opts Options) *EnsoClient {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &EnsoClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     opts.APIKey,
		logger:     logger,
	}
}

// GetNetworks retrieves the networks the router supports
func (c *EnsoClient) GetNetworks(ctx context.Context) ([]types.Network, error) {
	var networks []types.Network
	if err := c.get(ctx, "/networks", nil, &networks); err != nil {
		return nil, fmt.Errorf("failed to get networks: %w", err)
	}
	return networks, nil
}

// GetTokens retrieves the tokens available on a chain
func (c *EnsoClient) GetTokens(ctx context.Context, chainID uint64) ([]types.Token, error) {
	params := url.Values{}
	params.Set("chainId", strconv.FormatUint(chainID, 10))
	params.Set("includeMetadata", "true")

	var page types.TokenPage
	if err := c.get(ctx, "/tokens", params, &page); err != nil {
		return nil, fmt.Errorf("failed to get tokens: %w", err)
	}
	return page.Data, nil
}

// GetProtocols retrieves the protocols the router can use
func (c *EnsoClient) GetProtocols(ctx context.Context) ([]types.Protocol, error) {
	var protocols []types.Protocol
	if err := c.get(ctx, "/protocols", nil, &protocols); err != nil {
		return nil, fmt.Errorf("failed to get protocols: %w", err)
	}
	return protocols, nil
}

// GetWallet retrieves the routing wallet for an address
func (c *EnsoClient) GetWallet(ctx context.Context, chainID uint64, fromAddress string) (*types.WalletInfo, error) {
	params := url.Values{}
	params.Set("chainId", strconv.FormatUint(chainID, 10))
	params.Set("fromAddress", fromAddress)

	var wallet types.WalletInfo
	if err := c.get(ctx, "/wallet", params, &wallet); err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

// GetApproval retrieves the approval a token needs before the router can spend it
func (c *EnsoClient) GetApproval(ctx context.Context, req types.ApprovalRequest) (*types.ApprovalResponse, error) {
	params := url.Values{}
	params.Set("chainId", strconv.FormatUint(req.ChainID, 10))
	params.Set("fromAddress", req.FromAddress)
	params.Set("tokenAddress", req.TokenAddress)
	params.Set("amount", req.Amount)
	params.Set("routingStrategy", string(types.StrategyRouter))

	var approval types.ApprovalResponse
	if err := c.get(ctx, "/wallet/approve", params, &approval); err != nil {
		return nil, fmt.Errorf("failed to get approval: %w", err)
	}
	return &approval, nil
}

// GetQuote retrieves a quote for swapping tokenIn into tokenOut
func (c *EnsoClient) GetQuote(ctx context.Context, req types.QuoteRequest) (*types.QuoteResponse, error) {
	params := url.Values{}
	params.Set("chainId", strconv.FormatUint(req.ChainID, 10))
	params.Set("fromAddress", req.FromAddress)
	setArray(params, "tokenIn", req.TokenIn)
	setArray(params, "tokenOut", req.TokenOut)
	setArray(params, "amountIn", req.AmountIn)
	params.Set("priceImpact", "true")

	var quote types.QuoteResponse
	if err := c.get(ctx, "/shortcuts/quote", params, &quote); err != nil {
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	return &quote, nil
}

// GetRoute retrieves the best route for swapping tokenIn into tokenOut
func (c *EnsoClient) GetRoute(ctx context.Context, req types.RouteRequest) (*types.RouteResponse, error) {
	params := url.Values{}
	params.Set("chainId", strconv.FormatUint(req.ChainID, 10))
	params.Set("fromAddress", req.FromAddress)
	setArray(params, "tokenIn", req.TokenIn)
	setArray(params, "tokenOut", req.TokenOut)
	setArray(params, "amountIn", req.AmountIn)
	if req.Slippage != "" {
		params.Set("slippage", req.Slippage)
	}
	params.Set("priceImpact", strconv.FormatBool(req.PriceImpact))
	params.Set("routingStrategy", string(types.StrategyRouter))

	var route types.RouteResponse
	if err := c.get(ctx, "/shortcuts/route", params, &route); err != nil {
		return nil, fmt.Errorf("failed to get route: %w", err)
	}
	return &route, nil
}

// setArray encodes values as repeated "name[]" keys, even for a single value
func setArray(params url.Values, name string, values []string) {
	if len(values) == 0 {
		return
	}
	key := name + "[]"
	for _, v := range values {
		params.Add(key, v)
	}
}

func (c *EnsoClient) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("routing api request",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseAPIError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
