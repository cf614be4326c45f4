package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"pathfinder/pkg/types"
)

func setupTest(t *testing.T, handler http.HandlerFunc) (*EnsoClient, func()) {
	srv := httptest.NewServer(handler)
	c := NewEnsoClient(Options{BaseURL: srv.URL + "/api/v1", APIKey: "test-key"})
	return c, srv.Close
}

func TestGetNetworks(t *testing.T) {
	c, stop := setupTest(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/v1/networks", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[{"id":1,"name":"mainnet","isConnected":true},{"id":137,"name":"polygon"}]`))
	})
	defer stop()

	networks, err := c.GetNetworks(context.Background())
	require.NoError(t, err)
	require.Equal(t, []types.Network{
		{ID: 1, Name: "mainnet", IsConnected: true},
		{ID: 137, Name: "polygon"},
	}, networks)
}

func TestGetTokensReadsOnlyData(t *testing.T) {
	c, stop := setupTest(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/tokens", r.URL.Path)
		require.Equal(t, "10", r.URL.Query().Get("chainId"))
		require.Equal(t, "true", r.URL.Query().Get("includeMetadata"))
		_, _ = w.Write([]byte(`{
			"meta": {"total": 1, "lastPage": 1, "currentPage": 1, "perPage": 1000, "prev": null, "next": null},
			"data": [{"address": "0xabc", "name": "USD Coin", "symbol": "USDC", "decimals": 6, "chainId": 10, "type": "base"}]
		}`))
	})
	defer stop()

	tokens, err := c.GetTokens(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	require.Equal(t, "USDC", tokens[0].Symbol)
	require.Equal(t, 6, tokens[0].Decimals)
	require.Equal(t, uint64(10), tokens[0].ChainID)
}

func TestGetProtocols(t *testing.T) {
	c, stop := setupTest(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/protocols", r.URL.Path)
		_, _ = w.Write([]byte(`[{"slug":"uniswap-v3","name":"Uniswap V3","url":"https://uniswap.org","chains":[{"id":1,"name":"mainnet"}]}]`))
	})
	defer stop()

	protocols, err := c.GetProtocols(context.Background())
	require.NoError(t, err)
	require.Len(t, protocols, 1)
	require.Equal(t, "uniswap-v3", protocols[0].Slug)
	require.True(t, protocols[0].SupportsChain(1))
	require.False(t, protocols[0].SupportsChain(10))
}

func TestGetApproval(t *testing.T) {
	c, stop := setupTest(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/wallet/approve", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "1", q.Get("chainId"))
		require.Equal(t, "0xwallet", q.Get("fromAddress"))
		require.Equal(t, "0xtoken", q.Get("tokenAddress"))
		require.Equal(t, "1000000", q.Get("amount"))
		require.Equal(t, "router", q.Get("routingStrategy"))
		_, _ = w.Write([]byte(`{"tx":{"data":"0x095ea7b3","to":"0xtoken","from":"0xwallet"},"gas":"46000","token":"0xtoken","amount":"1000000","spender":"0xrouter"}`))
	})
	defer stop()

	approval, err := c.GetApproval(context.Background(), types.ApprovalRequest{
		ChainID:      1,
		FromAddress:  "0xwallet",
		TokenAddress: "0xtoken",
		Amount:       "1000000",
	})
	require.NoError(t, err)
	require.Equal(t, types.Numeric("46000"), approval.Gas)
	require.Equal(t, "0xrouter", approval.Spender)
}

func TestGetQuoteSendsArrays(t *testing.T) {
	c, stop := setupTest(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/shortcuts/quote", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, []string{"0xin"}, q["tokenIn[]"])
		require.Equal(t, []string{"0xout"}, q["tokenOut[]"])
		require.Equal(t, []string{"1000"}, q["amountIn[]"])
		require.Equal(t, "true", q.Get("priceImpact"))
		require.Equal(t, "0xwallet", q.Get("fromAddress"))
		require.Empty(t, q.Get("routingStrategy"))
		_, _ = w.Write([]byte(`{"amountOut":"998","gas":120000,"priceImpact":0.12,"route":[{"tokenIn":["0xin"],"tokenOut":["0xout"],"protocol":"uniswap-v3","action":"swap"}]}`))
	})
	defer stop()

	quote, err := c.GetQuote(context.Background(), types.QuoteRequest{
		ChainID:     1,
		FromAddress: "0xwallet",
		TokenIn:     []string{"0xin"},
		TokenOut:    []string{"0xout"},
		AmountIn:    []string{"1000"},
	})
	require.NoError(t, err)
	require.Equal(t, types.Numeric("998"), quote.AmountOut)
	require.Equal(t, types.Numeric("120000"), quote.Gas)
	require.NotNil(t, quote.PriceImpact)
	require.Equal(t, 0.12, *quote.PriceImpact)
	require.Len(t, quote.Route, 1)
}

func TestGetRouteParams(t *testing.T) {
	c, stop := setupTest(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/shortcuts/route", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, []string{"0xa", "0xb"}, q["tokenIn[]"])
		require.Equal(t, []string{"0xout"}, q["tokenOut[]"])
		require.Equal(t, []string{"1", "2"}, q["amountIn[]"])
		require.Equal(t, "50", q.Get("slippage"))
		require.Equal(t, "true", q.Get("priceImpact"))
		require.Equal(t, "router", q.Get("routingStrategy"))
		require.Equal(t, "8453", q.Get("chainId"))
		_, _ = w.Write([]byte(`{
			"gas": "250000",
			"amountOut": "1500000",
			"priceImpact": 3.4,
			"createdAt": 19000000,
			"tx": {"data": "0x", "to": "0xrouter", "from": "0xwallet", "value": "0"},
			"route": [
				{"tokenIn": ["0xa"], "tokenOut": ["0xmid"], "protocol": "aave-v3", "action": "redeem"},
				{"tokenIn": ["0xmid", "0xb"], "tokenOut": ["0xout"], "protocol": "curve", "action": "swap"}
			]
		}`))
	})
	defer stop()

	route, err := c.GetRoute(context.Background(), types.RouteRequest{
		ChainID:     8453,
		FromAddress: "0xwallet",
		TokenIn:     []string{"0xa", "0xb"},
		TokenOut:    []string{"0xout"},
		AmountIn:    []string{"1", "2"},
		Slippage:    "50",
		PriceImpact: true,
	})
	require.NoError(t, err)
	require.Equal(t, uint64(19000000), route.CreatedAt)
	require.Equal(t, "aave-v3", route.Route[0].Protocol)
	require.Equal(t, "curve", route.Route[1].Protocol)
	require.Equal(t, "0xrouter", route.Tx.To)
}

func TestGetWallet(t *testing.T) {
	c, stop := setupTest(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/wallet", r.URL.Path)
		require.Equal(t, "0xwallet", r.URL.Query().Get("fromAddress"))
		_, _ = w.Write([]byte(`{"address":"0xsmart","isDeployed":true}`))
	})
	defer stop()

	wallet, err := c.GetWallet(context.Background(), 1, "0xwallet")
	require.NoError(t, err)
	require.Equal(t, "0xsmart", wallet.Address)
	require.True(t, wallet.IsDeployed)
}

func TestAPIErrorMessage(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`{"message":"Could not find route"}`, "Could not find route"},
		{`{"error":"rate limited"}`, "rate limited"},
		{`{"errors":["bad chainId"]}`, "[bad chainId]"},
		{`gateway timeout`, "gateway timeout"},
	}

	for _, tc := range cases {
		c, stop := setupTest(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(tc.body))
		})

		_, err := c.GetNetworks(context.Background())
		stop()

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr), "body %s", tc.body)
		require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		require.Equal(t, tc.want, apiErr.Message)
	}
}

func TestAPIErrorEmptyBody(t *testing.T) {
	c, stop := setupTest(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer stop()

	_, err := c.GetProtocols(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "API returned status code 500")
}

func TestNumericRejectsGarbage(t *testing.T) {
	c, stop := setupTest(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"amountOut":"1","gas":true,"route":[]}`))
	})
	defer stop()

	_, err := c.GetQuote(context.Background(), types.QuoteRequest{ChainID: 1})
	require.Error(t, err)
}
