package types

import (
	"encoding/json"
	"fmt"
)

// Numeric is a decimal value the API may encode either as a string or as a
// JSON number. It is always kept as its decimal string.
type Numeric string

// UnmarshalJSON accepts "123", 123 and null
func (n *Numeric) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Numeric(s)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("invalid numeric value %s: %w", string(data), err)
	}
	*n = Numeric(num.String())
	return nil
}

// String returns the decimal string
func (n Numeric) String() string {
	return string(n)
}

// NativeCurrency as reported by the networks endpoint
type NativeCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// Network is a chain supported by the routing API
type Network struct {
	ID             uint64          `json:"id"`
	Name           string          `json:"name"`
	IsConnected    bool            `json:"isConnected,omitempty"`
	ChainID        uint64          `json:"chainId,omitempty"`
	NativeCurrency *NativeCurrency `json:"nativeCurrency,omitempty"`
}

// Token is an ERC-20 style asset, or the native placeholder, on one chain
type Token struct {
	Address          string   `json:"address"`
	Name             string   `json:"name"`
	Symbol           string   `json:"symbol"`
	Decimals         int      `json:"decimals"`
	ChainID          uint64   `json:"chainId"`
	LogosURI         []string `json:"logosUri,omitempty"`
	Type             string   `json:"type,omitempty"` // "base" or "defi"
	Project          string   `json:"project,omitempty"`
	Protocol         string   `json:"protocol,omitempty"`
	PoolAddress      string   `json:"poolAddress,omitempty"`
	PrimaryAddress   string   `json:"primaryAddress,omitempty"`
	UnderlyingTokens []string `json:"underlyingPoolTokens,omitempty"`
}

// PageMeta describes a page of a paginated collection
type PageMeta struct {
	Total       int  `json:"total"`
	LastPage    int  `json:"lastPage"`
	CurrentPage int  `json:"currentPage"`
	PerPage     int  `json:"perPage"`
	Prev        *int `json:"prev"`
	Next        *int `json:"next"`
}

// TokenPage is the tokens endpoint response; only Data is consumed
type TokenPage struct {
	Meta PageMeta `json:"meta"`
	Data []Token  `json:"data"`
}

// ProtocolChain is a chain a protocol is deployed on
type ProtocolChain struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// Protocol is a DeFi protocol the router can interact with
type Protocol struct {
	Slug        string          `json:"slug"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	URL         string          `json:"url"`
	LogosURI    []string        `json:"logosUri,omitempty"`
	Chains      []ProtocolChain `json:"chains"`
}

// SupportsChain reports whether the protocol is deployed on the chain
func (p Protocol) SupportsChain(chainID uint64) bool {
	for _, c := range p.Chains {
		if c.ID == chainID {
			return true
		}
	}
	return false
}

// RouteStep is one protocol interaction; steps are listed in execution order
type RouteStep struct {
	TokenIn        []string `json:"tokenIn"`
	TokenOut       []string `json:"tokenOut"`
	Protocol       string   `json:"protocol"`
	Action         string   `json:"action"`
	Primary        string   `json:"primary,omitempty"`
	InternalRoutes []string `json:"internalRoutes,omitempty"`
}

// Transaction is the calldata the wallet would sign
type Transaction struct {
	Data  string  `json:"data"`
	To    string  `json:"to"`
	From  string  `json:"from"`
	Value Numeric `json:"value"`
}

// RouteResponse is a fully decomposed route
type RouteResponse struct {
	Gas         Numeric     `json:"gas"`
	AmountOut   Numeric     `json:"amountOut"`
	PriceImpact *float64    `json:"priceImpact,omitempty"`
	FeeAmount   []Numeric   `json:"feeAmount,omitempty"`
	CreatedAt   uint64      `json:"createdAt"`
	Tx          Transaction `json:"tx"`
	Route       []RouteStep `json:"route"`
}

// QuoteResponse is a single-call estimate without a transaction
type QuoteResponse struct {
	AmountOut   Numeric     `json:"amountOut"`
	Gas         Numeric     `json:"gas"`
	Route       []RouteStep `json:"route"`
	FeeAmount   []Numeric   `json:"feeAmount,omitempty"`
	PriceImpact *float64    `json:"priceImpact,omitempty"`
}

// ApprovalResponse describes the approval transaction a token needs
type ApprovalResponse struct {
	Tx      Transaction `json:"tx"`
	Gas     Numeric     `json:"gas"`
	Token   string      `json:"token"`
	Amount  Numeric     `json:"amount"`
	Spender string      `json:"spender"`
}

// WalletInfo is the routing wallet assigned to a user address
type WalletInfo struct {
	Address     string `json:"address"`
	IsDeployed  bool   `json:"isDeployed"`
	IsConnected bool   `json:"isConnected,omitempty"`
}

// RoutingStrategy selects how the router executes a route
type RoutingStrategy string

// StrategyRouter executes through the shared router contract, which the
// user approves directly
const StrategyRouter RoutingStrategy = "router"

// QuoteRequest holds the quote query parameters
type QuoteRequest struct {
	ChainID     uint64
	FromAddress string
	TokenIn     []string
	TokenOut    []string
	AmountIn    []string
}

// RouteRequest holds the route query parameters
type RouteRequest struct {
	ChainID     uint64
	FromAddress string
	TokenIn     []string
	TokenOut    []string
	AmountIn    []string
	Slippage    string // basis points
	PriceImpact bool
}

// ApprovalRequest holds the approval query parameters
type ApprovalRequest struct {
	ChainID      uint64
	FromAddress  string
	TokenAddress string
	Amount       string
}
