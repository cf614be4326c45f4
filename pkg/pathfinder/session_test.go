package pathfinder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pathfinder/pkg/format"
	"pathfinder/pkg/types"
)

const testWallet = "0x1111111111111111111111111111111111111111"

var (
	usdc = &types.Token{Address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", Symbol: "USDC", Decimals: 6, ChainID: 1}
	dai  = &types.Token{Address: "0x6B175474E89094C44Da98b954EedeAC495271d0F", Symbol: "DAI", Decimals: 18, ChainID: 1}
	eth  = &types.Token{Address: format.NativeAssetAddress, Symbol: "ETH", Decimals: 18, ChainID: 1}
)

func readySession() *Session {
	s := NewSession(1)
	s.SetWallet(testWallet)
	s.SetFromToken(usdc)
	s.SetToToken(dai)
	s.SetAmount("100")
	return s
}

func TestQuoteGate(t *testing.T) {
	tests := []struct {
		name  string
		setup func(s *Session)
		want  bool
	}{
		{"all inputs", func(s *Session) {}, true},
		{"no wallet", func(s *Session) { s.SetWallet("") }, false},
		{"malformed wallet", func(s *Session) { s.SetWallet("0x1234") }, false},
		{"no from token", func(s *Session) { s.SetFromToken(nil) }, false},
		{"no to token", func(s *Session) { s.SetToToken(nil) }, false},
		{"empty amount", func(s *Session) { s.SetAmount("") }, false},
		{"zero amount", func(s *Session) { s.SetAmount("0") }, false},
		{"negative amount", func(s *Session) { s.SetAmount("-1") }, false},
		{"garbage amount", func(s *Session) { s.SetAmount("1.2.3") }, false},
		{"latch set", func(s *Session) { s.FindRoute() }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := readySession()
			tt.setup(s)
			require.Equal(t, tt.want, s.QuoteEnabled())
		})
	}
}

func TestRouteGate(t *testing.T) {
	tests := []struct {
		name  string
		setup func(s *Session)
		want  bool
	}{
		{"latch not set", func(s *Session) {}, false},
		{"latch set", func(s *Session) { s.FindRoute() }, true},
		{"latch set without wallet", func(s *Session) { s.SetWallet(""); s.FindRoute() }, false},
		{"latch set with bad slippage", func(s *Session) { s.SetSlippage("150"); s.FindRoute() }, false},
		{"latch set with negative slippage", func(s *Session) { s.SetSlippage("-1"); s.FindRoute() }, false},
		{"latch set with zero slippage", func(s *Session) { s.SetSlippage("0"); s.FindRoute() }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := readySession()
			tt.setup(s)
			require.Equal(t, tt.want, s.RouteEnabled())
		})
	}
}

func TestQuoteAndRouteGatesAreExclusive(t *testing.T) {
	s := readySession()
	require.True(t, s.QuoteEnabled())
	require.False(t, s.RouteEnabled())

	s.FindRoute()
	require.False(t, s.QuoteEnabled())
	require.True(t, s.RouteEnabled())
}

func TestApprovalGate(t *testing.T) {
	s := readySession()
	require.True(t, s.ApprovalEnabled())

	s.SetToToken(nil)
	require.True(t, s.ApprovalEnabled(), "destination is not needed")

	s.SetFromToken(eth)
	require.False(t, s.ApprovalEnabled(), "native asset never needs approval")

	s.SetFromToken(usdc)
	s.SetWallet("")
	require.False(t, s.ApprovalEnabled())

	s.SetWallet(testWallet)
	s.SetAmount("")
	require.False(t, s.ApprovalEnabled())
}

func TestInputChangeResetsLatch(t *testing.T) {
	changes := map[string]func(s *Session){
		"wallet":   func(s *Session) { s.SetWallet(testWallet) },
		"from":     func(s *Session) { s.SetFromToken(usdc) },
		"to":       func(s *Session) { s.SetToToken(dai) },
		"amount":   func(s *Session) { s.SetAmount("5") },
		"slippage": func(s *Session) { s.SetSlippage("1") },
		"swap":     func(s *Session) { s.SwapTokens() },
		"chain":    func(s *Session) { s.SetChain(1) },
	}

	for name, change := range changes {
		t.Run(name, func(t *testing.T) {
			s := readySession()
			s.FindRoute()
			require.True(t, s.RouteRequested())

			change(s)
			require.False(t, s.RouteRequested())
			require.True(t, s.QuoteEnabled())
		})
	}
}

func TestSwapTokens(t *testing.T) {
	s := readySession()
	s.SwapTokens()
	require.Equal(t, dai, s.From())
	require.Equal(t, usdc, s.To())

	s.SwapTokens()
	require.Equal(t, usdc, s.From())
	require.Equal(t, dai, s.To())
}

func TestSetChainClearsTokens(t *testing.T) {
	s := readySession()
	s.SetChain(10)
	require.Nil(t, s.From())
	require.Nil(t, s.To())
	require.Equal(t, uint64(10), s.ChainID())
}

func TestAmountIn(t *testing.T) {
	tests := []struct {
		amount string
		token  *types.Token
		want   string
	}{
		{"100", usdc, "100000000"},
		{"1.5", dai, "1500000000000000000"},
		{"0.0000005", usdc, "1"},
		{"0.0000004", usdc, ""},
		{"1.2345675", usdc, "1234568"},
		{"2", nil, "2000000000000000000"},
	}

	for _, tt := range tests {
		s := NewSession(1)
		s.SetFromToken(tt.token)
		s.SetAmount(tt.amount)

		got, err := s.AmountIn()
		if tt.want == "" {
			require.ErrorIs(t, err, ErrInvalidAmount)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, tt.want, got, tt.amount)
	}
}

func TestSlippageBasisPoints(t *testing.T) {
	tests := []struct {
		slippage string
		want     string
		wantErr  bool
	}{
		{"", "50", false},
		{"0.5", "50", false},
		{"1", "100", false},
		{"0.125", "13", false},
		{"100", "10000", false},
		{"100.01", "", true},
		{"abc", "", true},
	}

	for _, tt := range tests {
		s := NewSession(1)
		s.SetSlippage(tt.slippage)
		got, err := s.SlippageBasisPoints()
		if tt.wantErr {
			require.ErrorIs(t, err, ErrInvalidSlippage)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, tt.want, got)
	}
}

func TestRequests(t *testing.T) {
	s := readySession()
	s.SetSlippage("1")

	quote, err := s.QuoteRequest()
	require.NoError(t, err)
	require.Equal(t, uint64(1), quote.ChainID)
	require.Equal(t, testWallet, quote.FromAddress)
	require.Equal(t, []string{usdc.Address}, quote.TokenIn)
	require.Equal(t, []string{dai.Address}, quote.TokenOut)
	require.Equal(t, []string{"100000000"}, quote.AmountIn)

	route, err := s.RouteRequest()
	require.NoError(t, err)
	require.Equal(t, "100", route.Slippage)
	require.True(t, route.PriceImpact)

	approval, err := s.ApprovalRequest()
	require.NoError(t, err)
	require.Equal(t, usdc.Address, approval.TokenAddress)
	require.Equal(t, "100000000", approval.Amount)
}

func TestValidate(t *testing.T) {
	s := NewSession(1)
	require.ErrorIs(t, s.Validate(), ErrInvalidWallet)

	s.SetWallet(testWallet)
	require.ErrorIs(t, s.Validate(), ErrMissingToken)

	s.SetFromToken(usdc)
	s.SetToToken(dai)
	require.ErrorIs(t, s.Validate(), ErrInvalidAmount)

	s.SetAmount("1")
	s.SetSlippage("x")
	require.ErrorIs(t, s.Validate(), ErrInvalidSlippage)

	s.SetSlippage("")
	require.NoError(t, s.Validate())
}
