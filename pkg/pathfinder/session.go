package pathfinder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"pathfinder/pkg/format"
	"pathfinder/pkg/query"
	"pathfinder/pkg/types"
)

// DefaultSlippage is the slippage percentage used when none is set
const DefaultSlippage = "0.5"

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidSlippage = errors.New("invalid slippage")
	ErrInvalidWallet   = errors.New("invalid wallet address")
	ErrMissingToken    = errors.New("token not selected")
)

var maxSlippage = decimal.NewFromInt(100)

// Session holds the user's swap inputs and the find-route latch. Once
// FindRoute is called the session stops previewing quotes and starts
// requesting full routes. Any input change clears the latch.
//
// A Session is not safe for concurrent mutation.
type Session struct {
	chainID   uint64
	wallet    string
	from      *types.Token
	to        *types.Token
	amount    string
	slippage  string
	findRoute bool
}

// NewSession creates an empty session on a chain
func NewSession(chainID uint64) *Session {
	return &Session{chainID: chainID}
}

func (s *Session) ChainID() uint64      { return s.chainID }
func (s *Session) Wallet() string       { return s.wallet }
func (s *Session) From() *types.Token   { return s.from }
func (s *Session) To() *types.Token     { return s.to }
func (s *Session) Amount() string       { return s.amount }
func (s *Session) RouteRequested() bool { return s.findRoute }

// Slippage returns the slippage percentage, defaulting to 0.5
func (s *Session) Slippage() string {
	if strings.TrimSpace(s.slippage) == "" {
		return DefaultSlippage
	}
	return s.slippage
}

// SetChain switches networks. Selected tokens belong to the old chain and
// are cleared.
func (s *Session) SetChain(chainID uint64) {
	if chainID != s.chainID {
		s.from = nil
		s.to = nil
	}
	s.chainID = chainID
	s.findRoute = false
}

func (s *Session) SetWallet(address string) {
	s.wallet = strings.TrimSpace(address)
	s.findRoute = false
}

func (s *Session) SetFromToken(token *types.Token) {
	s.from = token
	s.findRoute = false
}

func (s *Session) SetToToken(token *types.Token) {
	s.to = token
	s.findRoute = false
}

func (s *Session) SetAmount(amount string) {
	s.amount = strings.TrimSpace(amount)
	s.findRoute = false
}

func (s *Session) SetSlippage(pct string) {
	s.slippage = strings.TrimSpace(pct)
	s.findRoute = false
}

// SwapTokens exchanges the source and destination tokens
func (s *Session) SwapTokens() {
	s.from, s.to = s.to, s.from
	s.findRoute = false
}

// FindRoute sets the latch that switches from quote preview to route discovery
func (s *Session) FindRoute() {
	s.findRoute = true
}

// AmountIn converts the entered amount to base units of the source token.
// Extra fractional digits are rounded half up.
func (s *Session) AmountIn() (string, error) {
	if s.amount == "" {
		return "", fmt.Errorf("%w: amount is empty", ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(s.amount)
	if err != nil {
		return "", fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, s.amount)
	}
	if !d.IsPositive() {
		return "", fmt.Errorf("%w: amount must be greater than zero", ErrInvalidAmount)
	}

	decimals := format.DefaultDecimals
	if s.from != nil {
		decimals = s.from.Decimals
	}

	units := d.Shift(int32(decimals)).Round(0)
	if !units.IsPositive() {
		return "", fmt.Errorf("%w: %s is below the smallest unit", ErrInvalidAmount, s.amount)
	}
	return units.String(), nil
}

// SlippageBasisPoints converts the slippage percentage to basis points
func (s *Session) SlippageBasisPoints() (string, error) {
	d, err := decimal.NewFromString(s.Slippage())
	if err != nil {
		return "", fmt.Errorf("%w: %q is not a number", ErrInvalidSlippage, s.Slippage())
	}
	if d.IsNegative() || d.GreaterThan(maxSlippage) {
		return "", fmt.Errorf("%w: must be between 0 and 100", ErrInvalidSlippage)
	}
	return d.Mul(decimal.NewFromInt(100)).Round(0).String(), nil
}

func (s *Session) walletValid() bool {
	return common.IsHexAddress(s.wallet)
}

func (s *Session) amountValid() bool {
	_, err := s.AmountIn()
	return err == nil
}

func (s *Session) swapInputsValid() bool {
	return s.walletValid() && s.from != nil && s.to != nil && s.amountValid()
}

// QuoteEnabled reports whether a quote preview should be requested
func (s *Session) QuoteEnabled() bool {
	return !s.findRoute && s.swapInputsValid()
}

// RouteEnabled reports whether a full route should be requested
func (s *Session) RouteEnabled() bool {
	if !s.findRoute || !s.swapInputsValid() {
		return false
	}
	_, err := s.SlippageBasisPoints()
	return err == nil
}

// ApprovalEnabled reports whether the approval requirement should be checked.
// The native asset never needs approval.
func (s *Session) ApprovalEnabled() bool {
	return s.walletValid() &&
		s.from != nil &&
		!format.IsNativeAsset(s.from.Address) &&
		s.amountValid()
}

// Validate reports the first missing or malformed swap input
func (s *Session) Validate() error {
	if !s.walletValid() {
		if s.wallet == "" {
			return fmt.Errorf("%w: wallet address is required", ErrInvalidWallet)
		}
		return fmt.Errorf("%w: %s", ErrInvalidWallet, s.wallet)
	}
	if s.from == nil {
		return fmt.Errorf("%w: source token", ErrMissingToken)
	}
	if s.to == nil {
		return fmt.Errorf("%w: destination token", ErrMissingToken)
	}
	if _, err := s.AmountIn(); err != nil {
		return err
	}
	if _, err := s.SlippageBasisPoints(); err != nil {
		return err
	}
	return nil
}

// QuoteRequest builds the quote parameters from the session
func (s *Session) QuoteRequest() (types.QuoteRequest, error) {
	if !s.swapInputsValid() {
		return types.QuoteRequest{}, s.Validate()
	}
	amountIn, _ := s.AmountIn()
	return types.QuoteRequest{
		ChainID:     s.chainID,
		FromAddress: s.wallet,
		TokenIn:     []string{s.from.Address},
		TokenOut:    []string{s.to.Address},
		AmountIn:    []string{amountIn},
	}, nil
}

// RouteRequest builds the route parameters from the session
func (s *Session) RouteRequest() (types.RouteRequest, error) {
	if err := s.Validate(); err != nil {
		return types.RouteRequest{}, err
	}
	amountIn, _ := s.AmountIn()
	bps, _ := s.SlippageBasisPoints()
	return types.RouteRequest{
		ChainID:     s.chainID,
		FromAddress: s.wallet,
		TokenIn:     []string{s.from.Address},
		TokenOut:    []string{s.to.Address},
		AmountIn:    []string{amountIn},
		Slippage:    bps,
		PriceImpact: true,
	}, nil
}

// ApprovalRequest builds the approval parameters from the session
func (s *Session) ApprovalRequest() (types.ApprovalRequest, error) {
	if !s.walletValid() || s.from == nil {
		return types.ApprovalRequest{}, s.Validate()
	}
	amountIn, err := s.AmountIn()
	if err != nil {
		return types.ApprovalRequest{}, err
	}
	return types.ApprovalRequest{
		ChainID:      s.chainID,
		FromAddress:  s.wallet,
		TokenAddress: s.from.Address,
		Amount:       amountIn,
	}, nil
}

func (s *Session) quoteKey() string {
	return query.Key("quote", s.chainID, strings.ToLower(s.wallet), tokenAddress(s.from), tokenAddress(s.to), s.amount)
}

func (s *Session) routeKey() string {
	return query.Key("route", s.chainID, strings.ToLower(s.wallet), tokenAddress(s.from), tokenAddress(s.to), s.amount, s.Slippage())
}

func (s *Session) approvalKey() string {
	return query.Key("approval", s.chainID, strings.ToLower(s.wallet), tokenAddress(s.from), s.amount)
}

func tokenAddress(t *types.Token) string {
	if t == nil {
		return ""
	}
	return strings.ToLower(t.Address)
}
