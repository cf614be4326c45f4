package pathfinder

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pathfinder/pkg/query"
	"pathfinder/pkg/types"
)

// API is the routing API surface the pathfinder needs. Catalogue reuse is
// the client's job: pass a client.CachedClient to avoid refetching it.
type API interface {
	GetNetworks(ctx context.Context) ([]types.Network, error)
	GetTokens(ctx context.Context, chainID uint64) ([]types.Token, error)
	GetProtocols(ctx context.Context) ([]types.Protocol, error)
	GetQuote(ctx context.Context, req types.QuoteRequest) (*types.QuoteResponse, error)
	GetRoute(ctx context.Context, req types.RouteRequest) (*types.RouteResponse, error)
	GetApproval(ctx context.Context, req types.ApprovalRequest) (*types.ApprovalResponse, error)
}

// Catalog holds the state of the reference data queries
type Catalog struct {
	Networks  query.State[[]types.Network]
	Tokens    query.State[[]types.Token]
	Protocols query.State[[]types.Protocol]
}

// View holds the state of the swap queries for one evaluation of a session
type View struct {
	Quote    query.State[*types.QuoteResponse]
	Route    query.State[*types.RouteResponse]
	Approval query.State[*types.ApprovalResponse]
}

// NeedsApproval reports whether the approval check returned a transaction
func (v View) NeedsApproval() bool {
	return v.Approval.IsResolved() && v.Approval.Data != nil
}

// Pathfinder runs the routing queries for a session
type Pathfinder struct {
	api    API
	logger *zap.Logger

	networks  *query.Query[[]types.Network]
	tokens    *query.Query[[]types.Token]
	protocols *query.Query[[]types.Protocol]
	quote     *query.Query[*types.QuoteResponse]
	route     *query.Query[*types.RouteResponse]
	approval  *query.Query[*types.ApprovalResponse]
}

// New creates a pathfinder over an API client
func New(api API, logger *zap.Logger) *Pathfinder {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Pathfinder{
		api:       api,
		logger:    logger,
		networks:  query.New[[]types.Network]("networks", logger),
		tokens:    query.New[[]types.Token]("tokens", logger),
		protocols: query.New[[]types.Protocol]("protocols", logger),
		quote:     query.New[*types.QuoteResponse]("quote", logger),
		route:     query.New[*types.RouteResponse]("route", logger),
		approval:  query.New[*types.ApprovalResponse]("approval", logger),
	}
}

// LoadCatalog loads networks, the chain's tokens and protocols concurrently.
// Each resource keeps its own state; the returned error is the first failure.
func (p *Pathfinder) LoadCatalog(ctx context.Context, chainID uint64) (Catalog, error) {
	var g errgroup.Group

	g.Go(func() error {
		st := p.networks.Run(ctx, "networks", true, p.api.GetNetworks)
		return wrapRejected("networks", st.Err)
	})
	g.Go(func() error {
		st := p.tokens.Run(ctx, query.Key("tokens", chainID), true, func(ctx context.Context) ([]types.Token, error) {
			return p.api.GetTokens(ctx, chainID)
		})
		return wrapRejected("tokens", st.Err)
	})
	g.Go(func() error {
		st := p.protocols.Run(ctx, "protocols", true, p.api.GetProtocols)
		return wrapRejected("protocols", st.Err)
	})

	err := g.Wait()
	return Catalog{
		Networks:  p.networks.State(),
		Tokens:    p.tokens.State(),
		Protocols: p.protocols.State(),
	}, err
}

// Tokens returns the chain's token list, loading it when needed
func (p *Pathfinder) Tokens(ctx context.Context, chainID uint64) ([]types.Token, error) {
	st := p.tokens.Run(ctx, query.Key("tokens", chainID), true, func(ctx context.Context) ([]types.Token, error) {
		return p.api.GetTokens(ctx, chainID)
	})
	if st.IsRejected() {
		return nil, fmt.Errorf("failed to get tokens: %w", st.Err)
	}
	return st.Data, nil
}

// Evaluate runs the quote, route and approval queries whose gates are open
// for the session. Closed gates leave their query idle.
func (p *Pathfinder) Evaluate(ctx context.Context, s *Session) View {
	var g errgroup.Group

	g.Go(func() error {
		p.quote.Run(ctx, s.quoteKey(), s.QuoteEnabled(), func(ctx context.Context) (*types.QuoteResponse, error) {
			req, err := s.QuoteRequest()
			if err != nil {
				return nil, err
			}
			return p.api.GetQuote(ctx, req)
		})
		return nil
	})
	g.Go(func() error {
		p.route.Run(ctx, s.routeKey(), s.RouteEnabled(), func(ctx context.Context) (*types.RouteResponse, error) {
			req, err := s.RouteRequest()
			if err != nil {
				return nil, err
			}
			return p.api.GetRoute(ctx, req)
		})
		return nil
	})
	g.Go(func() error {
		p.approval.Run(ctx, s.approvalKey(), s.ApprovalEnabled(), func(ctx context.Context) (*types.ApprovalResponse, error) {
			req, err := s.ApprovalRequest()
			if err != nil {
				return nil, err
			}
			return p.api.GetApproval(ctx, req)
		})
		return nil
	})

	_ = g.Wait()

	view := View{
		Quote:    p.quote.State(),
		Route:    p.route.State(),
		Approval: p.approval.State(),
	}

	p.logger.Debug("evaluated session",
		zap.Bool("route_requested", s.RouteRequested()),
		zap.Stringer("quote", view.Quote.Status),
		zap.Stringer("route", view.Route.Status),
		zap.Stringer("approval", view.Approval.Status),
	)

	return view
}

func wrapRejected(resource string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to get %s: %w", resource, err)
}
