package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// Client reads gas price and block height from a chain's RPC node
type Client struct {
	rpcClient *rpc.Client
	ethClient *ethclient.Client
	chainID   uint64
}

// Dial connects to the RPC endpoint of a chain
func Dial(ctx context.Context, chainID uint64, rpcURL string) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC endpoint: %w", err)
	}

	return &Client{
		rpcClient: rpcClient,
		ethClient: ethclient.NewClient(rpcClient),
		chainID:   chainID,
	}, nil
}

// Close closes the underlying RPC client
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

// ChainID returns the chain the client was dialled for
func (c *Client) ChainID() uint64 {
	return c.chainID
}

// GasPrice returns the node's suggested gas price in wei
func (c *Client) GasPrice(ctx context.Context) (*big.Int, error) {
	price, err := c.ethClient.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price: %w", err)
	}
	return price, nil
}

// BlockNumber returns the latest block number
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	n, err := c.ethClient.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get block number: %w", err)
	}
	return n, nil
}
