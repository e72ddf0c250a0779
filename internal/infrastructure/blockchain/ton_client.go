package blockchain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/liteclient"
	"github.com/xssnick/tonutils-go/ton"
)

// TONReader runs get-methods against TON contracts and returns the raw
// stack as big integers; decoding into named fields happens in the adapter.
type TONReader interface {
	RunGetMethod(ctx context.Context, contractAddress, method string) ([]*big.Int, error)
}

// TONClient is a TONReader backed by a liteserver connection pool.
type TONClient struct {
	api ton.APIClientWrapped
}

// NewTONClient connects to the network described by the global config URL.
func NewTONClient(ctx context.Context, configURL string) (*TONClient, error) {
	pool := liteclient.NewConnectionPool()
	if err := pool.AddConnectionsFromConfigUrl(ctx, configURL); err != nil {
		return nil, fmt.Errorf("connect TON liteservers: %w", err)
	}
	return &TONClient{api: ton.NewAPIClient(pool).WithRetry()}, nil
}

// RunGetMethod executes a get-method at the current masterchain block.
func (c *TONClient) RunGetMethod(ctx context.Context, contractAddress, method string) ([]*big.Int, error) {
	addr, err := address.ParseAddr(contractAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid TON address %q: %w", contractAddress, err)
	}
	block, err := c.api.CurrentMasterchainInfo(ctx)
	if err != nil {
		return nil, err
	}
	res, err := c.api.RunGetMethod(ctx, block, addr, method)
	if err != nil {
		return nil, fmt.Errorf("get-method %s on %s: %w", method, contractAddress, err)
	}

	tuple := res.AsTuple()
	stack := make([]*big.Int, 0, len(tuple))
	for i, item := range tuple {
		v, ok := item.(*big.Int)
		if !ok {
			return nil, fmt.Errorf("get-method %s: stack item %d is %T, want integer", method, i, item)
		}
		stack = append(stack, v)
	}
	return stack, nil
}
