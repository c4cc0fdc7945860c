// Package sui is a typed client for the Sui fullnode JSON-RPC API.
package sui

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/Klingon-tech/hashcase/internal/rpcclient"
	"github.com/Klingon-tech/hashcase/pkg/types"
)

// MaxPageSize is the largest page the fullnode serves.
const MaxPageSize = 50

// MaxMultiGet is the most objects sui_multiGetObjects accepts in one call.
const MaxMultiGet = 50

// Caller is the JSON-RPC transport. *rpcclient.Client implements it.
type Caller interface {
	Call(ctx context.Context, method string, result interface{}, params ...interface{}) error
}

// Client wraps a JSON-RPC transport with Sui methods.
type Client struct {
	rpc Caller
}

// New creates a Sui client on top of a JSON-RPC transport.
func New(rpc Caller) *Client {
	return &Client{rpc: rpc}
}

// Dial creates a Sui client for the given fullnode URL.
func Dial(url string) *Client {
	return New(rpcclient.New(url))
}

func optCursor(cursor string) interface{} {
	if cursor == "" {
		return nil
	}
	return cursor
}

func optLimit(limit int) interface{} {
	if limit <= 0 {
		return nil
	}
	return limit
}

// GetOwnedObjects returns one page of objects owned by owner.
func (c *Client) GetOwnedObjects(ctx context.Context, owner types.Address, query ObjectResponseQuery, cursor string, limit int) (*ObjectsPage, error) {
	var page ObjectsPage
	if err := c.rpc.Call(ctx, "suix_getOwnedObjects", &page, owner, query, optCursor(cursor), optLimit(limit)); err != nil {
		return nil, fmt.Errorf("get owned objects: %w", err)
	}
	return &page, nil
}

// GetCoins returns one page of coins of coinType owned by owner.
func (c *Client) GetCoins(ctx context.Context, owner types.Address, coinType, cursor string, limit int) (*CoinPage, error) {
	var page CoinPage
	if err := c.rpc.Call(ctx, "suix_getCoins", &page, owner, coinType, optCursor(cursor), optLimit(limit)); err != nil {
		return nil, fmt.Errorf("get coins: %w", err)
	}
	return &page, nil
}

// AllCoins pages through every coin of coinType owned by owner.
func (c *Client) AllCoins(ctx context.Context, owner types.Address, coinType string) ([]Coin, error) {
	var (
		coins  []Coin
		cursor string
	)
	for {
		page, err := c.GetCoins(ctx, owner, coinType, cursor, MaxPageSize)
		if err != nil {
			return nil, err
		}
		coins = append(coins, page.Data...)
		if !page.HasNextPage || page.NextCursor == nil || *page.NextCursor == cursor {
			return coins, nil
		}
		cursor = *page.NextCursor
	}
}

// GetObject fetches one object.
func (c *Client) GetObject(ctx context.Context, id types.ObjectID, opts ObjectDataOptions) (*ObjectData, error) {
	var resp ObjectResponse
	if err := c.rpc.Call(ctx, "sui_getObject", &resp, id, opts); err != nil {
		return nil, fmt.Errorf("get object %s: %w", id, err)
	}
	if resp.Error != nil || resp.Data == nil {
		code := "notExists"
		if resp.Error != nil {
			code = resp.Error.Code
		}
		return nil, fmt.Errorf("get object %s: %s", id, code)
	}
	return resp.Data, nil
}

// MultiGetObjects fetches several objects in order, batching requests at
// MaxMultiGet. Missing objects come back with Error set.
func (c *Client) MultiGetObjects(ctx context.Context, ids []types.ObjectID, opts ObjectDataOptions) ([]ObjectResponse, error) {
	out := make([]ObjectResponse, 0, len(ids))
	for start := 0; start < len(ids); start += MaxMultiGet {
		end := start + MaxMultiGet
		if end > len(ids) {
			end = len(ids)
		}
		var batch []ObjectResponse
		if err := c.rpc.Call(ctx, "sui_multiGetObjects", &batch, ids[start:end], opts); err != nil {
			return nil, fmt.Errorf("multi get objects: %w", err)
		}
		if len(batch) != end-start {
			return nil, fmt.Errorf("multi get objects: asked for %d, got %d", end-start, len(batch))
		}
		out = append(out, batch...)
	}
	return out, nil
}

// ReferenceGasPrice returns the current epoch's reference gas price.
func (c *Client) ReferenceGasPrice(ctx context.Context) (uint64, error) {
	var price types.BigUint
	if err := c.rpc.Call(ctx, "suix_getReferenceGasPrice", &price); err != nil {
		return 0, fmt.Errorf("get reference gas price: %w", err)
	}
	return uint64(price), nil
}

// ExecuteTransactionBlock submits signed BCS transaction data and waits for
// local execution.
func (c *Client) ExecuteTransactionBlock(ctx context.Context, txBytes []byte, signatures []string, opts TransactionBlockResponseOptions) (*TransactionBlockResponse, error) {
	var resp TransactionBlockResponse
	err := c.rpc.Call(ctx, "sui_executeTransactionBlock", &resp,
		base64.StdEncoding.EncodeToString(txBytes), signatures, opts, "WaitForLocalExecution")
	if err != nil {
		return nil, fmt.Errorf("execute transaction: %w", err)
	}
	return &resp, nil
}

// DryRunTransactionBlock executes BCS transaction data without committing it.
func (c *Client) DryRunTransactionBlock(ctx context.Context, txBytes []byte) (*TransactionBlockResponse, error) {
	var resp TransactionBlockResponse
	if err := c.rpc.Call(ctx, "sui_dryRunTransactionBlock", &resp, base64.StdEncoding.EncodeToString(txBytes)); err != nil {
		return nil, fmt.Errorf("dry run transaction: %w", err)
	}
	return &resp, nil
}
