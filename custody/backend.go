// Copyright (C) 2026, Custody Lab, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package custody

import (
	"context"
	"fmt"
	"math/big"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// Backend is the slice of an Ethereum JSON-RPC node this client uses. It is
// satisfied by a dialed node and faked in tests.
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	Accounts(ctx context.Context) ([]common.Address, error)
}

// nodeBackend is a Backend over a live JSON-RPC connection. ethclient covers
// everything except eth_accounts, which goes through the raw rpc client.
type nodeBackend struct {
	*ethclient.Client
	rpc *rpc.Client
}

// Dial connects to the ledger node at [endpoint].
func Dial(ctx context.Context, endpoint string) (Backend, error) {
	rpcClient, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %w", ErrConnection, endpoint, err)
	}
	return &nodeBackend{
		Client: ethclient.NewClient(rpcClient),
		rpc:    rpcClient,
	}, nil
}

func (b *nodeBackend) Accounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	if err := b.rpc.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, err
	}
	return accounts, nil
}
