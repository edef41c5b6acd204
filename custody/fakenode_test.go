// Copyright (C) 2026, Custody Lab, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package custody

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// fakeNode implements Backend with the contract's semantics held in memory:
// unique evidence ids, append-only history with monotonic timestamps, and
// soft deletes. It lets tests exercise the full pack/sign/send/confirm/unpack
// path without a node.
type fakeNode struct {
	mu sync.Mutex

	abi     abi.ABI
	chainID *big.Int
	signer  types.Signer

	records map[string]*fakeRecord
	order   []string // evidence ids in registration order
	history map[string][]fakeHistoryEntry

	nonces   map[common.Address]uint64
	balances map[common.Address]*big.Int
	accounts []common.Address
	receipts map[common.Hash]*types.Receipt

	blockNum uint64
	clock    int64 // unix seconds, ticks once per mutation

	// swallowReceipts makes every submitted transaction stay pending.
	swallowReceipts bool

	sentNonces []uint64 // nonce of each accepted transaction, in order
}

type fakeRecord struct {
	evidenceID  string
	holder      common.Address
	holderName  string
	description string
	ipfsHash    string
	deleted     bool
}

type fakeHistoryEntry struct {
	Holder      common.Address
	HolderName  string
	Action      string
	Description string
	Timestamp   *big.Int
}

func newFakeNode(contractABI abi.ABI) *fakeNode {
	chainID := big.NewInt(1337)
	return &fakeNode{
		abi:      contractABI,
		chainID:  chainID,
		signer:   types.LatestSignerForChainID(chainID),
		records:  make(map[string]*fakeRecord),
		history:  make(map[string][]fakeHistoryEntry),
		nonces:   make(map[common.Address]uint64),
		balances: make(map[common.Address]*big.Int),
		receipts: make(map[common.Hash]*types.Receipt),
		clock:    1700000000,
	}
}

func recordKey(caseID, evidenceID string) string {
	return caseID + "\x00" + evidenceID
}

func (f *fakeNode) ChainID(context.Context) (*big.Int, error) {
	return new(big.Int).Set(f.chainID), nil
}

func (f *fakeNode) BalanceAt(_ context.Context, account common.Address, _ *big.Int) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if b, ok := f.balances[account]; ok {
		return new(big.Int).Set(b), nil
	}
	return big.NewInt(0), nil
}

func (f *fakeNode) PendingNonceAt(_ context.Context, account common.Address) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.nonces[account], nil
}

func (f *fakeNode) SuggestGasPrice(context.Context) (*big.Int, error) {
	return big.NewInt(1000000000), nil
}

// EstimateGas mimics the node running the call against current state, so
// contract reverts surface here before any transaction is sent.
func (f *fakeNode) EstimateGas(_ context.Context, msg ethereum.CallMsg) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	method, args, err := f.decode(msg.Data)
	if err != nil {
		return 0, err
	}
	switch method.Name {
	case methodRegister:
		key := recordKey(args[0].(string), args[1].(string))
		if _, exists := f.records[key]; exists {
			return 0, fmt.Errorf("execution reverted: evidence already registered")
		}
	case methodDelete:
		key := recordKey(args[0].(string), args[1].(string))
		if _, exists := f.records[key]; !exists {
			return 0, fmt.Errorf("execution reverted")
		}
	}
	return 100000, nil
}

func (f *fakeNode) SendTransaction(_ context.Context, tx *types.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	sender, err := types.Sender(f.signer, tx)
	if err != nil {
		return fmt.Errorf("invalid signature: %w", err)
	}
	if tx.Nonce() != f.nonces[sender] {
		return fmt.Errorf("nonce too low: have %d want %d", tx.Nonce(), f.nonces[sender])
	}
	f.nonces[sender]++
	f.sentNonces = append(f.sentNonces, tx.Nonce())

	status := types.ReceiptStatusSuccessful
	if err := f.apply(sender, tx.Data()); err != nil {
		status = types.ReceiptStatusFailed
	}

	if f.swallowReceipts {
		return nil
	}
	f.blockNum++
	f.receipts[tx.Hash()] = &types.Receipt{
		Status:      status,
		TxHash:      tx.Hash(),
		BlockNumber: new(big.Int).SetUint64(f.blockNum),
	}
	return nil
}

func (f *fakeNode) TransactionReceipt(_ context.Context, txHash common.Hash) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r, ok := f.receipts[txHash]; ok {
		return r, nil
	}
	return nil, ethereum.NotFound
}

func (f *fakeNode) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	method, args, err := f.decode(msg.Data)
	if err != nil {
		return nil, err
	}

	switch method.Name {
	case methodView:
		rec := f.records[recordKey(args[0].(string), args[1].(string))]
		if rec == nil {
			rec = &fakeRecord{} // the zero record, like the contract
		}
		return method.Outputs.Pack(rec.evidenceID, rec.holder, rec.holderName,
			rec.description, rec.ipfsHash, rec.deleted)

	case methodHistory:
		entries := f.history[recordKey(args[0].(string), args[1].(string))]
		if entries == nil {
			entries = []fakeHistoryEntry{}
		}
		return method.Outputs.Pack(entries)

	case methodAllIDs:
		ids := f.order
		if ids == nil {
			ids = []string{}
		}
		return method.Outputs.Pack(ids)

	default:
		return nil, fmt.Errorf("unexpected call to %s", method.Name)
	}
}

func (f *fakeNode) Accounts(context.Context) ([]common.Address, error) {
	return f.accounts, nil
}

func (f *fakeNode) decode(data []byte) (*abi.Method, []interface{}, error) {
	if len(data) < 4 {
		return nil, nil, fmt.Errorf("calldata too short")
	}
	method, err := f.abi.MethodById(data[:4])
	if err != nil {
		return nil, nil, err
	}
	args, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return nil, nil, err
	}
	return method, args, nil
}

// apply executes one mutating call against the in-memory state. Assumes
// f.mu is held.
func (f *fakeNode) apply(sender common.Address, data []byte) error {
	method, args, err := f.decode(data)
	if err != nil {
		return err
	}

	switch method.Name {
	case methodRegister:
		caseID, evidenceID := args[0].(string), args[1].(string)
		key := recordKey(caseID, evidenceID)
		if _, exists := f.records[key]; exists {
			return fmt.Errorf("evidence already registered")
		}
		f.records[key] = &fakeRecord{
			evidenceID:  evidenceID,
			holder:      sender,
			holderName:  args[2].(string),
			description: args[3].(string),
			ipfsHash:    args[4].(string),
		}
		f.order = append(f.order, evidenceID)
		f.appendHistory(key, sender, args[2].(string), args[5].(string), args[3].(string))
		return nil

	case methodTransfer:
		caseID, evidenceID := args[0].(string), args[1].(string)
		key := recordKey(caseID, evidenceID)
		rec, exists := f.records[key]
		if !exists {
			return fmt.Errorf("unknown evidence")
		}
		rec.holder = args[2].(common.Address)
		rec.holderName = args[3].(string)
		rec.description = args[5].(string)
		f.appendHistory(key, rec.holder, rec.holderName, args[4].(string), args[5].(string))
		return nil

	case methodDelete:
		key := recordKey(args[0].(string), args[1].(string))
		rec, exists := f.records[key]
		if !exists {
			return fmt.Errorf("unknown evidence")
		}
		rec.deleted = true
		return nil

	default:
		return fmt.Errorf("unexpected transaction to %s", method.Name)
	}
}

func (f *fakeNode) appendHistory(key string, holder common.Address, name, action, description string) {
	f.clock++
	f.history[key] = append(f.history[key], fakeHistoryEntry{
		Holder:      holder,
		HolderName:  name,
		Action:      action,
		Description: description,
		Timestamp:   big.NewInt(f.clock),
	})
}
