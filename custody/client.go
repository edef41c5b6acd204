// Copyright (C) 2026, Custody Lab, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package custody translates high-level evidence custody operations into
// calls against the externally deployed chain-of-custody contract.
//
// All consistency and ordering guarantees (unique evidence ids per case,
// append-only history, non-destructive delete) are enforced by the contract;
// this package only submits transactions, waits for their inclusion, and
// decodes read results.
package custody

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
)

// Options carries the immutable session parameters of a Client.
type Options struct {
	// ContractAddress is where the chain-of-custody contract is deployed.
	ContractAddress common.Address

	// Account is the sender of every mutating call and the From of every
	// read call.
	Account common.Address

	// KeyFile holds the hex-encoded private key of Account. It is read on
	// demand, once per mutating call, and never cached.
	KeyFile string

	// ConfirmationTimeout bounds how long a mutating call waits for its
	// transaction receipt before giving up with ErrPendingUnknown.
	ConfirmationTimeout time.Duration

	// PollInterval is the receipt polling cadence while waiting.
	PollInterval time.Duration
}

// Client issues custody operations against one contract from one account.
// Calls are strictly sequential; the nonce is re-fetched from the node
// immediately before every send, and no mutating call is ever retried or
// resubmitted (an unknown-status transaction could otherwise double-spend).
type Client struct {
	log     *zap.Logger
	backend Backend
	abi     abi.ABI

	contract common.Address
	account  common.Address
	keyFile  string

	chainID *big.Int
	signer  types.Signer

	confirmationTimeout time.Duration
	pollInterval        time.Duration
}

// NewClient connects the session to the node behind [backend]. It performs
// one eth_chainId call to pin the transaction signer for the process
// lifetime.
func NewClient(ctx context.Context, backend Backend, contractABI abi.ABI, opts Options, log *zap.Logger) (*Client, error) {
	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch chain id: %w", ErrConnection, err)
	}

	return &Client{
		log:                 log,
		backend:             backend,
		abi:                 contractABI,
		contract:            opts.ContractAddress,
		account:             opts.Account,
		keyFile:             opts.KeyFile,
		chainID:             chainID,
		signer:              types.LatestSignerForChainID(chainID),
		confirmationTimeout: opts.ConfirmationTimeout,
		pollInterval:        opts.PollInterval,
	}, nil
}

// ChainID reports the chain the session is pinned to.
func (c *Client) ChainID() *big.Int {
	return new(big.Int).Set(c.chainID)
}

// Account reports the session account.
func (c *Client) Account() common.Address {
	return c.account
}

// Register records new evidence under (caseID, evidenceID) with the session
// account as initial holder and "collected" as the history action. The
// contract rejects duplicate evidence ids within a case.
func (c *Client) Register(ctx context.Context, caseID, evidenceID, holderName, description, attachmentHash string) (*Receipt, error) {
	return c.transact(ctx, methodRegister,
		caseID, evidenceID, holderName, description, attachmentHash, ActionCollected)
}

// Transfer hands the record over to [newHolder], stamping "transferred" into
// the history. The recipient address is validated before any network I/O.
func (c *Client) Transfer(ctx context.Context, caseID, evidenceID, newHolder, newHolderName, description string) (*Receipt, error) {
	if !common.IsHexAddress(newHolder) {
		return nil, fmt.Errorf("%w: recipient %q", ErrInvalidAddress, newHolder)
	}
	return c.transact(ctx, methodTransfer,
		caseID, evidenceID, common.HexToAddress(newHolder), newHolderName, ActionTransferred, description)
}

// Delete marks the record deleted. The record and its history are retained
// by the contract. Returns ErrNotFound when no such record exists.
func (c *Client) Delete(ctx context.Context, caseID, evidenceID string) (*Receipt, error) {
	// The contract reports a missing record as a bare revert; a pre-flight
	// read gives the caller a distinguishable error instead.
	if _, err := c.View(ctx, caseID, evidenceID); err != nil {
		return nil, err
	}
	return c.transact(ctx, methodDelete, caseID, evidenceID)
}

// View returns the current state of the record, including soft-deleted ones.
func (c *Client) View(ctx context.Context, caseID, evidenceID string) (*Evidence, error) {
	out, err := c.call(ctx, methodView, caseID, evidenceID)
	if err != nil {
		return nil, err
	}

	ev := &Evidence{
		EvidenceID:     out[0].(string),
		Holder:         out[1].(common.Address),
		HolderName:     out[2].(string),
		Description:    out[3].(string),
		AttachmentHash: out[4].(string),
		Deleted:        out[5].(bool),
	}
	if ev.EvidenceID == "" {
		// The contract returns the zero record for unknown keys.
		return nil, fmt.Errorf("%w: case %q evidence %q", ErrNotFound, caseID, evidenceID)
	}
	return ev, nil
}

// History returns the custody trail of the record, oldest entry first. An
// unknown (caseID, evidenceID) yields an empty slice, not an error.
func (c *Client) History(ctx context.Context, caseID, evidenceID string) ([]HistoryEntry, error) {
	out, err := c.call(ctx, methodHistory, caseID, evidenceID)
	if err != nil {
		return nil, err
	}

	wire := *abi.ConvertType(out[0], new([]wireHistoryEntry)).(*[]wireHistoryEntry)
	entries := make([]HistoryEntry, len(wire))
	for i, w := range wire {
		entries[i] = HistoryEntry{
			Holder:      w.Holder,
			HolderName:  w.HolderName,
			Action:      w.Action,
			Description: w.Description,
			Timestamp:   time.Unix(w.Timestamp.Int64(), 0).UTC(),
		}
	}
	return entries, nil
}

// ListEvidenceIDs returns every evidence id known to the contract.
func (c *Client) ListEvidenceIDs(ctx context.Context) ([]string, error) {
	out, err := c.call(ctx, methodAllIDs)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new([]string)).(*[]string), nil
}

// Balance returns the native balance of [account] (the session account when
// empty), converted from wei to ether units.
func (c *Client) Balance(ctx context.Context, account string) (string, error) {
	addr := c.account
	if account != "" {
		if !common.IsHexAddress(account) {
			return "", fmt.Errorf("%w: account %q", ErrInvalidAddress, account)
		}
		addr = common.HexToAddress(account)
	}

	wei, err := c.backend.BalanceAt(ctx, addr, nil)
	if err != nil {
		return "", fmt.Errorf("%w: fetch balance of %s: %w", ErrConnection, addr, err)
	}
	return WeiToEther(wei), nil
}

// Accounts returns the accounts managed by the connected node.
func (c *Client) Accounts(ctx context.Context) ([]common.Address, error) {
	accounts, err := c.backend.Accounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list accounts: %w", ErrConnection, err)
	}
	return accounts, nil
}

// call performs a read-only contract invocation and unpacks its outputs.
func (c *Client) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	input, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	data, err := c.backend.CallContract(ctx, ethereum.CallMsg{
		From: c.account,
		To:   &c.contract,
		Data: input,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: call %s: %w", ErrConnection, method, err)
	}

	out, err := c.abi.Unpack(method, data)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return out, nil
}

// transact packs, signs, submits, and confirms one state-changing call. The
// nonce is fetched fresh from the pending state right before the send; gas
// is estimated against the current state so reverts surface before any funds
// move.
func (c *Client) transact(ctx context.Context, method string, args ...interface{}) (*Receipt, error) {
	input, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	key, err := c.loadKey()
	if err != nil {
		return nil, err
	}

	nonce, err := c.backend.PendingNonceAt(ctx, c.account)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch nonce: %w", ErrConnection, err)
	}
	gasPrice, err := c.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch gas price: %w", ErrConnection, err)
	}
	gas, err := c.backend.EstimateGas(ctx, ethereum.CallMsg{
		From:     c.account,
		To:       &c.contract,
		GasPrice: gasPrice,
		Data:     input,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTransaction, method, err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &c.contract,
		Gas:      gas,
		GasPrice: gasPrice,
		Data:     input,
	})
	signedTx, err := types.SignTx(tx, c.signer, key)
	if err != nil {
		return nil, fmt.Errorf("sign %s: %w", method, err)
	}

	if err := c.backend.SendTransaction(ctx, signedTx); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTransaction, method, err)
	}

	txHash := signedTx.Hash()
	c.log.Info("transaction submitted",
		zap.String("method", method),
		zap.Stringer("tx", txHash),
		zap.Uint64("nonce", nonce),
	)

	receipt, err := c.waitMined(ctx, txHash)
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: %s reverted in tx %s", ErrTransaction, method, txHash)
	}

	c.log.Info("transaction confirmed",
		zap.String("method", method),
		zap.Stringer("tx", txHash),
		zap.Uint64("block", receipt.BlockNumber.Uint64()),
	)
	return &Receipt{
		TxHash:      txHash,
		BlockNumber: new(big.Int).Set(receipt.BlockNumber),
		Status:      receipt.Status,
	}, nil
}

// waitMined polls for the transaction receipt until it appears or the
// confirmation timeout elapses. A timeout does not mean the transaction
// failed; it is reported as ErrPendingUnknown and never resubmitted.
func (c *Client) waitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, c.confirmationTimeout)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.backend.TransactionReceipt(ctx, txHash)
		if err == nil && receipt != nil {
			return receipt, nil
		}
		if err != nil && !errors.Is(err, ethereum.NotFound) {
			c.log.Debug("receipt poll failed", zap.Stringer("tx", txHash), zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: tx %s unconfirmed after %s",
				ErrPendingUnknown, txHash, c.confirmationTimeout)
		case <-ticker.C:
		}
	}
}

// loadKey reads the session private key from disk. Reading on demand keeps
// the key out of process memory between operations.
func (c *Client) loadKey() (*ecdsa.PrivateKey, error) {
	raw, err := os.ReadFile(c.keyFile)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}

	hexKey := strings.TrimSpace(string(raw))
	hexKey = strings.TrimPrefix(hexKey, "0x")
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("parse key file %q: %w", c.keyFile, err)
	}

	if got := crypto.PubkeyToAddress(key.PublicKey); got != c.account {
		return nil, fmt.Errorf("key file %q holds key for %s, session account is %s",
			c.keyFile, got, c.account)
	}
	return key, nil
}
