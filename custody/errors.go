// Copyright (C) 2026, Custody Lab, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package custody

import "errors"

// The error taxonomy of the client. Every remote failure surfaced by this
// package wraps exactly one of these sentinels, so callers can branch with
// errors.Is without inspecting node-specific messages.
var (
	// ErrConnection indicates the ledger node could not be reached or the
	// transport failed mid-request.
	ErrConnection = errors.New("ledger node unreachable")

	// ErrTransaction indicates the node accepted the connection but rejected
	// or reverted the transaction (duplicate evidence id, insufficient funds,
	// contract revert).
	ErrTransaction = errors.New("transaction rejected")

	// ErrInvalidAddress indicates a malformed recipient address. It is
	// returned before any network I/O happens.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrNotFound indicates the contract holds no record for the requested
	// (case id, evidence id) pair.
	ErrNotFound = errors.New("evidence record not found")

	// ErrPendingUnknown indicates a transaction was submitted but its
	// inclusion was not observed before the confirmation timeout. The
	// transaction may still land; the client never resubmits it.
	ErrPendingUnknown = errors.New("transaction status unknown")
)
