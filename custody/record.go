// Copyright (C) 2026, Custody Lab, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package custody

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Actions stamped into the custody history by the contract calls this client
// issues. The contract stores them as free-form labels.
const (
	ActionCollected   = "collected"
	ActionTransferred = "transferred"
)

// Evidence is the current state of a custody record as returned by the
// contract's viewEvidence function. The authoritative copy lives on chain;
// this struct is a read-only snapshot.
type Evidence struct {
	EvidenceID     string
	Holder         common.Address
	HolderName     string
	Description    string
	AttachmentHash string
	Deleted        bool
}

// HistoryEntry is one append-only custody event. Entries are returned oldest
// first and are never reordered by the contract.
type HistoryEntry struct {
	Holder      common.Address
	HolderName  string
	Action      string
	Description string
	Timestamp   time.Time
}

// Receipt is the confirmation of a mutating call once the transaction is
// included in the ledger.
type Receipt struct {
	TxHash      common.Hash
	BlockNumber *big.Int
	Status      uint64
}

// wireHistoryEntry mirrors one element of the getHistory output tuple array:
// (holder, holderName, action, description, timestamp).
type wireHistoryEntry struct {
	Holder      common.Address
	HolderName  string
	Action      string
	Description string
	Timestamp   *big.Int
}
