// Copyright (C) 2026, Custody Lab, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package custody

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// contract function names, as deployed.
const (
	methodRegister = "registerEvidence"
	methodTransfer = "transferEvidence"
	methodDelete   = "deleteEvidence"
	methodView     = "viewEvidence"
	methodHistory  = "getHistory"
	methodAllIDs   = "getAllEvidenceIds"
)

// DefaultABI describes the deployed EvidenceChainOfCustody contract. A build
// artifact on disk takes precedence when configured, so a redeployed contract
// with extra functions does not require a client rebuild.
const DefaultABI = `[
	{"type":"function","stateMutability":"nonpayable","name":"registerEvidence","inputs":[
		{"name":"caseId","type":"string"},{"name":"evidenceId","type":"string"},
		{"name":"holderName","type":"string"},{"name":"description","type":"string"},
		{"name":"ipfsHash","type":"string"},{"name":"action","type":"string"}],"outputs":[]},
	{"type":"function","stateMutability":"nonpayable","name":"transferEvidence","inputs":[
		{"name":"caseId","type":"string"},{"name":"evidenceId","type":"string"},
		{"name":"newHolder","type":"address"},{"name":"newHolderName","type":"string"},
		{"name":"action","type":"string"},{"name":"description","type":"string"}],"outputs":[]},
	{"type":"function","stateMutability":"nonpayable","name":"deleteEvidence","inputs":[
		{"name":"caseId","type":"string"},{"name":"evidenceId","type":"string"}],"outputs":[]},
	{"type":"function","stateMutability":"view","name":"viewEvidence","inputs":[
		{"name":"caseId","type":"string"},{"name":"evidenceId","type":"string"}],"outputs":[
		{"name":"evidenceId","type":"string"},{"name":"currentHolder","type":"address"},
		{"name":"holderName","type":"string"},{"name":"description","type":"string"},
		{"name":"ipfsHash","type":"string"},{"name":"deleted","type":"bool"}]},
	{"type":"function","stateMutability":"view","name":"getHistory","inputs":[
		{"name":"caseId","type":"string"},{"name":"evidenceId","type":"string"}],"outputs":[
		{"name":"entries","type":"tuple[]","components":[
			{"name":"holder","type":"address"},{"name":"holderName","type":"string"},
			{"name":"action","type":"string"},{"name":"description","type":"string"},
			{"name":"timestamp","type":"uint256"}]}]},
	{"type":"function","stateMutability":"view","name":"getAllEvidenceIds","inputs":[],"outputs":[
		{"name":"ids","type":"string[]"}]}
]`

// artifact is the subset of a truffle-style build artifact this client reads.
type artifact struct {
	ContractName string          `json:"contractName"`
	ABI          json.RawMessage `json:"abi"`
}

// LoadABI parses the contract interface descriptor at [path]. An empty path
// selects DefaultABI.
func LoadABI(path string) (abi.ABI, error) {
	if path == "" {
		return abi.JSON(bytes.NewReader([]byte(DefaultABI)))
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return abi.ABI{}, fmt.Errorf("read contract artifact: %w", err)
	}
	var art artifact
	if err := json.Unmarshal(raw, &art); err != nil {
		return abi.ABI{}, fmt.Errorf("parse contract artifact: %w", err)
	}
	if len(art.ABI) == 0 {
		return abi.ABI{}, fmt.Errorf("contract artifact %q has no abi key", path)
	}

	parsed, err := abi.JSON(bytes.NewReader(art.ABI))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("parse contract abi: %w", err)
	}
	return parsed, nil
}
