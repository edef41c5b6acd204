// Copyright (C) 2026, Custody Lab, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package custody

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/params"
)

// WeiToEther renders a wei amount in ether units as a plain decimal string,
// with trailing zeros trimmed. Exact; no float rounding.
func WeiToEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}

	s := new(big.Rat).SetFrac(wei, big.NewInt(params.Ether)).FloatString(18)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
