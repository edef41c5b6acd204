// Copyright (C) 2026, Custody Lab, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package custody

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadABIDefault(t *testing.T) {
	require := require.New(t)

	parsed, err := LoadABI("")
	require.NoError(err)

	for _, name := range []string{
		methodRegister, methodTransfer, methodDelete,
		methodView, methodHistory, methodAllIDs,
	} {
		_, ok := parsed.Methods[name]
		require.True(ok, "missing contract method %s", name)
	}
}

func TestLoadABIFromArtifact(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "EvidenceChainOfCustody.json")
	artifact := fmt.Sprintf(`{"contractName":"EvidenceChainOfCustody","abi":%s}`, DefaultABI)
	require.NoError(os.WriteFile(path, []byte(artifact), 0o644))

	parsed, err := LoadABI(path)
	require.NoError(err)
	require.Contains(parsed.Methods, methodView)
}

func TestLoadABIMissingKey(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "artifact.json")
	require.NoError(os.WriteFile(path, []byte(`{"contractName":"X"}`), 0o644))

	_, err := LoadABI(path)
	require.ErrorContains(err, "no abi key")
}

func TestLoadABIMissingFile(t *testing.T) {
	require := require.New(t)

	_, err := LoadABI(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(err)
}
