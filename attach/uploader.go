// Copyright (C) 2026, Custody Lab, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package attach pushes local evidence files into the content-addressed
// storage network (IPFS) and hands back their content hashes for inclusion
// in custody records.
package attach

import (
	"errors"
	"fmt"
	"os"

	"github.com/ipfs/go-cid"
	ipfsapi "github.com/ipfs/go-ipfs-api"
	"go.uber.org/zap"
)

// ErrUpload indicates the attachment could not be stored: the file is
// missing or unreadable, the storage daemon is unreachable, or it returned
// an unusable content hash. Callers must not register evidence when it is
// returned.
var ErrUpload = errors.New("attachment upload failed")

// Uploader stores a local file and returns its content hash.
type Uploader interface {
	Upload(path string) (string, error)
}

// IPFS is an Uploader backed by the IPFS HTTP API.
type IPFS struct {
	log *zap.Logger
	sh  *ipfsapi.Shell
}

// NewIPFS wires an uploader to the daemon at [apiAddr] (host:port or
// multiaddr). No connection is made until the first upload.
func NewIPFS(apiAddr string, log *zap.Logger) *IPFS {
	return &IPFS{
		log: log,
		sh:  ipfsapi.NewShell(apiAddr),
	}
}

// Upload adds the file at [path] and returns its CID. The hash is validated
// before being accepted, so a misbehaving daemon cannot poison a custody
// record with an unresolvable reference.
func (u *IPFS) Upload(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpload, err)
	}
	defer f.Close()

	hash, err := u.sh.Add(f)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpload, err)
	}
	if _, err := cid.Decode(hash); err != nil {
		return "", fmt.Errorf("%w: daemon returned malformed hash %q: %w", ErrUpload, hash, err)
	}

	u.log.Info("attachment uploaded", zap.String("path", path), zap.String("cid", hash))
	return hash, nil
}
