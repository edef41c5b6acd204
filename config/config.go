// Copyright (C) 2026, Custody Lab, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config loads the immutable session configuration: ledger endpoint,
// contract addressing, account material, storage endpoint, and confirmation
// tuning. It is constructed once at startup and never mutated.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/custodylab/custodyctl/custody"
	"github.com/ethereum/go-ethereum/common"
)

// Configuration keys of the addressing file. The file is JSON; every key can
// be overridden with a CUSTODYCTL_-prefixed environment variable.
const (
	HTTPProviderKey        = "http_provider"
	ContractAddressKey     = "contract_address"
	ContractArtifactKey    = "contract_artifact"
	AccountKey             = "account"
	AltAccountKey          = "alt_account"
	PrivateKeyFileKey      = "private_key_file"
	IPFSAPIKey             = "ipfs_api"
	ConfirmationTimeoutKey = "confirmation_timeout"
	PollIntervalKey        = "poll_interval"
	LogLevelKey            = "log_level"
	AuditLogKey            = "audit_log"
)

// DefaultPath is used when neither the CUSTODYCTL_CONFIG environment
// variable nor an explicit path names the addressing file.
const DefaultPath = "addr_list.json"

// Config is the session configuration.
type Config struct {
	HTTPProvider     string `validate:"required,url"`
	ContractAddress  string `validate:"required,eth_addr"`
	ContractArtifact string
	Account          string `validate:"required,eth_addr"`
	AltAccount       string `validate:"omitempty,eth_addr"`
	PrivateKeyFile   string `validate:"required"`
	IPFSAPI          string `validate:"required"`

	ConfirmationTimeout time.Duration `validate:"gt=0"`
	PollInterval        time.Duration `validate:"gt=0"`

	LogLevel string
	AuditLog string
}

// Path resolves the addressing file location: [explicit] when non-empty,
// then $CUSTODYCTL_CONFIG, then DefaultPath.
func Path(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv("CUSTODYCTL_CONFIG"); env != "" {
		return env
	}
	return DefaultPath
}

// Load reads and validates the addressing file at [path].
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	v.SetDefault(HTTPProviderKey, "http://127.0.0.1:8545")
	v.SetDefault(PrivateKeyFileKey, "privatekey.txt")
	v.SetDefault(IPFSAPIKey, "localhost:5001")
	v.SetDefault(ConfirmationTimeoutKey, 2*time.Minute)
	v.SetDefault(PollIntervalKey, 500*time.Millisecond)
	v.SetDefault(LogLevelKey, "info")
	v.SetDefault(AuditLogKey, "custodyctl-audit.log")

	v.SetEnvPrefix("custodyctl")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}

	cfg := &Config{
		HTTPProvider:        v.GetString(HTTPProviderKey),
		ContractAddress:     v.GetString(ContractAddressKey),
		ContractArtifact:    v.GetString(ContractArtifactKey),
		Account:             v.GetString(AccountKey),
		AltAccount:          v.GetString(AltAccountKey),
		PrivateKeyFile:      v.GetString(PrivateKeyFileKey),
		IPFSAPI:             v.GetString(IPFSAPIKey),
		ConfirmationTimeout: v.GetDuration(ConfirmationTimeoutKey),
		PollInterval:        v.GetDuration(PollIntervalKey),
		LogLevel:            v.GetString(LogLevelKey),
		AuditLog:            v.GetString(AuditLogKey),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return cfg, nil
}

// CustodyOptions converts the validated configuration into client options.
func (c *Config) CustodyOptions() custody.Options {
	return custody.Options{
		ContractAddress:     common.HexToAddress(c.ContractAddress),
		Account:             common.HexToAddress(c.Account),
		KeyFile:             c.PrivateKeyFile,
		ConfirmationTimeout: c.ConfirmationTimeout,
		PollInterval:        c.PollInterval,
	}
}
