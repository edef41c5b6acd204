// Copyright (C) 2026, Custody Lab, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// custodyctl is an interactive client for the evidence chain-of-custody
// contract. It reads its addressing file (addr_list.json by default, or
// $CUSTODYCTL_CONFIG), connects to the configured ledger node and IPFS
// daemon, and drives everything through a numbered menu; it takes no flags.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/custodylab/custodyctl/attach"
	"github.com/custodylab/custodyctl/config"
	"github.com/custodylab/custodyctl/console"
	"github.com/custodylab/custodyctl/custody"
	"github.com/custodylab/custodyctl/utils/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "custodyctl: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.Path(""))
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogLevel, cfg.AuditLog)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := custody.Dial(ctx, cfg.HTTPProvider)
	if err != nil {
		return err
	}
	contractABI, err := custody.LoadABI(cfg.ContractArtifact)
	if err != nil {
		return err
	}
	client, err := custody.NewClient(ctx, backend, contractABI, cfg.CustodyOptions(), log)
	if err != nil {
		return err
	}
	uploader := attach.NewIPFS(cfg.IPFSAPI, log)

	fields := []zap.Field{
		zap.Stringer("chain", client.ChainID()),
		zap.Stringer("account", client.Account()),
		zap.String("contract", cfg.ContractAddress),
	}
	if balance, err := client.Balance(ctx, ""); err == nil {
		fields = append(fields, zap.String("balance", balance))
	}
	log.Info("session ready", fields...)

	err = console.New(os.Stdin, os.Stdout, client, uploader, cfg.AltAccount).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
