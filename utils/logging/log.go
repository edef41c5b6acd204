// Copyright (C) 2026, Custody Lab, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package logging builds the process logger: a human-readable console core
// for operator diagnostics, teed to a rotated JSON audit file so every
// submitted transaction leaves a local trace alongside the on-chain record.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// audit file rotation bounds.
const (
	maxSizeMB  = 8
	maxBackups = 4
)

// New returns a logger writing [level]-and-above to stderr and, when
// [auditPath] is non-empty, everything Info-and-above as JSON to a rotated
// file at that path.
func New(level string, auditPath string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}

	consoleCfg := zap.NewDevelopmentEncoderConfig()
	consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(os.Stderr), lvl),
	}

	if auditPath != "" {
		rotated := zapcore.AddSync(&lumberjack.Logger{
			Filename:   auditPath,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			Compress:   true,
		})
		cores = append(cores,
			zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), rotated, zapcore.InfoLevel))
	}

	return zap.New(zapcore.NewTee(cores...)), nil
}
