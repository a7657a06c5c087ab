// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main contains the fanout command-line interface (CLI).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/fanout"
	"github.com/matt-FFFFFF/fanout/cmd/fanout/run"
	"github.com/matt-FFFFFF/fanout/internal/ctxlog"
	"github.com/matt-FFFFFF/fanout/internal/launch"
	"github.com/matt-FFFFFF/fanout/internal/signalbroker"
)

func main() {
	// Children re-execute this binary and must never reach the controller.
	if launch.IsChild() {
		launch.RunChild()
	}

	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)
	defer cancel()

	sigCh := signalbroker.New(ctx)

	go signalbroker.Watch(ctx, sigCh, cancel)

	rootCmd := run.NewCommand()
	rootCmd.Version = fmt.Sprintf("%s (commit: %s)", fanout.Version, fanout.Commit)
	rootCmd.Writer = os.Stdout
	rootCmd.ErrWriter = os.Stderr
	rootCmd.Copyright = "Copyright (c) matt-FFFFFF 2025. All rights reserved."

	done := make(chan error, 1)

	go func() {
		done <- rootCmd.Run(ctx, os.Args) // exit codes are handled by the cli framework
	}()

	// Waiting for children cannot be interrupted, so a cancelled context exits directly.
	select {
	case err := <-done:
		if err != nil {
			ctxlog.Logger(ctx).Error("command execution failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		ctxlog.Logger(ctx).Error("command terminated due to cancellation", "error", ctx.Err())
		os.Exit(1)
	}
}
