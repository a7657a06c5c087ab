// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package signalbroker keeps the controller alive through terminal interrupts.
// A Ctrl-C is delivered to the whole foreground process group, so the children
// already receive it; the controller only needs to survive long enough to reap
// them and report their outcome. By default it listens for os.Interrupt,
// syscall.SIGINT, syscall.SIGTERM, and syscall.SIGQUIT signals.
//
// Watch cancels a context when two signals of the same type are received.
// Signals are never forwarded to children.
package signalbroker

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/matt-FFFFFF/fanout/internal/ctxlog"
)

var termSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
	syscall.SIGQUIT,
	os.Interrupt,
}

// New creates a new signal broker that listens for OS signals that would otherwise terminate the process.
func New(ctx context.Context, sigs ...os.Signal) chan os.Signal {
	ch := make(chan os.Signal, 1)

	if len(sigs) == 0 {
		sigs = termSignals
	}

	ctxlog.Debug(ctx, "signalbroker", "detail", "creating signal broker", "signals", sigs)
	signal.Notify(ch, sigs...)

	return ch
}

// Stop stops delivery of signals to the channel returned by New.
func Stop(ch chan os.Signal) {
	signal.Stop(ch)
}
