// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"

	"github.com/matt-FFFFFF/fanout/internal/ctxlog"
)

// Watch monitors the signal channel and handles signals.
// The first signal of a given type is logged and ignored so that outstanding children
// can still be reaped. The second signal of the same type cancels the context.
// Watch returns when the channel is closed or the context is cancelled.
func Watch(ctx context.Context, sigCh chan os.Signal, cancel context.CancelFunc) {
	sigMap := make(map[os.Signal]struct{})

	for {
		select {
		case <-ctx.Done():
			return
		case sig, ok := <-sigCh:
			if !ok {
				return
			}

			if _, seen := sigMap[sig]; seen {
				ctxlog.Logger(ctx).Warn("watchdog",
					"detail", "received second signal of type, abandoning outstanding children",
					"signal", sig.String())
				cancel()

				return
			}

			ctxlog.Logger(ctx).Warn("watchdog",
				"detail", "received signal, still waiting for children; repeat to abort",
				"signal", sig.String())

			sigMap[sig] = struct{}{}
		}
	}
}
