// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package launch

import (
	"context"
	"errors"
	"time"

	"github.com/matt-FFFFFF/fanout/internal/ctxlog"
)

// ErrCouldNotStartProcess is returned by a Starter when the process could not be created.
var ErrCouldNotStartProcess = errors.New("could not start process")

// Starter creates a child process that will run the program at path.
// Failing to create the process is reported as an error. Failing to run the
// program inside an already created child is not: the child exits with
// ExecFailedExitCode instead.
type Starter interface {
	Start(path string) (Handle, error)
}

// StarterFunc adapts a function to the Starter interface.
type StarterFunc func(path string) (Handle, error)

// Start calls f(path).
func (f StarterFunc) Start(path string) (Handle, error) {
	return f(path)
}

// now is replaced in tests.
var now = time.Now

// Spawn launches the records of reg in order and returns how many were launched.
//
// The first creation failure stops the loop: the failing record and every record
// after it stay unlaunched, so reg[:count] hold handles and reg[count:] do not.
// The failure is logged, not returned; the caller decides what a short count means.
func Spawn(ctx context.Context, reg Registry, s Starter) int {
	logger := ctxlog.Logger(ctx)

	for i := range reg {
		rec := &reg[i]

		h, err := s.Start(rec.path)
		if err != nil {
			logger.Warn("process creation failed, not launching remaining commands",
				"path", rec.path,
				"index", i,
				"error", err)

			return i
		}

		if h.IsZero() {
			panic("launch: starter returned the zero handle for " + rec.path)
		}

		rec.assign(h, now())
		logger.Debug("child launched", "path", rec.path, "pid", h.Pid())
	}

	return len(reg)
}
