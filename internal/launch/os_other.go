// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build !unix

package launch

import (
	"errors"
	"fmt"
	"os"
)

// ErrUnsupportedPlatform is returned where there is no wait-for-any-child primitive.
var ErrUnsupportedPlatform = errors.New("process fan-out is only supported on unix")

// ProcessStarter is unavailable on this platform.
type ProcessStarter struct {
	Executable string
	Env        []string
}

// NewProcessStarter always fails on this platform.
func NewProcessStarter() (*ProcessStarter, error) {
	return nil, ErrUnsupportedPlatform
}

// Start implements Starter.
func (s *ProcessStarter) Start(string) (Handle, error) {
	return Handle{}, errors.Join(ErrCouldNotStartProcess, ErrUnsupportedPlatform)
}

// ChildWaiter is unavailable on this platform.
type ChildWaiter struct{}

// WaitAny implements Waiter.
func (ChildWaiter) WaitAny() (Termination, error) {
	return Termination{}, errors.Join(ErrWait, ErrUnsupportedPlatform)
}

// RunChild exits with ExecFailedExitCode. It never returns.
func RunChild() {
	fmt.Fprintf(os.Stderr, "Failed to execute command %s: %v\n", os.Getenv(ChildEnvVar), ErrUnsupportedPlatform) //nolint:errcheck
	os.Exit(ExecFailedExitCode)
}
