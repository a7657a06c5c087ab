// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build unix

package launch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

var _ Starter = (*ProcessStarter)(nil)

var _ Waiter = ChildWaiter{}

// ProcessStarter creates children by re-executing the current binary with
// ChildEnvVar set. The new process calls RunChild, which replaces its image
// with the target program. Creating the process and running the program are
// therefore two separate steps that fail in two separate ways.
type ProcessStarter struct {
	Executable string   // Binary that runs RunChild when ChildEnvVar is set.
	Env        []string // Base environment for children.
}

// NewProcessStarter returns a ProcessStarter for the running binary and environment.
func NewProcessStarter() (*ProcessStarter, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, errors.Join(ErrCouldNotStartProcess, err)
	}

	return &ProcessStarter{
		Executable: exe,
		Env:        os.Environ(),
	}, nil
}

// Start implements Starter.
// The os.Process is released straight away: children are only ever reaped by ChildWaiter.
func (s *ProcessStarter) Start(path string) (Handle, error) {
	env := make([]string, 0, len(s.Env)+1)

	for _, kv := range s.Env {
		if !strings.HasPrefix(kv, ChildEnvVar+"=") {
			env = append(env, kv)
		}
	}

	env = append(env, ChildEnvVar+"="+path)

	ps, err := os.StartProcess(s.Executable, []string{filepath.Base(s.Executable)}, &os.ProcAttr{
		Env:   env,
		Files: []*os.File{os.Stdin, os.Stdout, os.Stderr},
	})
	if err != nil {
		return Handle{}, errors.Join(ErrCouldNotStartProcess, err)
	}

	h := NewHandle(ps.Pid)
	_ = ps.Release()

	return h, nil
}

// ChildWaiter waits for any child of the current process.
type ChildWaiter struct{}

// WaitAny implements Waiter.
func (ChildWaiter) WaitAny() (Termination, error) {
	for {
		var ws unix.WaitStatus

		pid, err := unix.Wait4(-1, &ws, 0, nil)

		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case errors.Is(err, unix.ECHILD):
			return Termination{}, ErrNoChildren
		case err != nil:
			return Termination{}, errors.Join(ErrWait, err)
		}

		return Termination{Handle: NewHandle(pid), Status: ws}, nil
	}
}

// RunChild is the entry point of a child created by ProcessStarter.
// It replaces the process image with the program named by ChildEnvVar, passing
// only the program name as argument. If that fails it reports the path on
// stderr and exits with ExecFailedExitCode. It never returns.
func RunChild() {
	path := os.Getenv(ChildEnvVar)
	_ = os.Unsetenv(ChildEnvVar)

	err := unix.Exec(path, []string{path}, os.Environ())

	fmt.Fprintf(os.Stderr, "Failed to execute command %s: %v\n", path, err) //nolint:errcheck
	os.Exit(ExecFailedExitCode)
}
