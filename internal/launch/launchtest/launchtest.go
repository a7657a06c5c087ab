// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package launchtest provides an in-memory process table for testing code
// that launches and reaps child processes.
package launchtest

import (
	"errors"
	"sync"
	"syscall"

	"github.com/matt-FFFFFF/fanout/internal/launch"
)

// ErrInjected is the creation error returned by System when FailAt is reached.
var ErrInjected = errors.New("injected process creation failure")

var (
	_ launch.Starter = (*System)(nil)
	_ launch.Waiter  = (*System)(nil)
)

// Status is a fake termination status.
type Status struct {
	exited bool
	code   int
	sig    syscall.Signal
}

// Exited returns a status for a process that exited normally with code.
func Exited(code int) Status {
	return Status{exited: true, code: code}
}

// Killed returns a status for a process terminated by sig.
func Killed(sig syscall.Signal) Status {
	return Status{sig: sig}
}

// Exited implements launch.Status.
func (s Status) Exited() bool { return s.exited }

// ExitStatus implements launch.Status.
func (s Status) ExitStatus() int {
	if !s.exited {
		return -1
	}

	return s.code
}

// Signaled implements launch.Status.
func (s Status) Signaled() bool { return !s.exited && s.sig != 0 }

// Signal implements launch.Status.
func (s Status) Signal() syscall.Signal { return s.sig }

// System is a fake process table implementing both launch.Starter and launch.Waiter.
// Processes terminate in the order given by ReapOrder, or in start order when it is nil.
type System struct {
	// Pids are assigned to started processes in order. When exhausted,
	// pids continue from 1000 upwards.
	Pids []int
	// FailAt makes the Nth call to Start (1-based) fail with ErrInjected. Zero disables it.
	FailAt int
	// Statuses maps a path to its termination status. Missing paths exit 0.
	Statuses map[string]Status
	// ReapOrder lists indexes into the started processes in termination order.
	ReapOrder []int
	// WaitErr, when set, is returned by WaitAny instead of the next termination.
	WaitErr error
	// Extra handles are reported as terminated after the started processes.
	Extra []launch.Handle

	mu      sync.Mutex
	calls   int
	started []started
	reaped  int
	nextPid int
}

type started struct {
	path string
	h    launch.Handle
}

// Start implements launch.Starter.
func (s *System) Start(path string) (launch.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if s.FailAt > 0 && s.calls == s.FailAt {
		return launch.Handle{}, errors.Join(launch.ErrCouldNotStartProcess, ErrInjected)
	}

	var pid int

	if n := len(s.started); n < len(s.Pids) {
		pid = s.Pids[n]
	} else {
		if s.nextPid == 0 {
			s.nextPid = 1000
		}

		pid = s.nextPid
		s.nextPid++
	}

	h := launch.NewHandle(pid)
	s.started = append(s.started, started{path: path, h: h})

	return h, nil
}

// WaitAny implements launch.Waiter.
func (s *System) WaitAny() (launch.Termination, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.WaitErr != nil {
		return launch.Termination{}, s.WaitErr
	}

	total := len(s.started)
	if s.reaped < total {
		i := s.reaped
		if s.ReapOrder != nil {
			i = s.ReapOrder[s.reaped]
		}

		s.reaped++
		p := s.started[i]

		st, ok := s.Statuses[p.path]
		if !ok {
			st = Exited(0)
		}

		return launch.Termination{Handle: p.h, Status: st}, nil
	}

	if extra := s.reaped - total; extra < len(s.Extra) {
		s.reaped++
		return launch.Termination{Handle: s.Extra[extra], Status: Exited(0)}, nil
	}

	return launch.Termination{}, launch.ErrNoChildren
}

// Calls returns the number of times Start was called.
func (s *System) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.calls
}

// Started returns the paths of the processes that were created, in start order.
func (s *System) Started() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths := make([]string, len(s.started))
	for i, p := range s.started {
		paths[i] = p.path
	}

	return paths
}

// Reaped returns the number of terminations handed out by WaitAny.
func (s *System) Reaped() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.reaped
}
