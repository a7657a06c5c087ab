// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package launch

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"time"

	"github.com/matt-FFFFFF/fanout/internal/ctxlog"
)

var (
	// ErrNoChildren is returned by a Waiter when no child processes remain.
	ErrNoChildren = errors.New("no child processes remain")
	// ErrUnknownHandle is the panic value when a terminated process is not in the index.
	ErrUnknownHandle = errors.New("terminated process was not launched by this run")
	// ErrWait is returned when waiting for a child fails for any reason other than exhaustion.
	ErrWait = errors.New("failed to wait for child process")
)

// Status is the raw termination status of a child, as reported by the wait primitive.
type Status interface {
	Exited() bool
	ExitStatus() int
	Signaled() bool
	Signal() syscall.Signal
}

// Termination is a single "child terminated" event.
type Termination struct {
	Handle Handle
	Status Status
}

// Waiter blocks until any child of the current process terminates.
// It returns ErrNoChildren once every child has been reaped.
type Waiter interface {
	WaitAny() (Termination, error)
}

// Outcome is the classification of a terminated command.
type Outcome int

const (
	// Success means the command exited normally with status 0.
	Success Outcome = iota
	// Failure means the command exited with a non-zero status or did not exit normally.
	Failure
)

// String implements the Stringer interface for Outcome.
func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return fmt.Sprintf("unknown(%d)", int(o))
	}
}

// Classify maps a raw status to an Outcome.
// No distinction is made between the causes of failure.
func Classify(st Status) Outcome {
	if st.Exited() && st.ExitStatus() == 0 {
		return Success
	}

	return Failure
}

// Result is the classified termination of one launched command.
type Result struct {
	Path     string
	Handle   Handle
	Outcome  Outcome
	ExitCode int            // -1 when the process did not exit normally
	Signal   syscall.Signal // non-zero when the process was killed by a signal
	Duration time.Duration
}

func newResult(rec *Record, ev Termination, at time.Time) Result {
	res := Result{
		Path:     rec.path,
		Handle:   ev.Handle,
		Outcome:  Classify(ev.Status),
		ExitCode: -1,
	}

	if ev.Status.Exited() {
		res.ExitCode = ev.Status.ExitStatus()
	}

	if ev.Status.Signaled() {
		res.Signal = ev.Status.Signal()
	}

	if !rec.started.IsZero() {
		res.Duration = at.Sub(rec.started)
	}

	return res
}

// Reap waits for every outstanding child and emits one Result per termination,
// in termination order. It returns the number of results emitted.
//
// Every terminated handle must be in idx. A handle that is not means the index and
// the set of children disagree, which cannot be recovered from, so Reap panics
// with an error wrapping ErrUnknownHandle.
func Reap(ctx context.Context, idx Index, w Waiter, emit func(Result)) (int, error) {
	logger := ctxlog.Logger(ctx)
	n := 0

	for {
		ev, err := w.WaitAny()
		if errors.Is(err, ErrNoChildren) {
			break
		}

		if err != nil {
			return n, err
		}

		rec, ok := idx.Lookup(ev.Handle)
		if !ok {
			panic(fmt.Errorf("%w: pid %s", ErrUnknownHandle, ev.Handle))
		}

		res := newResult(rec, ev, now())
		logger.Debug("child reaped",
			"path", res.Path,
			"pid", res.Handle.Pid(),
			"outcome", res.Outcome.String(),
			"exitCode", res.ExitCode)

		emit(res)

		n++
	}

	if n != len(idx) {
		logger.Warn("fewer children reaped than launched", "reaped", n, "launched", len(idx))
	}

	return n, nil
}
