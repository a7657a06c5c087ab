// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package launch

import (
	"cmp"
	"strconv"
)

// Handle identifies a launched child process.
// Handles are ordered and comparable but carry no arithmetic.
// The zero Handle means no process has been assigned.
type Handle struct {
	pid int
}

// NewHandle wraps an operating system process id.
func NewHandle(pid int) Handle {
	return Handle{pid: pid}
}

// IsZero reports whether the handle is unassigned.
func (h Handle) IsZero() bool {
	return h.pid == 0
}

// Compare returns -1, 0 or +1 depending on whether h sorts before, equal to or after o.
func (h Handle) Compare(o Handle) int {
	return cmp.Compare(h.pid, o.pid)
}

// Less reports whether h sorts before o.
func (h Handle) Less(o Handle) bool {
	return h.pid < o.pid
}

// Pid returns the process id, for reporting only.
func (h Handle) Pid() int {
	return h.pid
}

func (h Handle) String() string {
	return strconv.Itoa(h.pid)
}
