// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package launch

import (
	"fmt"
	"time"
)

// Record is one requested command.
// The path never changes. The handle is written once, when the command is launched.
type Record struct {
	path    string
	handle  Handle
	started time.Time
}

// Path returns the executable path of the command.
func (r *Record) Path() string {
	return r.path
}

// Handle returns the handle of the launched process, or the zero Handle.
func (r *Record) Handle() Handle {
	return r.handle
}

// Launched reports whether a process was created for the command.
func (r *Record) Launched() bool {
	return !r.handle.IsZero()
}

// Started returns the time the process was created.
func (r *Record) Started() time.Time {
	return r.started
}

func (r *Record) assign(h Handle, at time.Time) {
	if r.Launched() {
		panic(fmt.Sprintf("launch: command %s already has handle %s", r.path, r.handle))
	}

	r.handle = h
	r.started = at
}

// Registry holds one record per requested command, in launch order.
type Registry []Record

// NewRegistry creates a registry with one unlaunched record per path.
func NewRegistry(paths []string) Registry {
	reg := make(Registry, len(paths))
	for i, p := range paths {
		reg[i].path = p
	}

	return reg
}

// Launched returns the number of records that hold a handle.
func (reg Registry) Launched() int {
	n := 0

	for i := range reg {
		if reg[i].Launched() {
			n++
		}
	}

	return n
}
