// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package report

import (
	"bytes"
	"syscall"
	"testing"
	"time"

	"github.com/matt-FFFFFF/fanout/internal/color"
	"github.com/matt-FFFFFF/fanout/internal/launch"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
)

func sampleResults() []launch.Result {
	return []launch.Result{
		{
			Path:     "/bin/true",
			Handle:   launch.NewHandle(101),
			Outcome:  launch.Success,
			ExitCode: 0,
			Duration: 10 * time.Millisecond,
		},
		{
			Path:     "/bin/false",
			Handle:   launch.NewHandle(102),
			Outcome:  launch.Failure,
			ExitCode: 1,
			Duration: 20 * time.Millisecond,
		},
		{
			Path:     "/nope",
			Handle:   launch.NewHandle(103),
			Outcome:  launch.Failure,
			ExitCode: launch.ExecFailedExitCode,
			Duration: 5 * time.Millisecond,
		},
		{
			Path:     "/usr/local/bin/sleeper",
			Handle:   launch.NewHandle(104),
			Outcome:  launch.Failure,
			ExitCode: -1,
			Signal:   syscall.SIGKILL,
			Duration: 1500 * time.Millisecond,
		},
	}
}

func TestPrinterGolden(t *testing.T) {
	defer color.SetEnabled(false)()

	tests := []struct {
		name  string
		print func(p *Printer)
	}{
		{
			name:  "usage",
			print: func(p *Printer) { p.Usage() },
		},
		{
			name:  "nothing_launched",
			print: func(p *Printer) { p.NothingLaunched() },
		},
		{
			name: "partial_run",
			print: func(p *Printer) {
				p.Dropped(2)

				for _, r := range sampleResults() {
					p.Result(r)
				}

				p.Done()
			},
		},
	}

	g := goldie.New(t)

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer

			tc.print(NewPrinter(&buf))
			g.Assert(t, tc.name, buf.Bytes())
		})
	}
}

func TestPrinterColour(t *testing.T) {
	defer color.SetEnabled(true)()

	var buf bytes.Buffer

	p := NewPrinter(&buf)
	p.Result(sampleResults()[0])

	out := buf.String()
	assert.Contains(t, out, color.Colorize("✓", color.FgGreen))
	assert.Contains(t, out, "/bin/true")
	assert.Contains(t, out, color.ControlString(color.Reset)+" has completed successfully")
}

func TestFailureDetail(t *testing.T) {
	tests := []struct {
		name     string
		result   launch.Result
		expected string
	}{
		{
			name:     "exit code",
			result:   launch.Result{Outcome: launch.Failure, ExitCode: 2},
			expected: "exit code: 2",
		},
		{
			name:     "exec failure",
			result:   launch.Result{Outcome: launch.Failure, ExitCode: launch.ExecFailedExitCode},
			expected: "exit code: 3, possibly failed to execute",
		},
		{
			name:     "signal",
			result:   launch.Result{Outcome: launch.Failure, ExitCode: -1, Signal: syscall.SIGTERM},
			expected: "signal: terminated",
		},
		{
			name:     "neither",
			result:   launch.Result{Outcome: launch.Failure, ExitCode: -1},
			expected: "abnormal termination",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, failureDetail(tc.result))
		})
	}
}
