// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package report

import (
	"fmt"
	"io"
	"os"

	"github.com/matt-FFFFFF/fanout/internal/color"
	"github.com/matt-FFFFFF/fanout/internal/launch"
)

// UsageText is printed after the usage error.
const UsageText = "Usage: fanout <commandPath1> [<commandPath2> ...]"

// Printer writes the user facing lines of a run.
type Printer struct {
	w io.Writer
}

// NewPrinter returns a Printer writing to w. A nil w means stdout.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}

	return &Printer{w: w}
}

// Usage reports that no commands were supplied.
func (p *Printer) Usage() {
	fmt.Fprintln(p.w, color.Colorize("Error: no arguments added.", color.Bold, color.FgRed)) // nolint:errcheck
	fmt.Fprintln(p.w, UsageText)                                                            // nolint:errcheck
}

// NothingLaunched reports that not a single child could be created.
func (p *Printer) NothingLaunched() {
	fmt.Fprintln(p.w, color.Colorize("Failed to create any child process", color.FgRed)) // nolint:errcheck
}

// Dropped warns that the last n commands will not run.
func (p *Printer) Dropped(n int) {
	fmt.Fprintln( // nolint:errcheck
		p.w,
		color.Colorize(
			fmt.Sprintf("Failed to launch the remaining %d commands. These remaining commands will not be run", n),
			color.FgYellow,
		),
	)
}

// Result prints the status line of one terminated command.
func (p *Printer) Result(r launch.Result) {
	var statusStr, labelPrefix string

	switch r.Outcome {
	case launch.Success:
		statusStr = color.Colorize("✓", color.FgGreen)
		labelPrefix = color.ControlString(color.Bold, color.FgGreen)
	default:
		statusStr = color.Colorize("✗", color.FgRed)
		labelPrefix = color.ControlString(color.Bold, color.FgRed)
	}

	fmt.Fprintf( // nolint:errcheck
		p.w,
		"%s Command %s%s%s",
		statusStr,
		labelPrefix,
		r.Path,
		color.ControlString(color.Reset),
	)

	if r.Outcome == launch.Success {
		fmt.Fprintln(p.w, " has completed successfully") // nolint:errcheck
		return
	}

	fmt.Fprintf(p.w, " has not completed successfully (%s)\n", failureDetail(r)) // nolint:errcheck
}

// Done prints the sign-off line.
func (p *Printer) Done() {
	fmt.Fprintln(p.w, "All done, bye-bye!") // nolint:errcheck
}

func failureDetail(r launch.Result) string {
	switch {
	case r.ExitCode == launch.ExecFailedExitCode:
		return fmt.Sprintf("exit code: %d, possibly failed to execute", r.ExitCode)
	case r.ExitCode >= 0:
		return fmt.Sprintf("exit code: %d", r.ExitCode)
	case r.Signal != 0:
		return "signal: " + r.Signal.String()
	default:
		return "abnormal termination"
	}
}
