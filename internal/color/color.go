// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package color

import (
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

const (
	// NoColor is the environment variable that disables color output.
	NoColor = "NO_COLOR"
	// ForceColor is the environment variable that forces color output.
	ForceColor = "FORCE_COLOR"

	csi    = "\033["
	sgrEnd = "m"
	reset  = csi + "0" + sgrEnd
)

// Code is an ANSI select graphic rendition (SGR) parameter.
type Code int

// Text attributes.
const (
	Reset Code = iota
	Bold
	Faint
	Italic
	Underline
)

// Foreground text colors.
const (
	FgBlack Code = iota + 30
	FgRed
	FgGreen
	FgYellow
	FgBlue
	FgMagenta
	FgCyan
	FgWhite
)

// Foreground high intensity text colors.
const (
	FgHiBlack Code = iota + 90
	FgHiRed
	FgHiGreen
	FgHiYellow
	FgHiBlue
	FgHiMagenta
	FgHiCyan
	FgHiWhite
)

var enabled = isColorCapable()

// Enabled reports whether color output is enabled.
//
// It starts out true when NO_COLOR is unset and either FORCE_COLOR is set or
// stdout is a terminal. SetEnabled overrides it.
func Enabled() bool {
	return enabled
}

// SetEnabled overrides terminal detection and returns a function that restores the previous setting.
func SetEnabled(v bool) func() {
	prev := enabled
	enabled = v

	return func() {
		enabled = prev
	}
}

// ControlString returns the escape sequence for the given codes.
// It returns an empty string when color output is disabled.
func ControlString(codes ...Code) string {
	if !enabled {
		return ""
	}

	var sb strings.Builder

	writeSGR(&sb, codes)

	return sb.String()
}

// Colorize wraps str in the escape sequence for the given codes, followed by a reset.
// It returns str unchanged when color output is disabled.
func Colorize(str string, codes ...Code) string {
	if !enabled {
		return str
	}

	var sb strings.Builder

	sb.Grow(len(str) + len(reset) + len(csi) + len(sgrEnd) + 3*len(codes))
	writeSGR(&sb, codes)
	sb.WriteString(str)
	sb.WriteString(reset)

	return sb.String()
}

func writeSGR(sb *strings.Builder, codes []Code) {
	sb.WriteString(csi)

	for i, code := range codes {
		if i > 0 {
			sb.WriteByte(';')
		}

		sb.WriteString(strconv.Itoa(int(code)))
	}

	sb.WriteString(sgrEnd)
}

func isColorCapable() bool {
	if os.Getenv(NoColor) != "" {
		return false
	}

	if os.Getenv(ForceColor) != "" {
		return true
	}

	return term.IsTerminal(int(os.Stdout.Fd()))
}
