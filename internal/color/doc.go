// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package color colorizes the report lines and log levels written to the terminal.
// Output is colored only when stdout is a terminal (golang.org/x/term), unless the
// NO_COLOR environment variable disables it or FORCE_COLOR forces it.
package color
