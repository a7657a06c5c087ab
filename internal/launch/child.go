// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package launch

import "os"

const (
	// ChildEnvVar carries the target path from the controller to a freshly created child.
	// Its presence marks the process as a child.
	ChildEnvVar = "FANOUT_EXEC_TARGET"
	// ExecFailedExitCode is the exit status of a child that could not run its program.
	// A program that exits with the same status on its own is indistinguishable.
	ExecFailedExitCode = 3
)

// IsChild reports whether the current process was created by ProcessStarter
// and must call RunChild instead of running the controller.
func IsChild() bool {
	_, ok := os.LookupEnv(ChildEnvVar)
	return ok
}
