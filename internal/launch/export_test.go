// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package launch

import "time"

// StubNow replaces the clock used to stamp launches and terminations.
func StubNow(f func() time.Time) (restore func()) {
	old := now
	now = f

	return func() { now = old }
}
