/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2017-2025 WireGuard LLC. All Rights Reserved.
 */

package rib

import "fmt"

// assert and assertf enforce the table's internal preconditions:
// unlock-below-zero, dangling payload at teardown, VPN-tag mismatch,
// and count mismatch are all programming errors, not recoverable
// conditions. They are checked only when the owning table has Debug
// set; in production mode the checks are skipped entirely rather than
// paying their cost on every call.
func assert(t *Table, cond bool, msg string) {
	if cond || t == nil || !t.Debug {
		return
	}
	t.logger().Errorf("assertion failed: %s", msg)
	panic("rib: assertion failed: " + msg)
}

func assertf(t *Table, cond bool, format string, args ...any) {
	if cond || t == nil || !t.Debug {
		return
	}
	msg := fmt.Sprintf(format, args...)
	t.logger().Errorf("assertion failed: %s", msg)
	panic("rib: assertion failed: " + msg)
}
