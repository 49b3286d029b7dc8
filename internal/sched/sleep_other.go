// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

//go:build !unix

package sched

import "time"

// highResSleep is the portable fallback for platforms without a
// nanosleep syscall binding in x/sys/unix (§4.1).
func highResSleep(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}
