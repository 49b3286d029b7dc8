// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

//go:build unix

package sched

import (
	"time"

	"golang.org/x/sys/unix"
)

// highResSleep parks the calling goroutine for d using the nanosleep
// syscall directly rather than the runtime's timer heap, trimming the scheduling
// jitter that matters at the control/sound tasks' tight periods (§4.1).
// Falls back silently to time.Sleep's own OS timer on any syscall error.
func highResSleep(d time.Duration) {
	if d <= 0 {
		return
	}
	ts := unix.NsecToTimespec(d.Nanoseconds())
	for {
		var rem unix.Timespec
		err := unix.Nanosleep(&ts, &rem)
		if err == nil {
			return
		}
		if err != unix.EINTR {
			time.Sleep(time.Duration(ts.Nano()))
			return
		}
		ts = rem
	}
}
