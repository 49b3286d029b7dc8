// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package sched

import (
	"sync/atomic"
	"time"
)

// Periodic drives a task at a fixed or free-running rate until Stop is
// called (§4.1: control's update task at a steady period, its input task
// free-running, sound's own steady 40Hz scheduler).
type Periodic struct {
	period time.Duration
	stop   atomic.Bool
	task   func(tick uint64, now time.Time)
}

// NewPeriodic returns a Periodic that calls task once per period.
func NewPeriodic(hz float64, task func(tick uint64, now time.Time)) *Periodic {
	return &Periodic{period: time.Duration(float64(time.Second) / hz), task: task}
}

// Run blocks, invoking the task every period until Stop is called or
// stopFlag reports true. Drift is corrected by scheduling relative to a
// fixed start time rather than accumulating per-tick sleep error.
func (p *Periodic) Run(stopFlag *atomic.Bool) {
	start := time.Now()
	var tick uint64
	for !p.stop.Load() && !stopFlag.Load() {
		target := start.Add(p.period * time.Duration(tick+1))
		if d := time.Until(target); d > 0 {
			highResSleep(d)
		}
		tick++
		p.task(tick, time.Now())
	}
}

// Stop halts a running Periodic after its current task call returns.
func (p *Periodic) Stop() { p.stop.Store(true) }
