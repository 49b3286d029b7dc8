// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package sched

import "sync"

// Barrier synchronizes a fixed number of parties across repeated phase
// transitions (§4.1: "a 4-party barrier hit three times during startup
// and once during shutdown"). Unlike sync.WaitGroup it is reusable: once
// every party has called Wait, all are released together and the
// barrier resets for the next phase.
type Barrier struct {
	mu      sync.Mutex
	n       int
	waiting int
	gate    chan struct{}
}

// NewBarrier returns a Barrier for exactly n parties.
func NewBarrier(n int) *Barrier {
	return &Barrier{n: n, gate: make(chan struct{})}
}

// Wait blocks until all n parties have called Wait for the current
// phase, then returns. The last party to arrive opens the gate for
// everyone and installs a fresh one for the next phase.
func (b *Barrier) Wait() {
	b.mu.Lock()
	gate := b.gate
	b.waiting++
	if b.waiting == b.n {
		b.waiting = 0
		b.gate = make(chan struct{})
		b.mu.Unlock()
		close(gate)
		return
	}
	b.mu.Unlock()
	<-gate
}
