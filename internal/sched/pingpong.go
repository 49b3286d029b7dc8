// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package sched

// PingPong is the pair of binary semaphores that hand frames between
// graphics-prepare and graphics-dispatch so the two "never process the
// same frame concurrently but may overlap on adjacent frames" (§4.1).
// Each semaphore is a buffered channel of capacity one: a full channel
// is "signaled", an empty one is "cleared".
type PingPong struct {
	toDispatch chan struct{} // prepare signals dispatch that a frame is ready.
	toPrepare  chan struct{} // dispatch signals prepare that it may start the next frame.
}

// NewPingPong returns a PingPong with prepare allowed to run first.
func NewPingPong() *PingPong {
	pp := &PingPong{
		toDispatch: make(chan struct{}, 1),
		toPrepare:  make(chan struct{}, 1),
	}
	pp.toPrepare <- struct{}{} // prepare may begin immediately.
	return pp
}

// PrepareWait blocks the prepare thread until dispatch has finished with
// the previous frame's buffers.
func (pp *PingPong) PrepareWait() { <-pp.toPrepare }

// PrepareDone signals dispatch that a frame is ready to replay.
func (pp *PingPong) PrepareDone() { pp.toDispatch <- struct{}{} }

// DispatchWait blocks the dispatch thread until prepare has a frame ready.
func (pp *PingPong) DispatchWait() { <-pp.toDispatch }

// DispatchDone signals prepare that it may begin recording the next frame.
func (pp *PingPong) DispatchDone() { pp.toPrepare <- struct{}{} }
