// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package sched

import (
	"log/slog"
	"sync/atomic"
)

// Phase names one stage of the four long-running threads' shared
// lifecycle (§4.1): engine-init → app-init → gameloop → app-finalize →
// engine-finalize.
type Phase int

const (
	EngineInit Phase = iota
	AppInit
	Gameloop
	AppFinalize
	EngineFinalize
)

func (p Phase) String() string {
	switch p {
	case EngineInit:
		return "engine-init"
	case AppInit:
		return "app-init"
	case Gameloop:
		return "gameloop"
	case AppFinalize:
		return "app-finalize"
	case EngineFinalize:
		return "engine-finalize"
	default:
		return "unknown-phase"
	}
}

// partyCount is the number of long-running threads synchronized by the
// startup/shutdown barrier: control, graphics-prepare, graphics-dispatch,
// sound (§4.1).
const partyCount = 4

// Lifecycle coordinates the four threads through their shared phases and
// carries the engine-wide stop flag and cross-thread semaphores.
type Lifecycle struct {
	startup  *Barrier // hit for engine-init, app-init, entry into gameloop.
	shutdown *Barrier // hit once, for the transition out of gameloop.
	stopping atomic.Bool

	PingPong *PingPong
	Profiles Profiles
}

// NewLifecycle returns a ready Lifecycle for the standard 4 parties.
func NewLifecycle() *Lifecycle {
	return &Lifecycle{
		startup:  NewBarrier(partyCount),
		shutdown: NewBarrier(partyCount),
		PingPong: NewPingPong(),
	}
}

// EnterPhase blocks until every party has reached phase, then returns.
// Call once per thread per phase, in the same order every thread uses:
// EngineInit, AppInit, Gameloop (three startup hits), then
// AppFinalize/EngineFinalize collapse onto the single shutdown hit.
func (lc *Lifecycle) EnterPhase(phase Phase) {
	if phase == AppFinalize || phase == EngineFinalize {
		lc.shutdown.Wait()
		return
	}
	lc.startup.Wait()
}

// Stop sets the cancellation flag checked by all gameloop stages at task
// boundaries (§4.1 "engineStop"). Safe to call from any thread, any
// number of times.
func (lc *Lifecycle) Stop() { lc.stopping.Store(true) }

// Stopping reports whether Stop has been called.
func (lc *Lifecycle) Stopping() bool { return lc.stopping.Load() }

// Guard recovers a panic on the calling goroutine, logs it, and converts
// it into a stop request — mirroring §4.1's "any exception thrown on any
// thread is caught at the per-stage top level, logged, and converted
// into a stop request; finalization still runs." Call via defer at the
// top of each thread's per-tick stage function.
func (lc *Lifecycle) Guard(stage string) {
	if r := recover(); r != nil {
		slog.Error("gameloop stage panicked, stopping engine", "stage", stage, "panic", r)
		lc.Stop()
	}
}
