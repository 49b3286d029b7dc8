// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package sound

import (
	"github.com/galvanized/cage/internal/store"
	"github.com/galvanized/cage/internal/timing"
)

// Prepare is the sound thread's per-tick state: one voice Tracker per
// listener entity, persisted across ticks so Handle identity survives
// frame to frame (§4.8 "maintain a mapping sound-entity-id -> voice-handle").
type Prepare struct {
	trackers map[uint32]*Tracker
}

// NewPrepare returns an empty sound-prepare state.
func NewPrepare() *Prepare { return &Prepare{trackers: map[uint32]*Tracker{}} }

// ListenerState is one listener's current voice set, ready for Mix.
type ListenerState struct {
	Entity   store.EID
	Listener store.Listener
	Pos      [3]float64
	Voices   []*Handle
}

// Update advances every listener's tracker from the latest snapshot,
// computing the emit/dispatch interpolation factor the same way
// graphics-prepare does (§4.3, §4.8), and retires trackers for listeners
// that disappeared.
func (p *Prepare) Update(snap *Snapshot, corr *timing.Corrector, controlPeriod, mixNow float64) []ListenerState {
	target := corr.Target(snap.Time, mixNow, controlPeriod)
	factor := timing.Factor(target, snap.Time, controlPeriod)

	seen := map[uint32]bool{}
	out := make([]ListenerState, 0, len(snap.Listeners))
	for _, l := range snap.Listeners {
		idx := l.Entity.Index()
		seen[idx] = true
		tr, ok := p.trackers[idx]
		if !ok {
			tr = NewTracker()
			p.trackers[idx] = tr
		}
		tr.Update(snap.Voices, factor)
		pose := lerpTransform(l.History, l.Current, factor)
		out = append(out, ListenerState{
			Entity:   l.Entity,
			Listener: l.Listener,
			Pos:      [3]float64{pose.Pos.X, pose.Pos.Y, pose.Pos.Z},
			Voices:   tr.Active(),
		})
	}
	for idx := range p.trackers {
		if !seen[idx] {
			delete(p.trackers, idx)
		}
	}
	return out
}
