// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package sound

import (
	"github.com/galvanized/cage/internal/store"
	"github.com/galvanized/cage/math/lin"
)

// State is a voice handle's place in its lifecycle (§4.8):
//
//	created  -> active   (on the first tick the emitting entity is in the snapshot)
//	active   -> faded-out -> destroyed (one tick each, once the entity leaves the snapshot)
//
// Sound asset readiness plays no part in these transitions: a voice whose
// sound cannot be resolved yet is still active, and MixFrame skips it.
//
// Culled is not a persistent state: it is decided fresh every mix tick and
// never destroys the handle, so it is tracked as a bool on Handle instead.
type State int

const (
	Created State = iota
	Active
	FadedOut
	Destroyed
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Active:
		return "active"
	case FadedOut:
		return "faded-out"
	case Destroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Handle is one playing (or about-to-play, or winding-down) voice, owned
// by the sound-prepare thread for the duration it tracks an entity.
type Handle struct {
	Entity  store.EID
	Sound   store.AssetID
	Atten   store.Attenuation
	Gain    float64
	Priority int
	Loop    bool
	Start   float64

	Pos   lin.V3 // interpolated world position, updated every prepare tick.
	State State

	// Culled is set by Mix when the voice loses the per-tick gain-cap
	// contest; it does not affect State.
	Culled bool

	// Playhead is this voice's read position into its decoded PCM data, in
	// sample frames; it starts at zero when the handle is created and is
	// advanced by MixFrame. Start is copied onto the handle but does not
	// move the playhead.
	Playhead int
}

// Tracker maintains one listener's `sound-entity-id -> voice-handle` map
// across prepare ticks (§4.8), creating, updating, and retiring handles as
// the emitted voice set changes.
type Tracker struct {
	handles map[uint32]*Handle
}

// NewTracker returns an empty per-listener voice tracker.
func NewTracker() *Tracker { return &Tracker{handles: map[uint32]*Handle{}} }

// Update reconciles the tracker against the latest snapshot's voices,
// interpolating each surviving voice's position by factor (the same
// emit/dispatch interpolation factor graphics-prepare computes). Voices
// whose entity is no longer in the snapshot transition active->faded-out
// immediately and are dropped from the map once faded.
func (tr *Tracker) Update(voices []VoiceSnap, factor float64) {
	seen := map[uint32]bool{}
	for _, v := range voices {
		idx := v.Entity.Index()
		seen[idx] = true
		pose := lerpTransform(v.History, v.Current, factor)
		h, ok := tr.handles[idx]
		if !ok {
			h = &Handle{Entity: v.Entity, State: Created}
			tr.handles[idx] = h
		}
		h.Sound = v.Voice.Sound
		h.Atten = v.Voice.Atten
		h.Gain = v.Voice.Gain
		h.Priority = v.Voice.Priority
		h.Loop = v.Voice.Loop
		h.Start = v.Voice.Start
		h.Pos = pose.Pos
		if h.State == Created {
			h.State = Active
		}
	}

	for idx, h := range tr.handles {
		if seen[idx] {
			continue
		}
		switch h.State {
		case Active, Created:
			h.State = FadedOut
		case FadedOut:
			h.State = Destroyed
		}
	}
	for idx, h := range tr.handles {
		if h.State == Destroyed {
			delete(tr.handles, idx)
		}
	}
}

// Active returns every handle currently in the Active state, the set Mix
// considers for attenuation and capping.
func (tr *Tracker) Active() []*Handle {
	out := make([]*Handle, 0, len(tr.handles))
	for _, h := range tr.handles {
		if h.State == Active {
			out = append(out, h)
		}
	}
	return out
}

func lerpTransform(history, current store.Transform, factor float64) store.Transform {
	var pos lin.V3
	pos.X = history.Pos.X + (current.Pos.X-history.Pos.X)*factor
	pos.Y = history.Pos.Y + (current.Pos.Y-history.Pos.Y)*factor
	pos.Z = history.Pos.Z + (current.Pos.Z-history.Pos.Z)*factor
	rot := *history.Rot.Nlerp(&history.Rot, &current.Rot, factor)
	scale := history.Scale + (current.Scale-history.Scale)*factor
	return store.Transform{Pos: pos, Rot: rot, Scale: scale}
}
