// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package sound implements sound-emit, sound-prepare, and sound-mix
// (§4.8): the symmetric counterpart to package graphics, sharing the same
// triple-buffered emit/prepare interpolation discipline but feeding a
// speaker callback instead of a GPU queue.
package sound

import "github.com/galvanized/cage/internal/store"

// ListenerSnap is one listener's POD copy taken at emit time.
type ListenerSnap struct {
	Entity    store.EID
	Listener  store.Listener
	Current   store.Transform
	History   store.Transform
}

// VoiceSnap is one sound-emitting entity's POD copy.
type VoiceSnap struct {
	Entity  store.EID
	Voice   store.Voice
	Current store.Transform
	History store.Transform
}

// Snapshot is the emit-local arena sound-prepare reads through the swap
// controller once per control tick (§4.8).
type Snapshot struct {
	Time      float64
	Listeners []ListenerSnap
	Voices    []VoiceSnap
}

// Emit walks the control-thread entity store and snapshots every listener
// and voice-emitting entity, mirroring graphics-emit (§4.8: "snapshot
// listeners and voice-emitter entities identically to graphics-emit").
// Sound carries no scene-mask filter on Voice, so (unlike graphics) every
// live voice is captured regardless of which listener will end up hearing
// it; the listener/voice pairing itself happens in Prepare.
func Emit(s *store.Store, now float64) *Snapshot {
	snap := &Snapshot{Time: now}
	for _, e := range s.Listeners() {
		l, _ := s.Listener(e)
		cur, hist, _ := s.Transform(e)
		snap.Listeners = append(snap.Listeners, ListenerSnap{Entity: e, Listener: l, Current: cur, History: hist})
	}
	for _, e := range s.Voices() {
		v, _ := s.Voice(e)
		cur, hist, _ := s.Transform(e)
		snap.Voices = append(snap.Voices, VoiceSnap{Entity: e, Voice: v, Current: cur, History: hist})
	}
	return snap
}
