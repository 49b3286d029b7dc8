// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package sound

import (
	"testing"

	"github.com/galvanized/cage/internal/store"
	"github.com/galvanized/cage/internal/timing"
	"github.com/galvanized/cage/math/lin"
)

func TestMixCapsToMaxSoundsByDescendingGain(t *testing.T) {
	listener := ListenerState{
		Entity:   store.EID(1),
		Listener: store.Listener{MaxSounds: 8, GainThreshold: 0, OutputGain: 1},
		Pos:      [3]float64{0, 0, 0},
	}
	for i := 0; i < 20; i++ {
		h := &Handle{
			Entity: store.EID(i + 2),
			Gain:   1,
			Atten:  store.Attenuation{Constant: 0, Linear: 1, Min: 0, Max: 1000},
			State:  Active,
			Pos:    lin.V3{X: float64(i + 1)}, // farther entities => weaker gain, strictly distinct.
		}
		listener.Voices = append(listener.Voices, h)
	}

	kept := Mix(listener)
	if len(kept) != 8 {
		t.Fatalf("expected exactly 8 voices kept, got %d", len(kept))
	}
	for i := 1; i < len(kept); i++ {
		if kept[i].Gain > kept[i-1].Gain {
			t.Fatalf("expected descending gain order, got %v then %v", kept[i-1].Gain, kept[i].Gain)
		}
	}
	closest := store.EID(2) // i=0 => entity 2, distance 1, strongest gain.
	if kept[0].Entity != closest {
		t.Fatalf("expected the closest voice to rank first, got entity %v", kept[0].Entity)
	}

	culledCount := 0
	for _, h := range listener.Voices {
		if h.Culled {
			culledCount++
		}
	}
	if culledCount != 12 {
		t.Fatalf("expected exactly 12 voices marked culled, got %d", culledCount)
	}
}

func TestMixCullsBelowGainThreshold(t *testing.T) {
	listener := ListenerState{
		Listener: store.Listener{MaxSounds: 10, GainThreshold: 0.5, OutputGain: 1},
	}
	loud := &Handle{Entity: store.EID(1), Gain: 1, Atten: store.Attenuation{Constant: 1, Max: 1000}, State: Active}
	quiet := &Handle{Entity: store.EID(2), Gain: 0.01, Atten: store.Attenuation{Constant: 1, Max: 1000}, State: Active}
	listener.Voices = []*Handle{loud, quiet}

	kept := Mix(listener)
	if len(kept) != 1 || kept[0].Entity != store.EID(1) {
		t.Fatalf("expected only the loud voice to survive the gain threshold, got %+v", kept)
	}
	if !quiet.Culled {
		t.Fatalf("expected the quiet voice to be marked culled")
	}
}

func TestTrackerStateMachine(t *testing.T) {
	tr := NewTracker()
	e := store.EID(5)
	voice := VoiceSnap{Entity: e, Voice: store.Voice{Gain: 1}, Current: store.Transform{Scale: 1}, History: store.Transform{Scale: 1}}

	tr.Update([]VoiceSnap{voice}, 1)
	h := tr.handles[e.Index()]
	if h.State != Active {
		t.Fatalf("expected a freshly seen voice to become active immediately, got %v", h.State)
	}

	tr.Update(nil, 1)
	if h.State != FadedOut {
		t.Fatalf("expected a vanished voice to fade out, got %v", h.State)
	}

	tr.Update(nil, 1)
	if _, ok := tr.handles[e.Index()]; ok {
		t.Fatalf("expected the faded-out voice to be destroyed and removed")
	}
}

func TestAttenuateDecreasesWithDistance(t *testing.T) {
	a := store.Attenuation{Constant: 1, Linear: 1, Max: 1000}
	near := Attenuate(1, a)
	far := Attenuate(100, a)
	if far >= near {
		t.Fatalf("expected attenuation to decrease with distance, got near=%v far=%v", near, far)
	}
}

func TestPrepareInterpolatesListenerAndVoicePositions(t *testing.T) {
	s := store.New()
	listener := s.Create()
	s.SetListener(listener, store.Listener{MaxSounds: 8, OutputGain: 1})
	s.SetTransform(listener, store.Transform{Scale: 1})
	s.SetTransform(listener, store.Transform{Pos: lin.V3{X: 10}, Scale: 1})

	voice := s.Create()
	s.SetVoice(voice, store.Voice{Gain: 1, Atten: store.Attenuation{Constant: 1, Max: 1000}})
	s.SetTransform(voice, store.Transform{Scale: 1})
	s.SetTransform(voice, store.Transform{Pos: lin.V3{X: 4}, Scale: 1})

	snap := Emit(s, 1.0)
	p := NewPrepare()
	corr := timing.New()
	states := p.Update(snap, corr, 1.0/20.0, 1.0)
	if len(states) != 1 {
		t.Fatalf("expected exactly one listener state, got %d", len(states))
	}
	if len(states[0].Voices) != 1 {
		t.Fatalf("expected exactly one active voice, got %d", len(states[0].Voices))
	}
}
