// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package sound

import (
	"math"
	"sort"

	"github.com/galvanized/cage/internal/store"
	"github.com/galvanized/cage/math/lin"
)

// Attenuate computes a distance-based gain multiplier in [0,1] from a
// voice's attenuation coefficients, clamping distance to [Min,Max] the
// same way the engine's light falloff model does (§3: Attenuation is
// shared by Light and Voice).
func Attenuate(dist float64, a store.Attenuation) float64 {
	if a.Max > 0 && dist > a.Max {
		dist = a.Max
	}
	if dist < a.Min {
		dist = a.Min
	}
	denom := a.Constant + a.Linear*dist + a.Quadratic*dist*dist
	if denom <= 0 {
		return 1
	}
	g := 1 / denom
	if g > 1 {
		g = 1
	}
	return g
}

// EffectiveGain is the per-tick audible volume of a voice at a listener:
// its own gain times distance attenuation times the listener's output
// gain.
func EffectiveGain(h *Handle, listenerPos [3]float64, listener store.Listener) float64 {
	dist := distance3(h.Pos, listenerPos)
	return h.Gain * Attenuate(dist, h.Atten) * listener.OutputGain
}

func distance3(pos lin.V3, listenerPos [3]float64) float64 {
	dx, dy, dz := pos.X-listenerPos[0], pos.Y-listenerPos[1], pos.Z-listenerPos[2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// SoundSource resolves a sound asset id to raw PCM data, a duplicate of
// graphics.Resolver's narrow-interface pattern so package sound never
// imports package assets directly.
type SoundSource interface {
	Samples(id store.AssetID) (rate int, channels int, pcm []float32, ok bool)
}

// VoiceMix is one voice's contribution to a listener's channel buffer
// after culling: the audible, resampled/gain-scaled samples a real mixer
// would sum into the output. This core stops short of resampling/DSP and
// instead records the decision (kept or culled, and at what gain) that a
// platform-specific mixer backend would act on.
type VoiceMix struct {
	Entity EID
	Gain   float64

	handle *Handle // retained for MixFrame's playhead bookkeeping.
}

// EID re-exports store.EID so callers outside package store don't need
// two import paths for one id type in mix results.
type EID = store.EID

// Mix attenuates and caps one listener's active voices (§4.8 "Mix"):
// cull anything below the listener's gain threshold, then keep at most
// Listener.MaxSounds by descending effective gain (ties broken by the
// voice's declared Priority, higher first). Every other active voice is
// marked Culled on its Handle — a per-tick status, not a state transition.
func Mix(ls ListenerState) []VoiceMix {
	type scored struct {
		h    *Handle
		gain float64
	}
	var candidates []scored
	for _, h := range ls.Voices {
		g := EffectiveGain(h, ls.Pos, ls.Listener)
		if g < ls.Listener.GainThreshold {
			h.Culled = true
			continue
		}
		candidates = append(candidates, scored{h: h, gain: g})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].gain != candidates[j].gain {
			return candidates[i].gain > candidates[j].gain
		}
		return candidates[i].h.Priority > candidates[j].h.Priority
	})

	limit := ls.Listener.MaxSounds
	if limit <= 0 {
		limit = len(candidates)
	}

	out := make([]VoiceMix, 0, limit)
	for i, c := range candidates {
		if i >= limit {
			c.h.Culled = true
			continue
		}
		c.h.Culled = false
		out = append(out, VoiceMix{Entity: c.h.Entity, Gain: c.gain, handle: c.h})
	}
	return out
}
