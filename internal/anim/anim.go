// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package anim implements the skeletal animation preparator (§4.4): a
// per-frame memoizing cache that turns (entity, animation-asset-id,
// evaluation-coefficient) requests into full bone armatures, computing
// each armature once per frame no matter how many render passes ask for
// the same rigged model.
package anim

import (
	"math"
	"sort"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/galvanized/cage/math/lin"
)

// Vec3Key is one position or scale keyframe. Time is normalized to [0,1]
// over the clip's duration (§4.4).
type Vec3Key struct {
	Time  float64
	Value lin.V3
}

// QuatKey is one rotation keyframe.
type QuatKey struct {
	Time  float64
	Value lin.Q
}

// Channel is one bone's sampled motion. A channel may omit any of the
// three key lists, in which case that component holds the bone's bind
// pose value (the caller supplies it via Clip.Rest).
type Channel struct {
	Positions []Vec3Key
	Rotations []QuatKey
	Scales    []Vec3Key

	// Ease, if non-nil, reshapes the [0,1] local interpolation ratio
	// between two adjacent keys before it is used to lerp/slerp — the
	// default (nil) behaves as linear.
	Ease ease.TweenFunc
}

// Clip is one skeletal animation asset: a fixed bone count, a rest pose
// used for any channel that doesn't cover a given component, and one
// Channel per bone.
type Clip struct {
	Duration float64 // seconds.
	Rest     []lin.T // bind pose, one per bone; Rest[i].Loc/.Rot give defaults.
	RestScale []float64
	Channels []Channel // len(Channels) == len(Rest) == model.boneCount.
}

// BoneCount is the declared armature size for this clip, checked against
// a model's bone count by callers enforcing the §3 invariant
// "armature.size() == model.boneCount".
func (c *Clip) BoneCount() int { return len(c.Rest) }

// Coefficient computes the normalized [0,1] position within a clip at a
// given dispatch time, given the animation's start time, playback speed,
// and time offset (§4.4: "computed from dispatch time, animation start,
// speed, and offset, using the animation's duration, with optional
// looping"). ok is false once a non-looping clip has finished.
func (c *Clip) Coefficient(dispatch, start, speed, offset float64, loop bool) (coeff float64, ok bool) {
	if c.Duration <= 0 {
		return 0, true
	}
	elapsed := (dispatch-start)*speed + offset
	if elapsed < 0 {
		elapsed = 0
	}
	t := elapsed / c.Duration
	if loop {
		t = math.Mod(t, 1.0)
		if t < 0 {
			t += 1.0
		}
		return t, true
	}
	if t >= 1.0 {
		return 1.0, false
	}
	return t, true
}

// Sample evaluates every bone channel at coefficient t in [0,1] and
// returns one local transform matrix per bone.
func (c *Clip) Sample(t float64) []lin.M4 {
	out := make([]lin.M4, len(c.Channels))
	for i := range c.Channels {
		ch := &c.Channels[i]
		rest := c.Rest[i]
		restScale := 1.0
		if i < len(c.RestScale) {
			restScale = c.RestScale[i]
		}

		pos := samplePos(ch, rest.Loc, t)
		rot := sampleRot(ch, rest.Rot, t)
		scale := sampleScale(ch, restScale, t)

		m := lin.NewM4I()
		m.SetQ(&rot)           // m = R
		m.ScaleMS(scale, scale, scale) // m = R*S
		m.TranslateTM(pos.X, pos.Y, pos.Z) // m = T*R*S
		out[i] = *m
	}
	return out
}

// ease01 reshapes a [0,1] ratio through fn, defaulting to linear. Wiring
// gween here lets a bone channel specify a non-linear blend between
// adjacent keys instead of a plain lerp/slerp ramp.
func ease01(ratio float32, fn ease.TweenFunc) float32 {
	if fn == nil {
		fn = ease.Linear
	}
	tw := gween.New(0, 1, 1, fn)
	v, _ := tw.Update(ratio)
	return v
}

func samplePos(ch *Channel, rest *lin.V3, t float64) lin.V3 {
	if len(ch.Positions) == 0 {
		return *rest
	}
	if len(ch.Positions) == 1 {
		return ch.Positions[0].Value
	}
	i0, i1, local := searchVec3(ch.Positions, t)
	local = float64(ease01(float32(local), ch.Ease))
	a, b := ch.Positions[i0].Value, ch.Positions[i1].Value
	return lerpV3(a, b, local)
}

func sampleScale(ch *Channel, rest float64, t float64) float64 {
	if len(ch.Scales) == 0 {
		return rest
	}
	if len(ch.Scales) == 1 {
		return ch.Scales[0].Value.X
	}
	i0, i1, local := searchVec3(ch.Scales, t)
	local = float64(ease01(float32(local), ch.Ease))
	a, b := ch.Scales[i0].Value.X, ch.Scales[i1].Value.X
	return a + (b-a)*local
}

func sampleRot(ch *Channel, rest *lin.Q, t float64) lin.Q {
	if len(ch.Rotations) == 0 {
		return *rest
	}
	if len(ch.Rotations) == 1 {
		return ch.Rotations[0].Value
	}
	i0, i1, local := searchQuat(ch.Rotations, t)
	local = float64(ease01(float32(local), ch.Ease))
	a, b := ch.Rotations[i0].Value, ch.Rotations[i1].Value
	return slerp(a, b, local)
}

// searchVec3 binary-searches normalized key times and returns the
// bracketing key indices plus the local [0,1] ratio between them.
func searchVec3(keys []Vec3Key, t float64) (i0, i1 int, local float64) {
	n := len(keys)
	idx := sort.Search(n, func(i int) bool { return keys[i].Time >= t })
	return bracket(idx, n, func(i int) float64 { return keys[i].Time }, t)
}

func searchQuat(keys []QuatKey, t float64) (i0, i1 int, local float64) {
	n := len(keys)
	idx := sort.Search(n, func(i int) bool { return keys[i].Time >= t })
	return bracket(idx, n, func(i int) float64 { return keys[i].Time }, t)
}

func bracket(idx, n int, timeAt func(int) float64, t float64) (i0, i1 int, local float64) {
	if idx <= 0 {
		return 0, 0, 0
	}
	if idx >= n {
		return n - 1, n - 1, 0
	}
	i0, i1 = idx-1, idx
	t0, t1 := timeAt(i0), timeAt(i1)
	if t1 <= t0 {
		return i0, i1, 0
	}
	return i0, i1, (t - t0) / (t1 - t0)
}

func lerpV3(a, b lin.V3, ratio float64) lin.V3 {
	var r lin.V3
	r.X = a.X + (b.X-a.X)*ratio
	r.Y = a.Y + (b.Y-a.Y)*ratio
	r.Z = a.Z + (b.Z-a.Z)*ratio
	return r
}

// slerp spherically interpolates two unit quaternions. lin.Q only
// provides Nlerp (normalized lerp); slerp is implemented directly here
// since the §3 invariant calls for true spherical interpolation on bone
// rotations.
func slerp(a, b lin.Q, ratio float64) lin.Q {
	dot := a.Dot(&b)
	if dot < 0 {
		b.X, b.Y, b.Z, b.W = -b.X, -b.Y, -b.Z, -b.W
		dot = -dot
	}
	const epsilon = 1e-6
	if dot > 1-epsilon {
		return *a.Nlerp(&a, &b, ratio)
	}
	theta0 := math.Acos(dot)
	theta := theta0 * ratio
	sinTheta0 := math.Sin(theta0)
	s0 := math.Cos(theta) - dot*math.Sin(theta)/sinTheta0
	s1 := math.Sin(theta) / sinTheta0
	return lin.Q{
		X: a.X*s0 + b.X*s1,
		Y: a.Y*s0 + b.Y*s1,
		Z: a.Z*s0 + b.Z*s1,
		W: a.W*s0 + b.W*s1,
	}
}
