// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package anim

import (
	"math"
	"testing"

	"github.com/galvanized/cage/math/lin"
)

func straightLineClip(bones int) *Clip {
	rest := make([]lin.T, bones)
	restScale := make([]float64, bones)
	channels := make([]Channel, bones)
	for i := range rest {
		rest[i] = lin.T{Loc: lin.NewV3(), Rot: lin.NewQI()}
		restScale[i] = 1
		channels[i] = Channel{
			Positions: []Vec3Key{
				{Time: 0, Value: lin.V3{X: 0}},
				{Time: 1, Value: lin.V3{X: 10}},
			},
		}
	}
	return &Clip{Duration: 1, Rest: rest, RestScale: restScale, Channels: channels}
}

// TestSkeletalInterpolation mirrors spec scenario 3: a 10-bone model, 1s
// animation, sampled at coefficients 0, .25, .5, .75, 1.
func TestSkeletalInterpolation(t *testing.T) {
	clip := straightLineClip(10)
	if clip.BoneCount() != 10 {
		t.Fatalf("expected 10 bones, got %d", clip.BoneCount())
	}

	for _, coeff := range []float64{0, 0.25, 0.5, 0.75, 1.0} {
		armature := clip.Sample(coeff)
		if len(armature) != 10 {
			t.Fatalf("coefficient %v: expected 10-bone armature, got %d", coeff, len(armature))
		}
		want := coeff * 10
		got := armature[0].Wx
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("coefficient %v: bone 0 x translation = %v, want %v", coeff, got, want)
		}
	}
}

func TestSingleKeyIsConstantPose(t *testing.T) {
	rest := []lin.T{{Loc: lin.NewV3(), Rot: lin.NewQI()}}
	ch := []Channel{{Positions: []Vec3Key{{Time: 0, Value: lin.V3{X: 5}}}}}
	clip := &Clip{Duration: 1, Rest: rest, RestScale: []float64{1}, Channels: ch}

	for _, coeff := range []float64{0, 0.3, 0.9, 1} {
		arm := clip.Sample(coeff)
		if arm[0].Wx != 5 {
			t.Errorf("coefficient %v: expected constant pose x=5, got %v", coeff, arm[0].Wx)
		}
	}
}

func TestCoefficientLooping(t *testing.T) {
	clip := &Clip{Duration: 2}
	c, ok := clip.Coefficient(5, 0, 1, 0, true)
	if !ok {
		t.Fatal("looping clip should always report ok")
	}
	if math.Abs(c-0.5) > 1e-9 {
		t.Errorf("expected wrapped coefficient 0.5, got %v", c)
	}
}

func TestCoefficientNonLoopingClampsAndStops(t *testing.T) {
	clip := &Clip{Duration: 2}
	c, ok := clip.Coefficient(10, 0, 1, 0, false)
	if ok {
		t.Error("expected non-looping clip past its duration to report !ok")
	}
	if c != 1.0 {
		t.Errorf("expected coefficient clamped to 1.0, got %v", c)
	}
}

func TestSlerpMatchesEndpoints(t *testing.T) {
	a := lin.Q{X: 0, Y: 0, Z: 0, W: 1}
	b := lin.Q{X: 0, Y: 0, Z: 1, W: 0}
	if got := slerp(a, b, 0); got != a {
		t.Errorf("slerp at ratio 0 should equal start: got %+v", got)
	}
	if got := slerp(a, b, 1); !got.Aeq(&b) {
		t.Errorf("slerp at ratio 1 should equal end: got %+v want %+v", got, b)
	}
}
