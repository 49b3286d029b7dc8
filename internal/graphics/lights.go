// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package graphics

import (
	"math"
	"sort"

	"github.com/galvanized/cage/internal/store"
)

// GatheredLight is one light selected for a camera's pass, with its
// shadow sub-pass flag and a fade multiplier applied to its alpha when
// it falls in the capped tail (§4.6 step 3 "Filter unshadowed lights").
type GatheredLight struct {
	Light     LightSnap
	Shadowed  bool
	FadeAlpha float32 // 1 = full strength, <1 = fading out of the cap.
}

// fadeFraction is the portion of the (unshadowed, capped) light list
// whose tail is smoothly faded to zero rather than popping off abruptly
// once a light is pushed over camera.MaxLights (§4.6).
const fadeFraction = 0.15

// contribution estimates a light's screen-space significance as
// intensity attenuated by squared distance to the camera, the ordering
// criterion §4.6 calls "(priority desc, estimated screen-space
// contribution desc)" — this engine has no separate stored light
// priority, so contribution alone orders the list.
func contribution(l store.Light, distSq float64) float64 {
	if l.Kind == store.Directional {
		return float64(l.Intensity) * 1e6 // directional lights are never distance-attenuated.
	}
	if distSq < 1e-6 {
		distSq = 1e-6
	}
	return float64(l.Intensity) / distSq
}

func distSq3(a, b [3]float64) float64 {
	dx, dy, dz := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return dx*dx + dy*dy + dz*dz
}

// GatherLights splits the camera-visible lights into shadowed
// sub-passes and a priority-capped unshadowed list, fading the tail 15%
// of the way to the cap instead of popping (§4.6 step 3).
func GatherLights(lights []LightSnap, camPos [3]float64, maxLights int) (shadowed, unshadowed []GatheredLight) {
	var candidates []GatheredLight
	for _, l := range lights {
		if l.Light.CastsShadow {
			shadowed = append(shadowed, GatheredLight{Light: l, Shadowed: true, FadeAlpha: 1})
			continue
		}
		candidates = append(candidates, GatheredLight{Light: l, FadeAlpha: 1})
	}

	lpos := func(g GatheredLight) [3]float64 {
		return [3]float64{g.Light.Transform.Pos.X, g.Light.Transform.Pos.Y, g.Light.Transform.Pos.Z}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		ci := contribution(candidates[i].Light.Light, distSq3(lpos(candidates[i]), camPos))
		cj := contribution(candidates[j].Light.Light, distSq3(lpos(candidates[j]), camPos))
		return ci > cj
	})

	if maxLights <= 0 || len(candidates) <= maxLights {
		return shadowed, candidates
	}
	candidates = candidates[:maxLights]
	fadeCount := int(math.Ceil(float64(maxLights) * fadeFraction))
	if fadeCount > maxLights {
		fadeCount = maxLights
	}
	for i := 0; i < fadeCount; i++ {
		idx := maxLights - 1 - i
		candidates[idx].FadeAlpha = float32(i+1) / float32(fadeCount+1)
	}
	return shadowed, candidates
}
