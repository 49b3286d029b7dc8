// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package render

import (
	"sort"

	"github.com/galvanized/cage/math/lin"
)

// Bucket is a sort order hint recorded on every draw so Dispatch replays
// the queue in a coherent order: depth pre-passes and shadow casters
// first, opaques next, translucents after (back to front), overlays last.
type Bucket int

const (
	DepthPass Bucket = iota
	Opaque
	Transparent
	Overlay
)

// Kind enumerates the opaque commands a Queue can hold. Prepare only ever
// appends Commands; Dispatch is the only consumer that interprets them
// (§4.6 step 5, §4.7).
type Kind int

const (
	BeginPass Kind = iota
	BindTarget
	BindShader
	BindTextureCmd
	SetUniformCmd
	Draw
	SwapAttachments
	EndPass
)

// Pass describes the render target and clear behavior for a BeginPass
// command.
type Pass struct {
	// Name identifies a transient render target for dispatch's
	// name+resolution+format keyed cache (§4.7 step 3); empty means the
	// default framebuffer (the window).
	Name       string
	Target     Framebuffer
	Width      int
	Height     int
	ClearColor bool
	ClearDepth bool
	R, G, B, A float32

	// NormalOffset and ShadowFactor carry a shadow-map BeginPass's
	// sampling bias hints (store.Shadowmap) through to whichever later
	// pass samples this target, since the depth pre-pass that records
	// them never samples its own output.
	NormalOffset float64
	ShadowFactor float32
}

// Instance is the per-draw-call uniform payload prepare computes for one
// renderable (§4.6 "UniMesh"): model transform, MVP, normal matrix, the
// instance color and opacity, and animation frame offsets for sprite-sheet
// style texture animation.
type Instance struct {
	Model          lin.M4
	MVP            lin.M4
	NormalMat      lin.M4
	ColorIntensity [4]float32 // rgb color; the fourth element carries opacity (Render.Intensity is not packed).
	AnimUVFrames   [2]float32
	ShadowBiasMVP  lin.M4 // set only when the instance receives shadows.
	Pose           []lin.M4 // per-bone transforms, nil for non-skeletal.
}

// Command is one recorded, replayable GPU operation.
type Command struct {
	Kind Kind

	Pass    Pass
	Program Program
	Tex     Texture
	Sampler int
	Uniform UniformLoc
	Floats  []float32

	// Name2 is SwapAttachments' second transient name: the command tells
	// dispatch's transient cache to swap which physical framebuffer the
	// Pass.Name/Name2 pair refer to, so a fixed ping/pong pair of named
	// targets can be reused across many post-effect stages instead of
	// allocating one target per stage.
	Name2 string

	Mesh      VertexArray
	Mode      DrawMode
	Instances []Instance

	// Sort hints. Only meaningful on Draw commands.
	Bucket Bucket
	ToCam  float64 // distance to camera, used for translucent back-to-front order.
	Mesh2  uintptr // mesh identity, tie-break for coherent state changes.
	Tex2   uintptr // texture identity, tie-break.
	Tag    uint64  // entity id, final tie-break.
}

// Queue is the opaque, replayable sequence of GPU commands recorded by
// prepare and executed in order by dispatch (§4.6 step 5, glossary
// "Render queue"). Prepare only appends; Dispatch only reads.
type Queue []Command

// Reset empties the queue while keeping its backing array, so the same
// Queue value can be reused frame over frame without churning the
// allocator (mirrors the teacher's frame-recycling discipline).
func (q *Queue) Reset() { *q = (*q)[:0] }

// SortQueue orders commands so buckets render in DepthPass, Opaque,
// Transparent, Overlay order; within Transparent, draws sort back-to-front
// by distance to camera; ties break by mesh then texture identity (keeps
// state changes coherent) and finally by entity tag, matching §4.6's
// ordering & tie-break rules and the §8 invariant that translucent depth
// order is monotone non-increasing.
func SortQueue(q Queue) {
	sort.SliceStable(q, func(i, j int) bool {
		a, b := q[i], q[j]
		if a.Kind != Draw || b.Kind != Draw {
			return false // only draws participate in bucket ordering.
		}
		if a.Bucket != b.Bucket {
			return a.Bucket < b.Bucket
		}
		if a.Bucket == Transparent && !lin.Aeq(a.ToCam, b.ToCam) {
			return a.ToCam > b.ToCam // farthest first.
		}
		if a.Mesh2 != b.Mesh2 {
			return a.Mesh2 < b.Mesh2
		}
		if a.Tex2 != b.Tex2 {
			return a.Tex2 < b.Tex2
		}
		return a.Tag < b.Tag
	})
}
