// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package store

import "github.com/galvanized/cage/math/lin"

// Transform is position, orientation, and uniform scale for one entity.
// Two parallel tables are kept — current and history — so prepare can
// interpolate pose between the two most recent control ticks (§3, §4.3).
type Transform struct {
	Pos   lin.V3
	Rot   lin.Q
	Scale float64
}

// ProjKind selects a Camera's projection.
type ProjKind uint8

const (
	Perspective ProjKind = iota
	Orthographic
)

// LightKind selects a Light's falloff shape.
type LightKind uint8

const (
	Directional LightKind = iota
	Spot
	Point
)

// AssetID references an asset-manager handle. Emit snapshots carry these,
// never live asset pointers, so the snapshot stays POD and asset lifetime
// stays the asset manager's problem (§3 invariants, §6).
type AssetID uint32

// Render is the per-entity renderable record: which model to draw, how to
// tint it, which scenes/cameras can see it, and its draw-order layer.
type Render struct {
	Model    AssetID
	Color    [3]float32
	Intensity float32
	Opacity  float32
	SceneMask uint32
	Layer    int16
}

// TextureAnim drives a sprite-sheet style UV animation on a Render.
type TextureAnim struct {
	Anim  AssetID
	Speed float64
	Offset float64
	Start float64
}

// SkeletalAnim drives bone-channel sampling for a skinned Render, via
// internal/anim's preparator.
type SkeletalAnim struct {
	Anim   AssetID
	Speed  float64
	Offset float64
	Start  float64
	Loop   bool
}

// Attenuation holds the light falloff coefficients; which fields are
// meaningful depends on Light.Kind (constant/linear/quadratic for
// point/spot, min/max range for directional cutoff).
type Attenuation struct {
	Constant, Linear, Quadratic float64
	Min, Max                    float64
}

// Light is one scene light source.
type Light struct {
	Kind        LightKind
	Color       [3]float32
	Intensity   float32
	Atten       Attenuation
	SpotAngle   float64 // radians, cone half-angle.
	SpotExp     float64
	SceneMask   uint32
	CastsShadow bool
}

// Shadowmap configures shadow rendering for a Light that CastsShadow.
// Cascades, if any, must be monotonically non-decreasing in far distance
// (§3 invariants).
type Shadowmap struct {
	Resolution     int
	WorldExtent    float64 // orthographic half-extent for directional lights.
	CascadeSplits  []float64
	NormalOffset   float64
	ShadowFactor   float32
}

// PostEffects bundles the optional per-camera post-processing passes
// (§3, §4.6) that graphics-prepare schedules as ping-pong passes.
type PostEffects struct {
	Bloom         bool
	SSAO          bool
	DOF           bool
	Tonemap       bool
	Gamma         float32
	AA            bool
	Sharpen       float32
	EyeAdaptation bool
}

// Camera describes one view: its projection, render target, scene
// visibility mask, and post-effect configuration.
type Camera struct {
	Proj        ProjKind
	FOV         float64 // radians, meaningful when Proj == Perspective.
	OrthoSize   float64 // half-height, meaningful when Proj == Orthographic.
	Near, Far   float64
	Ambient     [3]float32
	Sky         [3]float32
	SkyIntensity float32
	Target      AssetID // render-to-texture target; zero means the window.
	ClearColor  bool
	ClearDepth  bool
	SceneMask   uint32
	MaxLights   int // cap on unshadowed lights gathered per frame (§4.6).
	ScreenWidth, ScreenHeight int // target resolution, used for LOD projection.
	Post        PostEffects
}

// Voice is a sound-emitting entity's playback request.
type Voice struct {
	Sound     AssetID
	Atten     Attenuation
	Gain      float64
	Priority  int
	Loop      bool
	Start     float64
}

// Listener is the sound-receiving entity; normally there is exactly one
// active listener, but the store does not enforce that.
type Listener struct {
	MaxSounds     int
	GainThreshold float64
	OutputGain    float64
	SceneMask     uint32
}

// TextFormat is the layout configuration for a Text component.
type TextFormat struct {
	Size       float64
	Align      int8 // left/center/right, glossary-defined.
	Wrap       float64
	LineSpacing float64
}

// Text is a renderable glyph run.
type Text struct {
	Font      AssetID
	Transcript string
	Format    TextFormat
	Color     [3]float32
	Intensity float32
}
