// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package graphics

import (
	"math"

	"github.com/galvanized/cage/internal/anim"
	"github.com/galvanized/cage/internal/store"
	"github.com/galvanized/cage/render"
)

// AABB is a local-space axis-aligned bounding box, transformed by MVP
// for frustum culling (§4.6 step 3 "Cull").
type AABB struct {
	Min, Max [3]float64
}

// LOD is one detail level of a RenderObject's mesh set (§4.6 step 3
// "Gather renderables"). Levels are ordered highest detail first;
// ScreenRadius is the projected-radius threshold below which prepare
// drops down to this LOD.
type LOD struct {
	Mesh         render.VertexArray
	Program      render.Program
	Texture      render.Texture
	ScreenRadius float64
}

// Model is everything prepare needs to know about a renderable's model
// asset, independent of how the asset manager stores it.
type Model struct {
	LODs        []LOD
	Local       AABB
	Translucent bool
	BoneCount   int
	Clip        *anim.Clip // nil for non-skeletal models.
	Ready       bool       // false if the asset hasn't finished loading yet.
}

// Resolver is the narrow view of the asset manager graphics-prepare
// needs: resolve a Render component's model-asset id to drawable data.
// The concrete implementation lives in package assets; graphics depends
// only on this interface to avoid a cyclic import.
type Resolver interface {
	Model(id store.AssetID) (Model, bool)
}

// radiusForLOD picks the highest-detail LOD whose ScreenRadius threshold
// the object's projected screen radius still exceeds, falling back to
// the coarsest LOD (§4.6: "LOD index is chosen by projecting the
// object's world radius against the camera's configured screen size").
func radiusForLOD(lods []LOD, screenRadius float64) int {
	for i, l := range lods {
		if screenRadius >= l.ScreenRadius {
			return i
		}
	}
	return len(lods) - 1
}

// projectedScreenSize computes the 2D scale factor used to turn a
// world-space radius into a screen-space one: orthographic cameras use a
// constant size, perspective uses 2*tan(fov/2)*screenHeightPixels (§4.6).
func projectedScreenSize(cam store.Camera) float64 {
	if cam.Proj == store.Orthographic {
		if cam.OrthoSize <= 0 {
			return 1
		}
		return float64(cam.ScreenHeight) / (2 * cam.OrthoSize)
	}
	return 2 * math.Tan(cam.FOV/2) * float64(cam.ScreenHeight)
}
