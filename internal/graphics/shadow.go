// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package graphics

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/galvanized/cage/internal/anim"
	"github.com/galvanized/cage/internal/store"
	"github.com/galvanized/cage/math/lin"
	"github.com/galvanized/cage/render"
)

// recordShadowSubPass records the depth-only sub-pass(es) for one
// shadowed light, reusing the §4.4 armature cache across the camera's
// color pass and every shadow pass (§4.6 step 3). The light/view/
// projection setup follows its Kind: directional gets cascaded
// orthographic passes, spot a single perspective pass sized to its cone,
// point light six 90 degree perspective passes, one per cube face.
func recordShadowSubPass(q *render.Queue, gl GatheredLight, snap *Snapshot, resolve Resolver, cache *anim.Cache) {
	res := gl.Light.Shadowmap.Resolution
	if res <= 0 {
		slog.Warn("shadowed light has no usable resolution, degrading to unshadowed", "entity", gl.Light.Entity)
		return
	}
	switch gl.Light.Light.Kind {
	case store.Spot:
		recordSpotShadowSubPass(q, gl, snap, resolve, cache, res)
	case store.Point:
		recordPointShadowSubPass(q, gl, snap, resolve, cache, res)
	default: // store.Directional
		recordCascadedShadowSubPass(q, gl, snap, resolve, cache, res)
	}
}

// recordCascadedShadowSubPass records one orthographic sub-pass per
// cascade split. Shadowmap.WorldExtent, when set, fixes every cascade's
// world-space half-extent so cascades differ only in depth range; a
// light with no WorldExtent falls back to sizing each box off its own
// split distance, matching the original single-cascade behavior.
func recordCascadedShadowSubPass(q *render.Queue, gl GatheredLight, snap *Snapshot, resolve Resolver, cache *anim.Cache, res int) {
	splits := gl.Light.Shadowmap.CascadeSplits
	if len(splits) == 0 {
		splits = []float64{1.0}
	}
	lightView := viewMatrix(gl.Light.Transform.Pos, gl.Light.Transform.Rot)
	for cascade, far := range splits {
		half := gl.Light.Shadowmap.WorldExtent
		if half <= 0 {
			half = far
		}
		lightProj := lin.NewM4().Ortho(-half, half, -half, half, 0.01, far)
		name := fmt.Sprintf("shadow/%d/%d", gl.Light.Entity, cascade)
		recordShadowPass(q, gl, snap, resolve, cache, name, res, lightView, lightProj)
	}
}

// recordSpotShadowSubPass records a single perspective sub-pass covering
// the light's cone, using twice the stored half-angle (SpotAngle, in
// radians) as the field of view.
func recordSpotShadowSubPass(q *render.Queue, gl GatheredLight, snap *Snapshot, resolve Resolver, cache *anim.Cache, res int) {
	fov := gl.Light.Light.SpotAngle * 2 * 180 / math.Pi
	if fov <= 0 || fov >= 180 {
		fov = 90
	}
	far := shadowFarDistance(gl)
	lightView := viewMatrix(gl.Light.Transform.Pos, gl.Light.Transform.Rot)
	lightProj := lin.NewM4().Persp(fov, 1, 0.05, far)
	name := fmt.Sprintf("shadow/%d/spot", gl.Light.Entity)
	recordShadowPass(q, gl, snap, resolve, cache, name, res, lightView, lightProj)
}

// cubeFace is one face of a point light's shadow cube: its camera basis
// (right, up, forward) in the standard +X,-X,+Y,-Y,+Z,-Z order.
type cubeFace struct {
	name           string
	right, up, fwd [3]float64
}

var cubeFaces = [6]cubeFace{
	{"+x", [3]float64{0, 0, -1}, [3]float64{0, -1, 0}, [3]float64{1, 0, 0}},
	{"-x", [3]float64{0, 0, 1}, [3]float64{0, -1, 0}, [3]float64{-1, 0, 0}},
	{"+y", [3]float64{1, 0, 0}, [3]float64{0, 0, 1}, [3]float64{0, 1, 0}},
	{"-y", [3]float64{1, 0, 0}, [3]float64{0, 0, -1}, [3]float64{0, -1, 0}},
	{"+z", [3]float64{1, 0, 0}, [3]float64{0, -1, 0}, [3]float64{0, 0, 1}},
	{"-z", [3]float64{-1, 0, 0}, [3]float64{0, -1, 0}, [3]float64{0, 0, -1}},
}

// recordPointShadowSubPass records the six 90 degree perspective passes
// that make up a point light's omnidirectional shadow cube, one per
// cubeFace direction.
func recordPointShadowSubPass(q *render.Queue, gl GatheredLight, snap *Snapshot, resolve Resolver, cache *anim.Cache, res int) {
	far := shadowFarDistance(gl)
	pos := gl.Light.Transform.Pos
	for _, face := range cubeFaces {
		lightView := faceViewMatrix(pos, face.right, face.up, face.fwd)
		lightProj := lin.NewM4().Persp(90, 1, 0.05, far)
		name := fmt.Sprintf("shadow/%d/%s", gl.Light.Entity, face.name)
		recordShadowPass(q, gl, snap, resolve, cache, name, res, lightView, lightProj)
	}
}

// shadowFarDistance picks a shadow frustum's far plane for lights that
// have no cascade splits to draw one from: WorldExtent if the light sets
// one, otherwise its outermost cascade split, otherwise a fixed default.
func shadowFarDistance(gl GatheredLight) float64 {
	if gl.Light.Shadowmap.WorldExtent > 0 {
		return gl.Light.Shadowmap.WorldExtent
	}
	if n := len(gl.Light.Shadowmap.CascadeSplits); n > 0 {
		return gl.Light.Shadowmap.CascadeSplits[n-1]
	}
	return 50
}

// faceViewMatrix builds a view matrix directly from an axis-aligned
// camera basis (right, up, forward), the way viewMatrix builds one from
// a quaternion: the rotation block is the basis's world-to-camera
// inverse (the basis is orthonormal, so that's just its rows), and the
// translation is -pos expressed in that same camera space.
func faceViewMatrix(pos lin.V3, right, up, fwd [3]float64) *lin.M4 {
	m := lin.NewM4()
	m.Xx, m.Xy, m.Xz = right[0], right[1], right[2]
	m.Yx, m.Yy, m.Yz = up[0], up[1], up[2]
	m.Zx, m.Zy, m.Zz = fwd[0], fwd[1], fwd[2]
	m.Ww = 1
	m.Wx = -(right[0]*pos.X + right[1]*pos.Y + right[2]*pos.Z)
	m.Wy = -(up[0]*pos.X + up[1]*pos.Y + up[2]*pos.Z)
	m.Wz = -(fwd[0]*pos.X + fwd[1]*pos.Y + fwd[2]*pos.Z)
	return m
}

// recordShadowPass records one BeginPass/Draw*/EndPass depth-only
// sub-pass into a transiently-named target, carrying the light's
// NormalOffset/ShadowFactor bias hints on the recorded Pass so whatever
// later samples this target can read them back.
func recordShadowPass(q *render.Queue, gl GatheredLight, snap *Snapshot, resolve Resolver, cache *anim.Cache, name string, res int, lightView, lightProj *lin.M4) {
	lightVP := lin.NewM4()
	lightVP.Mult(lightView, lightProj)

	*q = append(*q, render.Command{Kind: render.BeginPass, Pass: render.Pass{
		Name:         name,
		Width:        res,
		Height:       res,
		ClearDepth:   true,
		NormalOffset: gl.Light.Shadowmap.NormalOffset,
		ShadowFactor: gl.Light.Shadowmap.ShadowFactor,
	}})

	for _, rs := range snap.Renderables {
		model, ok := resolve.Model(rs.Render.Model)
		if !ok || !model.Ready {
			continue
		}
		modelM := lin.NewM4I()
		modelM.SetQ(&rs.Current.Rot)
		modelM.ScaleMS(rs.Current.Scale, rs.Current.Scale, rs.Current.Scale)
		modelM.TranslateTM(rs.Current.Pos.X, rs.Current.Pos.Y, rs.Current.Pos.Z)
		mvp := lin.NewM4()
		mvp.Mult(modelM, lightVP)
		if !InFrustum(mvp, model.Local) {
			continue
		}
		inst := render.Instance{Model: *modelM, MVP: *mvp, ShadowBiasMVP: *mvp}
		if model.BoneCount > 0 && model.Clip != nil {
			coeff, _ := model.Clip.Coefficient(snap.Time, rs.SkeletalAnim.Start, rs.SkeletalAnim.Speed, rs.SkeletalAnim.Offset, rs.SkeletalAnim.Loop)
			inst.Pose = cache.Armature(uint32(rs.Entity), uint32(rs.Render.Model), coeff, model.Clip)
		}
		*q = append(*q, render.Command{Kind: render.Draw, Mesh: model.LODs[len(model.LODs)-1].Mesh, Mode: render.Triangles, Bucket: render.DepthPass, Instances: []render.Instance{inst}, Tag: uint64(rs.Entity)})
	}

	*q = append(*q, render.Command{Kind: render.EndPass, Pass: render.Pass{Name: name}})
}
