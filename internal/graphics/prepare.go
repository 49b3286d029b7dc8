// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package graphics

import (
	"log/slog"
	"math"
	"sort"

	"github.com/galvanized/cage/internal/anim"
	"github.com/galvanized/cage/internal/store"
	"github.com/galvanized/cage/internal/timing"
	"github.com/galvanized/cage/math/lin"
	"github.com/galvanized/cage/render"
)

// Transients provisions the two ping-pong HDR textures post-effects
// bounce between, sized to one camera's render target (§4.6 step 4).
type Transients interface {
	Acquire(width, height int) (render.Framebuffer, render.Texture)
	Reset()
}

// Prepare turns one emitted Snapshot into a recorded, replayable render
// queue (§4.6). dispatchNow is the current dispatch-thread wall-clock
// time used by the timing corrector and by skeletal sampling.
func Prepare(snap *Snapshot, resolve Resolver, cache *anim.Cache, corr *timing.Corrector, controlPeriod, dispatchNow float64) render.Queue {
	target := corr.Target(snap.Time, dispatchNow, controlPeriod)
	factor := timing.Factor(target, snap.Time, controlPeriod)
	cache.Reset()

	// The camera and shadow passes sample skeletal clips at the snapshot's
	// Time, so hand them a copy stamped with the dispatch time.
	frame := *snap
	frame.Time = dispatchNow

	var q render.Queue
	cameras := sortedCameras(snap.Cameras)
	for _, cam := range cameras {
		prepareCamera(&q, cam, &frame, resolve, cache, factor)
	}
	return q
}

// sortedCameras orders texture-target cameras before the window-target
// camera, preserving declared order within each group (§4.6 step 2).
func sortedCameras(cams []CameraSnap) []CameraSnap {
	out := make([]CameraSnap, len(cams))
	copy(out, cams)
	sort.SliceStable(out, func(i, j int) bool {
		iWindow := out[i].Camera.Target == 0
		jWindow := out[j].Camera.Target == 0
		return !iWindow && jWindow
	})
	return out
}

func prepareCamera(q *render.Queue, cam CameraSnap, snap *Snapshot, resolve Resolver, cache *anim.Cache, factor float64) {
	if cam.Camera.ScreenWidth < 1 || cam.Camera.ScreenHeight < 1 {
		slog.Debug("skipping camera with a sub-pixel viewport", "entity", cam.Entity)
		return
	}

	view := viewMatrix(cam.Transform.Pos, cam.Transform.Rot)
	proj := projMatrix(cam.Camera)
	viewProj := lin.NewM4()
	viewProj.Mult(view, proj)

	camPos := [3]float64{cam.Transform.Pos.X, cam.Transform.Pos.Y, cam.Transform.Pos.Z}
	shadowed, unshadowed := GatherLights(snap.Lights, camPos, cam.Camera.MaxLights)

	for _, sh := range shadowed {
		recordShadowSubPass(q, sh, snap, resolve, cache)
	}

	*q = append(*q, render.Command{Kind: render.SetUniformCmd, Floats: packLights(unshadowed)})

	opaqueBatches := map[opaqueKey]*render.Command{}
	var opaqueOrder []opaqueKey
	for _, rs := range snap.Renderables {
		model, ok := resolve.Model(rs.Render.Model)
		if !ok || !model.Ready {
			continue // missing/placeholder handling is a policy decision left to the caller's config.
		}
		instance, mesh2, tex2, prog, translucent := buildInstance(rs, model, viewProj, cam.Camera, camPos, factor, cache, snap.Time)
		if instance == nil {
			continue // culled.
		}
		if translucent {
			appendTranslucentDraw(q, rs, model, *instance, mesh2, tex2, prog, camPos)
			continue
		}
		key := opaqueKey{mesh: mesh2, tex: tex2, prog: uintptr(prog), skeletal: model.BoneCount > 0}
		cmd, exists := opaqueBatches[key]
		if !exists {
			cmd = &render.Command{Kind: render.Draw, Mesh: render.VertexArray(mesh2), Mode: render.Triangles, Bucket: render.Opaque, Program: prog, Mesh2: mesh2, Tex2: tex2, Tag: uint64(rs.Entity)}
			opaqueBatches[key] = cmd
			opaqueOrder = append(opaqueOrder, key)
		}
		cmd.Instances = append(cmd.Instances, *instance)
	}
	for _, key := range opaqueOrder {
		*q = append(*q, *opaqueBatches[key])
	}

	render.SortQueue(*q)
	*q = insertShaderBinds(*q)
	recordPostEffects(q, cam)
}

// insertShaderBinds walks an already-sorted queue and prepends a
// BindShader command wherever a Draw's Program differs from the
// previously bound one, so dispatch actually selects the right shader
// per batch instead of relying on a backend's implicit state tracking.
// Run after SortQueue, since reordering draws by bucket can change which
// program is current at any given point in the stream.
func insertShaderBinds(q render.Queue) render.Queue {
	out := make(render.Queue, 0, len(q)+8)
	var current render.Program
	bound := false
	for _, cmd := range q {
		if cmd.Kind == render.Draw && (!bound || cmd.Program != current) {
			out = append(out, render.Command{Kind: render.BindShader, Program: cmd.Program})
			current, bound = cmd.Program, true
		}
		out = append(out, cmd)
	}
	return out
}

type opaqueKey struct {
	mesh     uintptr
	tex      uintptr
	prog     uintptr
	skeletal bool
}

// buildInstance interpolates a renderable's transform, culls it against
// the camera frustum, classifies opaque/translucent, and (if skeletal)
// requests an armature from the animation cache (§4.6 step 3).
func buildInstance(rs RenderableSnap, model Model, viewProj *lin.M4, cam store.Camera, camPos [3]float64, factor float64, cache *anim.Cache, now float64) (inst *render.Instance, mesh2, tex2 uintptr, prog render.Program, translucent bool) {
	pose := Lerp(rs.History, rs.Current, factor)
	modelM := lin.NewM4I()
	modelM.SetQ(&pose.Rot)
	modelM.ScaleMS(pose.Scale, pose.Scale, pose.Scale)
	modelM.TranslateTM(pose.Pos.X, pose.Pos.Y, pose.Pos.Z)

	mvp := lin.NewM4()
	mvp.Mult(modelM, viewProj)

	if !InFrustum(mvp, model.Local) {
		return nil, 0, 0, 0, false
	}

	lodIdx := 0
	if len(model.LODs) > 1 {
		radius := worldRadius(model.Local, pose.Scale)
		dist := math.Sqrt(distSq3([3]float64{pose.Pos.X, pose.Pos.Y, pose.Pos.Z}, camPos))
		if dist < 1e-6 {
			dist = 1e-6
		}
		screenFactor := projectedScreenSize(cam)
		screenRadius := radius * screenFactor
		if cam.Proj != store.Orthographic {
			screenRadius /= dist
		}
		lodIdx = radiusForLOD(model.LODs, screenRadius)
	}
	lod := model.LODs[lodIdx]

	translucent = model.Translucent || rs.Render.Opacity < 1
	inst = &render.Instance{
		Model:     *modelM,
		MVP:       *mvp,
		ColorIntensity: [4]float32{rs.Render.Color[0], rs.Render.Color[1], rs.Render.Color[2], rs.Render.Opacity},
	}
	if rs.HasTexture {
		inst.AnimUVFrames = [2]float32{float32(rs.TextureAnim.Speed), float32(rs.TextureAnim.Offset)}
	}
	if model.BoneCount > 0 && model.Clip != nil {
		coeff, _ := model.Clip.Coefficient(now, rs.SkeletalAnim.Start, rs.SkeletalAnim.Speed, rs.SkeletalAnim.Offset, rs.SkeletalAnim.Loop)
		inst.Pose = cache.Armature(uint32(rs.Entity), uint32(rs.Render.Model), coeff, model.Clip)
	}
	return inst, uintptr(lod.Mesh), uintptr(lod.Texture), lod.Program, translucent
}

// worldRadius estimates an object's world-space bounding radius from its
// local AABB and uniform scale, for LOD projection (§4.6 step 3).
func worldRadius(box AABB, scale float64) float64 {
	dx, dy, dz := box.Max[0]-box.Min[0], box.Max[1]-box.Min[1], box.Max[2]-box.Min[2]
	diagSq := lin.Round(dx*dx+dy*dy+dz*dz, 6) // rounded for deterministic LOD boundaries.
	if diagSq < 0 {
		diagSq = 0
	}
	return scale * 0.5 * math.Sqrt(diagSq)
}

func appendTranslucentDraw(q *render.Queue, rs RenderableSnap, model Model, inst render.Instance, mesh2, tex2 uintptr, prog render.Program, camPos [3]float64) {
	toCam := distSq3([3]float64{inst.Model.Wx, inst.Model.Wy, inst.Model.Wz}, camPos)
	*q = append(*q, render.Command{
		Kind:      render.Draw,
		Mesh:      render.VertexArray(mesh2),
		Mode:      render.Triangles,
		Program:   prog,
		Instances: []render.Instance{inst},
		Bucket:    render.Transparent,
		ToCam:     toCam,
		Mesh2:     mesh2,
		Tex2:      tex2,
		Tag:       uint64(rs.Entity),
	})
}

// viewMatrix builds the inverse of a rigid (rotation+translation)
// camera transform directly, since math/lin has no general M4 inverse.
func viewMatrix(pos lin.V3, rot lin.Q) *lin.M4 {
	var invRot lin.Q
	invRot.Inv(&rot)
	var negPos, camSpacePos lin.V3
	negPos.Neg(&pos)
	camSpacePos.MultQ(&negPos, &invRot)

	m := lin.NewM4I()
	m.SetQ(&invRot)
	m.Wx, m.Wy, m.Wz = camSpacePos.X, camSpacePos.Y, camSpacePos.Z
	return m
}

func projMatrix(cam store.Camera) *lin.M4 {
	m := lin.NewM4()
	aspect := float64(cam.ScreenWidth) / float64(maxI(cam.ScreenHeight, 1))
	if cam.Proj == store.Orthographic {
		size := cam.OrthoSize
		m.Ortho(-size*aspect, size*aspect, -size, size, cam.Near, cam.Far)
		return m
	}
	m.Persp(cam.FOV, aspect, cam.Near, cam.Far)
	return m
}

func maxI(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// packLights flattens the gathered unshadowed lights into the per-camera
// light-list uniform payload: position, kind, color, and intensity scaled
// by the fade alpha, eight floats per light, in the order GatherLights
// already sorted them (§4.6 step 3).
func packLights(lights []GatheredLight) []float32 {
	out := make([]float32, 0, len(lights)*8)
	for _, gl := range lights {
		pos := gl.Light.Transform.Pos
		light := gl.Light.Light
		out = append(out,
			float32(pos.X), float32(pos.Y), float32(pos.Z), float32(light.Kind),
			light.Color[0], light.Color[1], light.Color[2], light.Intensity*gl.FadeAlpha,
		)
	}
	return out
}

