// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package graphics implements graphics-emit, graphics-prepare, and
// graphics-dispatch (§4.5-§4.7): turning entity-store state into POD
// snapshots, snapshots into a recorded render queue, and the queue into
// GPU calls.
package graphics

import (
	"github.com/galvanized/cage/internal/store"
	"github.com/galvanized/cage/math/lin"
)

// CameraSnap is one camera's POD copy taken at emit time.
type CameraSnap struct {
	Entity    store.EID
	Camera    store.Camera
	Transform store.Transform
}

// LightSnap is one light's POD copy.
type LightSnap struct {
	Entity    store.EID
	Light     store.Light
	Shadowmap store.Shadowmap
	Transform store.Transform
}

// RenderableSnap is one renderable's POD copy, carrying both the current
// and history transform so prepare can interpolate (§3, §4.5).
type RenderableSnap struct {
	Entity       store.EID
	Render       store.Render
	Current      store.Transform
	History      store.Transform
	SkeletalAnim store.SkeletalAnim
	HasSkeletal  bool
	TextureAnim  store.TextureAnim
	HasTexture   bool
}

// Snapshot is the emit-local arena of POD records published through the
// swap controller once per control tick (§4.5).
type Snapshot struct {
	Time        float64
	Cameras     []CameraSnap
	Lights      []LightSnap
	Renderables []RenderableSnap
}

// sceneMaskOverlap reports whether two scene-masks share any bit (§3:
// "a light affects a camera only if their masks intersect").
func sceneMaskOverlap(a, b uint32) bool { return a&b != 0 }

// Emit walks the control-thread entity store and produces a Snapshot
// covering every light/renderable with a scene-mask overlapping at least
// one active camera (§4.5). Asset ids are copied by value, never asset
// pointers.
func Emit(s *store.Store, now float64) *Snapshot {
	snap := &Snapshot{Time: now}

	cameras := s.Cameras()
	var activeMask uint32
	for _, e := range cameras {
		cam, _ := s.Camera(e)
		cur, _, _ := s.Transform(e)
		snap.Cameras = append(snap.Cameras, CameraSnap{Entity: e, Camera: cam, Transform: cur})
		activeMask |= cam.SceneMask
	}
	if activeMask == 0 {
		return snap // no active cameras: nothing can be visible this tick.
	}

	for _, e := range s.Lights() {
		l, _ := s.Light(e)
		if !sceneMaskOverlap(l.SceneMask, activeMask) {
			continue
		}
		sm, _ := s.Shadowmap(e)
		cur, _, _ := s.Transform(e)
		snap.Lights = append(snap.Lights, LightSnap{Entity: e, Light: l, Shadowmap: sm, Transform: cur})
	}

	for _, e := range s.Renderables() {
		r, _ := s.Render(e)
		if !sceneMaskOverlap(r.SceneMask, activeMask) {
			continue
		}
		cur, hist, _ := s.Transform(e)
		rs := RenderableSnap{Entity: e, Render: r, Current: cur, History: hist}
		if sk, ok := s.SkeletalAnim(e); ok {
			rs.SkeletalAnim, rs.HasSkeletal = sk, true
		}
		if ta, ok := s.TextureAnim(e); ok {
			rs.TextureAnim, rs.HasTexture = ta, true
		}
		snap.Renderables = append(snap.Renderables, rs)
	}
	return snap
}

// Lerp interpolates between a history and current transform by factor in
// [0,1] (0 = history, 1 = current), used by prepare to compute the model
// matrix for the interpolation target time (§3, §4.3).
func Lerp(history, current store.Transform, factor float64) store.Transform {
	var pos lin.V3
	pos.X = history.Pos.X + (current.Pos.X-history.Pos.X)*factor
	pos.Y = history.Pos.Y + (current.Pos.Y-history.Pos.Y)*factor
	pos.Z = history.Pos.Z + (current.Pos.Z-history.Pos.Z)*factor
	rot := *history.Rot.Nlerp(&history.Rot, &current.Rot, factor)
	scale := history.Scale + (current.Scale-history.Scale)*factor
	return store.Transform{Pos: pos, Rot: rot, Scale: scale}
}
