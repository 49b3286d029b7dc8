// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package graphics

import (
	"testing"

	"github.com/galvanized/cage/internal/anim"
	"github.com/galvanized/cage/internal/store"
	"github.com/galvanized/cage/internal/timing"
	"github.com/galvanized/cage/math/lin"
	"github.com/galvanized/cage/render"
)

type fakeResolver map[store.AssetID]Model

func (f fakeResolver) Model(id store.AssetID) (Model, bool) {
	m, ok := f[id]
	return m, ok
}

func unitCubeModel() Model {
	return Model{
		LODs:  []LOD{{Mesh: 1, ScreenRadius: 0}},
		Local: AABB{Min: [3]float64{-0.5, -0.5, -0.5}, Max: [3]float64{0.5, 0.5, 0.5}},
		Ready: true,
	}
}

func windowCamera(maxLights int) store.Camera {
	return store.Camera{
		Proj: store.Perspective, FOV: 1.2, Near: 0.1, Far: 100,
		ScreenWidth: 800, ScreenHeight: 600, MaxLights: maxLights,
		SceneMask: 1,
	}
}

func TestLerpStaysWithinBounds(t *testing.T) {
	history := store.Transform{Pos: lin.V3{X: 0}, Rot: *lin.NewQI(), Scale: 1}
	current := store.Transform{Pos: lin.V3{X: 10}, Rot: *lin.NewQI(), Scale: 2}
	mid := Lerp(history, current, 0.5)
	if !lin.Aeq(mid.Pos.X, 5) {
		t.Fatalf("expected interpolated X=5, got %v", mid.Pos.X)
	}
	if !lin.Aeq(mid.Scale, 1.5) {
		t.Fatalf("expected interpolated scale=1.5, got %v", mid.Scale)
	}
}

func TestEmitFiltersBySceneMaskOverlap(t *testing.T) {
	s := store.New()
	cam := s.Create()
	s.SetCamera(cam, store.Camera{SceneMask: 0b01})
	s.SetTransform(cam, store.Transform{Scale: 1})

	visible := s.Create()
	s.SetRender(visible, store.Render{SceneMask: 0b01})
	s.SetTransform(visible, store.Transform{Scale: 1})

	hidden := s.Create()
	s.SetRender(hidden, store.Render{SceneMask: 0b10})
	s.SetTransform(hidden, store.Transform{Scale: 1})

	snap := Emit(s, 1.0)
	if len(snap.Renderables) != 1 {
		t.Fatalf("expected exactly 1 visible renderable, got %d", len(snap.Renderables))
	}
	if snap.Renderables[0].Entity != visible {
		t.Fatalf("expected the mask-overlapping entity to be emitted")
	}
}

func TestGatherLightsCapsAndFadesTail(t *testing.T) {
	var lights []LightSnap
	for i := 0; i < 20; i++ {
		lights = append(lights, LightSnap{
			Entity: store.EID(i),
			Light:  store.Light{Kind: store.Point, Intensity: float32(20 - i), Color: [3]float32{1, 1, 1}},
			Transform: store.Transform{Pos: lin.V3{X: float64(i)}},
		})
	}
	shadowed, unshadowed := GatherLights(lights, [3]float64{}, 8)
	if len(shadowed) != 0 {
		t.Fatalf("expected no shadowed lights in this fixture, got %d", len(shadowed))
	}
	if len(unshadowed) != 8 {
		t.Fatalf("expected exactly 8 capped lights, got %d", len(unshadowed))
	}
	if unshadowed[0].FadeAlpha != 1 {
		t.Fatalf("expected the strongest light to be at full strength")
	}
	if unshadowed[len(unshadowed)-1].FadeAlpha >= 1 {
		t.Fatalf("expected the weakest surviving light to be faded")
	}
}

func TestInFrustumCullsObjectsBehindCamera(t *testing.T) {
	cam := windowCamera(8)
	view := viewMatrix(lin.V3{}, *lin.NewQI())
	proj := projMatrix(cam)
	viewProj := lin.NewM4()
	viewProj.Mult(view, proj)

	visibleModel := lin.NewM4I()
	visibleModel.TranslateTM(0, 0, -5)
	mvp := lin.NewM4()
	mvp.Mult(visibleModel, viewProj)
	box := AABB{Min: [3]float64{-0.5, -0.5, -0.5}, Max: [3]float64{0.5, 0.5, 0.5}}
	if !InFrustum(mvp, box) {
		t.Fatalf("expected an object in front of the camera to be visible")
	}

	behindModel := lin.NewM4I()
	behindModel.TranslateTM(0, 0, 5)
	mvp2 := lin.NewM4()
	mvp2.Mult(behindModel, viewProj)
	if InFrustum(mvp2, box) {
		t.Fatalf("expected an object behind the camera to be culled")
	}
}

func TestPrepareRespectsLightCap(t *testing.T) {
	s := store.New()
	camEntity := s.Create()
	cam := windowCamera(4)
	s.SetCamera(camEntity, cam)
	s.SetTransform(camEntity, store.Transform{Pos: lin.V3{Z: 10}, Rot: *lin.NewQI(), Scale: 1})

	for i := 0; i < 10; i++ {
		l := s.Create()
		s.SetLight(l, store.Light{Kind: store.Point, Intensity: 1, Color: [3]float32{1, 1, 1}, SceneMask: 1})
		s.SetTransform(l, store.Transform{Scale: 1})
	}

	snap := Emit(s, 0)
	corr := timing.New()
	resolve := fakeResolver{}
	queue := Prepare(snap, resolve, anim.NewCache(), corr, 1.0/60.0, 0)

	lightCmds := 0
	for _, cmd := range queue {
		if cmd.Kind == render.SetUniformCmd {
			lightCmds++
			if len(cmd.Floats)/8 > cam.MaxLights {
				t.Fatalf("expected at most %d lights packed, got %d", cam.MaxLights, len(cmd.Floats)/8)
			}
		}
	}
	if lightCmds != 1 {
		t.Fatalf("expected exactly one light uniform command per camera, got %d", lightCmds)
	}
}

func TestBuildInstanceSamplesArmatureForSkeletalModel(t *testing.T) {
	clip := &anim.Clip{
		Duration: 1,
		Rest:     []lin.T{{Loc: &lin.V3{}, Rot: lin.NewQI()}},
		RestScale: []float64{1},
		Channels: []anim.Channel{{}},
	}
	model := unitCubeModel()
	model.BoneCount = 1
	model.Clip = clip

	rs := RenderableSnap{
		Entity:       store.EID(1),
		Render:       store.Render{Model: 7},
		Current:      store.Transform{Pos: lin.V3{Z: -5}, Rot: *lin.NewQI(), Scale: 1},
		History:      store.Transform{Pos: lin.V3{Z: -5}, Rot: *lin.NewQI(), Scale: 1},
		HasSkeletal:  true,
		SkeletalAnim: store.SkeletalAnim{Anim: 7, Speed: 1, Loop: true},
	}
	cam := windowCamera(8)
	view := viewMatrix(lin.V3{}, *lin.NewQI())
	proj := projMatrix(cam)
	viewProj := lin.NewM4()
	viewProj.Mult(view, proj)

	cache := anim.NewCache()
	inst, _, _, _, _ := buildInstance(rs, model, viewProj, cam, [3]float64{}, 1, cache, 0)
	if inst == nil {
		t.Fatalf("expected a visible instance")
	}
	if len(inst.Pose) != model.BoneCount {
		t.Fatalf("expected armature size %d, got %d", model.BoneCount, len(inst.Pose))
	}
}
