// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package cage

import (
	"github.com/galvanized/cage/internal/store"
	"github.com/galvanized/cage/math/lin"
)

// Entity is a lightweight handle to one row of the engine's entity store
// (§3). Applications create, tag with components, and dispose entities
// from within Director.Update; every other engine thread only ever sees
// POD snapshots taken from the store, never an Entity itself.
type Entity struct {
	eid store.EID
	eng *Engine
}

// NewEntity creates a fresh entity at the origin with unit scale.
func (e *Engine) NewEntity() Entity {
	return Entity{eid: e.store.Create(), eng: e}
}

// Dispose removes the entity and every component it carries.
func (en Entity) Dispose() { en.eng.store.Dispose(en.eid) }

// Exists reports whether the entity is still live.
func (en Entity) Exists() bool { return en.eng.store.Valid(en.eid) }

// ID returns the entity's raw store identifier, for APIs (e.g. AssetID
// lookups, scene-mask bookkeeping) that need a stable comparable key.
func (en Entity) ID() uint32 { return uint32(en.eid) }

// SetPose sets the entity's position, rotation, and uniform scale,
// pushing the previous value into the interpolation-history table (§3).
func (en Entity) SetPose(pos lin.V3, rot lin.Q, scale float64) error {
	return en.eng.store.SetTransform(en.eid, store.Transform{Pos: pos, Rot: rot, Scale: scale})
}

// Pose returns the entity's current transform.
func (en Entity) Pose() (store.Transform, bool) {
	cur, _, ok := en.eng.store.Transform(en.eid)
	return cur, ok
}

// SetModel attaches a Render component referencing the given model asset
// (§3 Model/RenderObject component). Rejected if the entity already
// carries a Text component.
func (en Entity) SetModel(r store.Render) error { return en.eng.store.SetRender(en.eid, r) }

// SetText attaches a Text component (§3). Rejected if the entity already
// carries a Render component.
func (en Entity) SetText(t store.Text) error { return en.eng.store.SetText(en.eid, t) }

// SetTextureAnim drives a sprite-sheet UV animation on the entity's Render
// component.
func (en Entity) SetTextureAnim(a store.TextureAnim) error {
	return en.eng.store.SetTextureAnim(en.eid, a)
}

// SetSkeletalAnim drives bone-channel sampling on the entity's skinned
// Render component.
func (en Entity) SetSkeletalAnim(a store.SkeletalAnim) error {
	return en.eng.store.SetSkeletalAnim(en.eid, a)
}

// SetLight attaches a Light component.
func (en Entity) SetLight(l store.Light) error { return en.eng.store.SetLight(en.eid, l) }

// SetShadowmap configures shadow rendering for the entity's Light
// component.
func (en Entity) SetShadowmap(sm store.Shadowmap) error { return en.eng.store.SetShadowmap(en.eid, sm) }

// SetCamera attaches a Camera component.
func (en Entity) SetCamera(c store.Camera) error { return en.eng.store.SetCamera(en.eid, c) }

// SetVoice attaches a Voice (sound-emitting) component.
func (en Entity) SetVoice(v store.Voice) error { return en.eng.store.SetVoice(en.eid, v) }

// SetListener attaches a Listener (sound-receiving) component.
func (en Entity) SetListener(l store.Listener) error { return en.eng.store.SetListener(en.eid, l) }
