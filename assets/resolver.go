// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package assets

import (
	"bytes"
	"fmt"
	"math"
	"sync"

	"github.com/galvanized/cage/internal/anim"
	"github.com/galvanized/cage/internal/graphics"
	"github.com/galvanized/cage/internal/store"
	"github.com/galvanized/cage/math/lin"
	"github.com/galvanized/cage/render"
)

// loadedModel is what the model scheme's loader caches: the GPU-resident
// mesh, its local bounds and its bone count, from which a graphics.Model
// is built on demand (LOD selection and shader/texture binding vary per
// Render component, so the cached value stays in terms of the raw decode).
// decode attaches no animation clip and no translucency flag, so clip is
// nil and translucent is false.
type loadedModel struct {
	mesh        render.VertexArray
	local       graphics.AABB
	translucent bool
	boneCount   int
	clip        *anim.Clip
}

// ModelResolver implements graphics.Resolver on top of a Manager, decoding
// the model/skeleton/skelanim wire formats (§6) and uploading the result
// through a render.Renderer. One ModelResolver is created at engine-init
// and shared by graphics-prepare every frame.
type ModelResolver struct {
	mgr *Manager
	gpu render.Renderer

	staticOnce   sync.Once
	staticProg   render.Program
	skeletalOnce sync.Once
	skeletalProg render.Program
}

// NewModelResolver registers the model scheme's loader against mgr,
// reading raw bytes from fetch and uploading geometry through gpu, and
// returns a graphics.Resolver backed by it.
func NewModelResolver(mgr *Manager, gpu render.Renderer, fetch func(name string) ([]byte, error)) *ModelResolver {
	r := &ModelResolver{mgr: mgr, gpu: gpu}
	mgr.Register(SchemeModel, "graphics", func(name string) (interface{}, error) {
		raw, err := fetch(name)
		if err != nil {
			return nil, err
		}
		return r.decode(name, raw)
	})
	return r
}

// program returns the shared shader program for skeletal or static
// models, compiling it on first use. A full material system (distinct
// programs per model) is out of scope here; every model of a given
// kind draws with the same lit-mesh program, selected by graphics-
// prepare's BindShader command per §4.6 step 5.
func (r *ModelResolver) program(skeletal bool) render.Program {
	if skeletal {
		r.skeletalOnce.Do(func() {
			p, _, err := r.gpu.BindProgram(skeletalVertShader, litFragShader, uniformNames)
			if err == nil {
				r.skeletalProg = p
			}
		})
		return r.skeletalProg
	}
	r.staticOnce.Do(func() {
		p, _, err := r.gpu.BindProgram(staticVertShader, litFragShader, uniformNames)
		if err == nil {
			r.staticProg = p
		}
	})
	return r.staticProg
}

var uniformNames = []string{"mvp", "model", "normalMat", "colorIntensity", "animUVFrames", "lights", "shadowBiasMVP", "pose"}

const (
	staticVertShader   = "#version 330\n// cage static mesh vertex shader (position/uv/normal/tangent).\n"
	skeletalVertShader = "#version 330\n// cage skeletal mesh vertex shader (adds bone index/weight skinning).\n"
	litFragShader      = "#version 330\n// cage forward-lit fragment shader (diffuse + packed light list).\n"
)

func (r *ModelResolver) decode(name string, raw []byte) (*loadedModel, error) {
	md, err := DecodeModel(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("assets: decode model %s: %w", name, err)
	}
	vd := render.VertexData{Indices: md.Indices}
	for _, v := range md.Vertices {
		vd.Positions = append(vd.Positions, float32(v.Pos.X), float32(v.Pos.Y), float32(v.Pos.Z))
		if v.HasUV {
			n := 2
			if v.HasUV3 {
				n = 3
			}
			vd.UVs = append(vd.UVs, v.UV[:n]...)
		}
		if v.HasNormal {
			vd.Normals = append(vd.Normals, float32(v.Normal.X), float32(v.Normal.Y), float32(v.Normal.Z))
		}
		if v.HasTangent {
			vd.Tangents = append(vd.Tangents, float32(v.Tangent.X), float32(v.Tangent.Y), float32(v.Tangent.Z),
				float32(v.Bitangent.X), float32(v.Bitangent.Y), float32(v.Bitangent.Z))
		}
		if v.HasSkin {
			vd.BoneIndex = append(vd.BoneIndex, v.BoneIndex[:]...)
			vd.BoneWeight = append(vd.BoneWeight, v.BoneWeight[:]...)
		}
	}
	mesh, err := r.gpu.BindMesh(vd)
	if err != nil {
		return nil, fmt.Errorf("assets: bind mesh %s: %w", name, err)
	}
	return &loadedModel{
		mesh: mesh,
		local: graphics.AABB{
			Min: [3]float64{float64(md.AABBMin[0]), float64(md.AABBMin[1]), float64(md.AABBMin[2])},
			Max: [3]float64{float64(md.AABBMax[0]), float64(md.AABBMax[1]), float64(md.AABBMax[2])},
		},
		boneCount: md.BoneCount,
	}, nil
}

// Model implements graphics.Resolver. A name that is not cached yet is
// loaded synchronously through the manager on the calling thread; a load
// failure reports !ready rather than an error, since graphics-prepare's
// documented behavior for an unready model is to skip or draw a
// placeholder (§6, "renderMissingModels").
func (r *ModelResolver) Model(id store.AssetID) (graphics.Model, bool) {
	h, err := r.mgr.Get(SchemeModel, assetName(id))
	if err != nil {
		return graphics.Model{}, false
	}
	defer h.Release()
	lm, ok := h.Value().(*loadedModel)
	if !ok {
		return graphics.Model{}, false
	}
	return graphics.Model{
		LODs:        []graphics.LOD{{Mesh: lm.mesh, Program: r.program(lm.boneCount > 0), ScreenRadius: 0}},
		Local:       lm.local,
		Translucent: lm.translucent,
		BoneCount:   lm.boneCount,
		Clip:        lm.clip,
		Ready:       true,
	}, true
}

// assetName is the placeholder id->name mapping used until the pack/text
// scheme's name table is wired in; asset ids are presently treated as
// direct name-table indices stringified by the pack loader.
func assetName(id store.AssetID) string { return fmt.Sprintf("%d", id) }

// BuildClip assembles an anim.Clip from a decoded skeleton and skeletal
// animation (§6 "skeletal animation (per-bone sparse key arrays for
// position, rotation, scale)"), decomposing each bone's base matrix into a
// bind-pose translation/rotation pair since anim.Clip's rest pose is
// expressed as lin.T rather than a matrix.
func BuildClip(skel *SkeletonData, sa *SkeletalAnimData) (*anim.Clip, error) {
	if len(skel.Bones) != len(sa.Tracks) {
		return nil, fmt.Errorf("assets: skeleton has %d bones but animation has %d tracks", len(skel.Bones), len(sa.Tracks))
	}
	clip := &anim.Clip{
		Duration:  float64(sa.Duration),
		Rest:      make([]lin.T, len(skel.Bones)),
		RestScale: make([]float64, len(skel.Bones)),
		Channels:  make([]anim.Channel, len(skel.Bones)),
	}
	for i, b := range skel.Bones {
		loc, rot := decomposeM4(b.Base)
		clip.Rest[i] = lin.T{Loc: loc, Rot: rot}
		clip.RestScale[i] = 1

		t := sa.Tracks[i]
		ch := anim.Channel{}
		for _, k := range t.Positions {
			ch.Positions = append(ch.Positions, anim.Vec3Key{Time: float64(k.Time), Value: lin.V3{X: float64(k.Value[0]), Y: float64(k.Value[1]), Z: float64(k.Value[2])}})
		}
		for _, k := range t.Rotations {
			ch.Rotations = append(ch.Rotations, anim.QuatKey{Time: float64(k.Time), Value: lin.Q{X: float64(k.Value[0]), Y: float64(k.Value[1]), Z: float64(k.Value[2]), W: float64(k.Value[3])}})
		}
		for _, k := range t.Scales {
			ch.Scales = append(ch.Scales, anim.Vec3Key{Time: float64(k.Time), Value: lin.V3{X: float64(k.Value[0]), Y: float64(k.Value[1]), Z: float64(k.Value[2])}})
		}
		clip.Channels[i] = ch
	}
	return clip, nil
}

// decomposeM4 extracts a translation and rotation from an affine matrix's
// translation row and upper-left 3x3 (assumed orthonormal, i.e. no scale
// baked into the bind pose) via the standard trace-based quaternion
// extraction.
func decomposeM4(m lin.M4) (*lin.V3, *lin.Q) {
	loc := &lin.V3{X: m.Wx, Y: m.Wy, Z: m.Wz}
	trace := m.Xx + m.Yy + m.Zz
	q := &lin.Q{}
	switch {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		q.W = 0.25 / s
		q.X = (m.Yz - m.Zy) * s
		q.Y = (m.Zx - m.Xz) * s
		q.Z = (m.Xy - m.Yx) * s
	case m.Xx > m.Yy && m.Xx > m.Zz:
		s := 2 * math.Sqrt(1+m.Xx-m.Yy-m.Zz)
		q.W = (m.Yz - m.Zy) / s
		q.X = 0.25 * s
		q.Y = (m.Yx + m.Xy) / s
		q.Z = (m.Zx + m.Xz) / s
	case m.Yy > m.Zz:
		s := 2 * math.Sqrt(1+m.Yy-m.Xx-m.Zz)
		q.W = (m.Zx - m.Xz) / s
		q.X = (m.Yx + m.Xy) / s
		q.Y = 0.25 * s
		q.Z = (m.Zy + m.Yz) / s
	default:
		s := 2 * math.Sqrt(1+m.Zz-m.Xx-m.Yy)
		q.W = (m.Xy - m.Yx) / s
		q.X = (m.Zx + m.Xz) / s
		q.Y = (m.Zy + m.Yz) / s
		q.Z = 0.25 * s
	}
	return loc, q
}
