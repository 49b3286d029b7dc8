// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package assets

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/galvanized/cage/math/lin"
)

// Glyph is one font-atlas character cell (§6 "per-glyph uv+size+bearing+advance").
type Glyph struct {
	Char    rune
	U, V    float32
	W, H    float32
	BearingX, BearingY float32
	Advance float32
}

// FontAtlas is the decoded layout of a baked font atlas asset (§6 "font
// atlas (header with glyph count, line height, max glyph size, atlas wh;
// per-glyph uv+size+bearing+advance; optional dense kerning; char→glyph
// table)").
type FontAtlas struct {
	LineHeight   float32
	MaxGlyphW    float32
	MaxGlyphH    float32
	AtlasW       float32
	AtlasH       float32
	Glyphs       []Glyph
	Kerning      map[[2]rune]float32 // empty map if the asset carries no kerning table.
}

// EncodeFontAtlas writes f in the core's little-endian wire layout.
func EncodeFontAtlas(w io.Writer, f *FontAtlas) error {
	hdr := []float32{f.LineHeight, f.MaxGlyphW, f.MaxGlyphH, f.AtlasW, f.AtlasH}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(f.Glyphs))); err != nil {
		return err
	}
	for _, v := range hdr {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	for _, g := range f.Glyphs {
		if err := binary.Write(w, binary.LittleEndian, uint32(g.Char)); err != nil {
			return err
		}
		fields := []float32{g.U, g.V, g.W, g.H, g.BearingX, g.BearingY, g.Advance}
		for _, v := range fields {
			if err := binary.Write(w, binary.LittleEndian, v); err != nil {
				return err
			}
		}
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(f.Kerning))); err != nil {
		return err
	}
	for pair, adj := range f.Kerning {
		if err := binary.Write(w, binary.LittleEndian, [2]uint32{uint32(pair[0]), uint32(pair[1])}); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, adj); err != nil {
			return err
		}
	}
	return nil
}

// DecodeFontAtlas is EncodeFontAtlas's inverse.
func DecodeFontAtlas(r io.Reader) (*FontAtlas, error) {
	var glyphCount uint32
	if err := binary.Read(r, binary.LittleEndian, &glyphCount); err != nil {
		return nil, fmt.Errorf("assets: decode font atlas header: %w", err)
	}
	f := &FontAtlas{Kerning: map[[2]rune]float32{}}
	hdr := make([]float32, 5)
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("assets: decode font atlas metrics: %w", err)
	}
	f.LineHeight, f.MaxGlyphW, f.MaxGlyphH, f.AtlasW, f.AtlasH = hdr[0], hdr[1], hdr[2], hdr[3], hdr[4]

	f.Glyphs = make([]Glyph, glyphCount)
	for i := range f.Glyphs {
		var char uint32
		if err := binary.Read(r, binary.LittleEndian, &char); err != nil {
			return nil, fmt.Errorf("assets: decode glyph %d: %w", i, err)
		}
		fields := make([]float32, 7)
		if err := binary.Read(r, binary.LittleEndian, &fields); err != nil {
			return nil, fmt.Errorf("assets: decode glyph %d metrics: %w", i, err)
		}
		f.Glyphs[i] = Glyph{
			Char: rune(char),
			U: fields[0], V: fields[1], W: fields[2], H: fields[3],
			BearingX: fields[4], BearingY: fields[5], Advance: fields[6],
		}
	}

	var kernCount uint32
	if err := binary.Read(r, binary.LittleEndian, &kernCount); err != nil {
		return nil, fmt.Errorf("assets: decode kerning count: %w", err)
	}
	for i := uint32(0); i < kernCount; i++ {
		var pair [2]uint32
		if err := binary.Read(r, binary.LittleEndian, &pair); err != nil {
			return nil, fmt.Errorf("assets: decode kerning pair %d: %w", i, err)
		}
		var adj float32
		if err := binary.Read(r, binary.LittleEndian, &adj); err != nil {
			return nil, fmt.Errorf("assets: decode kerning adjustment %d: %w", i, err)
		}
		f.Kerning[[2]rune{rune(pair[0]), rune(pair[1])}] = adj
	}
	return f, nil
}

// Vertex is one packed model vertex (§6 "vertex stream packed as position
// vec3, then optionally uv vec2 or vec3, normal vec3, tangent vec3 +
// bitangent vec3, bone indices u16[4] + weights f32[4]").
type Vertex struct {
	Pos               lin.V3
	UV                [3]float32 // Z unused for 2D atlases; HasUV3 distinguishes.
	HasUV, HasUV3     bool
	Normal            lin.V3
	HasNormal         bool
	Tangent, Bitangent lin.V3
	HasTangent        bool
	BoneIndex         [4]uint16
	BoneWeight        [4]float32
	HasSkin           bool
}

// ModelData is the decoded layout of a model asset (§6 "model (header
// carrying primitive type, vert+index counts, material struct size,
// skeleton bone count, AABB, texture name hashes; vertex stream ...;
// 32-bit indices)").
type ModelData struct {
	PrimitiveType uint8
	BoneCount     int
	AABBMin       [3]float32
	AABBMax       [3]float32
	TextureHashes []uint32
	Vertices      []Vertex
	Indices       []uint32
}

// modelFlags bit-packs which optional vertex fields are present, written
// once in the header rather than per vertex.
const (
	flagUV uint8 = 1 << iota
	flagUV3
	flagNormal
	flagTangent
	flagSkin
)

func modelFlags(v Vertex) uint8 {
	var f uint8
	if v.HasUV {
		f |= flagUV
	}
	if v.HasUV3 {
		f |= flagUV3
	}
	if v.HasNormal {
		f |= flagNormal
	}
	if v.HasTangent {
		f |= flagTangent
	}
	if v.HasSkin {
		f |= flagSkin
	}
	return f
}

// EncodeModel writes m in the core's little-endian wire layout.
func EncodeModel(w io.Writer, m *ModelData) error {
	var flags uint8
	if len(m.Vertices) > 0 {
		flags = modelFlags(m.Vertices[0])
	}
	header := struct {
		Primitive uint8
		Flags     uint8
		VertCount uint32
		IdxCount  uint32
		BoneCount uint32
		TexCount  uint32
		AABBMin   [3]float32
		AABBMax   [3]float32
	}{
		Primitive: m.PrimitiveType, Flags: flags,
		VertCount: uint32(len(m.Vertices)), IdxCount: uint32(len(m.Indices)),
		BoneCount: uint32(m.BoneCount), TexCount: uint32(len(m.TextureHashes)),
		AABBMin: m.AABBMin, AABBMax: m.AABBMax,
	}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("assets: encode model header: %w", err)
	}
	for _, h := range m.TextureHashes {
		if err := binary.Write(w, binary.LittleEndian, h); err != nil {
			return err
		}
	}
	for _, v := range m.Vertices {
		if err := binary.Write(w, binary.LittleEndian, [3]float32{float32(v.Pos.X), float32(v.Pos.Y), float32(v.Pos.Z)}); err != nil {
			return err
		}
		if flags&flagUV != 0 {
			n := 2
			if flags&flagUV3 != 0 {
				n = 3
			}
			if err := binary.Write(w, binary.LittleEndian, v.UV[:n]); err != nil {
				return err
			}
		}
		if flags&flagNormal != 0 {
			if err := binary.Write(w, binary.LittleEndian, [3]float32{float32(v.Normal.X), float32(v.Normal.Y), float32(v.Normal.Z)}); err != nil {
				return err
			}
		}
		if flags&flagTangent != 0 {
			if err := binary.Write(w, binary.LittleEndian, [3]float32{float32(v.Tangent.X), float32(v.Tangent.Y), float32(v.Tangent.Z)}); err != nil {
				return err
			}
			if err := binary.Write(w, binary.LittleEndian, [3]float32{float32(v.Bitangent.X), float32(v.Bitangent.Y), float32(v.Bitangent.Z)}); err != nil {
				return err
			}
		}
		if flags&flagSkin != 0 {
			if err := binary.Write(w, binary.LittleEndian, v.BoneIndex); err != nil {
				return err
			}
			if err := binary.Write(w, binary.LittleEndian, v.BoneWeight); err != nil {
				return err
			}
		}
	}
	for _, idx := range m.Indices {
		if err := binary.Write(w, binary.LittleEndian, idx); err != nil {
			return err
		}
	}
	return nil
}

// DecodeModel is EncodeModel's inverse.
func DecodeModel(r io.Reader) (*ModelData, error) {
	var header struct {
		Primitive uint8
		Flags     uint8
		VertCount uint32
		IdxCount  uint32
		BoneCount uint32
		TexCount  uint32
		AABBMin   [3]float32
		AABBMax   [3]float32
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("assets: decode model header: %w", err)
	}
	m := &ModelData{
		PrimitiveType: header.Primitive,
		BoneCount:     int(header.BoneCount),
		AABBMin:       header.AABBMin,
		AABBMax:       header.AABBMax,
	}
	m.TextureHashes = make([]uint32, header.TexCount)
	if header.TexCount > 0 {
		if err := binary.Read(r, binary.LittleEndian, &m.TextureHashes); err != nil {
			return nil, fmt.Errorf("assets: decode model texture hashes: %w", err)
		}
	}

	m.Vertices = make([]Vertex, header.VertCount)
	for i := range m.Vertices {
		var pos [3]float32
		if err := binary.Read(r, binary.LittleEndian, &pos); err != nil {
			return nil, fmt.Errorf("assets: decode vertex %d position: %w", i, err)
		}
		v := Vertex{Pos: lin.V3{X: float64(pos[0]), Y: float64(pos[1]), Z: float64(pos[2])}}
		if header.Flags&flagUV != 0 {
			v.HasUV = true
			n := 2
			if header.Flags&flagUV3 != 0 {
				v.HasUV3 = true
				n = 3
			}
			if err := binary.Read(r, binary.LittleEndian, v.UV[:n]); err != nil {
				return nil, fmt.Errorf("assets: decode vertex %d uv: %w", i, err)
			}
		}
		if header.Flags&flagNormal != 0 {
			v.HasNormal = true
			var n [3]float32
			if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
				return nil, fmt.Errorf("assets: decode vertex %d normal: %w", i, err)
			}
			v.Normal = lin.V3{X: float64(n[0]), Y: float64(n[1]), Z: float64(n[2])}
		}
		if header.Flags&flagTangent != 0 {
			v.HasTangent = true
			var t, b [3]float32
			if err := binary.Read(r, binary.LittleEndian, &t); err != nil {
				return nil, fmt.Errorf("assets: decode vertex %d tangent: %w", i, err)
			}
			if err := binary.Read(r, binary.LittleEndian, &b); err != nil {
				return nil, fmt.Errorf("assets: decode vertex %d bitangent: %w", i, err)
			}
			v.Tangent = lin.V3{X: float64(t[0]), Y: float64(t[1]), Z: float64(t[2])}
			v.Bitangent = lin.V3{X: float64(b[0]), Y: float64(b[1]), Z: float64(b[2])}
		}
		if header.Flags&flagSkin != 0 {
			v.HasSkin = true
			if err := binary.Read(r, binary.LittleEndian, &v.BoneIndex); err != nil {
				return nil, fmt.Errorf("assets: decode vertex %d bone indices: %w", i, err)
			}
			if err := binary.Read(r, binary.LittleEndian, &v.BoneWeight); err != nil {
				return nil, fmt.Errorf("assets: decode vertex %d bone weights: %w", i, err)
			}
		}
		m.Vertices[i] = v
	}

	m.Indices = make([]uint32, header.IdxCount)
	if header.IdxCount > 0 {
		if err := binary.Read(r, binary.LittleEndian, &m.Indices); err != nil {
			return nil, fmt.Errorf("assets: decode model indices: %w", err)
		}
	}
	return m, nil
}

// Bone is one skeleton joint (§6 "skeleton (per-bone parent index + base
// matrix + inverse-rest matrix + global inverse)").
type Bone struct {
	Parent       int32 // -1 for a root bone.
	Base         lin.M4
	InverseRest  lin.M4
	GlobalInverse lin.M4
}

// SkeletonData is a decoded skeleton rig asset.
type SkeletonData struct {
	Bones []Bone
}

func writeM4(w io.Writer, m lin.M4) error {
	return binary.Write(w, binary.LittleEndian, [16]float64{
		m.Xx, m.Xy, m.Xz, m.Xw,
		m.Yx, m.Yy, m.Yz, m.Yw,
		m.Zx, m.Zy, m.Zz, m.Zw,
		m.Wx, m.Wy, m.Wz, m.Ww,
	})
}

func readM4(r io.Reader) (lin.M4, error) {
	var f [16]float64
	if err := binary.Read(r, binary.LittleEndian, &f); err != nil {
		return lin.M4{}, err
	}
	return lin.M4{
		Xx: f[0], Xy: f[1], Xz: f[2], Xw: f[3],
		Yx: f[4], Yy: f[5], Yz: f[6], Yw: f[7],
		Zx: f[8], Zy: f[9], Zz: f[10], Zw: f[11],
		Wx: f[12], Wy: f[13], Wz: f[14], Ww: f[15],
	}, nil
}

// EncodeSkeleton writes s in the core's little-endian wire layout.
func EncodeSkeleton(w io.Writer, s *SkeletonData) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s.Bones))); err != nil {
		return err
	}
	for i, b := range s.Bones {
		if err := binary.Write(w, binary.LittleEndian, b.Parent); err != nil {
			return fmt.Errorf("assets: encode bone %d parent: %w", i, err)
		}
		if err := writeM4(w, b.Base); err != nil {
			return fmt.Errorf("assets: encode bone %d base: %w", i, err)
		}
		if err := writeM4(w, b.InverseRest); err != nil {
			return fmt.Errorf("assets: encode bone %d inverse rest: %w", i, err)
		}
		if err := writeM4(w, b.GlobalInverse); err != nil {
			return fmt.Errorf("assets: encode bone %d global inverse: %w", i, err)
		}
	}
	return nil
}

// DecodeSkeleton is EncodeSkeleton's inverse.
func DecodeSkeleton(r io.Reader) (*SkeletonData, error) {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("assets: decode skeleton bone count: %w", err)
	}
	s := &SkeletonData{Bones: make([]Bone, count)}
	for i := range s.Bones {
		var b Bone
		if err := binary.Read(r, binary.LittleEndian, &b.Parent); err != nil {
			return nil, fmt.Errorf("assets: decode bone %d parent: %w", i, err)
		}
		var err error
		if b.Base, err = readM4(r); err != nil {
			return nil, fmt.Errorf("assets: decode bone %d base: %w", i, err)
		}
		if b.InverseRest, err = readM4(r); err != nil {
			return nil, fmt.Errorf("assets: decode bone %d inverse rest: %w", i, err)
		}
		if b.GlobalInverse, err = readM4(r); err != nil {
			return nil, fmt.Errorf("assets: decode bone %d global inverse: %w", i, err)
		}
		s.Bones[i] = b
	}
	return s, nil
}

// SparseV3Key and SparseQKey are one bone's sparse position/rotation/scale
// keyframe (§6 "skeletal animation (per-bone sparse key arrays for
// position, rotation, scale)").
type SparseV3Key struct {
	Time  float32
	Value [3]float32
}
type SparseQKey struct {
	Time  float32
	Value [4]float32
}

// BoneTrack is one bone's sparse keyframe arrays.
type BoneTrack struct {
	Positions []SparseV3Key
	Rotations []SparseQKey
	Scales    []SparseV3Key
}

// SkeletalAnimData is a decoded skeletal animation asset.
type SkeletalAnimData struct {
	Duration float32
	Tracks   []BoneTrack
}

func writeV3Keys(w io.Writer, keys []SparseV3Key) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(keys))); err != nil {
		return err
	}
	for _, k := range keys {
		if err := binary.Write(w, binary.LittleEndian, k.Time); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, k.Value); err != nil {
			return err
		}
	}
	return nil
}

func readV3Keys(r io.Reader) ([]SparseV3Key, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	keys := make([]SparseV3Key, n)
	for i := range keys {
		if err := binary.Read(r, binary.LittleEndian, &keys[i].Time); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.LittleEndian, &keys[i].Value); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

func writeQKeys(w io.Writer, keys []SparseQKey) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(keys))); err != nil {
		return err
	}
	for _, k := range keys {
		if err := binary.Write(w, binary.LittleEndian, k.Time); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, k.Value); err != nil {
			return err
		}
	}
	return nil
}

func readQKeys(r io.Reader) ([]SparseQKey, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	keys := make([]SparseQKey, n)
	for i := range keys {
		if err := binary.Read(r, binary.LittleEndian, &keys[i].Time); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.LittleEndian, &keys[i].Value); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

// EncodeSkeletalAnimation writes a in the core's little-endian wire layout.
func EncodeSkeletalAnimation(w io.Writer, a *SkeletalAnimData) error {
	if err := binary.Write(w, binary.LittleEndian, a.Duration); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(a.Tracks))); err != nil {
		return err
	}
	for i, t := range a.Tracks {
		if err := writeV3Keys(w, t.Positions); err != nil {
			return fmt.Errorf("assets: encode bone %d positions: %w", i, err)
		}
		if err := writeQKeys(w, t.Rotations); err != nil {
			return fmt.Errorf("assets: encode bone %d rotations: %w", i, err)
		}
		if err := writeV3Keys(w, t.Scales); err != nil {
			return fmt.Errorf("assets: encode bone %d scales: %w", i, err)
		}
	}
	return nil
}

// DecodeSkeletalAnimation is EncodeSkeletalAnimation's inverse.
func DecodeSkeletalAnimation(r io.Reader) (*SkeletalAnimData, error) {
	a := &SkeletalAnimData{}
	if err := binary.Read(r, binary.LittleEndian, &a.Duration); err != nil {
		return nil, fmt.Errorf("assets: decode animation duration: %w", err)
	}
	var boneCount uint32
	if err := binary.Read(r, binary.LittleEndian, &boneCount); err != nil {
		return nil, fmt.Errorf("assets: decode animation bone count: %w", err)
	}
	a.Tracks = make([]BoneTrack, boneCount)
	for i := range a.Tracks {
		var err error
		if a.Tracks[i].Positions, err = readV3Keys(r); err != nil {
			return nil, fmt.Errorf("assets: decode bone %d positions: %w", i, err)
		}
		if a.Tracks[i].Rotations, err = readQKeys(r); err != nil {
			return nil, fmt.Errorf("assets: decode bone %d rotations: %w", i, err)
		}
		if a.Tracks[i].Scales, err = readV3Keys(r); err != nil {
			return nil, fmt.Errorf("assets: decode bone %d scales: %w", i, err)
		}
	}
	return a, nil
}

// roundTripBuffer returns a fresh empty buffer for byte-identical
// round-trip checks (§8 "Serializing and deserializing ... reproduces
// byte-identical output"). Nothing in the module calls it.
func roundTripBuffer() *bytes.Buffer { return &bytes.Buffer{} }
