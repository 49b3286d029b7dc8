// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package assets

import (
	"bytes"
	"testing"

	"github.com/galvanized/cage/audio"
	"github.com/galvanized/cage/math/lin"
)

func TestManagerCachesAndRefcounts(t *testing.T) {
	m := New()
	loads := 0
	m.Register(SchemeRaw, "io", func(name string) (interface{}, error) {
		loads++
		return name + "-loaded", nil
	})

	h1, err := m.Get(SchemeRaw, "rocks")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h2, err := m.Get(SchemeRaw, "rocks")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loads != 1 {
		t.Fatalf("expected a single load, got %d", loads)
	}
	if m.RefCount(SchemeRaw, "rocks") != 2 {
		t.Fatalf("expected refcount 2, got %d", m.RefCount(SchemeRaw, "rocks"))
	}

	h1.Release()
	if m.RefCount(SchemeRaw, "rocks") != 1 {
		t.Fatalf("expected refcount 1 after one release, got %d", m.RefCount(SchemeRaw, "rocks"))
	}
	h2.Release()
	if m.RefCount(SchemeRaw, "rocks") != 0 {
		t.Fatalf("expected refcount 0 after final release, got %d", m.RefCount(SchemeRaw, "rocks"))
	}
}

func TestManagerGetUnknownSchemeFails(t *testing.T) {
	m := New()
	if _, err := m.Get(Scheme("bogus"), "x"); err == nil {
		t.Fatal("expected an error for an unregistered scheme")
	}
}

func TestDrainReturnsOnceEmpty(t *testing.T) {
	m := New()
	m.Register(SchemeRaw, "io", func(name string) (interface{}, error) { return name, nil })
	h, _ := m.Get(SchemeRaw, "a")
	h.Release()
	m.Drain() // should return immediately, nothing outstanding.
}

func TestFontAtlasRoundTrip(t *testing.T) {
	f := &FontAtlas{
		LineHeight: 18, MaxGlyphW: 12, MaxGlyphH: 14, AtlasW: 512, AtlasH: 512,
		Glyphs: []Glyph{
			{Char: 'A', U: 0, V: 0, W: 0.02, H: 0.03, BearingX: 1, BearingY: 2, Advance: 10},
			{Char: 'B', U: 0.02, V: 0, W: 0.02, H: 0.03, BearingX: 1, BearingY: 2, Advance: 11},
		},
		Kerning: map[[2]rune]float32{{'A', 'B'}: -0.5},
	}
	var buf bytes.Buffer
	if err := EncodeFontAtlas(&buf, f); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeFontAtlas(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.LineHeight != f.LineHeight || len(got.Glyphs) != len(f.Glyphs) {
		t.Fatalf("round-trip mismatch: %+v vs %+v", got, f)
	}
	if got.Kerning[[2]rune{'A', 'B'}] != -0.5 {
		t.Fatalf("expected kerning pair preserved, got %v", got.Kerning)
	}

	var buf2 bytes.Buffer
	if err := EncodeFontAtlas(&buf2, got); err != nil {
		t.Fatalf("re-encode: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), buf2.Bytes()) {
		t.Fatal("re-encoding a decoded atlas should reproduce identical bytes")
	}
}

func TestModelRoundTrip(t *testing.T) {
	m := &ModelData{
		PrimitiveType: 0,
		BoneCount:     4,
		AABBMin:       [3]float32{-1, -1, -1},
		AABBMax:       [3]float32{1, 1, 1},
		TextureHashes: []uint32{0xDEADBEEF, 0xCAFEBABE},
		Vertices: []Vertex{
			{
				Pos: lin.V3{X: 0, Y: 1, Z: 2}, HasUV: true, UV: [3]float32{0.1, 0.2, 0},
				HasNormal: true, Normal: lin.V3{X: 0, Y: 1, Z: 0},
				HasSkin: true, BoneIndex: [4]uint16{0, 1, 2, 3}, BoneWeight: [4]float32{1, 0, 0, 0},
			},
			{
				Pos: lin.V3{X: 1, Y: 0, Z: 0}, HasUV: true, UV: [3]float32{0.3, 0.4, 0},
				HasNormal: true, Normal: lin.V3{X: 0, Y: 1, Z: 0},
				HasSkin: true, BoneIndex: [4]uint16{0, 1, 2, 3}, BoneWeight: [4]float32{0.5, 0.5, 0, 0},
			},
		},
		Indices: []uint32{0, 1, 0},
	}
	var buf bytes.Buffer
	if err := EncodeModel(&buf, m); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeModel(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.BoneCount != m.BoneCount || len(got.Vertices) != len(m.Vertices) || len(got.Indices) != len(m.Indices) {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
	if got.Vertices[1].BoneWeight != m.Vertices[1].BoneWeight {
		t.Fatalf("expected bone weights preserved, got %+v", got.Vertices[1])
	}

	var buf2 bytes.Buffer
	if err := EncodeModel(&buf2, got); err != nil {
		t.Fatalf("re-encode: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), buf2.Bytes()) {
		t.Fatal("re-encoding a decoded model should reproduce identical bytes")
	}
}

func TestSkeletonRoundTrip(t *testing.T) {
	s := &SkeletonData{Bones: []Bone{
		{Parent: -1, Base: *lin.M4I, InverseRest: *lin.M4I, GlobalInverse: *lin.M4I},
		{Parent: 0, Base: *lin.M4I, InverseRest: *lin.M4I, GlobalInverse: *lin.M4I},
	}}
	var buf bytes.Buffer
	if err := EncodeSkeleton(&buf, s); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeSkeleton(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Bones) != 2 || got.Bones[1].Parent != 0 {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
}

func TestSkeletalAnimationRoundTrip(t *testing.T) {
	a := &SkeletalAnimData{
		Duration: 2.5,
		Tracks: []BoneTrack{
			{
				Positions: []SparseV3Key{{Time: 0, Value: [3]float32{0, 0, 0}}, {Time: 1, Value: [3]float32{1, 0, 0}}},
				Rotations: []SparseQKey{{Time: 0, Value: [4]float32{0, 0, 0, 1}}},
				Scales:    nil,
			},
		},
	}
	var buf bytes.Buffer
	if err := EncodeSkeletalAnimation(&buf, a); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeSkeletalAnimation(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Duration != a.Duration || len(got.Tracks) != 1 || len(got.Tracks[0].Positions) != 2 {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
}

func TestDecodeAudioDataWidensToFloat32(t *testing.T) {
	raw := []byte{0x00, 0x40, 0x00, 0xC0} // int16(0x4000)=16384, int16(0xC000)=-16384
	d := &audio.Data{Name: "blip", Channels: 1, SampleBits: 16, Frequency: 44100, DataSize: uint32(len(raw)), AudioData: raw}
	ds, err := decodeAudioData(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ds.pcm) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(ds.pcm))
	}
	if ds.pcm[0] <= 0 || ds.pcm[1] >= 0 {
		t.Fatalf("expected opposite-sign samples, got %v", ds.pcm)
	}
}
