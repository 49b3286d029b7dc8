// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package assets

import (
	"fmt"

	"github.com/galvanized/cage/audio"
	"github.com/galvanized/cage/internal/sound"
	"github.com/galvanized/cage/internal/store"
)

// decodedSound is the sound scheme's cached value: PCM already widened to
// float32 in [-1,1] so the mixer never touches sample-width conversion on
// the hot path (§4.8 "Mix").
type decodedSound struct {
	rate     int
	channels int
	pcm      []float32
}

// SoundResolver implements sound.SoundSource on top of a Manager, decoding
// the sound scheme's raw PCM payload (audio.Data, the teacher's wire
// shape for sample-card upload) once per asset and caching the widened
// float32 buffer.
type SoundResolver struct {
	mgr *Manager
}

// NewSoundResolver registers the sound scheme's loader against mgr, using
// fetch to read the named asset's raw encoded bytes, and returns a
// sound.SoundSource backed by it.
func NewSoundResolver(mgr *Manager, fetch func(name string) (*audio.Data, error)) *SoundResolver {
	r := &SoundResolver{mgr: mgr}
	mgr.Register(SchemeSound, "sound", func(name string) (interface{}, error) {
		d, err := fetch(name)
		if err != nil {
			return nil, err
		}
		return decodeAudioData(d)
	})
	return r
}

// decodeAudioData widens d's raw sample bytes to float32 PCM. Only 16-bit
// signed little-endian source data is supported, matching the external
// speaker service's default ingest format (§6); anything else is rejected
// rather than silently mis-decoded.
func decodeAudioData(d *audio.Data) (*decodedSound, error) {
	if d.SampleBits != 16 {
		return nil, fmt.Errorf("assets: sound %q: unsupported sample width %d bits", d.Name, d.SampleBits)
	}
	n := len(d.AudioData) / 2
	pcm := make([]float32, n)
	for i := 0; i < n; i++ {
		lo := uint16(d.AudioData[i*2])
		hi := uint16(d.AudioData[i*2+1])
		sample := int16(lo | hi<<8)
		pcm[i] = float32(sample) / 32768
	}
	return &decodedSound{rate: int(d.Frequency), channels: int(d.Channels), pcm: pcm}, nil
}

// Samples implements sound.SoundSource.
func (r *SoundResolver) Samples(id store.AssetID) (rate int, channels int, pcm []float32, ok bool) {
	h, err := r.mgr.Get(SchemeSound, assetName(id))
	if err != nil {
		return 0, 0, nil, false
	}
	defer h.Release()
	ds, ok := h.Value().(*decodedSound)
	if !ok {
		return 0, 0, nil, false
	}
	return ds.rate, ds.channels, ds.pcm, true
}

var _ sound.SoundSource = (*SoundResolver)(nil)
