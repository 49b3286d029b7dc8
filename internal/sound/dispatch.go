// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package sound

import (
	"sync"

	"github.com/galvanized/cage/audio"
)

// Bus owns the master mix buffer the speaker device callback pulls from
// (§4.8 "Mix ... mix all listeners into the master bus; write into the
// speaker device buffer"). The sound thread writes the latest mixed
// frames via Publish; the speaker's own callback thread reads them via
// Pull, so the two sides hand off through a mutex rather than the
// snapshot swap-buffer (the speaker callback cadence is driven by the
// device, not the control scheduler).
type Bus struct {
	mu     sync.Mutex
	frames []float32
	cursor int
}

// NewBus returns an empty master bus.
func NewBus() *Bus { return &Bus{} }

// Publish replaces the bus's current frame block, called once per sound
// mix tick (40 Hz, §4.2) after every listener has been mixed down.
func (b *Bus) Publish(frames []float32) {
	b.mu.Lock()
	b.frames = append(b.frames[:0], frames...)
	b.cursor = 0
	b.mu.Unlock()
}

// Pull implements audio.FillFunc: it drains the most recently published
// block, repeating silence once exhausted rather than blocking the
// device's callback thread (an underrun is the documented watchdog signal,
// §5, not a pipeline-level error).
func (b *Bus) Pull(out []float32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	if b.cursor < len(b.frames) {
		n = copy(out, b.frames[b.cursor:])
		b.cursor += n
	}
	for ; n < len(out); n++ {
		out[n] = 0
	}
}

// MixFrame mixes every listener's active, capped voices into a single
// interleaved frame block matching format and publishes it to bus (§4.8
// "resample and sum into the listener's channel layout; mix all listeners
// into the master bus"). source resolves each voice's sound asset to its
// decoded samples; voices whose asset isn't resolvable are silently
// skipped for this tick (the asset is presumably still loading). This
// core assumes source already delivers PCM at format's sample rate and
// channel count — resampling mismatched source material is a mixer
// backend concern, not this pipeline's.
func MixFrame(listeners []ListenerState, source SoundSource, format audio.Format, frameCount int, bus *Bus) {
	out := make([]float32, frameCount*format.Channels)
	for _, ls := range listeners {
		for _, vm := range Mix(ls) {
			sumVoice(out, vm, source, format, frameCount)
		}
	}
	bus.Publish(out)
}

func sumVoice(out []float32, vm VoiceMix, source SoundSource, format audio.Format, frameCount int) {
	h := vm.handle
	_, channels, pcm, ok := source.Samples(h.Sound)
	if !ok || channels <= 0 || len(pcm) == 0 {
		return
	}
	srcFrames := len(pcm) / channels
	for i := 0; i < frameCount; i++ {
		if h.Playhead >= srcFrames {
			if !h.Loop {
				return
			}
			h.Playhead = 0
		}
		for c := 0; c < format.Channels; c++ {
			srcC := c % channels
			out[i*format.Channels+c] += pcm[h.Playhead*channels+srcC] * float32(vm.Gain)
		}
		h.Playhead++
	}
}
