// Copyright © 2013-2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package audio provides the minimal speaker-device contract the sound
// pipeline requires. The engine never talks to OpenAL, WASAPI, or CoreAudio
// directly: it depends only on the Speaker interface below, fed floating
// point frames pulled through a callback.
//
// Package audio is provided as part of the cage 3D engine.
package audio

// Format describes the output stream a Speaker is opened with.
type Format struct {
	SampleRate int // Frames per second. Default 48000, per spec §6.
	Channels   int // Output channel count, eg. 2 for stereo.
}

// DefaultFormat matches the external speaker-service contract's default.
var DefaultFormat = Format{SampleRate: 48000, Channels: 2}

// FillFunc pulls the next block of interleaved floating point frames from
// the mixer. len(out) is a multiple of Format.Channels.
type FillFunc func(out []float32)

// Speaker is the external audio output device. Sound mix (§4.8) opens one
// Speaker for the process lifetime and feeds it from the master bus.
type Speaker interface {
	Init(format Format) error // Get the audio layer up and running.
	Dispose()                 // Close and clean up the audio layer.
	SetGain(gain float64)     // Master volume control: valid values are 0->1.

	// Start begins pulling frames through fill on the device's own
	// callback thread until Dispose is called.
	Start(fill FillFunc) error
}

// New provides a Speaker bound to the given platform backend. Applications
// supply their own backend; see NoAudio for a dependency-free mock used
// when audio initialization fails or is undesired (headless tests, CI).
func New(backend Speaker) Speaker { return backend }

// NoAudio mocks out audio when audio initialization fails or is disabled.
type NoAudio struct{}

func (na *NoAudio) Init(format Format) error  { return nil }
func (na *NoAudio) Dispose()                  {}
func (na *NoAudio) SetGain(gain float64)      {}
func (na *NoAudio) Start(fill FillFunc) error { return nil }
