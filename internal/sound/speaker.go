// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package sound

import "github.com/galvanized/cage/audio"

// Open starts pulling frames from bus through spk, wiring Bus.Pull as the
// speaker's fill callback (§4.8, §6 "Audio. A speaker service accepts an
// output format ... and pulls floating-point frames through a callback").
func Open(spk audio.Speaker, format audio.Format, bus *Bus) error {
	if err := spk.Init(format); err != nil {
		return err
	}
	return spk.Start(bus.Pull)
}
