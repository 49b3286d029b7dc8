// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package assets

import (
	"log/slog"
	"time"
)

// maxDrainAttempts bounds how many times app-finalize polls for
// outstanding handles before giving up and tearing down anyway, grounded
// on the original engine's assetSyncAttempts counter (SPEC_FULL.md §D.2).
const maxDrainAttempts = 50

// Drain blocks until every scheme's cache is empty or maxDrainAttempts
// polls have elapsed, whichever comes first, sleeping briefly between
// polls. Called once during app-finalize so in-flight GPU/audio handles
// release before their backing context goes away.
func (m *Manager) Drain() {
	for attempt := 0; attempt < maxDrainAttempts; attempt++ {
		if m.outstanding() == 0 {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	slog.Warn("assets: drain gave up with handles still outstanding", "attempts", maxDrainAttempts, "outstanding", m.outstanding())
}

func (m *Manager) outstanding() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := 0
	for _, t := range m.tables {
		t.mu.Lock()
		total += len(t.entries)
		t.mu.Unlock()
	}
	return total
}
