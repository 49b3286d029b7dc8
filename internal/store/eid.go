// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package store implements the structure-of-arrays entity/component store
// queried by both the graphics and sound pipelines (spec §3). Entities are
// created and mutated only on the control thread; emit snapshots are POD
// copies taken from these tables once per control tick.
package store

import "log/slog"

// EID is an entity identifier comprised of an index used as a live
// reference to component data, and an edition used to track when ids are
// deleted and reused. Entity ids are used as array indices for component
// data and so do not change value over their lifetime.
type EID uint32

// Divide the entity bits into an index id and an edition. The edition
// bits track when an entity has been deleted.
const idBits = 20                     // entity array index: 1048575.
const edBits = 12                     // entity edition: 4096.
const maxEntityID = (1 << idBits) - 1 // mask and max active entities.
const maxEdition = (1 << edBits) - 1  // mask and max dispose/reuse count.

// Index is the value used for array lookups.
func (e EID) Index() uint32 { return uint32(e & maxEntityID) }

// Edition returns the value that tracks whether the id is still valid.
func (e EID) Edition() uint16 { return uint16((e >> idBits) & maxEdition) }

// eids see: http://bitsquid.blogspot.ca/2014/08/building-data-oriented-entity-system.html

// eids handles creation and deletion of entity identifiers, keeping a
// bounded set of unique ids suitable for use as dense array indices.
type eids struct {
	editions []uint16 // Tracks currently used entities. Grows as needed.
	free     []uint32 // Entities ready for reuse.
}

// maxFree starts recycling ids once the free list grows beyond this size.
const maxFree = 1 << (edBits - 1) // recycle once free exceeds 2048.

// create returns a new entity id, or 0 if every identifier is in use.
func (ids *eids) create() EID {
	id := uint32(0)
	if len(ids.free) > maxFree {
		id = ids.free[0]
		ids.free = append(ids.free[:0], ids.free[1:]...)
	} else {
		ids.editions = append(ids.editions, 0)
		if id = uint32(len(ids.editions) - 1); id > maxEntityID {
			if len(ids.free) == 0 {
				slog.Error("entity identifiers exhausted", "max", maxEntityID+1)
				return 0
			}
			id = ids.free[0]
			ids.free = append(ids.free[:0], ids.free[1:]...)
		}
	}
	return EID(id | uint32(ids.editions[id])<<idBits)
}

// valid returns true for entities that have been created and not disposed.
func (ids *eids) valid(e EID) bool {
	idx := e.Index()
	if idx >= uint32(len(ids.editions)) {
		return false
	}
	return ids.editions[idx] == e.Edition()
}

// dispose marks an entity as no longer valid and queues its id for reuse.
func (ids *eids) dispose(e EID) {
	idx := e.Index()
	ids.editions[idx]++
	ids.free = append(ids.free, idx)
}
