// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package swap implements the triple-buffer swap controller that hands
// emit snapshots from a single producer (control thread) to a single
// consumer (a prepare thread) without either ever blocking (§4.2).
//
// The pattern — three pre-allocated slots, atomically rotated indices, a
// "freshest fully-written slot" pointer — is the same shape as a game
// snapshot pool; this controller adds the explicit lock-scoped
// tryWrite/tryRead contract and optional read-repeat the spec calls for.
package swap

import "sync"

// Controller hands T values from one writer to one reader across three
// buffered slots. The zero value is not usable; use New.
type Controller[T any] struct {
	mu   sync.Mutex
	buf  [3]T
	wIdx int // slot currently locked for writing, -1 if none.
	rIdx int // slot currently locked for reading, -1 if none.
	fresh int // freshest fully-written, unread slot, -1 if none.
	last int // last slot handed to the reader, -1 if never read; used by ReadRepeat.

	// ReadRepeat, when true, makes tryRead return the previously read
	// slot again instead of "none" when no new slot has been written
	// since (§4.2: sound prepare/mix wants this, graphics prepare does
	// not — Open Question 2).
	ReadRepeat bool
}

// New returns a ready Controller with all three slots zero-valued.
func New[T any]() *Controller[T] {
	return &Controller[T]{wIdx: -1, rIdx: -1, fresh: -1, last: -1}
}

// WriteSlot is a locked write handle into one buffer slot. The zero
// value is not usable.
type WriteSlot[T any] struct {
	c   *Controller[T]
	idx int
}

// Value returns a pointer to the locked slot's buffer for the writer to
// populate in place.
func (w *WriteSlot[T]) Value() *T { return &w.c.buf[w.idx] }

// Release publishes the slot as the freshest available and frees the
// write lock. Safe to call exactly once; guaranteed to run on every exit
// path from the writer's perspective via defer.
func (w *WriteSlot[T]) Release() {
	w.c.mu.Lock()
	w.c.fresh = w.idx
	w.c.wIdx = -1
	w.c.mu.Unlock()
}

// ReadSlot is a locked read handle into one buffer slot.
type ReadSlot[T any] struct {
	c        *Controller[T]
	idx      int
	Repeated bool // true when this slot is a ReadRepeat of the prior read.
}

// Value returns a pointer to the locked slot's buffer for the reader to
// consume.
func (r *ReadSlot[T]) Value() *T { return &r.c.buf[r.idx] }

// Release frees the read lock. Does not discard the slot's data — a
// subsequent ReadRepeat tryRead may still return the same slot.
func (r *ReadSlot[T]) Release() {
	r.c.mu.Lock()
	r.c.rIdx = -1
	r.c.mu.Unlock()
}

// TryWrite returns a locked slot distinct from whatever slot the reader
// currently holds, or ok=false if the writer is already holding a slot
// (callers must not call TryWrite again before Release).
func (c *Controller[T]) TryWrite() (slot *WriteSlot[T], ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.wIdx != -1 {
		return nil, false
	}
	idx := -1
	for i := 0; i < 3; i++ {
		if i == c.rIdx {
			continue
		}
		if i == c.fresh {
			continue // prefer not to stomp on unread data when another slot is free.
		}
		idx = i
		break
	}
	if idx == -1 {
		for i := 0; i < 3; i++ {
			if i != c.rIdx {
				idx = i
				break
			}
		}
	}
	if idx == -1 {
		return nil, false // unreachable with 3 slots and at most one reader.
	}
	c.wIdx = idx
	return &WriteSlot[T]{c: c, idx: idx}, true
}

// TryRead returns the freshest fully-written slot not yet consumed. With
// ReadRepeat set, returns the previously read slot again if no new data
// has arrived; otherwise returns ok=false.
func (c *Controller[T]) TryRead() (slot *ReadSlot[T], ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rIdx != -1 {
		return nil, false
	}
	if c.fresh != -1 {
		idx := c.fresh
		c.fresh = -1
		c.rIdx = idx
		c.last = idx
		return &ReadSlot[T]{c: c, idx: idx}, true
	}
	if c.ReadRepeat && c.last != -1 {
		idx := c.last
		c.rIdx = idx
		return &ReadSlot[T]{c: c, idx: idx, Repeated: true}, true
	}
	return nil, false
}
