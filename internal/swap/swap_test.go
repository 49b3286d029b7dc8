// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package swap

import "testing"

func TestTryWriteThenTryRead(t *testing.T) {
	c := New[int]()
	w, ok := c.TryWrite()
	if !ok {
		t.Fatal("expected a free slot on first write")
	}
	*w.Value() = 42
	w.Release()

	r, ok := c.TryRead()
	if !ok {
		t.Fatal("expected a fresh slot to read")
	}
	if *r.Value() != 42 {
		t.Errorf("got %d, want 42", *r.Value())
	}
	if r.Repeated {
		t.Error("first read should not be flagged as repeated")
	}
}

func TestTryReadReturnsFalseWithNothingWritten(t *testing.T) {
	c := New[int]()
	if _, ok := c.TryRead(); ok {
		t.Error("expected no slot to read before any write")
	}
}

func TestReadRepeatReturnsPreviousSlot(t *testing.T) {
	c := New[int]()
	c.ReadRepeat = true
	w, _ := c.TryWrite()
	*w.Value() = 7
	w.Release()

	r1, _ := c.TryRead()
	r1.Release()

	r2, ok := c.TryRead()
	if !ok {
		t.Fatal("expected read-repeat to return the previous slot")
	}
	if !r2.Repeated {
		t.Error("expected the second read to be flagged as repeated")
	}
	if *r2.Value() != 7 {
		t.Errorf("got %d, want 7 (repeated slot)", *r2.Value())
	}
}

func TestReadRepeatDisabledReturnsFalse(t *testing.T) {
	c := New[int]() // ReadRepeat defaults to false.
	w, _ := c.TryWrite()
	w.Release()
	r, _ := c.TryRead()
	r.Release()

	if _, ok := c.TryRead(); ok {
		t.Error("expected no slot when read-repeat is disabled and nothing new was written")
	}
}

// TestWriterNeverPicksReadersSlot mirrors spec scenario 5: the writer
// cycles 1000 times while the reader continuously holds one slot; the
// writer must never be handed that slot.
func TestWriterNeverPicksReadersSlot(t *testing.T) {
	c := New[int]()

	// Get one slot fresh then held by the reader for the whole test.
	w0, _ := c.TryWrite()
	*w0.Value() = -1
	w0.Release()
	r, ok := c.TryRead()
	if !ok {
		t.Fatal("expected an initial read to claim a held slot")
	}
	heldValue := r.Value()
	_ = heldValue

	for i := 0; i < 1000; i++ {
		w, ok := c.TryWrite()
		if !ok {
			t.Fatalf("iteration %d: writer unexpectedly blocked", i)
		}
		if w.idx == r.idx {
			t.Fatalf("iteration %d: writer was handed the reader's held slot %d", i, w.idx)
		}
		*w.Value() = i
		w.Release()
	}
}

func TestWriteLockedOutUntilReleased(t *testing.T) {
	c := New[int]()
	w, ok := c.TryWrite()
	if !ok {
		t.Fatal("expected the first write to succeed")
	}
	if _, ok := c.TryWrite(); ok {
		t.Error("expected a second concurrent write to fail while the first is unreleased")
	}
	w.Release()
	if _, ok := c.TryWrite(); !ok {
		t.Error("expected a write to succeed once the prior writer released its slot")
	}
}
