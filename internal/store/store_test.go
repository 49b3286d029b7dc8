// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package store

import "testing"

func TestEmptyValid(t *testing.T) {
	ids := &eids{}
	if ids.valid(0) {
		t.Errorf("Expecting invalid for unallocated entity")
	}
}

func TestFirstIsZero(t *testing.T) {
	ids := &eids{}
	if id := ids.create(); id != 0 {
		t.Errorf("Expecting first eid to be 0")
	}
}

func TestMaxCreateWithDispose(t *testing.T) {
	ids := &eids{}
	for cnt := 0; cnt <= maxEntityID; cnt++ {
		ids.create() // create max entities.
	}
	for cnt := 0; cnt < 2*maxFree; cnt++ {
		ids.dispose(EID(cnt)) // should not crash.
	}
	if len(ids.free) != 2*maxFree {
		t.Errorf("Expected freelist %d to be %d", len(ids.free), 2*maxFree)
	}
	for cnt := 0; cnt < 2*maxFree; cnt++ {
		if id := ids.create(); id == 0 {
			t.Errorf("Expecting to reuse disposed entity ids")
		}
	}
}

func TestCreateDispose(t *testing.T) {
	s := New()
	e := s.Create()
	if !s.Valid(e) {
		t.Fatal("freshly created entity should be valid")
	}
	s.Dispose(e)
	if s.Valid(e) {
		t.Fatal("disposed entity should no longer be valid")
	}
}

func TestTransformHistoryDefaultsToCurrent(t *testing.T) {
	s := New()
	e := s.Create()
	cur, hist, ok := s.Transform(e)
	if !ok {
		t.Fatal("expected valid entity")
	}
	if cur != hist {
		t.Errorf("history should equal current before any write: %+v vs %+v", cur, hist)
	}
	s.SetTransform(e, Transform{Pos: cur.Pos, Scale: 2})
	cur2, hist2, _ := s.Transform(e)
	if hist2 != cur {
		t.Errorf("history should be the previous current: got %+v want %+v", hist2, cur)
	}
	if cur2.Scale != 2 {
		t.Errorf("current should reflect the latest write")
	}
}

func TestRenderAndTextAreMutuallyExclusive(t *testing.T) {
	s := New()
	e := s.Create()
	if err := s.SetRender(e, Render{Model: 1}); err != nil {
		t.Fatalf("unexpected error setting render: %v", err)
	}
	if err := s.SetText(e, Text{Font: 1}); err == nil {
		t.Fatal("expected an error attaching text to an entity that already renders a model")
	}
	if _, ok := s.Text(e); ok {
		t.Error("text component should not have been attached")
	}
}

func TestShadowmapRejectsDecreasingCascadeSplits(t *testing.T) {
	s := New()
	e := s.Create()
	err := s.SetShadowmap(e, Shadowmap{CascadeSplits: []float64{10, 40, 25}})
	if err == nil {
		t.Fatal("expected an error for non-monotonic cascade splits")
	}
}

func TestComponentQueriesReconstituteEditions(t *testing.T) {
	s := New()
	first := s.Create()
	s.Dispose(first)
	e := s.Create() // reuses first's index with a bumped edition.
	s.SetLight(e, Light{Kind: Point})
	lights := s.Lights()
	if len(lights) != 1 || lights[0] != e {
		t.Errorf("expected Lights() to report %v, got %v", e, lights)
	}
}
