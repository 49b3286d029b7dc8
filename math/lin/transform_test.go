// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

import "testing"

// T carries no methods of its own; exercise it the way the graphics
// pipeline does — compose a model matrix from a bind pose's rotation,
// scale and location (§4.6's buildInstance), then invert a camera's
// rigid transform the way viewMatrix does.
func TestComposeFromT(t *testing.T) {
	pose := T{Loc: &V3{5, 0, 0}, Rot: NewQI()}

	m := NewM4I()
	m.SetQ(pose.Rot)
	m.ScaleMS(2, 2, 2)
	m.TranslateTM(pose.Loc.X, pose.Loc.Y, pose.Loc.Z)

	// TranslateTM applies location through the already-scaled axes
	// (it left-multiplies), so a 2x scale doubles the baked-in location.
	want := &M4{2, 0, 0, 0, 0, 2, 0, 0, 0, 0, 2, 0, 10, 0, 0, 1}
	if !m.aeq(want) {
		t.Errorf(format, m.Dump(), want.Dump())
	}
}

func TestInvertRigidTransform(t *testing.T) {
	pos := V3{3, 0, 0}
	rot := Q{0, 0, 0, 1}

	var invRot Q
	invRot.Inv(&rot)
	var negPos, camSpacePos V3
	negPos.Neg(&pos)
	camSpacePos.MultQ(&negPos, &invRot)

	want := &V3{-3, 0, 0}
	if !camSpacePos.eq(want) {
		t.Errorf(format, camSpacePos.Dump(), want.Dump())
	}
}
