// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

import "testing"

func TestMultiplyM4(t *testing.T) {
	m, want :=
		&M4{1, 2, 3, 4,
			5, 6, 7, 8,
			9, 10, 11, 12,
			13, 14, 15, 16},
		&M4{90, 100, 110, 120,
			202, 228, 254, 280,
			314, 356, 398, 440,
			426, 484, 542, 600}
	if !m.Mult(m, m).aeq(want) {
		t.Errorf(format, m.Dump(), want.Dump())
	}
}

func TestTranslateTM(t *testing.T) {
	m, want :=
		&M4{1, 2, 3, 4,
			1, 2, 3, 4,
			1, 2, 3, 4,
			1, 2, 3, 4},
		&M4{1, 2, 3, 4,
			1, 2, 3, 4,
			1, 2, 3, 4,
			7, 14, 21, 28}
	if !m.TranslateTM(1, 2, 3).aeq(want) {
		t.Errorf(format, m.Dump(), want.Dump())
	}
}

func TestScaleMS(t *testing.T) {
	m, want :=
		&M4{1, 2, 3, 4,
			1, 2, 3, 4,
			1, 2, 3, 4,
			1, 2, 3, 4},
		&M4{1, 4, 9, 4,
			1, 4, 9, 4,
			1, 4, 9, 4,
			1, 4, 9, 4}
	if !m.ScaleMS(1, 2, 3).aeq(want) {
		t.Errorf(format, m.Dump(), want.Dump())
	}
}

func TestSetQIdentity(t *testing.T) {
	m, want := &M4{}, M4I
	if !m.SetQ(&Q{0, 0, 0, 1}).aeq(want) {
		t.Errorf(format, m.Dump(), want.Dump())
	}
}

func TestOrthographicM4(t *testing.T) {
	m, want := NewM4().Ortho(2, 3, 4, 5, 6, 7),
		&M4{+2, +0, +0, +0,
			+0, +2, +0, +0,
			+0, +0, -2, +0,
			-5, -9, -13, 1}
	if !m.aeq(want) {
		t.Errorf(format, m.Dump(), want.Dump())
	}
}

// A 90 degree fov gives f == 1, which keeps the expected values simple.
func TestPerspectiveM4(t *testing.T) {
	near, far := 1.0, 100.0
	m, want := NewM4().Persp(90, 1, near, far),
		&M4{1, 0, 0, 0,
			0, 1, 0, 0,
			0, 0, (far + near) / (near - far), -1,
			0, 0, 2 * far * near / (near - far), 0}
	if !m.aeq(want) {
		t.Errorf(format, m.Dump(), want.Dump())
	}
}
