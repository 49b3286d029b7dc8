// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

import (
	"math"
	"testing"
)

func TestNegV3(t *testing.T) {
	v, want := &V3{}, &V3{-1, 2, -3}
	if v.Neg(&V3{1, -2, 3}); !v.eq(want) {
		t.Errorf(format, v.Dump(), want.Dump())
	}
}

func TestMultQIdentity(t *testing.T) {
	v, q, want := &V3{}, &Q{0, 0, 0, 1}, &V3{1, 2, 3}
	if v.MultQ(&V3{1, 2, 3}, q); !v.eq(want) {
		t.Errorf(format, v.Dump(), want.Dump())
	}
}

// Rotating X by 90 degrees about Z should give Y.
func TestMultQRotate(t *testing.T) {
	q := &Q{}
	s := 1 / math.Sqrt2
	q.X, q.Y, q.Z, q.W = 0, 0, s, s // 90 degrees about Z.
	v, want := &V3{}, &V3{0, 1, 0}
	if v.MultQ(&V3{1, 0, 0}, q); !v.aeq(want) {
		t.Errorf(format, v.Dump(), want.Dump())
	}
}
