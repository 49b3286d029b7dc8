// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

import (
	"fmt"
	"testing"
)

func TestAeq(t *testing.T) {
	if !Aeq(0, 0.0000001) {
		t.Error("Aeq should treat values within Epsilon as equal")
	}
	if Aeq(0, 0.0001) {
		t.Error("Aeq should not treat values outside Epsilon as equal")
	}
}

func TestRound(t *testing.T) {
	if f := Round(1.48, 0); f != 1.0 {
		t.Errorf("Round(1.48, 0) = %f, want 1", f)
	}
	if f := Round(1.51, 0); f != 2.0 {
		t.Errorf("Round(1.51, 0) = %f, want 2", f)
	}
	if f := Round(-0.49, 0); f != 0.0 {
		t.Errorf("Round(-0.49, 0) = %f, want 0", f)
	}
}

// ============================================================================
// Test helpers shared by the other test files in this package.

const format = "\ngot\n%s\nwanted\n%s"

func (v *V3) Dump() string { return fmt.Sprintf("%+2.9f", *v) }
func (q *Q) Dump() string  { return fmt.Sprintf("%+2.9f", *q) }

func (m *M4) Dump() string {
	f := "[%+2.9f, %+2.9f, %+2.9f, %+2.9f]\n"
	str := fmt.Sprintf(f, m.Xx, m.Xy, m.Xz, m.Xw)
	str += fmt.Sprintf(f, m.Yx, m.Yy, m.Yz, m.Yw)
	str += fmt.Sprintf(f, m.Zx, m.Zy, m.Zz, m.Zw)
	str += fmt.Sprintf(f, m.Wx, m.Wy, m.Wz, m.Ww)
	return str
}

func (v *V3) eq(a *V3) bool { return v.X == a.X && v.Y == a.Y && v.Z == a.Z }
func (v *V3) aeq(a *V3) bool {
	return Aeq(v.X, a.X) && Aeq(v.Y, a.Y) && Aeq(v.Z, a.Z)
}

func (q *Q) aeq(r *Q) bool {
	return Aeq(q.X, r.X) && Aeq(q.Y, r.Y) && Aeq(q.Z, r.Z) && Aeq(q.W, r.W)
}

func (m *M4) aeq(a *M4) bool {
	return Aeq(m.Xx, a.Xx) && Aeq(m.Xy, a.Xy) && Aeq(m.Xz, a.Xz) && Aeq(m.Xw, a.Xw) &&
		Aeq(m.Yx, a.Yx) && Aeq(m.Yy, a.Yy) && Aeq(m.Yz, a.Yz) && Aeq(m.Yw, a.Yw) &&
		Aeq(m.Zx, a.Zx) && Aeq(m.Zy, a.Zy) && Aeq(m.Zz, a.Zz) && Aeq(m.Zw, a.Zw) &&
		Aeq(m.Wx, a.Wx) && Aeq(m.Wy, a.Wy) && Aeq(m.Wz, a.Wz) && Aeq(m.Ww, a.Ww)
}
