// Copyright © 2013-2024 Galvanized Logic Inc.

package lin

import "testing"

func TestInverseQ(t *testing.T) {
	q, qi, want := &Q{0.2, 0.4, 0.5, 0.7}, &Q{}, &Q{-0.2, -0.4, -0.5, 0.7}
	if !qi.Inv(q).aeq(want) {
		t.Errorf(format, qi.Dump(), want.Dump())
	}
}

func TestDotQ(t *testing.T) {
	q, want := &Q{1, 2, 3, 4}, 30.0
	if got := q.Dot(q); got != want {
		t.Errorf("Dot(q) = %f, want %f", got, want)
	}
}

func TestNlerpQ(t *testing.T) {
	a, b := (&Q{1, 2, 3, 4}).unit(), (&Q{8, 2, 6, 10}).unit()
	q := &Q{}
	q.Nlerp(a, b, 0.5)
	if !Aeq(q.len(), 1) {
		t.Errorf("Nlerp result should be unit length, got len %f", q.len())
	}

	// ratio 0 and 1 should return the endpoints unchanged.
	if !q.Nlerp(a, b, 0).aeq(a) {
		t.Errorf(format, q.Dump(), a.Dump())
	}
	if !q.Nlerp(a, b, 1).aeq(b) {
		t.Errorf(format, q.Dump(), b.Dump())
	}
}

func TestNewQI(t *testing.T) {
	q, want := NewQI(), &Q{0, 0, 0, 1}
	if !q.eq(want) {
		t.Errorf(format, q.Dump(), want.Dump())
	}
}

func (q *Q) eq(r *Q) bool { return q.X == r.X && q.Y == r.Y && q.Z == r.Z && q.W == r.W }
