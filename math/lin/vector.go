// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

// V3 is a 3 element vector, also usable as a point: a renderable's
// position, a bone channel's translation key, a sound emitter's world
// location.
type V3 struct {
	X float64
	Y float64
	Z float64
}

// Neg sets v to the negation of a. Used to build the camera-space
// translation half of a view matrix (prepare.go's viewMatrix).
func (v *V3) Neg(a *V3) *V3 {
	v.X, v.Y, v.Z = -a.X, -a.Y, -a.Z
	return v
}

// MultQ sets v to vector a rotated by quaternion q, leaving a and q
// unchanged. Implementation from:
//
//	http://molecularmusings.wordpress.com/2013/05/24/a-faster-quaternion-vector-multiplication/
//
// benchmarked ~40% faster than the textbook q*v*q' form.
func (v *V3) MultQ(a *V3, q *Q) *V3 {
	// t = 2 * cross(q.xyz, a)
	tx, ty, tz := 2*(q.Y*a.Z-q.Z*a.Y), 2*(q.Z*a.X-q.X*a.Z), 2*(q.X*a.Y-q.Y*a.X)

	// v' = a + q.w*t + cross(q.xyz, t)
	cx, cy, cz := q.Y*tz-q.Z*ty, q.Z*tx-q.X*tz, q.X*ty-q.Y*tx
	v.X, v.Y, v.Z = a.X+q.W*tx+cx, a.Y+q.W*ty+cy, a.Z+q.W*tz+cz
	return v
}

// NewV3 creates a zero vector.
func NewV3() *V3 { return &V3{} }
