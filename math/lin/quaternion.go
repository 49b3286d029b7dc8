// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

import "math"

// Q is a unit quaternion: a rotation, tracked in preference to a matrix
// or an axis-angle pair because it interpolates (Nlerp) without the
// gimbal or shortest-path problems those representations have.
type Q struct {
	X float64
	Y float64
	Z float64
	W float64
}

// Inv sets q to the inverse of r. For a unit quaternion the inverse is
// its conjugate. Used to invert a camera's world rotation when building
// its view matrix.
func (q *Q) Inv(r *Q) *Q {
	q.X, q.Y, q.Z, q.W = -r.X, -r.Y, -r.Z, r.W
	return q
}

// scale multiplies q's elements by s in place.
func (q *Q) scale(s float64) *Q {
	q.X, q.Y, q.Z, q.W = q.X*s, q.Y*s, q.Z*s, q.W*s
	return q
}

// Dot returns the dot product of q and r. q.Dot(q) is q's length squared.
func (q *Q) Dot(r *Q) float64 { return q.X*r.X + q.Y*r.Y + q.Z*r.Z + q.W*r.W }

// len returns q's length.
func (q *Q) len() float64 { return math.Sqrt(q.Dot(q)) }

// unit normalizes q to length 1, left unchanged if its length is zero.
func (q *Q) unit() *Q {
	if l := q.len(); l != 0 {
		q.scale(1 / l)
	}
	return q
}

// Nlerp sets q to the normalized linear interpolation between r and s,
// ratio expected in [0,1]. This is an approximation of spherical
// interpolation, cheap enough for per-tick use; callers needing true
// constant angular velocity (bone rotations, §3) implement slerp
// themselves using Dot as the angle test.
func (q *Q) Nlerp(r, s *Q, ratio float64) *Q {
	q.X = (s.X-r.X)*ratio + r.X
	q.Y = (s.Y-r.Y)*ratio + r.Y
	q.Z = (s.Z-r.Z)*ratio + r.Z
	q.W = (s.W-r.W)*ratio + r.W
	return q.unit()
}

// NewQI creates a new identity quaternion.
func NewQI() *Q { return &Q{W: 1} }
