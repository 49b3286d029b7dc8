// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package graphics

import "github.com/galvanized/cage/math/lin"

// aabbCorners returns the 8 corners of a local AABB.
func aabbCorners(box AABB) [8][3]float64 {
	min, max := box.Min, box.Max
	return [8][3]float64{
		{min[0], min[1], min[2]}, {max[0], min[1], min[2]},
		{min[0], max[1], min[2]}, {max[0], max[1], min[2]},
		{min[0], min[1], max[2]}, {max[0], min[1], max[2]},
		{min[0], max[1], max[2]}, {max[0], max[1], max[2]},
	}
}

// transformPoint applies a 4x4 matrix (row-vector convention, as used by
// math/lin) to a point, returning the homogeneous result.
func transformPoint(m *lin.M4, x, y, z float64) (cx, cy, cz, cw float64) {
	cx = x*m.Xx + y*m.Yx + z*m.Zx + m.Wx
	cy = x*m.Xy + y*m.Yy + z*m.Zy + m.Wy
	cz = x*m.Xz + y*m.Yz + z*m.Zz + m.Wz
	cw = x*m.Xw + y*m.Yw + z*m.Zw + m.Ww
	return
}

// InFrustum reports whether the local AABB, transformed by mvp into clip
// space, overlaps the canonical view volume (§4.6 step 3 "Cull...
// frustum-vs-AABB test"). Uses the standard "all 8 corners outside the
// same clip plane" rejection, which is conservative (may keep boxes that
// are actually outside near a frustum corner) but never culls a visible
// object.
func InFrustum(mvp *lin.M4, box AABB) bool {
	corners := aabbCorners(box)
	var outside [6]int
	for _, c := range corners {
		x, y, z, w := transformPoint(mvp, c[0], c[1], c[2])
		if w <= 0 {
			w = 1e-6
		}
		if x < -w {
			outside[0]++
		}
		if x > w {
			outside[1]++
		}
		if y < -w {
			outside[2]++
		}
		if y > w {
			outside[3]++
		}
		if z < -w {
			outside[4]++
		}
		if z > w {
			outside[5]++
		}
	}
	for _, n := range outside {
		if n == len(corners) {
			return false // every corner is outside the same plane: fully culled.
		}
	}
	return true
}
