// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package lin is the CPU-side linear algebra used by cage's transform
// pipeline: camera view/projection matrices, bone poses, and the rigid
// rotate+translate composition that interpolates renderable and sound
// emitter transforms between simulation ticks (§4.6, §4.7).
//
// It is deliberately narrow rather than general purpose: quaternions
// own all rotation, there is no 3x3 matrix and no 4-element vector, and
// there is no general matrix inverse. The one place a general inverse
// would otherwise be needed — building a camera's view matrix from its
// world transform — instead inverts the rigid transform directly
// (invert the rotation, rotate the negated position), which is cheaper
// than a general inverse and is the only inverse the engine ever needs.
package lin

import "math"

// Epsilon bounds how far two floats may drift apart due to accumulated
// rounding error and still be treated as equal by Aeq.
const Epsilon = 0.000001

// Aeq (~=) reports whether a and b differ by less than Epsilon. Used in
// place of == wherever direct float comparison would spuriously fail,
// such as comparing two transparent draws' camera distances during the
// stable sort over render.Bucket (render/queue.go).
func Aeq(a, b float64) bool { return math.Abs(a-b) < Epsilon }

// Round rounds val to prec decimal places, halves away from zero, so a
// derived float is
// reproducible run to run — the level-of-detail selector needs a stable
// distance boundary, not merely a close one.
func Round(val float64, prec int) float64 {
	pow := math.Pow(10, float64(prec))
	if val < 0 {
		return float64(int64(val*pow-0.5)) / pow
	}
	return float64(int64(val*pow+0.5)) / pow
}
