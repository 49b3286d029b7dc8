// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

// T is a rigid transform: rotation and translation, no scale or shear.
// It is the bind-pose representation for a skeleton bone (§3's rest
// pose) and carries no methods of its own — callers compose it into a
// matrix (M4.SetQ + M4.TranslateTM) or interpolate its parts directly
// (Q.Nlerp, and the plain lerp over Loc) rather than operating on T as
// a unit, since a rigid transform has no single well-defined lerp.
type T struct {
	Loc *V3
	Rot *Q
}
