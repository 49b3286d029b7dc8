// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

import "math"

// M4 is a 4x4, row-major matrix used for model/view/projection transforms
// and bone poses. Memory layout matches what a GPU backend expects when
// the struct is passed through as 16 contiguous float64s:
//
//	Xx Xy Xz Xw   X-axis
//	Yx Yy Yz Yw   Y-axis
//	Zx Zy Zz Zw   Z-axis
//	Wx Wy Wz Ww   translation in Wx,Wy,Wz; Ww == 1
//
// There is deliberately no general inverse: the engine only ever needs
// to invert a rigid (rotation+translation) transform, which is done
// directly in terms of V3/Q (see internal/graphics/prepare.go).
type M4 struct {
	Xx, Xy, Xz, Xw float64
	Yx, Yy, Yz, Yw float64
	Zx, Zy, Zz, Zw float64
	Wx, Wy, Wz, Ww float64
}

// M4I is a reference identity matrix. Never mutate it.
var M4I = &M4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// Mult sets m to the product of l and r (l applied first). Safe to use
// m as one or both of l, r.
func (m *M4) Mult(l, r *M4) *M4 {
	xx := l.Xx*r.Xx + l.Xy*r.Yx + l.Xz*r.Zx + l.Xw*r.Wx
	xy := l.Xx*r.Xy + l.Xy*r.Yy + l.Xz*r.Zy + l.Xw*r.Wy
	xz := l.Xx*r.Xz + l.Xy*r.Yz + l.Xz*r.Zz + l.Xw*r.Wz
	xw := l.Xx*r.Xw + l.Xy*r.Yw + l.Xz*r.Zw + l.Xw*r.Ww
	yx := l.Yx*r.Xx + l.Yy*r.Yx + l.Yz*r.Zx + l.Yw*r.Wx
	yy := l.Yx*r.Xy + l.Yy*r.Yy + l.Yz*r.Zy + l.Yw*r.Wy
	yz := l.Yx*r.Xz + l.Yy*r.Yz + l.Yz*r.Zz + l.Yw*r.Wz
	yw := l.Yx*r.Xw + l.Yy*r.Yw + l.Yz*r.Zw + l.Yw*r.Ww
	zx := l.Zx*r.Xx + l.Zy*r.Yx + l.Zz*r.Zx + l.Zw*r.Wx
	zy := l.Zx*r.Xy + l.Zy*r.Yy + l.Zz*r.Zy + l.Zw*r.Wy
	zz := l.Zx*r.Xz + l.Zy*r.Yz + l.Zz*r.Zz + l.Zw*r.Wz
	zw := l.Zx*r.Xw + l.Zy*r.Yw + l.Zz*r.Zw + l.Zw*r.Ww
	wx := l.Wx*r.Xx + l.Wy*r.Yx + l.Wz*r.Zx + l.Ww*r.Wx
	wy := l.Wx*r.Xy + l.Wy*r.Yy + l.Wz*r.Zy + l.Ww*r.Wy
	wz := l.Wx*r.Xz + l.Wy*r.Yz + l.Wz*r.Zz + l.Ww*r.Wz
	ww := l.Wx*r.Xw + l.Wy*r.Yw + l.Wz*r.Zw + l.Ww*r.Ww
	m.Xx, m.Xy, m.Xz, m.Xw = xx, xy, xz, xw
	m.Yx, m.Yy, m.Yz, m.Yw = yx, yy, yz, yw
	m.Zx, m.Zy, m.Zz, m.Zw = zx, zy, zz, zw
	m.Wx, m.Wy, m.Wz, m.Ww = wx, wy, wz, ww
	return m
}

// SetQ sets m's rotation block to the rotation represented by unit
// quaternion q, zeroes the translation row (Wx,Wy,Wz) and sets the
// homogeneous terms (Xw,Yw,Zw,Ww) to the identity values.
func (m *M4) SetQ(q *Q) *M4 {
	xx, yy, zz := q.X*q.X, q.Y*q.Y, q.Z*q.Z
	xy, xz, yz := q.X*q.Y, q.X*q.Z, q.Y*q.Z
	wx, wy, wz := q.W*q.X, q.W*q.Y, q.W*q.Z
	m.Xx, m.Xy, m.Xz, m.Xw = 1-2*(yy+zz), 2*(xy-wz), 2*(xz+wy), 0
	m.Yx, m.Yy, m.Yz, m.Yw = 2*(xy+wz), 1-2*(xx+zz), 2*(yz-wx), 0
	m.Zx, m.Zy, m.Zz, m.Zw = 2*(xz-wy), 2*(yz+wx), 1-2*(xx+yy), 0
	m.Wx, m.Wy, m.Wz, m.Ww = 0, 0, 0, 1
	return m
}

// TranslateTM left-multiplies m by a translation matrix built from
// x, y, z: m = translate(x,y,z) * m. Used to apply a pose's location
// after its rotation and scale are already baked into m.
func (m *M4) TranslateTM(x, y, z float64) *M4 {
	wx := x*m.Xx + y*m.Yx + z*m.Zx + m.Wx
	wy := x*m.Xy + y*m.Yy + z*m.Zy + m.Wy
	wz := x*m.Xz + y*m.Yz + z*m.Zz + m.Wz
	ww := x*m.Xw + y*m.Yw + z*m.Zw + m.Ww
	m.Wx, m.Wy, m.Wz, m.Ww = wx, wy, wz, ww
	return m
}

// ScaleMS right-multiplies m by a scale matrix built from x, y, z:
// m = m * scale(x,y,z). Used to apply a pose's uniform scale before
// its location is translated in.
func (m *M4) ScaleMS(x, y, z float64) *M4 {
	m.Xx, m.Xy, m.Xz = m.Xx*x, m.Xy*y, m.Xz*z
	m.Yx, m.Yy, m.Yz = m.Yx*x, m.Yy*y, m.Yz*z
	m.Zx, m.Zy, m.Zz = m.Zx*x, m.Zy*y, m.Zz*z
	m.Wx, m.Wy, m.Wz = m.Wx*x, m.Wy*y, m.Wz*z
	return m
}

// Ortho sets m to an orthographic projection over the given clip
// planes; used for directional-light shadow cascades and any camera
// configured with store.Orthographic.
func (m *M4) Ortho(left, right, bottom, top, near, far float64) *M4 {
	m.Xx, m.Xy, m.Xz, m.Xw = 2/(right-left), 0, 0, 0
	m.Yx, m.Yy, m.Yz, m.Yw = 0, 2/(top-bottom), 0, 0
	m.Zx, m.Zy, m.Zz, m.Zw = 0, 0, -2/(far-near), 0
	m.Wx = -(right + left) / (right - left)
	m.Wy = -(top + bottom) / (top - bottom)
	m.Wz = -(far + near) / (far - near)
	m.Ww = 1
	return m
}

// Persp sets m to a perspective projection with the given field of
// view (degrees), aspect ratio, and clip planes; used for camera
// projections and for spot/point shadow sub-passes.
func (m *M4) Persp(fov, aspect, near, far float64) *M4 {
	f := 1 / math.Tan(Rad(fov)*0.5)
	m.Xx, m.Yx, m.Zx, m.Wx = f/aspect, 0, 0, 0
	m.Xy, m.Yy, m.Zy, m.Wy = 0, f, 0, 0
	m.Xz, m.Yz = 0, 0
	m.Zz = (far + near) / (near - far)
	m.Wz = 2 * far * near / (near - far)
	m.Xw, m.Yw, m.Zw, m.Ww = 0, 0, -1, 0
	return m
}

// Rad converts degrees to radians.
func Rad(degrees float64) float64 { return degrees * math.Pi / 180 }

// NewM4 creates a zero 4x4 matrix.
func NewM4() *M4 { return &M4{} }

// NewM4I creates a new 4x4 identity matrix.
func NewM4I() *M4 { return &M4{Xx: 1, Yy: 1, Zz: 1, Ww: 1} }
