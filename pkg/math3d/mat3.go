package math3d

import "math"

// Mat3 is a 3x3 matrix stored as its three columns, i.e. the images of
// the X, Y and Z unit vectors. The caster only needs rotations, so there is
// no homogeneous row.
type Mat3 [3]Vec3

// Identity3 returns the identity matrix.
func Identity3() Mat3 {
	return Mat3{V3(1, 0, 0), V3(0, 1, 0), V3(0, 0, 1)}
}

// RotateY returns a rotation by angle radians around the Y axis.
// Positive angles take +Z toward +X.
func RotateY(angle float64) Mat3 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat3{V3(c, 0, -s), V3(0, 1, 0), V3(s, 0, c)}
}

// RotateZ returns a rotation by angle radians around the Z axis.
// Positive angles take +X toward +Y.
func RotateZ(angle float64) Mat3 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat3{V3(c, s, 0), V3(-s, c, 0), V3(0, 0, 1)}
}

// MulVec3 returns m·v.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return m[0].Scale(v.X).Add(m[1].Scale(v.Y)).Add(m[2].Scale(v.Z))
}

// Mul returns the product a·b (apply b first).
func (a Mat3) Mul(b Mat3) Mat3 {
	return Mat3{a.MulVec3(b[0]), a.MulVec3(b[1]), a.MulVec3(b[2])}
}

// Transpose swaps rows and columns. For a rotation it is the inverse.
func (m Mat3) Transpose() Mat3 {
	return Mat3{
		V3(m[0].X, m[1].X, m[2].X),
		V3(m[0].Y, m[1].Y, m[2].Y),
		V3(m[0].Z, m[1].Z, m[2].Z),
	}
}
