// Package math3d provides the 3D vector algebra used by the ray caster.
package math3d

import "math"

// Vec3 is a point or direction in scene space. It is a small value type;
// every operation returns a new vector.
type Vec3 struct {
	X, Y, Z float64
}

// V3 is shorthand for Vec3{x, y, z}.
func V3(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

// Zero3 returns the origin.
func Zero3() Vec3 {
	return Vec3{}
}

// Add returns the vector sum a + b.
func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

// Sub is component-wise a - b.
func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

// Scale multiplies every component by s.
func (a Vec3) Scale(s float64) Vec3 {
	return Vec3{s * a.X, s * a.Y, s * a.Z}
}

// Dot returns the dot product a · b.
func (a Vec3) Dot(b Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Cross is the right-handed cross product a × b.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

// Square squares each component.
func (a Vec3) Square() Vec3 {
	return Vec3{a.X * a.X, a.Y * a.Y, a.Z * a.Z}
}

// Sum adds the components.
func (a Vec3) Sum() float64 {
	return a.X + a.Y + a.Z
}

// LenSq is the squared Euclidean length, Square().Sum().
func (a Vec3) LenSq() float64 {
	return a.Square().Sum()
}

// Len returns the Euclidean length.
func (a Vec3) Len() float64 {
	return math.Sqrt(a.LenSq())
}

// Normalize scales a to unit length. The zero vector stays zero.
func (a Vec3) Normalize() Vec3 {
	if l := a.Len(); l != 0 {
		return a.Scale(1 / l)
	}
	return Vec3{}
}

// Min returns the component-wise minimum. Min and Max grow bounding boxes.
func (a Vec3) Min(b Vec3) Vec3 {
	return Vec3{min(a.X, b.X), min(a.Y, b.Y), min(a.Z, b.Z)}
}

// Max returns the component-wise maximum.
func (a Vec3) Max(b Vec3) Vec3 {
	return Vec3{max(a.X, b.X), max(a.Y, b.Y), max(a.Z, b.Z)}
}

// IsFinite reports whether no component is NaN or ±Inf.
func (a Vec3) IsFinite() bool {
	return finite(a.X) && finite(a.Y) && finite(a.Z)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
