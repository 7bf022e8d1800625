// Package render casts rays against triangle meshes and produces grayscale
// depth images.
package render

import (
	"math"

	"github.com/taigrr/raycast/pkg/math3d"
	"github.com/taigrr/raycast/pkg/models"
)

// Epsilon is the determinant threshold below which a ray is treated as
// parallel to the triangle plane.
const Epsilon = 1e-6

// Intersect returns the ray parameter t at which origin + t·dir meets tri,
// or 0 when there is no intersection. A hit exactly at t = 0 is
// indistinguishable from a miss; callers only accept t > 0.
func Intersect(origin, dir math3d.Vec3, tri models.Triangle) float64 {
	t, _, _, ok := IntersectBarycentric(origin, dir, tri)
	if !ok {
		return 0
	}
	return t
}

// IntersectBarycentric is the Möller–Trumbore test without back-face
// culling. On a hit it returns the signed ray parameter t and the
// barycentric coordinates (u, v) of the hit relative to V1 and V2.
func IntersectBarycentric(origin, dir math3d.Vec3, tri models.Triangle) (t, u, v float64, ok bool) {
	e1 := tri[1].Sub(tri[0])
	e2 := tri[2].Sub(tri[0])

	p := dir.Cross(e2)
	d := e1.Dot(p)
	if math.Abs(d) < Epsilon {
		return 0, 0, 0, false
	}

	s := origin.Sub(tri[0])
	u = p.Dot(s) / d
	if u < 0 || u > 1 {
		return 0, 0, 0, false
	}

	q := s.Cross(e1)
	v = dir.Dot(q) / d
	if v < 0 || u+v > 1 {
		return 0, 0, 0, false
	}

	return e2.Dot(q) / d, u, v, true
}
