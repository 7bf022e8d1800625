// Package models provides mesh loading and representation for the ray caster.
package models

import (
	"github.com/taigrr/raycast/pkg/math3d"
	"gonum.org/v1/gonum/spatial/r3"
)

// Triangle is an ordered triple of vertex positions. Vertex order defines
// the edges V1-V0 and V2-V0 used by the intersector.
type Triangle [3]math3d.Vec3

// FloorTriangle is the ground plane appended to every loaded mesh.
var FloorTriangle = Triangle{
	math3d.V3(100, 0, 0),
	math3d.V3(-100, -100, 0),
	math3d.V3(-100, 100, 0),
}

// degenerateTolerance is the relative collinearity tolerance for Stats.
const degenerateTolerance = 1e-12

// Mesh is an ordered sequence of triangles. Order is meaningful: the caster
// reports the first triangle in sequence that a ray hits.
type Mesh struct {
	Name      string
	Triangles []Triangle

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// MeshStats summarizes a loaded mesh.
type MeshStats struct {
	Triangles  int
	Degenerate int // zero-area triangles, which no ray can hit
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:      name,
		Triangles: make([]Triangle, 0),
	}
}

// Add appends a triangle.
func (m *Mesh) Add(tri Triangle) {
	m.Triangles = append(m.Triangles, tri)
}

// AppendFloor appends FloorTriangle and refreshes the bounds.
func (m *Mesh) AppendFloor() {
	m.Add(FloorTriangle)
	m.CalculateBounds()
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Triangles) == 0 {
		return
	}

	m.BoundsMin = m.Triangles[0][0]
	m.BoundsMax = m.Triangles[0][0]

	for _, tri := range m.Triangles {
		for _, v := range tri {
			m.BoundsMin = m.BoundsMin.Min(v)
			m.BoundsMax = m.BoundsMax.Max(v)
		}
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// Stats counts triangles and degenerate triangles.
func (m *Mesh) Stats() MeshStats {
	s := MeshStats{Triangles: len(m.Triangles)}
	for _, tri := range m.Triangles {
		if isDegenerate(tri) {
			s.Degenerate++
		}
	}
	return s
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Triangles: make([]Triangle, len(m.Triangles)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Triangles, m.Triangles)
	return clone
}

// isDegenerate reports zero-area triangles. Coincident vertices are checked
// first since r3 measures distance to the longest side, which is undefined
// when that side has zero length.
func isDegenerate(tri Triangle) bool {
	t := toR3(tri)
	if r3.Norm(r3.Cross(r3.Sub(t[1], t[0]), r3.Sub(t[2], t[0]))) == 0 {
		return true
	}
	return t.IsDegenerate(degenerateTolerance)
}

func toR3(tri Triangle) r3.Triangle {
	var out r3.Triangle
	for i, v := range tri {
		out[i] = r3.Vec{X: v.X, Y: v.Y, Z: v.Z}
	}
	return out
}

// swapXY applies the loader axis permutation: file (x, y, z) is stored as
// (y, x, z).
func swapXY(x, y, z float64) math3d.Vec3 {
	return math3d.V3(y, x, z)
}
