package render

import (
	"cmp"
	"math"
	"slices"

	"github.com/taigrr/raycast/pkg/math3d"
	"github.com/taigrr/raycast/pkg/models"
)

// DepthKey is the squared distance from camera to the triangle's first
// vertex, truncated to an integer. Distances past the int range saturate at
// math.MaxInt so far triangles still sort last.
func DepthKey(tri models.Triangle, camera math3d.Vec3) int {
	k := tri[0].Sub(camera).Square().Sum()
	if !(k < math.MaxInt) {
		return math.MaxInt
	}
	return int(k)
}

// SortByDepth orders tris nearest-first by DepthKey. The sort is stable, so
// triangles with equal keys keep their load order.
func SortByDepth(tris []models.Triangle, camera math3d.Vec3) {
	type keyed struct {
		key int
		tri models.Triangle
	}

	ks := make([]keyed, len(tris))
	for i, tri := range tris {
		ks[i] = keyed{DepthKey(tri, camera), tri}
	}
	slices.SortStableFunc(ks, func(a, b keyed) int {
		return cmp.Compare(a.key, b.key)
	})
	for i := range ks {
		tris[i] = ks[i].tri
	}
}
