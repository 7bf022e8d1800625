package render

import (
	"github.com/taigrr/raycast/pkg/math3d"
	"github.com/taigrr/raycast/pkg/models"
)

// Background is the distance reported when a ray hits nothing. It is large
// enough that any positive decay maps it to black.
const Background = 1000.0

// Cast walks tris in order and returns the distance of the first triangle
// hit at t > 0, or Background. This is first hit in sequence, not nearest
// hit: SortByDepth is what makes the two roughly agree.
func Cast(tris []models.Triangle, origin, dir math3d.Vec3) float64 {
	t, _ := castFirst(tris, origin, dir)
	return t
}

func castFirst(tris []models.Triangle, origin, dir math3d.Vec3) (float64, bool) {
	for _, tri := range tris {
		if t := Intersect(origin, dir, tri); t > 0 {
			return t, true
		}
	}
	return Background, false
}
