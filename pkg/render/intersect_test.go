package render

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/taigrr/raycast/pkg/math3d"
	"github.com/taigrr/raycast/pkg/models"
)

// unitTri lies in the z=0 plane.
var unitTri = models.Triangle{
	math3d.V3(0, 0, 0),
	math3d.V3(1, 0, 0),
	math3d.V3(0, 1, 0),
}

func TestIntersect(t *testing.T) {
	down := math3d.V3(0, 0, -1)

	tests := []struct {
		name   string
		origin math3d.Vec3
		dir    math3d.Vec3
		want   float64
	}{
		{"inside", math3d.V3(0.25, 0.25, 1), down, 1},
		{"scaled direction", math3d.V3(0.25, 0.25, 1), math3d.V3(0, 0, -2), 0.5},
		{"from below", math3d.V3(0.25, 0.25, -3), math3d.V3(0, 0, 1), 3},
		{"behind origin is negative", math3d.V3(0.25, 0.25, -1), down, -1},
		{"on vertex", math3d.V3(0, 0, 2), down, 2},
		{"on hypotenuse", math3d.V3(0.5, 0.5, 1), down, 1},
		{"u out of range", math3d.V3(2, 0.1, 1), down, 0},
		{"u negative", math3d.V3(-0.1, 0.5, 1), down, 0},
		{"v negative", math3d.V3(0.5, -0.1, 1), down, 0},
		{"u plus v over one", math3d.V3(0.75, 0.75, 1), down, 0},
		{"parallel in plane", math3d.V3(-1, 0.25, 0), math3d.V3(1, 0, 0), 0},
		{"parallel above plane", math3d.V3(-1, 0.25, 1), math3d.V3(1, 0, 0), 0},
		{"zero direction", math3d.V3(0.25, 0.25, 1), math3d.Zero3(), 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Intersect(tc.origin, tc.dir, unitTri)
			if math.Abs(got-tc.want) > 1e-12 {
				t.Errorf("Intersect = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIntersectOrientationInsensitive(t *testing.T) {
	flipped := models.Triangle{unitTri[0], unitTri[2], unitTri[1]}
	origin := math3d.V3(0.2, 0.3, 1)
	dir := math3d.V3(0, 0, -1)

	a := Intersect(origin, dir, unitTri)
	b := Intersect(origin, dir, flipped)
	if a != 1 || math.Abs(a-b) > 1e-12 {
		t.Errorf("front = %v, back = %v, want both 1", a, b)
	}
}

func TestIntersectBarycentric(t *testing.T) {
	tt, u, v, ok := IntersectBarycentric(math3d.V3(0.25, 0.5, 1), math3d.V3(0, 0, -1), unitTri)
	if !ok {
		t.Fatal("expected hit")
	}
	if tt != 1 || u != 0.25 || v != 0.5 {
		t.Errorf("got t=%v u=%v v=%v, want 1 0.25 0.5", tt, u, v)
	}

	if _, _, _, ok := IntersectBarycentric(math3d.V3(3, 3, 1), math3d.V3(0, 0, -1), unitTri); ok {
		t.Error("expected miss")
	}
}

func TestIntersectParallelThreshold(t *testing.T) {
	// d = e1·(D×e2) is exactly dir.Z for unitTri, so a grazing ray with
	// |dir.Z| just under Epsilon is reported as parallel.
	origin := math3d.V3(0.25, 0.25, 1e-7)
	if got := Intersect(origin, math3d.V3(1, 0, -0.9e-6), unitTri); got != 0 {
		t.Errorf("grazing ray = %v, want 0", got)
	}
	if got := Intersect(origin, math3d.V3(0, 0, -2e-6), unitTri); got <= 0 {
		t.Errorf("steeper ray = %v, want hit", got)
	}
}

// TestIntersectHitsLieOnTriangle checks random hits against the plane and
// barycentric bounds.
func TestIntersectHitsLieOnTriangle(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	randVec := func(scale float64) math3d.Vec3 {
		return math3d.V3(
			(rng.Float64()*2-1)*scale,
			(rng.Float64()*2-1)*scale,
			(rng.Float64()*2-1)*scale,
		)
	}

	hits := 0
	for range 5000 {
		tri := models.Triangle{randVec(5), randVec(5), randVec(5)}
		origin := randVec(10)
		// Aim near the centroid so a good share of rays hit.
		centroid := tri[0].Add(tri[1]).Add(tri[2]).Scale(1.0 / 3)
		dir := centroid.Add(randVec(2)).Sub(origin)

		// Skip near-parallel rays where the division amplifies rounding.
		if d := tri[1].Sub(tri[0]).Dot(dir.Cross(tri[2].Sub(tri[0]))); math.Abs(d) < 1e-3 {
			continue
		}

		tt, u, v, ok := IntersectBarycentric(origin, dir, tri)
		if !ok {
			continue
		}
		hits++

		if u < 0 || v < 0 || u+v > 1 {
			t.Fatalf("barycentric out of range: u=%v v=%v", u, v)
		}

		p := origin.Add(dir.Scale(tt))
		onTri := tri[0].Add(tri[1].Sub(tri[0]).Scale(u)).Add(tri[2].Sub(tri[0]).Scale(v))
		if d := p.Sub(onTri).Len(); d > 1e-6*(1+p.Len()) {
			t.Fatalf("hit point %v is %v from triangle point %v", p, d, onTri)
		}

		n := tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0])).Normalize()
		if d := math.Abs(p.Sub(tri[0]).Dot(n)); d > 1e-6*(1+p.Len()) {
			t.Fatalf("hit point %v is %v off the plane", p, d)
		}
	}

	if hits < 100 {
		t.Errorf("only %d hits, test is not exercising the hit path", hits)
	}
}

func BenchmarkIntersect(b *testing.B) {
	origin := math3d.V3(0.25, 0.25, 1)
	dir := math3d.V3(0, 0, -1)

	for b.Loop() {
		_ = Intersect(origin, dir, unitTri)
	}
}
