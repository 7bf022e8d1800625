package render

import (
	"context"
	"math"
	"runtime"
	"time"

	"github.com/taigrr/raycast/pkg/models"
	"golang.org/x/sync/errgroup"
)

// Rasterizer casts one ray per pixel and writes distance-based intensities
// into a PixelGrid.
type Rasterizer struct {
	camera *Camera
	grid   *PixelGrid

	// Decay is the intensity lost per unit of ray parameter.
	Decay float64

	// Workers bounds the number of rows rendered concurrently.
	// Zero or negative means runtime.NumCPU().
	Workers int
}

// Stats reports what a render did.
type Stats struct {
	Pixels  int
	Hits    int // pixels whose ray hit a triangle
	Elapsed time.Duration
}

// NewRasterizer creates a new rasterizer drawing into grid.
func NewRasterizer(camera *Camera, grid *PixelGrid) *Rasterizer {
	return &Rasterizer{
		camera: camera,
		grid:   grid,
	}
}

// Width returns the grid width.
func (r *Rasterizer) Width() int {
	return r.grid.Width
}

// Height returns the grid height.
func (r *Rasterizer) Height() int {
	return r.grid.Height
}

// Render fills every cell of the grid exactly once. Rows are independent, so
// each goroutine owns whole rows and nothing is shared between them except
// the read-only triangle slice. Cancellation is observed between rows.
func (r *Rasterizer) Render(ctx context.Context, tris []models.Triangle) (Stats, error) {
	start := time.Now()
	width, height := r.Width(), r.Height()
	proj := r.camera.projector(width, height)
	origin := r.camera.Position

	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	rowHits := make([]int, height)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range height {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			row := r.grid.Row(i)
			for j := range row {
				t, hit := castFirst(tris, origin, proj.direction(i, j))
				row[j] = Intensity(t, r.Decay)
				if hit {
					rowHits[i]++
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	// Rows skipped after cancellation leave no error in the group.
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}

	stats := Stats{
		Pixels:  width * height,
		Elapsed: time.Since(start),
	}
	for _, h := range rowHits {
		stats.Hits += h
	}
	return stats, nil
}

// Intensity maps a ray distance to brightness: 255 - decay·t, clamped to
// [0, 255] and truncated toward zero.
func Intensity(t, decay float64) uint8 {
	v := 255 - decay*t
	switch {
	case !(v > 0): // also catches NaN
		return 0
	case v >= 255:
		return 255
	}
	return uint8(math.Trunc(v))
}
