package render

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/raycast/pkg/math3d"
	"github.com/taigrr/raycast/pkg/models"
)

// ErrInvalidOptions is returned (wrapped) by Options.Validate.
var ErrInvalidOptions = errors.New("invalid render options")

// Options is everything a render needs besides the mesh.
type Options struct {
	Width, Height int
	FOV           float64 // radians
	Camera        math3d.Vec3
	Decay         float64 // must be positive so Background maps to black
	Yaw, Pitch    float64 // radians, zero for the fixed -X view
	Workers       int
}

// Validate checks dimensions, field of view, decay and camera.
func (o Options) Validate() error {
	switch {
	case o.Width <= 0 || o.Height <= 0:
		return fmt.Errorf("image size %dx%d: %w", o.Width, o.Height, ErrInvalidOptions)
	case !(o.FOV > 0 && o.FOV < math.Pi):
		return fmt.Errorf("field of view %v outside (0, π): %w", o.FOV, ErrInvalidOptions)
	case !(o.Decay > 0) || math.IsInf(o.Decay, 0):
		return fmt.Errorf("decay %v: %w", o.Decay, ErrInvalidOptions)
	case !o.Camera.IsFinite():
		return fmt.Errorf("camera position %v: %w", o.Camera, ErrInvalidOptions)
	case math.IsNaN(o.Yaw) || math.IsInf(o.Yaw, 0) || math.IsNaN(o.Pitch) || math.IsInf(o.Pitch, 0):
		return fmt.Errorf("camera rotation (%v, %v): %w", o.Yaw, o.Pitch, ErrInvalidOptions)
	}
	return nil
}

// NewCamera builds the camera described by o.
func (o Options) NewCamera() *Camera {
	c := &Camera{}
	c.SetPosition(o.Camera)
	c.SetFOV(o.FOV)
	c.SetRotation(o.Yaw, o.Pitch)
	return c
}

// RenderScene depth-sorts the mesh triangles once and rasterizes them. The
// mesh is sorted in place and is read-only afterwards.
func RenderScene(ctx context.Context, mesh *models.Mesh, opts Options) (*PixelGrid, Stats, error) {
	if err := opts.Validate(); err != nil {
		return nil, Stats{}, err
	}

	SortByDepth(mesh.Triangles, opts.Camera)

	grid := NewPixelGrid(opts.Width, opts.Height)
	r := NewRasterizer(opts.NewCamera(), grid)
	r.Decay = opts.Decay
	r.Workers = opts.Workers

	stats, err := r.Render(ctx, mesh.Triangles)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("render: %w", err)
	}
	return grid, stats, nil
}
