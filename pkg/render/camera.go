package render

import (
	"math"

	"github.com/taigrr/raycast/pkg/math3d"
)

// Camera is a pinhole camera looking down -X with +Z up. Screen columns
// grow toward +Y and rows grow toward -Z.
type Camera struct {
	// Position in world space
	Position math3d.Vec3

	// FOV is the horizontal field of view in radians.
	FOV float64

	// Optional orientation (radians). Zero keeps the fixed -X view axis.
	// Positive Yaw turns left around Z, positive Pitch tilts up.
	Yaw   float64
	Pitch float64
}

// NewCamera creates a camera with no rotation.
func NewCamera(position math3d.Vec3, fov float64) *Camera {
	return &Camera{
		Position: position,
		FOV:      fov,
	}
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
}

// SetFOV sets the field of view (in radians).
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
}

// SetRotation sets yaw and pitch (in radians).
func (c *Camera) SetRotation(yaw, pitch float64) {
	c.Yaw = yaw
	c.Pitch = pitch
}

// PixelStep is the image-plane size of one pixel at unit distance.
func (c *Camera) PixelStep(width int) float64 {
	return math.Tan(c.FOV/2) * 2 / float64(width)
}

// Offsets returns the image-plane coordinates of the top-left corner.
func (c *Camera) Offsets(width, height int) (offsetX, offsetY float64) {
	step := c.PixelStep(width)
	return -step * float64(width) / 2, step * float64(height) / 2
}

// Basis returns the rotation applied to view rays.
func (c *Camera) Basis() math3d.Mat3 {
	return math3d.RotateZ(c.Yaw).Mul(math3d.RotateY(c.Pitch))
}

// Direction returns the (unnormalized) ray direction through pixel
// (row i, column j) of a width×height image.
func (c *Camera) Direction(i, j, width, height int) math3d.Vec3 {
	return c.projector(width, height).direction(i, j)
}

// Project maps a world point to fractional (row, col) image coordinates.
// ok is false when the point is not in front of the camera.
func (c *Camera) Project(p math3d.Vec3, width, height int) (row, col float64, ok bool) {
	pr := c.projector(width, height)

	d := p.Sub(c.Position)
	if pr.rotated {
		d = pr.basis.Transpose().MulVec3(d)
	}
	if d.X >= 0 {
		return 0, 0, false
	}

	k := -1 / d.X
	a, b := d.Y*k, d.Z*k
	return (pr.offsetY - b) / pr.step, (a - pr.offsetX) / pr.step, true
}

// projector holds the per-image constants so the pixel loop does no
// trigonometry.
type projector struct {
	step             float64
	offsetX, offsetY float64
	basis            math3d.Mat3
	rotated          bool
}

func (c *Camera) projector(width, height int) projector {
	offX, offY := c.Offsets(width, height)
	return projector{
		step:    c.PixelStep(width),
		offsetX: offX,
		offsetY: offY,
		basis:   c.Basis(),
		rotated: c.Yaw != 0 || c.Pitch != 0,
	}
}

func (p projector) direction(i, j int) math3d.Vec3 {
	dir := math3d.V3(-1, p.offsetX+p.step*float64(j), p.offsetY-p.step*float64(i))
	if p.rotated {
		dir = p.basis.MulVec3(dir)
	}
	return dir
}
