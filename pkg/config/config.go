// Package config holds the render settings and reads them from JSON.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/taigrr/raycast/pkg/math3d"
	"github.com/taigrr/raycast/pkg/render"
)

// ErrInvalidConfig is returned (wrapped) for unreadable or out-of-range settings.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the on-disk render configuration. Field of view is in radians;
// yaw and pitch are in degrees, which is friendlier to edit by hand.
type Config struct {
	FieldOfView    float64    `json:"fieldOfView"`
	Width          int        `json:"width"`
	Height         int        `json:"height"`
	CameraPosition [3]float64 `json:"cameraPosition"`
	Decay          float64    `json:"decay"`
	Yaw            float64    `json:"yaw,omitempty"`
	Pitch          float64    `json:"pitch,omitempty"`
	Workers        int        `json:"workers,omitempty"` // 0 = one per CPU
	Output         string     `json:"output"`
}

// Default returns the reference scene settings.
func Default() Config {
	return Config{
		FieldOfView:    60 * 0.0174,
		Width:          640,
		Height:         360,
		CameraPosition: [3]float64{8, 0, 1.5},
		Decay:          20,
		Output:         "image.png",
	}
}

// Load reads a JSON config from path. Keys missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Decode(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses JSON over Default and validates the result.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Camera returns the camera position as a vector.
func (c Config) Camera() math3d.Vec3 {
	return math3d.V3(c.CameraPosition[0], c.CameraPosition[1], c.CameraPosition[2])
}

// Validate checks the settings a render cannot run without.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: image size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case !(c.FieldOfView > 0 && c.FieldOfView < math.Pi):
		return fmt.Errorf("%w: fieldOfView %v outside (0, π)", ErrInvalidConfig, c.FieldOfView)
	case !(c.Decay > 0) || math.IsInf(c.Decay, 0):
		return fmt.Errorf("%w: decay %v", ErrInvalidConfig, c.Decay)
	case !c.Camera().IsFinite():
		return fmt.Errorf("%w: cameraPosition %v", ErrInvalidConfig, c.CameraPosition)
	case !isFinite(c.Yaw) || !isFinite(c.Pitch):
		return fmt.Errorf("%w: rotation (%v, %v)", ErrInvalidConfig, c.Yaw, c.Pitch)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers %d", ErrInvalidConfig, c.Workers)
	case c.Output == "":
		return fmt.Errorf("%w: empty output path", ErrInvalidConfig)
	}
	if _, err := render.FormatFromPath(c.Output); err != nil {
		return fmt.Errorf("%w: output: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Options converts the config to render options.
func (c Config) Options() render.Options {
	return render.Options{
		Width:   c.Width,
		Height:  c.Height,
		FOV:     c.FieldOfView,
		Camera:  c.Camera(),
		Decay:   c.Decay,
		Yaw:     c.Yaw * math.Pi / 180,
		Pitch:   c.Pitch * math.Pi / 180,
		Workers: c.Workers,
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
