// raycast - Depth-shaded triangle mesh renderer
// Casts one ray per pixel from a fixed pinhole camera into an OBJ, GLB or
// STL mesh standing on a floor triangle and writes a grayscale image where
// brightness falls off with distance.
//
// Usage:
//
//	raycast [flags] [model.obj|model.glb|model.stl]
//
// With no model argument teapot.obj in the working directory is rendered.
package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/taigrr/raycast/pkg/config"
	"github.com/taigrr/raycast/pkg/math3d"
	"github.com/taigrr/raycast/pkg/models"
	"github.com/taigrr/raycast/pkg/render"
)

const defaultModel = "teapot.obj"

var version = "dev"

func main() {
	if err := fang.Execute(
		context.Background(),
		newRootCmd(),
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	); err != nil {
		os.Exit(1)
	}
}

// flags holds command-line overrides. Only flags the user actually set are
// applied on top of the config file.
type flags struct {
	configPath   string
	output       string
	width        int
	height       int
	fovDeg       float64
	camera       vec3Flag
	decay        float64
	yawDeg       float64
	pitchDeg     float64
	workers      int
	preview      bool
	previewWidth int
	logLevel     string
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "raycast [model]",
		Short: "Render a depth-shaded image of a triangle mesh",
		Long: "raycast casts one ray per pixel into a mesh (OBJ, GLB/glTF or binary STL)\n" +
			"placed on a floor triangle and writes a grayscale PNG or JPEG where\n" +
			"nearer surfaces are brighter.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			modelPath := defaultModel
			if len(args) > 0 {
				modelPath = args[0]
			}
			return run(cmd, modelPath, &f)
		},
	}
	f.register(cmd.Flags())

	return cmd
}

// register binds the flags to fl with the default config values shown in help.
func (f *flags) register(fl *pflag.FlagSet) {
	d := config.Default()
	f.camera = vec3Flag(d.Camera())

	fl.StringVar(&f.configPath, "config", "", "JSON config file")
	fl.StringVarP(&f.output, "output", "o", d.Output, "output image (.png, .jpg)")
	fl.IntVar(&f.width, "width", d.Width, "image width in pixels")
	fl.IntVar(&f.height, "height", d.Height, "image height in pixels")
	fl.Float64Var(&f.fovDeg, "fov", d.FieldOfView*180/math.Pi, "horizontal field of view in degrees")
	fl.Var(&f.camera, "camera", "camera position as x,y,z")
	fl.Float64Var(&f.decay, "decay", d.Decay, "brightness lost per unit of distance")
	fl.Float64Var(&f.yawDeg, "yaw", 0, "camera yaw in degrees")
	fl.Float64Var(&f.pitchDeg, "pitch", 0, "camera pitch in degrees")
	fl.IntVar(&f.workers, "workers", 0, "concurrent rows (0 = one per CPU)")
	fl.BoolVar(&f.preview, "preview", false, "print a terminal preview of the image")
	fl.IntVar(&f.previewWidth, "preview-width", 80, "preview width in terminal columns")
	fl.StringVar(&f.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}

func run(cmd *cobra.Command, modelPath string, f *flags) error {
	ctx := cmd.Context()
	logger, err := newLogger(cmd, f.logLevel)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd.Flags(), f)
	if err != nil {
		return err
	}

	mesh, err := models.Load(modelPath)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	stats := mesh.Stats()
	logger.Info("loaded mesh",
		"model", filepath.Base(modelPath),
		"triangles", stats.Triangles,
		"degenerate", stats.Degenerate)
	logger.Debug("bounds", "min", mesh.BoundsMin, "max", mesh.BoundsMax)

	opts := cfg.Options()
	if row, col, ok := opts.NewCamera().Project(mesh.Center(), opts.Width, opts.Height); ok {
		logger.Debug("mesh center", "row", fmt.Sprintf("%.1f", row), "col", fmt.Sprintf("%.1f", col))
	} else {
		logger.Warn("mesh center is behind the camera")
	}

	grid, rs, err := render.RenderScene(ctx, mesh, opts)
	if err != nil {
		return err
	}
	logger.Info("rendered",
		"elapsed", rs.Elapsed.Round(time.Microsecond),
		"hits", rs.Hits,
		"pixels", rs.Pixels)

	if err := grid.Save(cfg.Output); err != nil {
		return err
	}
	logger.Info("saved", "output", cfg.Output)

	out := cmd.OutOrStdout()
	if f.preview {
		fmt.Fprintln(out, render.Preview(grid, f.previewWidth))
	}
	_, err = lipgloss.Fprintln(out, summary(modelPath, cfg, rs))
	return err
}

func newLogger(cmd *cobra.Command, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	return log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		Level:           lvl,
		Prefix:          "raycast",
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	}), nil
}

// loadConfig reads the config file (or the defaults) and applies the flags
// that were set explicitly.
func loadConfig(fs *pflag.FlagSet, f *flags) (config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return config.Config{}, err
		}
	}

	if fs.Changed("output") {
		cfg.Output = f.output
	}
	if fs.Changed("width") {
		cfg.Width = f.width
	}
	if fs.Changed("height") {
		cfg.Height = f.height
	}
	if fs.Changed("fov") {
		cfg.FieldOfView = f.fovDeg * math.Pi / 180
	}
	if fs.Changed("camera") {
		cfg.CameraPosition = [3]float64{f.camera.X, f.camera.Y, f.camera.Z}
	}
	if fs.Changed("decay") {
		cfg.Decay = f.decay
	}
	if fs.Changed("yaw") {
		cfg.Yaw = f.yawDeg
	}
	if fs.Changed("pitch") {
		cfg.Pitch = f.pitchDeg
	}
	if fs.Changed("workers") {
		cfg.Workers = f.workers
	}

	return cfg, cfg.Validate()
}

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D7D9C"))
	valueStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E8E8F0"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5A56E0")).
			Padding(0, 1)
)

func summary(modelPath string, cfg config.Config, rs render.Stats) string {
	rows := [][2]string{
		{"model", filepath.Base(modelPath)},
		{"image", fmt.Sprintf("%s (%dx%d)", cfg.Output, cfg.Width, cfg.Height)},
		{"hits", fmt.Sprintf("%d / %d", rs.Hits, rs.Pixels)},
		{"time", rs.Elapsed.Round(time.Millisecond).String()},
	}

	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = labelStyle.Render(fmt.Sprintf("%-6s", r[0])) + valueStyle.Render(r[1])
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

// vec3Flag parses "x,y,z".
type vec3Flag math3d.Vec3

var _ pflag.Value = (*vec3Flag)(nil)

func (v *vec3Flag) String() string {
	return fmt.Sprintf("%g,%g,%g", v.X, v.Y, v.Z)
}

func (v *vec3Flag) Set(s string) error {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return fmt.Errorf("want x,y,z, got %q", s)
	}

	var xyz [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return fmt.Errorf("coordinate %d: %w", i, err)
		}
		xyz[i] = f
	}
	*v = vec3Flag(math3d.V3(xyz[0], xyz[1], xyz[2]))
	return nil
}

func (v *vec3Flag) Type() string {
	return "x,y,z"
}
