package render

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutputWrite is returned (wrapped) when a grid cannot be persisted.
var ErrOutputWrite = errors.New("output write failed")

// PixelGrid is a row-major grid of 8-bit intensities. Its dimensions are
// fixed at construction.
type PixelGrid struct {
	Width  int
	Height int
	Pix    []uint8 // Row-major pixel data
}

// NewPixelGrid creates a black grid of the given size.
func NewPixelGrid(width, height int) *PixelGrid {
	return &PixelGrid{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

// Set stores the intensity at row i, column j.
func (g *PixelGrid) Set(i, j int, v uint8) {
	g.Pix[i*g.Width+j] = v
}

// At returns the intensity at row i, column j.
// Returns 0 if out of bounds.
func (g *PixelGrid) At(i, j int) uint8 {
	if i < 0 || i >= g.Height || j < 0 || j >= g.Width {
		return 0
	}
	return g.Pix[i*g.Width+j]
}

// Row returns the backing slice for row i.
func (g *PixelGrid) Row(i int) []uint8 {
	return g.Pix[i*g.Width : (i+1)*g.Width]
}

// ToImage converts the grid to a grayscale image. Grid (row i, column j)
// becomes image pixel (x=j, y=i).
func (g *PixelGrid) ToImage() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, g.Width, g.Height))
	for i := 0; i < g.Height; i++ {
		copy(img.Pix[i*img.Stride:i*img.Stride+g.Width], g.Row(i))
	}
	return img
}

// Format is an output image encoding.
type Format int

const (
	FormatPNG Format = iota
	FormatJPEG
)

// FormatFromPath picks the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return FormatPNG, nil
	case ".jpg", ".jpeg":
		return FormatJPEG, nil
	default:
		return 0, fmt.Errorf("unsupported image format %q: %w", ext, ErrOutputWrite)
	}
}

// Encode writes the grid to w.
func (g *PixelGrid) Encode(w io.Writer, format Format) error {
	var err error
	switch format {
	case FormatJPEG:
		err = jpeg.Encode(w, g.ToImage(), &jpeg.Options{Quality: 95})
	default:
		err = png.Encode(w, g.ToImage())
	}
	if err != nil {
		return fmt.Errorf("encode: %w: %w", ErrOutputWrite, err)
	}
	return nil
}

// Save writes the grid to path as PNG or JPEG depending on the extension.
func (g *PixelGrid) Save(path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w: %w", path, ErrOutputWrite, err)
	}
	if err := g.Encode(f, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w: %w", path, ErrOutputWrite, err)
	}
	return nil
}
