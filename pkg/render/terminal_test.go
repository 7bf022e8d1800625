package render

import (
	"image/color"
	"strings"
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
)

func TestPixelGridDraw(t *testing.T) {
	g := NewPixelGrid(2, 3)
	g.Set(0, 0, 10)
	g.Set(1, 0, 20)
	g.Set(2, 1, 30)

	scr := uv.NewScreenBuffer(2, 2)
	g.Draw(scr, uv.Rect(0, 0, 2, 2))

	tests := []struct {
		name   string
		x, y   int
		fg, bg color.Color
	}{
		{"upper left", 0, 0, color.Gray{Y: 10}, color.Gray{Y: 20}},
		{"upper right", 1, 0, color.Gray{Y: 0}, color.Gray{Y: 0}},
		// Odd height: the last terminal row has no lower half.
		{"lower right", 1, 1, color.Gray{Y: 30}, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cell := scr.CellAt(tc.x, tc.y)
			if cell == nil {
				t.Fatal("nil cell")
			}
			if cell.Content != "▀" {
				t.Errorf("Content = %q, want ▀", cell.Content)
			}
			if cell.Style.Fg != tc.fg {
				t.Errorf("Fg = %v, want %v", cell.Style.Fg, tc.fg)
			}
			if cell.Style.Bg != tc.bg {
				t.Errorf("Bg = %v, want %v", cell.Style.Bg, tc.bg)
			}
		})
	}
}

func TestPixelGridDrawOffset(t *testing.T) {
	g := NewPixelGrid(1, 2)
	g.Set(0, 0, 99)

	scr := uv.NewScreenBuffer(4, 3)
	g.Draw(scr, uv.Rect(2, 1, 2, 2))

	if cell := scr.CellAt(2, 1); cell == nil || cell.Style.Fg != (color.Gray{Y: 99}) {
		t.Errorf("cell at area origin = %+v", cell)
	}
	// The grid is one column wide, so the rest of the area is untouched.
	if cell := scr.CellAt(3, 1); cell != nil && cell.Content == "▀" {
		t.Error("drew past the grid width")
	}
}

func TestDownsample(t *testing.T) {
	g := NewPixelGrid(8, 4)
	for i := range 4 {
		for j := range 8 {
			g.Set(i, j, uint8(i*10+j))
		}
	}

	small := g.Downsample(4)
	if small.Width != 4 || small.Height != 2 {
		t.Fatalf("size = %dx%d, want 4x2", small.Width, small.Height)
	}
	if got, want := small.At(1, 3), g.At(2, 6); got != want {
		t.Errorf("At(1, 3) = %d, want %d", got, want)
	}

	same := g.Downsample(0)
	same.Set(0, 0, 255)
	if g.At(0, 0) == 255 {
		t.Error("Downsample(0) shares pixels with the source")
	}
}

func TestPreview(t *testing.T) {
	g := NewPixelGrid(16, 8)
	for i := range g.Pix {
		g.Pix[i] = uint8(i)
	}

	out := Preview(g, 8)
	// 8 columns, 4 source rows, 2 terminal rows.
	if n := strings.Count(out, "▀"); n != 16 {
		t.Errorf("half blocks = %d, want 16", n)
	}
	if !strings.Contains(out, "\x1b[") {
		t.Error("preview has no color escapes")
	}
}
