package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw paints the grid onto terminal cells. Each terminal row covers two
// grid rows using ▀ with fg = upper row and bg = lower row, so the grid
// height should be 2x the area height.
func (g *PixelGrid) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1
		if topY >= g.Height {
			break
		}

		for col := area.Min.X; col < area.Max.X && col-area.Min.X < g.Width; col++ {
			x := col - area.Min.X
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: gray(g.At(topY, x)),
				},
			}
			if botY < g.Height {
				cell.Style.Bg = gray(g.At(botY, x))
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// Preview downsamples the grid to cols terminal columns (keeping the
// aspect ratio with half-block rows) and returns it as an ANSI string.
func Preview(g *PixelGrid, cols int) string {
	if cols <= 0 || cols > g.Width {
		cols = g.Width
	}
	small := g.Downsample(cols)
	rows := (small.Height + 1) / 2

	scr := uv.NewScreenBuffer(small.Width, rows)
	small.Draw(scr, uv.Rect(0, 0, small.Width, rows))
	return scr.Render()
}

// Downsample returns a nearest-neighbour copy of the grid scaled to cols columns.
func (g *PixelGrid) Downsample(cols int) *PixelGrid {
	if cols <= 0 || cols >= g.Width {
		out := NewPixelGrid(g.Width, g.Height)
		copy(out.Pix, g.Pix)
		return out
	}

	rows := max(g.Height*cols/g.Width, 1)
	out := NewPixelGrid(cols, rows)
	for i := range rows {
		src := g.Row(i * g.Height / rows)
		dst := out.Row(i)
		for j := range cols {
			dst[j] = src[j*g.Width/cols]
		}
	}
	return out
}

func gray(v uint8) color.Color {
	return color.Gray{Y: v}
}
