package heatmap

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	colorful "github.com/lucasb-eyer/go-colorful"
)

const defaultCellSize = 40

// Render paints the grid onto an RGBA image, one square per cell, with a
// weight-to-hue ramp from cold blue (240°) to hot red (0°). Empty cells stay
// dark.
func Render(g Grid, cellSize int) *image.RGBA {
	if cellSize <= 0 {
		cellSize = defaultCellSize
	}
	img := image.NewRGBA(image.Rect(0, 0, g.Cols*cellSize, g.Rows*cellSize))
	max := g.MaxWeight()

	background := color.RGBA{R: 16, G: 16, B: 24, A: 255}
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			cell := g.At(col, row)
			c := background
			if cell.Weight > 0 && max > 0 {
				c = rampColor(cell.Weight / max)
			}
			fillCell(img, col, row, cellSize, c)
		}
	}
	return img
}

// rampColor maps a normalized weight in [0,1] to the blue-to-red hue ramp.
func rampColor(t float64) color.RGBA {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	hue := 240 * (1 - t) // 240 = blue, 0 = red
	r, g, b := colorful.Hsv(hue, 0.9, 0.35+0.65*t).RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func fillCell(img *image.RGBA, col, row, size int, c color.RGBA) {
	x0 := col * size
	y0 := row * size
	for y := y0; y < y0+size; y++ {
		for x := x0; x < x0+size; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

// WritePNG encodes the image to a file.
func WritePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
