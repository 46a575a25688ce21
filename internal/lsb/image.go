package lsb

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

var ErrInvalidGrid = errors.New("invalid pixel grid")

// Grid is a decoded image held as 8-bit channel values in row-major raster order.
// Every pixel has the same number of channels: 3 (RGB) or 4 (RGBA).
type Grid struct {
	bounds        image.Rectangle
	width, height int
	area          int
	channels      int

	// R,G,B[,A] per pixel
	pix []uint8
}

// NewGrid converts src into a Grid. Colors are converted to non-premultiplied
// 8-bit RGBA so that alpha never alters the stored color values.
// The grid has 4 channels if any pixel is not fully opaque, 3 otherwise.
func NewGrid(src image.Image) Grid {
	var g Grid
	g.bounds = src.Bounds()
	g.width, g.height = g.bounds.Dx(), g.bounds.Dy()
	g.area = g.width * g.height

	rgba := make([]color.NRGBA, g.area)
	opaque := true
	idx := 0
	for y := g.bounds.Min.Y; y < g.bounds.Max.Y; y++ {
		for x := g.bounds.Min.X; x < g.bounds.Max.X; x++ {
			c := nrgbaAt(src, x, y)
			if c.A != 0xff {
				opaque = false
			}
			rgba[idx] = c
			idx++
		}
	}

	g.channels = 4
	if opaque {
		g.channels = 3
	}
	g.pix = make([]uint8, g.area*g.channels)
	for i, c := range rgba {
		p := g.pix[i*g.channels : (i+1)*g.channels]
		p[0], p[1], p[2] = c.R, c.G, c.B
		if g.channels == 4 {
			p[3] = c.A
		}
	}
	return g
}

func nrgbaAt(src image.Image, x, y int) color.NRGBA {
	if img, ok := src.(*image.NRGBA); ok {
		return img.NRGBAAt(x, y)
	}
	return color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
}

// FromPix builds a Grid from raw channel values laid out in raster order.
// pix is used as-is, not copied.
func FromPix(width, height, channels int, pix []uint8) (Grid, error) {
	if width < 0 || height < 0 {
		return Grid{}, fmt.Errorf("%w: negative size %dx%d", ErrInvalidGrid, width, height)
	}
	if channels != 3 && channels != 4 {
		return Grid{}, fmt.Errorf("%w: %d channels, want 3 or 4", ErrInvalidGrid, channels)
	}
	if want := width * height * channels; len(pix) != want {
		return Grid{}, fmt.Errorf("%w: %d values, want %d", ErrInvalidGrid, len(pix), want)
	}
	return Grid{
		bounds:   image.Rect(0, 0, width, height),
		width:    width,
		height:   height,
		area:     width * height,
		channels: channels,
		pix:      pix,
	}, nil
}

func (g Grid) Width() int    { return g.width }
func (g Grid) Height() int   { return g.height }
func (g Grid) Channels() int { return g.channels }
func (g Grid) Len() int      { return g.area }

func (g Grid) Bounds() image.Rectangle { return g.bounds }

// Pixel returns the channel values of the i-th pixel in raster order.
// The returned slice aliases the grid.
func (g Grid) Pixel(i int) []uint8 {
	return g.pix[i*g.channels : (i+1)*g.channels : (i+1)*g.channels]
}

// Pix returns a copy of all channel values.
func (g Grid) Pix() []uint8 {
	tmp := make([]uint8, len(g.pix))
	_ = copy(tmp, g.pix)
	return tmp
}

func (g Grid) Copy() Grid {
	g.pix = g.Pix()
	return g
}

// Build renders the grid as an image with the bounds it was created from.
func (g Grid) Build() *image.NRGBA {
	var dist = image.NewNRGBA(g.bounds)
	idx := 0
	for y := range g.height {
		for x := range g.width {
			p := g.Pixel(idx)
			c := color.NRGBA{R: p[0], G: p[1], B: p[2], A: 0xff}
			if g.channels == 4 {
				c.A = p[3]
			}
			dist.SetNRGBA(g.bounds.Min.X+x, g.bounds.Min.Y+y, c)
			idx++
		}
	}
	return dist
}
