package lsb

import (
	"context"

	"github.com/yyyoichi/bitstream-go"
	"github.com/yyyoichi/stegano/internal/bitconv"
	"github.com/yyyoichi/stegano/internal/frame"
)

// Embed writes the bits of s into the least significant bit of channels 0, 1 and 2
// of each pixel of src, in raster order, and returns the result as a new grid.
// Channels past the end of s and every alpha channel keep their values.
// src is never modified; if s does not fit, ErrCapacityExceeded is returned.
func Embed(ctx context.Context, src Grid, s frame.Stream) (Grid, error) {
	if err := ctx.Err(); err != nil {
		return Grid{}, err
	}
	if err := Enable(src, s.Len()); err != nil {
		return Grid{}, err
	}

	dist := src.Copy()
	var (
		total = s.Len()
		at    = 0
	)
	for i := 0; i < dist.area && at < total; i++ {
		p := dist.Pixel(i)
		for c := 0; c < ChannelsPerPixel && at < total; c++ {
			p[c] = bitconv.SetLSB(p[c], s.At(at))
			at++
		}
	}
	return dist, nil
}

// Extract reads the least significant bit of channels 0, 1 and 2 of every pixel of src
// in raster order. The whole grid is always read.
func Extract(ctx context.Context, src Grid) (frame.Stream, error) {
	if err := ctx.Err(); err != nil {
		return frame.Stream{}, err
	}
	w := bitstream.NewBitWriter[uint64](0, 0)
	for i := range src.area {
		p := src.Pixel(i)
		for c := range ChannelsPerPixel {
			w.WriteBool(bitconv.LSB(p[c]))
		}
	}
	return frame.NewStream(w), nil
}
