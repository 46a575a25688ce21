package lsb

import (
	"errors"
	"fmt"
	"image"
)

// ChannelsPerPixel is the number of channels per pixel that carry a payload bit.
// A fourth (alpha) channel is never used.
const ChannelsPerPixel = 3

var ErrCapacityExceeded = errors.New("payload exceeds the image capacity")

// Capacity returns the number of bits a width x height image can carry.
func Capacity(width, height int) int {
	return width * height * ChannelsPerPixel
}

func RectCapacity(rect image.Rectangle) int {
	return Capacity(rect.Dx(), rect.Dy())
}

func (g Grid) Capacity() int {
	return Capacity(g.width, g.height)
}

// Enable reports whether bits fit in g.
func Enable(g Grid, bits int) error {
	if total := g.Capacity(); total < bits {
		return fmt.Errorf("%w: need %d bits, image holds %d", ErrCapacityExceeded, bits, total)
	}
	return nil
}
