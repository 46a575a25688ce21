package bitconv

import (
	"errors"
	"fmt"
	"iter"
)

var ErrFraming = errors.New("bit count is not a multiple of 8")

// Bits yields the bits of data, eight per byte, most significant bit first.
// The sequence is a pure function of data and can be ranged over any number of times.
func Bits(data []byte) iter.Seq[bool] {
	return func(yield func(bool) bool) {
		for _, bb := range data {
			for i := 7; i >= 0; i-- {
				if !yield(((bb >> uint(i)) & 1) == 1) {
					return
				}
			}
		}
	}
}

func BytesToBools(b []byte) []bool {
	bits := make([]bool, 0, len(b)*8)
	for bit := range Bits(b) {
		bits = append(bits, bit)
	}
	return bits
}

// BoolsToBytes packs every group of 8 bits into one byte, the first bit of
// the group becoming the most significant bit.
func BoolsToBytes(bits []bool) ([]byte, error) {
	if n := len(bits); n%8 != 0 {
		return nil, fmt.Errorf("%w: got %d bits", ErrFraming, n)
	}
	out := make([]byte, len(bits)/8)
	for i := range out {
		var v byte
		for j := range 8 {
			if bits[i*8+j] {
				v |= 1 << uint(7-j)
			}
		}
		out[i] = v
	}
	return out, nil
}

// SetLSB replaces bit 0 of v with bit.
func SetLSB(v uint8, bit bool) uint8 {
	v &^= 1
	if bit {
		v |= 1
	}
	return v
}

func LSB(v uint8) bool {
	return v&1 == 1
}
