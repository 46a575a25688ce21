package frame

import (
	"iter"

	"github.com/yyyoichi/bitstream-go"
)

// Stream is a finite, ordered, read-only sequence of bits packed into uint64 words.
type Stream struct {
	reader *bitstream.BitReader[uint64]
}

// NewStream seals everything written to w so far into a Stream.
// Writing to w afterwards does not affect the Stream.
func NewStream(w *bitstream.BitWriter[uint64]) Stream {
	reader := bitstream.NewBitReader(w.Data(), 0, 0)
	reader.SetBits(w.Bits())
	return Stream{reader: reader}
}

func (s Stream) Len() int {
	if s.reader == nil {
		return 0
	}
	return s.reader.Bits()
}

// At returns the bit at position i. i must be in [0, Len()).
func (s Stream) At(i int) bool {
	bit, _ := s.reader.ReadBitAt(i)
	return bit
}

func (s Stream) All() iter.Seq[bool] {
	return func(yield func(bool) bool) {
		for i := range s.Len() {
			if !yield(s.At(i)) {
				return
			}
		}
	}
}

// Slice copies the bits in [from, to) out of the stream.
func (s Stream) Slice(from, to int) []bool {
	bits := make([]bool, 0, to-from)
	for i := from; i < to; i++ {
		bits = append(bits, s.At(i))
	}
	return bits
}
