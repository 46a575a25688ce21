package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/yyyoichi/bitstream-go"
	"github.com/yyyoichi/stegano/internal/bitconv"
)

// HeaderBits is the width of the big-endian payload length prefix.
const HeaderBits = 32

var (
	ErrPayloadTooLarge = errors.New("payload length does not fit in the header")
	ErrCorruptImage    = errors.New("image truncated or contains no valid payload")
)

// Frame returns the bits of the payload length as a 32-bit big-endian integer
// followed by the payload itself, most significant bit first.
func Frame(payload []byte) (Stream, error) {
	if uint64(len(payload)) > math.MaxUint32 {
		return Stream{}, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(payload))
	}
	header := binary.BigEndian.AppendUint32(nil, uint32(len(payload)))

	w := bitstream.NewBitWriter[uint64](0, 0)
	for bit := range bitconv.Bits(header) {
		w.WriteBool(bit)
	}
	for bit := range bitconv.Bits(payload) {
		w.WriteBool(bit)
	}
	return NewStream(w), nil
}

// Len reports how many bits Frame produces for a payload of n bytes.
func Len(n int) int {
	return HeaderBits + n*8
}

// Unframe reads the length header from s and returns the payload bytes that follow it.
// Bits after the payload are ignored.
func Unframe(s Stream) ([]byte, error) {
	if s.Len() < HeaderBits {
		return nil, fmt.Errorf("%w: %d bits available, header needs %d", ErrCorruptImage, s.Len(), HeaderBits)
	}
	header, err := bitconv.BoolsToBytes(s.Slice(0, HeaderBits))
	if err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(header)

	end := uint64(HeaderBits) + uint64(n)*8
	if end > uint64(s.Len()) {
		return nil, fmt.Errorf("%w: header declares %d bytes, %d bits available", ErrCorruptImage, n, s.Len()-HeaderBits)
	}
	return bitconv.BoolsToBytes(s.Slice(HeaderBits, int(end)))
}
