// Package stegano hides UTF-8 text in the least significant bits of an image's
// red, green and blue channels and recovers it again.
//
// The payload is prefixed with its length as a 32-bit big-endian integer and the
// resulting bits, most significant first, are written one per channel in raster
// order. Alpha is never modified. The result must be stored in a lossless format.
package stegano

import (
	"context"
	"fmt"
	"image"

	"github.com/yyyoichi/stegano/internal/bitconv"
	"github.com/yyyoichi/stegano/internal/frame"
	"github.com/yyyoichi/stegano/internal/lsb"
	"github.com/yyyoichi/stegano/secret"
)

// HeaderBits is the size of the payload length prefix.
const HeaderBits = frame.HeaderBits

var (
	ErrFraming          = bitconv.ErrFraming
	ErrPayloadTooLarge  = frame.ErrPayloadTooLarge
	ErrCapacityExceeded = lsb.ErrCapacityExceeded
	ErrCorruptImage     = frame.ErrCorruptImage
)

// Embed hides text in src and returns the resulting image. src is not modified.
// Returns ErrCapacityExceeded if the image has too few channels for the text.
func Embed(ctx context.Context, src image.Image, text string) (image.Image, error) {
	return NewBatch(src).Embed(ctx, text)
}

// EmbedBytes hides an arbitrary payload in src.
func EmbedBytes(ctx context.Context, src image.Image, payload []byte) (image.Image, error) {
	return NewBatch(src).EmbedBytes(ctx, payload)
}

// Extract recovers text hidden by Embed. Invalid UTF-8 is replaced with U+FFFD.
// Returns ErrCorruptImage if the image does not carry a complete payload.
func Extract(ctx context.Context, src image.Image) (string, error) {
	return NewBatch(src).Extract(ctx)
}

// ExtractBytes recovers the raw payload hidden by EmbedBytes.
func ExtractBytes(ctx context.Context, src image.Image) ([]byte, error) {
	return NewBatch(src).ExtractBytes(ctx)
}

// Capacity returns the number of bits an image with bounds rect can carry,
// header included.
func Capacity(rect image.Rectangle) int {
	return lsb.RectCapacity(rect)
}

// MaxPayload returns the largest payload, in bytes, that fits an image with bounds rect.
func MaxPayload(rect image.Rectangle) int {
	return maxPayload(Capacity(rect))
}

func maxPayload(capacity int) int {
	if capacity < HeaderBits {
		return 0
	}
	return (capacity - HeaderBits) / 8
}

// Batch decodes an image once and allows several payloads to be embedded into
// independent copies of it. A Batch is safe for concurrent use.
type Batch struct {
	original lsb.Grid
}

// NewBatch converts src into the 8-bit channel layout used for embedding.
func NewBatch(src image.Image) *Batch {
	return &Batch{original: lsb.NewGrid(src)}
}

// Capacity returns the number of bits the image can carry, header included.
func (b *Batch) Capacity() int {
	return b.original.Capacity()
}

// MaxPayload returns the largest payload, in bytes, that fits the image.
func (b *Batch) MaxPayload() int {
	return maxPayload(b.Capacity())
}

// Channels reports 3 for opaque images and 4 for images with transparency.
func (b *Batch) Channels() int {
	return b.original.Channels()
}

// Embed hides text in a copy of the cached image.
func (b *Batch) Embed(ctx context.Context, text string) (image.Image, error) {
	payload, err := secret.Encode(text)
	if err != nil {
		return nil, fmt.Errorf("encode text: %w", err)
	}
	return b.EmbedBytes(ctx, payload)
}

// EmbedBytes hides payload in a copy of the cached image.
func (b *Batch) EmbedBytes(ctx context.Context, payload []byte) (image.Image, error) {
	s, err := frame.Frame(payload)
	if err != nil {
		return nil, err
	}
	if err := lsb.Enable(b.original, s.Len()); err != nil {
		return nil, fmt.Errorf("%w: %d byte payload, at most %d bytes fit", err, len(payload), b.MaxPayload())
	}
	dist, err := lsb.Embed(ctx, b.original, s)
	if err != nil {
		return nil, err
	}
	return dist.Build(), nil
}

// Extract recovers text from the cached image.
func (b *Batch) Extract(ctx context.Context) (string, error) {
	payload, err := b.ExtractBytes(ctx)
	if err != nil {
		return "", err
	}
	return secret.Decode(payload), nil
}

// ExtractBytes recovers the raw payload from the cached image.
func (b *Batch) ExtractBytes(ctx context.Context) ([]byte, error) {
	s, err := lsb.Extract(ctx, b.original)
	if err != nil {
		return nil, err
	}
	payload, err := frame.Unframe(s)
	if err != nil {
		return nil, fmt.Errorf("extract %dx%d image: %w", b.original.Width(), b.original.Height(), err)
	}
	return payload, nil
}
