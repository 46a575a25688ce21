package stegano_test

import (
	"context"
	"image"
	"image/color"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yyyoichi/stegano"
)

func createImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			r := uint8((x * 255) / max(width, 1))
			g := uint8((y * 255) / max(height, 1))
			b := uint8(((x + y) * 255) / max(width+height, 1))
			img.Set(x, y, color.RGBA{r, g, b, 255})
		}
	}
	return img
}

func createTranslucentImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 7), uint8(y * 13), uint8(x ^ y), uint8(x*y) | 1})
		}
	}
	return img
}

func TestEmbedExtract(t *testing.T) {
	ctx := context.Background()
	test := []struct {
		name string
		src  image.Image
		text string
	}{
		{"empty", createImage(11, 1), ""},
		{"ascii", createImage(64, 64), "Hello, World!"},
		{"utf8", createImage(64, 64), "こんにちは🍣"},
		{"long", createImage(200, 100), strings.Repeat("lorem ipsum ", 500)},
		{"translucent", createTranslucentImage(40, 40), "keeps alpha"},
		{"gray", image.NewGray(image.Rect(0, 0, 30, 30)), "gray cover"},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			marked, err := stegano.Embed(ctx, tt.src, tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.src.Bounds(), marked.Bounds())

			got, err := stegano.Extract(ctx, marked)
			require.NoError(t, err)
			assert.Equal(t, tt.text, got)
		})
	}
}

func TestEmbedKeepsAlpha(t *testing.T) {
	src := createTranslucentImage(32, 16)
	marked, err := stegano.Embed(context.Background(), src, "alpha must stay")
	require.NoError(t, err)
	dist, ok := marked.(*image.NRGBA)
	require.True(t, ok)
	for i := 3; i < len(src.Pix); i += 4 {
		assert.Equal(t, src.Pix[i], dist.Pix[i], "alpha at %d", i/4)
	}
}

func TestEmbedDoesNotModifySource(t *testing.T) {
	src := createImage(20, 20)
	before := append([]uint8(nil), src.Pix...)
	_, err := stegano.Embed(context.Background(), src, "hello")
	require.NoError(t, err)
	assert.Equal(t, before, src.Pix)
}

func TestEmbedCapacityExceeded(t *testing.T) {
	ctx := context.Background()
	test := []struct {
		name          string
		width, height int
		text          string
	}{
		{"2x2 empty", 2, 2, ""},
		{"4x3 one byte", 4, 3, "A"},
		{"13x1 one byte", 13, 1, "A"},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			_, err := stegano.Embed(ctx, createImage(tt.width, tt.height), tt.text)
			assert.ErrorIs(t, err, stegano.ErrCapacityExceeded)
		})
	}

	t.Run("14x1 one byte", func(t *testing.T) {
		marked, err := stegano.Embed(ctx, createImage(14, 1), "A")
		require.NoError(t, err)
		got, err := stegano.Extract(ctx, marked)
		require.NoError(t, err)
		assert.Equal(t, "A", got)
	})
}

func TestExtractCorrupt(t *testing.T) {
	ctx := context.Background()
	t.Run("too small for header", func(t *testing.T) {
		_, err := stegano.Extract(ctx, createImage(2, 2))
		assert.ErrorIs(t, err, stegano.ErrCorruptImage)
	})
	t.Run("header overruns image", func(t *testing.T) {
		img := image.NewRGBA(image.Rect(0, 0, 16, 16))
		for i := range img.Pix {
			img.Pix[i] = 0xff
		}
		_, err := stegano.Extract(ctx, img)
		assert.ErrorIs(t, err, stegano.ErrCorruptImage)
	})
}

func TestExtractInvalidUTF8(t *testing.T) {
	ctx := context.Background()
	marked, err := stegano.EmbedBytes(ctx, createImage(16, 16), []byte{'o', 'k', 0xff})
	require.NoError(t, err)

	raw, err := stegano.ExtractBytes(ctx, marked)
	require.NoError(t, err)
	assert.Equal(t, []byte{'o', 'k', 0xff}, raw)

	text, err := stegano.Extract(ctx, marked)
	require.NoError(t, err)
	assert.Equal(t, "ok�", text)
}

func TestCapacity(t *testing.T) {
	test := []struct {
		rect       image.Rectangle
		capacity   int
		maxPayload int
	}{
		{image.Rect(0, 0, 0, 0), 0, 0},
		{image.Rect(0, 0, 2, 2), 12, 0},
		{image.Rect(0, 0, 4, 3), 36, 0},
		{image.Rect(0, 0, 14, 1), 42, 1},
		{image.Rect(10, 10, 26, 12), 96, 8},
		{image.Rect(0, 0, 1920, 1080), 6220800, 777596},
	}
	for _, tt := range test {
		assert.Equal(t, tt.capacity, stegano.Capacity(tt.rect), "%v", tt.rect)
		assert.Equal(t, tt.maxPayload, stegano.MaxPayload(tt.rect), "%v", tt.rect)
	}
}

func TestBatch(t *testing.T) {
	ctx := context.Background()
	batch := stegano.NewBatch(createImage(64, 32))
	assert.Equal(t, 64*32*3, batch.Capacity())
	assert.Equal(t, (64*32*3-32)/8, batch.MaxPayload())
	assert.Equal(t, 3, batch.Channels())

	texts := []string{"first", "second", "third", "fourth", ""}
	var wg sync.WaitGroup
	results := make([]string, len(texts))
	errs := make([]error, len(texts))
	for i, text := range texts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			marked, err := batch.Embed(ctx, text)
			if err != nil {
				errs[i] = err
				return
			}
			results[i], errs[i] = stegano.Extract(ctx, marked)
		}()
	}
	wg.Wait()
	for i := range texts {
		require.NoError(t, errs[i])
		assert.Equal(t, texts[i], results[i])
	}

	// the cached cover carries no payload
	_, err := batch.Extract(ctx)
	assert.Error(t, err)

	_, err = batch.Embed(ctx, strings.Repeat("x", batch.MaxPayload()+1))
	assert.ErrorIs(t, err, stegano.ErrCapacityExceeded)
	_, err = batch.Embed(ctx, strings.Repeat("x", batch.MaxPayload()))
	assert.NoError(t, err)
}
