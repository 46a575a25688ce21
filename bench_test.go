package stegano_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/yyyoichi/stegano"
)

func BenchmarkEmbed(b *testing.B) {
	test := []struct {
		name          string
		width, height int
		text          string
	}{
		{name: "HD_short", width: 1280, height: 720, text: "TEST_SECRET"},
		{name: "FHD_short", width: 1920, height: 1080, text: "TEST_SECRET"},
		{name: "FHD_64KiB", width: 1920, height: 1080, text: strings.Repeat("s", 64<<10)},
	}
	ctx := b.Context()
	for _, tt := range test {
		img := createImage(tt.width, tt.height)
		b.Run(tt.name, func(b *testing.B) {
			for b.Loop() {
				dist, err := stegano.Embed(ctx, img, tt.text)
				if err != nil {
					b.Fatalf("Failed to embed secret (%s): %v", tt.name, err)
				}
				_ = dist
			}
		})
	}
}

func BenchmarkBatchEmbed(b *testing.B) {
	ctx := b.Context()
	batch := stegano.NewBatch(createImage(1920, 1080))
	for b.Loop() {
		if _, err := batch.Embed(ctx, "TEST_SECRET"); err != nil {
			b.Fatalf("Failed to embed secret: %v", err)
		}
	}
}

func BenchmarkExtract(b *testing.B) {
	ctx := b.Context()
	for _, size := range [][2]int{{1280, 720}, {1920, 1080}} {
		marked, err := stegano.Embed(ctx, createImage(size[0], size[1]), "TEST_SECRET")
		if err != nil {
			b.Fatalf("Failed to embed secret: %v", err)
		}
		b.Run(fmt.Sprintf("%dx%d", size[0], size[1]), func(b *testing.B) {
			for b.Loop() {
				if _, err := stegano.Extract(ctx, marked); err != nil {
					b.Fatalf("Failed to extract secret: %v", err)
				}
			}
		})
	}
}
