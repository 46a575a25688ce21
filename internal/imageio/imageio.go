// Package imageio loads cover images from disk or http(s) URLs and stores
// stego images in lossless formats.
package imageio

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/yyyoichi/httpcache-go"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported output format, use .png, .bmp or .tiff")
	ErrFetch             = errors.New("failed to fetch image")
)

// Format returns the lossless encoder used for path, based on its extension.
func Format(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return "png", nil
	case ".bmp":
		return "bmp", nil
	case ".tif", ".tiff":
		return "tiff", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Open decodes the image stored at path.
func Open(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// Save encodes img to path. The file is written to a temporary name in the
// same directory and renamed on success, so a failed Save never leaves a
// partial file behind.
func Save(path string, img image.Image) (err error) {
	format, err := Format(path)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".stegano-*"+filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = encode(tmp, format, img); err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}

func encode(w io.Writer, format string, img image.Image) error {
	switch format {
	case "png":
		return png.Encode(w, img)
	case "bmp":
		return bmp.Encode(w, img)
	case "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// Loader opens images from local paths or http(s) URLs.
// Downloaded images are kept in an on-disk cache.
type Loader struct {
	client httpcache.Client
}

// NewLoader returns a Loader caching downloads under cacheDir.
func NewLoader(cacheDir string) *Loader {
	return &Loader{
		client: httpcache.Client{
			Client:  http.DefaultClient,
			Cache:   httpcache.NewStorageCache(cacheDir),
			Handler: httpcache.NewDefaultHandler(),
		},
	}
}

// Load decodes the image at location, which is a file path or an http(s) URL.
func (l *Loader) Load(ctx context.Context, location string) (image.Image, error) {
	if !IsURL(location) {
		return Open(location)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: bad status: %d", ErrFetch, resp.StatusCode)
	}
	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

func IsURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
