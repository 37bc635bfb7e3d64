package converter

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imageconv/internal/config"
)

func newTestConverter(t *testing.T) *Converter {
	t.Helper()
	c, err := New(config.ImagesConfig{
		Path:      t.TempDir(),
		Format:    "jpeg",
		Extension: "jpg",
	}, 2)
	require.NoError(t, err)
	return c
}

// pngBytes encodes a w×h test image as PNG.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 16), G: uint8(y * 16), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodeFile(t *testing.T, path string) (image.Image, string) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, format, err := image.Decode(f)
	require.NoError(t, err)
	return img, format
}

func TestProcess_ResizeAndRecompress(t *testing.T) {
	c := newTestConverter(t)
	ctx := context.Background()

	raw := pngBytes(t, 16, 12)
	err := c.Process(ctx, raw, "img-1", &ResizeOptions{Quality: 80, Width: 8, Height: 6})
	assert.NoError(t, err)

	out, format := decodeFile(t, c.FilePath("img-1"))
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 8, out.Bounds().Dx())
	assert.Equal(t, 6, out.Bounds().Dy())
}

func TestProcess_NoParamsKeepsDimensions(t *testing.T) {
	c := newTestConverter(t)
	ctx := context.Background()

	raw := pngBytes(t, 16, 12)
	err := c.Process(ctx, raw, "img-2", nil)
	assert.NoError(t, err)

	out, format := decodeFile(t, c.FilePath("img-2"))
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 16, out.Bounds().Dx())
	assert.Equal(t, 12, out.Bounds().Dy())
}

func TestProcess_DecodeError(t *testing.T) {
	c := newTestConverter(t)

	err := c.Process(context.Background(), []byte("definitely not an image"), "img-3", nil)

	assert.ErrorIs(t, err, ErrDecode)
	_, statErr := os.Stat(c.FilePath("img-3"))
	assert.True(t, os.IsNotExist(statErr), "no file should be written on decode failure")
}

func TestProcess_CancelledContext(t *testing.T) {
	c := newTestConverter(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Process(ctx, pngBytes(t, 4, 4), "img-4", nil)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestFilePath(t *testing.T) {
	c := newTestConverter(t)

	got := c.FilePath("abc")

	assert.Equal(t, "abc.jpg", filepath.Base(got))
}
