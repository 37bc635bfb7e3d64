// Package converter re-encodes raw uploaded bytes into the configured target
// format on disk. It knows nothing about HTTP or persistence: it is handed an
// id and bytes and reports a single success/failure outcome.
package converter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"

	// Importing imaging registers gif, jpeg, png, tiff and bmp decoders with
	// the image package.
	"github.com/disintegration/imaging"
	"golang.org/x/sync/semaphore"

	"imageconv/internal/config"
)

var (
	// ErrDecode means the payload could not be decoded as an image.
	ErrDecode = errors.New("image decode failed")
	// ErrEncode means encoding or writing the output file failed.
	ErrEncode = errors.New("image encode failed")
)

// ResizeOptions carries the full parameter set for a resizing conversion.
// A nil *ResizeOptions means convert-only: no resize, default encode quality.
type ResizeOptions struct {
	Quality int
	Width   int
	Height  int
}

// Converter converts uploaded bytes and writes the result under its images
// directory. Transforms are CPU-bound, so concurrency is capped by a weighted
// semaphore; Process blocks the caller but never more than maxParallel
// transforms run at once.
type Converter struct {
	path      string
	format    string
	extension string
	sem       *semaphore.Weighted
}

// New creates a Converter and ensures the images directory exists.
func New(cfg config.ImagesConfig, maxParallel int) (*Converter, error) {
	if maxParallel < 1 {
		maxParallel = 1
	}
	if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create images dir: %w", err)
	}
	return &Converter{
		path:      cfg.Path,
		format:    cfg.Format,
		extension: cfg.Extension,
		sem:       semaphore.NewWeighted(int64(maxParallel)),
	}, nil
}

// FilePath returns the by-convention location of the converted file for id.
func (c *Converter) FilePath(id string) string {
	return filepath.Join(c.path, id+"."+c.extension)
}

// Process decodes raw, converts it to the target format, optionally resizes,
// and writes the result to FilePath(id). The transform runs in its own
// goroutine under the semaphore and the caller awaits its outcome, so heavy
// pixel work stays off the request-handling path while failure still reports
// back as a single error.
func (c *Converter) Process(ctx context.Context, raw []byte, id string, opts *ResizeOptions) error {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() {
		defer c.sem.Release(1)
		done <- c.transform(raw, id, opts)
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Converter) transform(raw []byte, id string, opts *ResizeOptions) error {
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}

	if format != c.format {
		img = flatten(img)
	}

	if opts != nil {
		resized := imaging.Resize(img, opts.Width, opts.Height, imaging.Lanczos)
		err = imaging.Save(resized, c.FilePath(id), imaging.JPEGQuality(opts.Quality))
	} else {
		err = imaging.Save(img, c.FilePath(id))
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return nil
}

// flatten redraws img over an opaque background so sources with an alpha
// channel (png, gif) encode cleanly into formats without one.
func flatten(img image.Image) image.Image {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Over)
	return out
}
