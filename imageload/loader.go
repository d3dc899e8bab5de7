// SPDX-License-Identifier: EPL-2.0

// Package imageload fetches and decodes bitmap images.
//
// PNG, JPEG and GIF come from the standard library; BMP, TIFF and WebP are
// registered from golang.org/x/image.
package imageload

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/sirupsen/logrus"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Fetcher is the network stage the loader reads through.
type Fetcher interface {
	Fetch(ctx context.Context, locator string) ([]byte, error)
}

// Image is a decoded bitmap together with the codec that produced it.
type Image struct {
	image.Image
	Format string
}

// Loader turns locators into decoded images. Every call is independent;
// nothing is cached and nothing is retried.
type Loader struct {
	fetcher Fetcher
	log     logrus.FieldLogger
}

func New(fetcher Fetcher, log logrus.FieldLogger) *Loader {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Loader{fetcher: fetcher, log: log}
}

// Load fetches locator and decodes it. A fetch failure is returned as the
// fetcher reported it; a decode failure wraps ErrImageDecode.
func (l *Loader) Load(ctx context.Context, locator string) (*Image, error) {
	data, err := l.fetcher.Fetch(ctx, locator)
	if err != nil {
		return nil, err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrImageDecode, locator, err)
	}

	b := img.Bounds()
	l.log.WithFields(logrus.Fields{
		"locator": locator,
		"format":  format,
		"width":   b.Dx(),
		"height":  b.Dy(),
	}).Debug("image loaded")

	return &Image{Image: img, Format: format}, nil
}

// ToRGBA returns img as a tightly packed RGBA bitmap with its origin at
// (0, 0), the layout texture uploads expect.
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) && rgba.Stride == 4*b.Dx() {
		return rgba
	}

	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)

	return dst
}
