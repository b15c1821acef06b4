// Package imaging normalises relayed images: bounded square, scale-down only, JPEG output.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const ContentTypeJPEG = "image/jpeg"

// Result is a transformed image ready for upload.
type Result struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
}

// Options bounds the output image.
type Options struct {
	MaxDimension int
	Quality      int
}

// Fit decodes data, scales it down (never up) so that it fits in a MaxDimension square while
// keeping its aspect ratio, and re-encodes it as JPEG.
func Fit(data []byte, opts Options) (Result, error) {
	if len(data) == 0 {
		return Result{}, fmt.Errorf("empty image data")
	}
	if opts.MaxDimension <= 0 {
		return Result{}, fmt.Errorf("invalid max dimension %d", opts.MaxDimension)
	}
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = jpeg.DefaultQuality
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("decode image: %w", err)
	}

	b := src.Bounds()
	w, h := ScaleDown(b.Dx(), b.Dy(), opts.MaxDimension)

	// JPEG has no alpha; flatten onto white so transparent PNGs don't turn black.
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: opts.Quality}); err != nil {
		return Result{}, fmt.Errorf("encode jpeg: %w", err)
	}

	return Result{
		Data:        buf.Bytes(),
		ContentType: ContentTypeJPEG,
		Width:       w,
		Height:      h,
	}, nil
}

// ScaleDown returns the dimensions of a w×h image fitted into a limit×limit box.
func ScaleDown(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return w, h
	}
	if w >= h {
		nh := h * limit / w
		if nh < 1 {
			nh = 1
		}
		return limit, nh
	}
	nw := w * limit / h
	if nw < 1 {
		nw = 1
	}
	return nw, limit
}
