package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.NRGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestScaleDown(t *testing.T) {
	cases := []struct {
		w, h, limit  int
		wantW, wantH int
	}{
		{w: 1500, h: 1000, limit: 750, wantW: 750, wantH: 500},
		{w: 1000, h: 2000, limit: 750, wantW: 375, wantH: 750},
		{w: 400, h: 300, limit: 750, wantW: 400, wantH: 300},
		{w: 750, h: 750, limit: 750, wantW: 750, wantH: 750},
		{w: 5000, h: 2, limit: 750, wantW: 750, wantH: 1},
	}
	for _, c := range cases {
		gw, gh := ScaleDown(c.w, c.h, c.limit)
		if gw != c.wantW || gh != c.wantH {
			t.Errorf("ScaleDown(%d,%d,%d) = %d,%d want %d,%d", c.w, c.h, c.limit, gw, gh, c.wantW, c.wantH)
		}
	}
}

func TestFitDownscalesToJPEG(t *testing.T) {
	res, err := Fit(encodePNG(t, 1200, 600), Options{MaxDimension: 300, Quality: 80})
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if res.ContentType != ContentTypeJPEG || res.Width != 300 || res.Height != 150 {
		t.Fatalf("unexpected result %s %dx%d", res.ContentType, res.Width, res.Height)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(res.Data))
	if err != nil {
		t.Fatalf("output is not jpeg: %v", err)
	}
	if cfg.Width != 300 || cfg.Height != 150 {
		t.Fatalf("decoded size %dx%d", cfg.Width, cfg.Height)
	}
}

func TestFitNeverUpscales(t *testing.T) {
	res, err := Fit(encodePNG(t, 40, 20), Options{MaxDimension: 750})
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if res.Width != 40 || res.Height != 20 {
		t.Fatalf("expected original size, got %dx%d", res.Width, res.Height)
	}
}

func TestFitRejectsGarbage(t *testing.T) {
	if _, err := Fit([]byte("not an image"), Options{MaxDimension: 10}); err == nil {
		t.Fatalf("expected decode error")
	}
	if _, err := Fit(nil, Options{MaxDimension: 10}); err == nil {
		t.Fatalf("expected error on empty data")
	}
}
