package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"
)

func TestBoxColor_DistinctAndDeterministic(t *testing.T) {
	seen := make(map[color.RGBA]bool)
	for i := 0; i < 12; i++ {
		c := BoxColor(i)
		if c != BoxColor(i) {
			t.Fatalf("BoxColor(%d) not deterministic", i)
		}
		if c.A != 255 {
			t.Errorf("BoxColor(%d) not opaque: %v", i, c)
		}
		if seen[c] {
			t.Errorf("BoxColor(%d) repeats an earlier colour %v", i, c)
		}
		seen[c] = true
	}
}

func TestAnnotate_DrawsOutline(t *testing.T) {
	src := createTestImage(60, 60, color.White)
	boxes := []Box{{
		Label:   "0",
		Corners: [4]image.Point{{10, 20}, {50, 20}, {10, 50}, {50, 50}},
	}}

	out := Annotate(src, boxes)

	want := BoxColor(0)
	for _, p := range []image.Point{{10, 20}, {30, 20}, {50, 35}, {30, 50}, {10, 35}} {
		r, g, b, _ := out.At(p.X, p.Y).RGBA()
		got := color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), 255}
		if got != want {
			t.Errorf("outline pixel %v: got %v, want %v", p, got, want)
		}
	}

	if src.At(30, 20) != (color.RGBA{255, 255, 255, 255}) {
		t.Error("Annotate modified the source image")
	}
}

func TestAnnotate_ClipsOutOfBounds(t *testing.T) {
	src := createTestImage(20, 20, color.White)
	boxes := []Box{{
		Label:   "12345678901234567890",
		Corners: [4]image.Point{{-5, -5}, {30, -5}, {-5, 30}, {30, 30}},
	}}

	// Must not panic.
	out := Annotate(src, boxes)
	if out.Bounds() != src.Bounds() {
		t.Errorf("bounds changed: %v", out.Bounds())
	}
}

func TestEncodeAnnotation(t *testing.T) {
	out := Annotate(createTestImage(30, 20, color.White), nil)

	result, err := EncodeAnnotation(out, 0)
	if err != nil {
		t.Fatalf("EncodeAnnotation failed: %v", err)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s", result.MimeType)
	}

	raw, err := base64.StdEncoding.DecodeString(result.ImageBase64)
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("invalid PNG: %v", err)
	}
	if img.Bounds().Dx() != 30 || img.Bounds().Dy() != 20 {
		t.Errorf("unexpected dimensions %v", img.Bounds())
	}
}

func TestSaveAnnotation(t *testing.T) {
	out := Annotate(createTestImage(10, 10, color.White), nil)
	path := filepath.Join(t.TempDir(), "overlay.png")

	result, err := SaveAnnotation(out, 0, path)
	if err != nil {
		t.Fatalf("SaveAnnotation failed: %v", err)
	}
	if result.OutputPath != path {
		t.Errorf("OutputPath: got %s", result.OutputPath)
	}
	if _, err := Open(path); err != nil {
		t.Errorf("saved file does not decode: %v", err)
	}
}
