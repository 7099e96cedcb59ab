package imaging

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

func TestNormalize_PremultipliedToStraight(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1, 1))
	src.SetRGBA(0, 0, color.RGBA{R: 64, G: 0, B: 0, A: 128})

	got := Normalize(src).NRGBAAt(0, 0)
	if got.A != 128 {
		t.Errorf("alpha = %d, want 128", got.A)
	}
	if got.R < 126 || got.R > 128 {
		t.Errorf("red = %d, want ~127 after un-premultiplying", got.R)
	}
}

func TestNormalize_SixteenBit(t *testing.T) {
	src := image.NewNRGBA64(image.Rect(0, 0, 1, 1))
	src.SetNRGBA64(0, 0, color.NRGBA64{R: 0xffff, G: 0x8000, B: 0, A: 0xffff})

	got := Normalize(src).NRGBAAt(0, 0)
	want := color.NRGBA{R: 255, G: 128, B: 0, A: 255}
	if got != want {
		t.Errorf("pixel = %+v, want %+v", got, want)
	}
}

func TestNormalize_Paletted(t *testing.T) {
	pal := color.Palette{color.NRGBA{}, color.NRGBA{R: 255, A: 255}}
	src := image.NewPaletted(image.Rect(0, 0, 2, 1), pal)
	src.SetColorIndex(1, 0, 1)

	dst := Normalize(src)
	if got := dst.NRGBAAt(0, 0); got.A != 0 {
		t.Errorf("transparent index alpha = %d, want 0", got.A)
	}
	if got := dst.NRGBAAt(1, 0); got != (color.NRGBA{R: 255, A: 255}) {
		t.Errorf("red index = %+v", got)
	}
}

func TestNormalize_RebasesBounds(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	src.SetNRGBA(2, 2, color.NRGBA{R: 1, G: 2, B: 3, A: 4})
	sub := src.SubImage(image.Rect(2, 2, 4, 4))

	dst := Normalize(sub)
	if dst.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Fatalf("bounds = %v, want (0,0)-(2,2)", dst.Bounds())
	}
	if got := dst.NRGBAAt(0, 0); got != (color.NRGBA{R: 1, G: 2, B: 3, A: 4}) {
		t.Errorf("origin pixel = %+v", got)
	}
}

func TestNormalize_Copies(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	dst := Normalize(src)
	dst.SetNRGBA(0, 0, color.NRGBA{R: 9, A: 255})
	if src.NRGBAAt(0, 0).R == 9 {
		t.Error("Normalize must not alias the source buffer")
	}
}

func TestLoad_PNG(t *testing.T) {
	path := writePNG(t, t.TempDir(), "0.png", 3, 2)

	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Errorf("size = %v, want 3x2", img.Bounds())
	}
	if got := img.NRGBAAt(0, 0); got.A != 0 {
		t.Errorf("first pixel alpha = %d, want 0", got.A)
	}
}

func TestLoad_BMP(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "0.bmp")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := 3; i < len(src.Pix); i += 4 {
		src.Pix[i] = 255
	}
	src.SetNRGBA(1, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	if err := bmp.Encode(f, src); err != nil {
		t.Fatal(err)
	}
	f.Close()

	img, format, err := Decode(path)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if format != "bmp" {
		t.Errorf("format = %q, want bmp", format)
	}
	r, g, b, _ := img.At(1, 1).RGBA()
	if r>>8 != 10 || g>>8 != 20 || b>>8 != 30 {
		t.Errorf("pixel = %d,%d,%d", r>>8, g>>8, b>>8)
	}
}

func TestDecode_Errors(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "0.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{garbage, filepath.Join(dir, "missing.png")} {
		_, _, err := Decode(path)
		var de *DecodeError
		if !errors.As(err, &de) {
			t.Errorf("Decode(%s) error = %v, want *DecodeError", filepath.Base(path), err)
			continue
		}
		if de.Path != path {
			t.Errorf("DecodeError.Path = %q, want %q", de.Path, path)
		}
	}
}

func TestProbe(t *testing.T) {
	path := writePNG(t, t.TempDir(), "4.png", 16, 8)

	info, err := Probe(path)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if info.Width != 16 || info.Height != 8 {
		t.Errorf("size = %dx%d, want 16x8", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("format = %q, want png", info.Format)
	}
	if info.Model != "nrgba" || !info.HasAlpha() {
		t.Errorf("model = %q, HasAlpha = %v", info.Model, info.HasAlpha())
	}
}

func TestInfoHasAlpha(t *testing.T) {
	tests := []struct {
		model string
		want  bool
	}{
		{"nrgba", true},
		{"paletted", true},
		{"gray", false},
		{"ycbcr", false},
	}
	for _, tt := range tests {
		if got := (Info{Model: tt.model}).HasAlpha(); got != tt.want {
			t.Errorf("HasAlpha(%s) = %v, want %v", tt.model, got, tt.want)
		}
	}
}

// writePNG writes a w x h NRGBA PNG whose first pixel is fully transparent
// (so the encoder keeps the alpha channel) and the rest opaque.
func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	img.SetNRGBA(0, 0, color.NRGBA{})

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}
