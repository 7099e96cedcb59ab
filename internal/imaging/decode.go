package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // register GIF
	_ "image/jpeg" // register JPEG
	_ "image/png"  // register PNG
	"os"

	_ "golang.org/x/image/bmp"  // register BMP
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // register TIFF
	_ "golang.org/x/image/webp" // register WebP
)

// DecodeError reports a source frame that could not be opened or decoded.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode opens path and decodes it with whichever registered format matches
// its magic bytes. The format name ("png", "bmp", ...) is returned alongside.
func Decode(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", &DecodeError{Path: path, Err: err}
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", &DecodeError{Path: path, Err: err}
	}
	return img, format, nil
}

// Normalize copies src into a fresh NRGBA image anchored at (0,0). It always
// copies, even when src is already NRGBA, so the result never aliases a
// decoder buffer. Premultiplied, paletted, gray and 16-bit sources all come
// out as 8 bits per channel with straight alpha.
func Normalize(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// Load decodes path and normalizes the result.
func Load(path string) (*image.NRGBA, error) {
	img, _, err := Decode(path)
	if err != nil {
		return nil, err
	}
	return Normalize(img), nil
}
