// Package tga writes uncompressed 32-bit true-color Truevision TGA files,
// the frame container the sheet pack tool reads.
//
// Layout: an 18-byte header (image type 2, 32 bits per pixel, 8 alpha bits,
// top-left origin), the pixels in B,G,R,A order one scan line after another
// from the top, then the 26-byte TGA 2.0 footer with no extension or
// developer areas.
package tga

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
)

const (
	HeaderSize = 18
	FooterSize = 26

	TypeTrueColor = 2 // Uncompressed true-color.
	PixelDepth    = 32

	descriptorAlphaBits = 0x08
	descriptorTopLeft   = 0x20
	Descriptor          = descriptorAlphaBits | descriptorTopLeft

	maxDimension = 0xffff
)

// Signature terminates every file this package writes.
const Signature = "TRUEVISION-XFILE.\x00"

// ErrDimensions is returned for images that are empty or larger than the
// 16-bit size fields allow.
var ErrDimensions = errors.New("tga: image dimensions out of range")

// Image is an encoded frame: straight-alpha pixels already in file order.
type Image struct {
	Width  int
	Height int
	Pix    []byte // Width*Height*4 bytes, B,G,R,A.
}

// Encode reorders RGBA pixels (width*height*4 bytes, straight alpha, top row
// first) into the container's channel order.
func Encode(pixels []byte, width, height int) (*Image, error) {
	if width <= 0 || height <= 0 || width > maxDimension || height > maxDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrDimensions, width, height)
	}
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("tga: pixel buffer is %d bytes, want %d", len(pixels), width*height*4)
	}

	out := make([]byte, len(pixels))
	for i := 0; i < len(pixels); i += 4 {
		out[i+0] = pixels[i+2]
		out[i+1] = pixels[i+1]
		out[i+2] = pixels[i+0]
		out[i+3] = pixels[i+3]
	}
	return &Image{Width: width, Height: height, Pix: out}, nil
}

// FromNRGBA encodes a normalized image, honoring its stride.
func FromNRGBA(img *image.NRGBA) (*Image, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	pixels := img.Pix
	if img.Stride != w*4 || len(img.Pix) != w*h*4 {
		pixels = make([]byte, 0, w*h*4)
		for y := 0; y < h; y++ {
			off := y * img.Stride
			pixels = append(pixels, img.Pix[off:off+w*4]...)
		}
	}
	return Encode(pixels, w, h)
}

// Header returns the 18 header bytes for this image.
func (m *Image) Header() [HeaderSize]byte {
	var h [HeaderSize]byte
	// h[0] ID length, h[1] color map type and the h[3:8] color map fields stay zero.
	h[2] = TypeTrueColor
	// h[8:12] x/y origin stay zero.
	binary.LittleEndian.PutUint16(h[12:14], uint16(m.Width))
	binary.LittleEndian.PutUint16(h[14:16], uint16(m.Height))
	h[16] = PixelDepth
	h[17] = Descriptor
	return h
}

// Size is the number of bytes WriteTo produces.
func (m *Image) Size() int64 {
	return int64(HeaderSize + len(m.Pix) + FooterSize)
}

// WriteTo writes header, pixels and footer to w.
func (m *Image) WriteTo(w io.Writer) (int64, error) {
	var footer [FooterSize]byte
	// footer[0:8] extension and developer area offsets stay zero.
	copy(footer[8:], Signature)

	h := m.Header()
	var n int64
	for _, part := range [][]byte{h[:], m.Pix, footer[:]} {
		k, err := w.Write(part)
		n += int64(k)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// WriteFile writes m to path, replacing any existing file.
func (m *Image) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if _, err := m.WriteTo(bw); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
