package imaging

import (
	"image"
	"image/color"
	"os"
)

// Info describes a frame without decoding its pixels.
type Info struct {
	Path   string
	Format string
	Width  int
	Height int
	Model  string // "rgba", "nrgba64", "paletted", ...
}

// Probe reads the image header at path.
func Probe(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, &DecodeError{Path: path, Err: err}
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return Info{}, &DecodeError{Path: path, Err: err}
	}
	return Info{
		Path:   path,
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
		Model:  modelName(cfg.ColorModel),
	}, nil
}

// HasAlpha reports whether the color model can carry transparency. Frames
// without alpha still encode fine; they come out fully opaque.
func (i Info) HasAlpha() bool {
	switch i.Model {
	case "gray", "gray16", "ycbcr", "cmyk":
		return false
	}
	return true
}

func modelName(m color.Model) string {
	if _, ok := m.(color.Palette); ok {
		return "paletted"
	}
	switch m {
	case color.RGBAModel:
		return "rgba"
	case color.RGBA64Model:
		return "rgba64"
	case color.NRGBAModel:
		return "nrgba"
	case color.NRGBA64Model:
		return "nrgba64"
	case color.GrayModel:
		return "gray"
	case color.Gray16Model:
		return "gray16"
	case color.YCbCrModel:
		return "ycbcr"
	case color.CMYKModel:
		return "cmyk"
	case color.AlphaModel, color.Alpha16Model:
		return "alpha"
	}
	return "other"
}
