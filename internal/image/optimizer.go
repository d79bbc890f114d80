package image

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"

	"golang.org/x/image/draw"
)

const (
	maxWidth  = 200
	maxHeight = 150
)

// Optimizer shrinks an uploaded photo in place.
type Optimizer interface {
	Resize(filename string) error
}

// Resizer scales a photo down to fit within 200x150, preserving the aspect
// ratio, and overwrites the original file.
type Resizer struct{}

func (Resizer) Resize(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	src, format, err := image.Decode(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("decode %s: %w", filename, err)
	}

	bounds := src.Bounds()
	ratio := float64(bounds.Dx()) / float64(bounds.Dy())
	width := float64(maxWidth)
	height := float64(maxHeight)
	if width/height > ratio {
		width = height * ratio
	} else {
		height = width / ratio
	}

	dst := image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	out, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer out.Close()

	switch format {
	case "jpeg":
		err = jpeg.Encode(out, dst, nil)
	case "png":
		err = png.Encode(out, dst)
	default:
		err = fmt.Errorf("unsupported photo format %q", format)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", filename, err)
	}
	return nil
}
