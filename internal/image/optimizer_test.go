package image

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestPNG(t *testing.T, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "photo.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func decodeBounds(t *testing.T, path string) image.Rectangle {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, _, err := image.Decode(f)
	require.NoError(t, err)
	return img.Bounds()
}

func TestResizeLandscapeFitsWidth(t *testing.T) {
	path := writeTestPNG(t, 400, 200)

	require.NoError(t, Resizer{}.Resize(path))

	bounds := decodeBounds(t, path)
	assert.Equal(t, 200, bounds.Dx())
	assert.Equal(t, 100, bounds.Dy())
}

func TestResizePortraitFitsHeight(t *testing.T) {
	path := writeTestPNG(t, 100, 400)

	require.NoError(t, Resizer{}.Resize(path))

	bounds := decodeBounds(t, path)
	assert.Equal(t, 150, bounds.Dy())
	assert.Equal(t, 37, bounds.Dx())
}

func TestResizeMissingFile(t *testing.T) {
	err := Resizer{}.Resize(filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
}

func TestResizeRejectsNonImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0644))

	err := Resizer{}.Resize(path)
	assert.Error(t, err)
}
