package scene

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// checkerSize is the edge length in pixels of one checker square.
const checkerSize = 32

// Texture holds CPU-side RGBA8 pixels, row-major and top-to-bottom.
// GLID is assigned by the OpenGL backend on upload. Dirty asks the backend to
// upload the pixels again.
type Texture struct {
	Name   string
	Width  int
	Height int
	Pixels []byte
	GLID   uint32
	Dirty  bool
}

// LoadTexture reads an image file from disk. PNG, JPEG, GIF, BMP, TIFF and
// WebP are supported.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture %q: %w", path, err)
	}
	defer f.Close()

	return DecodeTexture(path, f)
}

// DecodeTexture decodes an image from r and converts it to RGBA8.
func DecodeTexture(name string, r io.Reader) (*Texture, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode texture %q: %w", name, err)
	}
	return TextureFromImage(name, img), nil
}

// TextureFromImage copies any image into a new RGBA8 texture.
func TextureFromImage(name string, img image.Image) *Texture {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)

	return &Texture{
		Name:   name,
		Width:  b.Dx(),
		Height: b.Dy(),
		Pixels: rgba.Pix,
		Dirty:  true,
	}
}

// Reload decodes the file at Name again and replaces the pixels in place, so
// materials sharing the texture see the new image.
func (t *Texture) Reload() error {
	fresh, err := LoadTexture(t.Name)
	if err != nil {
		return err
	}
	t.Width, t.Height, t.Pixels = fresh.Width, fresh.Height, fresh.Pixels
	t.Dirty = true
	return nil
}

// Image wraps the pixels as an *image.RGBA without copying.
func (t *Texture) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    t.Pixels,
		Stride: t.Width * 4,
		Rect:   image.Rect(0, 0, t.Width, t.Height),
	}
}

// NewCheckerTexture builds the black and white fallback shown when a texture
// fails to load.
func NewCheckerTexture(width, height int) *Texture {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	white := image.NewUniform(color.White)
	black := image.NewUniform(color.Black)

	for y := 0; y < height; y += checkerSize {
		for x := 0; x < width; x += checkerSize {
			src := black
			if (x/checkerSize+y/checkerSize)%2 == 0 {
				src = white
			}
			cell := image.Rect(x, y, x+checkerSize, y+checkerSize).Intersect(img.Rect)
			draw.Draw(img, cell, src, image.Point{}, draw.Src)
		}
	}

	return &Texture{
		Name:   "checker",
		Width:  width,
		Height: height,
		Pixels: img.Pix,
		Dirty:  true,
	}
}

// NewSolidTexture is a 1x1 texture of the given colour.
func NewSolidTexture(name string, r, g, b, a uint8) *Texture {
	return &Texture{
		Name:   name,
		Width:  1,
		Height: 1,
		Pixels: []byte{r, g, b, a},
		Dirty:  true,
	}
}
