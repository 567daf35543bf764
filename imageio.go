package materialize

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DecodeImage decodes a PNG, JPEG, GIF, BMP, TIFF or WebP image from r.
// Decode failures wrap ErrInvalidImage.
func DecodeImage(r io.Reader) (image.Image, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %v: %w", err, ErrInvalidImage)
	}
	Logger().Debug("decoded image", "format", format, "bounds", img.Bounds())
	return img, nil
}

// LoadImage opens and decodes the image file at path.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load image %s: %w", path, err)
	}
	defer f.Close()
	img, err := DecodeImage(f)
	if err != nil {
		return nil, fmt.Errorf("load image %s: %w", path, err)
	}
	return img, nil
}

// SampleFile loads the image at path and samples it with opts.
func SampleFile(path string, opts SampleOptions) (*ParticleSet, error) {
	img, err := LoadImage(path)
	if err != nil {
		return nil, err
	}
	set, err := Sample(img, opts)
	if err != nil {
		return nil, fmt.Errorf("sample %s: %w", path, err)
	}
	return set, nil
}
