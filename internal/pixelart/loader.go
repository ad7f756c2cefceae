package pixelart

import (
	"fmt"
	"image"
	"os"
)

// LoadImage reads and decodes an image file, returning the image and
// its detected format name.
func LoadImage(path string) (image.Image, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}
	return Decode(data)
}

// ImageInfo describes an image file without exposing its pixel data.
type ImageInfo struct {
	// Width and Height are the pixel dimensions.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Format is the detected encoding: "png", "jpeg", "gif", "bmp" or
	// "webp". Detection is based on file contents, not extension.
	Format string `json:"format"`

	// HasAlpha reports whether any pixel is less than fully opaque.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the file on disk.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// Info loads an image file and reports its basic properties.
func Info(path string) (*ImageInfo, error) {
	img, format, err := LoadImage(path)
	if err != nil {
		return nil, err
	}
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	b := img.Bounds()
	return &ImageInfo{
		Width:         b.Dx(),
		Height:        b.Dy(),
		Format:        format,
		HasAlpha:      !isOpaque(img),
		FileSizeBytes: stat.Size(),
	}, nil
}
