package pixelart

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"golang.org/x/image/bmp"
	_ "golang.org/x/image/webp" // Register WEBP format decoder
)

// Error kinds surfaced by the codec. Both are fatal for the call that
// hit them; there is no retry and no partial output.
var (
	// ErrDecode wraps any failure to parse input image bytes.
	ErrDecode = errors.New("undecodable image data")

	// ErrUnsupportedFormat is reported for output encodings the codec
	// does not know.
	ErrUnsupportedFormat = errors.New("unsupported output format")
)

// Decode parses raw image bytes and returns the decoded image along
// with the detected format name ("png", "jpeg", "gif", "bmp", "webp").
//
// The standard registry is tried first; WEBP images that the pure-Go
// decoder rejects (lossy with alpha, some animation containers) get a
// second chance through the libwebp binding.
func Decode(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err == nil {
		return img, format, nil
	}
	if wimg, werr := webp.Decode(bytes.NewReader(data)); werr == nil {
		return wimg, "webp", nil
	}
	return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
}

// Encode serializes img in the requested output format. An empty format
// means PNG. JPEG output flattens any alpha channel first, since the
// format cannot carry one.
func Encode(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	switch strings.ToLower(format) {
	case "", "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("failed to encode png: %w", err)
		}
	case "jpg", "jpeg":
		if err := jpeg.Encode(&buf, flatten(img), &jpeg.Options{Quality: 90}); err != nil {
			return nil, fmt.Errorf("failed to encode jpeg: %w", err)
		}
	case "gif":
		if err := gif.Encode(&buf, img, &gif.Options{NumColors: 256}); err != nil {
			return nil, fmt.Errorf("failed to encode gif: %w", err)
		}
	case "bmp":
		if err := bmp.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("failed to encode bmp: %w", err)
		}
	case "webp":
		if err := webp.Encode(&buf, img, &webp.Options{Lossless: true}); err != nil {
			return nil, fmt.Errorf("failed to encode webp: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return buf.Bytes(), nil
}

// flatten discards the alpha channel, keeping color values as they are.
func flatten(img image.Image) *image.NRGBA {
	out := imaging.Clone(img)
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = 0xff
	}
	return out
}
