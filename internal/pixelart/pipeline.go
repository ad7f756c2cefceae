package pixelart

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/disintegration/imaging"
)

// Stats records what one conversion did. It is a pure value returned to
// the caller; persisting it is the caller's business.
type Stats struct {
	OriginalWidth  int           `json:"original_width"`
	OriginalHeight int           `json:"original_height"`
	SmallWidth     int           `json:"small_width"`
	SmallHeight    int           `json:"small_height"`
	OutputWidth    int           `json:"output_width"`
	OutputHeight   int           `json:"output_height"`
	PixelSize      int           `json:"pixel_size"`
	Palette        string        `json:"palette"`
	HasAlpha       bool          `json:"has_alpha"`
	ProcessingTime time.Duration `json:"processing_time"`
}

// Convert runs the pixel-art pipeline on a decoded image.
//
// Steps, in order: optional pre-smooth, pixelate the color plane (and
// the alpha plane independently when the source is not fully opaque),
// quantize per the selected mode, optional grid overlay, optional
// contrast/brightness, re-attach alpha, optional resize to the explicit
// output size. Without an explicit output size the result has the
// input's dimensions.
//
// Quantization mode follows Options: a named palette selects per-pixel
// nearest matching; the PaletteOriginal sentinel with ColorCount > 0
// selects adaptive quantization; the sentinel with ColorCount == 0
// passes the pixelated image through unchanged. Unknown palette names
// fall back to DefaultPalette, and out-of-range option values are
// clamped, never rejected.
//
// Convert holds no shared mutable state; it is safe to call from any
// number of goroutines at once.
func Convert(src image.Image, opts Options) (image.Image, *Stats, error) {
	start := time.Now()
	opts = opts.normalized()

	b := src.Bounds()
	origW, origH := b.Dx(), b.Dy()
	if origW < 1 || origH < 1 {
		return nil, nil, fmt.Errorf("%w: empty image", ErrDecode)
	}

	hasAlpha := !isOpaque(src)
	var alpha *image.NRGBA
	if hasAlpha {
		alpha = alphaPlane(src)
	}

	plane := Smooth(src, opts.SmoothRadius)
	small := Reduce(plane, opts.PixelSize, opts.Sampling)
	sb := small.Bounds()

	paletteUsed := opts.Palette
	switch {
	case opts.Palette != PaletteOriginal:
		pal, err := Lookup(opts.Palette)
		if err != nil {
			pal, _ = Lookup(DefaultPalette)
			paletteUsed = DefaultPalette
		}
		small = ApplyPalette(small, pal)
	case opts.ColorCount > 0:
		if hasAlpha {
			// The quantizer must see plain RGB: with alpha attached,
			// color conversion premultiplies and darkens translucent
			// pixels. The alpha plane is re-attached below.
			small = flatten(small)
		}
		cp := AdaptivePalette(small, opts.ColorCount, opts.Method)
		small = MapToPalette(small, cp, opts.Dither)
	}

	expanded := Expand(small, origW, origH)
	if opts.Grid {
		DrawGrid(expanded, opts.PixelSize, opts.GridColor, opts.GridThickness)
	}

	out := image.Image(expanded)
	out = AdjustContrast(out, opts.Contrast)
	out = AdjustBrightness(out, opts.Brightness)

	if hasAlpha {
		out = withAlpha(out, Pixelate(alpha, opts.PixelSize, opts.Sampling))
	}

	outW, outH := origW, origH
	if opts.OutputWidth > 0 && opts.OutputHeight > 0 {
		outW, outH = opts.OutputWidth, opts.OutputHeight
		out = Expand(out, outW, outH)
	}

	stats := &Stats{
		OriginalWidth:  origW,
		OriginalHeight: origH,
		SmallWidth:     sb.Dx(),
		SmallHeight:    sb.Dy(),
		OutputWidth:    outW,
		OutputHeight:   outH,
		PixelSize:      opts.PixelSize,
		Palette:        paletteUsed,
		HasAlpha:       hasAlpha,
		ProcessingTime: time.Since(start),
	}
	return out, stats, nil
}

// ConvertBytes decodes raw image bytes, converts them, and re-encodes
// the result in opts.Format (PNG when empty). This is the single entry
// point a driver needs: bytes in, bytes plus stats out.
func ConvertBytes(data []byte, opts Options) ([]byte, *Stats, error) {
	img, _, err := Decode(data)
	if err != nil {
		return nil, nil, err
	}
	out, stats, err := Convert(img, opts)
	if err != nil {
		return nil, nil, err
	}
	encoded, err := Encode(out, opts.Format)
	if err != nil {
		return nil, nil, err
	}
	return encoded, stats, nil
}

// isOpaque reports whether every pixel of img is fully opaque. Most
// stdlib image types answer through their Opaque method; anything else
// gets scanned.
func isOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return false
			}
		}
	}
	return true
}

// alphaPlane extracts the alpha channel as an opaque grayscale image so
// it can ride through the same reduce/expand path as the color plane.
func alphaPlane(img image.Image) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			_, _, _, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			a8 := uint8(a >> 8)
			out.SetNRGBA(x, y, color.NRGBA{R: a8, G: a8, B: a8, A: 255})
		}
	}
	return out
}

// withAlpha re-attaches a pixelated alpha plane to the color image.
// Both must have identical dimensions.
func withAlpha(rgb image.Image, alpha *image.NRGBA) *image.NRGBA {
	out := imaging.Clone(rgb)
	for i := 0; i+3 < len(out.Pix) && i < len(alpha.Pix); i += 4 {
		out.Pix[i+3] = alpha.Pix[i]
	}
	return out
}
