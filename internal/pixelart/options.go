package pixelart

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Option bounds. Values outside these ranges are clamped, never
// rejected: a conversion always attempts to produce output.
const (
	MaxPixelSize  = 64
	MinColorCount = 2
	MaxColorCount = 256
)

// Sampling selects the downsampling filter used by Reduce.
//
// SamplingNearest takes one source pixel per output sample, preserving
// hard edges (the classic pixel-art look). SamplingLanczos averages,
// which suppresses speckle at the cost of softer block colors. Upsampling
// is always nearest-neighbor regardless of this setting.
type Sampling int

const (
	SamplingNearest Sampling = iota
	SamplingLanczos
)

// String returns the CLI name of the sampling filter.
func (s Sampling) String() string {
	if s == SamplingLanczos {
		return "lanczos"
	}
	return "nearest"
}

// ParseSampling maps a CLI name to a Sampling value. Unknown names fall
// back to nearest.
func ParseSampling(name string) Sampling {
	if name == "lanczos" {
		return SamplingLanczos
	}
	return SamplingNearest
}

// AdaptiveMethod selects how adaptive quantization picks its
// representative colors.
type AdaptiveMethod int

const (
	// AdaptiveMedianCut recursively splits the color space at median
	// values. Deterministic for identical input; the default.
	AdaptiveMedianCut AdaptiveMethod = iota
	// AdaptiveKMeans clusters subsampled pixels with k-means. Centers
	// depend on random initialization and may vary between runs.
	AdaptiveKMeans
	// AdaptiveDominant keeps the most frequent colors by weight.
	AdaptiveDominant
)

// String returns the CLI name of the method.
func (m AdaptiveMethod) String() string {
	switch m {
	case AdaptiveKMeans:
		return "kmeans"
	case AdaptiveDominant:
		return "dominant"
	default:
		return "median"
	}
}

// ParseAdaptiveMethod maps a CLI name to an AdaptiveMethod. Unknown
// names fall back to median-cut.
func ParseAdaptiveMethod(name string) AdaptiveMethod {
	switch name {
	case "kmeans":
		return AdaptiveKMeans
	case "dominant":
		return AdaptiveDominant
	default:
		return AdaptiveMedianCut
	}
}

// Options configures a single conversion.
//
// The zero value is usable: normalization fills in the default palette,
// identity contrast/brightness and a pixel size of 1. Out-of-range
// values are silently clamped rather than rejected.
type Options struct {
	// PixelSize is the edge length of one output block, clamped to
	// [1, MaxPixelSize].
	PixelSize int

	// Palette names a catalog entry, or PaletteOriginal to skip fixed
	// palette matching. Unknown names fall back to DefaultPalette.
	Palette string

	// ColorCount enables adaptive quantization when > 0 and Palette is
	// the PaletteOriginal sentinel. Clamped to [MinColorCount,
	// MaxColorCount]; 0 skips quantization entirely.
	ColorCount int

	// Dither applies Floyd-Steinberg error diffusion while mapping to
	// the adaptive palette.
	Dither bool

	// Method picks the adaptive palette builder.
	Method AdaptiveMethod

	// Sampling picks the downsampling filter for the color plane.
	Sampling Sampling

	// SmoothRadius, when > 0, Gaussian-blurs the original image before
	// pixelation to suppress speckle.
	SmoothRadius float64

	// Grid draws separator lines at every block boundary after
	// quantization.
	Grid          bool
	GridColor     Color
	GridThickness int

	// Contrast and Brightness are multiplicative factors applied last;
	// 1.0 is identity. A zero value is treated as unset (identity).
	Contrast   float64
	Brightness float64

	// OutputWidth and OutputHeight, when both > 0, resize the final
	// image to exactly these dimensions. Otherwise the output matches
	// the input dimensions.
	OutputWidth  int
	OutputHeight int

	// Format is the output encoding for ConvertBytes ("png", "jpeg",
	// "gif", "bmp", "webp"). Empty means png.
	Format string
}

// DefaultOptions returns the settings of the classic converter: 8-pixel
// blocks, the retro palette, no post-processing.
func DefaultOptions() Options {
	return Options{
		PixelSize:     8,
		Palette:       DefaultPalette,
		Sampling:      SamplingNearest,
		GridColor:     Color{30, 30, 30},
		GridThickness: 1,
		Contrast:      1.0,
		Brightness:    1.0,
		Format:        "png",
	}
}

// normalized returns a copy of o with every field clamped or defaulted
// to a valid value.
func (o Options) normalized() Options {
	if o.PixelSize < 1 {
		o.PixelSize = 1
	} else if o.PixelSize > MaxPixelSize {
		o.PixelSize = MaxPixelSize
	}
	switch {
	case o.ColorCount <= 0:
		o.ColorCount = 0
	case o.ColorCount < MinColorCount:
		o.ColorCount = MinColorCount
	case o.ColorCount > MaxColorCount:
		o.ColorCount = MaxColorCount
	}
	if o.Palette == "" {
		o.Palette = DefaultPalette
	}
	if o.SmoothRadius < 0 {
		o.SmoothRadius = 0
	}
	if o.GridThickness < 1 {
		o.GridThickness = 1
	}
	if o.Contrast == 0 {
		o.Contrast = 1.0
	} else if o.Contrast < 0 {
		o.Contrast = 0
	}
	if o.Brightness == 0 {
		o.Brightness = 1.0
	} else if o.Brightness < 0 {
		o.Brightness = 0
	}
	if o.OutputWidth < 0 {
		o.OutputWidth = 0
	}
	if o.OutputHeight < 0 {
		o.OutputHeight = 0
	}
	if o.Format == "" {
		o.Format = "png"
	}
	return o
}

// ParseHexColor parses "#RRGGBB" (or "RRGGBB", or the short "#RGB"
// form) into a Color. Used for grid color flags.
func ParseHexColor(s string) (Color, error) {
	if s != "" && s[0] != '#' {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b}, nil
}
