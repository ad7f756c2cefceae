package pixelart

import (
	"errors"
	"fmt"
	"image/color"
)

// Color is an immutable 8-bit RGB triple.
//
// It is used both for pixel values and for palette entries. Alpha is
// tracked separately by the pipeline and never participates in color
// matching.
type Color struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// NRGBA returns the color as a fully opaque color.NRGBA.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Hex returns the color in "#RRGGBB" form.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// DistanceSq returns the squared Euclidean distance between two colors
// in RGB space: (R1-R2)² + (G1-G2)² + (B1-B2)².
//
// No normalization or perceptual weighting is applied; the plain RGB
// metric is what gives the converter its characteristic look and keeps
// the per-pixel cost trivial.
func (c Color) DistanceSq(o Color) int {
	dr := int(c.R) - int(o.R)
	dg := int(c.G) - int(o.G)
	db := int(c.B) - int(o.B)
	return dr*dr + dg*dg + db*db
}

// Palette is an ordered, non-empty sequence of allowed output colors.
//
// A Palette is never mutated after construction; the built-in catalog
// palettes are shared by reference across concurrent conversions.
type Palette []Color

// Closest returns the palette entry with the smallest squared RGB
// distance to c.
//
// The scan is left to right and keeps the current best only on strict
// improvement, so on exact distance ties the earliest entry wins. This
// makes the result deterministic regardless of how the palette was
// assembled.
//
// Closest panics on an empty palette; the catalog never produces one.
func (p Palette) Closest(c Color) Color {
	best := p[0]
	bestDist := c.DistanceSq(best)
	for _, entry := range p[1:] {
		if d := c.DistanceSq(entry); d < bestDist {
			best = entry
			bestDist = d
		}
	}
	return best
}

// ColorPalette converts p to a stdlib color.Palette of opaque NRGBA
// entries, preserving order.
func (p Palette) ColorPalette() color.Palette {
	cp := make(color.Palette, len(p))
	for i, c := range p {
		cp[i] = c.NRGBA()
	}
	return cp
}

// Palette catalog names.
//
// PaletteOriginal is a sentinel meaning "apply no color restriction";
// it appears in Names but has no entry in the catalog. DefaultPalette
// is what the pipeline falls back to when asked for a name it does not
// know.
const (
	PaletteOriginal = "original"
	DefaultPalette  = "retro"
)

// ErrUnknownPalette is reported by Lookup for names not in the catalog.
// The pipeline treats it as non-fatal and falls back to DefaultPalette.
var ErrUnknownPalette = errors.New("unknown palette")

// palettes is the fixed catalog. Initialized once at startup and
// read-only afterwards, so it is safe to share across goroutines
// without locking.
var palettes = map[string]Palette{
	"gameboy": {
		{15, 56, 15}, {48, 98, 48}, {139, 172, 15}, {155, 188, 15},
	},
	"nes": {
		{0, 0, 0}, {252, 252, 252}, {188, 188, 188}, {124, 124, 124},
		{164, 228, 252}, {60, 188, 252}, {0, 120, 248}, {0, 0, 188},
		{184, 248, 216}, {88, 216, 132}, {0, 168, 68}, {0, 104, 56},
		{248, 216, 120}, {248, 184, 0}, {172, 124, 0}, {100, 76, 0},
		{248, 184, 184}, {248, 120, 88}, {216, 40, 0}, {136, 20, 0},
		{216, 184, 248}, {152, 120, 248}, {104, 68, 252}, {68, 40, 188},
	},
	"grayscale": grayscaleRamp(),
	"retro": {
		{0, 0, 0}, {255, 255, 255}, {255, 0, 0}, {0, 255, 255},
		{128, 0, 128}, {0, 255, 0}, {0, 0, 255}, {255, 255, 0},
		{255, 128, 0}, {128, 64, 0}, {255, 128, 128}, {64, 64, 64},
		{128, 128, 128}, {128, 255, 128}, {128, 128, 255}, {192, 192, 192},
	},
}

// paletteNames fixes the listing order returned by Names.
var paletteNames = []string{"gameboy", "nes", "grayscale", "retro", PaletteOriginal}

// grayscaleRamp builds the evenly spaced 8-entry gray ramp
// (0, 32, ..., 224).
func grayscaleRamp() Palette {
	p := make(Palette, 0, 8)
	for v := 0; v < 256; v += 32 {
		p = append(p, Color{uint8(v), uint8(v), uint8(v)})
	}
	return p
}

// Names returns the available palette names in stable order, including
// the PaletteOriginal sentinel as the last entry. The returned slice is
// a copy and may be modified by the caller.
func Names() []string {
	return append([]string(nil), paletteNames...)
}

// Lookup returns the named palette from the catalog.
//
// Unknown names (including the PaletteOriginal sentinel, which names a
// behavior rather than a color set) report ErrUnknownPalette. This is
// not fatal for a conversion: the pipeline maps it to DefaultPalette.
func Lookup(name string) (Palette, error) {
	p, ok := palettes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPalette, name)
	}
	return p, nil
}
