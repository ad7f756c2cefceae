package pixelart

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"sort"

	"github.com/cenkalti/dominantcolor"
	"github.com/disintegration/imaging"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"github.com/soniakeys/quant/median"
	xdraw "golang.org/x/image/draw"
)

// ApplyPalette returns a copy of img with every pixel replaced by its
// closest palette entry. The alpha channel passes through untouched.
//
// Applying the same palette twice is a no-op on the second pass: a
// color already in the palette is its own closest match.
func ApplyPalette(img *image.NRGBA, pal Palette) *image.NRGBA {
	out := imaging.Clone(img)
	for i := 0; i < len(out.Pix); i += 4 {
		c := pal.Closest(Color{R: out.Pix[i], G: out.Pix[i+1], B: out.Pix[i+2]})
		out.Pix[i] = c.R
		out.Pix[i+1] = c.G
		out.Pix[i+2] = c.B
	}
	return out
}

// MapToPalette redraws img using only the colors of cp.
//
// With dither enabled the mapping diffuses each pixel's quantization
// error to not-yet-processed neighbors in raster order
// (Floyd-Steinberg); without it every pixel takes its flat nearest
// representative. Empty palettes return img unchanged.
func MapToPalette(img *image.NRGBA, cp color.Palette, dither bool) *image.NRGBA {
	if len(cp) == 0 {
		return img
	}
	b := img.Bounds()
	dst := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), cp)
	if dither {
		xdraw.FloydSteinberg.Draw(dst, dst.Bounds(), img, b.Min)
	} else {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	}
	return imaging.Clone(dst)
}

// AdaptivePalette derives a palette of at most n representative colors
// from img using the selected method.
//
// Median-cut is deterministic for identical input. K-means and
// dominant-color extraction can fail on degenerate inputs (for example
// fewer distinct pixels than clusters); both fall back to median-cut so
// the caller always gets a usable palette.
func AdaptivePalette(img image.Image, n int, method AdaptiveMethod) color.Palette {
	switch method {
	case AdaptiveKMeans:
		if p := kmeansPalette(img, n); len(p) > 0 {
			return p
		}
	case AdaptiveDominant:
		if p := dominantPalette(img, n); len(p) > 0 {
			return p
		}
	}
	return medianCutPalette(img, n)
}

func medianCutPalette(img image.Image, n int) color.Palette {
	return median.Quantizer(n).Quantize(make(color.Palette, 0, n), img)
}

// kmeansPalette clusters a subsample of the image in RGB space and uses
// the cluster centers as palette entries, most populous cluster first.
func kmeansPalette(img image.Image, n int) color.Palette {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil
	}

	// Subsample to keep kmeans tractable on large inputs.
	const maxSamples = 4096
	step := 1
	if px := b.Dx() * b.Dy(); px > maxSamples {
		step = int(math.Sqrt(float64(px)/maxSamples)) + 1
	}

	obs := make(clusters.Observations, 0, maxSamples)
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			r, g, bl, a := img.At(x, y).RGBA()
			if a == 0 {
				continue
			}
			obs = append(obs, clusters.Coordinates{
				float64(r) / 65535.0,
				float64(g) / 65535.0,
				float64(bl) / 65535.0,
			})
		}
	}
	if len(obs) < n {
		return nil
	}

	km := kmeans.New()
	cc, err := km.Partition(obs, n)
	if err != nil || len(cc) == 0 {
		return nil
	}
	sort.Slice(cc, func(i, j int) bool {
		return len(cc[i].Observations) > len(cc[j].Observations)
	})

	pal := make(color.Palette, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 {
			continue
		}
		pal = append(pal, color.NRGBA{
			R: clamp255(c.Center[0] * 255),
			G: clamp255(c.Center[1] * 255),
			B: clamp255(c.Center[2] * 255),
			A: 255,
		})
	}
	return pal
}

// dominantPalette keeps the n most frequent colors by weight.
func dominantPalette(img image.Image, n int) color.Palette {
	cands := dominantcolor.FindWeight(img, n)
	pal := make(color.Palette, 0, len(cands))
	for _, c := range cands {
		pal = append(pal, color.NRGBA{R: c.RGBA.R, G: c.RGBA.G, B: c.RGBA.B, A: 255})
	}
	if len(pal) > n {
		pal = pal[:n]
	}
	return pal
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
