package pixelart

import (
	"image"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blur"
)

// Smooth applies a Gaussian blur of the given radius. It runs on the
// original image before pixelation to keep small-scale noise from
// surviving into the blocky output as speckle. A radius of 0 or less
// returns img unchanged.
func Smooth(img image.Image, radius float64) image.Image {
	if radius <= 0 {
		return img
	}
	return blur.Gaussian(img, radius)
}

// DrawGrid paints separator lines in place at every multiple of spacing
// along both axes, starting at 0. Lines are thickness pixels wide,
// extending right/down from the boundary.
func DrawGrid(img *image.NRGBA, spacing int, col Color, thickness int) {
	if spacing < 1 {
		return
	}
	if thickness < 1 {
		thickness = 1
	}
	b := img.Bounds()
	c := col.NRGBA()

	for x := b.Min.X; x < b.Max.X; x += spacing {
		for t := 0; t < thickness && x+t < b.Max.X; t++ {
			for y := b.Min.Y; y < b.Max.Y; y++ {
				img.SetNRGBA(x+t, y, c)
			}
		}
	}
	for y := b.Min.Y; y < b.Max.Y; y += spacing {
		for t := 0; t < thickness && y+t < b.Max.Y; t++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				img.SetNRGBA(x, y+t, c)
			}
		}
	}
}

// AdjustContrast scales each channel around the midpoint by factor and
// clamps to [0,255]. Identity at 1.0.
func AdjustContrast(img image.Image, factor float64) image.Image {
	if factor == 1.0 {
		return img
	}
	return adjust.Contrast(img, factor-1)
}

// AdjustBrightness multiplies each channel by factor and clamps to
// [0,255]. Identity at 1.0.
func AdjustBrightness(img image.Image, factor float64) image.Image {
	if factor == 1.0 {
		return img
	}
	return adjust.Brightness(img, factor-1)
}
