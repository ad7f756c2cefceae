package pixelart

import (
	"image"

	"github.com/disintegration/imaging"
)

// smallSize computes the reduced dimensions for a block size. The
// result is never smaller than 1x1, even for images narrower or shorter
// than one block. A block size below 1 is treated as 1.
func smallSize(width, height, blockSize int) (int, int) {
	if blockSize < 1 {
		blockSize = 1
	}
	sw := width / blockSize
	if sw < 1 {
		sw = 1
	}
	sh := height / blockSize
	if sh < 1 {
		sh = 1
	}
	return sw, sh
}

// Reduce downsamples img to its small (pixelated) dimensions for the
// given block size.
//
// With SamplingNearest every output sample takes exactly one source
// pixel, preserving hard edges. SamplingLanczos averages over the block
// instead, which trades edge sharpness for less speckle; the upsampling
// side of the round trip stays nearest-neighbor either way, so the
// result is still blocky.
func Reduce(img image.Image, blockSize int, sampling Sampling) *image.NRGBA {
	b := img.Bounds()
	sw, sh := smallSize(b.Dx(), b.Dy(), blockSize)
	filter := imaging.NearestNeighbor
	if sampling == SamplingLanczos {
		filter = imaging.Lanczos
	}
	return imaging.Resize(img, sw, sh, filter)
}

// Expand upsamples img to width x height by nearest-neighbor
// replication. Every destination pixel copies its corresponding source
// pixel with no interpolation, which recreates sharp block edges.
func Expand(img image.Image, width, height int) *image.NRGBA {
	return imaging.Resize(img, width, height, imaging.NearestNeighbor)
}

// Pixelate runs the full Reduce-then-Expand round trip, returning an
// image with the original dimensions and the blocky look. The alpha
// plane of an RGBA conversion rides through this exact path.
func Pixelate(img image.Image, blockSize int, sampling Sampling) *image.NRGBA {
	b := img.Bounds()
	return Expand(Reduce(img, blockSize, sampling), b.Dx(), b.Dy())
}
