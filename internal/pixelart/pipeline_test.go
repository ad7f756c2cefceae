package pixelart

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

// newAlphaGradientImage builds an image whose alpha ramps horizontally
// while the color stays constant.
func newAlphaGradientImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 40, G: 90, B: 200, A: uint8(x * 255 / (w - 1))})
		}
	}
	return img
}

func diff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func TestConvert_SolidRedRetro(t *testing.T) {
	// Pure red is itself a retro palette entry, so every output pixel
	// must be exactly red.
	img := newSolidImage(100, 100, color.NRGBA{255, 0, 0, 255})

	out, stats, err := Convert(img, Options{PixelSize: 8, Palette: "retro"})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	if b := out.Bounds(); b.Dx() != 100 || b.Dy() != 100 {
		t.Errorf("output dimensions: got %dx%d, want 100x100", b.Dx(), b.Dy())
	}
	if stats.SmallWidth != 12 || stats.SmallHeight != 12 {
		t.Errorf("small dimensions: got %dx%d, want 12x12", stats.SmallWidth, stats.SmallHeight)
	}

	b := out.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := out.At(x, y).RGBA()
			if uint8(r>>8) != 255 || uint8(g>>8) != 0 || uint8(bl>>8) != 0 {
				t.Fatalf("pixel (%d,%d): got (%d,%d,%d), want (255,0,0)", x, y, r>>8, g>>8, bl>>8)
			}
		}
	}
}

func TestConvert_OriginalSentinelSkipsQuantization(t *testing.T) {
	img := newGradientImage(100, 100)

	out, stats, err := Convert(img, Options{PixelSize: 8, Palette: PaletteOriginal})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	if b := out.Bounds(); b.Dx() != 100 || b.Dy() != 100 {
		t.Errorf("output dimensions: got %dx%d, want 100x100", b.Dx(), b.Dy())
	}
	if stats.Palette != PaletteOriginal {
		t.Errorf("stats palette: got %q, want %q", stats.Palette, PaletteOriginal)
	}

	// Pixel colors must be unchanged from the plain pixelated image.
	want := Pixelate(img, 8, SamplingNearest)
	b := out.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			gr, gg, gb, _ := out.At(x, y).RGBA()
			wr, wg, wb, _ := want.At(x, y).RGBA()
			if gr != wr || gg != wg || gb != wb {
				t.Fatalf("pixel (%d,%d) differs from the pixelated image", x, y)
			}
		}
	}
}

func TestConvert_AdaptiveWithDither(t *testing.T) {
	img := newGradientImage(100, 100)

	flat, _, err := Convert(img, Options{PixelSize: 2, Palette: PaletteOriginal, ColorCount: 16})
	if err != nil {
		t.Fatalf("Convert (flat) failed: %v", err)
	}
	dithered, _, err := Convert(img, Options{PixelSize: 2, Palette: PaletteOriginal, ColorCount: 16, Dither: true})
	if err != nil {
		t.Fatalf("Convert (dither) failed: %v", err)
	}

	if got := distinctColors(dithered); got > 16 {
		t.Errorf("dithered output: got %d distinct colors, want <= 16", got)
	}
	if got := distinctColors(flat); got > 16 {
		t.Errorf("flat output: got %d distinct colors, want <= 16", got)
	}

	same := true
	b := flat.Bounds()
	for y := b.Min.Y; y < b.Max.Y && same; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if flat.At(x, y) != dithered.At(x, y) {
				same = false
				break
			}
		}
	}
	if same {
		t.Error("dithering produced the exact flat banding output")
	}
}

func TestConvert_ExplicitOutputSize(t *testing.T) {
	img := newGradientImage(100, 100)

	out, stats, err := Convert(img, Options{PixelSize: 8, Palette: "retro", OutputWidth: 200, OutputHeight: 200})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	if b := out.Bounds(); b.Dx() != 200 || b.Dy() != 200 {
		t.Errorf("output dimensions: got %dx%d, want 200x200", b.Dx(), b.Dy())
	}
	if stats.OutputWidth != 200 || stats.OutputHeight != 200 {
		t.Errorf("stats output: got %dx%d, want 200x200", stats.OutputWidth, stats.OutputHeight)
	}
	if stats.OriginalWidth != 100 || stats.OriginalHeight != 100 {
		t.Errorf("stats original: got %dx%d, want 100x100", stats.OriginalWidth, stats.OriginalHeight)
	}
}

func TestConvert_AlphaRoundTrip(t *testing.T) {
	img := newAlphaGradientImage(100, 100)

	out, stats, err := Convert(img, Options{PixelSize: 8, Palette: "retro"})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	if !stats.HasAlpha {
		t.Error("stats should report an alpha channel")
	}
	if b := out.Bounds(); b.Dx() != 100 || b.Dy() != 100 {
		t.Errorf("output dimensions: got %dx%d, want 100x100", b.Dx(), b.Dy())
	}

	// The alpha plane is pixelated on the same 12x12 block grid as the
	// color plane: alpha varies only along x, so at most 12 values.
	if got := distinctAlphas(out); got > 12 {
		t.Errorf("distinct alpha values: got %d, want <= 12", got)
	}
	if got := distinctAlphas(out); got < 2 {
		t.Errorf("alpha plane collapsed to %d value(s)", got)
	}
}

func TestConvert_AdaptiveKeepsColorUnderAlpha(t *testing.T) {
	// A constant-color image with an alpha ramp has exactly one visible
	// color. Adaptive quantization works on the color plane alone, so
	// every output pixel must keep that color no matter how transparent
	// it is; only the alpha channel may vary.
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 50, B: 50, A: uint8(x * 255 / 63)})
		}
	}

	out, stats, err := Convert(img, Options{PixelSize: 8, Palette: PaletteOriginal, ColorCount: 8})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if !stats.HasAlpha {
		t.Error("stats should report an alpha channel")
	}

	want := color.NRGBA{R: 200, G: 50, B: 50}
	b := out.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(out.At(x, y)).(color.NRGBA)
			if diff(c.R, want.R) > 8 || diff(c.G, want.G) > 8 || diff(c.B, want.B) > 8 {
				t.Fatalf("pixel (%d,%d): got %v, want color near (200,50,50)", x, y, c)
			}
		}
	}
	if got := distinctAlphas(out); got < 2 {
		t.Errorf("alpha plane collapsed to %d value(s)", got)
	}
}

func TestConvert_OpaqueInputStaysOpaque(t *testing.T) {
	img := newGradientImage(40, 40)

	out, stats, err := Convert(img, Options{PixelSize: 4, Palette: "nes"})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	if stats.HasAlpha {
		t.Error("opaque input reported as having alpha")
	}
	if !isOpaque(out) {
		t.Error("output of an opaque input has transparent pixels")
	}
}

func TestConvert_UnknownPaletteFallsBack(t *testing.T) {
	img := newSolidImage(20, 20, color.NRGBA{255, 0, 0, 255})

	out, stats, err := Convert(img, Options{PixelSize: 4, Palette: "does-not-exist"})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if stats.Palette != DefaultPalette {
		t.Errorf("stats palette: got %q, want %q", stats.Palette, DefaultPalette)
	}
	r, _, _, _ := out.At(10, 10).RGBA()
	if uint8(r>>8) != 255 {
		t.Errorf("fallback palette did not map red to red: got %d", r>>8)
	}
}

func TestConvert_ClampsOptions(t *testing.T) {
	img := newGradientImage(100, 100)

	_, stats, err := Convert(img, Options{PixelSize: 0, Palette: "retro"})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if stats.PixelSize != 1 {
		t.Errorf("pixelSize 0: got %d, want 1", stats.PixelSize)
	}

	_, stats, err = Convert(img, Options{PixelSize: 1000, Palette: "retro"})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if stats.PixelSize != MaxPixelSize {
		t.Errorf("pixelSize 1000: got %d, want %d", stats.PixelSize, MaxPixelSize)
	}
	if stats.SmallWidth != 1 || stats.SmallHeight != 1 {
		t.Errorf("small size at max block: got %dx%d, want 1x1", stats.SmallWidth, stats.SmallHeight)
	}
}

func TestConvert_GridOverlay(t *testing.T) {
	img := newSolidImage(64, 64, color.NRGBA{255, 0, 0, 255})
	gridCol := Color{30, 30, 30}

	out, _, err := Convert(img, Options{
		PixelSize:     8,
		Palette:       "retro",
		Grid:          true,
		GridColor:     gridCol,
		GridThickness: 1,
	})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	r, g, b, _ := out.At(8, 4).RGBA()
	if uint8(r>>8) != 30 || uint8(g>>8) != 30 || uint8(b>>8) != 30 {
		t.Errorf("grid line at (8,4): got (%d,%d,%d), want (30,30,30)", r>>8, g>>8, b>>8)
	}
	r, _, _, _ = out.At(4, 4).RGBA()
	if uint8(r>>8) != 255 {
		t.Errorf("block interior at (4,4): got red=%d, want 255", r>>8)
	}
}

func TestConvert_SmoothedAndEnhanced(t *testing.T) {
	img := newGradientImage(64, 64)

	out, stats, err := Convert(img, Options{
		PixelSize:    8,
		Palette:      PaletteOriginal,
		SmoothRadius: 0.5,
		Contrast:     1.2,
		Brightness:   1.1,
		Sampling:     SamplingLanczos,
	})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if b := out.Bounds(); b.Dx() != 64 || b.Dy() != 64 {
		t.Errorf("output dimensions: got %dx%d, want 64x64", b.Dx(), b.Dy())
	}
	if stats.SmallWidth != 8 || stats.SmallHeight != 8 {
		t.Errorf("small dimensions: got %dx%d, want 8x8", stats.SmallWidth, stats.SmallHeight)
	}
}

func TestConvert_TinyImage(t *testing.T) {
	// Smaller than one block: the small image clamps to 1x1.
	img := newGradientImage(5, 3)

	out, stats, err := Convert(img, Options{PixelSize: 8, Palette: "retro"})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if b := out.Bounds(); b.Dx() != 5 || b.Dy() != 3 {
		t.Errorf("output dimensions: got %dx%d, want 5x3", b.Dx(), b.Dy())
	}
	if stats.SmallWidth != 1 || stats.SmallHeight != 1 {
		t.Errorf("small dimensions: got %dx%d, want 1x1", stats.SmallWidth, stats.SmallHeight)
	}
	if got := distinctColors(out); got != 1 {
		t.Errorf("1x1 small image must expand to a single color, got %d", got)
	}
}

func TestConvertBytes_RoundTrip(t *testing.T) {
	src := newGradientImage(50, 50)
	data, err := Encode(src, "png")
	if err != nil {
		t.Fatal(err)
	}

	out, stats, err := ConvertBytes(data, Options{PixelSize: 5, Palette: "retro"})
	if err != nil {
		t.Fatalf("ConvertBytes failed: %v", err)
	}

	img, format, err := Decode(out)
	if err != nil {
		t.Fatalf("result did not decode: %v", err)
	}
	if format != "png" {
		t.Errorf("result format: got %q, want png", format)
	}
	if b := img.Bounds(); b.Dx() != 50 || b.Dy() != 50 {
		t.Errorf("result dimensions: got %dx%d, want 50x50", b.Dx(), b.Dy())
	}
	if stats.ProcessingTime <= 0 {
		t.Error("processing time not recorded")
	}
}

func TestConvertBytes_DecodeError(t *testing.T) {
	_, _, err := ConvertBytes([]byte("definitely not an image"), Options{})
	if !errors.Is(err, ErrDecode) {
		t.Errorf("got %v, want ErrDecode", err)
	}
}

func TestConvertBytes_UnsupportedFormat(t *testing.T) {
	data, err := Encode(newSolidImage(10, 10, color.NRGBA{1, 2, 3, 255}), "png")
	if err != nil {
		t.Fatal(err)
	}

	_, _, err = ConvertBytes(data, Options{Format: "tiff"})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("got %v, want ErrUnsupportedFormat", err)
	}
}

func TestConvert_ConcurrentCalls(t *testing.T) {
	img := newGradientImage(64, 64)
	done := make(chan error, 8)

	for i := 0; i < 8; i++ {
		go func() {
			_, _, err := Convert(img, Options{PixelSize: 8, Palette: "nes"})
			done <- err
		}()
	}
	for i := 0; i < 8; i++ {
		if err := <-done; err != nil {
			t.Errorf("concurrent conversion failed: %v", err)
		}
	}
}
