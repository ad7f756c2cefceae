// Package pixelart converts raster images into stylized pixel art by
// downsampling into coarse blocks and restricting output colors to a
// fixed or adaptive palette.
//
// The pipeline is: decode -> optional pre-smooth -> pixelate ->
// quantize (fixed palette match or adaptive clustering) -> optional
// grid overlay and contrast/brightness -> re-attach alpha -> optional
// resize -> re-encode. Convert and ConvertBytes run it end to end;
// the individual stages (Reduce, Expand, ApplyPalette, MapToPalette,
// DrawGrid, ...) are exported for callers that want only part of it.
//
// # Palettes
//
// A small catalog of curated palettes ships with the package (gameboy,
// nes, grayscale, retro) plus the "original" sentinel meaning no color
// restriction. The catalog is initialized once and never mutated, so
// palettes can be shared by reference across concurrent conversions.
//
// # Error Handling
//
// Malformed input bytes surface as ErrDecode and unknown output
// encodings as ErrUnsupportedFormat; both are fatal for that call.
// Everything else (pixel size out of range, color count out of range,
// unknown palette names) is clamped or defaulted silently: the
// pipeline always tries to produce output rather than reject cosmetic
// misconfiguration.
//
// # Thread Safety
//
// A conversion is a pure, synchronous computation over buffers it owns.
// There is no shared mutable state between calls, so any number of
// conversions may run concurrently.
package pixelart
