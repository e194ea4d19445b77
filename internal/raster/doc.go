// Package raster defines the 8-bit image grid every processing package works
// on, plus its float64 counterpart used for intermediate results.
//
// # Layout
//
// A Raster has either one channel (gray) or three (color). Coordinates are
// (row, col) with (0,0) at the top-left corner. Channel order is whatever the
// decoder delivered, normally R, G, B, and is preserved on export.
//
// # Ownership
//
// Operations never mutate their input. Each returns a freshly allocated
// Raster, so a loaded raster can be shared between goroutines as long as
// nobody calls Set on it.
//
// # Padding
//
// MirrorPad grows a raster by (k-1)/2 on every side by reflecting it across
// its edges. Crop with the same offset recovers the original exactly.
package raster
