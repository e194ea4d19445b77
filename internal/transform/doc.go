// Package transform holds the point and geometric operations that sit beside
// the edge, segmentation and filter pipelines: inversion, gray conversion,
// binary thresholding, mirroring, rotation, cropping, side by side
// composition and pixel comparison.
//
// Geometric operations delegate to github.com/disintegration/imaging and
// convert back to a Raster with the input's channel count.
package transform
