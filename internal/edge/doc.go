// Package edge implements Canny style edge detection on rasters.
//
// The pipeline is split into stages that can be run on their own:
//
//  1. Smooth: 5x5 binomial Gaussian over a mirror padded copy.
//  2. GradientGray / GradientColor: Sobel derivatives, combined through the
//     structure tensor for color input.
//  3. SuppressNonMaxima: keeps ridge pixels along the quantized direction.
//  4. Hysteresis: breadth-first growth from strong seeds.
//  5. Finalize: one pass that resolves the remaining weak pixels.
//
// Run chains them and keeps each intermediate result in a Stages value.
//
// # Directions
//
// Quantize maps an angle to one of four bins with fixed, inclusive ranges
// checked in a fixed order. A pixel with zero strength has no direction and
// is skipped by every direction based stage.
package edge
