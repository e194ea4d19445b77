// Package imaging moves rasters across the process boundary: it decodes
// image files into rasters, caches decoded images by location, encodes
// results as base64 PNG, saves them to disk, and describes pixel colors.
//
// # Formats
//
// Decoding supports PNG, JPEG, GIF, BMP, TIFF and WebP. JPEG orientation
// tags are applied while decoding. Saving picks the encoder from the file
// extension (png, jpg, jpeg, gif, bmp, tif, tiff).
//
// # Channels
//
// A decoded image becomes a gray raster or a color raster according to the
// requested Mode. Color rasters keep the decoder's R, G, B order; alpha is
// dropped.
//
// # Thread Safety
//
// Cache is safe for concurrent use. Every Load returns a new Raster, so
// callers may modify what they get without affecting other callers.
package imaging
