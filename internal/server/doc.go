// Package server implements the MCP (Model Context Protocol) server for the
// raster editing tools.
//
// The server speaks JSON-RPC 2.0 over a line oriented stream, normally
// stdin and stdout:
//   - Input: one JSON-RPC request per line
//   - Output: one JSON-RPC response per line
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Tools
//
// Every registered operation in package ops is served as raster_<name>
// (raster_copy, raster_invert, raster_grayscale, raster_threshold,
// raster_mirror, raster_rotate, raster_pad, raster_gauss, raster_sobel,
// raster_angle, raster_nonmaxima, raster_hysteresis, raster_canny,
// raster_median). These accept path, mode and output plus the numeric
// parameters the operation reads, and return the result as base64 PNG.
//
// The remaining tools have their own handlers:
//   - raster_load: cache an image and report its metadata
//   - raster_histogram: per channel histogram, mean and variance
//   - raster_sample: pixel value, hex and HSL at (row, col)
//   - raster_dominant_colors: quantized color palette
//   - raster_crop: crop by corners or region name, with statistics
//   - raster_otsu: three class segmentation plus thresholds
//   - raster_combine: two images side by side
//   - raster_compare: pixel statistics of two images
//
// # Image Caching
//
// Decoded images are cached by location in an imaging.Cache owned by the
// caller. Each tool call converts the cached image into a fresh raster, so
// no call observes another call's output. Saving to output evicts that
// location, so a later call reading it decodes the new file.
//
// # File Access
//
// RestrictFiles confines local paths and outputs to one directory and is
// used when serving HTTP. Paths outside it fail with ErrPathNotAllowed.
//
// # Error Handling
//
// Tool errors are returned as JSON-RPC error responses:
//   - -32602: invalid arguments, including bad dimensions, parameters out
//     of range and channel mismatches
//   - -32000: any other tool failure such as an unreadable file
//   - -32601: unknown method
//
// # Usage
//
//	srv := server.New(imaging.NewCache(source, maxPixels), log)
//	if err := srv.Run(ctx, os.Stdin, os.Stdout); err != nil {
//	    log.Fatal().Err(err).Msg("server stopped")
//	}
package server
