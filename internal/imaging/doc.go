// Package imaging decodes source frames and normalizes them to 8-bit
// straight-alpha RGBA, the only pixel layout the sheet tools accept.
//
// Decoders for PNG, JPEG and GIF come from the standard library; BMP, TIFF
// and WebP are registered from golang.org/x/image. [Probe] reads only the
// header of a frame and is used for listing and consistency warnings.
package imaging
