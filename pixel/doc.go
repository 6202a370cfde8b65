// Package pixel provides the pixel formats and raw-buffer transforms the
// frame pipeline uses to materialize images.
//
// # Formats
//
// Format identifies how pixels are laid out in a byte buffer. The packed
// formats (RGB24, RGBA, ARGB, BGR24, BGRA, YUV422) store interleaved
// samples; YUV420P is planar with 2x2 chroma subsampling.
//
// # Conversions
//
// The conversion functions transform between packed RGB orderings and
// YUV 4:2:2 using a fixed integer BT.601 coefficient transform. Chroma is
// pair-averaged when converting to YUV and duplicated when converting
// back. Source alpha channels are split into a separate one-byte-per-pixel
// mask, never interleaved into the YUV buffer.
//
// # Resizing
//
// ResizeYUV422 centers or crops without scaling, padding with neutral
// luma/chroma. RescaleYUV422 is a coarse 16.16 fixed-point nearest
// sampler. ScaleRGBA is the quality path, backed by golang.org/x/image/draw
// scalers selected through Interp.
//
// All functions operate on caller-supplied buffers and hold no state.
package pixel
