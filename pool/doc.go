// Package pool provides the pooled byte-buffer allocator used for image,
// audio, and mask buffers throughout the pipeline.
//
// Buffers are grouped into power-of-two size classes. Alloc returns a
// slice whose contents are unspecified; callers fill what they use.
// Release returns a buffer to its size class for reuse. Allocation never
// blocks; when a size class is empty a fresh buffer is made.
package pool
