// Package audio implements the PCM primitives behind frame audio
// resolution: in-place crossfade mixing, low-pass combining, and the
// sample-count bookkeeping that keeps audio locked to the frame cadence.
//
// Buffers are interleaved signed 16-bit samples. Sample counts are always
// per channel. The NTSC calculators reproduce the uneven per-frame sample
// distribution needed for 29.97 fps material, where the per-second sample
// total is not divisible by the frame rate.
package audio
