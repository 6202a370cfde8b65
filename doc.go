// Package reel provides the rendering core of a multimedia framework.
//
// # Overview
//
// reel models media as a lazy pull pipeline: producers mint frames, filters
// annotate them with deferred work, and the caller finally asks a frame for
// its image or audio. Nothing decodes or renders until that final pull, so
// a chain of services costs no more than the frames actually consumed.
//
// # Quick Start
//
//	import (
//		"github.com/reelkit/reel"
//		"github.com/reelkit/reel/pixel"
//		"github.com/reelkit/reel/producer"
//	)
//
//	profile := reel.DVPAL()
//	src := producer.NewColor(profile, "red")
//	defer src.Close()
//
//	f, _ := src.GetFrame(0)
//	defer f.Close()
//
//	img, _ := f.GetImage(reel.ImageRequest{Format: pixel.FormatRGBA})
//
// # Frames
//
// A Frame is a property bag plus stacks of deferred callbacks. Producers
// push get-image and get-audio callbacks instead of rendering eagerly;
// GetImage and GetAudio pop and run them, memoize the result, and fall back
// to a test card or a silent placeholder when nothing was pushed.
//
// # Architecture
//
// The module is organized into:
//   - Core API: Profile, Frame, Producer, Filter
//   - pixel: packed image formats, colorspace conversion, scaling
//   - audio: interleaved PCM mixing and sample cadence
//   - props: typed property dictionaries with destructors
//   - pool, cache: buffer recycling and service-side object caching
//   - producer, filter: concrete services built on the core
//
// # Coordinate System
//
// Images are top-down: origin (0,0) at top-left, X increases right, Y
// increases down. Timeline positions are frame counts from zero.
package reel

// Version information
const (
	// Version is the current version of the library
	Version = "0.2.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 2

	// VersionPatch is the patch version
	VersionPatch = 0
)
