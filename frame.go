package reel

import (
	"errors"
	"io"
	"sync/atomic"

	"github.com/reelkit/reel/props"
)

// Well-known frame property keys. Property names are the contract between
// services: a filter configures a later step by writing these keys on the
// frame, so their spelling is fixed.
const (
	keyPosition       = "_position"
	keyImage          = "image"
	keyFormat         = "format"
	keyWidth          = "width"
	keyHeight         = "height"
	keyNormWidth      = "normalised_width"
	keyNormHeight     = "normalised_height"
	keyAspectRatio    = "aspect_ratio"
	keyScaledWidth    = "scaled_width"
	keyScaledHeight   = "scaled_height"
	keyTestImage      = "test_image"
	keyTestCardFrame  = "test_card_frame"
	keyAlpha          = "alpha"
	keyResizeAlpha    = "resize_alpha"
	keyRescaleInterp  = "rescale.interp"
	keyConsumerAspect = "consumer_aspect_ratio"
	keyAudio          = "audio"
	keyAudioFrequency = "audio_frequency"
	keyAudioChannels  = "audio_channels"
	keyAudioSamples   = "audio_samples"
	keyTestAudio      = "test_audio"
	keySilentAudio    = "silent_audio"
	keyMetaVolume     = "meta.volume"
	keyMetaMixdown    = "meta.mixdown"
	keyWaveform       = "waveform"
)

// ErrStackKind reports a pop that found a top entry of a different kind
// than requested. The entry stays on the stack.
var ErrStackKind = errors.New("reel: wrong image stack entry kind")

// stackKind discriminates image stack entries. The image stack carries
// deferred rendering steps interleaved with the frames and services those
// steps will consume.
type stackKind uint8

const (
	kindStep stackKind = iota
	kindFrame
	kindService
)

type imageStackEntry struct {
	kind    stackKind
	step    GetImageFunc
	frame   *Frame
	service any
}

// Frame is the unit of work in a pipeline: a property dictionary plus
// stacks of deferred rendering callbacks.
//
// Producers push get-image and get-audio callbacks onto a fresh frame
// instead of rendering. Filters push further callbacks that wrap whatever
// sits below them. The consumer finally calls GetImage or GetAudio, which
// unwinds the stack and memoizes the result in the properties.
//
// A Frame is reference counted: every holder calls Close exactly once, and
// the last Close tears the frame down. Apart from the reference count, a
// Frame is not safe for concurrent use.
type Frame struct {
	refs     atomic.Int32
	props    *props.Properties
	profile  Profile
	images   []imageStackEntry
	audio    []GetAudioFunc
	services []io.Closer
	alphaFn  func(*Frame) []byte
	testCard Producer
}

// NewFrame creates a frame for one position of the given profile. A zero
// profile is replaced by DefaultProfile.
func NewFrame(profile Profile, opts ...FrameOption) *Frame {
	if profile.IsZero() {
		profile = DefaultProfile()
	}
	o := defaultFrameOptions()
	for _, opt := range opts {
		opt(&o)
	}

	f := &Frame{
		props:    props.New(),
		profile:  profile,
		testCard: o.testCard,
	}
	f.refs.Store(1)

	p := f.props
	p.SetInt64(keyPosition, o.position)
	p.SetInt(keyWidth, profile.Width)
	p.SetInt(keyHeight, profile.Height)
	p.SetInt(keyNormWidth, profile.Width)
	p.SetInt(keyNormHeight, profile.Height)
	p.SetFloat(keyAspectRatio, profile.SAR())
	return f
}

// Properties returns the frame's property dictionary.
func (f *Frame) Properties() *props.Properties {
	return f.props
}

// Profile returns the profile the frame was created for.
func (f *Frame) Profile() Profile {
	return f.profile
}

// Position returns the timeline position the frame represents. Positions
// never read negative.
func (f *Frame) Position() int64 {
	pos := f.props.GetInt64(keyPosition)
	if pos < 0 {
		return 0
	}
	return pos
}

// SetPosition changes the timeline position the frame represents.
func (f *Frame) SetPosition(position int64) {
	f.props.SetInt64(keyPosition, position)
}

// AspectRatio returns the sample aspect ratio of the frame's image.
func (f *Frame) AspectRatio() float64 {
	return f.props.GetFloat(keyAspectRatio)
}

// SetAspectRatio changes the sample aspect ratio of the frame's image.
func (f *Frame) SetAspectRatio(ratio float64) {
	f.props.SetFloat(keyAspectRatio, ratio)
}

// Width returns the current image width in pixels.
func (f *Frame) Width() int {
	return f.props.GetInt(keyWidth)
}

// Height returns the current image height in pixels.
func (f *Frame) Height() int {
	return f.props.GetInt(keyHeight)
}

// IsTestCard reports whether GetImage would fall back to the test card or
// a placeholder: nothing on the image stack, or the current image already
// came from that fallback.
func (f *Frame) IsTestCard() bool {
	return len(f.images) == 0 || f.props.GetInt(keyTestImage) != 0
}

// IsTestAudio reports whether GetAudio would fall back to silence.
func (f *Frame) IsTestAudio() bool {
	return len(f.audio) == 0 || f.props.GetInt(keyTestAudio) != 0
}

// PushGetImage defers an image rendering step. GetImage pops and runs the
// most recently pushed step first.
func (f *Frame) PushGetImage(step GetImageFunc) {
	f.images = append(f.images, imageStackEntry{kind: kindStep, step: step})
}

// PopGetImage removes and returns the top image step. An empty stack
// returns nil with no error; a top entry of another kind returns
// ErrStackKind and leaves the stack intact.
func (f *Frame) PopGetImage() (GetImageFunc, error) {
	n := len(f.images)
	if n == 0 {
		return nil, nil
	}
	e := f.images[n-1]
	if e.kind != kindStep {
		return nil, ErrStackKind
	}
	f.images = f.images[:n-1]
	return e.step, nil
}

// PushFrame stacks another frame, typically the second operand of a
// transition. One reference moves with it: if nothing pops the frame
// before this frame's final Close, Close closes it.
func (f *Frame) PushFrame(other *Frame) {
	f.images = append(f.images, imageStackEntry{kind: kindFrame, frame: other})
}

// PopFrame removes and returns the top stacked frame, transferring its
// reference back to the caller. An empty stack returns nil with no error;
// a top entry of another kind returns ErrStackKind.
func (f *Frame) PopFrame() (*Frame, error) {
	n := len(f.images)
	if n == 0 {
		return nil, nil
	}
	e := f.images[n-1]
	if e.kind != kindFrame {
		return nil, ErrStackKind
	}
	f.images = f.images[:n-1]
	return e.frame, nil
}

// PushService stacks an arbitrary value, usually the service whose step
// sits above it. Steps pop it to recover their configuration.
func (f *Frame) PushService(service any) {
	f.images = append(f.images, imageStackEntry{kind: kindService, service: service})
}

// PopService removes and returns the top stacked service. An empty stack
// returns nil with no error; a top entry of another kind returns
// ErrStackKind.
func (f *Frame) PopService() (any, error) {
	n := len(f.images)
	if n == 0 {
		return nil, nil
	}
	e := f.images[n-1]
	if e.kind != kindService {
		return nil, ErrStackKind
	}
	f.images = f.images[:n-1]
	return e.service, nil
}

// PushGetAudio defers an audio rendering step. GetAudio pops and runs the
// most recently pushed step first.
func (f *Frame) PushGetAudio(step GetAudioFunc) {
	f.audio = append(f.audio, step)
}

// PopGetAudio removes and returns the top audio step, or nil when the
// stack is empty.
func (f *Frame) PopGetAudio() GetAudioFunc {
	n := len(f.audio)
	if n == 0 {
		return nil
	}
	step := f.audio[n-1]
	f.audio = f.audio[:n-1]
	return step
}

// OwnService ties a service's lifetime to the frame. Owned services close
// in reverse order during the frame's final Close. A nil service is
// ignored.
func (f *Frame) OwnService(c io.Closer) {
	if c != nil {
		f.services = append(f.services, c)
	}
}

// IncRef adds a reference so the frame can be handed to another holder.
// It returns the new reference count.
func (f *Frame) IncRef() int32 {
	return f.refs.Add(1)
}

// Close drops one reference. The final Close closes frames left on the
// image stack, closes owned services in reverse order, and releases every
// property buffer. Closing a nil frame is a no-op.
func (f *Frame) Close() error {
	if f == nil {
		return nil
	}
	if f.refs.Add(-1) > 0 {
		return nil
	}

	var errs []error
	for _, e := range f.images {
		if e.kind == kindFrame && e.frame != nil {
			if err := e.frame.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	f.images = nil
	f.audio = nil

	for i := len(f.services) - 1; i >= 0; i-- {
		if err := f.services[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	f.services = nil
	f.alphaFn = nil
	f.testCard = nil

	f.props.Close()
	return errors.Join(errs...)
}
