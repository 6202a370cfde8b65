package reel

import (
	"github.com/reelkit/reel/audio"
	"github.com/reelkit/reel/pool"
)

// Audio is interleaved signed 16-bit PCM. Samples counts per channel, so
// len(Data) is Samples*Channels for a fully packed buffer.
type Audio struct {
	Data      []int16
	Frequency int
	Channels  int
	Samples   int
}

// AudioRequest asks a frame for audio. Fields of zero or less fall back
// to 48 kHz stereo with 1920 samples when the frame has to synthesize
// silence.
type AudioRequest struct {
	Frequency int
	Channels  int
	Samples   int
}

// GetAudioFunc is a deferred audio rendering step. It runs when GetAudio
// pops it, and may itself call GetAudio on the frame to pull the layer
// below.
type GetAudioFunc func(frame *Frame, req AudioRequest) (Audio, error)

// storedAudio returns the memoized PCM buffer, if any.
func (f *Frame) storedAudio() []int16 {
	data, _ := f.props.GetData(keyAudio)
	buf, _ := data.([]int16)
	return buf
}

// GetAudio resolves the frame's audio. The top stacked step runs first
// unless "test_audio" hides it; without one the memoized buffer is
// returned; as a last resort silence is synthesized at the requested
// rate. A pending "meta.volume" gain is applied to the result once and
// cleared.
func (f *Frame) GetAudio(req AudioRequest) (Audio, error) {
	p := f.props
	step := f.PopGetAudio()
	hide := p.GetInt(keyTestAudio) != 0

	var a Audio
	switch {
	case !hide && step != nil:
		position := f.Position()
		var err error
		a, err = step(f, req)
		if err != nil {
			return Audio{}, err
		}
		f.SetPosition(position)

	case f.storedAudio() != nil:
		a = Audio{
			Data:      f.storedAudio(),
			Frequency: p.GetInt(keyAudioFrequency),
			Channels:  p.GetInt(keyAudioChannels),
			Samples:   p.GetInt(keyAudioSamples),
		}

	default:
		a = f.silentAudio(req)
	}

	p.SetInt(keyAudioFrequency, a.Frequency)
	p.SetInt(keyAudioChannels, a.Channels)
	p.SetInt(keyAudioSamples, a.Samples)

	if p.Has(keyMetaVolume) {
		applyVolume(a, p.GetFloat(keyMetaVolume))
		p.Delete(keyMetaVolume)
	}
	return a, nil
}

// silentAudio synthesizes and memoizes a silent buffer at the requested
// rate, marking the frame as test audio.
func (f *Frame) silentAudio(req AudioRequest) Audio {
	samples := req.Samples
	if samples <= 0 {
		samples = 1920
	}
	channels := req.Channels
	if channels <= 0 {
		channels = 2
	}
	frequency := req.Frequency
	if frequency <= 0 {
		frequency = 48000
	}

	buf := make([]int16, samples*channels)
	f.props.SetData(keyAudio, buf, samples*channels*2, nil)
	f.props.SetInt(keyTestAudio, 1)
	Logger().Debug("filled silent audio",
		"frequency", frequency, "channels", channels, "samples", samples)
	return Audio{Data: buf, Frequency: frequency, Channels: channels, Samples: samples}
}

// applyVolume scales PCM in place. Gain results beyond the sample range
// clamp instead of wrapping.
func applyVolume(a Audio, value float64) {
	n := a.Samples * a.Channels
	if n > len(a.Data) {
		n = len(a.Data)
	}
	switch {
	case value == 0:
		for i := 0; i < n; i++ {
			a.Data[i] = 0
		}
	case value != 1:
		for i := 0; i < n; i++ {
			v := float64(a.Data[i]) * value
			if v > 32767 {
				v = 32767
			} else if v < -32768 {
				v = -32768
			}
			a.Data[i] = int16(v)
		}
	}
}

// consumeSilent zeroes the buffer when the frame was marked
// "silent_audio", and clears the mark either way.
func (f *Frame) consumeSilent(a Audio) {
	silent := f.props.GetInt(keySilentAudio) != 0
	f.props.SetInt(keySilentAudio, 0)
	if !silent {
		return
	}
	n := a.Samples * a.Channels
	if n > len(a.Data) {
		n = len(a.Data)
	}
	for i := 0; i < n; i++ {
		a.Data[i] = 0
	}
}

// sharedPCM reports whether two buffers alias the same first sample.
func sharedPCM(a, b []int16) bool {
	return len(a) > 0 && len(b) > 0 && &a[0] == &b[0]
}

// MixAudio resolves audio on both frames and crossfades other into f in
// place, ramping the source weight from weightStart to weightEnd. Frames
// marked "silent_audio" contribute silence. The result aliases f's
// buffer and reports the sample and channel counts actually mixed.
func (f *Frame) MixAudio(other *Frame, weightStart, weightEnd float32, req AudioRequest) (Audio, error) {
	src, err := other.GetAudio(req)
	if err != nil {
		return Audio{}, err
	}
	dest, err := f.GetAudio(req)
	if err != nil {
		return Audio{}, err
	}

	f.consumeSilent(dest)
	other.consumeSilent(src)

	samples, channels := audio.Mix(dest.Data, src.Data,
		dest.Channels, src.Channels, dest.Samples, src.Samples, weightStart, weightEnd)

	result := Audio{Data: dest.Data, Frequency: dest.Frequency, Channels: channels, Samples: samples}
	if sharedPCM(dest.Data, src.Data) {
		result.Data = src.Data
		result.Frequency = src.Frequency
	}
	return result, nil
}

// CombineAudio resolves audio on both frames and sums other into f
// through a low-pass filter, which holds the level steady where a plain
// crossfade would dip. When "meta.mixdown" is set on f, its pending
// "meta.volume" becomes the destination weight, so a track being faded
// down makes room for the one being faded up.
func (f *Frame) CombineAudio(other *Frame, req AudioRequest) (Audio, error) {
	destWeight := 1.0
	if f.props.GetInt(keyMetaMixdown) != 0 {
		destWeight = 1.0 - f.props.GetFloat(keyMetaVolume)
	}

	src, err := other.GetAudio(req)
	if err != nil {
		return Audio{}, err
	}
	dest, err := f.GetAudio(req)
	if err != nil {
		return Audio{}, err
	}

	f.consumeSilent(dest)
	other.consumeSilent(src)

	samples, channels := audio.Combine(dest.Data, src.Data,
		dest.Channels, src.Channels, dest.Samples, src.Samples, destWeight)

	result := Audio{Data: dest.Data, Frequency: dest.Frequency, Channels: channels, Samples: samples}
	if sharedPCM(dest.Data, src.Data) {
		result.Data = src.Data
		result.Frequency = src.Frequency
	}
	return result, nil
}

// Waveform renders the frame's audio as a w by h grayscale bitmap, left
// channel above the center line and right channel below. The bitmap is
// memoized on the frame and returned; it is nil when the frame has no
// resolvable audio or the dimensions are empty.
func (f *Frame) Waveform(w, h int) []byte {
	const frequency = 32000
	const channels = 2
	samples := audio.SamplesForFrame(f.profile.FPS(), frequency, f.Position())

	a, err := f.GetAudio(AudioRequest{Frequency: frequency, Channels: channels, Samples: samples})
	if err != nil {
		return nil
	}

	size := w * h
	if size <= 0 {
		return nil
	}
	bitmap := pool.Alloc(size)
	for i := range bitmap {
		bitmap[i] = 0
	}
	owned := bitmap
	f.props.SetData(keyWaveform, bitmap, size, func() { pool.Release(owned) })

	if a.Channels <= 0 || len(a.Data) == 0 {
		return bitmap
	}

	skip := a.Samples/w - 1
	if skip < 0 {
		skip = 0
	}
	ubound := a.Samples * a.Channels
	if ubound > len(a.Data) {
		ubound = len(a.Data)
	}

	idx := 0
	for i := 0; i < w && idx < ubound; i++ {
		for j := 0; j < a.Channels && idx < ubound; j++ {
			magnitude := int(a.Data[idx])
			if magnitude < 0 {
				magnitude = -magnitude
			}
			// Line height is the magnitude's share of half the
			// vertical resolution. Left channel grows up from the
			// center, right channel down.
			height := int(float64(magnitude) / 32768 * float64(h) / 2)
			displacement := h/2 - (1-j)*height
			for k := 0; k < height; k++ {
				pos := i + (displacement+k)*w
				if pos >= 0 && pos < size {
					bitmap[pos] = 0xFF
				}
			}
			idx++
		}
		idx += skip * a.Channels
	}
	return bitmap
}
