package producer

import (
	"math"

	"github.com/reelkit/reel"
	"github.com/reelkit/reel/audio"
)

// Tone is a producer of a steady sine tone.
//
// Sample counts follow the profile's frame rate, and the oscillator phase
// derives from the cumulative sample position of each frame, so
// consecutive frames concatenate into a continuous waveform even at
// drop-frame rates where counts vary from frame to frame.
type Tone struct {
	id      reel.ServiceID
	profile reel.Profile
	pitch   float64
	gain    float64
}

// NewTone creates a producer of a sine tone at pitch hertz with the given
// gain. Gain clamps to [0, 1]; a zero profile is replaced by
// reel.DefaultProfile.
func NewTone(profile reel.Profile, pitch, gain float64) *Tone {
	if profile.IsZero() {
		profile = reel.DefaultProfile()
	}
	if gain < 0 {
		gain = 0
	}
	if gain > 1 {
		gain = 1
	}
	return &Tone{
		id:      reel.NewServiceID(),
		profile: profile,
		pitch:   pitch,
		gain:    gain,
	}
}

// ID returns the producer's service identity.
func (t *Tone) ID() reel.ServiceID {
	return t.id
}

// GetFrame returns a frame for the given position carrying a deferred
// render of the tone.
func (t *Tone) GetFrame(position int64) (*reel.Frame, error) {
	frame := reel.NewFrame(t.profile, reel.WithPosition(position))
	frame.PushGetAudio(t.renderAudio)
	return frame, nil
}

// renderAudio synthesizes the frame's slice of the waveform, identical on
// every channel.
func (t *Tone) renderAudio(frame *reel.Frame, req reel.AudioRequest) (reel.Audio, error) {
	fps := t.profile.FPS()
	frequency := req.Frequency
	if frequency <= 0 {
		frequency = 48000
	}
	channels := req.Channels
	if channels <= 0 {
		channels = 2
	}
	position := frame.Position()
	samples := req.Samples
	if samples <= 0 {
		samples = audio.SamplesForFrame(fps, frequency, position)
	}

	start := audio.SamplesToPosition(fps, frequency, position)
	step := 2 * math.Pi * t.pitch / float64(frequency)
	amplitude := t.gain * 32767

	buf := make([]int16, samples*channels)
	for i := 0; i < samples; i++ {
		v := int16(amplitude * math.Sin(step*float64(start+int64(i))))
		for ch := 0; ch < channels; ch++ {
			buf[i*channels+ch] = v
		}
	}

	frame.Properties().SetData("audio", buf, samples*channels*2, nil)
	return reel.Audio{Data: buf, Frequency: frequency, Channels: channels, Samples: samples}, nil
}
