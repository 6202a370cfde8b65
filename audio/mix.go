package audio

import "math"

const (
	maxChannels = 6
	maxSamples  = 4000
)

// Mix crossfades src into dest in place, ramping the source weight
// linearly from weightStart to weightEnd across the frame. Channel and
// sample counts outside the supported range are treated as zero. It
// returns the sample and channel counts actually mixed, the minima of the
// two streams. When both slices share a backing array the mix is skipped
// and the source counts are returned.
func Mix(dest, src []int16, destChannels, srcChannels, destSamples, srcSamples int, weightStart, weightEnd float32) (samples, channels int) {
	if srcChannels > maxChannels {
		srcChannels = 0
	}
	if destChannels > maxChannels {
		destChannels = 0
	}
	if srcSamples > maxSamples {
		srcSamples = 0
	}
	if destSamples > maxSamples {
		destSamples = 0
	}

	samples = destSamples
	if srcSamples < samples {
		samples = srcSamples
	}
	channels = destChannels
	if srcChannels < channels {
		channels = srcChannels
	}

	if len(dest) > 0 && len(src) > 0 && &dest[0] == &src[0] {
		return srcSamples, srcChannels
	}

	weight := weightStart
	var step float32
	if samples > 0 {
		step = (weightEnd - weightStart) / float32(samples)
	}
	for i := 0; i < samples; i++ {
		w := float64(weight)
		for j := 0; j < channels; j++ {
			d := float64(dest[i*destChannels+j])
			s := float64(src[i*srcChannels+j])
			dest[i*destChannels+j] = int16(s*w + d*(1.0-w))
		}
		weight += step
	}
	return samples, channels
}

// Combine sums src into dest in place through a one-pole low-pass filter,
// which smooths the transition without the level drop a plain crossfade
// causes. destWeight scales the destination before the sum; the source
// always contributes at full level. The filter state is seeded from the
// first destination sample of each channel. It returns the sample and
// channel counts combined. When both slices share a backing array the
// combine is skipped and the source counts are returned.
func Combine(dest, src []int16, destChannels, srcChannels, destSamples, srcSamples int, destWeight float64) (samples, channels int) {
	if len(dest) > 0 && len(src) > 0 && &dest[0] == &src[0] {
		return srcSamples, srcChannels
	}

	samples = destSamples
	if srcSamples < samples {
		samples = srcSamples
	}
	channels = destChannels
	if srcChannels < channels {
		channels = srcChannels
	}
	if samples <= 0 || channels <= 0 {
		return samples, channels
	}

	vp := make([]float64, channels)
	for j := range vp {
		vp[j] = float64(dest[j])
	}

	const fc = 0.5
	b := math.Exp(-2.0 * math.Pi * fc)
	a := 1.0 - b

	for i := 0; i < samples; i++ {
		for j := 0; j < channels; j++ {
			v := destWeight*float64(dest[i*destChannels+j]) + float64(src[i*srcChannels+j])
			if v < -32767 {
				v = -32767
			} else if v > 32768 {
				v = 32768
			}
			out := int16(v*a + vp[j]*b)
			dest[i*destChannels+j] = out
			vp[j] = float64(out)
		}
	}
	return samples, channels
}
