package audio

// isNTSC reports whether the frame rate is the 29.97 family, which needs
// uneven per-frame sample counts to stay locked to real time.
func isNTSC(fps float64) bool {
	return int(fps*100) == 2997
}

// SamplesForFrame returns the number of samples per channel belonging to
// the frame at position. For NTSC rates the count varies across a short
// repeating cycle whose period divides 300, so any 300 consecutive frames
// carry exactly ten seconds of audio with no rounding drift. The cycle is
// defined for 48000, 44100 and 32000 Hz; other frequencies yield 0. For
// all other frame rates the count is frequency over fps, truncated. A
// zero fps yields 0.
func SamplesForFrame(fps float64, frequency int, position int64) int {
	if isNTSC(fps) {
		switch frequency {
		case 48000:
			samples := frequency / 30
			if position%5 != 0 {
				samples += 2
			}
			return samples
		case 44100:
			switch {
			case position%300 == 299:
				return 1472
			case position%30 == 29:
				return 1471
			case position%2 == 1:
				return 1472
			default:
				return 1471
			}
		case 32000:
			switch {
			case position%30 == 0:
				return 1067
			case position%4 == 2:
				return 1067
			default:
				return 1068
			}
		default:
			return 0
		}
	}
	if fps != 0 {
		return int(float64(frequency) / fps)
	}
	return 0
}

// SamplesToPosition returns the number of samples per channel preceding
// the given frame: the exact running total of SamplesForFrame in closed
// form. Generators use it to keep audio phase-continuous across frame
// boundaries, so the two calculators must agree at every frame.
func SamplesToPosition(fps float64, frequency int, frame int64) int64 {
	if isNTSC(fps) {
		switch frequency {
		case 48000:
			return 1602*frame - 2*((frame+4)/5)
		case 44100:
			return 1471*frame + frame/2 - frame/30 + frame/300
		case 32000:
			return 1068*frame - (frame+29)/30 - (frame+1)/4 + (frame+29)/60
		}
		return 0
	}
	if fps != 0 {
		return frame * int64(frequency) / int64(fps)
	}
	return 0
}
