package reel

// Profile describes the video space a pipeline renders into: picture
// dimensions, frame rate, and aspect geometry. Producers consult the
// profile for defaults and consumers use it to normalise their output.
//
// Rates and ratios are kept as exact rationals. NTSC material needs
// 30000/1001, which no float field could carry without drift.
type Profile struct {
	// Name identifies the preset, for example "dv_pal".
	Name string

	// Width and Height are the picture dimensions in pixels.
	Width  int
	Height int

	// FrameRateNum and FrameRateDen form the frames-per-second rational.
	FrameRateNum int
	FrameRateDen int

	// SampleAspectNum and SampleAspectDen form the pixel aspect rational.
	SampleAspectNum int
	SampleAspectDen int

	// DisplayAspectNum and DisplayAspectDen form the display aspect
	// rational, for example 4:3 or 16:9.
	DisplayAspectNum int
	DisplayAspectDen int

	// Progressive is false for interlaced material.
	Progressive bool
}

// FPS returns the frame rate as a float. A zero denominator returns 0.
func (p Profile) FPS() float64 {
	if p.FrameRateDen == 0 {
		return 0
	}
	return float64(p.FrameRateNum) / float64(p.FrameRateDen)
}

// SAR returns the sample (pixel) aspect ratio. A zero denominator returns 0.
func (p Profile) SAR() float64 {
	if p.SampleAspectDen == 0 {
		return 0
	}
	return float64(p.SampleAspectNum) / float64(p.SampleAspectDen)
}

// DAR returns the display aspect ratio. A zero denominator returns 0.
func (p Profile) DAR() float64 {
	if p.DisplayAspectDen == 0 {
		return 0
	}
	return float64(p.DisplayAspectNum) / float64(p.DisplayAspectDen)
}

// IsZero reports whether the profile is entirely unset. NewFrame replaces a
// zero profile with DefaultProfile.
func (p Profile) IsZero() bool {
	return p == Profile{}
}

// DVPAL returns the DV/DVD PAL profile: 720x576 at 25 fps, interlaced,
// with ITU-R 601 pixel geometry.
func DVPAL() Profile {
	return Profile{
		Name:             "dv_pal",
		Width:            720,
		Height:           576,
		FrameRateNum:     25,
		FrameRateDen:     1,
		SampleAspectNum:  59,
		SampleAspectDen:  54,
		DisplayAspectNum: 4,
		DisplayAspectDen: 3,
	}
}

// DVNTSC returns the DV/DVD NTSC profile: 720x480 at 30000/1001 fps,
// interlaced.
func DVNTSC() Profile {
	return Profile{
		Name:             "dv_ntsc",
		Width:            720,
		Height:           480,
		FrameRateNum:     30000,
		FrameRateDen:     1001,
		SampleAspectNum:  10,
		SampleAspectDen:  11,
		DisplayAspectNum: 4,
		DisplayAspectDen: 3,
	}
}

// DefaultProfile returns the profile used when none is given. It matches
// DVPAL.
func DefaultProfile() Profile {
	return DVPAL()
}
