package reel

import (
	"math"
	"testing"
)

func TestProfileFPS(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		want    float64
	}{
		{"pal", DVPAL(), 25.0},
		{"zero denominator", Profile{FrameRateNum: 25}, 0},
		{"zero profile", Profile{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.profile.FPS(); got != tt.want {
				t.Errorf("FPS() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProfileFPSNTSC(t *testing.T) {
	fps := DVNTSC().FPS()
	if int(fps*100) != 2997 {
		t.Errorf("NTSC FPS = %v, want 29.97", fps)
	}
}

func TestProfileAspects(t *testing.T) {
	pal := DVPAL()
	if got, want := pal.SAR(), 59.0/54.0; math.Abs(got-want) > 1e-12 {
		t.Errorf("PAL SAR = %v, want %v", got, want)
	}
	if got, want := pal.DAR(), 4.0/3.0; math.Abs(got-want) > 1e-12 {
		t.Errorf("PAL DAR = %v, want %v", got, want)
	}
	ntsc := DVNTSC()
	if got, want := ntsc.SAR(), 10.0/11.0; math.Abs(got-want) > 1e-12 {
		t.Errorf("NTSC SAR = %v, want %v", got, want)
	}
	if got := (Profile{}).SAR(); got != 0 {
		t.Errorf("zero profile SAR = %v, want 0", got)
	}
}

func TestProfileIsZero(t *testing.T) {
	if !(Profile{}).IsZero() {
		t.Error("empty profile should be zero")
	}
	if DVPAL().IsZero() {
		t.Error("DVPAL should not be zero")
	}
}

func TestDefaultProfile(t *testing.T) {
	p := DefaultProfile()
	if p.Width != 720 || p.Height != 576 {
		t.Errorf("default dimensions = %dx%d, want 720x576", p.Width, p.Height)
	}
	if p.Name != "dv_pal" {
		t.Errorf("default name = %q, want dv_pal", p.Name)
	}
	if p.Progressive {
		t.Error("default profile should be interlaced")
	}
}
