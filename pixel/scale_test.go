package pixel

import (
	"errors"
	"testing"
)

func TestInterpFromString(t *testing.T) {
	tests := []struct {
		in   string
		want Interp
	}{
		{"nearest", InterpNearest},
		{"bilinear", InterpBilinear},
		{"bicubic", InterpBicubic},
		{"hyper", InterpHyper},
		{"lanczos", InterpNearest},
		{"", InterpNearest},
	}
	for _, tt := range tests {
		if got := InterpFromString(tt.in); got != tt.want {
			t.Errorf("InterpFromString(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInterpString(t *testing.T) {
	if got := InterpBicubic.String(); got != "bicubic" {
		t.Errorf("String() = %q, want %q", got, "bicubic")
	}
	if got := Interp(99).String(); got != "nearest" {
		t.Errorf("out of range String() = %q, want %q", got, "nearest")
	}
}

func TestScaleRGBASolid(t *testing.T) {
	const iw, ih = 4, 4
	const ow, oh = 8, 8
	src := make([]byte, iw*ih*4)
	for i := 0; i < iw*ih; i++ {
		src[i*4+0] = 10
		src[i*4+1] = 20
		src[i*4+2] = 30
		src[i*4+3] = 255
	}
	for _, interp := range []Interp{InterpNearest, InterpBilinear, InterpBicubic} {
		t.Run(interp.String(), func(t *testing.T) {
			dst := make([]byte, ow*oh*4)
			if err := ScaleRGBA(dst, ow, oh, src, iw, ih, interp); err != nil {
				t.Fatalf("ScaleRGBA: %v", err)
			}
			for i := 0; i < ow*oh; i++ {
				p := dst[i*4 : i*4+4]
				if p[0] != 10 || p[1] != 20 || p[2] != 30 || p[3] != 255 {
					t.Fatalf("pixel %d = %v, want [10 20 30 255]", i, p)
				}
			}
		})
	}
}

func TestScaleRGBABufferSize(t *testing.T) {
	src := make([]byte, 4*4*4)
	err := ScaleRGBA(make([]byte, 8), 8, 8, src, 4, 4, InterpNearest)
	if !errors.Is(err, ErrBufferSize) {
		t.Errorf("err = %v, want ErrBufferSize", err)
	}
	if err := ScaleRGBA(nil, 0, 8, src, 4, 4, InterpNearest); !errors.Is(err, ErrBufferSize) {
		t.Errorf("zero width err = %v, want ErrBufferSize", err)
	}
}
