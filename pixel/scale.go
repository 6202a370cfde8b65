package pixel

import (
	"image"

	"golang.org/x/image/draw"
)

// Interp selects the sampling quality used when an image is scaled.
type Interp uint8

const (
	InterpNearest Interp = iota
	InterpBilinear
	InterpBicubic
	InterpHyper
)

var interpNames = [...]string{
	InterpNearest:  "nearest",
	InterpBilinear: "bilinear",
	InterpBicubic:  "bicubic",
	InterpHyper:    "hyper",
}

// String returns the lowercase name of the interpolation mode.
func (in Interp) String() string {
	if int(in) >= len(interpNames) {
		return "nearest"
	}
	return interpNames[in]
}

// InterpFromString maps a mode name to its Interp value. Unknown names
// fall back to InterpNearest.
func InterpFromString(s string) Interp {
	for i, name := range interpNames {
		if s == name {
			return Interp(i)
		}
	}
	return InterpNearest
}

func (in Interp) scaler() draw.Scaler {
	switch in {
	case InterpBilinear:
		return draw.ApproxBiLinear
	case InterpBicubic, InterpHyper:
		return draw.CatmullRom
	default:
		return draw.NearestNeighbor
	}
}

// ScaleRGBA scales a packed RGBA image to the output dimensions using the
// selected interpolation. Buffers must hold the full input and output
// images.
func ScaleRGBA(dst []byte, owidth, oheight int, src []byte, iwidth, iheight int, interp Interp) error {
	if owidth <= 0 || oheight <= 0 || iwidth <= 0 || iheight <= 0 {
		return ErrBufferSize
	}
	if len(src) < iwidth*iheight*4 || len(dst) < owidth*oheight*4 {
		return ErrBufferSize
	}
	in := &image.RGBA{
		Pix:    src,
		Stride: iwidth * 4,
		Rect:   image.Rect(0, 0, iwidth, iheight),
	}
	out := &image.RGBA{
		Pix:    dst,
		Stride: owidth * 4,
		Rect:   image.Rect(0, 0, owidth, oheight),
	}
	interp.scaler().Scale(out, out.Rect, in, in.Rect, draw.Src, nil)
	return nil
}
