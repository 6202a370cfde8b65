package filter

import (
	"math"

	"github.com/reelkit/reel"
	"github.com/reelkit/reel/pixel"
	"github.com/reelkit/reel/pool"
)

// Resize conforms frame images to the consumer's frame geometry. The
// source's display aspect is preserved by scaling into the largest
// fitting rectangle and padding the rest, unless the frame carries a
// nonzero "distort" property, in which case the image is simply brought
// to the requested size.
type Resize struct {
	scale string
}

// NewResize creates a resize filter. The scale argument selects the
// operation applied once the source has delivered its image: "off" or
// "" pads and crops without scaling, "affine" scales (point sampled, or
// interpolated when "rescale.interp" names a quality mode), and "none"
// reports the delegate's dimensions untouched.
func NewResize(scale string) *Resize {
	if scale == "" {
		scale = "off"
	}
	return &Resize{scale: scale}
}

// Process defers the filter onto the frame: the source's reported aspect
// ratio rides the image stack under the filter and its step until a
// consumer pulls the image.
func (r *Resize) Process(frame *reel.Frame) error {
	frame.PushService(frame.AspectRatio())
	frame.PushService(r)
	frame.PushGetImage(r.step)
	return nil
}

func (r *Resize) step(frame *reel.Frame, req reel.ImageRequest) (reel.Image, error) {
	p := frame.Properties()

	service, err := frame.PopService()
	if err != nil {
		return reel.Image{}, err
	}
	self, _ := service.(*Resize)
	if self == nil {
		self = r
	}
	payload, err := frame.PopService()
	if err != nil {
		return reel.Image{}, err
	}
	aspect, _ := payload.(float64)

	width, height := req.Width, req.Height
	if width == 0 || height == 0 {
		width = p.GetInt("normalised_width")
		height = p.GetInt("normalised_height")
	}
	owidth, oheight := width, height

	// A source that reports no aspect adopts the consumer's.
	if aspect == 0 {
		aspect = p.GetFloat("consumer_aspect_ratio")
	}
	frame.SetAspectRatio(aspect)

	if p.GetString("rescale.interp") == "none" {
		return frame.GetImage(reel.ImageRequest{
			Format:   req.Format,
			Width:    width,
			Height:   height,
			Writable: req.Writable,
		})
	}

	if p.GetInt("distort") == 0 {
		normalisedWidth := p.GetInt("normalised_width")
		normalisedHeight := p.GetInt("normalised_height")
		realWidth := p.GetInt("real_width")
		realHeight := p.GetInt("real_height")
		if realWidth == 0 {
			realWidth = p.GetInt("width")
		}
		if realHeight == 0 {
			realHeight = p.GetInt("height")
		}
		inputAR := aspect * float64(realWidth) / float64(realHeight)
		outputAR := p.GetFloat("consumer_aspect_ratio") * float64(owidth) / float64(oheight)

		// Fit the source's display rectangle inside the output frame,
		// pillarboxing by default and letterboxing when the source is
		// the wider of the two.
		scaledWidth := int(math.RoundToEven(inputAR * float64(normalisedWidth) / outputAR))
		scaledHeight := normalisedHeight
		if scaledWidth > normalisedWidth {
			scaledWidth = normalisedWidth
			scaledHeight = int(math.RoundToEven(outputAR * float64(normalisedHeight) / inputAR))
		}

		owidth = scaledWidth * owidth / normalisedWidth
		oheight = scaledHeight * oheight / normalisedHeight

		// The image now conforms to the consumer's geometry.
		frame.SetAspectRatio(p.GetFloat("consumer_aspect_ratio"))
	}
	p.SetInt("distort", 0)

	// Scaling hints for sources that can render at size.
	p.SetInt("resize_width", width)
	p.SetInt("resize_height", height)

	inner, err := frame.GetImage(reel.ImageRequest{
		Format:   req.Format,
		Width:    owidth,
		Height:   oheight,
		Writable: req.Writable,
	})
	if err != nil {
		return reel.Image{}, err
	}
	if inner.Format != pixel.FormatYUV422 || inner.Data == nil {
		return inner, nil
	}
	owidth, oheight = inner.Width, inner.Height

	// Manual override for misreported field order.
	if p.Has("meta.top_field_first") {
		p.SetInt("top_field_first", p.GetInt("meta.top_field_first"))
	}
	if p.GetInt("top_field_first") == 1 {
		stride := owidth * 2
		if data := inner.Data; stride < len(data) {
			copy(data[stride:], data[:len(data)-stride])
		}
		p.SetInt("top_field_first", 0)
		p.SetInt("meta.top_field_first", 0)
	}

	switch self.scale {
	case "affine":
		if interp := pixel.InterpFromString(p.GetString("rescale.interp")); interp != pixel.InterpNearest {
			return qualityScale(frame, inner, width, height, interp)
		}
		data := frame.RescaleImage(width, height)
		return reel.Image{Data: data, Format: pixel.FormatYUV422, Width: frame.Width(), Height: frame.Height()}, nil
	case "none":
		return reel.Image{Data: inner.Data, Format: pixel.FormatYUV422, Width: owidth, Height: oheight}, nil
	default:
		data := frame.ResizeImage(width, height)
		return reel.Image{Data: data, Format: pixel.FormatYUV422, Width: frame.Width(), Height: frame.Height()}, nil
	}
}

// qualityScale scales with the interpolated sampler instead of the point
// sampler, round-tripping through RGBA where the scaler operates. The
// result replaces the frame's memoized image.
func qualityScale(frame *reel.Frame, inner reel.Image, width, height int, interp pixel.Interp) (reel.Image, error) {
	if inner.Width == width && inner.Height == height {
		return inner, nil
	}
	rgba := make([]byte, inner.Width*inner.Height*4)
	if err := pixel.YUV422ToRGBA(inner.Data, rgba, inner.Width, inner.Height); err != nil {
		return reel.Image{}, err
	}
	scaled := make([]byte, width*height*4)
	if err := pixel.ScaleRGBA(scaled, width, height, rgba, inner.Width, inner.Height, interp); err != nil {
		return reel.Image{}, err
	}

	size := width * (height + 1) * 2
	out := pool.Alloc(size)
	if err := pixel.RGBAToYUV422(scaled, width, height, 0, out, nil); err != nil {
		pool.Release(out)
		return reel.Image{}, err
	}
	p := frame.Properties()
	owned := out
	p.SetData("image", out, size, func() { pool.Release(owned) })
	p.SetInt("width", width)
	p.SetInt("height", height)
	return reel.Image{Data: out, Format: pixel.FormatYUV422, Width: width, Height: height}, nil
}
