package reel

import (
	"github.com/reelkit/reel/pixel"
	"github.com/reelkit/reel/pool"
)

// Image is one picture in a packed or planar pixel format.
type Image struct {
	Data   []byte
	Format pixel.Format
	Width  int
	Height int
}

// ImageRequest asks a frame for its image. Zero Width or Height means the
// profile dimensions. Writable tells the renderer the caller intends to
// modify the buffer in place.
type ImageRequest struct {
	Format   pixel.Format
	Width    int
	Height   int
	Writable bool
}

// GetImageFunc is a deferred rendering step. It runs when GetImage pops
// it, and may itself call GetImage on the frame to pull the layer below.
type GetImageFunc func(frame *Frame, req ImageRequest) (Image, error)

// storedImage returns the memoized image buffer, if any.
func (f *Frame) storedImage() []byte {
	data, _ := f.props.GetData(keyImage)
	buf, _ := data.([]byte)
	return buf
}

// GetImage resolves the frame's image. The top stacked step runs first;
// without one the memoized image is returned; without that the test card
// producer is consulted; and as a last resort a flat placeholder is
// filled in the requested format. The result is recorded on the frame, so
// repeated calls are cheap.
func (f *Frame) GetImage(req ImageRequest) (Image, error) {
	p := f.props
	step, err := f.PopGetImage()
	if err != nil {
		return Image{}, err
	}

	switch {
	case step != nil:
		position := f.Position()
		img, err := step(f, req)
		if err != nil {
			return Image{}, err
		}
		p.SetInt(keyWidth, img.Width)
		p.SetInt(keyHeight, img.Height)
		p.SetInt(keyFormat, int(img.Format))
		f.SetPosition(position)
		f.recordScaled(img)
		return img, nil

	case f.storedImage() != nil:
		img := Image{
			Data:   f.storedImage(),
			Format: pixel.Format(p.GetInt(keyFormat)),
			Width:  p.GetInt(keyWidth),
			Height: p.GetInt(keyHeight),
		}
		f.recordScaled(img)
		return img, nil

	case f.testCard != nil:
		test, err := f.testCard.GetFrame(f.Position())
		if err != nil || test == nil {
			// Broken test card: drop it and fall through to the
			// placeholder.
			f.testCard = nil
			return f.GetImage(req)
		}
		tp := test.Properties()
		tp.SetFloat(keyConsumerAspect, p.GetFloat(keyConsumerAspect))
		if interp := p.GetString(keyRescaleInterp); interp != "" {
			tp.SetString(keyRescaleInterp, interp)
		}
		img, err := test.GetImage(req)
		if err != nil {
			test.Close()
			return Image{}, err
		}
		// The test frame owns the buffer; keep it alive as long as
		// this frame references its pixels.
		p.SetData(keyTestCardFrame, test, 0, func() { test.Close() })
		p.SetData(keyImage, img.Data, len(img.Data), nil)
		p.SetInt(keyWidth, img.Width)
		p.SetInt(keyHeight, img.Height)
		p.SetInt(keyFormat, int(img.Format))
		f.SetAspectRatio(test.AspectRatio())
		Logger().Debug("substituted test card image",
			"position", f.Position(), "width", img.Width, "height", img.Height)
		f.recordScaled(img)
		return img, nil

	default:
		return f.placeholderImage(req), nil
	}
}

// placeholderImage fills a flat image in the requested format and memoizes
// it as the frame's picture.
func (f *Frame) placeholderImage(req ImageRequest) Image {
	p := f.props
	width, height := req.Width, req.Height
	if width == 0 {
		width = f.profile.Width
	}
	if height == 0 {
		height = f.profile.Height
	}

	p.SetInt(keyFormat, int(req.Format))
	p.SetInt(keyWidth, width)
	p.SetInt(keyHeight, height)
	p.SetFloat(keyAspectRatio, 0)

	var buf []byte
	size := width * height
	switch req.Format {
	case pixel.FormatRGB24, pixel.FormatBGR24:
		size = size*3 + width*3
		buf = pool.Alloc(size)
		for i := range buf {
			buf[i] = 255
		}
	case pixel.FormatRGBA, pixel.FormatBGRA, pixel.FormatARGB:
		size = size*4 + width*4
		buf = pool.Alloc(size)
		for i := range buf {
			buf[i] = 255
		}
	case pixel.FormatYUV422:
		size = size*2 + width*2
		buf = pool.Alloc(size)
		for i := 0; i+1 < len(buf); i += 2 {
			buf[i] = 235
			buf[i+1] = 128
		}
	case pixel.FormatYUV420P:
		size = size * 3 / 2
		buf = pool.Alloc(size)
		for i := range buf {
			buf[i] = 255
		}
	default:
		size = 0
	}

	if buf != nil {
		owned := buf
		p.SetData(keyImage, buf, size, func() { pool.Release(owned) })
	} else {
		p.SetData(keyImage, nil, 0, nil)
	}
	p.SetInt(keyTestImage, 1)
	Logger().Debug("filled placeholder image",
		"format", req.Format.String(), "width", width, "height", height)

	img := Image{Data: buf, Format: req.Format, Width: width, Height: height}
	f.recordScaled(img)
	return img
}

// recordScaled notes the dimensions the image was last produced at. The
// alpha mask allocates at these dimensions.
func (f *Frame) recordScaled(img Image) {
	f.props.SetInt(keyScaledWidth, img.Width)
	f.props.SetInt(keyScaledHeight, img.Height)
}

// SetAlphaMaskFunc installs the callback AlphaMask consults before the
// stored mask. Producers with real transparency use it to render the mask
// lazily.
func (f *Frame) SetAlphaMaskFunc(fn func(*Frame) []byte) {
	f.alphaFn = fn
}

// AlphaMask returns the frame's alpha channel, one byte per pixel at the
// image's last produced dimensions. Without a mask callback or a stored
// mask, a fully opaque mask is allocated and memoized.
func (f *Frame) AlphaMask() []byte {
	if f.alphaFn != nil {
		if alpha := f.alphaFn(f); alpha != nil {
			return alpha
		}
	}
	if data, _ := f.props.GetData(keyAlpha); data != nil {
		if alpha, ok := data.([]byte); ok {
			return alpha
		}
	}
	size := f.props.GetInt(keyScaledWidth) * f.props.GetInt(keyScaledHeight)
	if size <= 0 {
		return nil
	}
	alpha := pool.Alloc(size)
	for i := range alpha {
		alpha[i] = 255
	}
	owned := alpha
	f.props.SetData(keyAlpha, alpha, size, func() { pool.Release(owned) })
	return alpha
}

// ReplaceImage throws away every deferred step and stacked frame and
// installs img as the frame's picture. The frame does not take ownership
// of the buffer; it must outlive the frame. Transitions use this when one
// operand fully obscures the other.
func (f *Frame) ReplaceImage(img Image) {
	for _, e := range f.images {
		if e.kind == kindFrame && e.frame != nil {
			e.frame.Close()
		}
	}
	f.images = f.images[:0]

	p := f.props
	p.SetData(keyImage, img.Data, 0, nil)
	p.SetInt(keyWidth, img.Width)
	p.SetInt(keyHeight, img.Height)
	p.SetInt(keyFormat, int(img.Format))
	f.alphaFn = nil
}

// ResizeImage pads or crops the frame's packed YCbCr image to width and
// height without rescaling, keeping it centered. The alpha mask moves
// with the image; uncovered borders fill with the "resize_alpha" property
// value. The resized buffer is memoized and returned. Dimensions of six
// pixels or less leave the frame untouched.
func (f *Frame) ResizeImage(width, height int) []byte {
	p := f.props
	input := f.storedImage()
	iwidth := p.GetInt(keyWidth)
	iheight := p.GetInt(keyHeight)

	if input == nil || iwidth == width && iheight == height {
		return input
	}
	if width <= 6 || height <= 6 || iwidth <= 6 || iheight <= 6 {
		Logger().Warn("degenerate resize ignored",
			"width", width, "height", height, "input_width", iwidth, "input_height", iheight)
		return input
	}

	alpha := f.AlphaMask()
	fill := byte(p.GetInt(keyResizeAlpha))

	size := width * (height + 1) * 2
	output := pool.Alloc(size)
	pixel.ResizeYUV422(output, width, height, input, iwidth, iheight)

	owned := output
	p.SetData(keyImage, output, size, func() { pool.Release(owned) })
	p.SetInt(keyWidth, width)
	p.SetInt(keyHeight, height)

	if resized := pixel.ResizeAlpha(alpha, width, height, iwidth, iheight, fill); resized != nil {
		ownedAlpha := resized
		p.SetData(keyAlpha, resized, width*height, func() { pool.Release(ownedAlpha) })
		f.alphaFn = nil
	}
	return output
}

// RescaleImage scales the frame's packed YCbCr image to width and height
// with a point sampler. It is cheap and rough; real pipelines run a
// proper scaling filter and fall back to this only when asked for speed.
// The rescaled buffer is memoized and returned. Dimensions of six pixels
// or less leave the frame untouched.
func (f *Frame) RescaleImage(width, height int) []byte {
	p := f.props
	input := f.storedImage()
	iwidth := p.GetInt(keyWidth)
	iheight := p.GetInt(keyHeight)

	if input == nil || iwidth == width && iheight == height {
		return input
	}
	if width <= 6 || height <= 6 || iwidth <= 6 || iheight <= 6 {
		Logger().Warn("degenerate rescale ignored",
			"width", width, "height", height, "input_width", iwidth, "input_height", iheight)
		return input
	}

	size := width * (height + 1) * 2
	output := pool.Alloc(size)
	pixel.RescaleYUV422(output, width, height, input, iwidth, iheight)

	owned := output
	p.SetData(keyImage, output, size, func() { pool.Release(owned) })
	p.SetInt(keyWidth, width)
	p.SetInt(keyHeight, height)
	return output
}
