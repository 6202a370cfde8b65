package producer

import (
	"strings"

	"github.com/reelkit/reel"
	"github.com/reelkit/reel/cache"
	"github.com/reelkit/reel/pixel"
	"github.com/reelkit/reel/pool"
)

// RGBA is an 8-bit color with straight alpha.
type RGBA struct {
	R, G, B, A uint8
}

// Named colors accepted by ParseColor.
var names = map[string]RGBA{
	"black":       {0, 0, 0, 255},
	"white":       {255, 255, 255, 255},
	"red":         {255, 0, 0, 255},
	"green":       {0, 255, 0, 255},
	"blue":        {0, 0, 255, 255},
	"yellow":      {255, 255, 0, 255},
	"cyan":        {0, 255, 255, 255},
	"magenta":     {255, 0, 255, 255},
	"transparent": {0, 0, 0, 0},
}

// ParseColor interprets a color spec: a named color, or hex digits in the
// forms RGB, RGBA, RRGGBB, RRGGBBAA with an optional "#" or "0x" prefix.
// Anything else parses as opaque black.
func ParseColor(spec string) RGBA {
	if c, ok := names[strings.ToLower(spec)]; ok {
		return c
	}

	hex := spec
	if strings.HasPrefix(hex, "#") {
		hex = hex[1:]
	} else if strings.HasPrefix(hex, "0x") || strings.HasPrefix(hex, "0X") {
		hex = hex[2:]
	}

	var r, g, b, a uint32
	a = 255

	switch len(hex) {
	case 3: // RGB
		parseHex(hex[0:1], &r)
		parseHex(hex[1:2], &g)
		parseHex(hex[2:3], &b)
		r, g, b = r*17, g*17, b*17
	case 4: // RGBA
		parseHex(hex[0:1], &r)
		parseHex(hex[1:2], &g)
		parseHex(hex[2:3], &b)
		parseHex(hex[3:4], &a)
		r, g, b, a = r*17, g*17, b*17, a*17
	case 6: // RRGGBB
		parseHex(hex[0:2], &r)
		parseHex(hex[2:4], &g)
		parseHex(hex[4:6], &b)
	case 8: // RRGGBBAA
		parseHex(hex[0:2], &r)
		parseHex(hex[2:4], &g)
		parseHex(hex[4:6], &b)
		parseHex(hex[6:8], &a)
	default:
		return RGBA{A: 255}
	}

	return RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: uint8(a)}
}

// parseHex is a helper for hex parsing
func parseHex(s string, val *uint32) {
	*val = 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		*val *= 16
		switch {
		case '0' <= c && c <= '9':
			*val += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			*val += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			*val += uint32(c - 'A' + 10)
		default:
			return
		}
	}
}

// templates caches rendered color fields, shared by every Color producer
// so the eviction budget covers the process. One line per payload kind;
// purging a producer's identity clears all of them at once.
var templates = cache.NewRegistry[reel.ServiceID, []byte]()

const (
	lineImage = "color.image"
	lineAlpha = "color.alpha"
)

// Color is a producer of solid color frames.
//
// The color field is rendered once per size and cached under the
// producer's identity; each frame receives its own pooled copy, so the
// cached template stays immutable no matter what downstream filters do to
// the frame's buffer.
type Color struct {
	id      reel.ServiceID
	profile reel.Profile
	color   RGBA
}

// NewColor creates a producer filling frames with the given color spec.
// A zero profile is replaced by reel.DefaultProfile.
func NewColor(profile reel.Profile, spec string) *Color {
	if profile.IsZero() {
		profile = reel.DefaultProfile()
	}
	return &Color{
		id:      reel.NewServiceID(),
		profile: profile,
		color:   ParseColor(spec),
	}
}

// ID returns the service identity keying the producer's cached renders.
func (c *Color) ID() reel.ServiceID {
	return c.id
}

// Color returns the color the producer renders.
func (c *Color) Color() RGBA {
	return c.color
}

// GetFrame returns a frame for the given position carrying a deferred
// render of the color field.
func (c *Color) GetFrame(position int64) (*reel.Frame, error) {
	frame := reel.NewFrame(c.profile, reel.WithPosition(position))
	p := frame.Properties()
	p.SetInt("real_width", c.profile.Width)
	p.SetInt("real_height", c.profile.Height)
	p.SetInt("progressive", 1)
	frame.PushGetImage(c.renderImage)
	return frame, nil
}

// Close purges the producer's cached renders. Frames already produced
// keep their own copies and remain valid.
func (c *Color) Close() error {
	templates.Purge(c.id)
	return nil
}

// renderImage satisfies an image request from the cached template,
// rendering a fresh one when the size changed or nothing is cached yet.
// Color frames are packed YCbCr regardless of the requested format;
// consumers convert.
func (c *Color) renderImage(frame *reel.Frame, req reel.ImageRequest) (reel.Image, error) {
	width, height := req.Width, req.Height
	if width <= 0 {
		width = c.profile.Width
	}
	if height <= 0 {
		height = c.profile.Height
	}
	size := width * height * 2

	images := templates.Line(lineImage)
	item := images.Get(c.id)
	var field []byte
	if item != nil && item.Size() == size {
		field = item.Value()
	}

	buf := pool.Alloc(size)
	if field != nil {
		copy(buf, field[:size])
	} else {
		field = renderField(c.color, width, height)
		copy(buf, field)
		images.Put(c.id, field, size, pool.Release)
	}
	if item != nil {
		item.Close()
	}

	p := frame.Properties()
	owned := buf
	p.SetData("image", buf, size, func() { pool.Release(owned) })

	if c.color.A != 255 {
		c.renderAlpha(frame, width, height)
	}

	return reel.Image{Data: buf, Format: pixel.FormatYUV422, Width: width, Height: height}, nil
}

// renderAlpha installs the frame's alpha mask from the cached template,
// same discipline as the image.
func (c *Color) renderAlpha(frame *reel.Frame, width, height int) {
	size := width * height

	alphas := templates.Line(lineAlpha)
	item := alphas.Get(c.id)
	var mask []byte
	if item != nil && item.Size() == size {
		mask = item.Value()
	}

	buf := pool.Alloc(size)
	if mask != nil {
		copy(buf, mask[:size])
	} else {
		mask = renderMask(c.color.A, width, height)
		copy(buf, mask)
		alphas.Put(c.id, mask, size, pool.Release)
	}
	if item != nil {
		item.Close()
	}

	owned := buf
	frame.Properties().SetData("alpha", buf, size, func() { pool.Release(owned) })
}

// renderField fills a pooled YUYV buffer with one color. The chroma pair
// is converted once and tiled across the buffer.
func renderField(c RGBA, width, height int) []byte {
	pair := []byte{c.R, c.G, c.B, c.A, c.R, c.G, c.B, c.A}
	var quad [4]byte
	_ = pixel.RGBAToYUV422(pair, 2, 1, 0, quad[:], nil)

	buf := pool.Alloc(width * height * 2)
	for i := 0; i < len(buf); i += 4 {
		copy(buf[i:], quad[:])
	}
	return buf
}

// renderMask fills a pooled buffer with a uniform alpha level.
func renderMask(level uint8, width, height int) []byte {
	buf := pool.Alloc(width * height)
	for i := range buf {
		buf[i] = level
	}
	return buf
}
