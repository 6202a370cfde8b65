package pixel

// Format identifies the memory layout of an image buffer.
type Format uint8

const (
	// FormatNone marks the absence of image data.
	FormatNone Format = iota

	// FormatRGB24 is packed 8-bit RGB, 3 bytes per pixel.
	FormatRGB24

	// FormatRGBA is packed 8-bit RGBA, 4 bytes per pixel.
	FormatRGBA

	// FormatARGB is packed 8-bit ARGB, alpha first, 4 bytes per pixel.
	FormatARGB

	// FormatBGR24 is packed 8-bit BGR, 3 bytes per pixel.
	FormatBGR24

	// FormatBGRA is packed 8-bit BGRA, 4 bytes per pixel.
	FormatBGRA

	// FormatYUV422 is packed YUYV with horizontally subsampled chroma,
	// 2 bytes per pixel.
	FormatYUV422

	// FormatYUV420P is planar YUV with 2x2 subsampled chroma planes,
	// 12 bits per pixel.
	FormatYUV420P

	formatCount
)

type formatInfo struct {
	name          string
	bytesPerPixel int
	planar        bool
}

var formatInfos = [formatCount]formatInfo{
	FormatNone:    {name: "none"},
	FormatRGB24:   {name: "rgb24", bytesPerPixel: 3},
	FormatRGBA:    {name: "rgba", bytesPerPixel: 4},
	FormatARGB:    {name: "argb", bytesPerPixel: 4},
	FormatBGR24:   {name: "bgr24", bytesPerPixel: 3},
	FormatBGRA:    {name: "bgra", bytesPerPixel: 4},
	FormatYUV422:  {name: "yuv422", bytesPerPixel: 2},
	FormatYUV420P: {name: "yuv420p", planar: true},
}

// String returns the lowercase name of the format.
func (f Format) String() string {
	if !f.IsValid() {
		return "invalid"
	}
	return formatInfos[f].name
}

// IsValid reports whether f is one of the defined formats.
func (f Format) IsValid() bool {
	return f < formatCount
}

// BytesPerPixel returns the packed size of one pixel, or 0 for FormatNone
// and planar formats.
func (f Format) BytesPerPixel() int {
	if !f.IsValid() {
		return 0
	}
	return formatInfos[f].bytesPerPixel
}

// Planar reports whether the format stores its components in separate
// planes rather than interleaved.
func (f Format) Planar() bool {
	return f.IsValid() && formatInfos[f].planar
}

// ImageBytes returns the buffer size needed for a width x height image in
// this format. FormatYUV420P accounts for its subsampled chroma planes.
func (f Format) ImageBytes(width, height int) int {
	if width <= 0 || height <= 0 {
		return 0
	}
	if f == FormatYUV420P {
		return width * height * 3 / 2
	}
	return width * height * f.BytesPerPixel()
}
