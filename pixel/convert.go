package pixel

import "errors"

// Conversion and resize errors.
var (
	ErrBufferSize  = errors.New("pixel: buffer too small for dimensions")
	ErrUnsupported = errors.New("pixel: unsupported conversion")
)

func clampByte(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

// rgbToYUV converts one pixel using integer BT.601 studio-swing
// coefficients scaled by 1024.
func rgbToYUV(r, g, b int) (y, u, v byte) {
	y = clampByte(((263*r + 516*g + 100*b) >> 10) + 16)
	u = clampByte(((-152*r - 298*g + 450*b) >> 10) + 128)
	v = clampByte(((450*r - 377*g - 73*b) >> 10) + 128)
	return y, u, v
}

// yuvToRGB is the inverse transform, same coefficient scale.
func yuvToRGB(y, u, v int) (r, g, b byte) {
	c := 1192 * (y - 16)
	d := u - 128
	e := v - 128
	r = clampByte((c + 1634*e) >> 10)
	g = clampByte((c - 832*e - 400*d) >> 10)
	b = clampByte((c + 2066*d) >> 10)
	return r, g, b
}

// YUV422ToRGBA expands packed YUYV into RGBA with opaque alpha. Both
// pixels of a chroma pair receive the shared U and V samples. A trailing
// half pair on odd pixel counts is left untouched.
func YUV422ToRGBA(yuv, rgba []byte, width, height int) error {
	total := width * height
	if len(yuv) < total*2 || len(rgba) < total*4 {
		return ErrBufferSize
	}
	pairs := total / 2
	for i := 0; i < pairs; i++ {
		y0 := int(yuv[i*4])
		u := int(yuv[i*4+1])
		y1 := int(yuv[i*4+2])
		v := int(yuv[i*4+3])
		r, g, b := yuvToRGB(y0, u, v)
		rgba[i*8+0] = r
		rgba[i*8+1] = g
		rgba[i*8+2] = b
		rgba[i*8+3] = 255
		r, g, b = yuvToRGB(y1, u, v)
		rgba[i*8+4] = r
		rgba[i*8+5] = g
		rgba[i*8+6] = b
		rgba[i*8+7] = 255
	}
	return nil
}

// RGBAToYUV422 packs RGBA into YUYV, averaging chroma over each pixel
// pair. Alpha bytes are split into the alpha buffer when it is non-nil.
// The final pixel of an odd-width row emits its luma and U sample only.
func RGBAToYUV422(rgba []byte, width, height, stride int, yuv, alpha []byte) error {
	if stride <= 0 {
		stride = width * 4
	}
	if len(rgba) < (height-1)*stride+width*4 || len(yuv) < width*height*2 {
		return ErrBufferSize
	}
	if alpha != nil && len(alpha) < width*height {
		return ErrBufferSize
	}
	np := width / 2
	for line := 0; line < height; line++ {
		s := rgba[line*stride:]
		d := yuv[line*width*2:]
		var a []byte
		if alpha != nil {
			a = alpha[line*width:]
		}
		for i := 0; i < np; i++ {
			y0, u0, v0 := rgbToYUV(int(s[i*8]), int(s[i*8+1]), int(s[i*8+2]))
			y1, u1, v1 := rgbToYUV(int(s[i*8+4]), int(s[i*8+5]), int(s[i*8+6]))
			d[i*4+0] = y0
			d[i*4+1] = byte((int(u0) + int(u1)) >> 1)
			d[i*4+2] = y1
			d[i*4+3] = byte((int(v0) + int(v1)) >> 1)
			if a != nil {
				a[i*2] = s[i*8+3]
				a[i*2+1] = s[i*8+7]
			}
		}
		if width%2 != 0 {
			y0, u0, _ := rgbToYUV(int(s[np*8]), int(s[np*8+1]), int(s[np*8+2]))
			d[np*4+0] = y0
			d[np*4+1] = u0
			if a != nil {
				a[np*2] = s[np*8+3]
			}
		}
	}
	return nil
}

// RGB24ToYUV422 packs RGB into YUYV, averaging chroma over each pair.
func RGB24ToYUV422(rgb []byte, width, height, stride int, yuv []byte) error {
	if stride <= 0 {
		stride = width * 3
	}
	if len(rgb) < (height-1)*stride+width*3 || len(yuv) < width*height*2 {
		return ErrBufferSize
	}
	np := width / 2
	for line := 0; line < height; line++ {
		s := rgb[line*stride:]
		d := yuv[line*width*2:]
		for i := 0; i < np; i++ {
			y0, u0, v0 := rgbToYUV(int(s[i*6]), int(s[i*6+1]), int(s[i*6+2]))
			y1, u1, v1 := rgbToYUV(int(s[i*6+3]), int(s[i*6+4]), int(s[i*6+5]))
			d[i*4+0] = y0
			d[i*4+1] = byte((int(u0) + int(u1)) >> 1)
			d[i*4+2] = y1
			d[i*4+3] = byte((int(v0) + int(v1)) >> 1)
		}
		if width%2 != 0 {
			y0, u0, _ := rgbToYUV(int(s[np*6]), int(s[np*6+1]), int(s[np*6+2]))
			d[np*4+0] = y0
			d[np*4+1] = u0
		}
	}
	return nil
}

// BGR24ToYUV422 packs BGR into YUYV, averaging chroma over each pair.
func BGR24ToYUV422(bgr []byte, width, height, stride int, yuv []byte) error {
	if stride <= 0 {
		stride = width * 3
	}
	if len(bgr) < (height-1)*stride+width*3 || len(yuv) < width*height*2 {
		return ErrBufferSize
	}
	np := width / 2
	for line := 0; line < height; line++ {
		s := bgr[line*stride:]
		d := yuv[line*width*2:]
		for i := 0; i < np; i++ {
			y0, u0, v0 := rgbToYUV(int(s[i*6+2]), int(s[i*6+1]), int(s[i*6]))
			y1, u1, v1 := rgbToYUV(int(s[i*6+5]), int(s[i*6+4]), int(s[i*6+3]))
			d[i*4+0] = y0
			d[i*4+1] = byte((int(u0) + int(u1)) >> 1)
			d[i*4+2] = y1
			d[i*4+3] = byte((int(v0) + int(v1)) >> 1)
		}
		if width%2 != 0 {
			y0, u0, _ := rgbToYUV(int(s[np*6+2]), int(s[np*6+1]), int(s[np*6]))
			d[np*4+0] = y0
			d[np*4+1] = u0
		}
	}
	return nil
}

// BGRAToYUV422 packs BGRA into YUYV. Alpha bytes are split into the alpha
// buffer when it is non-nil.
func BGRAToYUV422(bgra []byte, width, height, stride int, yuv, alpha []byte) error {
	if stride <= 0 {
		stride = width * 4
	}
	if len(bgra) < (height-1)*stride+width*4 || len(yuv) < width*height*2 {
		return ErrBufferSize
	}
	if alpha != nil && len(alpha) < width*height {
		return ErrBufferSize
	}
	np := width / 2
	for line := 0; line < height; line++ {
		s := bgra[line*stride:]
		d := yuv[line*width*2:]
		var a []byte
		if alpha != nil {
			a = alpha[line*width:]
		}
		for i := 0; i < np; i++ {
			y0, u0, v0 := rgbToYUV(int(s[i*8+2]), int(s[i*8+1]), int(s[i*8]))
			y1, u1, v1 := rgbToYUV(int(s[i*8+6]), int(s[i*8+5]), int(s[i*8+4]))
			d[i*4+0] = y0
			d[i*4+1] = byte((int(u0) + int(u1)) >> 1)
			d[i*4+2] = y1
			d[i*4+3] = byte((int(v0) + int(v1)) >> 1)
			if a != nil {
				a[i*2] = s[i*8+3]
				a[i*2+1] = s[i*8+7]
			}
		}
		if width%2 != 0 {
			y0, u0, _ := rgbToYUV(int(s[np*8+2]), int(s[np*8+1]), int(s[np*8]))
			d[np*4+0] = y0
			d[np*4+1] = u0
			if a != nil {
				a[np*2] = s[np*8+3]
			}
		}
	}
	return nil
}

// ARGBToYUV422 packs ARGB into YUYV. The leading alpha byte of each pixel
// is split into the alpha buffer when it is non-nil.
func ARGBToYUV422(argb []byte, width, height, stride int, yuv, alpha []byte) error {
	if stride <= 0 {
		stride = width * 4
	}
	if len(argb) < (height-1)*stride+width*4 || len(yuv) < width*height*2 {
		return ErrBufferSize
	}
	if alpha != nil && len(alpha) < width*height {
		return ErrBufferSize
	}
	np := width / 2
	for line := 0; line < height; line++ {
		s := argb[line*stride:]
		d := yuv[line*width*2:]
		var a []byte
		if alpha != nil {
			a = alpha[line*width:]
		}
		for i := 0; i < np; i++ {
			y0, u0, v0 := rgbToYUV(int(s[i*8+1]), int(s[i*8+2]), int(s[i*8+3]))
			y1, u1, v1 := rgbToYUV(int(s[i*8+5]), int(s[i*8+6]), int(s[i*8+7]))
			d[i*4+0] = y0
			d[i*4+1] = byte((int(u0) + int(u1)) >> 1)
			d[i*4+2] = y1
			d[i*4+3] = byte((int(v0) + int(v1)) >> 1)
			if a != nil {
				a[i*2] = s[i*8]
				a[i*2+1] = s[i*8+4]
			}
		}
		if width%2 != 0 {
			y0, u0, _ := rgbToYUV(int(s[np*8+1]), int(s[np*8+2]), int(s[np*8+3]))
			d[np*4+0] = y0
			d[np*4+1] = u0
			if a != nil {
				a[np*2] = s[np*8]
			}
		}
	}
	return nil
}

// YUV420PToYUV422 interleaves planar 4:2:0 data into packed YUYV. Chroma
// rows are repeated for each luma row pair. Dimensions are assumed even.
func YUV420PToYUV422(planar []byte, width, height int, yuv []byte) error {
	if len(planar) < width*height*3/2 || len(yuv) < width*height*2 {
		return ErrBufferSize
	}
	half := width / 2
	yp := planar
	up := planar[width*height:]
	vp := planar[width*height+width*height/4:]
	for i := 0; i < height; i++ {
		d := yuv[i*width*2:]
		y := yp[i*width:]
		u := up[(i/2)*half:]
		v := vp[(i/2)*half:]
		for j := 0; j < half; j++ {
			d[j*4+0] = y[j*2]
			d[j*4+1] = u[j]
			d[j*4+2] = y[j*2+1]
			d[j*4+3] = v[j]
		}
	}
	return nil
}

// ToYUV422 converts src in the given packed or planar format into yuv,
// splitting any alpha channel into alpha when non-nil. FormatYUV422
// sources are copied through. It returns ErrUnsupported for formats with
// no conversion path.
func ToYUV422(src []byte, format Format, width, height int, yuv, alpha []byte) error {
	switch format {
	case FormatYUV422:
		if len(src) < width*height*2 || len(yuv) < width*height*2 {
			return ErrBufferSize
		}
		copy(yuv[:width*height*2], src)
		return nil
	case FormatRGB24:
		return RGB24ToYUV422(src, width, height, 0, yuv)
	case FormatRGBA:
		return RGBAToYUV422(src, width, height, 0, yuv, alpha)
	case FormatARGB:
		return ARGBToYUV422(src, width, height, 0, yuv, alpha)
	case FormatBGR24:
		return BGR24ToYUV422(src, width, height, 0, yuv)
	case FormatBGRA:
		return BGRAToYUV422(src, width, height, 0, yuv, alpha)
	case FormatYUV420P:
		return YUV420PToYUV422(src, width, height, yuv)
	default:
		return ErrUnsupported
	}
}
