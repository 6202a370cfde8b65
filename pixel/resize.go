package pixel

import "github.com/reelkit/reel/pool"

// ResizeYUV422 copies a packed YUYV image into a buffer of different
// dimensions without scaling. The image is centered on both axes; when an
// output dimension is smaller the source is cropped symmetrically.
// Padding is filled with neutral black (luma 16, chroma 128). The
// horizontal placement is aligned to an even pixel so chroma ordering is
// preserved. Dimensions of 6 px or less on either image make the call a
// no-op.
func ResizeYUV422(dst []byte, owidth, oheight int, src []byte, iwidth, iheight int) {
	if dst == nil || src == nil {
		return
	}
	if owidth <= 6 || oheight <= 6 || iwidth <= 6 || iheight <= 6 {
		return
	}
	istride := iwidth * 2
	ostride := owidth * 2
	if owidth == iwidth && oheight == iheight {
		copy(dst[:iheight*istride], src)
		return
	}

	for i := 0; i < owidth*oheight; i++ {
		dst[i*2] = 16
		dst[i*2+1] = 128
	}

	ox := (owidth - iwidth) / 2
	ox -= ox % 2
	oy := (oheight - iheight) / 2

	srcX, dstX := 0, ox
	if ox < 0 {
		srcX, dstX = -ox, 0
	}
	srcY, dstY := 0, oy
	if oy < 0 {
		srcY, dstY = -oy, 0
	}
	copyW := iwidth - srcX
	if w := owidth - dstX; w < copyW {
		copyW = w
	}
	copyH := iheight - srcY
	if h := oheight - dstY; h < copyH {
		copyH = h
	}
	for row := 0; row < copyH; row++ {
		so := (srcY+row)*istride + srcX*2
		do := (dstY+row)*ostride + dstX*2
		copy(dst[do:do+copyW*2], src[so:])
	}
}

// ResizeAlpha centers or crops a one-byte-per-pixel alpha mask the same
// way ResizeYUV422 places its image, padding with fill. It allocates the
// output from the buffer pool and returns nil when no resize is needed.
func ResizeAlpha(src []byte, owidth, oheight, iwidth, iheight int, fill byte) []byte {
	if src == nil || (owidth == iwidth && oheight == iheight) {
		return nil
	}
	if owidth <= 6 || oheight <= 6 || iwidth <= 6 || iheight <= 6 {
		return nil
	}
	dst := pool.Alloc(owidth * oheight)
	for i := range dst {
		dst[i] = fill
	}

	ox := (owidth - iwidth) / 2
	ox -= ox % 2
	oy := (oheight - iheight) / 2

	srcX, dstX := 0, ox
	if ox < 0 {
		srcX, dstX = -ox, 0
	}
	srcY, dstY := 0, oy
	if oy < 0 {
		srcY, dstY = -oy, 0
	}
	copyW := iwidth - srcX
	if w := owidth - dstX; w < copyW {
		copyW = w
	}
	copyH := iheight - srcY
	if h := oheight - dstY; h < copyH {
		copyH = h
	}
	for row := 0; row < copyH; row++ {
		so := (srcY+row)*iwidth + srcX
		do := (dstY+row)*owidth + dstX
		copy(dst[do:do+copyW], src[so:])
	}
	return dst
}

// RescaleYUV422 scales a packed YUYV image with 16.16 fixed-point nearest
// sampling, working outward from the image center. The input width is
// trimmed to a multiple of 4 so chroma groups stay intact, and the output
// covers even row and column counts. Quality is coarse; it exists for
// speed and for callers that asked for nearest interpolation. Dimensions
// of 6 px or less on either image make the call a no-op.
func RescaleYUV422(dst []byte, owidth, oheight int, src []byte, iwidth, iheight int) {
	if dst == nil || src == nil {
		return
	}
	if owidth <= 6 || oheight <= 6 || iwidth <= 6 || iheight <= 6 {
		return
	}
	istride := iwidth * 2
	ostride := owidth * 2
	iwidth &^= 3

	outXRange := owidth / 2
	outYRange := oheight / 2
	inXRange := iwidth / 2
	inYRange := iheight / 2
	middle := istride*inYRange + inXRange*2

	scaleWidth := (iwidth << 16) / owidth
	scaleHeight := (iheight << 16) / oheight
	outerX := outXRange * scaleWidth
	bottom := outYRange * scaleHeight

	row := 0
	for dy := -bottom; dy < bottom; dy += scaleHeight {
		line := middle + (dy>>16)*istride
		o := row
		for dx := -outerX; dx < outerX; dx += scaleWidth {
			base := dx >> 15
			base &^= 1
			dst[o] = src[line+base]
			o++
			base &^= 3
			dst[o] = src[line+base+1]
			o++
			dx += scaleWidth
			base = dx >> 15
			base &^= 1
			dst[o] = src[line+base]
			o++
			base &^= 3
			dst[o] = src[line+base+3]
			o++
		}
		row += ostride
	}
}
