package reel

import (
	"errors"
	"testing"

	"github.com/reelkit/reel/pixel"
)

// stubProducer renders flat YCbCr frames with a fixed luma, or fails on
// demand.
type stubProducer struct {
	profile Profile
	luma    byte
	fail    bool
	calls   int
}

func (s *stubProducer) GetFrame(position int64) (*Frame, error) {
	s.calls++
	if s.fail {
		return nil, errors.New("stub producer failure")
	}
	f := NewFrame(s.profile, WithPosition(position))
	luma := s.luma
	f.PushGetImage(func(fr *Frame, req ImageRequest) (Image, error) {
		w, h := req.Width, req.Height
		if w == 0 {
			w = fr.Profile().Width
		}
		if h == 0 {
			h = fr.Profile().Height
		}
		buf := make([]byte, w*h*2)
		for i := 0; i+1 < len(buf); i += 2 {
			buf[i] = luma
			buf[i+1] = 128
		}
		fr.Properties().SetData(keyImage, buf, len(buf), nil)
		return Image{Data: buf, Format: pixel.FormatYUV422, Width: w, Height: h}, nil
	})
	f.SetAspectRatio(2.0)
	return f, nil
}

type stubCloser struct {
	name  string
	order *[]string
	err   error
}

func (c *stubCloser) Close() error {
	*c.order = append(*c.order, c.name)
	return c.err
}

func TestNewFrameDefaults(t *testing.T) {
	f := NewFrame(Profile{}, WithPosition(42))
	defer f.Close()

	if got := f.Profile().Name; got != "dv_pal" {
		t.Errorf("zero profile should fall back to dv_pal, got %q", got)
	}
	if f.Width() != 720 || f.Height() != 576 {
		t.Errorf("dimensions = %dx%d, want 720x576", f.Width(), f.Height())
	}
	p := f.Properties()
	if p.GetInt("normalised_width") != 720 || p.GetInt("normalised_height") != 576 {
		t.Error("normalised dimensions not initialised from profile")
	}
	if got, want := f.AspectRatio(), DVPAL().SAR(); got != want {
		t.Errorf("aspect ratio = %v, want %v", got, want)
	}
	if got := f.Position(); got != 42 {
		t.Errorf("position = %d, want 42", got)
	}
}

func TestFramePositionNeverNegative(t *testing.T) {
	f := NewFrame(DVPAL())
	defer f.Close()

	f.SetPosition(-7)
	if got := f.Position(); got != 0 {
		t.Errorf("negative position reads %d, want 0", got)
	}
	f.SetPosition(9)
	if got := f.Position(); got != 9 {
		t.Errorf("position = %d, want 9", got)
	}
}

func TestFrameImageStackLIFO(t *testing.T) {
	f := NewFrame(DVPAL())
	defer f.Close()

	var ran []string
	f.PushGetImage(func(fr *Frame, req ImageRequest) (Image, error) {
		ran = append(ran, "bottom")
		return Image{Format: req.Format, Width: 8, Height: 8}, nil
	})
	f.PushGetImage(func(fr *Frame, req ImageRequest) (Image, error) {
		ran = append(ran, "top")
		// Delegate to the step below.
		return fr.GetImage(req)
	})

	if _, err := f.GetImage(ImageRequest{Format: pixel.FormatYUV422}); err != nil {
		t.Fatalf("GetImage: %v", err)
	}
	if len(ran) != 2 || ran[0] != "top" || ran[1] != "bottom" {
		t.Errorf("steps ran in order %v, want [top bottom]", ran)
	}
}

func TestFrameStackKindMismatch(t *testing.T) {
	f := NewFrame(DVPAL())
	defer f.Close()

	inner := NewFrame(DVPAL())
	f.PushFrame(inner)

	if _, err := f.PopGetImage(); !errors.Is(err, ErrStackKind) {
		t.Fatalf("PopGetImage on frame entry: err = %v, want ErrStackKind", err)
	}
	if _, err := f.PopService(); !errors.Is(err, ErrStackKind) {
		t.Fatalf("PopService on frame entry: err = %v, want ErrStackKind", err)
	}

	// The mismatch must not consume the entry.
	got, err := f.PopFrame()
	if err != nil {
		t.Fatalf("PopFrame: %v", err)
	}
	if got != inner {
		t.Error("PopFrame did not return the pushed frame")
	}
	inner.Close()
}

func TestFramePopEmpty(t *testing.T) {
	f := NewFrame(DVPAL())
	defer f.Close()

	if step, err := f.PopGetImage(); step != nil || err != nil {
		t.Errorf("PopGetImage on empty = (%v, %v), want (nil, nil)", step, err)
	}
	if fr, err := f.PopFrame(); fr != nil || err != nil {
		t.Errorf("PopFrame on empty = (%v, %v), want (nil, nil)", fr, err)
	}
	if svc, err := f.PopService(); svc != nil || err != nil {
		t.Errorf("PopService on empty = (%v, %v), want (nil, nil)", svc, err)
	}
	if step := f.PopGetAudio(); step != nil {
		t.Error("PopGetAudio on empty should be nil")
	}
}

func TestFrameGetImageStep(t *testing.T) {
	f := NewFrame(DVPAL(), WithPosition(10))
	defer f.Close()

	buf := make([]byte, 4*4*2)
	f.PushGetImage(func(fr *Frame, req ImageRequest) (Image, error) {
		fr.SetPosition(99)
		return Image{Data: buf, Format: pixel.FormatYUV422, Width: 4, Height: 4}, nil
	})

	img, err := f.GetImage(ImageRequest{Format: pixel.FormatYUV422, Width: 4, Height: 4})
	if err != nil {
		t.Fatalf("GetImage: %v", err)
	}
	if img.Width != 4 || img.Height != 4 || img.Format != pixel.FormatYUV422 {
		t.Errorf("image = %dx%d %v, want 4x4 yuv422", img.Width, img.Height, img.Format)
	}
	if f.Width() != 4 || f.Height() != 4 {
		t.Errorf("frame dimensions = %dx%d, want 4x4", f.Width(), f.Height())
	}
	if got := f.Position(); got != 10 {
		t.Errorf("position after step = %d, want 10 restored", got)
	}
	p := f.Properties()
	if p.GetInt("scaled_width") != 4 || p.GetInt("scaled_height") != 4 {
		t.Error("scaled dimensions not recorded")
	}
}

func TestFrameGetImageStepError(t *testing.T) {
	f := NewFrame(DVPAL())
	defer f.Close()

	fail := errors.New("render failed")
	f.PushGetImage(func(fr *Frame, req ImageRequest) (Image, error) {
		return Image{}, fail
	})
	if _, err := f.GetImage(ImageRequest{Format: pixel.FormatYUV422}); !errors.Is(err, fail) {
		t.Errorf("GetImage error = %v, want %v", err, fail)
	}
}

func TestFrameGetImagePlaceholder(t *testing.T) {
	tests := []struct {
		name   string
		format pixel.Format
		width  int
		height int
		size   int
		first  [2]byte
	}{
		{"yuv422", pixel.FormatYUV422, 8, 4, 8*4*2 + 8*2, [2]byte{235, 128}},
		{"rgba", pixel.FormatRGBA, 8, 4, 8*4*4 + 8*4, [2]byte{255, 255}},
		{"rgb24", pixel.FormatRGB24, 8, 4, 8*4*3 + 8*3, [2]byte{255, 255}},
		{"yuv420p", pixel.FormatYUV420P, 8, 4, 8 * 4 * 3 / 2, [2]byte{255, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFrame(DVPAL())
			defer f.Close()

			img, err := f.GetImage(ImageRequest{Format: tt.format, Width: tt.width, Height: tt.height})
			if err != nil {
				t.Fatalf("GetImage: %v", err)
			}
			if len(img.Data) != tt.size {
				t.Fatalf("placeholder size = %d, want %d", len(img.Data), tt.size)
			}
			if img.Data[0] != tt.first[0] || img.Data[1] != tt.first[1] {
				t.Errorf("placeholder starts %d,%d, want %d,%d",
					img.Data[0], img.Data[1], tt.first[0], tt.first[1])
			}
			if f.Properties().GetInt("test_image") != 1 {
				t.Error("placeholder should mark test_image")
			}
			if !f.IsTestCard() {
				t.Error("placeholder frame should read as test card")
			}
		})
	}
}

func TestFrameGetImagePlaceholderProfileDims(t *testing.T) {
	f := NewFrame(DVPAL())
	defer f.Close()

	img, err := f.GetImage(ImageRequest{Format: pixel.FormatYUV422})
	if err != nil {
		t.Fatalf("GetImage: %v", err)
	}
	if img.Width != 720 || img.Height != 576 {
		t.Errorf("placeholder dimensions = %dx%d, want profile 720x576", img.Width, img.Height)
	}
	if got := f.AspectRatio(); got != 0 {
		t.Errorf("placeholder aspect ratio = %v, want 0", got)
	}
}

func TestFrameGetImageMemoized(t *testing.T) {
	f := NewFrame(DVPAL())
	defer f.Close()

	first, err := f.GetImage(ImageRequest{Format: pixel.FormatYUV422, Width: 8, Height: 8})
	if err != nil {
		t.Fatalf("GetImage: %v", err)
	}
	second, err := f.GetImage(ImageRequest{Format: pixel.FormatYUV422, Width: 8, Height: 8})
	if err != nil {
		t.Fatalf("GetImage (repeat): %v", err)
	}
	if &first.Data[0] != &second.Data[0] {
		t.Error("repeated GetImage should return the memoized buffer")
	}
}

func TestFrameGetImageTestCard(t *testing.T) {
	card := &stubProducer{profile: DVPAL(), luma: 77}
	f := NewFrame(DVPAL(), WithPosition(5), WithTestCard(card))
	defer f.Close()

	img, err := f.GetImage(ImageRequest{Format: pixel.FormatYUV422, Width: 16, Height: 8})
	if err != nil {
		t.Fatalf("GetImage: %v", err)
	}
	if img.Data[0] != 77 {
		t.Errorf("test card luma = %d, want 77", img.Data[0])
	}
	if img.Width != 16 || img.Height != 8 {
		t.Errorf("test card dimensions = %dx%d, want 16x8", img.Width, img.Height)
	}
	if got := f.AspectRatio(); got != 2.0 {
		t.Errorf("aspect ratio = %v, want the test card's 2.0", got)
	}
	if card.calls != 1 {
		t.Errorf("producer called %d times, want 1", card.calls)
	}

	// The substituted image is memoized; the card is not consulted again.
	again, err := f.GetImage(ImageRequest{Format: pixel.FormatYUV422, Width: 16, Height: 8})
	if err != nil {
		t.Fatalf("GetImage (repeat): %v", err)
	}
	if &again.Data[0] != &img.Data[0] {
		t.Error("repeated GetImage should reuse the test card image")
	}
	if card.calls != 1 {
		t.Errorf("producer called %d times after repeat, want 1", card.calls)
	}
}

func TestFrameGetImageTestCardFailure(t *testing.T) {
	card := &stubProducer{profile: DVPAL(), fail: true}
	f := NewFrame(DVPAL(), WithTestCard(card))
	defer f.Close()

	img, err := f.GetImage(ImageRequest{Format: pixel.FormatYUV422, Width: 8, Height: 8})
	if err != nil {
		t.Fatalf("GetImage: %v", err)
	}
	if img.Data[0] != 235 {
		t.Errorf("fallback luma = %d, want placeholder 235", img.Data[0])
	}
	if f.Properties().GetInt("test_image") != 1 {
		t.Error("fallback should mark test_image")
	}
}

func TestFrameReplaceImage(t *testing.T) {
	f := NewFrame(DVPAL())
	defer f.Close()

	innerDestroyed := false
	inner := NewFrame(DVPAL())
	inner.Properties().SetData("probe", 1, 0, func() { innerDestroyed = true })

	f.PushFrame(inner)
	f.PushGetImage(func(fr *Frame, req ImageRequest) (Image, error) {
		t.Error("discarded step must not run")
		return Image{}, nil
	})

	buf := make([]byte, 4*4*2)
	buf[0] = 99
	f.ReplaceImage(Image{Data: buf, Format: pixel.FormatYUV422, Width: 4, Height: 4})

	if !innerDestroyed {
		t.Error("stacked frame should close when replaced")
	}
	img, err := f.GetImage(ImageRequest{Format: pixel.FormatYUV422})
	if err != nil {
		t.Fatalf("GetImage: %v", err)
	}
	if &img.Data[0] != &buf[0] {
		t.Error("GetImage should return the replacement buffer")
	}
	if img.Width != 4 || img.Height != 4 {
		t.Errorf("dimensions = %dx%d, want 4x4", img.Width, img.Height)
	}
}

func TestFrameAlphaMask(t *testing.T) {
	f := NewFrame(DVPAL())
	defer f.Close()

	if _, err := f.GetImage(ImageRequest{Format: pixel.FormatYUV422, Width: 8, Height: 4}); err != nil {
		t.Fatalf("GetImage: %v", err)
	}
	alpha := f.AlphaMask()
	if len(alpha) != 8*4 {
		t.Fatalf("alpha size = %d, want %d", len(alpha), 8*4)
	}
	for i, v := range alpha {
		if v != 255 {
			t.Fatalf("alpha[%d] = %d, want opaque 255", i, v)
		}
	}
	if again := f.AlphaMask(); &again[0] != &alpha[0] {
		t.Error("repeated AlphaMask should return the memoized mask")
	}
}

func TestFrameAlphaMaskFunc(t *testing.T) {
	f := NewFrame(DVPAL())
	defer f.Close()

	custom := []byte{1, 2, 3, 4}
	f.SetAlphaMaskFunc(func(fr *Frame) []byte { return custom })
	if got := f.AlphaMask(); &got[0] != &custom[0] {
		t.Error("mask callback should take precedence")
	}
}

func uniformYUV(w, h int, y, u, v byte) []byte {
	buf := make([]byte, w*h*2)
	for i := 0; i+3 < len(buf); i += 4 {
		buf[i] = y
		buf[i+1] = u
		buf[i+2] = y
		buf[i+3] = v
	}
	return buf
}

func TestFrameResizeImage(t *testing.T) {
	f := NewFrame(DVPAL())
	defer f.Close()

	src := uniformYUV(8, 8, 100, 50, 60)
	f.ReplaceImage(Image{Data: src, Format: pixel.FormatYUV422, Width: 8, Height: 8})

	out := f.ResizeImage(12, 10)
	if len(out) != 12*11*2 {
		t.Fatalf("resized buffer length = %d, want %d", len(out), 12*11*2)
	}
	if f.Width() != 12 || f.Height() != 10 {
		t.Errorf("dimensions = %dx%d, want 12x10", f.Width(), f.Height())
	}
	// Top-left corner is padding, the centered image starts at (2,1).
	if out[0] != 16 || out[1] != 128 {
		t.Errorf("padding = %d,%d, want 16,128", out[0], out[1])
	}
	at := (1*12 + 2) * 2
	if out[at] != 100 {
		t.Errorf("image luma at (2,1) = %d, want 100", out[at])
	}
	if got := f.storedImage(); &got[0] != &out[0] {
		t.Error("resized buffer should be memoized on the frame")
	}
}

func TestFrameResizeImageEqualDims(t *testing.T) {
	f := NewFrame(DVPAL())
	defer f.Close()

	src := uniformYUV(8, 8, 90, 50, 60)
	f.ReplaceImage(Image{Data: src, Format: pixel.FormatYUV422, Width: 8, Height: 8})

	out := f.ResizeImage(8, 8)
	if &out[0] != &src[0] {
		t.Error("equal dimensions should return the input untouched")
	}
}

func TestFrameResizeImageAlpha(t *testing.T) {
	f := NewFrame(DVPAL())
	defer f.Close()

	if _, err := f.GetImage(ImageRequest{Format: pixel.FormatYUV422, Width: 8, Height: 8}); err != nil {
		t.Fatalf("GetImage: %v", err)
	}
	f.ResizeImage(12, 12)

	alpha := f.AlphaMask()
	if len(alpha) != 12*12 {
		t.Fatalf("alpha size = %d, want %d", len(alpha), 12*12)
	}
	if alpha[0] != 0 {
		t.Errorf("alpha border = %d, want transparent 0", alpha[0])
	}
	if got := alpha[2*12+2]; got != 255 {
		t.Errorf("alpha at image origin = %d, want 255", got)
	}
}

func TestFrameRescaleImage(t *testing.T) {
	f := NewFrame(DVPAL())
	defer f.Close()

	src := uniformYUV(16, 16, 77, 33, 99)
	f.ReplaceImage(Image{Data: src, Format: pixel.FormatYUV422, Width: 16, Height: 16})

	out := f.RescaleImage(8, 8)
	if len(out) != 8*9*2 {
		t.Fatalf("rescaled buffer length = %d, want %d", len(out), 8*9*2)
	}
	if f.Width() != 8 || f.Height() != 8 {
		t.Errorf("dimensions = %dx%d, want 8x8", f.Width(), f.Height())
	}
	for i := 0; i < 8*8*2; i += 4 {
		if out[i] != 77 || out[i+1] != 33 || out[i+2] != 77 || out[i+3] != 99 {
			t.Fatalf("group at %d = [%d %d %d %d], want [77 33 77 99]",
				i, out[i], out[i+1], out[i+2], out[i+3])
		}
	}
}

func TestFrameRescaleImageDegenerate(t *testing.T) {
	f := NewFrame(DVPAL())
	defer f.Close()

	src := uniformYUV(16, 16, 77, 33, 99)
	f.ReplaceImage(Image{Data: src, Format: pixel.FormatYUV422, Width: 16, Height: 16})

	out := f.RescaleImage(4, 4)
	if &out[0] != &src[0] {
		t.Error("degenerate rescale should return the input untouched")
	}
	if f.Width() != 16 || f.Height() != 16 {
		t.Error("degenerate rescale should not change dimensions")
	}
}

func TestFrameCloseClosesOwnedServices(t *testing.T) {
	f := NewFrame(DVPAL())

	var order []string
	f.OwnService(&stubCloser{name: "first", order: &order})
	f.OwnService(&stubCloser{name: "second", order: &order})

	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if len(order) != 2 || order[0] != "second" || order[1] != "first" {
		t.Errorf("services closed in order %v, want [second first]", order)
	}
}

func TestFrameCloseReportsServiceError(t *testing.T) {
	f := NewFrame(DVPAL())

	var order []string
	fail := errors.New("close failed")
	f.OwnService(&stubCloser{name: "bad", order: &order, err: fail})

	if err := f.Close(); !errors.Is(err, fail) {
		t.Errorf("Close error = %v, want %v", err, fail)
	}
}

func TestFrameCloseRefCounted(t *testing.T) {
	f := NewFrame(DVPAL())

	destroyed := false
	f.Properties().SetData("probe", 1, 0, func() { destroyed = true })

	f.IncRef()
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if destroyed {
		t.Fatal("first Close of two references must not tear down")
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close (final): %v", err)
	}
	if !destroyed {
		t.Error("final Close should release property data")
	}
}

func TestFrameCloseClosesStackedFrames(t *testing.T) {
	f := NewFrame(DVPAL())

	innerDestroyed := false
	inner := NewFrame(DVPAL())
	inner.Properties().SetData("probe", 1, 0, func() { innerDestroyed = true })
	f.PushFrame(inner)

	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !innerDestroyed {
		t.Error("unpopped stacked frame should close with its parent")
	}
}

func TestFrameIsTestCard(t *testing.T) {
	f := NewFrame(DVPAL())
	defer f.Close()

	if !f.IsTestCard() {
		t.Error("frame with no image steps should read as test card")
	}
	f.PushGetImage(func(fr *Frame, req ImageRequest) (Image, error) {
		return Image{Format: req.Format, Width: 8, Height: 8}, nil
	})
	if f.IsTestCard() {
		t.Error("frame with a pending step should not read as test card")
	}
}
