package reel

// FrameOption configures a Frame during creation.
// Use functional options to customize Frame behavior.
//
// Example:
//
//	// Default frame at position zero
//	f := reel.NewFrame(profile)
//
//	// Frame for a specific timeline position
//	f := reel.NewFrame(profile, reel.WithPosition(75))
type FrameOption func(*frameOptions)

// frameOptions holds optional configuration for Frame creation.
type frameOptions struct {
	position int64
	testCard Producer
}

// defaultFrameOptions returns the default frame options.
func defaultFrameOptions() frameOptions {
	return frameOptions{
		position: 0,
		testCard: nil, // Blank placeholder when nil
	}
}

// WithPosition sets the timeline position the frame is produced for.
// The position is stored on the frame and restored around image and audio
// callbacks, so renderers always observe the position they were asked for.
//
// Example:
//
//	f := reel.NewFrame(profile, reel.WithPosition(120))
func WithPosition(position int64) FrameOption {
	return func(o *frameOptions) {
		o.position = position
	}
}

// WithTestCard sets the producer consulted when the frame has no image of
// its own. Without a test card, GetImage falls back to a flat placeholder
// fill in the requested format.
//
// Example:
//
//	card, _ := producer.NewColor(profile, "red")
//	f := reel.NewFrame(profile, reel.WithTestCard(card))
func WithTestCard(p Producer) FrameOption {
	return func(o *frameOptions) {
		o.testCard = p
	}
}
