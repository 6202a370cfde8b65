// Command reeldemo drives a small reel pipeline end to end: a color
// producer conformed by the resize filter becomes a numbered PNG
// sequence, and two tone producers crossfade through the frame mixer
// into a WAV file. With -play the mixed tone also goes to the sound
// card.
package main

import (
	"bytes"
	"encoding/binary"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/ebitengine/oto/v3"

	"github.com/reelkit/reel"
	"github.com/reelkit/reel/filter"
	"github.com/reelkit/reel/pixel"
	"github.com/reelkit/reel/producer"
)

// config holds the knobs read from the environment. Flags cover the
// per-run choices; the environment covers the ambient ones.
type config struct {
	Frequency int    `env:"REEL_FREQUENCY" envDefault:"48000"`
	Channels  int    `env:"REEL_CHANNELS" envDefault:"2"`
	LogLevel  string `env:"REEL_LOG_LEVEL" envDefault:"warn"`
}

func main() {
	var (
		frames = flag.Int("frames", 25, "number of frames to render")
		width  = flag.Int("width", 360, "output image width")
		height = flag.Int("height", 288, "output image height")
		color  = flag.String("color", "red", "color name or hex spec for the picture")
		pitch  = flag.Float64("pitch", 440, "first tone frequency in Hz")
		pitch2 = flag.Float64("pitch2", 660, "second tone frequency in Hz")
		gain   = flag.Float64("gain", 0.5, "tone gain between 0 and 1")
		outdir = flag.String("outdir", "reeldemo_out", "output directory")
		play   = flag.Bool("play", false, "also play the mixed tone through the sound card")
	)
	flag.Parse()

	cfg, err := env.ParseAs[config]()
	if err != nil {
		log.Fatalf("Failed to parse environment: %v", err)
	}
	reel.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	})))

	if err := os.MkdirAll(*outdir, 0o755); err != nil {
		log.Fatalf("Failed to create %s: %v", *outdir, err)
	}

	profile := reel.DVPAL()
	if err := writeFrames(*outdir, *color, profile, *frames, *width, *height); err != nil {
		log.Fatalf("Failed to render frames: %v", err)
	}

	pcm, err := renderTones(*outdir, profile, *frames, *pitch, *pitch2, *gain, cfg)
	if err != nil {
		log.Fatalf("Failed to render audio: %v", err)
	}
	wav := filepath.Join(*outdir, "tone.wav")
	if err := writeWAV(wav, pcm, cfg.Frequency, cfg.Channels); err != nil {
		log.Fatalf("Failed to write %s: %v", wav, err)
	}

	if *play {
		if err := playPCM(pcm, cfg.Frequency, cfg.Channels); err != nil {
			log.Fatalf("Failed to play audio: %v", err)
		}
	}

	log.Printf("Rendered %d frames and %d audio samples to %s\n", *frames, len(pcm)/cfg.Channels, *outdir)
}

func logLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// writeFrames pulls frames from a color producer through the resize
// conform and saves each one as a PNG.
func writeFrames(outdir, spec string, profile reel.Profile, frames, width, height int) error {
	src := producer.NewColor(profile, spec)
	defer src.Close()
	conform := filter.NewResize("off")

	for n := 0; n < frames; n++ {
		if err := writeFrame(outdir, src, conform, profile, n, width, height); err != nil {
			return fmt.Errorf("frame %d: %w", n, err)
		}
	}
	return nil
}

func writeFrame(outdir string, src reel.Producer, conform reel.Filter, profile reel.Profile, n, width, height int) error {
	frame, err := src.GetFrame(int64(n))
	if err != nil {
		return err
	}
	defer frame.Close()

	frame.Properties().SetFloat("consumer_aspect_ratio", profile.SAR())
	if err := conform.Process(frame); err != nil {
		return err
	}
	img, err := frame.GetImage(reel.ImageRequest{Format: pixel.FormatYUV422, Width: width, Height: height})
	if err != nil {
		return err
	}

	rgba := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	if err := pixel.YUV422ToRGBA(img.Data, rgba.Pix, img.Width, img.Height); err != nil {
		return err
	}
	return savePNG(filepath.Join(outdir, fmt.Sprintf("frame%04d.png", n)), rgba)
}

// renderTones crossfades two tones over the clip and returns the mixed
// PCM. The first frame's waveform is saved alongside the frames as a
// quick visual check of the mix.
func renderTones(outdir string, profile reel.Profile, frames int, pitch, pitch2, gain float64, cfg config) ([]int16, error) {
	first := producer.NewTone(profile, pitch, gain)
	second := producer.NewTone(profile, pitch2, gain)
	req := reel.AudioRequest{Frequency: cfg.Frequency, Channels: cfg.Channels}

	var pcm []int16
	for n := 0; n < frames; n++ {
		chunk, wave, err := mixChunk(first, second, n, frames, req, n == 0)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", n, err)
		}
		if wave != nil {
			gray := &image.Gray{Pix: wave, Stride: 640, Rect: image.Rect(0, 0, 640, 120)}
			if err := savePNG(filepath.Join(outdir, "waveform.png"), gray); err != nil {
				return nil, err
			}
		}
		pcm = append(pcm, chunk...)
	}
	return pcm, nil
}

// mixChunk mixes one frame of the crossfade. The returned slices are
// copies; the frames and their buffers are released before returning.
func mixChunk(first, second reel.Producer, n, frames int, req reel.AudioRequest, wantWave bool) ([]int16, []byte, error) {
	a, err := first.GetFrame(int64(n))
	if err != nil {
		return nil, nil, err
	}
	defer a.Close()
	b, err := second.GetFrame(int64(n))
	if err != nil {
		return nil, nil, err
	}
	defer b.Close()

	weightStart := float32(n) / float32(frames)
	weightEnd := float32(n+1) / float32(frames)
	mixed, err := a.MixAudio(b, weightStart, weightEnd, req)
	if err != nil {
		return nil, nil, err
	}

	chunk := append([]int16(nil), mixed.Data...)
	var wave []byte
	if wantWave {
		wave = append([]byte(nil), a.Waveform(640, 120)...)
	}
	return chunk, wave, nil
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeWAV saves interleaved 16-bit PCM as a RIFF/WAVE file.
func writeWAV(path string, pcm []int16, frequency, channels int) error {
	data := make([]byte, 44+len(pcm)*2)
	h := data[:44]
	copy(h[0:4], "RIFF")
	binary.LittleEndian.PutUint32(h[4:8], uint32(36+len(pcm)*2))
	copy(h[8:12], "WAVE")
	copy(h[12:16], "fmt ")
	binary.LittleEndian.PutUint32(h[16:20], 16)
	binary.LittleEndian.PutUint16(h[20:22], 1)
	binary.LittleEndian.PutUint16(h[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(h[24:28], uint32(frequency))
	binary.LittleEndian.PutUint32(h[28:32], uint32(frequency*channels*2))
	binary.LittleEndian.PutUint16(h[32:34], uint16(channels*2))
	binary.LittleEndian.PutUint16(h[34:36], 16)
	copy(h[36:40], "data")
	binary.LittleEndian.PutUint32(h[40:44], uint32(len(pcm)*2))
	for i, s := range pcm {
		binary.LittleEndian.PutUint16(data[44+i*2:], uint16(s))
	}
	return os.WriteFile(path, data, 0o644)
}

// playPCM pushes the samples through the system mixer and blocks until
// playback finishes.
func playPCM(pcm []int16, frequency, channels int) error {
	raw := make([]byte, len(pcm)*2)
	for i, s := range pcm {
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(s))
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   frequency,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return err
	}
	<-ready

	player := ctx.NewPlayer(bytes.NewReader(raw))
	player.Play()
	for player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}
	return player.Close()
}
