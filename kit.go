// SPDX-License-Identifier: EPL-2.0

package mediakit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ik5/mediakit/audio"
	"github.com/ik5/mediakit/config"
	"github.com/ik5/mediakit/download"
	"github.com/ik5/mediakit/fetch"
	"github.com/ik5/mediakit/formats"
	"github.com/ik5/mediakit/formats/wav"
	"github.com/ik5/mediakit/imageload"
	"github.com/ik5/mediakit/playback"
	"github.com/ik5/mediakit/playback/otoout"
	"github.com/ik5/mediakit/utils"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

var ErrEmptyBuffer = errors.New("audio buffer has no frames")

type options struct {
	log     logrus.FieldLogger
	saver   download.Saver
	factory playback.ContextFactory
	client  *http.Client
	tracer  trace.Tracer
}

type Option func(*options)

// WithLogger replaces the logger built from log.level.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) { o.log = l }
}

// WithSaver replaces the platform download target.
func WithSaver(s download.Saver) Option {
	return func(o *options) { o.saver = s }
}

// WithContextFactory replaces the oto audio output.
func WithContextFactory(f playback.ContextFactory) Option {
	return func(o *options) { o.factory = f }
}

func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.client = c }
}

func WithTracer(t trace.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// Kit bundles the image, download and audio helpers behind one object.
type Kit struct {
	cfg        config.Config
	log        logrus.FieldLogger
	fetcher    *fetch.Fetcher
	images     *imageload.Loader
	downloader *download.Downloader
	audio      *playback.Manager
}

// New wires a Kit from cfg. The audio output is not opened until Setup.
func New(cfg config.Config, opts ...Option) (*Kit, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = cfg.NewLogger()
	}
	if o.saver == nil {
		o.saver = defaultSaver(cfg)
	}
	if o.factory == nil {
		o.factory = otoout.NewLogged(o.log)
	}

	fetchOpts := []fetch.Option{
		fetch.WithTimeout(cfg.Fetch.Timeout),
		fetch.WithRoot(cfg.Fetch.Root),
		fetch.WithLogger(o.log),
	}
	if base := cfg.BaseURL(); base != nil {
		fetchOpts = append(fetchOpts, fetch.WithBaseURL(base))
	}
	if o.client != nil {
		fetchOpts = append(fetchOpts, fetch.WithClient(o.client))
	}
	if o.tracer != nil {
		fetchOpts = append(fetchOpts, fetch.WithTracer(o.tracer))
	}
	fetcher := fetch.New(fetchOpts...)

	pbOpts := []playback.Option{
		playback.WithContextFactory(o.factory),
		playback.WithOptions(cfg.PlaybackOptions()),
		playback.WithFetcher(fetcher),
		playback.WithRegistry(formats.NewRegistry()),
		playback.WithLoopPolicy(cfg.LoopPolicy()),
		playback.WithLogger(o.log),
	}
	if o.tracer != nil {
		pbOpts = append(pbOpts, playback.WithTracer(o.tracer))
	}

	return &Kit{
		cfg:        cfg,
		log:        o.log,
		fetcher:    fetcher,
		images:     imageload.New(fetcher, o.log),
		downloader: download.New(o.saver, o.log),
		audio:      playback.New(pbOpts...),
	}, nil
}

// LoadImage fetches and decodes an image.
func (k *Kit) LoadImage(ctx context.Context, locator string) (*imageload.Image, error) {
	return k.images.Load(ctx, locator)
}

// Download saves text as a file. Failures are only logged.
func (k *Kit) Download(filename, text string) {
	k.downloader.Download(filename, text)
}

// SaveText is Download with the save error returned.
func (k *Kit) SaveText(filename, text string) error {
	return k.downloader.SaveText(filename, text)
}

// Setup creates or resumes the audio output.
func (k *Kit) Setup() error { return k.audio.Setup() }

func (k *Kit) LoadAudio(ctx context.Context, locator string) (*audio.Buffer, error) {
	return k.audio.LoadAudio(ctx, locator)
}

// PlayAudio plays buf once.
func (k *Kit) PlayAudio(buf *audio.Buffer, rate, gain float64) error {
	return k.audio.Play(buf, rate, gain)
}

// PlayLoop plays buf in a loop that SetLoop controls.
func (k *Kit) PlayLoop(buf *audio.Buffer, rate, gain float64) (*playback.Voice, error) {
	return k.audio.PlayLoop(buf, rate, gain)
}

func (k *Kit) SetLoop(gain, rate float64) error {
	return k.audio.SetLoop(gain, rate)
}

// Suspend pauses the audio output until the next Setup.
func (k *Kit) Suspend() error { return k.audio.Suspend() }

// Fetcher exposes the configured resource fetcher.
func (k *Kit) Fetcher() *fetch.Fetcher { return k.fetcher }

// Audio exposes the playback manager.
func (k *Kit) Audio() *playback.Manager { return k.audio }

func (k *Kit) Config() config.Config { return k.cfg }

// Close stops all audio. The Kit's image and download helpers keep working.
func (k *Kit) Close() error { return k.audio.Close() }

// ExportWAV downloads buf as a mono 16-bit WAV file at its own sample rate.
// Unlike Download, a failed save is returned.
func (k *Kit) ExportWAV(filename string, buf *audio.Buffer) error {
	if buf == nil {
		return playback.ErrNilBuffer
	}
	if buf.Frames() == 0 {
		return ErrEmptyBuffer
	}

	mixed, err := audio.ReadBuffer(audio.NewMonoMixer(buf.Source()), 0)
	if err != nil {
		return fmt.Errorf("downmix: %w", err)
	}

	samples := make([]int16, mixed.Frames())
	utils.Float32ToInt16Slice(samples, mixed.Samples())

	var out bytes.Buffer
	if err := wav.WriteWAV16(&out, mixed.SampleRate(), 1, samples); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}

	return k.downloader.SaveBytes(filename, "audio/wav", out.Bytes())
}
