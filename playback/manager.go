// SPDX-License-Identifier: EPL-2.0

// Package playback owns the audio output context and everything played
// through it.
//
// A Manager replaces page-wide audio globals with one explicit object:
//
//	m := playback.New(playback.WithContextFactory(otoout.New))
//	if err := m.Setup(); err != nil { ... }   // create, or resume
//	bell, err := m.LoadAudio(ctx, "bell1.wav") // fetch, then decode
//	m.Play(bell, 1.2, 0.8)                     // fire and forget
//	m.PlayLoop(ball, 1, 1)                     // controllable loop
//	m.SetLoop(0.3, 1.5)                        // live gain and rate
//	m.Close()
//
// Every operation except Setup fails with ErrNotSetup until Setup succeeds,
// and SetLoop fails with ErrNoLoop until a loop was started.
package playback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/ik5/mediakit/audio"
	"github.com/ik5/mediakit/fetch"
	"github.com/ik5/mediakit/formats"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/ik5/mediakit/playback"

// Fetcher is the network stage LoadAudio reads through.
type Fetcher interface {
	Fetch(ctx context.Context, locator string) ([]byte, error)
}

// LoopPolicy decides what happens to a running loop when another starts.
type LoopPolicy int

const (
	// LoopReplace stops the previous loop before the new one starts.
	LoopReplace LoopPolicy = iota
	// LoopOrphan leaves the previous loop playing. It can no longer be
	// controlled through SetLoop, but Close still stops it.
	LoopOrphan
)

func (p LoopPolicy) String() string {
	switch p {
	case LoopReplace:
		return "replace"
	case LoopOrphan:
		return "orphan"
	default:
		return fmt.Sprintf("LoopPolicy(%d)", int(p))
	}
}

func ParseLoopPolicy(s string) (LoopPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "replace":
		return LoopReplace, nil
	case "orphan":
		return LoopOrphan, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrLoopPolicy, s)
	}
}

// State is the lifecycle position of a Manager.
type State int

const (
	StateUninitialized State = iota
	StateActive
	StateSuspended
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateActive:
		return "active"
	case StateSuspended:
		return "suspended"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type Option func(*Manager)

func WithContextFactory(f ContextFactory) Option {
	return func(m *Manager) { m.factory = f }
}

func WithOptions(o Options) Option {
	return func(m *Manager) { m.opts = o }
}

func WithFetcher(f Fetcher) Option {
	return func(m *Manager) { m.fetcher = f }
}

func WithRegistry(r *audio.Registry) Option {
	return func(m *Manager) { m.registry = r }
}

func WithLoopPolicy(p LoopPolicy) Option {
	return func(m *Manager) { m.policy = p }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(m *Manager) { m.log = l }
}

func WithTracer(t trace.Tracer) Option {
	return func(m *Manager) { m.tracer = t }
}

// Manager is safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	factory  ContextFactory
	opts     Options
	out      Context
	state    State
	loop     *Voice
	voices   map[*Voice]struct{}
	fetcher  Fetcher
	registry *audio.Registry
	policy   LoopPolicy
	log      logrus.FieldLogger
	tracer   trace.Tracer
}

func New(opts ...Option) *Manager {
	m := &Manager{
		opts:   DefaultOptions,
		voices: make(map[*Voice]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		m.log = l
	}
	if m.fetcher == nil {
		m.fetcher = fetch.New(fetch.WithLogger(m.log))
	}
	if m.registry == nil {
		m.registry = formats.NewRegistry()
	}
	if m.tracer == nil {
		m.tracer = otel.Tracer(tracerName)
	}

	return m
}

// Setup creates the output context on the first call and resumes the same
// context on every later call, e.g. after a browser suspended it until a
// user gesture. It never creates a second context.
func (m *Manager) Setup() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case StateClosed:
		return ErrClosed
	case StateActive, StateSuspended:
		if err := m.out.Resume(); err != nil {
			return fmt.Errorf("resume audio context: %w", err)
		}
		m.state = StateActive
		m.log.Debug("audio context resumed")
		return nil
	}

	if m.factory == nil {
		return ErrNoOutput
	}

	out, err := m.factory(m.opts)
	if err != nil {
		return fmt.Errorf("create audio context: %w", err)
	}

	m.out = out
	m.state = StateActive
	m.log.WithFields(logrus.Fields{
		"sample_rate": out.SampleRate(),
		"channels":    out.ChannelCount(),
	}).Info("audio context created")

	return nil
}

// Suspend pauses the output context until the next Setup.
func (m *Manager) Suspend() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.active(); err != nil {
		return err
	}

	if err := m.out.Suspend(); err != nil {
		return fmt.Errorf("suspend audio context: %w", err)
	}
	m.state = StateSuspended

	return nil
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state
}

// active returns the output context or the precondition error. m.mu must
// be held.
func (m *Manager) active() (Context, error) {
	switch m.state {
	case StateUninitialized:
		return nil, ErrNotSetup
	case StateClosed:
		return nil, ErrClosed
	}
	return m.out, nil
}

func (m *Manager) output() (Context, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.active()
}

// LoadAudio fetches locator and decodes it at the context's sample rate.
// The fetch error is returned as reported, and decoding is not attempted.
// Any decoding problem yields exactly ErrDecodeFailed.
func (m *Manager) LoadAudio(ctx context.Context, locator string) (*audio.Buffer, error) {
	out, err := m.output()
	if err != nil {
		return nil, err
	}

	data, err := m.fetcher.Fetch(ctx, locator)
	if err != nil {
		return nil, err
	}

	buf, err := m.decode(ctx, locator, data, out.SampleRate())
	if err != nil {
		m.log.WithError(err).WithField("locator", locator).Debug("audio decode failed")
		return nil, ErrDecodeFailed
	}

	m.log.WithFields(logrus.Fields{
		"locator":  locator,
		"duration": buf.Duration(),
		"channels": buf.Channels(),
	}).Debug("audio loaded")

	return buf, nil
}

func (m *Manager) decode(ctx context.Context, locator string, data []byte, rate int) (*audio.Buffer, error) {
	_, span := m.tracer.Start(ctx, "decode", trace.WithAttributes(
		attribute.String("locator", locator),
		attribute.Int("sample_rate", rate),
	))
	defer span.End()

	buf, err := decodeBuffer(m.registry, locator, data, rate)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("frames", buf.Frames()))

	return buf, nil
}

func decodeBuffer(reg *audio.Registry, locator string, data []byte, rate int) (*audio.Buffer, error) {
	src, format, err := reg.DecodeBytes(locator, data)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	buf, err := audio.ReadBuffer(src, rate)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", format, err)
	}
	if buf.Frames() == 0 {
		return nil, fmt.Errorf("%s: no audio frames", format)
	}

	return buf, nil
}

// Play starts buf once at the given rate multiplier and gain. Each call
// gets its own voice; nothing is returned to stop it early.
func (m *Manager) Play(buf *audio.Buffer, rate, gain float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	out, err := m.active()
	if err != nil {
		return err
	}
	if buf == nil {
		return ErrNilBuffer
	}

	m.prune()

	v := newVoice(out, buf.Source(), rate, gain, false)
	m.voices[v] = struct{}{}
	v.player.Play()

	m.log.WithFields(logrus.Fields{"voice": v.ID(), "rate": rate, "gain": gain}).Debug("one-shot started")

	return nil
}

// PlayLoop starts buf looping and makes it the loop SetLoop controls. What
// happens to an already running loop depends on the LoopPolicy.
func (m *Manager) PlayLoop(buf *audio.Buffer, rate, gain float64) (*Voice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out, err := m.active()
	if err != nil {
		return nil, err
	}
	if buf == nil {
		return nil, ErrNilBuffer
	}

	if prev := m.loop; prev != nil {
		switch m.policy {
		case LoopOrphan:
			m.voices[prev] = struct{}{}
			m.log.WithField("voice", prev.ID()).Debug("loop orphaned")
		default:
			if err := prev.Stop(); err != nil {
				m.log.WithError(err).Warn("stopping previous loop failed")
			}
			m.log.WithField("voice", prev.ID()).Debug("loop replaced")
		}
	}

	v := newVoice(out, buf.LoopSource(), rate, gain, true)
	m.loop = v
	v.player.Play()

	m.log.WithFields(logrus.Fields{"voice": v.ID(), "rate": rate, "gain": gain}).Debug("loop started")

	return v, nil
}

// SetLoop changes the gain and rate of the current loop while it plays.
func (m *Manager) SetLoop(gain, rate float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.active(); err != nil {
		return err
	}
	if m.loop == nil {
		return ErrNoLoop
	}

	m.loop.SetGain(gain)
	m.loop.SetRate(rate)

	return nil
}

// Loop returns the controllable loop, or nil.
func (m *Manager) Loop() *Voice {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.loop
}

// Voices returns how many one-shot and orphaned voices are still playing.
func (m *Manager) Voices() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prune()
	return len(m.voices)
}

// prune releases voices that finished on their own. m.mu must be held.
func (m *Manager) prune() {
	for v := range m.voices {
		if !v.Playing() {
			_ = v.Stop()
			delete(m.voices, v)
		}
	}
}

// Close stops every voice and suspends the context. The manager cannot be
// set up again afterwards. Closing twice is a no-op.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateClosed {
		return nil
	}

	var errs []error
	if m.loop != nil {
		errs = append(errs, m.loop.Stop())
		m.loop = nil
	}
	for v := range m.voices {
		errs = append(errs, v.Stop())
		delete(m.voices, v)
	}

	if m.out != nil {
		if err := m.out.Suspend(); err != nil {
			errs = append(errs, fmt.Errorf("suspend audio context: %w", err))
		}
	}

	m.state = StateClosed
	m.log.Info("audio manager closed")

	return errors.Join(errs...)
}
