// SPDX-License-Identifier: EPL-2.0

// Package otoout opens the real audio device through ebitengine/oto. Native
// builds talk to the OS mixer, js/wasm builds to Web Audio.
//
// oto allows one context per process and refuses a second attempt even when
// the first one failed. A device failure is therefore final: every later
// call reports ErrOpenFailed wrapping the original error, and the process has
// to be restarted to get sound.
package otoout

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/ebitengine/oto/v3"
	"github.com/ik5/mediakit/playback"
	"github.com/sirupsen/logrus"
)

var (
	ErrAlreadyOpen = errors.New("oto context already opened in this process")
	ErrOpenFailed  = errors.New("audio device failed to open earlier in this process")
	ErrBadOptions  = errors.New("invalid output options")
)

type newContextFunc func(*oto.NewContextOptions) (*oto.Context, chan struct{}, error)

// opener remembers the outcome of the single allowed oto.NewContext call.
type opener struct {
	once       sync.Once
	err        error
	newContext newContextFunc
}

var device = &opener{newContext: oto.NewContext}

// Context adapts *oto.Context to playback.Context.
type Context struct {
	ctx      *oto.Context
	rate     int
	channels int
}

// New opens the device. It satisfies playback.ContextFactory.
func New(opts playback.Options) (playback.Context, error) {
	return device.open(opts, nil)
}

// NewLogged returns a factory like New that also logs when the device is
// ready to make sound. Under js/wasm that happens after the first user
// gesture unlocks Web Audio.
func NewLogged(log logrus.FieldLogger) playback.ContextFactory {
	return func(opts playback.Options) (playback.Context, error) {
		return device.open(opts, log)
	}
}

func (o *opener) open(opts playback.Options, log logrus.FieldLogger) (playback.Context, error) {
	if opts.SampleRate <= 0 || opts.ChannelCount <= 0 {
		return nil, fmt.Errorf("%w: rate %d, channels %d", ErrBadOptions, opts.SampleRate, opts.ChannelCount)
	}

	var (
		out   playback.Context
		first bool
	)
	o.once.Do(func() {
		first = true

		ctx, ready, err := o.newContext(&oto.NewContextOptions{
			SampleRate:   opts.SampleRate,
			ChannelCount: opts.ChannelCount,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   opts.BufferSize,
		})
		if err != nil {
			o.err = err
			return
		}
		waitReady(ready, log)

		out = &Context{ctx: ctx, rate: opts.SampleRate, channels: opts.ChannelCount}
	})

	switch {
	case first && o.err != nil:
		return nil, fmt.Errorf("oto: %w", o.err)
	case first:
		return out, nil
	case o.err != nil:
		return nil, fmt.Errorf("%w: %w", ErrOpenFailed, o.err)
	default:
		return nil, ErrAlreadyOpen
	}
}

func (c *Context) NewPlayer(r io.Reader) playback.Player {
	return c.ctx.NewPlayer(r)
}

func (c *Context) Resume() error  { return c.ctx.Resume() }
func (c *Context) Suspend() error { return c.ctx.Suspend() }

func (c *Context) SampleRate() int   { return c.rate }
func (c *Context) ChannelCount() int { return c.channels }

// Err reports an asynchronous device error, if any.
func (c *Context) Err() error { return c.ctx.Err() }
