// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

type fakeContext struct {
	mu        sync.Mutex
	opts      Options
	players   []*fakePlayer
	resumes   int
	suspends  int
	resumeErr error
}

func (c *fakeContext) NewPlayer(r io.Reader) Player {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := &fakePlayer{r: r}
	c.players = append(c.players, p)
	return p
}

func (c *fakeContext) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.resumes++
	return c.resumeErr
}

func (c *fakeContext) Suspend() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.suspends++
	return nil
}

func (c *fakeContext) SampleRate() int   { return c.opts.SampleRate }
func (c *fakeContext) ChannelCount() int { return c.opts.ChannelCount }

func (c *fakeContext) Players() []*fakePlayer {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]*fakePlayer(nil), c.players...)
}

type fakePlayer struct {
	mu      sync.Mutex
	r       io.Reader
	playing bool
	closed  bool
}

func (p *fakePlayer) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = true
}

func (p *fakePlayer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = false
}

func (p *fakePlayer) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

func (p *fakePlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = false
	p.closed = true
	return nil
}

func (p *fakePlayer) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// finish simulates a one-shot reaching the end of its data.
func (p *fakePlayer) finish() { p.Pause() }

// factory counts every context it creates.
type factory struct {
	mu       sync.Mutex
	created  []*fakeContext
	failNext error
}

func (f *factory) New(opts Options) (Context, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failNext; err != nil {
		f.failNext = nil
		return nil, err
	}

	c := &fakeContext{opts: opts}
	f.created = append(f.created, c)
	return c, nil
}

func (f *factory) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

func (f *factory) Last() *fakeContext {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.created[len(f.created)-1]
}

type mapFetcher map[string][]byte

var errNotFound = errors.New("not found")

func (m mapFetcher) Fetch(_ context.Context, locator string) ([]byte, error) {
	data, ok := m[locator]
	if !ok {
		return nil, fmt.Errorf("fetch %s: %w", locator, errNotFound)
	}
	return data, nil
}
