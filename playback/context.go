// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"io"
	"time"
)

// Context is an audio output context: the root every voice is routed
// through. Implementations must allow NewPlayer from any goroutine.
type Context interface {
	// NewPlayer returns a paused player reading 16-bit little-endian
	// interleaved PCM at the context's rate and channel count.
	NewPlayer(r io.Reader) Player
	Resume() error
	Suspend() error
	SampleRate() int
	ChannelCount() int
}

// Player plays one PCM stream.
type Player interface {
	Play()
	Pause()
	IsPlaying() bool
	Close() error
}

// Options describes the output a ContextFactory should open.
type Options struct {
	SampleRate   int
	ChannelCount int
	BufferSize   time.Duration
}

// DefaultOptions is CD-rate stereo with a 50ms device buffer.
var DefaultOptions = Options{
	SampleRate:   44100,
	ChannelCount: 2,
	BufferSize:   50 * time.Millisecond,
}

// ContextFactory opens the output context. A Manager calls it at most once
// successfully.
type ContextFactory func(Options) (Context, error)
