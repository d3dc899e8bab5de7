// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides generated sources and encoded fixtures shared by
// the package tests.
package audiotest

import (
	"io"
	"math"
)

// Waveform returns the value of one channel at one frame.
type Waveform func(frame, channel int) float32

// MockSource renders a Waveform for a fixed number of frames. It satisfies
// audio.Source without importing it, so the audio package tests can use it
// too. It is not safe for concurrent use.
type MockSource struct {
	rate, channels int
	frames, pos    int
	wave           Waveform
	closed         bool
}

// NewMockSource renders wave for frames frames.
func NewMockSource(sampleRate, channels, frames int, wave Waveform) *MockSource {
	return &MockSource{rate: sampleRate, channels: channels, frames: frames, wave: wave}
}

func NewSilentSource(sampleRate, channels, frames int) *MockSource {
	return NewConstantSource(sampleRate, channels, frames, 0)
}

// NewSineSource is a full-scale sine, identical on every channel.
func NewSineSource(sampleRate, channels, frames int, frequency float64) *MockSource {
	step := 2 * math.Pi * frequency / float64(sampleRate)
	return NewMockSource(sampleRate, channels, frames, func(f, _ int) float32 {
		return float32(math.Sin(step * float64(f)))
	})
}

func NewConstantSource(sampleRate, channels, frames int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(int, int) float32 { return value })
}

func (m *MockSource) SampleRate() int { return m.rate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }

func (m *MockSource) Close() error {
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockSource) Closed() bool { return m.closed }

// Remaining is the number of frames not read yet.
func (m *MockSource) Remaining() int { return m.frames - m.pos }

// ReadSamples fills whole frames only and reports io.EOF together with the
// last frames.
func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	n := min(len(dst)/m.channels, m.Remaining())
	if n <= 0 && m.Remaining() == 0 {
		return 0, io.EOF
	}

	i := 0
	for f := m.pos; f < m.pos+n; f++ {
		for c := range m.channels {
			dst[i] = m.wave(f, c)
			i++
		}
	}
	m.pos += n

	if m.Remaining() == 0 {
		return i, io.EOF
	}
	return i, nil
}
