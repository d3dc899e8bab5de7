// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"time"
)

// Buffer holds fully decoded, interleaved samples. A Buffer is never
// modified after construction, so any number of Sources may read it at the
// same time.
type Buffer struct {
	samples    []float32
	sampleRate int
	channels   int
}

// NewBuffer copies samples into a new Buffer.
func NewBuffer(samples []float32, sampleRate, channels int) (*Buffer, error) {
	if sampleRate <= 0 || channels <= 0 || len(samples)%channels != 0 {
		return nil, ErrInvalidBuffer
	}

	return &Buffer{
		samples:    append([]float32(nil), samples...),
		sampleRate: sampleRate,
		channels:   channels,
	}, nil
}

func (b *Buffer) SampleRate() int { return b.sampleRate }
func (b *Buffer) Channels() int   { return b.channels }
func (b *Buffer) Frames() int     { return len(b.samples) / b.channels }

// Duration is the playing time at the buffer's own sample rate.
func (b *Buffer) Duration() time.Duration {
	return time.Duration(b.Frames()) * time.Second / time.Duration(b.sampleRate)
}

// Samples returns a copy of the interleaved samples.
func (b *Buffer) Samples() []float32 {
	return append([]float32(nil), b.samples...)
}

// Source returns a reader positioned at the first frame.
func (b *Buffer) Source() Source {
	return &bufferSource{buf: b}
}

// LoopSource returns a reader that wraps to the first frame at the end and
// never reports io.EOF, unless the buffer is empty.
func (b *Buffer) LoopSource() Source {
	return &bufferSource{buf: b, loop: true}
}

type bufferSource struct {
	buf  *Buffer
	pos  int
	loop bool
}

func (s *bufferSource) SampleRate() int { return s.buf.sampleRate }
func (s *bufferSource) Channels() int   { return s.buf.channels }
func (s *bufferSource) BufSize() int    { return 4096 - 4096%s.buf.channels }
func (s *bufferSource) Close() error    { return nil }

func (s *bufferSource) ReadSamples(dst []float32) (int, error) {
	if len(dst)%s.buf.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	total := len(s.buf.samples)
	if total == 0 {
		return 0, io.EOF
	}

	written := 0
	for written < len(dst) {
		if s.pos >= total {
			if !s.loop {
				break
			}
			s.pos = 0
		}
		n := copy(dst[written:], s.buf.samples[s.pos:])
		s.pos += n
		written += n
	}

	if !s.loop && s.pos >= total {
		return written, io.EOF
	}

	return written, nil
}

// maxEmptyReads bounds how many (0, nil) reads ReadBuffer tolerates in a row.
const maxEmptyReads = 64

// ReadBuffer drains src into a Buffer, converting it to targetRate on the
// way. A targetRate of zero keeps the source rate. The channel layout is
// preserved.
func ReadBuffer(src Source, targetRate int) (*Buffer, error) {
	if src.Channels() <= 0 || src.SampleRate() <= 0 {
		return nil, ErrInvalidBuffer
	}

	var s Source = src
	if targetRate > 0 && targetRate != src.SampleRate() {
		s = NewResampler(src, targetRate)
	}

	channels := s.Channels()
	size := src.BufSize()
	if size < channels {
		size = 4096
	}
	size -= size % channels

	buf := make([]float32, size)
	samples := make([]float32, 0, size)
	empty := 0

	for {
		n, err := s.ReadSamples(buf)
		samples = append(samples, buf[:n]...)

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}

		if n == 0 {
			empty++
			if empty > maxEmptyReads {
				return nil, ErrNoProgress
			}
			continue
		}
		empty = 0
	}

	// Drop a trailing partial frame
	samples = samples[:len(samples)-len(samples)%channels]

	return &Buffer{
		samples:    samples,
		sampleRate: s.SampleRate(),
		channels:   channels,
	}, nil
}
