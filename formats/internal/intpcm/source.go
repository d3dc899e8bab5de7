// SPDX-License-Identifier: EPL-2.0

// Package intpcm adapts go-audio integer PCM decoders to audio.Source.
package intpcm

import (
	"io"

	goaudio "github.com/go-audio/audio"
)

// Reader is the part of the go-audio wav and aiff decoders that yields PCM.
type Reader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Source converts integer PCM of any supported depth to float32 in [-1,1].
type Source struct {
	dec        Reader
	format     *goaudio.Format
	sampleRate int
	channels   int
	bitDepth   int
	unsigned8  bool
	intBuf     *goaudio.IntBuffer
}

// New wraps dec. unsigned8 marks 8-bit data stored offset by 128, as WAV does.
func New(dec Reader, format *goaudio.Format, bitDepth int, unsigned8 bool) *Source {
	return &Source{
		dec:        dec,
		format:     format,
		sampleRate: format.SampleRate,
		channels:   format.NumChannels,
		bitDepth:   bitDepth,
		unsigned8:  unsigned8,
	}
}

// SupportedDepth reports whether depth can be normalised.
func SupportedDepth(depth int) bool {
	switch depth {
	case 8, 16, 24, 32:
		return true
	}
	return false
}

func (s *Source) SampleRate() int { return s.sampleRate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) Close() error    { return nil }

func (s *Source) BufSize() int {
	if s.intBuf != nil {
		return cap(s.intBuf.Data)
	}
	return 4096
}

func (s *Source) scale() float32 {
	switch s.bitDepth {
	case 8:
		return 128.0
	case 24:
		return 8388608.0
	case 32:
		return 2147483648.0
	default:
		return 32768.0
	}
}

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < len(dst) {
		s.intBuf = &goaudio.IntBuffer{
			Data:           make([]int, len(dst)),
			Format:         s.format,
			SourceBitDepth: s.bitDepth,
		}
	} else {
		s.intBuf.Data = s.intBuf.Data[:len(dst)]
	}

	n, err := s.dec.PCMBuffer(s.intBuf)
	if n == 0 {
		if err != nil && err != io.EOF {
			return 0, err
		}
		return 0, io.EOF
	}

	scale := s.scale()
	data := s.intBuf.Data[:n]
	switch {
	case s.bitDepth == 8 && s.unsigned8:
		for i, v := range data {
			dst[i] = float32(v-128) / scale
		}
	case s.bitDepth == 8:
		// go-audio hands back the raw byte; signed 8-bit needs sign extension
		for i, v := range data {
			dst[i] = float32(int8(uint8(v))) / scale
		}
	default:
		for i, v := range data {
			dst[i] = float32(v) / scale
		}
	}

	// A short read without an error is the end of the PCM chunk
	if n < len(dst) && err == nil {
		return n, io.EOF
	}

	return n, err
}
