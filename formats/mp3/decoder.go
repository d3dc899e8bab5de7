// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/mediakit/audio"
)

// mp3Reader is the part of gomp3.Decoder the source needs
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

type source struct {
	dec        mp3Reader
	sampleRate int
	channels   int
	buf        []byte
	carry      []byte // odd trailing byte of the previous read
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return cap(s.buf) / 2 }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	// go-mp3 yields 16-bit little-endian stereo PCM
	bytesNeeded := len(dst)*2 - len(s.carry)
	if cap(s.buf) < len(dst)*2 {
		s.buf = make([]byte, len(dst)*2)
	}
	s.buf = s.buf[:len(s.carry)+bytesNeeded]
	copy(s.buf, s.carry)

	n, err := s.dec.Read(s.buf[len(s.carry):])
	total := len(s.carry) + n

	samples := total / 2
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(s.buf[2*i:]))
		dst[i] = float32(v) / 32768.0
	}
	s.carry = append(s.carry[:0], s.buf[samples*2:total]...)

	if samples == 0 && err != nil {
		return 0, err
	}

	return samples, err
}

type Decoder struct{}

var _ audio.Sniffer = Decoder{}

// Sniff accepts an ID3v2 tag or an MPEG audio frame sync.
func (Decoder) Sniff(header []byte) bool {
	if len(header) >= 3 && bytes.Equal(header[:3], []byte("ID3")) {
		return true
	}
	return len(header) >= 2 && header[0] == 0xFF && header[1]&0xE0 == 0xE0
}

func (Decoder) Extensions() []string { return []string{"mp3"} }

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		channels:   2,
		buf:        make([]byte, 8192),
	}, nil
}
