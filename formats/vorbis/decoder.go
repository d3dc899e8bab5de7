// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ik5/mediakit/audio"
	"github.com/jfreymuth/oggvorbis"
)

// oggReader is the part of oggvorbis.Reader the source needs
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

type source struct {
	dec        oggReader
	sampleRate int
	channels   int
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return 4096 - 4096%s.channels }

// ReadSamples decodes straight into dst. oggvorbis counts interleaved
// samples, so dst is trimmed to whole frames first.
func (s *source) ReadSamples(dst []float32) (int, error) {
	dst = dst[:len(dst)-len(dst)%s.channels]
	if len(dst) == 0 {
		return 0, nil
	}

	return s.dec.Read(dst)
}

type Decoder struct{}

var _ audio.Sniffer = Decoder{}

func (Decoder) Sniff(header []byte) bool {
	return len(header) >= 4 && bytes.Equal(header[:4], []byte("OggS"))
}

func (Decoder) Extensions() []string { return []string{"ogg", "oga"} }

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		channels:   dec.Channels(),
	}, nil
}
