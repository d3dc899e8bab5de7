// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
	"io"

	gowav "github.com/go-audio/wav"
	"github.com/ik5/mediakit/audio"
	"github.com/ik5/mediakit/formats/internal/intpcm"
)

const (
	formatPCM        = 1
	formatExtensible = 0xFFFE
)

type Decoder struct{}

var _ audio.Sniffer = Decoder{}

func (Decoder) Sniff(header []byte) bool {
	return len(header) >= 12 && bytes.Equal(header[:4], []byte("RIFF")) && bytes.Equal(header[8:12], []byte("WAVE"))
}

func (Decoder) Extensions() []string { return []string{"wav", "wave"} }

func (d Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading wav data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	header := make([]byte, 12)
	if _, err := io.ReadFull(rs, header); err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	if !d.Sniff(header) {
		return nil, ErrNotWavFile
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	dec := gowav.NewDecoder(rs)
	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavLayout, err)
	}
	if dec.NumChans < 1 || dec.SampleRate == 0 {
		return nil, ErrUnsupportedWavLayout
	}
	if dec.WavAudioFormat != formatPCM && dec.WavAudioFormat != formatExtensible {
		return nil, ErrOnlyPCMSupported
	}
	if !intpcm.SupportedDepth(int(dec.BitDepth)) {
		return nil, ErrUnsupportedBitDepth
	}

	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavChunks, err)
	}

	format := dec.Format()
	if format == nil {
		return nil, ErrUnsupportedWavLayout
	}

	return intpcm.New(dec, format, int(dec.BitDepth), true), nil
}
