// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	"github.com/ik5/mediakit/audio"
	"github.com/ik5/mediakit/formats/internal/intpcm"
)

type Decoder struct{}

var _ audio.Sniffer = Decoder{}

func (Decoder) Sniff(header []byte) bool {
	if len(header) < 12 || !bytes.Equal(header[:4], []byte("FORM")) {
		return false
	}
	kind := string(header[8:12])
	return kind == "AIFF" || kind == "AIFC"
}

func (Decoder) Extensions() []string { return []string{"aif", "aiff", "aifc"} }

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	// go-audio requires io.ReadSeeker
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading aiff data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}

	dec.ReadInfo()

	if !intpcm.SupportedDepth(int(dec.BitDepth)) {
		return nil, ErrUnsupportedBitDepth
	}

	format := dec.Format()
	if format == nil || format.NumChannels < 1 || format.SampleRate <= 0 {
		return nil, ErrUnsupportedAiffLayout
	}

	// AIFF stores 8-bit samples signed
	return intpcm.New(dec, format, int(dec.BitDepth), false), nil
}
