// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"encoding/binary"
	"io"

	"github.com/ik5/mediakit/utils"
)

// PCM16Reader exposes a Source as signed 16-bit little-endian PCM bytes,
// the layout output devices consume.
type PCM16Reader struct {
	src     Source
	buf     []float32
	out     []byte
	pending []byte
	err     error
}

var _ io.Reader = (*PCM16Reader)(nil)

func NewPCM16Reader(src Source) *PCM16Reader {
	return &PCM16Reader{src: src}
}

func (p *PCM16Reader) Read(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}

	for len(p.pending) == 0 {
		if p.err != nil {
			return 0, p.err
		}

		channels := p.src.Channels()
		want := len(b) / 2
		want -= want % channels
		if want == 0 {
			want = channels
		}

		if cap(p.buf) < want {
			p.buf = make([]float32, want)
		}
		p.buf = p.buf[:want]

		n, err := p.src.ReadSamples(p.buf)
		if err != nil {
			p.err = err
		}

		p.out = p.out[:0]
		for _, s := range p.buf[:n] {
			p.out = binary.LittleEndian.AppendUint16(p.out, uint16(utils.Float32ToInt16(s)))
		}
		p.pending = p.out

		if n == 0 && err == nil {
			return 0, nil
		}
	}

	n := copy(b, p.pending)
	p.pending = p.pending[n:]

	return n, nil
}
