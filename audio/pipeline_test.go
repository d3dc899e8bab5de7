// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"testing"

	"github.com/ik5/mediakit/internal/audiotest"
)

func TestMonoMixer_AveragesChannels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		channels int
		want     float32
	}{
		{"mono passthrough", 1, 0.0},
		{"stereo", 2, 0.25},
		{"quad", 4, 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// channel c carries c*0.5
			src := audiotest.NewMockSource(8000, tt.channels, 100, func(_, channel int) float32 {
				return float32(channel) * 0.5
			})
			mono := NewMonoMixer(src)

			got := drain(t, mono, 32)
			if len(got) != 100 {
				t.Fatalf("got %d frames, want 100", len(got))
			}
			for i, v := range got {
				if math.Abs(float64(v-tt.want)) > 1e-6 {
					t.Fatalf("frame %d = %v, want %v", i, v, tt.want)
				}
			}
			if mono.Channels() != 1 {
				t.Errorf("Channels() = %d, want 1", mono.Channels())
			}
		})
	}
}

func TestAdaptChannels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		from int
		to   int
	}{
		{"same", 2, 2},
		{"down to mono", 2, 1},
		{"mono to stereo", 1, 2},
		{"six to stereo", 6, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := audiotest.NewConstantSource(8000, tt.from, 50, 0.5)
			out := AdaptChannels(src, tt.to)

			if out.Channels() != tt.to {
				t.Fatalf("Channels() = %d, want %d", out.Channels(), tt.to)
			}

			got := drain(t, out, 10*tt.to)
			if len(got) != 50*tt.to {
				t.Fatalf("got %d samples, want %d", len(got), 50*tt.to)
			}
			for i, v := range got {
				if v != 0.5 {
					t.Fatalf("sample %d = %v, want 0.5", i, v)
				}
			}
		})
	}
}

func TestChannelSplitter_InvalidDstSize(t *testing.T) {
	t.Parallel()

	s := NewChannelSplitter(audiotest.NewSilentSource(8000, 1, 10), 2)
	if _, err := s.ReadSamples(make([]float32, 3)); err != ErrInvalidDstSize {
		t.Errorf("ReadSamples() error = %v, want ErrInvalidDstSize", err)
	}
}

func TestGain(t *testing.T) {
	t.Parallel()

	g := NewGain(audiotest.NewConstantSource(8000, 1, 200, 0.5), 0.5)
	buf := make([]float32, 100)

	if _, err := g.ReadSamples(buf); err != nil {
		t.Fatal(err)
	}
	if buf[0] != 0.25 {
		t.Errorf("sample = %v, want 0.25", buf[0])
	}

	g.SetLevel(3)
	if g.Level() != 3 {
		t.Fatalf("Level() = %v, want 3", g.Level())
	}
	if _, err := g.ReadSamples(buf); err != io.EOF {
		t.Fatalf("ReadSamples() error = %v, want io.EOF", err)
	}
	// Gain is not clamped here
	if buf[0] != 1.5 {
		t.Errorf("sample = %v, want 1.5", buf[0])
	}
}

func TestPCM16Reader(t *testing.T) {
	t.Parallel()

	buf, _ := NewBuffer([]float32{0, 0.5, -0.5, 1, -1, 2}, 8000, 2)
	r := NewPCM16Reader(buf.Source())

	// One byte at a time exercises the pending carry
	var out bytes.Buffer
	one := make([]byte, 1)
	for {
		n, err := r.Read(one)
		out.Write(one[:n])
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
	}

	want := []int16{0, 16383, -16383, 32767, -32767, 32767}
	if out.Len() != len(want)*2 {
		t.Fatalf("got %d bytes, want %d", out.Len(), len(want)*2)
	}
	for i, w := range want {
		if got := int16(binary.LittleEndian.Uint16(out.Bytes()[2*i:])); got != w {
			t.Errorf("sample %d = %d, want %d", i, got, w)
		}
	}
}

func TestPCM16Reader_ReadAll(t *testing.T) {
	t.Parallel()

	r := NewPCM16Reader(audiotest.NewSineSource(8000, 2, 1000, 440))
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(data) != 1000*2*2 {
		t.Errorf("got %d bytes, want %d", len(data), 1000*2*2)
	}
}
