// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/ik5/mediakit/audio"
	"github.com/ik5/mediakit/internal/audiotest"
)

func readAll(t *testing.T, src audio.Source) []float32 {
	t.Helper()

	var out []float32
	buf := make([]float32, 64*src.Channels())
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}
}

func TestDecoder_ValidWAVFile(t *testing.T) {
	t.Parallel()

	samples := []int16{0, 16384, -16384, 32767, -32768, 0}
	src, err := Decoder{}.Decode(bytes.NewReader(audiotest.WAV16(8000, 1, samples)))
	if err != nil {
		t.Fatalf("Decode() error = %v, want nil", err)
	}

	if src.SampleRate() != 8000 {
		t.Errorf("SampleRate() = %d, want 8000", src.SampleRate())
	}
	if src.Channels() != 1 {
		t.Errorf("Channels() = %d, want 1", src.Channels())
	}

	got := readAll(t, src)
	if len(got) != len(samples) {
		t.Fatalf("read %d samples, want %d", len(got), len(samples))
	}
	for i, s := range samples {
		want := float32(s) / 32768
		if math.Abs(float64(got[i]-want)) > 1e-6 {
			t.Errorf("sample %d = %v, want %v", i, got[i], want)
		}
	}
}

func TestDecoder_StereoWAVFile(t *testing.T) {
	t.Parallel()

	samples := audiotest.Sine16(22050, 2, 2205, 440, 0.5)
	src, err := Decoder{}.Decode(bytes.NewReader(audiotest.WAV16(22050, 2, samples)))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if src.Channels() != 2 {
		t.Errorf("Channels() = %d, want 2", src.Channels())
	}
	if got := len(readAll(t, src)); got != len(samples) {
		t.Errorf("read %d samples, want %d", got, len(samples))
	}
}

func TestDecoder_ExtraChunks(t *testing.T) {
	t.Parallel()

	samples := []int16{1000, 2000, 3000, 4000}
	data := audiotest.WAV16(16000, 1, samples,
		audiotest.Chunk{ID: "junk", Data: []byte{0, 0, 0, 0}},
		audiotest.Chunk{ID: "afsp", Data: []byte{0, 0}},
	)

	src, err := Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	got := readAll(t, src)
	if len(got) != len(samples) {
		t.Fatalf("read %d samples, want %d", len(got), len(samples))
	}
	if want := float32(1000) / 32768; got[0] != want {
		t.Errorf("first sample = %v, want %v", got[0], want)
	}
}

func TestDecoder_8Bit(t *testing.T) {
	t.Parallel()

	// Unsigned: 128 is silence, 255 is near full scale
	pcm := []byte{128, 255, 0, 192}
	src, err := Decoder{}.Decode(bytes.NewReader(audiotest.WAV(8000, 1, 8, 1, pcm)))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	got := readAll(t, src)
	want := []float32{0, 127.0 / 128, -1, 0.5}
	if len(got) != len(want) {
		t.Fatalf("read %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDecoder_24Bit(t *testing.T) {
	t.Parallel()

	// 0x400000 is half scale, little endian
	pcm := []byte{0x00, 0x00, 0x40, 0x00, 0x00, 0xC0}
	src, err := Decoder{}.Decode(bytes.NewReader(audiotest.WAV(48000, 1, 24, 1, pcm)))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	got := readAll(t, src)
	want := []float32{0.5, -0.5}
	if len(got) != len(want) {
		t.Fatalf("read %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDecoder_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"not riff", []byte("this is not a wav file at all"), ErrNotWavFile},
		{"float format", audiotest.WAV(8000, 1, 32, 3, make([]byte, 16)), ErrOnlyPCMSupported},
		{"12 bit", audiotest.WAV(8000, 1, 12, 1, make([]byte, 16)), ErrUnsupportedBitDepth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decoder{}.Decode(bytes.NewReader(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecoder_TruncatedInput(t *testing.T) {
	t.Parallel()

	if _, err := (Decoder{}).Decode(bytes.NewReader([]byte("RIF"))); err == nil {
		t.Error("Decode() of 3 bytes succeeded")
	}
}

func TestDecoder_NonSeekableReader(t *testing.T) {
	t.Parallel()

	data := audiotest.WAV16(8000, 1, []int16{1, 2, 3, 4})
	src, err := Decoder{}.Decode(io.MultiReader(bytes.NewReader(data)))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got := len(readAll(t, src)); got != 4 {
		t.Errorf("read %d samples, want 4", got)
	}
}

func TestDecoder_Sniff(t *testing.T) {
	t.Parallel()

	d := Decoder{}
	if !d.Sniff(audiotest.WAV16(8000, 1, nil)[:audio.SniffLen]) {
		t.Error("Sniff() rejected a WAV header")
	}
	if d.Sniff([]byte("RIFF\x00\x00\x00\x00AVI ")) {
		t.Error("Sniff() accepted an AVI header")
	}
	if d.Sniff([]byte("RIFF")) {
		t.Error("Sniff() accepted a short header")
	}
}
