// SPDX-License-Identifier: EPL-2.0

package formats

import (
	"errors"
	"slices"
	"testing"

	"github.com/ik5/mediakit/audio"
	"github.com/ik5/mediakit/internal/audiotest"
)

func TestNewRegistry_Formats(t *testing.T) {
	t.Parallel()

	got := NewRegistry().Formats()
	want := []string{"aiff", "mp3", "ogg", "wav"}
	if !slices.Equal(got, want) {
		t.Errorf("Formats() = %v, want %v", got, want)
	}
}

func TestNewRegistry_Detect(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	wav := audiotest.WAV16(8000, 1, []int16{1, 2, 3})
	aiff := audiotest.AIFF16(8000, 1, []int16{1, 2, 3})

	tests := []struct {
		name   string
		file   string
		header []byte
		want   string
	}{
		{"wav magic beats extension", "sound.mp3", wav[:audio.SniffLen], "wav"},
		{"aiff magic", "noext", aiff[:audio.SniffLen], "aiff"},
		{"ogg magic", "x", []byte("OggS\x00\x02\x00\x00"), "ogg"},
		{"mp3 by extension", "bell1.mp3?v=2", []byte("????"), "mp3"},
		{"oga alias", "a.OGA", nil, "ogg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, format, ok := reg.Detect(tt.file, tt.header)
			if !ok || format != tt.want {
				t.Errorf("Detect(%q) = %q, %v; want %q", tt.file, format, ok, tt.want)
			}
		})
	}
}

func TestNewRegistry_DecodeBytes(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	src, format, err := reg.DecodeBytes("bell.bin", audiotest.WAV16(8000, 1, audiotest.Sine16(8000, 1, 800, 440, 0.5)))
	if err != nil {
		t.Fatalf("DecodeBytes() error = %v", err)
	}
	defer src.Close()

	if format != "wav" {
		t.Errorf("format = %q, want wav", format)
	}

	buf, err := audio.ReadBuffer(src, 16000)
	if err != nil {
		t.Fatalf("ReadBuffer() error = %v", err)
	}
	if buf.Frames() < 1590 || buf.Frames() > 1610 {
		t.Errorf("Frames() = %d, want about 1600", buf.Frames())
	}
}

func TestNewRegistry_UnknownData(t *testing.T) {
	t.Parallel()

	_, _, err := NewRegistry().DecodeBytes("notes.txt", []byte("plain text"))
	if !errors.Is(err, audio.ErrUnknownFormat) {
		t.Errorf("DecodeBytes() error = %v, want %v", err, audio.ErrUnknownFormat)
	}
}
