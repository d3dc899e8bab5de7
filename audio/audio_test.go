// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/ik5/mediakit/internal/audiotest"
)

// mockDecoder sniffs a fixed magic prefix
type mockDecoder struct {
	magic string
	exts  []string
}

func (d *mockDecoder) Decode(r io.Reader) (Source, error) {
	return audiotest.NewSilentSource(44100, 2, 100), nil
}

func (d *mockDecoder) Sniff(header []byte) bool {
	return len(header) >= len(d.magic) && string(header[:len(d.magic)]) == d.magic
}

func (d *mockDecoder) Extensions() []string { return d.exts }

// plainDecoder cannot sniff and always fails
type plainDecoder struct{}

func (plainDecoder) Decode(r io.Reader) (Source, error) {
	return nil, errors.New("decode failed")
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	decoder := &mockDecoder{magic: "RIFF"}
	registry.Register("wav", decoder)

	got, ok := registry.Get("wav")
	if !ok {
		t.Fatal("Registry.Get() failed to retrieve registered decoder")
	}
	if got != decoder {
		t.Error("Registry.Get() returned different decoder instance")
	}

	if _, ok := registry.Get("flac"); ok {
		t.Error("Registry.Get() returned ok=true for unregistered format")
	}
}

func TestRegistry_Formats(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register("wav", plainDecoder{})
	registry.Register("aiff", plainDecoder{})
	registry.Register("mp3", plainDecoder{})

	got := registry.Formats()
	want := []string{"aiff", "mp3", "wav"}
	if len(got) != len(want) {
		t.Fatalf("Formats() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Formats()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRegistry_Detect(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register("wav", &mockDecoder{magic: "RIFF", exts: []string{"wav", "wave"}})
	registry.Register("ogg", &mockDecoder{magic: "OggS", exts: []string{"ogg", "oga"}})
	registry.Register("raw", plainDecoder{})

	tests := []struct {
		name       string
		file       string
		header     []byte
		wantFormat string
		wantOK     bool
	}{
		{"magic wins over extension", "sound.ogg", []byte("RIFF....WAVE"), "wav", true},
		{"extension fallback", "sound.oga", []byte("????"), "ogg", true},
		{"extension is case insensitive", "SOUND.WAVE", nil, "wav", true},
		{"query string ignored", "http://host/a.ogg?v=2#t", nil, "ogg", true},
		{"format key as extension", "dump.raw", nil, "raw", true},
		{"unknown", "notes.txt", []byte("hello"), "", false},
		{"no extension", "noise", []byte("hello"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, format, ok := registry.Detect(tt.file, tt.header)
			if ok != tt.wantOK {
				t.Fatalf("Detect(%q) ok = %v, want %v", tt.file, ok, tt.wantOK)
			}
			if format != tt.wantFormat {
				t.Errorf("Detect(%q) format = %q, want %q", tt.file, format, tt.wantFormat)
			}
		})
	}
}

func TestRegistry_DecodeBytes(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register("wav", &mockDecoder{magic: "RIFF"})
	registry.Register("raw", plainDecoder{})

	src, format, err := registry.DecodeBytes("x", []byte("RIFF0000WAVE"))
	if err != nil {
		t.Fatalf("DecodeBytes() error = %v", err)
	}
	if format != "wav" || src.Channels() != 2 {
		t.Errorf("DecodeBytes() = (%d ch, %q), want (2 ch, wav)", src.Channels(), format)
	}

	if _, _, err := registry.DecodeBytes("x.txt", []byte("text")); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("DecodeBytes() error = %v, want ErrUnknownFormat", err)
	}

	if _, format, err := registry.DecodeBytes("x.raw", []byte("text")); err == nil || format != "raw" {
		t.Errorf("DecodeBytes() = (%q, %v), want decoder error for raw", format, err)
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			registry.Register("format", plainDecoder{})
		}()
		go func() {
			defer wg.Done()
			registry.Detect("a.format", nil)
		}()
	}
	wg.Wait()

	if _, ok := registry.Get("format"); !ok {
		t.Error("Registry.Get() failed after concurrent registration")
	}
}

func TestErrors(t *testing.T) {
	t.Parallel()

	errs := []error{ErrInvalidDstSize, ErrUnknownFormat, ErrInvalidBuffer, ErrNoProgress}
	for i, a := range errs {
		for j, b := range errs {
			if (i == j) != errors.Is(a, b) {
				t.Errorf("errors.Is(%v, %v) = %v", a, b, i != j)
			}
		}
	}

	wrapped := errors.Join(ErrUnknownFormat, errors.New("context"))
	if !errors.Is(wrapped, ErrUnknownFormat) {
		t.Error("errors.Is() failed for joined ErrUnknownFormat")
	}
}
