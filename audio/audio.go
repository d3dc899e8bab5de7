// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"bytes"
	"io"
	"maps"
	"path"
	"slices"
	"strings"
	"sync"
)

type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)

	BufSize() int

	// Close releases any resources.
	Close() error
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Sniffer is implemented by decoders that can recognise their own
// container from its leading bytes or from a file name.
type Sniffer interface {
	Sniff(header []byte) bool
	Extensions() []string
}

// SniffLen is the number of leading bytes Detect needs to recognise every
// registered container.
const SniffLen = 16

// Registry for decoders by format key (e.g., "wav", "mp3", "ogg vorbis").
type Registry struct {
	codecs map[string]Decoder

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		mtx:    &sync.Mutex{},
	}
}

func (r *Registry) Register(format string, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[format] = d
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[format]
	return d, ok
}

// Formats returns the registered format keys in sorted order.
func (r *Registry) Formats() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	return slices.Sorted(maps.Keys(r.codecs))
}

// Detect picks a decoder for a resource. Magic bytes in header win over the
// extension of name, so a mislabelled file still decodes. The matching
// format key is returned alongside the decoder.
func (r *Registry) Detect(name string, header []byte) (Decoder, string, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	formats := slices.Sorted(maps.Keys(r.codecs))

	for _, format := range formats {
		if s, ok := r.codecs[format].(Sniffer); ok && s.Sniff(header) {
			return r.codecs[format], format, true
		}
	}

	ext := strings.ToLower(strings.TrimPrefix(path.Ext(stripQuery(name)), "."))
	if ext == "" {
		return nil, "", false
	}

	for _, format := range formats {
		d := r.codecs[format]
		if format == ext {
			return d, format, true
		}
		if s, ok := d.(Sniffer); ok && slices.Contains(s.Extensions(), ext) {
			return d, format, true
		}
	}

	return nil, "", false
}

// DecodeBytes detects the format of data and decodes it.
func (r *Registry) DecodeBytes(name string, data []byte) (Source, string, error) {
	header := data[:min(len(data), SniffLen)]

	d, format, ok := r.Detect(name, header)
	if !ok {
		return nil, "", ErrUnknownFormat
	}

	src, err := d.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, format, err
	}

	return src, format, nil
}

func stripQuery(name string) string {
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		return name[:i]
	}
	return name
}
