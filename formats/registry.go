// SPDX-License-Identifier: EPL-2.0

// Package formats bundles every codec decoder into a ready registry.
package formats

import (
	"github.com/ik5/mediakit/audio"
	"github.com/ik5/mediakit/formats/aiff"
	"github.com/ik5/mediakit/formats/mp3"
	"github.com/ik5/mediakit/formats/vorbis"
	"github.com/ik5/mediakit/formats/wav"
)

// NewRegistry returns a registry holding the wav, mp3, ogg and aiff decoders.
func NewRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("aiff", aiff.Decoder{})

	return reg
}
