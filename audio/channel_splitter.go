// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// ChannelSplitter copies a mono stream onto every output channel.
type ChannelSplitter struct {
	src      Source
	channels int
	tmp      []float32
}

func NewChannelSplitter(src Source, channels int) *ChannelSplitter {
	return &ChannelSplitter{
		src:      src,
		channels: channels,
		tmp:      make([]float32, 4096),
	}
}

func (s *ChannelSplitter) SampleRate() int { return s.src.SampleRate() }
func (s *ChannelSplitter) Channels() int   { return s.channels }
func (s *ChannelSplitter) BufSize() int    { return s.src.BufSize() }

func (s *ChannelSplitter) Close() error {
	if err := s.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (s *ChannelSplitter) ReadSamples(dst []float32) (int, error) {
	if len(dst)%s.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	frames := len(dst) / s.channels
	if cap(s.tmp) < frames {
		s.tmp = make([]float32, frames)
	}
	s.tmp = s.tmp[:frames]

	n, err := s.src.ReadSamples(s.tmp)
	for f := range n {
		v := s.tmp[f]
		for c := range s.channels {
			dst[f*s.channels+c] = v
		}
	}

	return n * s.channels, err
}

// AdaptChannels returns src remixed to the requested channel count.
// Multi-channel sources going to a different multi-channel layout are
// folded to mono first.
func AdaptChannels(src Source, channels int) Source {
	switch {
	case src.Channels() == channels:
		return src
	case channels == 1:
		return NewMonoMixer(src)
	case src.Channels() == 1:
		return NewChannelSplitter(src, channels)
	default:
		return NewChannelSplitter(NewMonoMixer(src), channels)
	}
}
