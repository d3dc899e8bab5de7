// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/ik5/mediakit/audio"
)

// Voice is one playing instance of a Buffer: a source, its rate stage and
// its gain stage. Gain and rate changes apply on the next device read.
type Voice struct {
	id      uuid.UUID
	rate    *audio.Resampler
	gain    *audio.Gain
	player  Player
	looping bool
	stopped atomic.Bool
}

func newVoice(out Context, src audio.Source, rate, gain float64, looping bool) *Voice {
	rs := audio.NewRateResampler(src, out.SampleRate(), rate)
	g := audio.NewGain(rs, gain)

	v := &Voice{
		id:      uuid.New(),
		rate:    rs,
		gain:    g,
		looping: looping,
	}
	v.player = out.NewPlayer(audio.NewPCM16Reader(audio.AdaptChannels(g, out.ChannelCount())))

	return v
}

func (v *Voice) ID() string    { return v.id.String() }
func (v *Voice) Looping() bool { return v.looping }

func (v *Voice) SetGain(gain float64) { v.gain.SetLevel(gain) }
func (v *Voice) Gain() float64        { return v.gain.Level() }

func (v *Voice) SetRate(rate float64) { v.rate.SetSpeed(rate) }
func (v *Voice) Rate() float64        { return v.rate.Speed() }

// Playing reports whether the voice is still audible.
func (v *Voice) Playing() bool {
	return !v.stopped.Load() && v.player.IsPlaying()
}

// Stop silences the voice and releases its player. Stopping twice is a no-op.
func (v *Voice) Stop() error {
	if !v.stopped.CompareAndSwap(false, true) {
		return nil
	}

	if err := v.player.Close(); err != nil {
		return fmt.Errorf("stop voice %s: %w", v.id, err)
	}

	return nil
}

func (v *Voice) String() string {
	kind := "one-shot"
	if v.looping {
		kind = "loop"
	}
	return fmt.Sprintf("%s voice %s (gain %.3g, rate %.3g)", kind, v.id, v.Gain(), v.Rate())
}
