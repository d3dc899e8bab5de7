// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"math"
	"sync/atomic"

	"github.com/ik5/mediakit/utils"
)

// Resampler streams from src to target sample rate using cubic interpolation.
// Works on interleaved samples; preserves channel count.
// Includes basic anti-aliasing filtering when downsampling.
//
// A speed multiplier (see SetSpeed) changes how fast the source is consumed
// without changing the output rate, which is how playback rate is applied.
type Resampler struct {
	src       Source
	srcRate   float64
	dstRate   float64
	baseRatio float64 // srcRate / dstRate - how many source samples per output sample
	speed     atomic.Uint64
	channels  int

	// Ring buffer holding 4 frames for cubic interpolation
	// frames[0] = t-1, frames[1] = t0, frames[2] = t+1, frames[3] = t+2
	frames   [4][]float32
	hasFrame [4]bool

	// Position between frames[1] and frames[2], in source frames
	pos float64

	srcBuf []float32
	eof    bool
	primed bool

	// One-pole low-pass state, used when downsampling
	filterState []float32
	useFilter   bool
	filterAlpha float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	ratio := float64(src.SampleRate()) / float64(dstRate)

	useFilter := ratio > 1.0
	var filterAlpha float32
	if useFilter {
		filterAlpha = 0.5
	}

	r := &Resampler{
		src:         src,
		srcRate:     float64(src.SampleRate()),
		dstRate:     float64(dstRate),
		baseRatio:   ratio,
		channels:    channels,
		srcBuf:      make([]float32, channels),
		useFilter:   useFilter,
		filterAlpha: filterAlpha,
		filterState: make([]float32, channels),
	}
	r.speed.Store(math.Float64bits(1))

	for i := range r.frames {
		r.frames[i] = make([]float32, channels)
	}

	return r
}

// NewRateResampler is NewResampler with an initial speed multiplier.
func NewRateResampler(src Source, dstRate int, speed float64) *Resampler {
	r := NewResampler(src, dstRate)
	r.SetSpeed(speed)
	return r
}

// SetSpeed sets the playback rate multiplier. It is safe to call while
// another goroutine is reading. Values <= 0 are not rejected; they freeze
// or reverse the read position and produce undefined audio.
func (r *Resampler) SetSpeed(speed float64) { r.speed.Store(math.Float64bits(speed)) }

// Speed returns the current playback rate multiplier.
func (r *Resampler) Speed() float64 { return math.Float64frombits(r.speed.Load()) }

func (r *Resampler) SampleRate() int { return int(r.dstRate) }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	err := r.src.Close()
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (r *Resampler) applyFilter(frame []float32) {
	if !r.useFilter {
		return
	}
	for c := range r.channels {
		frame[c] = r.filterAlpha*frame[c] + (1-r.filterAlpha)*r.filterState[c]
		r.filterState[c] = frame[c]
	}
}

// readFrame reads one source frame into frame. It reports whether a frame
// was produced; once the source is exhausted it stops reading.
func (r *Resampler) readFrame(frame []float32) (bool, error) {
	if r.eof {
		return false, nil
	}

	n, err := r.src.ReadSamples(r.srcBuf)
	if err == io.EOF {
		r.eof = true
	} else if err != nil {
		return false, fmt.Errorf("%w", err)
	}

	if n < r.channels {
		return false, nil
	}

	copy(frame, r.srcBuf[:n])
	r.applyFilter(frame)

	return true, nil
}

// prime loads t0, t+1 and t+2. t-1 does not exist yet and is mirrored
// from t0 during interpolation.
func (r *Resampler) prime() error {
	r.primed = true

	for i := 1; i < 4; i++ {
		if i == 1 && r.useFilter {
			n, err := r.src.ReadSamples(r.srcBuf)
			if err != nil && err != io.EOF {
				return fmt.Errorf("%w", err)
			}
			if err == io.EOF {
				r.eof = true
			}
			if n < r.channels {
				return io.EOF
			}
			copy(r.filterState, r.srcBuf[:n])
			copy(r.frames[1], r.srcBuf[:n])
			r.hasFrame[1] = true
			continue
		}

		ok, err := r.readFrame(r.frames[i])
		if err != nil {
			return err
		}
		r.hasFrame[i] = ok
	}

	if !r.hasFrame[1] {
		return io.EOF
	}

	return nil
}

// advance shifts the ring by one source frame.
func (r *Resampler) advance() error {
	copy(r.frames[0], r.frames[1])
	copy(r.frames[1], r.frames[2])
	copy(r.frames[2], r.frames[3])
	r.hasFrame[0] = r.hasFrame[1]
	r.hasFrame[1] = r.hasFrame[2]
	r.hasFrame[2] = r.hasFrame[3]

	ok, err := r.readFrame(r.frames[3])
	if err != nil {
		return err
	}
	r.hasFrame[3] = ok

	if !r.hasFrame[1] {
		return io.EOF
	}

	return nil
}

// ReadSamples produces dst samples at r.dstRate.
// dst length should be a multiple of r.channels.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	if !r.hasFrame[1] {
		return 0, io.EOF
	}

	step := r.baseRatio * r.Speed()
	written := 0
	framesNeeded := len(dst) / r.channels

	for written < framesNeeded {
		for r.pos >= 1.0 {
			r.pos -= 1.0
			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
		}

		alpha := float32(r.pos)
		for c := range r.channels {
			y1 := r.frames[1][c]
			y0, y2, y3 := y1, y1, y1
			if r.hasFrame[0] {
				y0 = r.frames[0][c]
			}
			if r.hasFrame[2] {
				y2 = r.frames[2][c]
				y3 = y2
			}
			if r.hasFrame[3] {
				y3 = r.frames[3][c]
			}
			dst[written*r.channels+c] = utils.CubicInterpolate(y0, y1, y2, y3, alpha)
		}

		written++
		r.pos += step
		if r.pos < 0 {
			r.pos = 0
		}
	}

	return written * r.channels, nil
}
