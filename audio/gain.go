// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/viterin/vek/vek32"
)

// Gain scales every sample of src by a linear factor that can be changed
// while another goroutine reads. The factor is not clamped; clipping happens
// when samples are converted to integer PCM.
type Gain struct {
	src   Source
	level atomic.Uint64
}

func NewGain(src Source, level float64) *Gain {
	g := &Gain{src: src}
	g.SetLevel(level)
	return g
}

func (g *Gain) SetLevel(level float64) { g.level.Store(math.Float64bits(level)) }
func (g *Gain) Level() float64         { return math.Float64frombits(g.level.Load()) }

func (g *Gain) SampleRate() int { return g.src.SampleRate() }
func (g *Gain) Channels() int   { return g.src.Channels() }
func (g *Gain) BufSize() int    { return g.src.BufSize() }

func (g *Gain) Close() error {
	if err := g.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (g *Gain) ReadSamples(dst []float32) (int, error) {
	n, err := g.src.ReadSamples(dst)

	if level := float32(g.Level()); level != 1 && n > 0 {
		vek32.MulNumber_Inplace(dst[:n], level)
	}

	return n, err
}
