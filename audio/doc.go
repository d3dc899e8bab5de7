// SPDX-License-Identifier: EPL-2.0

// Package audio provides the sample pipeline behind loading and playback.
//
// Every stage implements Source, an interleaved float32 stream in [-1, 1]:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// # Decoding
//
// A Registry maps format keys to Decoders and can Detect the right one from
// the first SniffLen bytes of a resource or, failing that, its extension:
//
//	src, format, err := registry.DecodeBytes("bell.wav", data)
//
// ReadBuffer drains a Source into an immutable Buffer at a chosen sample
// rate, the same way a browser audio context decodes everything to its own
// rate up front:
//
//	buf, err := audio.ReadBuffer(src, 44100)
//	fmt.Println(buf.Duration())
//
// # Playback chain
//
// A Buffer is played by stacking stages on one of its sources:
//
//	rate := audio.NewRateResampler(buf.Source(), 48000, 1.5)
//	gain := audio.NewGain(rate, 0.8)
//	out := audio.NewPCM16Reader(audio.AdaptChannels(gain, 2))
//
// Resampler.SetSpeed and Gain.SetLevel may be called while the chain is
// being read on another goroutine; both take effect on the next read.
// Buffer.LoopSource never ends, which is what looping playback uses.
//
// # Channel layout
//
// MonoMixer averages channels down to one, ChannelSplitter copies a mono
// stream to N channels, and AdaptChannels picks between them.
//
// # Error Handling
//
// Sources return io.EOF when no more data is available, possibly together
// with the last samples:
//
//	for {
//	    n, err := source.ReadSamples(buf)
//	    process(buf[:n])
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	}
package audio
