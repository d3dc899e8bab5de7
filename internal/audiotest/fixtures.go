// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bytes"
	"encoding/binary"
	"math"
	"math/bits"
)

// Chunk is an extra RIFF chunk inserted between "fmt " and "data".
type Chunk struct {
	ID   string
	Data []byte
}

// WAV16 builds a PCM 16-bit WAV file from interleaved samples.
func WAV16(sampleRate, channels int, samples []int16, extra ...Chunk) []byte {
	data := new(bytes.Buffer)
	for _, s := range samples {
		binary.Write(data, binary.LittleEndian, s)
	}

	return WAV(sampleRate, channels, 16, 1, data.Bytes(), extra...)
}

// WAV builds a RIFF/WAVE file around raw PCM bytes. Odd-sized extra chunks
// get the pad byte RIFF requires.
func WAV(sampleRate, channels, bitsPerSample, format int, pcm []byte, extra ...Chunk) []byte {
	body := new(bytes.Buffer)
	body.WriteString("WAVE")

	blockAlign := channels * bitsPerSample / 8
	body.WriteString("fmt ")
	binary.Write(body, binary.LittleEndian, uint32(16))
	binary.Write(body, binary.LittleEndian, uint16(format))
	binary.Write(body, binary.LittleEndian, uint16(channels))
	binary.Write(body, binary.LittleEndian, uint32(sampleRate))
	binary.Write(body, binary.LittleEndian, uint32(sampleRate*blockAlign))
	binary.Write(body, binary.LittleEndian, uint16(blockAlign))
	binary.Write(body, binary.LittleEndian, uint16(bitsPerSample))

	for _, c := range extra {
		body.WriteString(c.ID)
		binary.Write(body, binary.LittleEndian, uint32(len(c.Data)))
		body.Write(c.Data)
		if len(c.Data)%2 == 1 {
			body.WriteByte(0)
		}
	}

	body.WriteString("data")
	binary.Write(body, binary.LittleEndian, uint32(len(pcm)))
	body.Write(pcm)

	out := new(bytes.Buffer)
	out.WriteString("RIFF")
	binary.Write(out, binary.LittleEndian, uint32(body.Len()))
	out.Write(body.Bytes())

	return out.Bytes()
}

// AIFF16 builds a big-endian 16-bit AIFF file from interleaved samples.
func AIFF16(sampleRate, channels int, samples []int16) []byte {
	pcm := new(bytes.Buffer)
	for _, s := range samples {
		binary.Write(pcm, binary.BigEndian, s)
	}
	return aiff(sampleRate, channels, 16, len(samples)/channels, pcm.Bytes())
}

// AIFF8 builds an 8-bit AIFF file. AIFF stores 8-bit samples signed.
func AIFF8(sampleRate, channels int, samples []int8) []byte {
	pcm := make([]byte, len(samples))
	for i, s := range samples {
		pcm[i] = byte(s)
	}
	return aiff(sampleRate, channels, 8, len(samples)/channels, pcm)
}

func aiff(sampleRate, channels, bitDepth, frames int, pcm []byte) []byte {
	comm := new(bytes.Buffer)
	binary.Write(comm, binary.BigEndian, int16(channels))
	binary.Write(comm, binary.BigEndian, uint32(frames))
	binary.Write(comm, binary.BigEndian, int16(bitDepth))
	comm.Write(extended80(uint64(sampleRate)))

	ssnd := new(bytes.Buffer)
	binary.Write(ssnd, binary.BigEndian, uint32(0)) // offset
	binary.Write(ssnd, binary.BigEndian, uint32(0)) // block size
	ssnd.Write(pcm)

	body := new(bytes.Buffer)
	body.WriteString("AIFF")
	body.WriteString("COMM")
	binary.Write(body, binary.BigEndian, uint32(comm.Len()))
	body.Write(comm.Bytes())
	body.WriteString("SSND")
	binary.Write(body, binary.BigEndian, uint32(ssnd.Len()))
	body.Write(ssnd.Bytes())

	out := new(bytes.Buffer)
	out.WriteString("FORM")
	binary.Write(out, binary.BigEndian, uint32(body.Len()))
	out.Write(body.Bytes())

	return out.Bytes()
}

// extended80 encodes a positive integer as an IEEE 754 80-bit extended float.
func extended80(v uint64) []byte {
	out := make([]byte, 10)
	if v == 0 {
		return out
	}

	exp := 63 - bits.LeadingZeros64(v)
	binary.BigEndian.PutUint16(out[0:2], uint16(16383+exp))
	binary.BigEndian.PutUint64(out[2:10], v<<(63-exp))

	return out
}

// Sine16 returns frames of a full-scale-times-amp sine wave, duplicated on
// every channel.
func Sine16(sampleRate, channels, frames int, frequency, amp float64) []int16 {
	out := make([]int16, frames*channels)
	for f := range frames {
		v := int16(amp * math.MaxInt16 * math.Sin(2*math.Pi*frequency*float64(f)/float64(sampleRate)))
		for c := range channels {
			out[f*channels+c] = v
		}
	}
	return out
}
