// SPDX-License-Identifier: EPL-2.0

// Package wav decodes RIFF/WAVE files through github.com/go-audio/wav and
// writes canonical 16-bit PCM files.
//
// Integer PCM at 8, 16, 24 and 32 bits is decoded, including
// WAVE_FORMAT_EXTENSIBLE headers and files with extra chunks (LIST, fact,
// junk) before the data chunk. Float and compressed formats are rejected
// with ErrOnlyPCMSupported.
//
//	src, err := wav.Decoder{}.Decode(bytes.NewReader(data))
//	if err != nil {
//	    return err
//	}
//	buf, err := audio.ReadBuffer(src, 44100)
package wav
