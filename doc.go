// SPDX-License-Identifier: EPL-2.0

// Package mediakit loads images, triggers file downloads and plays decoded
// audio, for browser (js/wasm) and native programs alike.
//
// # Quick Start
//
//	cfg, _ := config.Load("")
//	kit, err := mediakit.New(cfg)
//	if err != nil {
//	    return err
//	}
//	defer kit.Close()
//
//	img, err := kit.LoadImage(ctx, "sprites/ball.png")
//
//	if err := kit.Setup(); err != nil { // after a user gesture in a browser
//	    return err
//	}
//	bell, err := kit.LoadAudio(ctx, "sounds/bell1.wav")
//	kit.PlayAudio(bell, 1.0, 0.8)
//
//	ball, _ := kit.LoadAudio(ctx, "sounds/ball.ogg")
//	kit.PlayLoop(ball, 1.0, 0.0)
//	kit.SetLoop(speed/10, 0.8+speed/20) // every frame
//
//	kit.Download("score.txt", "42")
//
// # Packages
//
// The Kit is a thin facade. The pieces can be used on their own:
//   - fetch: data:, file, relative and http(s) locators into bytes
//   - imageload: PNG, JPEG, GIF, BMP, TIFF and WebP decoding
//   - download: data URIs handed to a directory or a DOM anchor
//   - playback: the audio context, one-shot voices and the controllable loop
//   - audio: sources, resampling, gain and PCM conversion
//   - formats: WAV, MP3, Ogg Vorbis and AIFF decoders
//   - config: file, .env and environment settings
//
// # Errors
//
// Fetch failures are returned wrapped so errors.Is reaches the transport
// error. Audio that cannot be decoded is always playback.ErrDecodeFailed.
// Audio calls before Setup return playback.ErrNotSetup, and SetLoop before
// PlayLoop returns playback.ErrNoLoop.
package mediakit
