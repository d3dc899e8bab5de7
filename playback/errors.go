// SPDX-License-Identifier: EPL-2.0

package playback

import "errors"

var (
	// ErrNotSetup is returned by audio operations called before Setup.
	ErrNotSetup = errors.New("audio context not set up")
	// ErrNoLoop is returned by SetLoop before any looping playback started.
	ErrNoLoop = errors.New("no looping playback to control")
	// ErrClosed is returned once the manager has been disposed.
	ErrClosed = errors.New("audio manager closed")
	// ErrDecodeFailed replaces every codec error from LoadAudio.
	ErrDecodeFailed = errors.New("audio data could not be decoded")
	ErrNilBuffer    = errors.New("nil audio buffer")
	ErrNoOutput     = errors.New("no audio output configured")
	ErrLoopPolicy   = errors.New("unknown loop policy")
)
