// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1 Layer 3 audio through
// github.com/hajimehoshi/go-mp3. Output is always stereo, as go-mp3
// duplicates mono streams.
package mp3
