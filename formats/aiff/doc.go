// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF and uncompressed AIFC files through
// github.com/go-audio/aiff.
package aiff
