// SPDX-License-Identifier: EPL-2.0

package aiff

import "errors"

var (
	// ErrNotAiffFile indicates the input has no FORM/AIFF header
	ErrNotAiffFile = errors.New("not an AIFF file")

	// ErrUnsupportedBitDepth indicates a sample size other than 8, 16, 24 or 32 bits
	ErrUnsupportedBitDepth = errors.New("unsupported AIFF bit depth")

	// ErrUnsupportedAiffLayout indicates a missing or unreadable COMM chunk
	ErrUnsupportedAiffLayout = errors.New("unsupported AIFF layout")
)
