// SPDX-License-Identifier: EPL-2.0

package download

import "errors"

var (
	ErrInvalidFilename = errors.New("invalid download filename")
	ErrNoDocument      = errors.New("no document to attach the download link to")
)
