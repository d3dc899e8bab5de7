// SPDX-License-Identifier: EPL-2.0

package fetch

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyLocator      = errors.New("empty resource locator")
	ErrUnsupportedScheme = errors.New("unsupported locator scheme")
	ErrMalformedDataURI  = errors.New("malformed data URI")
)

// StatusError reports an HTTP response outside the 2xx range.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
}
