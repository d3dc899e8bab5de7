// SPDX-License-Identifier: EPL-2.0

package imageload

import "errors"

var ErrImageDecode = errors.New("image decode failed")
