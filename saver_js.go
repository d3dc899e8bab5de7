// SPDX-License-Identifier: EPL-2.0

//go:build js && wasm

package mediakit

import (
	"github.com/ik5/mediakit/config"
	"github.com/ik5/mediakit/download"
)

func defaultSaver(config.Config) download.Saver {
	return download.DOMSaver{}
}
