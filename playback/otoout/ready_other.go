// SPDX-License-Identifier: EPL-2.0

//go:build !(js && wasm)

package otoout

import "github.com/sirupsen/logrus"

func waitReady(ready chan struct{}, log logrus.FieldLogger) {
	<-ready
	if log != nil {
		log.Debug("audio output ready")
	}
}
