// SPDX-License-Identifier: EPL-2.0

//go:build js && wasm

package otoout

import "github.com/sirupsen/logrus"

// Web Audio only becomes ready after a user gesture; blocking here would
// deadlock the page.
func waitReady(ready chan struct{}, log logrus.FieldLogger) {
	if log == nil {
		return
	}
	go func() {
		<-ready
		log.Info("audio output unlocked")
	}()
}
