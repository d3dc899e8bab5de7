// SPDX-License-Identifier: EPL-2.0

//go:build js && wasm

package download

import "syscall/js"

// DOMSaver downloads through a temporary anchor element. The anchor is
// appended, clicked and removed within the same call, so nothing is left in
// the document.
type DOMSaver struct{}

func (DOMSaver) Save(filename, href string) error {
	doc := js.Global().Get("document")
	if !doc.Truthy() || !doc.Get("body").Truthy() {
		return ErrNoDocument
	}

	a := doc.Call("createElement", "a")
	a.Call("setAttribute", "href", href)
	a.Call("setAttribute", "download", filename)
	a.Get("style").Set("display", "none")

	body := doc.Get("body")
	body.Call("appendChild", a)
	a.Call("click")
	body.Call("removeChild", a)

	return nil
}
