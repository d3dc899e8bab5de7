// SPDX-License-Identifier: EPL-2.0

//go:build js && wasm

package main

import (
	"syscall/js"
)

// promise runs fn on its own goroutine and settles a JS Promise with the
// outcome. Blocking inside a js.FuncOf callback would stall the event loop.
func promise(fn func() (any, error)) js.Value {
	executor := js.FuncOf(func(_ js.Value, args []js.Value) any {
		resolve, reject := args[0], args[1]

		go func() {
			v, err := fn()
			if err != nil {
				reject.Invoke(jsError(err))
				return
			}
			resolve.Invoke(v)
		}()

		return nil
	})
	// The executor runs synchronously inside the constructor.
	defer executor.Release()

	return js.Global().Get("Promise").New(executor)
}

func jsError(err error) js.Value {
	return js.Global().Get("Error").New(err.Error())
}

// result maps a Go error to the null-or-Error convention of the sync calls.
func result(err error) any {
	if err != nil {
		return jsError(err)
	}
	return js.Null()
}

func argString(args []js.Value, i int) string {
	if i >= len(args) || args[i].Type() != js.TypeString {
		return ""
	}
	return args[i].String()
}

func argInt(args []js.Value, i int) int {
	if i >= len(args) || args[i].Type() != js.TypeNumber {
		return 0
	}
	return args[i].Int()
}

func argFloat(args []js.Value, i int, def float64) float64 {
	if i >= len(args) || args[i].Type() != js.TypeNumber {
		return def
	}
	return args[i].Float()
}
