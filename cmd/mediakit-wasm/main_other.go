// SPDX-License-Identifier: EPL-2.0

//go:build !(js && wasm)

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "mediakit-wasm must be built with GOOS=js GOARCH=wasm")
	os.Exit(2)
}
