// SPDX-License-Identifier: EPL-2.0

// Command mediakit loads, plays, exports and downloads media from the
// command line.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
