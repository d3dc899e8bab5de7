// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var imageCmd = &cobra.Command{
	Use:   "image <locator>",
	Short: "Decode an image and print its format and size",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kit, err := newKit()
		if err != nil {
			return err
		}

		img, err := kit.LoadImage(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		b := img.Bounds()
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s %dx%d\n", args[0], img.Format, b.Dx(), b.Dy())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(imageCmd)
}
