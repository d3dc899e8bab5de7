// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var downloadCmd = &cobra.Command{
	Use:   "download <filename> <text>",
	Short: "Save text as a file in the download directory",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kit, err := newKit()
		if err != nil {
			return err
		}

		if err := kit.SaveText(args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(cfg.Download.Dir, args[0]))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(downloadCmd)
}
