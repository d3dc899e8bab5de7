// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"path/filepath"

	"github.com/ik5/mediakit/audio"
	"github.com/ik5/mediakit/formats"
	"github.com/spf13/cobra"
)

var exportRate int

var exportCmd = &cobra.Command{
	Use:   "export <locator> <output.wav>",
	Short: "Convert a sound to a mono 16-bit WAV file",
	Long: `Decode any supported sound, resample it to --rate and mix it down to mono,
then save it as a 16-bit PCM WAV file in the download directory. No audio
device is opened.`,
	Args: cobra.ExactArgs(2),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().IntVar(&exportRate, "rate", 8000, "output sample rate in Hz")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportRate <= 0 {
		return fmt.Errorf("invalid --rate %d", exportRate)
	}

	kit, err := newKit()
	if err != nil {
		return err
	}

	data, err := kit.Fetcher().Fetch(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	src, format, err := formats.NewRegistry().DecodeBytes(args[0], data)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", args[0], err)
	}
	defer src.Close()

	buf, err := audio.ReadBuffer(src, exportRate)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", args[0], err)
	}

	if err := kit.ExportWAV(args[1], buf); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s, %d Hz) -> %s\n", args[0], format, exportRate, filepath.Join(cfg.Download.Dir, args[1]))
	return nil
}
