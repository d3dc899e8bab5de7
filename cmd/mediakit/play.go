// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
)

var playFlags struct {
	rate float64
	gain float64
	loop bool
	dur  time.Duration
}

var playCmd = &cobra.Command{
	Use:   "play <locator>",
	Short: "Decode a sound and play it",
	Long: `Decode a WAV, MP3, Ogg Vorbis or AIFF resource and play it through the default
audio device. With --loop the sound repeats until --for elapses or the
command is interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().Float64Var(&playFlags.rate, "rate", 1, "playback rate multiplier")
	playCmd.Flags().Float64Var(&playFlags.gain, "gain", 1, "linear gain")
	playCmd.Flags().BoolVar(&playFlags.loop, "loop", false, "loop the sound")
	playCmd.Flags().DurationVar(&playFlags.dur, "for", 0, "stop after this long (default: sound length, or forever with --loop)")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	kit, err := newKit()
	if err != nil {
		return err
	}
	defer kit.Close()

	if err := kit.Setup(); err != nil {
		return err
	}

	buf, err := kit.LoadAudio(ctx, args[0])
	if err != nil {
		return fmt.Errorf("loading %s: %w", args[0], err)
	}

	wait := playFlags.dur
	if playFlags.loop {
		if _, err := kit.PlayLoop(buf, playFlags.rate, playFlags.gain); err != nil {
			return err
		}
	} else {
		if err := kit.PlayAudio(buf, playFlags.rate, playFlags.gain); err != nil {
			return err
		}
		if wait == 0 && playFlags.rate > 0 {
			wait = time.Duration(float64(buf.Duration()) / playFlags.rate)
			// let the device buffer drain
			wait += cfg.Audio.BufferSize * 2
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "playing %s (%s, %d ch)\n", args[0], buf.Duration().Round(time.Millisecond), buf.Channels())

	if wait == 0 {
		<-ctx.Done()
		return nil
	}

	select {
	case <-ctx.Done():
	case <-time.After(wait):
	}

	return nil
}
