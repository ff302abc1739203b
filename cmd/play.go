package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/jsphweid/progstudio/model"
	"github.com/spf13/cobra"
)

var backendFlag string

func init() {
	playCmd.Flags().StringVarP(&backendFlag, "backend", "b", "", "audio backend: synth, midi or none (defaults to AUDIO_BACKEND)")
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Generates and plays a progression",
	Long:  `Generates a progression and plays it once through the audio backend. Ctrl-C stops playback.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		backend := backendFlag
		if backend == "" {
			backend = cfg.AudioBackend
		}
		trigger, closer, err := openBackend(backend)
		if err != nil {
			return err
		}
		defer closer.Close()

		out := cmd.OutOrStdout()
		var chords []string
		highlight := func(st model.PlaybackState) {
			if st.Playing && st.Index >= 0 && st.Index < len(chords) {
				fmt.Fprintf(out, "> %s\n", chords[st.Index])
			}
		}

		s, err := newStudio(trigger, highlight)
		if err != nil {
			return err
		}
		p, err := s.Generate(templateFlag)
		if err != nil {
			return err
		}
		chords = p.Symbols()
		printProgression(out, p)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := s.Play(ctx); err != nil {
			return err
		}
		<-s.Done()
		return nil
	},
}
