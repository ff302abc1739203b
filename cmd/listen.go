package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/jsphweid/progstudio/logger"
	"github.com/jsphweid/progstudio/studio"
	"github.com/jsphweid/progstudio/theory"
	"github.com/jsphweid/progstudio/util"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

const pressSettle = 150 * time.Millisecond

func init() {
	listenCmd.Flags().StringVarP(&backendFlag, "backend", "b", "", "audio backend: synth, midi or none (defaults to AUDIO_BACKEND)")
	rootCmd.AddCommand(listenCmd)
}

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Generates progressions from a MIDI keyboard",
	Long: `Listens to a MIDI input port. Pressing a note or chord picks the key from the lowest note
(minor when a minor third sits above it) and plays a fresh progression.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		defer midi.CloseDriver()

		in, err := openInPort(cfg.MidiInPort)
		if err != nil {
			return fmt.Errorf("could not find midi in port %q: %w", cfg.MidiInPort, err)
		}

		backend := backendFlag
		if backend == "" {
			backend = cfg.AudioBackend
		}
		trigger, closer, err := openBackend(backend)
		if err != nil {
			return err
		}
		defer closer.Close()

		s, err := newStudio(trigger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		var mu sync.Mutex
		pressed := make(map[uint8]bool)
		debounced := debounce.New(pressSettle)

		stopListening, err := midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
			var ch, key, vel uint8
			switch {
			case msg.GetNoteStart(&ch, &key, &vel):
				mu.Lock()
				pressed[key] = true
				notes := util.SortedKeys(pressed)
				mu.Unlock()
				debounced(func() {
					regenerate(ctx, cmd, s, notes)
				})
			case msg.GetNoteEnd(&ch, &key):
				mu.Lock()
				delete(pressed, key)
				mu.Unlock()
			}
		})
		if err != nil {
			return err
		}
		defer stopListening()

		logger.Info("Listening", logger.Fields{"port": in.String()})
		<-ctx.Done()
		s.Stop()
		return nil
	},
}

func openInPort(name string) (drivers.In, error) {
	if name == "" {
		return midi.InPort(0)
	}
	if n, err := strconv.Atoi(name); err == nil {
		return midi.InPort(n)
	}
	return midi.FindInPort(name)
}

func regenerate(ctx context.Context, cmd *cobra.Command, s *studio.Session, notes []uint8) {
	if ctx.Err() != nil {
		return
	}
	key, scale, ok := selectionFromNotes(notes)
	if !ok {
		return
	}
	s.Select(key, scale)
	p, err := s.Generate(templateFlag)
	if err != nil {
		logger.Error("Could not generate progression", err, nil)
		return
	}
	printProgression(cmd.OutOrStdout(), p)
	if err := s.Play(ctx); err != nil {
		logger.Error("Could not play progression", err, nil)
	}
}

// selectionFromNotes takes sorted MIDI notes. The lowest note is the key; the
// scale is minor when a minor third above it is held without a major third.
func selectionFromNotes(notes []uint8) (theory.Key, theory.Scale, bool) {
	if len(notes) == 0 {
		return 0, 0, false
	}
	root := notes[0]
	classes := make([]int, 0, len(notes))
	for _, n := range notes[1:] {
		classes = append(classes, int(n-root)%theory.NumKeys)
	}

	scale := theory.Major
	if util.Contains(classes, 3) && !util.Contains(classes, 4) {
		scale = theory.Minor
	}
	return theory.Key(int(root) % theory.NumKeys), scale, true
}
