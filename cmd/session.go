package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jsphweid/progstudio/audio"
	"github.com/jsphweid/progstudio/db"
	"github.com/jsphweid/progstudio/logger"
	"github.com/jsphweid/progstudio/model"
	"github.com/jsphweid/progstudio/playback"
	"github.com/jsphweid/progstudio/progression"
	"github.com/jsphweid/progstudio/studio"
	"github.com/jsphweid/progstudio/theory"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
)

func selection() (theory.Key, theory.Scale, error) {
	key, err := theory.ParseKey(keyFlag)
	if err != nil {
		return 0, 0, err
	}
	scale, err := theory.ParseScale(scaleFlag)
	if err != nil {
		return 0, 0, err
	}
	return key, scale, nil
}

func generator() *progression.Generator {
	seed := seedFlag
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return progression.NewSeeded(seed)
}

// openBackend returns the configured audio backend. "none" logs chords
// instead of playing them.
func openBackend(name string) (playback.Trigger, io.Closer, error) {
	switch strings.ToLower(name) {
	case "synth":
		s, err := audio.NewSynth(cfg.SampleRate)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case "midi":
		port, err := audio.OpenOutPort(cfg.MidiOutPort)
		if err != nil {
			return nil, nil, fmt.Errorf("could not find midi out port %q: %w", cfg.MidiOutPort, err)
		}
		out, err := audio.NewMIDIOut(port)
		if err != nil {
			return nil, nil, err
		}
		return out, out, nil
	case "none", "":
		r := &audio.Recorder{Verbose: true}
		return r, r, nil
	}
	return nil, nil, fmt.Errorf("unknown audio backend %q", name)
}

func logState(st model.PlaybackState) {
	logger.Debug("Playback state", logger.Fields{"playing": st.Playing, "index": st.Index})
}

// newStudio wires a session around trigger. A nil trigger gives a session
// that can generate and export but not play.
func newStudio(trigger playback.Trigger, listeners ...playback.Listener) (*studio.Session, error) {
	lib, err := db.LoadLibrary(cfg)
	if err != nil {
		return nil, err
	}

	opts := []playback.Option{playback.WithTempo(cfg.TempoBPM), playback.WithListener(logState)}
	for _, l := range listeners {
		opts = append(opts, playback.WithListener(l))
	}
	scheduler := playback.New(trigger, playback.NewTickerTransport(), opts...)

	s := studio.New(generator(), lib, scheduler)
	key, scale, err := selection()
	if err != nil {
		return nil, err
	}
	s.Select(key, scale)
	return s, nil
}

func printProgression(w io.Writer, p model.Progression) {
	fmt.Fprintf(w, "%s %s (%s)\n", p.Key, p.Scale, p.Template)
	for i, c := range p.Chords {
		fmt.Fprintf(w, "  %d. %-5s %s\n", i+1, c.String(), progression.Insight(i))
	}
	fmt.Fprintln(w, progression.Summary(p))
}
