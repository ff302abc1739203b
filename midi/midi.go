package midi

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/jsphweid/progstudio/chord"
	"github.com/jsphweid/progstudio/constants"
	"github.com/jsphweid/progstudio/model"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const trackName = "Chord Progression"

// Track lays out one note per voiced pitch, chord by chord, in pitch order.
func Track(chords []model.ChordSymbol) model.MidiTrack {
	seconds := constants.ExportChordDuration.Seconds()
	var res model.MidiTrack
	for i, c := range chords {
		for _, p := range chord.Voice(c) {
			res = append(res, model.NoteEvent{
				Pitch:    p.Number,
				Start:    float64(i) * seconds,
				Duration: seconds,
			})
		}
	}
	return res
}

type tickEvent struct {
	tick uint32
	off  bool
	key  uint8
	seq  int
}

func secondsToTicks(s float64) uint32 {
	ticksPerSecond := float64(constants.TicksPerQuarter) * constants.DefaultTempoBPM / 60
	return uint32(s*ticksPerSecond + 0.5)
}

// Encode serializes a track as a single-track Standard MIDI File.
func Encode(track model.MidiTrack) (*smf.SMF, error) {
	var events []tickEvent
	for i, n := range track {
		start := secondsToTicks(n.Start)
		events = append(events,
			tickEvent{tick: start, key: n.Pitch, seq: i},
			tickEvent{tick: start + secondsToTicks(n.Duration), off: true, key: n.Pitch, seq: i},
		)
	}

	// note-offs go first at equal ticks so back to back chords don't cut each other
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		if events[i].off != events[j].off {
			return events[i].off
		}
		return events[i].seq < events[j].seq
	})

	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName(trackName))
	tr.Add(0, smf.MetaTempo(constants.DefaultTempoBPM))
	var last uint32
	for _, e := range events {
		delta := e.tick - last
		last = e.tick
		if e.off {
			tr.Add(delta, midi.NoteOff(0, e.key))
		} else {
			tr.Add(delta, midi.NoteOn(0, e.key, constants.DefaultVelocity))
		}
	}
	tr.Close(0)

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(constants.TicksPerQuarter)
	if err := s.Add(tr); err != nil {
		return nil, fmt.Errorf("could not add track: %w", err)
	}
	return s, nil
}

// Export renders chords into MIDI file bytes. It has no side effects and can
// be called while playback is running.
func Export(chords []model.ChordSymbol) ([]byte, error) {
	s, err := Encode(Track(chords))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("could not write midi: %w", err)
	}
	return buf.Bytes(), nil
}

func WriteFile(path string, chords []model.ChordSymbol) (int, error) {
	data, err := Export(chords)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return 0, fmt.Errorf("could not write %s: %w", path, err)
	}
	return len(data), nil
}

// Read parses a MIDI file and pairs note starts with note ends.
func Read(r io.Reader) (t model.MidiTrack, e error) {
	// smf can panic on malformed input
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if rec := recover(); rec != nil {
			e = fmt.Errorf("error parsing midi file... %v", rec)
		}
	}()

	s, err := smf.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("error parsing midi file... %w", err)
	}
	return Notes(s), nil
}

func ReadFile(path string) (model.MidiTrack, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error reading midi file... %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Notes collects note events from every track, ordered by start time and then
// by the order their note-on appeared.
func Notes(s *smf.SMF) model.MidiTrack {
	var res model.MidiTrack
	for _, events := range s.Tracks {
		var absTicks int64
		open := make(map[uint8][]int)
		for _, event := range events {
			absTicks += int64(event.Delta)
			seconds := float64(s.TimeAt(absTicks)) / 1e6

			var channel, key, velocity uint8
			msg := midi.Message(event.Message)
			switch {
			case msg.GetNoteStart(&channel, &key, &velocity):
				open[key] = append(open[key], len(res))
				res = append(res, model.NoteEvent{Pitch: key, Start: seconds})
			case msg.GetNoteEnd(&channel, &key):
				if idx := open[key]; len(idx) > 0 {
					res[idx[0]].Duration = seconds - res[idx[0]].Start
					open[key] = idx[1:]
				}
			}
		}
	}

	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Start < res[j].Start
	})
	return res
}
