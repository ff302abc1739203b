package model

// NoteEvent times are in seconds from the start of the track.
type NoteEvent struct {
	Pitch    uint8
	Start    float64
	Duration float64
}

type MidiTrack = []NoteEvent
