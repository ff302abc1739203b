package model

import (
	"strings"

	"github.com/google/uuid"
	"github.com/jsphweid/progstudio/theory"
)

type ChordSymbol struct {
	Root    theory.Key
	Quality theory.Quality
}

func (c ChordSymbol) String() string {
	return c.Root.String() + c.Quality.Suffix()
}

// Pitch is a concrete note. Number is the MIDI note number, Name is e.g. "C4".
type Pitch struct {
	Number uint8
	Name   string
}

// VoicedChord is ordered root, third, fifth.
type VoicedChord = []Pitch

type Progression struct {
	ID       uuid.UUID
	Template string
	Key      theory.Key
	Scale    theory.Scale
	Chords   []ChordSymbol
}

func (p Progression) Symbols() []string {
	res := make([]string, 0, len(p.Chords))
	for _, c := range p.Chords {
		res = append(res, c.String())
	}
	return res
}

func (p Progression) String() string {
	return strings.Join(p.Symbols(), " - ")
}
