package chord

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jsphweid/progstudio/model"
	"github.com/jsphweid/progstudio/theory"
)

// ReferenceOctave is where every chord root is voiced.
const ReferenceOctave = 4

var ErrInvalidSymbol = errors.New("invalid chord symbol")

// Resolve maps scale degrees onto chord symbols in the given key and scale.
// Degrees must be in 0-6.
func Resolve(key theory.Key, scale theory.Scale, degrees []int) []model.ChordSymbol {
	res := make([]model.ChordSymbol, 0, len(degrees))
	for _, d := range degrees {
		res = append(res, model.ChordSymbol{
			Root:    key.Transpose(theory.StepFor(scale, d)),
			Quality: theory.QualityFor(scale, d),
		})
	}
	return res
}

// Voice stacks the quality's intervals on the root at the reference octave.
func Voice(c model.ChordSymbol) model.VoicedChord {
	root := midiNumber(c.Root, ReferenceOctave)
	var res model.VoicedChord
	for _, interval := range c.Quality.Intervals() {
		n := uint8(root + interval)
		res = append(res, model.Pitch{Number: n, Name: PitchName(n)})
	}
	return res
}

func VoiceAll(chords []model.ChordSymbol) []model.VoicedChord {
	res := make([]model.VoicedChord, 0, len(chords))
	for _, c := range chords {
		res = append(res, Voice(c))
	}
	return res
}

// C4 is 60.
func midiNumber(k theory.Key, octave int) int {
	return (octave+1)*theory.NumKeys + int(k)
}

func PitchName(n uint8) string {
	return fmt.Sprintf("%s%d", theory.Keys[int(n)%theory.NumKeys], int(n)/theory.NumKeys-1)
}

func Numbers(v model.VoicedChord) []uint8 {
	res := make([]uint8, 0, len(v))
	for _, p := range v {
		res = append(res, p.Number)
	}
	return res
}

// ParseSymbol reads symbols like "C", "F#m" or "Bdim".
func ParseSymbol(s string) (model.ChordSymbol, error) {
	var c model.ChordSymbol
	if s == "" {
		return c, fmt.Errorf("%w: empty", ErrInvalidSymbol)
	}

	rootLen := 1
	if len(s) > 1 && s[1] == '#' {
		rootLen = 2
	}
	root, err := theory.ParseKey(s[:rootLen])
	if err != nil {
		return c, fmt.Errorf("%w: %q", ErrInvalidSymbol, s)
	}
	quality, ok := theory.ParseQuality(s[rootLen:])
	if !ok {
		return c, fmt.Errorf("%w: %q has unknown quality %q", ErrInvalidSymbol, s, s[rootLen:])
	}

	c.Root = root
	c.Quality = quality
	return c, nil
}

func ParseSymbols(symbols []string) ([]model.ChordSymbol, error) {
	res := make([]model.ChordSymbol, 0, len(symbols))
	for _, s := range symbols {
		c, err := ParseSymbol(strings.TrimSpace(s))
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, nil
}
