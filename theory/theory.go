package theory

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownKey   = errors.New("unknown key")
	ErrUnknownScale = errors.New("unknown scale")
)

// Key is a pitch class, 0 (C) through 11 (B).
type Key int

const NumKeys = 12

var Keys = [NumKeys]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func (k Key) String() string {
	return Keys[k.Normalize()]
}

// Normalize folds any integer offset back into 0-11.
func (k Key) Normalize() Key {
	return ((k % NumKeys) + NumKeys) % NumKeys
}

func (k Key) Transpose(semitones int) Key {
	return (k + Key(semitones)).Normalize()
}

func ParseKey(name string) (Key, error) {
	for i, v := range Keys {
		if strings.EqualFold(v, name) {
			return Key(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKey, name)
}

type Scale int

const (
	Major Scale = iota
	Minor
)

var Scales = []Scale{Major, Minor}

func (s Scale) String() string {
	switch s {
	case Major:
		return "Major"
	case Minor:
		return "Minor"
	}
	return fmt.Sprintf("Scale(%d)", int(s))
}

func ParseScale(name string) (Scale, error) {
	for _, s := range Scales {
		if strings.EqualFold(s.String(), name) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownScale, name)
}

// Quality is the triad type of a chord.
type Quality int

const (
	QualityMajor Quality = iota
	QualityMinor
	QualityDiminished
)

// Suffix is how the quality is written after the root in a chord symbol.
func (q Quality) Suffix() string {
	switch q {
	case QualityMinor:
		return "m"
	case QualityDiminished:
		return "dim"
	}
	return ""
}

func (q Quality) Tag() string {
	switch q {
	case QualityMinor:
		return "minor"
	case QualityDiminished:
		return "diminished"
	}
	return ""
}

// Intervals returns semitone offsets from the root, ordered root, third, fifth.
func (q Quality) Intervals() []int {
	var iv [3]int
	switch q {
	case QualityMinor:
		iv = minorTriad
	case QualityDiminished:
		iv = diminishedTriad
	default:
		iv = majorTriad
	}
	return iv[:]
}

// ParseQuality accepts a chord symbol suffix.
func ParseQuality(suffix string) (Quality, bool) {
	switch suffix {
	case "":
		return QualityMajor, true
	case "m":
		return QualityMinor, true
	case "dim":
		return QualityDiminished, true
	}
	return 0, false
}

var (
	majorTriad      = [3]int{0, 4, 7}
	minorTriad      = [3]int{0, 3, 7}
	diminishedTriad = [3]int{0, 3, 6}
)

const NumDegrees = 7

// QualityFor is the chord quality built on a scale degree.
func QualityFor(s Scale, degree int) Quality {
	return qualityTable[s][degree]
}

// StepFor is the semitone distance of a scale degree from the tonic.
func StepFor(s Scale, degree int) int {
	return stepTable[s][degree]
}

var qualityTable = map[Scale][NumDegrees]Quality{
	Major: {QualityMajor, QualityMinor, QualityMinor, QualityMajor, QualityMajor, QualityMinor, QualityDiminished},
	Minor: {QualityMinor, QualityDiminished, QualityMajor, QualityMinor, QualityMinor, QualityMajor, QualityMajor},
}

// natural minor
var stepTable = map[Scale][NumDegrees]int{
	Major: {0, 2, 4, 5, 7, 9, 11},
	Minor: {0, 2, 3, 5, 7, 8, 10},
}
