package progression

import (
	"fmt"

	"github.com/jsphweid/progstudio/model"
	"github.com/jsphweid/progstudio/theory"
)

// Captions are keyed by position in the progression, not by scale degree.
var insights = [...]string{
	"Tonic chord, provides a sense of resolution",
	"Builds tension, often leading back to the tonic",
	"Creates movement, often used in transitions",
	"Subdominant chord, creates anticipation",
	"Dominant chord, creates strong pull to the tonic",
	"Related to the tonic, often used for emotional effect",
	"Creates tension, typically resolves to the tonic",
}

const fallbackInsight = "Adds color and interest to the progression"

func Insight(index int) string {
	if index >= 0 && index < len(insights) {
		return insights[index]
	}
	return fallbackInsight
}

func Insights(p model.Progression) []string {
	res := make([]string, 0, len(p.Chords))
	for i := range p.Chords {
		res = append(res, Insight(i))
	}
	return res
}

// Ending describes how the last chord feels: "tension" for minor and
// diminished chords, "resolution" otherwise.
func Ending(p model.Progression) string {
	if len(p.Chords) == 0 {
		return ""
	}
	if p.Chords[len(p.Chords)-1].Quality == theory.QualityMajor {
		return "resolution"
	}
	return "tension"
}

func Summary(p model.Progression) string {
	if len(p.Chords) == 0 {
		return ""
	}
	symbols := p.Symbols()
	return fmt.Sprintf(
		"This chord progression (%s) creates a unique emotional journey. "+
			"It starts with %s, which establishes the key, and ends with %s, giving a sense of %s.",
		p.String(), symbols[0], symbols[len(symbols)-1], Ending(p))
}
