package chord

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jsphweid/progstudio/model"
	"github.com/jsphweid/progstudio/theory"
	"github.com/stretchr/testify/assert"
)

func names(v model.VoicedChord) []string {
	var res []string
	for _, p := range v {
		res = append(res, p.Name)
	}
	return res
}

func TestResolveAllKeysScalesDegrees(t *testing.T) {
	for k := theory.Key(0); k < theory.NumKeys; k++ {
		for _, s := range theory.Scales {
			for d := 0; d < theory.NumDegrees; d++ {
				name := fmt.Sprintf("%v %v degree %d", k, s, d)
				t.Run(name, func(t *testing.T) {
					res := Resolve(k, s, []int{d})
					assert.Len(t, res, 1)
					assert.Equal(t, (int(k)+theory.StepFor(s, d))%12, int(res[0].Root))
					assert.Equal(t, theory.QualityFor(s, d), res[0].Quality)
				})
			}
		}
	}
}

func TestResolveIPopProgressionInC(t *testing.T) {
	res := Resolve(0, theory.Major, []int{0, 4, 5, 3})
	p := model.Progression{Chords: res}
	assert.Equal(t, []string{"C", "G", "Am", "F"}, p.Symbols())
}

func TestResolveMinorKey(t *testing.T) {
	a, _ := theory.ParseKey("A")
	p := model.Progression{Chords: Resolve(a, theory.Minor, []int{0, 1, 2, 3, 4, 5, 6})}
	assert.Equal(t, []string{"Am", "Bdim", "C", "Dm", "Em", "F", "G"}, p.Symbols())
}

func TestResolveIsDeterministic(t *testing.T) {
	degrees := []int{5, 3, 0, 4}
	assert.Equal(t, Resolve(7, theory.Minor, degrees), Resolve(7, theory.Minor, degrees))
}

func TestVoice(t *testing.T) {
	cases := []struct {
		symbol   string
		expected []string
		numbers  []uint8
	}{
		{"C", []string{"C4", "E4", "G4"}, []uint8{60, 64, 67}},
		{"Am", []string{"A4", "C5", "E5"}, []uint8{69, 72, 76}},
		{"Bdim", []string{"B4", "D5", "F5"}, []uint8{71, 74, 77}},
		{"F#", []string{"F#4", "A#4", "C#5"}, []uint8{66, 70, 73}},
	}

	for _, c := range cases {
		t.Run(c.symbol, func(t *testing.T) {
			sym, err := ParseSymbol(c.symbol)
			assert.NoError(t, err)
			v := Voice(sym)
			assert.Equal(t, c.expected, names(v))
			assert.Equal(t, c.numbers, Numbers(v))
		})
	}
}

func TestParseSymbol(t *testing.T) {
	assert := assert.New(t)

	c, err := ParseSymbol("G#dim")
	assert.NoError(err)
	assert.Equal(model.ChordSymbol{Root: 8, Quality: theory.QualityDiminished}, c)
	assert.Equal("G#dim", c.String())

	for _, bad := range []string{"", "H", "Cmaj7", "Db"} {
		_, err := ParseSymbol(bad)
		assert.True(errors.Is(err, ErrInvalidSymbol), bad)
	}
}

func TestParseSymbols(t *testing.T) {
	res, err := ParseSymbols([]string{"C", " Am "})
	assert.NoError(t, err)
	assert.Equal(t, []string{"C", "Am"}, model.Progression{Chords: res}.Symbols())

	_, err = ParseSymbols([]string{"C", "X"})
	assert.Error(t, err)
}
