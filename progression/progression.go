package progression

import (
	"errors"
	"math/rand"

	"github.com/google/uuid"
	"github.com/jsphweid/progstudio/chord"
	"github.com/jsphweid/progstudio/model"
	"github.com/jsphweid/progstudio/theory"
)

var ErrEmptyLibrary = errors.New("template library is empty")

// Generator picks templates with an injected random source so that output can
// be reproduced from a seed. It is not safe for concurrent use.
type Generator struct {
	rnd *rand.Rand
}

func New(src rand.Source) *Generator {
	return &Generator{rnd: rand.New(src)}
}

func NewSeeded(seed int64) *Generator {
	return New(rand.NewSource(seed))
}

// Generate selects a template uniformly at random from lib and resolves it.
func (g *Generator) Generate(key theory.Key, scale theory.Scale, lib theory.Library) (model.Progression, error) {
	if len(lib) == 0 {
		return model.Progression{}, ErrEmptyLibrary
	}
	t := lib[g.rnd.Intn(len(lib))]
	return GenerateFrom(key, scale, t)
}

func GenerateFrom(key theory.Key, scale theory.Scale, t theory.Template) (model.Progression, error) {
	if err := t.Validate(); err != nil {
		return model.Progression{}, err
	}
	return model.Progression{
		ID:       uuid.New(),
		Template: t.Name,
		Key:      key,
		Scale:    scale,
		Chords:   chord.Resolve(key, scale, Normalize(t.Degrees)),
	}, nil
}

// Normalize makes sure the progression opens on the tonic. The input slice is
// never modified.
func Normalize(degrees []int) []int {
	if len(degrees) > 0 && degrees[0] == 0 {
		res := make([]int, len(degrees))
		copy(res, degrees)
		return res
	}
	return append([]int{0}, degrees...)
}
