package theory

import (
	"fmt"
	"strings"
)

// Template is a named sequence of scale degrees (0-6).
type Template struct {
	Name    string
	Degrees []int
}

func (t Template) Validate() error {
	if len(t.Degrees) == 0 {
		return fmt.Errorf("template %q has no degrees", t.Name)
	}
	for _, d := range t.Degrees {
		if d < 0 || d >= NumDegrees {
			return fmt.Errorf("template %q: degree %d out of range 0-%d", t.Name, d, NumDegrees-1)
		}
	}
	return nil
}

type Library []Template

func (l Library) Find(name string) (Template, bool) {
	for _, t := range l {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return Template{}, false
}

func (l Library) Names() []string {
	names := make([]string, 0, len(l))
	for _, t := range l {
		names = append(names, t.Name)
	}
	return names
}

// Builtin returns a fresh copy of the bundled templates so callers can't
// mutate the shared table.
func Builtin() Library {
	res := make(Library, 0, len(builtin))
	for _, t := range builtin {
		degrees := make([]int, len(t.Degrees))
		copy(degrees, t.Degrees)
		res = append(res, Template{Name: t.Name, Degrees: degrees})
	}
	return res
}

var builtin = []Template{
	{Name: "I-V-vi-IV", Degrees: []int{0, 4, 5, 3}},
	{Name: "I-vi-IV-V", Degrees: []int{0, 5, 3, 4}},
	{Name: "vi-IV-I-V", Degrees: []int{5, 3, 0, 4}},
	{Name: "ii-V-I", Degrees: []int{1, 4, 0}},
	{Name: "I-IV-V-I", Degrees: []int{0, 3, 4, 0}},
	{Name: "vi-ii-V-I", Degrees: []int{5, 1, 4, 0}},
}
