package cmd

import (
	"context"
	"testing"

	"github.com/jsphweid/progstudio/audio"
	"github.com/jsphweid/progstudio/theory"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestSelectionFromNotes(t *testing.T) {
	cases := []struct {
		name  string
		notes []uint8
		key   string
		scale theory.Scale
	}{
		{"single note", []uint8{62}, "D", theory.Major},
		{"major triad", []uint8{60, 64, 67}, "C", theory.Major},
		{"minor triad", []uint8{57, 60, 64}, "A", theory.Minor},
		{"minor third an octave up", []uint8{52, 67}, "E", theory.Minor},
		{"both thirds", []uint8{60, 63, 64}, "C", theory.Major},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			key, scale, ok := selectionFromNotes(c.notes)
			assert.True(t, ok)
			assert.Equal(t, c.key, key.String())
			assert.Equal(t, c.scale, scale)
		})
	}

	_, _, ok := selectionFromNotes(nil)
	assert.False(t, ok)
}

func TestRegenerateAfterShutdownIsIgnored(t *testing.T) {
	trigger := &audio.Recorder{}
	_, s := newTestRouter(trigger, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	regenerate(ctx, &cobra.Command{}, s, []uint8{57, 60, 64})

	_, ok := s.Progression()
	assert.False(t, ok)
	assert.False(t, s.State().Playing)
	assert.Empty(t, trigger.Hits())
}
