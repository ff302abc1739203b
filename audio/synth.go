package audio

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/jsphweid/progstudio/model"
)

// Synth plays chords on the default sound device. oto allows one context per
// process, so create a single Synth and share it.
type Synth struct {
	ctx   *oto.Context
	mixer *Mixer

	mu     sync.Mutex
	player io.Closer
}

var ErrSynthClosed = errors.New("synth is closed")

func NewSynth(sampleRate int) (*Synth, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("could not open audio device: %w", err)
	}
	<-ready

	mixer := NewMixer(sampleRate)
	player := ctx.NewPlayer(mixer)
	player.Play()

	return &Synth{ctx: ctx, player: player, mixer: mixer}, nil
}

func (s *Synth) Trigger(pitches []model.Pitch, duration time.Duration, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player == nil {
		return ErrSynthClosed
	}
	s.mixer.Add(pitches, duration, at)
	return nil
}

func (s *Synth) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player == nil {
		return nil
	}
	err := s.player.Close()
	s.player = nil
	return err
}
