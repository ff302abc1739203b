package studio

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jsphweid/progstudio/logger"
	"github.com/jsphweid/progstudio/midi"
	"github.com/jsphweid/progstudio/model"
	"github.com/jsphweid/progstudio/playback"
	"github.com/jsphweid/progstudio/progression"
	"github.com/jsphweid/progstudio/theory"
)

var (
	ErrNoProgression   = errors.New("no progression generated yet")
	ErrUnknownTemplate = errors.New("unknown template")
)

// Session is one caller's workspace: the selected key and scale, the current
// progression and the scheduler that plays it. Replacing the progression
// always stops playback first.
type Session struct {
	mu        sync.Mutex
	key       theory.Key
	scale     theory.Scale
	library   theory.Library
	gen       *progression.Generator
	scheduler *playback.Scheduler
	current   model.Progression
}

func New(gen *progression.Generator, lib theory.Library, scheduler *playback.Scheduler) *Session {
	return &Session{
		scale:     theory.Major,
		library:   lib,
		gen:       gen,
		scheduler: scheduler,
	}
}

func (s *Session) Select(key theory.Key, scale theory.Scale) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.key = key
	s.scale = scale
}

func (s *Session) Selection() (theory.Key, theory.Scale) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.key, s.scale
}

func (s *Session) Library() theory.Library {
	return s.library
}

// Generate replaces the progression using a random template. An empty
// template name picks at random, otherwise the named template is used.
func (s *Session) Generate(template string) (model.Progression, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var p model.Progression
	var err error
	if template == "" {
		p, err = s.gen.Generate(s.key, s.scale, s.library)
	} else {
		t, ok := s.library.Find(template)
		if !ok {
			return model.Progression{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, template)
		}
		p, err = progression.GenerateFrom(s.key, s.scale, t)
	}
	if err != nil {
		return model.Progression{}, err
	}

	s.scheduler.Stop()
	s.current = p
	logger.Info("Generated progression", logger.Fields{
		"key":         s.key.String(),
		"scale":       s.scale.String(),
		"template":    p.Template,
		"progression": p.String(),
	})
	return p, nil
}

func (s *Session) Progression() (model.Progression, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.current.Chords != nil
}

func (s *Session) Play(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current.Chords == nil {
		return ErrNoProgression
	}
	return s.scheduler.Start(ctx, s.current)
}

func (s *Session) Stop() {
	s.scheduler.Stop()
}

// Toggle starts playback when idle and stops it when playing.
func (s *Session) Toggle(ctx context.Context) error {
	if s.scheduler.IsPlaying() {
		s.Stop()
		return nil
	}
	return s.Play(ctx)
}

func (s *Session) State() model.PlaybackState {
	return s.scheduler.State()
}

func (s *Session) Done() <-chan struct{} {
	return s.scheduler.Done()
}

func (s *Session) Export() ([]byte, error) {
	p, ok := s.Progression()
	if !ok {
		return nil, ErrNoProgression
	}
	return midi.Export(p.Chords)
}
