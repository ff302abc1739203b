package playback

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jsphweid/progstudio/chord"
	"github.com/jsphweid/progstudio/constants"
	"github.com/jsphweid/progstudio/logger"
	"github.com/jsphweid/progstudio/model"
)

var (
	ErrNoBackend     = errors.New("audio backend is not initialized")
	ErrNoTransport   = errors.New("transport is not initialized")
	ErrTransportBusy = errors.New("transport already running")
	ErrBadInterval   = errors.New("tick interval must be positive")
)

// Trigger is the audio backend. It plays pitches for duration starting at the
// scheduled time.
type Trigger interface {
	Trigger(pitches []model.Pitch, duration time.Duration, at time.Time) error
}

type Listener func(model.PlaybackState)

type Option func(*Scheduler)

func WithTempo(bpm float64) Option {
	return func(s *Scheduler) {
		if bpm > 0 {
			s.tempo = bpm
		}
	}
}

// WithListener registers a callback for every state change. It runs while the
// scheduler holds its lock and must not call back into the scheduler.
func WithListener(l Listener) Option {
	return func(s *Scheduler) {
		s.listeners = append(s.listeners, l)
	}
}

type session struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Scheduler plays a progression one chord per quarter note. Only one session
// can be active at a time.
type Scheduler struct {
	trigger   Trigger
	transport Transport
	tempo     float64
	listeners []Listener

	mu      sync.Mutex
	state   model.PlaybackState
	current *session
	lastErr error
}

func New(trigger Trigger, transport Transport, opts ...Option) *Scheduler {
	s := &Scheduler{
		trigger:   trigger,
		transport: transport,
		tempo:     constants.DefaultTempoBPM,
		state:     model.IdleState(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subdivision is the length of one quarter note at the scheduler's tempo.
func (s *Scheduler) Subdivision() time.Duration {
	return time.Duration(float64(time.Minute) / s.tempo)
}

// Start begins playback. Calling it while already playing does nothing. A
// cancelled ctx is returned as an error before the transport is acquired.
func (s *Scheduler) Start(ctx context.Context, p model.Progression) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Playing {
		return nil
	}
	if s.trigger == nil {
		return ErrNoBackend
	}
	if s.transport == nil {
		return ErrNoTransport
	}
	if len(p.Chords) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	voiced := chord.VoiceAll(p.Chords)
	ticks, err := s.transport.Start(s.Subdivision())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	sess := &session{cancel: cancel, done: make(chan struct{})}
	s.current = sess
	s.lastErr = nil
	s.setState(model.PlaybackState{Playing: true, Index: -1, ProgressionID: p.ID})

	logger.Debug("Playback started", logger.Fields{
		"progression": p.String(),
		"tempo":       s.tempo,
	})
	go s.run(ctx, sess, ticks, voiced)
	return nil
}

func (s *Scheduler) run(ctx context.Context, sess *session, ticks <-chan time.Time, voiced []model.VoicedChord) {
	for i := range voiced {
		select {
		case <-ctx.Done():
			s.finish(sess, ctx.Err())
			return
		case at := <-ticks:
			if !s.tick(ctx, sess, i, voiced[i], at, i == len(voiced)-1) {
				return
			}
		}
	}
}

// tick fires chord i. It returns false once the session is over. A tick that
// races a cancelled context ends the session without sounding.
func (s *Scheduler) tick(ctx context.Context, sess *session, i int, pitches model.VoicedChord, at time.Time, last bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != sess {
		return false
	}
	if err := ctx.Err(); err != nil {
		s.release(err)
		return false
	}

	if err := s.trigger.Trigger(pitches, s.Subdivision(), at); err != nil {
		logger.Error("Could not trigger chord", err, logger.Fields{"index": i})
		s.release(err)
		return false
	}

	next := s.state
	next.Index = i
	s.setState(next)

	if last {
		logger.Debug("Playback finished", logger.Fields{"chords": i + 1})
		s.release(nil)
		return false
	}
	return true
}

// Stop halts playback. It is a no-op when idle. Once it returns no further
// ticks are triggered.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return
	}
	logger.Debug("Playback stopped", logger.Fields{"index": s.state.Index})
	s.release(nil)
}

func (s *Scheduler) finish(sess *session, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != sess {
		return
	}
	s.release(err)
}

// release tears down the live session. Callers hold s.mu.
func (s *Scheduler) release(err error) {
	sess := s.current
	s.current = nil
	s.transport.Stop()
	sess.cancel()
	close(sess.done)
	if err != nil && !errors.Is(err, context.Canceled) {
		s.lastErr = err
	}
	s.setState(model.IdleState())
}

func (s *Scheduler) setState(st model.PlaybackState) {
	s.state = st
	for _, l := range s.listeners {
		l(st)
	}
}

func (s *Scheduler) State() model.PlaybackState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Scheduler) IsPlaying() bool {
	return s.State().Playing
}

// Done is closed when the active session ends. When idle the returned channel
// is already closed.
func (s *Scheduler) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		c := make(chan struct{})
		close(c)
		return c
	}
	return s.current.done
}

// Err reports why the last session ended early, if it did.
func (s *Scheduler) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
