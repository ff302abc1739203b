package playback

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jsphweid/progstudio/chord"
	"github.com/jsphweid/progstudio/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type triggerCall struct {
	pitches  []uint8
	duration time.Duration
	at       time.Time
}

type recordingTrigger struct {
	mu    sync.Mutex
	calls []triggerCall
	err   error
}

func (r *recordingTrigger) Trigger(pitches []model.Pitch, duration time.Duration, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.calls = append(r.calls, triggerCall{pitches: chord.Numbers(pitches), duration: duration, at: at})
	return nil
}

func (r *recordingTrigger) Calls() []triggerCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]triggerCall(nil), r.calls...)
}

// manualTransport hands ticks to the scheduler only when the test sends them.
type manualTransport struct {
	mu       sync.Mutex
	c        chan time.Time
	interval time.Duration
	started  int
	stopped  int
	err      error
}

func (m *manualTransport) Start(interval time.Duration) (<-chan time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.started++
	m.interval = interval
	m.c = make(chan time.Time)
	return m.c, nil
}

func (m *manualTransport) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped++
}

func (m *manualTransport) ticks() chan time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.c
}

func (m *manualTransport) counts() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started, m.stopped
}

type stateLog struct {
	mu     sync.Mutex
	states []model.PlaybackState
}

func (l *stateLog) listen(st model.PlaybackState) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.states = append(l.states, st)
}

func (l *stateLog) indexes() []int {
	l.mu.Lock()
	defer l.mu.Unlock()
	var res []int
	for _, st := range l.states {
		res = append(res, st.Index)
	}
	return res
}

func progression(t *testing.T, symbols ...string) model.Progression {
	chords, err := chord.ParseSymbols(symbols)
	require.NoError(t, err)
	return model.Progression{Chords: chords}
}

func waitDone(t *testing.T, s *Scheduler) {
	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("playback did not finish")
	}
}

func TestPlaysEveryChordInOrderThenStops(t *testing.T) {
	trigger := &recordingTrigger{}
	transport := &manualTransport{}
	log := &stateLog{}
	s := New(trigger, transport, WithListener(log.listen))

	p := progression(t, "C", "G", "Am", "F")
	require.NoError(t, s.Start(context.Background(), p))
	assert.True(t, s.IsPlaying())
	assert.Equal(t, 500*time.Millisecond, transport.interval)

	start := time.Now()
	for i := range p.Chords {
		transport.ticks() <- start.Add(time.Duration(i) * transport.interval)
	}
	waitDone(t, s)

	assert.Equal(t, model.IdleState(), s.State())
	assert.Equal(t, []int{-1, 0, 1, 2, 3, -1}, log.indexes())

	calls := trigger.Calls()
	require.Len(t, calls, 4)
	assert.Equal(t, []uint8{60, 64, 67}, calls[0].pitches)
	assert.Equal(t, []uint8{67, 71, 74}, calls[1].pitches)
	assert.Equal(t, []uint8{69, 72, 76}, calls[2].pitches)
	assert.Equal(t, []uint8{65, 69, 72}, calls[3].pitches)
	for i, c := range calls {
		assert.Equal(t, 500*time.Millisecond, c.duration)
		assert.Equal(t, start.Add(time.Duration(i)*500*time.Millisecond), c.at)
	}

	started, stopped := transport.counts()
	assert.Equal(t, 1, started)
	assert.Equal(t, 1, stopped)
	assert.NoError(t, s.Err())
}

func TestStartWhilePlayingIsIgnored(t *testing.T) {
	transport := &manualTransport{}
	s := New(&recordingTrigger{}, transport)

	p := progression(t, "C", "F")
	require.NoError(t, s.Start(context.Background(), p))
	require.NoError(t, s.Start(context.Background(), progression(t, "Dm")))

	started, _ := transport.counts()
	assert.Equal(t, 1, started)
	s.Stop()
}

func TestStopIsIdempotentAndSilencesTicks(t *testing.T) {
	trigger := &recordingTrigger{}
	transport := &manualTransport{}
	s := New(trigger, transport)

	s.Stop()
	assert.Equal(t, model.IdleState(), s.State())

	require.NoError(t, s.Start(context.Background(), progression(t, "C", "G", "Am")))
	ticks := transport.ticks()
	ticks <- time.Now()
	require.Eventually(t, func() bool { return len(trigger.Calls()) == 1 }, time.Second, time.Millisecond)

	s.Stop()
	s.Stop()
	assert.Equal(t, model.IdleState(), s.State())
	waitDone(t, s)

	select {
	case ticks <- time.Now():
	case <-time.After(50 * time.Millisecond):
	}
	assert.Len(t, trigger.Calls(), 1)

	_, stopped := transport.counts()
	assert.Equal(t, 1, stopped)
}

func TestRestartAfterStop(t *testing.T) {
	trigger := &recordingTrigger{}
	transport := &manualTransport{}
	s := New(trigger, transport)

	require.NoError(t, s.Start(context.Background(), progression(t, "C", "G")))
	s.Stop()
	require.NoError(t, s.Start(context.Background(), progression(t, "Em")))
	transport.ticks() <- time.Now()
	waitDone(t, s)

	calls := trigger.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, []uint8{64, 67, 71}, calls[0].pitches)
}

func TestContextCancelReleasesTransport(t *testing.T) {
	transport := &manualTransport{}
	s := New(&recordingTrigger{}, transport)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx, progression(t, "C", "G")))
	cancel()
	waitDone(t, s)

	assert.Equal(t, model.IdleState(), s.State())
	_, stopped := transport.counts()
	assert.Equal(t, 1, stopped)
	assert.NoError(t, s.Err())
}

func TestCancelledContextNeverTriggers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for i := 0; i < 50; i++ {
		trigger := &recordingTrigger{}
		s := New(trigger, NewTickerTransport(), WithTempo(6000))

		err := s.Start(ctx, progression(t, "C", "G"))
		assert.ErrorIs(t, err, context.Canceled)
		waitDone(t, s)

		assert.Empty(t, trigger.Calls())
		assert.Equal(t, model.IdleState(), s.State())
	}
}

func TestCancelBeforeFirstTickSkipsTrigger(t *testing.T) {
	trigger := &recordingTrigger{}
	transport := &manualTransport{}
	s := New(trigger, transport)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx, progression(t, "C", "G")))
	cancel()
	// The tick may race ctx.Done; either way nothing sounds.
	select {
	case transport.ticks() <- time.Now():
	case <-s.Done():
	}
	waitDone(t, s)

	assert.Empty(t, trigger.Calls())
	assert.Equal(t, model.IdleState(), s.State())
}

func TestStartPreconditions(t *testing.T) {
	p := progression(t, "C")

	err := New(nil, &manualTransport{}).Start(context.Background(), p)
	assert.ErrorIs(t, err, ErrNoBackend)

	err = New(&recordingTrigger{}, nil).Start(context.Background(), p)
	assert.ErrorIs(t, err, ErrNoTransport)

	broken := errors.New("no audio context")
	s := New(&recordingTrigger{}, &manualTransport{err: broken})
	assert.ErrorIs(t, s.Start(context.Background(), p), broken)
	assert.False(t, s.IsPlaying())
}

func TestEmptyProgressionDoesNotPlay(t *testing.T) {
	transport := &manualTransport{}
	s := New(&recordingTrigger{}, transport)
	require.NoError(t, s.Start(context.Background(), model.Progression{}))

	assert.False(t, s.IsPlaying())
	started, _ := transport.counts()
	assert.Equal(t, 0, started)
}

func TestTriggerFailureEndsPlayback(t *testing.T) {
	broken := errors.New("device unplugged")
	transport := &manualTransport{}
	s := New(&recordingTrigger{err: broken}, transport)

	require.NoError(t, s.Start(context.Background(), progression(t, "C", "G")))
	transport.ticks() <- time.Now()
	waitDone(t, s)

	assert.Equal(t, model.IdleState(), s.State())
	assert.ErrorIs(t, s.Err(), broken)
}

func TestTempoSetsSubdivision(t *testing.T) {
	assert.Equal(t, 500*time.Millisecond, New(nil, nil).Subdivision())
	assert.Equal(t, 250*time.Millisecond, New(nil, nil, WithTempo(240)).Subdivision())
	assert.Equal(t, 500*time.Millisecond, New(nil, nil, WithTempo(0)).Subdivision())
}

func TestTickerTransportDrivesPlayback(t *testing.T) {
	trigger := &recordingTrigger{}
	s := New(trigger, NewTickerTransport(), WithTempo(6000))

	require.NoError(t, s.Start(context.Background(), progression(t, "C", "Dm", "Em")))
	waitDone(t, s)

	calls := trigger.Calls()
	require.Len(t, calls, 3)
	assert.False(t, calls[1].at.Before(calls[0].at))
	assert.False(t, calls[2].at.Before(calls[1].at))
}

func TestTickerTransportRejectsDoubleStart(t *testing.T) {
	tr := NewTickerTransport()
	_, err := tr.Start(time.Millisecond)
	require.NoError(t, err)
	_, err = tr.Start(time.Millisecond)
	assert.ErrorIs(t, err, ErrTransportBusy)
	tr.Stop()
	tr.Stop()

	_, err = tr.Start(0)
	assert.ErrorIs(t, err, ErrBadInterval)
}
