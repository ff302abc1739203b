package audio

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/jsphweid/progstudio/constants"
	"github.com/jsphweid/progstudio/logger"
	"github.com/jsphweid/progstudio/model"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// MIDIOut plays chords on an external MIDI device or soft synth.
type MIDIOut struct {
	send     func(msg midi.Message) error
	channel  uint8
	velocity uint8

	mu       sync.Mutex
	timers   map[*time.Timer]struct{}
	sounding map[uint8]int
	closed   bool
}

// OpenOutPort resolves a port by number or by name. An empty name picks the
// first port. A driver must have been registered by the caller.
func OpenOutPort(name string) (drivers.Out, error) {
	if name == "" {
		return midi.OutPort(0)
	}
	if n, err := strconv.Atoi(name); err == nil {
		return midi.OutPort(n)
	}
	return midi.FindOutPort(name)
}

func NewMIDIOut(out drivers.Out) (*MIDIOut, error) {
	send, err := midi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("could not open midi out %v: %w", out, err)
	}
	return newMIDIOut(send), nil
}

func newMIDIOut(send func(msg midi.Message) error) *MIDIOut {
	return &MIDIOut{
		send:     send,
		velocity: constants.DefaultVelocity,
		timers:   make(map[*time.Timer]struct{}),
		sounding: make(map[uint8]int),
	}
}

func (m *MIDIOut) Trigger(pitches []model.Pitch, duration time.Duration, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return fmt.Errorf("midi out is closed")
	}

	keys := make([]uint8, 0, len(pitches))
	for _, p := range pitches {
		keys = append(keys, p.Number)
	}

	delay := time.Until(at)
	if delay <= 0 {
		if err := m.noteOn(keys); err != nil {
			return err
		}
	} else {
		m.after(delay, func() error { return m.noteOn(keys) })
	}
	m.after(delay+duration, func() error { return m.noteOff(keys) })
	return nil
}

// after runs fn on its own goroutine, holding the lock.
func (m *MIDIOut) after(d time.Duration, fn func() error) {
	var t *time.Timer
	t = time.AfterFunc(d, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.timers[t]; !ok {
			return
		}
		delete(m.timers, t)
		if err := fn(); err != nil {
			logger.Error("Could not send midi message", err, nil)
		}
	})
	m.timers[t] = struct{}{}
}

func (m *MIDIOut) noteOn(keys []uint8) error {
	for _, k := range keys {
		if err := m.send(midi.NoteOn(m.channel, k, m.velocity)); err != nil {
			return err
		}
		m.sounding[k]++
	}
	return nil
}

func (m *MIDIOut) noteOff(keys []uint8) error {
	for _, k := range keys {
		if m.sounding[k] == 0 {
			continue
		}
		if err := m.send(midi.NoteOff(m.channel, k)); err != nil {
			return err
		}
		if m.sounding[k]--; m.sounding[k] == 0 {
			delete(m.sounding, k)
		}
	}
	return nil
}

// Close cancels pending notes and silences anything still sounding.
func (m *MIDIOut) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	for t := range m.timers {
		t.Stop()
		delete(m.timers, t)
	}
	var firstErr error
	for k := range m.sounding {
		if err := m.send(midi.NoteOff(m.channel, k)); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(m.sounding, k)
	}
	return firstErr
}
