package audio

import (
	"encoding/binary"
	"math"
	"sync"
	"time"

	"github.com/jsphweid/progstudio/model"
)

const (
	attack    = 5 * time.Millisecond
	release   = 60 * time.Millisecond
	voiceGain = 0.15
)

type voice struct {
	freq  float64
	start int64
	end   int64
}

// Mixer renders sine voices as mono float32 little-endian samples. It
// implements io.Reader for oto.
type Mixer struct {
	sampleRate int

	mu     sync.Mutex
	clock  int64
	voices []voice
}

func NewMixer(sampleRate int) *Mixer {
	return &Mixer{sampleRate: sampleRate}
}

func Frequency(midiNumber uint8) float64 {
	return 440 * math.Pow(2, (float64(midiNumber)-69)/12)
}

func (m *Mixer) samples(d time.Duration) int64 {
	return int64(d.Seconds() * float64(m.sampleRate))
}

// Add schedules pitches relative to the samples already rendered.
func (m *Mixer) Add(pitches []model.Pitch, duration time.Duration, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	start := m.clock
	if delay := time.Until(at); delay > 0 {
		start += m.samples(delay)
	}
	end := start + m.samples(duration)
	for _, p := range pitches {
		m.voices = append(m.voices, voice{freq: Frequency(p.Number), start: start, end: end})
	}
}

func (m *Mixer) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.voices)
}

func (m *Mixer) envelope(v voice, n int64) float64 {
	if n < v.start {
		return 0
	}
	a := m.samples(attack)
	r := m.samples(release)
	switch {
	case n < v.start+a:
		return float64(n-v.start) / float64(a)
	case n < v.end:
		return 1
	case n < v.end+r:
		return 1 - float64(n-v.end)/float64(r)
	}
	return 0
}

func (m *Mixer) Read(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(p) / 4
	for i := 0; i < n; i++ {
		t := m.clock + int64(i)
		var sample float64
		for _, v := range m.voices {
			if env := m.envelope(v, t); env > 0 {
				phase := 2 * math.Pi * v.freq * float64(t-v.start) / float64(m.sampleRate)
				sample += voiceGain * env * math.Sin(phase)
			}
		}
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(float32(sample)))
	}
	m.clock += int64(n)

	tail := m.samples(release)
	live := m.voices[:0]
	for _, v := range m.voices {
		if v.end+tail > m.clock {
			live = append(live, v)
		}
	}
	m.voices = live
	return n * 4, nil
}
