package audio

import (
	"strings"
	"sync"
	"time"

	"github.com/jsphweid/progstudio/logger"
	"github.com/jsphweid/progstudio/model"
)

type Hit struct {
	Pitches  []model.Pitch
	Duration time.Duration
	At       time.Time
}

// Recorder keeps every trigger instead of making sound. With Verbose set each
// hit is logged, which is what the CLI's dry-run uses.
type Recorder struct {
	Verbose bool

	mu   sync.Mutex
	hits []Hit
}

func (r *Recorder) Trigger(pitches []model.Pitch, duration time.Duration, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hits = append(r.hits, Hit{Pitches: pitches, Duration: duration, At: at})
	if r.Verbose {
		logger.Info("Chord", logger.Fields{"pitches": pitchNames(pitches), "duration": duration.String()})
	}
	return nil
}

func (r *Recorder) Hits() []Hit {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Hit(nil), r.hits...)
}

func (r *Recorder) Close() error {
	return nil
}

func pitchNames(pitches []model.Pitch) string {
	names := make([]string, 0, len(pitches))
	for _, p := range pitches {
		names = append(names, p.Name)
	}
	return strings.Join(names, " ")
}
