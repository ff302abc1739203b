package constants

import "time"

const ExportFilename = "chord-progression.mid"

const MidiContentType = "audio/midi"

// Exported files use wall-clock time, one second per chord.
const ExportChordDuration = time.Second

const DefaultTempoBPM = 120.0

// 480 pulses per quarter note; at 120 BPM that is 960 ticks per second.
const TicksPerQuarter = 480

const DefaultVelocity = 100
