package model

import "github.com/google/uuid"

type PlaybackState struct {
	Playing       bool
	Index         int
	ProgressionID uuid.UUID
}

// IdleState is the state with nothing sounding.
func IdleState() PlaybackState {
	return PlaybackState{Index: -1}
}
