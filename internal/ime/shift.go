package ime

import "time"

type shiftPhase int

const (
	shiftUp shiftPhase = iota
	shiftDown
	shiftConsumed
)

func (p shiftPhase) String() string {
	switch p {
	case shiftDown:
		return "down"
	case shiftConsumed:
		return "consumed"
	}
	return "up"
}

// shiftState tracks the Shift tap that switches language.
type shiftState struct {
	phase  shiftPhase
	downAt time.Time
}

// press records a Shift keydown. Auto-repeat keeps the first timestamp.
func (s *shiftState) press(at time.Time) {
	if s.phase == shiftUp {
		s.phase = shiftDown
		s.downAt = at
	}
}

// consume marks the tap as spoiled by another key pressed with Shift held.
func (s *shiftState) consume() {
	if s.phase == shiftDown {
		s.phase = shiftConsumed
	}
}

// release ends the gesture. tap is true when Shift went down and up with
// nothing in between; held is how long it was down.
func (s *shiftState) release(at time.Time) (held time.Duration, tap bool) {
	tap = s.phase == shiftDown
	if s.phase != shiftUp {
		held = at.Sub(s.downAt)
	}
	*s = shiftState{}
	return held, tap
}
