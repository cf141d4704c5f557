package ime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShiftState(t *testing.T) {
	t0 := time.Unix(100, 0)

	tests := []struct {
		name     string
		steps    func(s *shiftState)
		release  time.Duration
		wantTap  bool
		wantHeld time.Duration
	}{
		{
			name:     "lone tap",
			steps:    func(s *shiftState) { s.press(t0) },
			release:  80 * time.Millisecond,
			wantTap:  true,
			wantHeld: 80 * time.Millisecond,
		},
		{
			name: "auto repeat keeps first press",
			steps: func(s *shiftState) {
				s.press(t0)
				s.press(t0.Add(50 * time.Millisecond))
			},
			release:  100 * time.Millisecond,
			wantTap:  true,
			wantHeld: 100 * time.Millisecond,
		},
		{
			name: "consumed by another key",
			steps: func(s *shiftState) {
				s.press(t0)
				s.consume()
			},
			release:  10 * time.Millisecond,
			wantTap:  false,
			wantHeld: 10 * time.Millisecond,
		},
		{
			name:    "release without press",
			steps:   func(s *shiftState) {},
			release: 10 * time.Millisecond,
			wantTap: false,
		},
		{
			name: "consume before press is ignored",
			steps: func(s *shiftState) {
				s.consume()
				s.press(t0)
			},
			release:  5 * time.Millisecond,
			wantTap:  true,
			wantHeld: 5 * time.Millisecond,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s shiftState
			tt.steps(&s)
			held, tap := s.release(t0.Add(tt.release))
			assert.Equal(t, tt.wantTap, tap)
			assert.Equal(t, tt.wantHeld, held)
			assert.Equal(t, shiftUp, s.phase)
		})
	}
}

func TestShiftConsumedStaysUntilRelease(t *testing.T) {
	var s shiftState
	s.press(time.Unix(0, 0))
	s.consume()
	s.press(time.Unix(1, 0))
	assert.Equal(t, shiftConsumed, s.phase)
}
