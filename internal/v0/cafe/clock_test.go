package cafe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, min int) time.Time {
	return time.Date(2025, 1, 1, hour, min, 0, 0, time.UTC)
}

func TestVotingWindowClosed(t *testing.T) {
	clock := &fakeClock{}
	window := NewVotingWindow(clock, 18)

	cases := []struct {
		name   string
		now    time.Time
		closed bool
	}{
		{"morning", at(9, 0), false},
		{"one minute before cutoff", at(17, 59), false},
		{"exactly at cutoff", at(18, 0), true},
		{"after cutoff", at(21, 30), true},
		{"midnight is a new cycle", at(0, 0), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clock.Set(tc.now)
			assert.Equal(t, tc.closed, window.Closed())
		})
	}
}

func TestVotingWindowRemaining(t *testing.T) {
	clock := &fakeClock{}
	window := NewVotingWindow(clock, 18)

	clock.Set(at(15, 15))
	remaining := window.Remaining()
	assert.NotNil(t, remaining)
	assert.Equal(t, 2, remaining.Hours)
	assert.Equal(t, 45, remaining.Minutes)

	clock.Set(at(17, 59))
	remaining = window.Remaining()
	assert.NotNil(t, remaining)
	assert.Equal(t, 0, remaining.Hours)
	assert.Equal(t, 1, remaining.Minutes)

	clock.Set(at(18, 0))
	assert.Nil(t, window.Remaining())
}

func TestVotingWindowCycleDates(t *testing.T) {
	clock := &fakeClock{now: at(10, 0)}
	window := NewVotingWindow(clock, 18)

	assert.Equal(t, "2025-01-02", window.VotingDate())
	assert.Equal(t, "2025-01-01", window.ResultDate())

	// The cycle dates do not shift at the cutoff, only at midnight
	clock.Set(at(20, 0))
	assert.Equal(t, "2025-01-02", window.VotingDate())

	clock.Set(time.Date(2025, 1, 31, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, "2025-02-01", window.VotingDate())
}

func TestNewVotingWindowClampsBadCutoff(t *testing.T) {
	clock := &fakeClock{now: at(19, 0)}

	for _, bad := range []int{-1, 0, 24, 99} {
		window := NewVotingWindow(clock, bad)
		// 19:00 is past the default cutoff of 18
		assert.True(t, window.Closed())
	}
}
