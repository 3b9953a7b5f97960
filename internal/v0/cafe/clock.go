package cafe

import (
	"time"
)

// DefaultCutoffHour is the local hour after which voting is closed.
const DefaultCutoffHour = 18

// Clock supplies the current time. Injectable so tests can pin arbitrary
// instants instead of manipulating system time.
type Clock interface {
	Now() time.Time
}

type systemClock struct {
	loc *time.Location
}

func (c systemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// NewSystemClock returns a Clock reading wall time in the given location.
func NewSystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return systemClock{loc: loc}
}

// TimeRemaining is the duration until the cutoff, broken into whole hours
// and leftover minutes.
type TimeRemaining struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

// VotingWindow decides whether voting is open and which cycle dates apply.
// Votes cast now are for tomorrow's menu; the winner applied today is the
// result of yesterday's cycle.
type VotingWindow struct {
	clock      Clock
	cutoffHour int
}

// NewVotingWindow creates a window policy around the given clock.
func NewVotingWindow(clock Clock, cutoffHour int) *VotingWindow {
	if cutoffHour <= 0 || cutoffHour > 23 {
		cutoffHour = DefaultCutoffHour
	}
	return &VotingWindow{clock: clock, cutoffHour: cutoffHour}
}

// Closed reports whether the cutoff has passed for the current day.
func (w *VotingWindow) Closed() bool {
	return w.clock.Now().Hour() >= w.cutoffHour
}

// Remaining returns the time left until the cutoff, or nil when closed.
func (w *VotingWindow) Remaining() *TimeRemaining {
	now := w.clock.Now()
	if now.Hour() >= w.cutoffHour {
		return nil
	}
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), w.cutoffHour, 0, 0, 0, now.Location())
	d := cutoff.Sub(now)
	return &TimeRemaining{
		Hours:   int(d.Hours()),
		Minutes: int(d.Minutes()) % 60,
	}
}

// VotingDate is the cycle date votes cast now apply to (tomorrow).
func (w *VotingWindow) VotingDate() string {
	return w.clock.Now().AddDate(0, 0, 1).Format(DateLayout)
}

// ResultDate is the cycle date whose winner is served today.
func (w *VotingWindow) ResultDate() string {
	return w.clock.Now().Format(DateLayout)
}
