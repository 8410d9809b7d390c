package clock

import "time"

// Clock allows injecting time into services.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// NewSystem returns a clock backed by time.Now in UTC.
func NewSystem() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

type fixedClock struct {
	now time.Time
}

// NewFixed returns a clock that always returns the same instant.
func NewFixed(t time.Time) Clock {
	return fixedClock{now: t.UTC()}
}

func (f fixedClock) Now() time.Time {
	return f.now
}

// Sequence returns each instant in turn, repeating the last one when exhausted.
type Sequence struct {
	times []time.Time
	next  int
}

func NewSequence(times ...time.Time) *Sequence {
	return &Sequence{times: times}
}

func (s *Sequence) Now() time.Time {
	if len(s.times) == 0 {
		return time.Now().UTC()
	}
	i := s.next
	if i >= len(s.times) {
		i = len(s.times) - 1
	} else {
		s.next++
	}
	return s.times[i].UTC()
}
